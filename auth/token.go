package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the data stored inside the JWT. UserID is the opaque subject
// identifier the messaging core attaches to each request.
type Claims struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenProvider signs and validates session tokens. The secret is injected;
// it should come from the environment or a secret manager, never a literal.
type TokenProvider struct {
	secret   []byte
	duration time.Duration
	issuer   string
}

func NewTokenProvider(secret string, duration time.Duration) *TokenProvider {
	return &TokenProvider{secret: []byte(secret), duration: duration, issuer: "chat-core"}
}

// Generate creates a signed JWT for a specific user.
func (p *TokenProvider) Generate(userID string, roles []string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(p.duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    p.issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Validate parses the token, checks the signature and expiry, and returns
// the claims carrying the subject id.
func (p *TokenProvider) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return p.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}
