//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	"chat-core/auth"
	"chat-core/errors"
	"chat-core/repositories"
	"fmt"
)

type IAuthService interface {
	Register(email, password string) (Token, error)
	Login(email, password string) (Token, error)
}

type Token string

// AuthService is the credential collaborator of the core: it only ever
// produces the opaque user id the messaging use cases consume. The hasher
// is a strategy so tests can swap in a cheap double.
type AuthService struct {
	users  repositories.IUserRepository
	hasher auth.IPasswordHasher
	tokens *auth.TokenProvider
}

func NewAuthService(users repositories.IUserRepository, hasher auth.IPasswordHasher, tokens *auth.TokenProvider) IAuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

func (s *AuthService) Register(email, password string) (Token, error) {
	// 1. Validate business rules (email format, password complexity)
	// before any expensive cryptographic operation.
	if err := auth.ValidateRegister(auth.RegisterRequest{Email: email, Password: password}); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidPassword, err)
	}

	// 2. Hash here so the repository never sees plain passwords
	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	// 3. Persist; propagates ErrUserAlreadyExists if the email is taken
	userID, err := s.users.CreateUser(email, hashedPassword)
	if err != nil {
		return "", err
	}

	// 4. Initial session token
	token, err := s.tokens.Generate(userID, []string{"user"})
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return Token(token), nil
}

func (s *AuthService) Login(email, password string) (Token, error) {
	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		// Generic error to prevent user enumeration attacks
		return "", errors.ErrInvalidCredentials
	}

	match, err := s.hasher.Compare(password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Roles)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return Token(token), nil
}
