package repositories

import (
	"chat-core/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(newTestDB(t))

	t.Run("should round-trip a created user by email", func(t *testing.T) {
		id, err := repo.CreateUser("alice@example.com", "$argon2id$fake-hash")
		req.NoError(err)
		req.NotEmpty(id)

		user, err := repo.GetUserByEmail("alice@example.com")
		req.NoError(err)
		req.Equal(id, user.ID)
		req.Equal("alice@example.com", user.Email)
		req.Equal("$argon2id$fake-hash", user.PasswordHash)
		req.Equal([]string{"user"}, user.Roles)
		req.False(user.CreatedAt.IsZero())
	})

	t.Run("should refuse a duplicate email", func(t *testing.T) {
		_, err := repo.CreateUser("alice@example.com", "$argon2id$other-hash")
		req.ErrorIs(err, errors.ErrUserAlreadyExists)
	})

	t.Run("should fail on an unknown email", func(t *testing.T) {
		_, err := repo.GetUserByEmail("nobody@example.com")
		req.Error(err)
	})
}
