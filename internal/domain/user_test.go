package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("creates valid user", func(t *testing.T) {
		t.Parallel()
		user, err := NewUser("alice", "alice@example.com", "password123")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, "password123", user.Password)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("normalizes email and trims username", func(t *testing.T) {
		t.Parallel()
		user, err := NewUser("  bob  ", "  Bob@Example.COM  ", "password123")
		require.NoError(t, err)

		assert.Equal(t, "bob", user.Username)
		assert.Equal(t, "bob@example.com", user.Email)
	})
}

func TestUserValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "valid",
			username: "alice",
			email:    "alice@example.com",
			password: "password123",
		},
		{
			name:     "empty username",
			username: "",
			email:    "alice@example.com",
			password: "password123",
			wantErr:  ErrEmptyUsername,
		},
		{
			name:     "username too short",
			username: "ab",
			email:    "alice@example.com",
			password: "password123",
			wantErr:  ErrUsernameTooShort,
		},
		{
			name:     "username too long",
			username: strings.Repeat("a", 31),
			email:    "alice@example.com",
			password: "password123",
			wantErr:  ErrUsernameTooLong,
		},
		{
			name:     "empty email",
			username: "alice",
			email:    "",
			password: "password123",
			wantErr:  ErrEmptyEmail,
		},
		{
			name:     "malformed email",
			username: "alice",
			email:    "not-an-email",
			password: "password123",
			wantErr:  ErrInvalidEmail,
		},
		{
			name:     "email without domain dot",
			username: "alice",
			email:    "alice@localhost",
			password: "password123",
			wantErr:  ErrInvalidEmail,
		},
		{
			name:     "password too short",
			username: "alice",
			email:    "alice@example.com",
			password: "short",
			wantErr:  ErrPasswordTooShort,
		},
		{
			name:     "password too long",
			username: "alice",
			email:    "alice@example.com",
			password: strings.Repeat("p", 73),
			wantErr:  ErrPasswordTooLong,
		},
		{
			name:     "no password at all",
			username: "alice",
			email:    "alice@example.com",
			password: "",
			wantErr:  ErrEmptyPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			user := &User{
				ID:       uuid.New(),
				Username: tt.username,
				Email:    tt.email,
				Password: tt.password,
			}

			err := user.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("stored user with only a hash is valid", func(t *testing.T) {
		t.Parallel()
		user := &User{
			ID:             uuid.New(),
			Username:       "alice",
			Email:          "alice@example.com",
			HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
		}
		assert.NoError(t, user.Validate())
	})

	t.Run("nil ID", func(t *testing.T) {
		t.Parallel()
		user := &User{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "password123",
		}
		assert.ErrorIs(t, user.Validate(), ErrEmptyUserID)
	})
}
