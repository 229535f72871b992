package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is an authenticatable account. PasswordHash is a bcrypt hash; the
// plaintext never leaves Login.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash []byte
	Roles        []string
}

// UserStore looks up accounts by username. It is an injected dependency so
// a persistent implementation can replace the in-memory one without
// touching the auth service.
type UserStore interface {
	// FindByUsername returns (nil, nil) when the username is unknown.
	FindByUsername(ctx context.Context, username string) (*User, error)
}

// MemoryUserStore is a fixed, read-only UserStore for development and
// tests.
type MemoryUserStore struct {
	users map[string]*User
}

// NewMemoryUserStore indexes the given users by username.
func NewMemoryUserStore(users ...User) *MemoryUserStore {
	byName := make(map[string]*User, len(users))
	for i := range users {
		u := users[i]
		byName[u.Username] = &u
	}
	return &MemoryUserStore{users: byName}
}

func (s *MemoryUserStore) FindByUsername(_ context.Context, username string) (*User, error) {
	u, ok := s.users[username]
	if !ok {
		return nil, nil
	}
	return u, nil
}

// NewUser builds a User with a generated id and a bcrypt password hash.
func NewUser(username, email, password string, roles ...string) (User, error) {
	if username == "" {
		return User{}, errors.New("auth: username must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	return User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Roles:        roles,
	}, nil
}
