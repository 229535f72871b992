package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 24 * time.Hour

// ErrInvalidCredentials is returned for both an unknown username and a
// wrong password, so callers cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// Service authenticates users and mints access tokens.
type Service struct {
	users  UserStore
	secret []byte
	ttl    time.Duration
}

// NewService creates the auth service. The signing secret comes from
// configuration or a secret source; it is never read here.
func NewService(users UserStore, secret []byte, ttl time.Duration) (*Service, error) {
	if users == nil {
		return nil, errors.New("auth: user store must not be nil")
	}
	if len(secret) == 0 {
		return nil, errors.New("auth: signing secret must not be empty")
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Service{users: users, secret: secret, ttl: ttl}, nil
}

// Login validates the credentials and returns a signed access token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("auth: look up user: %w", err)
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := signToken(s.secret, user, s.ttl)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return token, nil
}

// Verify checks a bearer token and returns the principal it names.
func (s *Service) Verify(tokenString string) (*Principal, error) {
	return verifyToken(s.secret, tokenString)
}
