package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-signing-secret")

func seededStore(t *testing.T) *MemoryUserStore {
	t.Helper()
	alice, err := NewUser("alice", "alice@example.com", "s3cret!", "USER")
	require.NoError(t, err)
	return NewMemoryUserStore(alice)
}

func TestLogin_HappyPath(t *testing.T) {
	svc, err := NewService(seededStore(t), testSecret, time.Hour)
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "alice", "s3cret!")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	principal, err := svc.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "alice", principal.Username)
	require.Equal(t, []string{"USER"}, principal.Roles)
	require.NotEmpty(t, principal.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, err := NewService(seededStore(t), testSecret, time.Hour)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, err := NewService(seededStore(t), testSecret, time.Hour)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "mallory", "s3cret!")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

type failingStore struct{}

func (failingStore) FindByUsername(context.Context, string) (*User, error) {
	return nil, errors.New("backend down")
}

func TestLogin_StoreFailure(t *testing.T) {
	svc, err := NewService(failingStore{}, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice", "s3cret!")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerify_TamperedToken(t *testing.T) {
	svc, err := NewService(seededStore(t), testSecret, time.Hour)
	require.NoError(t, err)
	token, err := svc.Login(context.Background(), "alice", "s3cret!")
	require.NoError(t, err)

	other, err := NewService(seededStore(t), []byte("different-secret"), time.Hour)
	require.NoError(t, err)
	_, err = other.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_ExpiredToken(t *testing.T) {
	svc, err := NewService(seededStore(t), testSecret, -time.Minute)
	require.NoError(t, err)

	// NewService replaces non-positive TTLs with the default, so sign an
	// expired token directly.
	alice, err := NewUser("alice", "", "pw")
	require.NoError(t, err)
	token, err := signToken(testSecret, &alice, -time.Minute)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	svc, err := NewService(seededStore(t), testSecret, time.Hour)
	require.NoError(t, err)

	_, err = svc.Verify("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewService_Validation(t *testing.T) {
	_, err := NewService(nil, testSecret, time.Hour)
	require.Error(t, err)

	_, err = NewService(seededStore(t), nil, time.Hour)
	require.Error(t, err)
}

func TestMemoryUserStore_UnknownUsername(t *testing.T) {
	store := seededStore(t)
	u, err := store.FindByUsername(context.Background(), "nobody")
	require.NoError(t, err)
	require.Nil(t, u)
}
