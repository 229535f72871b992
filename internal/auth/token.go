// Package auth issues and verifies the access tokens that carry the
// authenticated principal used as the message sender.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "message-api"

// ErrInvalidToken reports a token that failed signature, shape or expiry
// checks.
var ErrInvalidToken = errors.New("auth: invalid token")

// Claims is the payload stored inside an access token.
type Claims struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// Principal is the verified identity handed to the presentation layer.
// Username is the opaque sender identifier the message core expects.
type Principal struct {
	ID       string
	Username string
	Roles    []string
}

func signToken(secret []byte, user *User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username: user.Username,
		Roles:    user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func verifyToken(secret []byte, tokenString string) (*Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Username == "" {
		return nil, ErrInvalidToken
	}
	return &Principal{
		ID:       claims.Subject,
		Username: claims.Username,
		Roles:    claims.Roles,
	}, nil
}
