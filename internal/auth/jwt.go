// Package auth issues and validates the session credentials handed out after
// login and passcode verification.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"vaultapi/internal/common"
)

// Claims extends the registered JWT claims with the account's username, which
// is the identity threaded explicitly through every service operation.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// GenerateToken signs an HS256 token for the username, valid for validity.
func GenerateToken(username string, secret []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		Username: username,
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// UsernameFromToken parses and validates a token, returning the embedded
// username. Expired, malformed, or wrongly-signed tokens yield
// common.ErrUnauthorized.
func UsernameFromToken(tokenString string, secret []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return "", common.ErrUnauthorized
	}
	if claims.Username == "" {
		return "", common.ErrUnauthorized
	}

	return claims.Username, nil
}
