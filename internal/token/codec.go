// Package token issues and validates the opaque bearer tokens that bind a
// user id to a request. Tokens are HS256 JWTs signed with a process-wide
// secret; validation failure is never fatal and simply means "unauthenticated".
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers signature mismatches, malformed tokens and tokens
// whose claims lack a numeric id.
var ErrInvalidToken = errors.New("invalid token")

// Codec signs and verifies bearer tokens.
type Codec struct {
	secret []byte
}

// NewCodec builds a Codec over the process-wide signing secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Issue produces a signed token embedding the user id and issuance time.
func (c *Codec) Issue(userID int64) (string, error) {
	claims := jwt.MapClaims{
		"id":  userID,
		"iat": jwt.NewNumericDate(time.Now()),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Validate verifies the signature and structural shape of a token and
// returns the embedded user id.
func (c *Codec) Validate(raw string) (int64, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	id, ok := claims["id"].(float64)
	if !ok {
		return 0, ErrInvalidToken
	}
	return int64(id), nil
}
