package token_test

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpress/inkpress/internal/token"
	_ "github.com/inkpress/inkpress/testing"
)

func TestIssueValidateRoundTrip(t *testing.T) {
	codec := token.NewCodec("test-secret")

	signed, err := codec.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	userID, err := codec.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestValidateTamperedToken(t *testing.T) {
	codec := token.NewCodec("test-secret")

	signed, err := codec.Issue(42)
	require.NoError(t, err)

	// Flip one character somewhere in the signature.
	tampered := []byte(signed)
	last := len(tampered) - 1
	if tampered[last] == 'a' {
		tampered[last] = 'b'
	} else {
		tampered[last] = 'a'
	}

	_, err = codec.Validate(string(tampered))
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestValidateWrongSecret(t *testing.T) {
	signed, err := token.NewCodec("secret-one").Issue(7)
	require.NoError(t, err)

	_, err = token.NewCodec("secret-two").Validate(signed)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestValidateMalformed(t *testing.T) {
	codec := token.NewCodec("test-secret")

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := codec.Validate(raw)
		assert.ErrorIs(t, err, token.ErrInvalidToken, "raw=%q", raw)
	}
}

func TestValidateMissingIDClaim(t *testing.T) {
	secret := "test-secret"
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "42"}).
		SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = token.NewCodec(secret).Validate(signed)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestValidateRejectsUnsignedAlg(t *testing.T) {
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": 42}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = token.NewCodec("test-secret").Validate(unsigned)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}
