package websocket

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	jose "gopkg.in/go-jose/go-jose.v2"
	"gopkg.in/go-jose/go-jose.v2/jwt"
)

var testSecret = []byte("websocket-test-secret-with-32-bytes!")

func signToken(t *testing.T, secret []byte, claims jwt.Claims) string {
	t.Helper()
	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.HS256, Key: secret}, (&jose.SignerOptions{}).WithType("JWT"))
	require.NoError(t, err)

	token, err := jwt.Signed(signer).Claims(claims).CompactSerialize()
	require.NoError(t, err)
	return token
}

func validClaims(subject string) jwt.Claims {
	now := time.Now()
	return jwt.Claims{
		Subject:  subject,
		Issuer:   "fortuna-ledger",
		Audience: jwt.Audience{"fortuna-ledger-api"},
		IssuedAt: jwt.NewNumericDate(now),
		Expiry:   jwt.NewNumericDate(now.Add(time.Hour)),
	}
}

func TestJWTValidator_ValidateToken(t *testing.T) {
	v, err := NewJWTValidator(testSecret, "fortuna-ledger", "fortuna-ledger-api")
	require.NoError(t, err)

	userID := uuid.New()
	got, err := v.ValidateToken(signToken(t, testSecret, validClaims(userID.String())))
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestJWTValidator_Rejects(t *testing.T) {
	v, err := NewJWTValidator(testSecret, "fortuna-ledger", "fortuna-ledger-api")
	require.NoError(t, err)

	expired := validClaims(uuid.NewString())
	expired.IssuedAt = jwt.NewNumericDate(time.Now().Add(-3 * time.Hour))
	expired.Expiry = jwt.NewNumericDate(time.Now().Add(-2 * time.Hour))

	wrongAudience := validClaims(uuid.NewString())
	wrongAudience.Audience = jwt.Audience{"someone-else"}

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-jwt"},
		{name: "wrong secret", token: signToken(t, []byte("another-secret-another-secret-12345"), validClaims(uuid.NewString()))},
		{name: "expired", token: signToken(t, testSecret, expired)},
		{name: "wrong audience", token: signToken(t, testSecret, wrongAudience)},
		{name: "subject is not a user id", token: signToken(t, testSecret, validClaims("auth0|123"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.ValidateToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
