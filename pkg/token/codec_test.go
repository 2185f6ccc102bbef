package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-signing-secret"

func newTestCodec(t *testing.T, opts ...Option) *Codec {
	t.Helper()
	c, err := NewCodec(testSecret, opts...)
	require.NoError(t, err)
	return c
}

func TestNewCodecMissingSecret(t *testing.T) {
	c, err := NewCodec("")
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestRoundTrip(t *testing.T) {
	c := newTestCodec(t)

	tests := []struct {
		name   string
		claims Claims
	}{
		{"IdentityOnly", Claims{UserID: 1, Username: "alice"}},
		{"WithData", Claims{UserID: 42, Username: "bob", Data: map[string]string{"name": "bob", "role": "admin"}}},
		{"NumericLookingData", Claims{UserID: 9, Username: "carol", Data: map[string]string{"employee_id": "12345", "level": "3.5"}}},
		{"Unicode", Claims{UserID: 7, Username: "zoë"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenStr, err := c.Encode(tt.claims)
			require.NoError(t, err)
			require.NotEmpty(t, tokenStr)

			got, err := c.Decode(tokenStr)
			require.NoError(t, err)
			assert.Equal(t, tt.claims, got)
		})
	}
}

func TestTamperDetection(t *testing.T) {
	c := newTestCodec(t)
	tokenStr, err := c.Encode(Claims{UserID: 1, Username: "alice", Data: map[string]string{"name": "alice"}})
	require.NoError(t, err)

	for i := 0; i < len(tokenStr); i++ {
		replacement := byte('A')
		if tokenStr[i] == 'A' {
			replacement = 'B'
		}
		tampered := tokenStr[:i] + string(replacement) + tokenStr[i+1:]

		_, err := c.Decode(tampered)
		assert.ErrorIs(t, err, ErrTokenInvalid, "mutation at index %d was accepted", i)
	}
}

func TestWrongSecret(t *testing.T) {
	tokenStr, err := newTestCodec(t).Encode(Claims{UserID: 1, Username: "alice"})
	require.NoError(t, err)

	other, err := NewCodec("another-secret")
	require.NoError(t, err)

	_, err = other.Decode(tokenStr)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestMalformed(t *testing.T) {
	c := newTestCodec(t)
	for _, tokenStr := range []string{"", "abc", "a.b.c", "a.b", strings.Repeat(".", 5)} {
		_, err := c.Decode(tokenStr)
		assert.ErrorIs(t, err, ErrTokenInvalid, "token %q", tokenStr)
	}
}

func TestRejectsOtherAlgorithms(t *testing.T) {
	c := newTestCodec(t)

	t.Run("None", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"uid": 1, "username": "alice"})
		tokenStr, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = c.Decode(tokenStr)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("HS512", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"uid": 1, "username": "alice"})
		tokenStr, err := tok.SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = c.Decode(tokenStr)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestClaimsShape(t *testing.T) {
	c := newTestCodec(t)

	t.Run("MissingUID", func(t *testing.T) {
		tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"username": "alice"}).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = c.Decode(tokenStr)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("WrongType", func(t *testing.T) {
		tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"uid": "one", "username": "alice"}).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = c.Decode(tokenStr)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("NonStringData", func(t *testing.T) {
		claims := jwt.MapClaims{"uid": 1, "username": "alice", "data": map[string]any{"level": 3}}
		tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = c.Decode(tokenStr)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	c := newTestCodec(t, WithExpiry(time.Minute), WithClock(clock))

	tokenStr, err := c.Encode(Claims{UserID: 1, Username: "alice"})
	require.NoError(t, err)

	_, err = c.Decode(tokenStr)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = c.Decode(tokenStr)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))

	t.Run("MissingExpRejected", func(t *testing.T) {
		noExpiry := newTestCodec(t, WithClock(clock))
		tokenStr, err := noExpiry.Encode(Claims{UserID: 1, Username: "alice"})
		require.NoError(t, err)

		_, err = c.Decode(tokenStr)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestIssuer(t *testing.T) {
	c := newTestCodec(t, WithIssuer("simple-iam"))
	tokenStr, err := c.Encode(Claims{UserID: 1, Username: "alice"})
	require.NoError(t, err)

	_, err = c.Decode(tokenStr)
	require.NoError(t, err)

	other := newTestCodec(t, WithIssuer("someone-else"))
	_, err = other.Decode(tokenStr)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
