// Package token signs identity claims into bearer tokens and verifies them.
//
// Tokens are HS256 JWTs. They carry no server-side state; a token is valid
// until its optional exp claim passes.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrMissingSecret is returned by NewCodec when no signing secret is
	// configured. Callers must treat it as fatal.
	ErrMissingSecret = errors.New("token signing secret is not configured")

	// ErrTokenInvalid wraps every decode failure
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims are the identity assertions embedded in a token. Data values are
// strings so that decoding returns exactly what was encoded.
type Claims struct {
	UserID   int64             `json:"uid"`
	Username string            `json:"username"`
	Data     map[string]string `json:"data,omitempty"`
}

type wireClaims struct {
	Claims
	jwt.RegisteredClaims
}

// Codec encodes and decodes tokens with a single HMAC secret. It is safe
// for concurrent use.
type Codec struct {
	secret []byte
	expiry time.Duration
	issuer string
	now    func() time.Time
	parser *jwt.Parser
}

// NewCodec creates a Codec signing with secret
func NewCodec(secret string, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}

	c := &Codec{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(c.issuer))
	}
	if c.expiry > 0 {
		parserOpts = append(parserOpts, jwt.WithExpirationRequired())
	}
	c.parser = jwt.NewParser(parserOpts...)

	return c, nil
}

// Encode signs claims into a token
func (c *Codec) Encode(claims Claims) (string, error) {
	now := c.now().UTC()
	wc := wireClaims{
		Claims: claims,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   c.issuer,
			IssuedAt: jwt.NewNumericDate(now),
			ID:       uuid.New().String(),
		},
	}
	if c.expiry > 0 {
		wc.ExpiresAt = jwt.NewNumericDate(now.Add(c.expiry))
	}

	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, wc).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenStr, nil
}

// Decode verifies tokenStr and returns the claims it was encoded with.
// Every failure wraps ErrTokenInvalid.
func (c *Codec) Decode(tokenStr string) (Claims, error) {
	var wc wireClaims
	_, err := c.parser.ParseWithClaims(tokenStr, &wc, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
	if wc.UserID == 0 {
		return Claims{}, fmt.Errorf("%w: missing uid claim", ErrTokenInvalid)
	}
	return wc.Claims, nil
}
