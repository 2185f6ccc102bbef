package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	iamerrors "github.com/tendant/simple-iam/pkg/errors"
	"github.com/tendant/simple-iam/pkg/password"
	"github.com/tendant/simple-iam/pkg/token"
	"github.com/tendant/simple-iam/pkg/user"
)

// DefaultLookupTimeout bounds each credential store lookup
const DefaultLookupTimeout = 5 * time.Second

// ErrAuthFailed is the only failure Login and VerifyToken report for bad
// credentials or bad tokens.
var ErrAuthFailed = iamerrors.Unauthorized("authentication failed")

// UserFinder is the credential store consumed by Service
type UserFinder interface {
	FindUserByName(ctx context.Context, name string) (user.User, error)
	FindUserByID(ctx context.Context, id int64) (user.User, error)
}

// Token is the result of a successful login
type Token struct {
	Token string `json:"token"`
}

type Service struct {
	users         UserFinder
	hasher        password.Hasher
	codec         *token.Codec
	lookupTimeout time.Duration

	dummyOnce sync.Once
	dummyHash string
}

// Option configures a Service
type Option func(*Service)

// WithLookupTimeout bounds each credential store lookup. Zero or negative
// disables the bound.
func WithLookupTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.lookupTimeout = d
	}
}

func NewService(users UserFinder, hasher password.Hasher, codec *token.Codec, opts ...Option) *Service {
	s := &Service{
		users:         users,
		hasher:        hasher,
		codec:         codec,
		lookupTimeout: DefaultLookupTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) withLookupTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.lookupTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.lookupTimeout)
}

// dummy returns a hash to verify against when the user does not exist, so
// both failure paths cost one hash verification.
func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("simple-iam-dummy-password")
		if err != nil {
			slog.Warn("Failed to compute dummy password hash", "err", err)
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

// Login verifies the credentials and returns a signed token
func (s *Service) Login(ctx context.Context, username, plaintext string) (Token, error) {
	lookupCtx, cancel := s.withLookupTimeout(ctx)
	defer cancel()

	u, err := s.users.FindUserByName(lookupCtx, username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			s.hasher.Verify(plaintext, s.dummy())
			slog.Info("Login failed", "username", username, "reason", "no such user")
			return Token{}, ErrAuthFailed
		}
		return Token{}, iamerrors.InternalWrap(err, "failed to look up user")
	}

	if !s.hasher.Verify(plaintext, u.HashedPassword) {
		slog.Info("Login failed", "username", username, "reason", "password mismatch")
		return Token{}, ErrAuthFailed
	}

	tokenStr, err := s.codec.Encode(token.Claims{
		UserID:   u.ID,
		Username: u.Name,
		Data:     map[string]string{"name": u.Name},
	})
	if err != nil {
		return Token{}, iamerrors.InternalWrap(err, "failed to issue token")
	}

	slog.Info("Login succeeded", "user", u)
	return Token{Token: tokenStr}, nil
}

// VerifyToken returns the claims of a valid token
func (s *Service) VerifyToken(ctx context.Context, tokenStr string) (token.Claims, error) {
	claims, err := s.codec.Decode(tokenStr)
	if err != nil {
		slog.InfoContext(ctx, "Token verification failed", "err", err)
		return token.Claims{}, ErrAuthFailed
	}
	return claims, nil
}

// CurrentUser returns the stored user the claims were issued for. A user
// deleted after the token was issued is an authentication failure.
func (s *Service) CurrentUser(ctx context.Context, claims token.Claims) (user.User, error) {
	lookupCtx, cancel := s.withLookupTimeout(ctx)
	defer cancel()

	u, err := s.users.FindUserByID(lookupCtx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			slog.Info("Token refers to a missing user", "uid", claims.UserID)
			return user.User{}, ErrAuthFailed
		}
		return user.User{}, iamerrors.InternalWrap(err, "failed to look up user")
	}
	return u, nil
}
