package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	iamerrors "github.com/tendant/simple-iam/pkg/errors"
	"github.com/tendant/simple-iam/pkg/password"
	"github.com/tendant/simple-iam/pkg/token"
	"github.com/tendant/simple-iam/pkg/user"
)

type faultyFinder struct {
	err error
}

func (f faultyFinder) FindUserByName(ctx context.Context, name string) (user.User, error) {
	return user.User{}, f.err
}

func (f faultyFinder) FindUserByID(ctx context.Context, id int64) (user.User, error) {
	return user.User{}, f.err
}

type slowFinder struct{}

func (slowFinder) FindUserByName(ctx context.Context, name string) (user.User, error) {
	<-ctx.Done()
	return user.User{}, ctx.Err()
}

func (slowFinder) FindUserByID(ctx context.Context, id int64) (user.User, error) {
	<-ctx.Done()
	return user.User{}, ctx.Err()
}

func newTestCodec(t *testing.T) *token.Codec {
	t.Helper()
	codec, err := token.NewCodec("test-signing-secret")
	require.NoError(t, err)
	return codec
}

func newTestHasher(t *testing.T) password.Hasher {
	t.Helper()
	hasher, err := password.NewBcryptHasher(password.MinBcryptCost)
	require.NoError(t, err)
	return hasher
}

// setupAlice returns a service whose store holds alice with password
// "correct-horse".
func setupAlice(t *testing.T) (*Service, *user.UserService, user.User) {
	t.Helper()
	hasher := newTestHasher(t)
	users := user.NewUserService(user.NewInMemoryUserRepository(), hasher)
	alice, err := users.CreateUser(context.Background(), user.UserParams{Name: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	return NewService(users, hasher, newTestCodec(t)), users, alice
}

func TestLoginAndVerify(t *testing.T) {
	svc, _, alice := setupAlice(t)
	ctx := context.Background()

	tok, err := svc.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	claims, err := svc.VerifyToken(ctx, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, map[string]string{"name": "alice"}, claims.Data)
}

func TestLoginOpacity(t *testing.T) {
	svc, _, _ := setupAlice(t)
	ctx := context.Background()

	_, noUser := svc.Login(ctx, "nonexistent-user", "anything")
	_, wrongPassword := svc.Login(ctx, "alice", "wrong-password")

	require.Error(t, noUser)
	require.Error(t, wrongPassword)
	assert.Same(t, ErrAuthFailed, noUser)
	assert.Same(t, ErrAuthFailed, wrongPassword)

	a := iamerrors.Translate(noUser, iamerrors.Options{})
	b := iamerrors.Translate(wrongPassword, iamerrors.Options{})
	assert.Equal(t, a, b)
	assert.Equal(t, iamerrors.ErrCodeUnauthorized, a.Code)
	assert.Equal(t, 401, a.Status)
}

func TestLoginStoreFault(t *testing.T) {
	storeErr := errors.New("connection refused")
	svc := NewService(faultyFinder{err: storeErr}, newTestHasher(t), newTestCodec(t))

	_, err := svc.Login(context.Background(), "alice", "pw")
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, iamerrors.ErrCodeInternal, iamerrors.GetCode(err))
}

func TestLoginLookupTimeout(t *testing.T) {
	svc := NewService(slowFinder{}, newTestHasher(t), newTestCodec(t), WithLookupTimeout(10*time.Millisecond))

	start := time.Now()
	_, err := svc.Login(context.Background(), "alice", "pw")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestVerifyTokenFailures(t *testing.T) {
	svc, _, _ := setupAlice(t)
	ctx := context.Background()

	tok, err := svc.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)

	other, err := token.NewCodec("another-secret")
	require.NoError(t, err)
	forged, err := other.Encode(token.Claims{UserID: 1, Username: "alice"})
	require.NoError(t, err)

	for name, tokenStr := range map[string]string{
		"Empty":       "",
		"Garbage":     "not-a-token",
		"Tampered":    tok.Token[:len(tok.Token)-2] + "xx",
		"WrongSecret": forged,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.VerifyToken(ctx, tokenStr)
			assert.Same(t, ErrAuthFailed, err)
		})
	}
}

func TestCurrentUser(t *testing.T) {
	svc, users, alice := setupAlice(t)
	ctx := context.Background()

	u, err := svc.CurrentUser(ctx, token.Claims{UserID: alice.ID, Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, alice, u)

	require.NoError(t, users.DeleteUser(ctx, alice.ID))
	_, err = svc.CurrentUser(ctx, token.Claims{UserID: alice.ID, Username: "alice"})
	assert.Same(t, ErrAuthFailed, err)
}
