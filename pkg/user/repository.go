package user

import (
	"context"
	"log/slog"

	iamerrors "github.com/tendant/simple-iam/pkg/errors"
)

var (
	ErrUserNotFound          = iamerrors.NotFound("user")
	ErrUserNameAlreadyExists = iamerrors.New(iamerrors.ErrCodeAlreadyExists, "user name already exists")
)

// User is a stored user record
type User struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	HashedPassword string `json:"-"`
}

// LogValue implements slog.LogValuer and leaves out the password hash
func (u User) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("id", u.ID),
		slog.String("name", u.Name),
	)
}

// CreateUserRecord contains the columns of a new user
type CreateUserRecord struct {
	Name           string
	HashedPassword string
}

// UpdateUserRecord contains the columns of an updated user
type UpdateUserRecord struct {
	ID             int64
	Name           string
	HashedPassword string
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	FindUsers(ctx context.Context) ([]User, error)
	GetUserByID(ctx context.Context, id int64) (User, error)
	GetUserByName(ctx context.Context, name string) (User, error)
	CreateUser(ctx context.Context, arg CreateUserRecord) (User, error)
	UpdateUser(ctx context.Context, arg UpdateUserRecord) (User, error)
	DeleteUser(ctx context.Context, id int64) error
}
