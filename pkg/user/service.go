package user

import (
	"context"
	"fmt"
	"log/slog"

	iamerrors "github.com/tendant/simple-iam/pkg/errors"
	"github.com/tendant/simple-iam/pkg/password"
	"github.com/tendant/simple-iam/pkg/validate"
)

// MaxPasswordBytes is the longest password bcrypt hashes in full. The limit
// is in bytes, so multibyte passwords hit it with fewer characters.
const MaxPasswordBytes = 72

// UserParams are the caller-supplied fields of a user
type UserParams struct {
	Name     string
	Password string
}

type UserService struct {
	repo   UserRepository
	hasher password.Hasher
}

func NewUserService(repo UserRepository, hasher password.Hasher) *UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
	}
}

func (s *UserService) FindUsers(ctx context.Context) ([]User, error) {
	return s.repo.FindUsers(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id int64) (User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// CreateUser hashes the password and stores a new user
func (s *UserService) CreateUser(ctx context.Context, params UserParams) (User, error) {
	hashed, err := s.hashPassword(params.Password)
	if err != nil {
		return User{}, err
	}

	u, err := s.repo.CreateUser(ctx, CreateUserRecord{Name: params.Name, HashedPassword: hashed})
	if err != nil {
		return User{}, err
	}
	slog.Info("User created", "user", u)
	return u, nil
}

// UpdateUser replaces the name and password of an existing user
func (s *UserService) UpdateUser(ctx context.Context, id int64, params UserParams) (User, error) {
	hashed, err := s.hashPassword(params.Password)
	if err != nil {
		return User{}, err
	}

	u, err := s.repo.UpdateUser(ctx, UpdateUserRecord{ID: id, Name: params.Name, HashedPassword: hashed})
	if err != nil {
		return User{}, err
	}
	slog.Info("User updated", "user", u)
	return u, nil
}

func (s *UserService) hashPassword(plaintext string) (string, error) {
	if len(plaintext) > MaxPasswordBytes {
		return "", &validate.ValidationError{
			Shape:  "user",
			Fields: []validate.FieldError{{Field: "password", Reason: fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes)}},
		}
	}
	hashed, err := s.hasher.Hash(plaintext)
	if err != nil {
		return "", iamerrors.InternalWrap(err, "failed to hash password")
	}
	return hashed, nil
}

// DeleteUser removes a user. Deleting a missing user succeeds.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	slog.Info("User deleted", "id", id)
	return nil
}

// FindUserByName looks up the credential record for name
func (s *UserService) FindUserByName(ctx context.Context, name string) (User, error) {
	return s.repo.GetUserByName(ctx, name)
}

// FindUserByID looks up the credential record for id
func (s *UserService) FindUserByID(ctx context.Context, id int64) (User, error) {
	return s.repo.GetUserByID(ctx, id)
}
