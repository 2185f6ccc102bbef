package role

import (
	"context"

	iamerrors "github.com/tendant/simple-iam/pkg/errors"
)

var (
	ErrRoleNotFound          = iamerrors.NotFound("role")
	ErrRoleNameAlreadyExists = iamerrors.New(iamerrors.ErrCodeAlreadyExists, "role name already exists")
)

// Role is a named role
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UpdateRoleParams contains the parameters for updating a role
type UpdateRoleParams struct {
	ID   int64
	Name string
}

// RoleRepository defines the interface for role storage
type RoleRepository interface {
	FindRoles(ctx context.Context) ([]Role, error)
	GetRoleByID(ctx context.Context, id int64) (Role, error)
	CreateRole(ctx context.Context, name string) (Role, error)
	UpdateRole(ctx context.Context, arg UpdateRoleParams) (Role, error)
	DeleteRole(ctx context.Context, id int64) error
}
