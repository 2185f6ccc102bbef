package role

import (
	"context"
	"log/slog"
)

// RoleService provides methods for role management
type RoleService struct {
	repo RoleRepository
}

func NewRoleService(repo RoleRepository) *RoleService {
	return &RoleService{
		repo: repo,
	}
}

func (s *RoleService) FindRoles(ctx context.Context) ([]Role, error) {
	return s.repo.FindRoles(ctx)
}

// CreateRole adds a new role
func (s *RoleService) CreateRole(ctx context.Context, name string) (Role, error) {
	role, err := s.repo.CreateRole(ctx, name)
	if err != nil {
		return Role{}, err
	}
	slog.Info("Role created", "id", role.ID, "name", role.Name)
	return role, nil
}

// UpdateRole renames an existing role
func (s *RoleService) UpdateRole(ctx context.Context, id int64, name string) (Role, error) {
	return s.repo.UpdateRole(ctx, UpdateRoleParams{ID: id, Name: name})
}

// DeleteRole removes a role. Deleting a missing role succeeds.
func (s *RoleService) DeleteRole(ctx context.Context, id int64) error {
	if err := s.repo.DeleteRole(ctx, id); err != nil {
		return err
	}
	slog.Info("Role deleted", "id", id)
	return nil
}

// GetRole retrieves a role by id
func (s *RoleService) GetRole(ctx context.Context, id int64) (Role, error) {
	return s.repo.GetRoleByID(ctx, id)
}
