package role

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRoleRepository implements RoleRepository using in-memory storage
type InMemoryRoleRepository struct {
	mu     sync.RWMutex
	roles  map[int64]Role
	nextID int64
}

// NewInMemoryRoleRepository creates a new in-memory role repository
func NewInMemoryRoleRepository() *InMemoryRoleRepository {
	return &InMemoryRoleRepository{
		roles:  make(map[int64]Role),
		nextID: 1,
	}
}

// FindRoles returns all roles ordered by id
func (r *InMemoryRoleRepository) FindRoles(ctx context.Context) ([]Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roles := make([]Role, 0, len(r.roles))
	for _, role := range r.roles {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })
	return roles, nil
}

// GetRoleByID retrieves a role by ID
func (r *InMemoryRoleRepository) GetRoleByID(ctx context.Context, id int64) (Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	role, ok := r.roles[id]
	if !ok {
		return Role{}, ErrRoleNotFound
	}
	return role, nil
}

// CreateRole creates a new role
func (r *InMemoryRoleRepository) CreateRole(ctx context.Context, name string) (Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(name, 0) {
		return Role{}, ErrRoleNameAlreadyExists
	}

	role := Role{ID: r.nextID, Name: name}
	r.roles[role.ID] = role
	r.nextID++
	return role, nil
}

// UpdateRole updates an existing role
func (r *InMemoryRoleRepository) UpdateRole(ctx context.Context, arg UpdateRoleParams) (Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.roles[arg.ID]; !ok {
		return Role{}, ErrRoleNotFound
	}
	if r.nameTaken(arg.Name, arg.ID) {
		return Role{}, ErrRoleNameAlreadyExists
	}

	role := Role{ID: arg.ID, Name: arg.Name}
	r.roles[arg.ID] = role
	return role, nil
}

// DeleteRole deletes a role
func (r *InMemoryRoleRepository) DeleteRole(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.roles, id)
	return nil
}

// caller must hold mu
func (r *InMemoryRoleRepository) nameTaken(name string, except int64) bool {
	for id, role := range r.roles {
		if id != except && role.Name == name {
			return true
		}
	}
	return false
}
