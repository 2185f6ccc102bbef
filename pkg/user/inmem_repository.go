package user

import (
	"context"
	"sort"
	"sync"
)

// InMemoryUserRepository implements UserRepository using in-memory storage
type InMemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[int64]User
	nextID int64
}

// NewInMemoryUserRepository creates a new in-memory user repository
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users:  make(map[int64]User),
		nextID: 1,
	}
}

// FindUsers returns all users ordered by id
func (r *InMemoryUserRepository) FindUsers(ctx context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// GetUserByID retrieves a user by ID
func (r *InMemoryUserRepository) GetUserByID(ctx context.Context, id int64) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

// GetUserByName retrieves a user by name
func (r *InMemoryUserRepository) GetUserByName(ctx context.Context, name string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Name == name {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

// CreateUser creates a new user
func (r *InMemoryUserRepository) CreateUser(ctx context.Context, arg CreateUserRecord) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(arg.Name, 0) {
		return User{}, ErrUserNameAlreadyExists
	}

	u := User{ID: r.nextID, Name: arg.Name, HashedPassword: arg.HashedPassword}
	r.users[u.ID] = u
	r.nextID++
	return u, nil
}

// UpdateUser updates an existing user
func (r *InMemoryUserRepository) UpdateUser(ctx context.Context, arg UpdateUserRecord) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[arg.ID]; !ok {
		return User{}, ErrUserNotFound
	}
	if r.nameTaken(arg.Name, arg.ID) {
		return User{}, ErrUserNameAlreadyExists
	}

	u := User{ID: arg.ID, Name: arg.Name, HashedPassword: arg.HashedPassword}
	r.users[arg.ID] = u
	return u, nil
}

// DeleteUser deletes a user
func (r *InMemoryUserRepository) DeleteUser(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users, id)
	return nil
}

// caller must hold mu
func (r *InMemoryUserRepository) nameTaken(name string, except int64) bool {
	for id, u := range r.users {
		if id != except && u.Name == name {
			return true
		}
	}
	return false
}
