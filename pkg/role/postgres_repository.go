package role

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tendant/simple-iam/pkg/utils"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PostgresRoleRepository implements RoleRepository using PostgreSQL
type PostgresRoleRepository struct {
	db DBTX
}

// NewPostgresRoleRepository creates a new PostgreSQL role repository
func NewPostgresRoleRepository(db DBTX) *PostgresRoleRepository {
	return &PostgresRoleRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *PostgresRoleRepository) WithTx(tx pgx.Tx) *PostgresRoleRepository {
	return &PostgresRoleRepository{db: tx}
}

const findRoles = `SELECT id, name FROM roles ORDER BY id`

func (r *PostgresRoleRepository) FindRoles(ctx context.Context) ([]Role, error) {
	rows, err := r.db.Query(ctx, findRoles)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	roles := []Role{}
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate roles: %w", err)
	}
	return roles, nil
}

const getRoleByID = `SELECT id, name FROM roles WHERE id = $1`

func (r *PostgresRoleRepository) GetRoleByID(ctx context.Context, id int64) (Role, error) {
	var role Role
	err := r.db.QueryRow(ctx, getRoleByID, id).Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, ErrRoleNotFound
		}
		return Role{}, fmt.Errorf("failed to get role %d: %w", id, err)
	}
	return role, nil
}

const createRole = `INSERT INTO roles (name) VALUES ($1) RETURNING id, name`

func (r *PostgresRoleRepository) CreateRole(ctx context.Context, name string) (Role, error) {
	var role Role
	err := r.db.QueryRow(ctx, createRole, name).Scan(&role.ID, &role.Name)
	if err != nil {
		if utils.IsUniqueViolation(err) {
			return Role{}, ErrRoleNameAlreadyExists
		}
		return Role{}, fmt.Errorf("failed to create role: %w", err)
	}
	return role, nil
}

const updateRole = `UPDATE roles SET name = $2 WHERE id = $1 RETURNING id, name`

func (r *PostgresRoleRepository) UpdateRole(ctx context.Context, arg UpdateRoleParams) (Role, error) {
	var role Role
	err := r.db.QueryRow(ctx, updateRole, arg.ID, arg.Name).Scan(&role.ID, &role.Name)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return Role{}, ErrRoleNotFound
		case utils.IsUniqueViolation(err):
			return Role{}, ErrRoleNameAlreadyExists
		}
		return Role{}, fmt.Errorf("failed to update role %d: %w", arg.ID, err)
	}
	return role, nil
}

const deleteRole = `DELETE FROM roles WHERE id = $1`

func (r *PostgresRoleRepository) DeleteRole(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, deleteRole, id); err != nil {
		return fmt.Errorf("failed to delete role %d: %w", id, err)
	}
	return nil
}
