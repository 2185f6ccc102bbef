package user

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

// PostgresUserRepository implements UserRepository using PostgreSQL
type PostgresUserRepository struct {
	db DBTX
}

// NewPostgresUserRepository creates a new PostgreSQL user repository
func NewPostgresUserRepository(db DBTX) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *PostgresUserRepository) WithTx(tx pgx.Tx) *PostgresUserRepository {
	return &PostgresUserRepository{db: tx}
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.HashedPassword)
	return u, err
}

const findUsers = `SELECT id, name, hashed_password FROM users ORDER BY id`

func (r *PostgresUserRepository) FindUsers(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx, findUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

const getUserByID = `SELECT id, name, hashed_password FROM users WHERE id = $1`

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id int64) (User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, getUserByID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return u, nil
}

const getUserByName = `SELECT id, name, hashed_password FROM users WHERE name = $1`

func (r *PostgresUserRepository) GetUserByName(ctx context.Context, name string) (User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, getUserByName, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("failed to get user by name: %w", err)
	}
	return u, nil
}

const createUser = `INSERT INTO users (name, hashed_password) VALUES ($1, $2) RETURNING id, name, hashed_password`

func (r *PostgresUserRepository) CreateUser(ctx context.Context, arg CreateUserRecord) (User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, createUser, arg.Name, arg.HashedPassword))
	if err != nil {
		if utils.IsUniqueViolation(err) {
			return User{}, ErrUserNameAlreadyExists
		}
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

const updateUser = `UPDATE users SET name = $2, hashed_password = $3 WHERE id = $1 RETURNING id, name, hashed_password`

func (r *PostgresUserRepository) UpdateUser(ctx context.Context, arg UpdateUserRecord) (User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, updateUser, arg.ID, arg.Name, arg.HashedPassword))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return User{}, ErrUserNotFound
		case utils.IsUniqueViolation(err):
			return User{}, ErrUserNameAlreadyExists
		}
		return User{}, fmt.Errorf("failed to update user %d: %w", arg.ID, err)
	}
	return u, nil
}

const deleteUser = `DELETE FROM users WHERE id = $1`

func (r *PostgresUserRepository) DeleteUser(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, deleteUser, id); err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return nil
}
