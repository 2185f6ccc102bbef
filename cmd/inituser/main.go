package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5"
	dbutils "github.com/tendant/db-utils/db"
	"github.com/tendant/simple-iam/pkg/config"
	"github.com/tendant/simple-iam/pkg/password"
	"github.com/tendant/simple-iam/pkg/role"
	"github.com/tendant/simple-iam/pkg/user"
)

// Config is the subset of the server configuration needed to seed a user
type Config struct {
	Database config.DatabaseConfig
	Password config.PasswordConfig
}

func main() {
	username := flag.String("username", "", "Username for the new user (required)")
	plaintext := flag.String("password", "", "Password for the new user (required)")
	roleName := flag.String("role", "", "Role to create alongside the user if it does not exist")
	flag.Parse()

	if *username == "" || *plaintext == "" {
		fmt.Println("Error: username and password are required")
		flag.Usage()
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	}))
	slog.SetDefault(logger)

	if err := run(context.Background(), *username, *plaintext, *roleName); err != nil {
		slog.Error("Failed to seed user", "username", *username, "err", err)
		os.Exit(1)
	}
}

// run owns every resource it opens, so deferred cleanup has finished by the
// time main exits.
func run(ctx context.Context, username, plaintext, roleName string) error {
	cfg := Config{}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return fmt.Errorf("failed to read configuration: %w", err)
	}

	hasher, err := password.NewHasher(cfg.Password.ToHasherConfig())
	if err != nil {
		return fmt.Errorf("failed to create password hasher: %w", err)
	}

	dbConfig := cfg.Database.ToDbConfig()
	pool, err := dbutils.NewDbPool(ctx, dbConfig)
	if err != nil {
		slog.Error("Failed creating dbpool", "db", dbConfig.Database, "host", dbConfig.Host, "port", dbConfig.Port, "user", dbConfig.User)
		return err
	}
	defer pool.Close()

	u, err := seed(ctx, pool, hasher, username, plaintext, roleName)
	if err != nil {
		return err
	}
	slog.Info("User created successfully", "user", u)
	return nil
}

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// seed creates the user, and the role when roleName is set, in one
// transaction. Nothing is written unless both succeed.
func seed(ctx context.Context, db txBeginner, hasher password.Hasher, username, plaintext, roleName string) (u user.User, err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				slog.Warn("Failed to roll back transaction", "err", rbErr)
			}
		}
	}()

	if roleName != "" {
		if err = ensureRole(ctx, role.NewRoleService(role.NewPostgresRoleRepository(tx)), roleName); err != nil {
			return user.User{}, fmt.Errorf("failed to create role %q: %w", roleName, err)
		}
	}

	userService := user.NewUserService(user.NewPostgresUserRepository(tx), hasher)
	u, err = userService.CreateUser(ctx, user.UserParams{Name: username, Password: plaintext})
	if err != nil {
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return user.User{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return u, nil
}

// ensureRole creates the named role unless it exists. A failed insert would
// abort the surrounding transaction, so existing roles are looked up first.
func ensureRole(ctx context.Context, roleService *role.RoleService, name string) error {
	roles, err := roleService.FindRoles(ctx)
	if err != nil {
		return err
	}
	for _, r := range roles {
		if r.Name == name {
			slog.Info("Role already exists", "role", name, "id", r.ID)
			return nil
		}
	}
	_, err = roleService.CreateRole(ctx, name)
	return err
}
