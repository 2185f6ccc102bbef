package router

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-iam/pkg/audit"
	"github.com/tendant/simple-iam/pkg/auth"
	authapi "github.com/tendant/simple-iam/pkg/auth/api"
	"github.com/tendant/simple-iam/pkg/config"
	"github.com/tendant/simple-iam/pkg/password"
	"github.com/tendant/simple-iam/pkg/ratelimit"
	"github.com/tendant/simple-iam/pkg/role"
	roleapi "github.com/tendant/simple-iam/pkg/role/api"
	"github.com/tendant/simple-iam/pkg/token"
	"github.com/tendant/simple-iam/pkg/user"
	userapi "github.com/tendant/simple-iam/pkg/user/api"
)

// ErrNoPool is returned when the postgres backend is selected without a pool
var ErrNoPool = errors.New("postgres store selected but no database pool given")

// NewConfig builds the services and handlers described by cfg. The pool is
// only used with the postgres store backend and may be nil otherwise.
//
// Example:
//
//	rc, err := router.NewConfig(cfg, pool)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	router.SetupRoutes(r, rc)
func NewConfig(cfg *config.Config, pool *pgxpool.Pool) (Config, error) {
	hasher, err := password.NewHasher(cfg.Password.ToHasherConfig())
	if err != nil {
		return Config{}, fmt.Errorf("failed to create password hasher: %w", err)
	}

	expiry, err := cfg.Token.ParseExpiry()
	if err != nil {
		return Config{}, fmt.Errorf("invalid token expiry: %w", err)
	}
	codec, err := token.NewCodec(cfg.Token.Secret,
		token.WithIssuer(cfg.Token.Issuer),
		token.WithExpiry(expiry),
	)
	if err != nil {
		return Config{}, fmt.Errorf("failed to create token codec: %w", err)
	}

	lookupTimeout, err := cfg.ParseLookupTimeout()
	if err != nil {
		return Config{}, fmt.Errorf("invalid lookup timeout: %w", err)
	}

	var (
		roleRepo role.RoleRepository
		userRepo user.UserRepository
	)
	switch cfg.StoreBackend {
	case config.StoreMemory:
		slog.Warn("Using in-memory store, data is lost on restart")
		roleRepo = role.NewInMemoryRoleRepository()
		userRepo = user.NewInMemoryUserRepository()
	case config.StorePostgres:
		if pool == nil {
			return Config{}, ErrNoPool
		}
		roleRepo = role.NewPostgresRoleRepository(pool)
		userRepo = user.NewPostgresUserRepository(pool)
	default:
		return Config{}, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}

	roleService := role.NewRoleService(roleRepo)
	userService := user.NewUserService(userRepo, hasher)
	authService := auth.NewService(userService, hasher, codec, auth.WithLookupTimeout(lookupTimeout))

	var auditor *audit.Middleware
	if cfg.AuditEnabled {
		auditor = audit.NewMiddleware(audit.NewLogSink(slog.Default()))
	}

	return Config{
		Audit:        auditor,
		RoleHandle:   roleapi.NewHandle(roleService),
		UserHandle:   userapi.NewHandle(userService),
		AuthHandle:   authapi.NewHandle(authService),
		AuthService:  authService,
		LoginLimiter: ratelimit.NewMiddleware(cfg.RateLimit.ToLoginConfig()),
		RequireAuth:  cfg.RequireAuth,
		HideInternal: cfg.HideInternalErrors,
	}, nil
}
