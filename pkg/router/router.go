package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tendant/simple-iam/pkg/audit"
	"github.com/tendant/simple-iam/pkg/auth"
	authapi "github.com/tendant/simple-iam/pkg/auth/api"
	iamerrors "github.com/tendant/simple-iam/pkg/errors"
	"github.com/tendant/simple-iam/pkg/ratelimit"
	roleapi "github.com/tendant/simple-iam/pkg/role/api"
	userapi "github.com/tendant/simple-iam/pkg/user/api"
)

// APIPrefix is where every endpoint is mounted
const APIPrefix = "/api/v1"

// Config holds all the dependencies and handlers needed to setup routes
type Config struct {
	RoleHandle  *roleapi.Handle
	UserHandle  *userapi.Handle
	AuthHandle  *authapi.Handle
	AuthService *auth.Service

	// LoginLimiter throttles /login and /login:verify. Optional.
	LoginLimiter *ratelimit.Middleware

	// Audit records state changes on /roles and /users. Optional.
	Audit *audit.Middleware

	// RequireAuth puts /roles and /users behind bearer authentication
	RequireAuth bool

	// HideInternal replaces internal error descriptions with a generic message
	HideInternal bool
}

// SetupRoutes mounts all IAM routes on the provided router
func SetupRoutes(router chi.Router, cfg Config) {
	// Unknown paths anywhere, including outside the API prefix
	router.NotFound(iamerrors.EndpointNotFound)
	router.MethodNotAllowed(iamerrors.MethodNotAllowed)

	router.Route(APIPrefix, func(r chi.Router) {
		r.Use(iamerrors.Responder(iamerrors.Options{HideInternal: cfg.HideInternal}))
		r.Use(middleware.RequestID)
		r.Use(iamerrors.Recoverer)

		r.NotFound(iamerrors.EndpointNotFound)
		r.MethodNotAllowed(iamerrors.MethodNotAllowed)

		// Public authentication endpoints
		r.Group(func(r chi.Router) {
			if cfg.LoginLimiter != nil {
				r.Use(cfg.LoginLimiter.Handler)
			}
			r.Post("/login", cfg.AuthHandle.Login)
			r.Post("/login:verify", cfg.AuthHandle.Verify)
		})

		// /me always requires a token
		r.With(auth.Middleware(cfg.AuthService)).Get("/me", cfg.AuthHandle.Me)

		r.Group(func(r chi.Router) {
			if cfg.RequireAuth {
				r.Use(auth.Middleware(cfg.AuthService))
			}
			if cfg.Audit != nil {
				r.Use(cfg.Audit.Handler)
			}
			r.Mount("/roles", roleapi.Handler(cfg.RoleHandle))
			r.Mount("/users", userapi.Handler(cfg.UserHandle))
		})
	})
}
