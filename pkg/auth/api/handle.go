package api

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/tendant/simple-iam/pkg/auth"
	iamerrors "github.com/tendant/simple-iam/pkg/errors"
	"github.com/tendant/simple-iam/pkg/validate"
)

// LoginRequest is the body of POST /login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// VerifyRequest is the body of POST /login:verify
type VerifyRequest struct {
	Token string `json:"token"`
}

var (
	LoginShape = validate.NewShape("login",
		validate.String("username"),
		validate.String("password"),
	)
	VerifyShape = validate.NewShape("verify",
		validate.NonEmptyString("token", 0),
	)
)

type Handle struct {
	authService *auth.Service
}

func NewHandle(authService *auth.Service) *Handle {
	return &Handle{
		authService: authService,
	}
}

// Login handles POST /login
func (h *Handle) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := validate.Decode(r, LoginShape, &req); err != nil {
		iamerrors.Render(w, r, err)
		return
	}

	tok, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		iamerrors.Render(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, tok)
}

// Verify handles POST /login:verify
func (h *Handle) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := validate.Decode(r, VerifyShape, &req); err != nil {
		iamerrors.Render(w, r, err)
		return
	}

	claims, err := h.authService.VerifyToken(r.Context(), req.Token)
	if err != nil {
		iamerrors.Render(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, claims)
}

// Me handles GET /me. It must be mounted behind auth.Middleware.
func (h *Handle) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		iamerrors.Render(w, r, auth.ErrAuthFailed)
		return
	}

	u, err := h.authService.CurrentUser(r.Context(), claims)
	if err != nil {
		iamerrors.Render(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, u)
}
