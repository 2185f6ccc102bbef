package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/jinzhu/copier"
	iamerrors "github.com/tendant/simple-iam/pkg/errors"
	"github.com/tendant/simple-iam/pkg/user"
	"github.com/tendant/simple-iam/pkg/validate"
)

// MaxPasswordLength bounds the password in characters. UserService also
// enforces user.MaxPasswordBytes.
const MaxPasswordLength = user.MaxPasswordBytes

// UserInput is the body of create and update requests
type UserInput struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// UserShape declares the accepted UserInput payload
var UserShape = validate.NewShape("user",
	validate.NonEmptyString("name", 255),
	validate.NonEmptyString("password", MaxPasswordLength),
)

// ListUsersResponse is the body of GET /users
type ListUsersResponse struct {
	Users []user.User `json:"users"`
}

type Handle struct {
	userService *user.UserService
}

func NewHandle(userService *user.UserService) *Handle {
	return &Handle{
		userService: userService,
	}
}

func decodeUserParams(r *http.Request) (user.UserParams, error) {
	var input UserInput
	if err := validate.Decode(r, UserShape, &input); err != nil {
		return user.UserParams{}, err
	}

	var params user.UserParams
	if err := copier.Copy(&params, &input); err != nil {
		return user.UserParams{}, iamerrors.InternalWrap(err, "failed to map user input")
	}
	return params, nil
}

// ListUsers handles GET /
func (h *Handle) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.FindUsers(r.Context())
	if err != nil {
		iamerrors.Render(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, ListUsersResponse{Users: users})
}

// CreateUser handles POST /
func (h *Handle) CreateUser(w http.ResponseWriter, r *http.Request) {
	params, err := decodeUserParams(r)
	if err != nil {
		iamerrors.Render(w, r, err)
		return
	}

	created, err := h.userService.CreateUser(r.Context(), params)
	if err != nil {
		iamerrors.Render(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, created)
}

// GetUser handles GET /{id}
func (h *Handle) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := validate.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		iamerrors.Render(w, r, err)
		return
	}

	found, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		iamerrors.Render(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, found)
}

// UpdateUser handles PUT /{id}
func (h *Handle) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := validate.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		iamerrors.Render(w, r, err)
		return
	}

	params, err := decodeUserParams(r)
	if err != nil {
		iamerrors.Render(w, r, err)
		return
	}

	updated, err := h.userService.UpdateUser(r.Context(), id, params)
	if err != nil {
		iamerrors.Render(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, updated)
}

// DeleteUser handles DELETE /{id}
func (h *Handle) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := validate.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		iamerrors.Render(w, r, err)
		return
	}

	if err := h.userService.DeleteUser(r.Context(), id); err != nil {
		iamerrors.Render(w, r, err)
		return
	}

	render.NoContent(w, r)
}

// Handler returns a http.Handler for the user API
func Handler(h *Handle) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListUsers)
	r.Post("/", h.CreateUser)
	r.Get("/{id}", h.GetUser)
	r.Put("/{id}", h.UpdateUser)
	r.Delete("/{id}", h.DeleteUser)

	return r
}
