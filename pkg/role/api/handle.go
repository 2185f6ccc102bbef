package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	iamerrors "github.com/tendant/simple-iam/pkg/errors"
	"github.com/tendant/simple-iam/pkg/role"
	"github.com/tendant/simple-iam/pkg/validate"
)

// RoleInput is the body of create and update requests
type RoleInput struct {
	Name string `json:"name"`
}

// RoleShape declares the accepted RoleInput payload
var RoleShape = validate.NewShape("role",
	validate.NonEmptyString("name", 255),
)

// ListRolesResponse is the body of GET /roles
type ListRolesResponse struct {
	Roles []role.Role `json:"roles"`
}

type Handle struct {
	roleService *role.RoleService
}

func NewHandle(roleService *role.RoleService) *Handle {
	return &Handle{
		roleService: roleService,
	}
}

// ListRoles handles GET /
func (h *Handle) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roleService.FindRoles(r.Context())
	if err != nil {
		iamerrors.Render(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, ListRolesResponse{Roles: roles})
}

// CreateRole handles POST /
func (h *Handle) CreateRole(w http.ResponseWriter, r *http.Request) {
	var input RoleInput
	if err := validate.Decode(r, RoleShape, &input); err != nil {
		iamerrors.Render(w, r, err)
		return
	}

	created, err := h.roleService.CreateRole(r.Context(), input.Name)
	if err != nil {
		iamerrors.Render(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, created)
}

// GetRole handles GET /{id}
func (h *Handle) GetRole(w http.ResponseWriter, r *http.Request) {
	id, err := validate.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		iamerrors.Render(w, r, err)
		return
	}

	found, err := h.roleService.GetRole(r.Context(), id)
	if err != nil {
		iamerrors.Render(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, found)
}

// UpdateRole handles PUT /{id}
func (h *Handle) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := validate.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		iamerrors.Render(w, r, err)
		return
	}

	var input RoleInput
	if err := validate.Decode(r, RoleShape, &input); err != nil {
		iamerrors.Render(w, r, err)
		return
	}

	updated, err := h.roleService.UpdateRole(r.Context(), id, input.Name)
	if err != nil {
		iamerrors.Render(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, updated)
}

// DeleteRole handles DELETE /{id}
func (h *Handle) DeleteRole(w http.ResponseWriter, r *http.Request) {
	id, err := validate.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		iamerrors.Render(w, r, err)
		return
	}

	if err := h.roleService.DeleteRole(r.Context(), id); err != nil {
		iamerrors.Render(w, r, err)
		return
	}

	render.NoContent(w, r)
}

// Handler returns a http.Handler for the role API
func Handler(h *Handle) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListRoles)
	r.Post("/", h.CreateRole)
	r.Get("/{id}", h.GetRole)
	r.Put("/{id}", h.UpdateRole)
	r.Delete("/{id}", h.DeleteRole)

	return r
}
