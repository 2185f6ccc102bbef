// Package role manages the roles resource.
//
// Roles are stored either in PostgreSQL (PostgresRoleRepository) or in
// memory (InMemoryRoleRepository). Role names are unique; a duplicate name
// is reported as ErrRoleNameAlreadyExists.
//
//	repo := role.NewPostgresRoleRepository(pool)
//	service := role.NewRoleService(repo)
//
//	editor, err := service.CreateRole(ctx, "editor")
//	roles, err := service.FindRoles(ctx)
//	err = service.DeleteRole(ctx, editor.ID)
//
// DeleteRole is idempotent. GetRole and UpdateRole of a missing role return
// ErrRoleNotFound.
package role
