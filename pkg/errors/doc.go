// Package errors provides structured errors with stable codes and the
// translation of any failure into the API's error envelope.
//
// # Error codes
//
// Every client-visible failure carries one of a small set of codes, each
// mapped to an HTTP status:
//
//	endpoint_not_found     404
//	invalid_argument       400
//	unauthorized           401
//	not_found              404
//	already_exists         409
//	rate_limit_exceeded    429
//	internal_server_error  500
//
// # Creating errors
//
//	var ErrRoleNotFound = errors.NotFound("role")
//
//	if err != nil {
//		return errors.InternalWrap(err, "failed to query roles")
//	}
//
// Domain errors that are not *Error can still carry a code by implementing
// Coder (see validate.ValidationError).
//
// # Writing responses
//
// Handlers never build error bodies themselves:
//
//	role, err := h.roleService.GetRole(r.Context(), id)
//	if err != nil {
//		errors.Render(w, r, err)
//		return
//	}
//
// Render writes
//
//	{"error": {"code": "not_found", "description": "role not found"}}
//
// with the matching status. Errors without a code become
// internal_server_error with the stringified cause as description, unless
// Options.HideInternal is set by the Responder middleware.
//
// Responder must wrap the routes that call Render; it records whether a
// response was already started so that a late failure (for example a panic
// caught by Recoverer after the handler wrote its body) never produces a
// second write.
package errors
