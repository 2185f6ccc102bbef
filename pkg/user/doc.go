// Package user manages user accounts and serves as the credential store for
// authentication.
//
// Passwords are hashed with a password.Hasher on create and update. The
// stored hash is never serialized or logged: User omits it from JSON and its
// slog representation.
package user
