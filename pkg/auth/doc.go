// Package auth implements credential login and bearer token verification.
//
// Login looks the user up through a UserFinder, verifies the password with a
// password.Hasher and signs the user's identity with a token.Codec. Every
// authentication failure, whatever its cause, surfaces as ErrAuthFailed so
// that responses never reveal whether a user exists or why a token was
// rejected. Causes are logged.
//
//	svc := auth.NewService(users, hasher, codec, auth.WithLookupTimeout(5*time.Second))
//
//	tok, err := svc.Login(ctx, "alice", "correct-horse")
//	claims, err := svc.VerifyToken(ctx, tok.Token)
//
// Middleware protects routes with the same verification and exposes the
// claims through ClaimsFromContext.
package auth
