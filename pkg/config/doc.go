// Package config loads the server configuration from the environment.
//
// Values come from process environment variables, optionally seeded from
// .env files:
//
//	cfg, err := config.Load(config.DefaultEnvFiles()...)
//	if err != nil {
//		slog.Error("Failed to load configuration", "err", err)
//		os.Exit(1)
//	}
//
// JWT_SECRET has no default. Load fails without it, so the server never
// listens with an unsigned or guessable token key.
//
// Durations (TOKEN_EXPIRY, AUTH_LOOKUP_TIMEOUT, RATE_LIMIT_BUCKET_TTL)
// accept ISO 8601 ("PT15M") or Go syntax ("15m").
//
// Validation collects every problem before failing:
//
//	cfg.Token.Secret = ""
//	cfg.StoreBackend = "redis"
//	err := cfg.Validate()
//	// invalid configuration: JWT_SECRET is required; STORE_BACKEND must be one of postgres, memory, got "redis"
package config
