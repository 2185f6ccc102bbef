package config

import (
	"time"

	"github.com/sosodev/duration"
)

// TokenConfig holds the token codec configuration. The secret has no default
// and Validate rejects an unset one.
type TokenConfig struct {
	Secret string `env:"JWT_SECRET"`
	Issuer string `env:"JWT_ISSUER" env-default:"simple-iam"`
	// Expiry is optional. Empty means tokens do not expire.
	Expiry string `env:"TOKEN_EXPIRY" env-default:""`
}

// ParseExpiry parses the token expiry. An empty value yields zero.
func (t TokenConfig) ParseExpiry() (time.Duration, error) {
	if t.Expiry == "" {
		return 0, nil
	}
	return parseDurationISO8601(t.Expiry)
}

func (t TokenConfig) check(c *checker) {
	c.required("JWT_SECRET", t.Secret)
	if t.Expiry != "" {
		c.duration("TOKEN_EXPIRY", t.Expiry, true)
	}
}

// parseDurationISO8601 tries to parse duration as ISO8601 first, then Go duration
func parseDurationISO8601(s string) (time.Duration, error) {
	isoDuration, err := duration.Parse(s)
	if err == nil {
		return isoDuration.ToTimeDuration(), nil
	}
	return time.ParseDuration(s)
}
