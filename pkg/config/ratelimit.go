package config

import (
	"time"

	"github.com/tendant/simple-iam/pkg/ratelimit"
)

// RateLimitConfig controls throttling of the login endpoints
type RateLimitConfig struct {
	Enabled           bool   `env:"RATE_LIMIT_ENABLED" env-default:"true"`
	LoginCapacity     int    `env:"RATE_LIMIT_LOGIN_CAPACITY" env-default:"10"`
	LoginPerMinute    int    `env:"RATE_LIMIT_LOGIN_PER_MINUTE" env-default:"10"`
	BucketTTL         string `env:"RATE_LIMIT_BUCKET_TTL" env-default:"1h"`
	TrustProxyHeaders bool   `env:"RATE_LIMIT_TRUST_PROXY" env-default:"false"`
}

// ToLoginConfig converts the configuration to a ratelimit.Config for the
// login endpoints
func (c RateLimitConfig) ToLoginConfig() ratelimit.Config {
	ttl, err := parseDurationISO8601(c.BucketTTL)
	if err != nil {
		ttl = time.Hour
	}
	return ratelimit.Config{
		Enabled:           c.Enabled,
		Capacity:          c.LoginCapacity,
		RefillRate:        float64(c.LoginPerMinute) / 60.0,
		BucketTTL:         ttl,
		TrustProxyHeaders: c.TrustProxyHeaders,
	}
}

func (c RateLimitConfig) check(ck *checker) {
	if !c.Enabled {
		return
	}
	ck.positive("RATE_LIMIT_LOGIN_CAPACITY", c.LoginCapacity)
	ck.positive("RATE_LIMIT_LOGIN_PER_MINUTE", c.LoginPerMinute)
	ck.duration("RATE_LIMIT_BUCKET_TTL", c.BucketTTL, false)
}
