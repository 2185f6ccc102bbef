package token

import "time"

// Option configures a Codec
type Option func(*Codec)

// WithExpiry embeds an exp claim of now+d in every token and requires it on
// decode. Zero disables expiry.
func WithExpiry(d time.Duration) Option {
	return func(c *Codec) {
		c.expiry = d
	}
}

// WithIssuer sets the iss claim and requires it on decode
func WithIssuer(issuer string) Option {
	return func(c *Codec) {
		c.issuer = issuer
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}
