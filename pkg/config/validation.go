package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Problem is one invalid environment variable.
type Problem struct {
	Var    string
	Reason string
}

func (p Problem) String() string {
	return p.Var + " " + p.Reason
}

// Problems lists every invalid variable found by Config.Validate.
type Problems []Problem

func (p Problems) Error() string {
	lines := make([]string, len(p))
	for i, pr := range p {
		lines[i] = pr.String()
	}
	return "invalid configuration: " + strings.Join(lines, "; ")
}

// Vars returns the names of the offending variables in report order.
func (p Problems) Vars() []string {
	vars := make([]string, len(p))
	for i, pr := range p {
		vars[i] = pr.Var
	}
	return vars
}

// checker accumulates problems so a single Load reports all of them.
type checker struct {
	problems Problems
}

func (c *checker) add(name, format string, args ...any) {
	c.problems = append(c.problems, Problem{Var: name, Reason: fmt.Sprintf(format, args...)})
}

func (c *checker) required(name, value string) {
	if value == "" {
		c.add(name, "is required")
	}
}

func (c *checker) positive(name string, value int) {
	if value <= 0 {
		c.add(name, "must be positive, got %d", value)
	}
}

func (c *checker) between(name string, value, lo, hi int) {
	if value < lo || value > hi {
		c.add(name, "must be between %d and %d, got %d", lo, hi, value)
	}
}

func (c *checker) port(name string, value uint16) {
	if value == 0 {
		c.add(name, "must be a port between 1 and 65535")
	}
}

func (c *checker) oneOf(name, value string, allowed ...string) {
	if !slices.Contains(allowed, value) {
		c.add(name, "must be one of %s, got %q", strings.Join(allowed, ", "), value)
	}
}

// duration parses value and checks it against the lower bound. Zero is
// accepted only when allowZero is set.
func (c *checker) duration(name, value string, allowZero bool) time.Duration {
	d, err := parseDurationISO8601(value)
	switch {
	case err != nil:
		c.add(name, "is not a duration: %q", value)
	case d < 0 || (d == 0 && !allowZero):
		c.add(name, "must be positive, got %v", d)
	}
	return d
}

func (c *checker) err() error {
	if len(c.problems) == 0 {
		return nil
	}
	return c.problems
}
