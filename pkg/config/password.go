package config

import (
	"strings"

	"github.com/tendant/simple-iam/pkg/password"
)

// PasswordConfig selects the password hasher
type PasswordConfig struct {
	Algorithm  string `env:"PASSWORD_HASHER" env-default:"bcrypt"`
	BcryptCost int    `env:"PASSWORD_BCRYPT_COST" env-default:"12"`
}

// ToHasherConfig converts the configuration to a password.Config
func (p PasswordConfig) ToHasherConfig() password.Config {
	return password.Config{
		Algorithm:  password.Algorithm(strings.ToLower(p.Algorithm)),
		BcryptCost: p.BcryptCost,
	}
}

func (p PasswordConfig) check(c *checker) {
	c.oneOf("PASSWORD_HASHER", strings.ToLower(p.Algorithm),
		string(password.AlgorithmBcrypt), string(password.AlgorithmArgon2))
	c.between("PASSWORD_BCRYPT_COST", p.BcryptCost, password.MinBcryptCost, password.MaxBcryptCost)
}
