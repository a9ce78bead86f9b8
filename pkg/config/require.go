package config

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMissingEnv = errors.New("missing required env")

// Requirement is one required variable and whether it was provided.
type Requirement struct {
	Env string
	Set bool
}

func NonEmpty(env, value string) Requirement {
	return Requirement{Env: env, Set: strings.TrimSpace(value) != ""}
}

func NonEmptyBytes(env string, value []byte) Requirement {
	return Requirement{Env: env, Set: len(value) > 0}
}

// Require names every unset variable in one error.
func Require(reqs ...Requirement) error {
	var missing []string
	for _, r := range reqs {
		if !r.Set {
			missing = append(missing, r.Env)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(missing, ", "))
}

// ValidateServer checks what the development backend cannot start without.
func (c Config) ValidateServer() error {
	return Require(
		NonEmptyBytes("JWT_SECRET", c.JWTSecret),
		NonEmpty("DATABASE_URL", c.DatabaseURL),
	)
}

func (c Config) ValidateClient() error {
	return Require(
		NonEmpty("API_URL", c.APIURL),
		NonEmpty("STORAGE_DSN", c.StorageDSN),
	)
}
