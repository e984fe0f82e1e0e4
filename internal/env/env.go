// Package env provides the merged view of the process environment and the
// local .env file consumed during configuration resolution.
package env

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Lookup resolves a configuration variable by name. The boolean reports
// whether the variable is present at all; callers treat empty values as unset.
type Lookup func(key string) (string, bool)

// Process returns a Lookup over the process environment only.
func Process() Lookup {
	return os.LookupEnv
}

// Map returns a Lookup over a fixed set of variables.
func Map(vars map[string]string) Lookup {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

// Load returns a Lookup merging the .env-style file at path under the process
// environment. The process environment wins on key collision, matching how
// dotenv loaders refuse to override inherited variables. A missing file is
// not an error; a file that exists but cannot be parsed is.
func Load(path string) (Lookup, error) {
	fileVars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Process(), nil
		}
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}, nil
}
