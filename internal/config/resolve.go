package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/devaloi/gem/internal/env"
)

// Validation failures reported by Resolve.
var (
	ErrInvalidTemperature = errors.New("temperature must be a number between 0.0 and 2.0")
	ErrInvalidMaxTokens   = errors.New("max output tokens must be a positive integer")
	ErrMissingAPIKey      = errors.New("Gemini API key not found")
	ErrMissingModel       = errors.New("model must not be empty")
)

// Overrides carries the per-invocation command-line values. Nil fields were
// not supplied.
type Overrides struct {
	Model       *string
	Temperature *float64
	MaxOutput   *int
}

// Request is the resolved configuration for one completion call. Every field
// holds its final value before dispatch and is never mutated afterwards.
// An empty BaseURL selects the public Gemini endpoint.
type Request struct {
	Model           string
	Temperature     float64
	MaxOutputTokens int
	System          string
	APIKey          string
	BaseURL         string
}

// Resolve merges base, the environment view, and the command-line overrides
// into a validated Request. Precedence per field, highest first: command line
// > environment > base. Resolve reads nothing but its arguments, so identical
// inputs always produce identical output.
func Resolve(base Config, vars env.Lookup, cli Overrides) (Request, error) {
	req := Request{
		Model:           base.Model,
		Temperature:     base.Temperature,
		MaxOutputTokens: base.MaxOutputTokens,
		System:          base.System,
		APIKey:          expandRef(base.APIKey, vars),
		BaseURL:         base.BaseURL,
	}

	if cli.Model != nil {
		req.Model = *cli.Model
	} else if v, ok := lookupSet(vars, "GEM_MODEL"); ok {
		req.Model = v
	}

	if cli.Temperature != nil {
		req.Temperature = *cli.Temperature
	} else if v, ok := lookupSet(vars, "GEM_TEMPERATURE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Request{}, fmt.Errorf("%w (GEM_TEMPERATURE=%q)", ErrInvalidTemperature, v)
		}
		req.Temperature = f
	}

	if cli.MaxOutput != nil {
		req.MaxOutputTokens = *cli.MaxOutput
	} else if v, ok := lookupSet(vars, "GEM_MAX_OUTPUT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Request{}, fmt.Errorf("%w (GEM_MAX_OUTPUT=%q)", ErrInvalidMaxTokens, v)
		}
		req.MaxOutputTokens = n
	}

	if v, ok := lookupSet(vars, "GEM_SYSTEM"); ok {
		req.System = v
	}
	if v, ok := lookupSet(vars, "GEM_BASE_URL"); ok {
		req.BaseURL = v
	}
	if v, ok := lookupSet(vars, "GOOGLE_API_KEY"); ok {
		req.APIKey = v
	}

	// Negated form so NaN, which compares false to everything, fails too.
	if !(req.Temperature >= 0.0 && req.Temperature <= 2.0) {
		return Request{}, fmt.Errorf("%w (got %g)", ErrInvalidTemperature, req.Temperature)
	}
	if req.MaxOutputTokens <= 0 {
		return Request{}, fmt.Errorf("%w (got %d)", ErrInvalidMaxTokens, req.MaxOutputTokens)
	}
	if req.Model == "" {
		return Request{}, ErrMissingModel
	}
	if req.APIKey == "" {
		return Request{}, fmt.Errorf("%w.\n\nSet GOOGLE_API_KEY in the environment or a local .env file, or add it to ~/.config/gem/config.yaml:\n\n  api_key: your-key-here", ErrMissingAPIKey)
	}

	return req, nil
}

// lookupSet returns the value only when the variable is present and non-empty.
func lookupSet(vars env.Lookup, key string) (string, bool) {
	v, ok := vars(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// expandRef resolves a ${VAR} reference in a config file value against vars,
// so the file can point at a secret without containing it.
func expandRef(s string, vars env.Lookup) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		name := strings.TrimSuffix(strings.TrimPrefix(s, "${"), "}")
		v, _ := lookupSet(vars, name)
		return v
	}
	return s
}
