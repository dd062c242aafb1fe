package mongokit

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	errString = errors.New("%s must be a string")
	errNumber = errors.New("%s must be a number")
)

// Validator checks a single candidate value. A nil return means the value is
// acceptable; a non-nil error rejects it. The error message may contain one
// "%s" placeholder which the engine replaces with the failing dot path;
// additional placeholders are left untouched.
type Validator interface {
	Validate(v any) error
}

// ValidatorFunc adapts a plain predicate into a Validator. A false return
// maps to the generic "%s failed validation" message with no further detail.
type ValidatorFunc func(v any) bool

func (f ValidatorFunc) Validate(v any) error {
	if f(v) {
		return nil
	}
	return errors.New("%s failed validation")
}

// interpolate substitutes the first "%s" placeholder with path. Messages with
// no placeholder pass through unchanged; extra placeholders stay as-is.
func interpolate(msg, path string) string {
	return strings.Replace(msg, "%s", path, 1)
}

// ---- Parameterized validators ----
// Each closes over its configuration at construction time and exposes the
// same Validate capability as a plain predicate.

// MinLength requires a string value of at least n characters.
func MinLength(n int) Validator { return minLength{n: n} }

type minLength struct{ n int }

func (m minLength) Validate(v any) error {
	s, ok := v.(string)
	if !ok {
		return errString
	}
	if len([]rune(s)) < m.n {
		return fmt.Errorf("%%s must be at least %d characters long", m.n)
	}
	return nil
}

// MaxLength requires a string value of at most n characters.
func MaxLength(n int) Validator { return maxLength{n: n} }

type maxLength struct{ n int }

func (m maxLength) Validate(v any) error {
	s, ok := v.(string)
	if !ok {
		return errString
	}
	if len([]rune(s)) > m.n {
		return fmt.Errorf("%%s must be at most %d characters long", m.n)
	}
	return nil
}

// NonEmpty rejects empty strings, lists, and maps.
func NonEmpty() Validator { return nonEmpty{} }

type nonEmpty struct{}

func (nonEmpty) Validate(v any) error {
	switch t := v.(type) {
	case string:
		if t != "" {
			return nil
		}
	case []any:
		if len(t) > 0 {
			return nil
		}
	case map[string]any:
		if len(t) > 0 {
			return nil
		}
	default:
		return nil
	}
	return errors.New("%s must not be empty")
}

// Matches requires a string value matching pattern. The pattern is compiled
// at construction; an invalid pattern panics, mirroring regexp.MustCompile.
func Matches(pattern string) Validator {
	return matches{re: regexp.MustCompile(pattern), pattern: pattern}
}

type matches struct {
	re      *regexp.Regexp
	pattern string
}

func (m matches) Validate(v any) error {
	s, ok := v.(string)
	if !ok {
		return errString
	}
	if !m.re.MatchString(s) {
		return fmt.Errorf("%%s must match %s", m.pattern)
	}
	return nil
}

// Min requires a numeric value of at least limit.
func Min(limit float64) Validator { return minValue{limit: limit} }

type minValue struct{ limit float64 }

func (m minValue) Validate(v any) error {
	f, ok := asFloat(v)
	if !ok {
		return errNumber
	}
	if f < m.limit {
		return fmt.Errorf("%%s must be at least %v", m.limit)
	}
	return nil
}

// Max requires a numeric value of at most limit.
func Max(limit float64) Validator { return maxValue{limit: limit} }

type maxValue struct{ limit float64 }

func (m maxValue) Validate(v any) error {
	f, ok := asFloat(v)
	if !ok {
		return errNumber
	}
	if f > m.limit {
		return fmt.Errorf("%%s must be at most %v", m.limit)
	}
	return nil
}

// OneOf requires the value to equal one of the allowed values.
func OneOf(allowed ...any) Validator { return oneOf{allowed: allowed} }

type oneOf struct{ allowed []any }

func (o oneOf) Validate(v any) error {
	for _, a := range o.allowed {
		if equalLoose(v, a) {
			return nil
		}
	}
	return fmt.Errorf("%%s must be one of %v", o.allowed)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// equalLoose compares scalars, treating all numeric shapes as float64 so that
// json.Number("2") equals the literal 2.
func equalLoose(a, b any) bool {
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			return fa == fb
		}
		return false
	}
	return a == b
}
