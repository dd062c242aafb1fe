package mongokit

import (
	"encoding/json"
	"math"
	"time"
)

// Type is a scalar type constraint attached to a schema leaf. Check reports
// whether a stored value satisfies the constraint. Implementations must be
// pure; a compiled schema shares them across concurrent validation passes.
type Type interface {
	Name() string
	Check(v any) bool
}

// Built-in scalar constraints for structure definitions.
var (
	String Type = stringType{}
	Int    Type = intType{}
	Float  Type = floatType{}
	Bool   Type = boolType{}
	Time   Type = timeType{}
	Any    Type = anyType{}
)

type stringType struct{}

func (stringType) Name() string     { return "string" }
func (stringType) Check(v any) bool { _, ok := v.(string); return ok }

type boolType struct{}

func (boolType) Name() string     { return "bool" }
func (boolType) Check(v any) bool { _, ok := v.(bool); return ok }

// intType accepts Go integer kinds plus the shapes JSON decoding produces
// (integral float64, integral json.Number); JSON never yields Go ints.
type intType struct{}

func (intType) Name() string { return "int" }

func (intType) Check(v any) bool {
	switch n := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float64:
		return n == math.Trunc(n)
	case float32:
		return float64(n) == math.Trunc(float64(n))
	case json.Number:
		if _, err := n.Int64(); err == nil {
			return true
		}
		f, err := n.Float64()
		return err == nil && f == math.Trunc(f)
	default:
		return false
	}
}

type floatType struct{}

func (floatType) Name() string { return "float" }

func (floatType) Check(v any) bool {
	switch n := v.(type) {
	case float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case json.Number:
		_, err := n.Float64()
		return err == nil
	default:
		return false
	}
}

// timeType accepts time.Time values and RFC 3339 strings (the wire shape of
// timestamps in JSON documents).
type timeType struct{}

func (timeType) Name() string { return "time" }

func (timeType) Check(v any) bool {
	switch t := v.(type) {
	case time.Time:
		return true
	case string:
		_, err := time.Parse(time.RFC3339, t)
		return err == nil
	default:
		return false
	}
}

type anyType struct{}

func (anyType) Name() string     { return "any" }
func (anyType) Check(v any) bool { return true }

// TypeOf builds a custom scalar constraint from a predicate. The name appears
// in invalid_type issues.
func TypeOf(name string, check func(v any) bool) Type {
	return customType{name: name, check: check}
}

type customType struct {
	name  string
	check func(v any) bool
}

func (c customType) Name() string { return c.name }

func (c customType) Check(v any) bool {
	if c.check == nil {
		return false
	}
	return c.check(v)
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case float32, float64, json.Number:
		return "number"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "int"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case time.Time:
		return "time"
	default:
		return "unknown"
	}
}
