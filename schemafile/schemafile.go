// Package schemafile loads document type declarations from YAML files. It is
// glue over the engine's declaration API: type names are mapped onto the
// built-in scalar constraints and every descriptor still goes through the
// declaration-time path checks. Validators have no file representation and
// are attached in code.
package schemafile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	mongokit "github.com/ajessup/mongokit"
)

// fileSchema mirrors the YAML document layout:
//
//	structure:
//	  bar: str
//	  foo:
//	    spam: str
//	    eggs: int
//	  tags: [str]
//	required: [bar, foo.spam]
//	defaults:
//	  foo.eggs: 4
//	translatable: [title]
type fileSchema struct {
	Structure    map[string]any `yaml:"structure"`
	Required     []string       `yaml:"required"`
	Defaults     map[string]any `yaml:"defaults"`
	Translatable []string       `yaml:"translatable"`
}

// Load parses a YAML schema declaration and compiles it into a document type.
func Load(data []byte, opts ...mongokit.DocumentOpt) (*mongokit.Document, error) {
	var fs fileSchema
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("schemafile: parse yaml: %w", err)
	}
	if len(fs.Structure) == 0 {
		return nil, fmt.Errorf("schemafile: missing or empty structure section")
	}
	def, err := toDef(fs.Structure, "")
	if err != nil {
		return nil, err
	}
	all := make([]mongokit.DocumentOpt, 0, len(opts)+3)
	if len(fs.Required) > 0 {
		all = append(all, mongokit.WithRequired(fs.Required...))
	}
	if len(fs.Defaults) > 0 {
		all = append(all, mongokit.WithDefaults(fs.Defaults))
	}
	if len(fs.Translatable) > 0 {
		all = append(all, mongokit.WithTranslatable(fs.Translatable...))
	}
	all = append(all, opts...)
	return mongokit.NewDocument(def, all...)
}

// LoadFile reads and loads a YAML schema declaration from disk.
func LoadFile(path string, opts ...mongokit.DocumentOpt) (*mongokit.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemafile: read %s: %w", path, err)
	}
	return Load(data, opts...)
}

func toDef(m map[string]any, at string) (mongokit.Def, error) {
	def := make(mongokit.Def, len(m))
	for name, v := range m {
		where := name
		if at != "" {
			where = at + "." + name
		}
		c, err := toConstraint(v, where)
		if err != nil {
			return nil, err
		}
		def[name] = c
	}
	return def, nil
}

func toConstraint(v any, at string) (any, error) {
	switch t := v.(type) {
	case string:
		typ, ok := scalarTypes[t]
		if !ok {
			return nil, fmt.Errorf("schemafile: unknown type %q at %s", t, at)
		}
		return typ, nil
	case map[string]any:
		return toDef(t, at)
	case []any:
		if len(t) != 1 {
			return nil, fmt.Errorf("schemafile: list constraint at %s must have exactly one element", at)
		}
		elem, err := toConstraint(t[0], at)
		if err != nil {
			return nil, err
		}
		return mongokit.ListOf(elem), nil
	default:
		return nil, fmt.Errorf("schemafile: unsupported constraint %T at %s", v, at)
	}
}

var scalarTypes = map[string]mongokit.Type{
	"str":      mongokit.String,
	"string":   mongokit.String,
	"int":      mongokit.Int,
	"integer":  mongokit.Int,
	"float":    mongokit.Float,
	"number":   mongokit.Float,
	"bool":     mongokit.Bool,
	"boolean":  mongokit.Bool,
	"time":     mongokit.Time,
	"datetime": mongokit.Time,
	"any":      mongokit.Any,
}
