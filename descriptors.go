package mongokit

import (
	"fmt"
	"sort"

	"github.com/ajessup/mongokit/i18n"
)

// descriptorSet holds the four path-keyed overlays attached to a schema.
// Every path is parsed and resolved against the schema tree at declaration
// time, so a validation pass never re-parses or re-checks them.
type descriptorSet struct {
	required     []Path          // caller order
	defaults     []defaultEntry  // lexical path order
	validators   []validatorRule // lexical path order
	translatable map[string]bool // declared dot path -> true
}

type defaultEntry struct {
	path    Path
	value   any
	factory func() any
}

type validatorRule struct {
	path  Path
	chain []Validator
}

// documentConfig collects what the DocumentOpt functions register before
// compilation.
type documentConfig struct {
	required     []string
	defaults     map[string]any
	validators   map[string][]Validator
	translatable []string
	hook         Hook
}

// compileDescriptors resolves every declared path against the schema. Errors
// here are declaration-time failures: a non-resolving path (path_error) or a
// rule that disagrees with the declared shape (schema_error). Both are fatal
// to NewDocument.
func compileDescriptors(s *Schema, cfg documentConfig) (*descriptorSet, error) {
	ds := &descriptorSet{translatable: map[string]bool{}}

	for _, raw := range cfg.required {
		p, err := ParsePath(raw)
		if err != nil {
			return nil, err
		}
		if _, err := s.resolve(p); err != nil {
			return nil, err
		}
		ds.required = append(ds.required, p)
	}

	for _, raw := range cfg.translatable {
		p, err := ParsePath(raw)
		if err != nil {
			return nil, err
		}
		n, err := s.resolve(p)
		if err != nil {
			return nil, err
		}
		if n.kind != nodeScalar {
			return nil, AppendIssues(nil, Issue{
				Code:    CodeSchema,
				Path:    raw,
				Message: i18n.T(CodeSchema, nil),
				Hint:    "translatable path must name a scalar field",
			})
		}
		ds.translatable[raw] = true
	}

	// Map-shaped overlays carry no declaration order in Go; iterate keys in
	// ascending order for deterministic error sequences.
	dkeys := make([]string, 0, len(cfg.defaults))
	for raw := range cfg.defaults {
		dkeys = append(dkeys, raw)
	}
	sort.Strings(dkeys)
	for _, raw := range dkeys {
		p, err := ParsePath(raw)
		if err != nil {
			return nil, err
		}
		n, err := s.resolve(p)
		if err != nil {
			return nil, err
		}
		if n.kind != nodeScalar {
			return nil, AppendIssues(nil, Issue{
				Code:    CodeSchema,
				Path:    raw,
				Message: i18n.T(CodeSchema, nil),
				Hint:    "default path must name a scalar field",
			})
		}
		// A default addresses exactly one slot in the instance; a path that
		// crosses a list has no such slot, so reject it up front.
		if s.descendsThroughList(p) {
			return nil, AppendIssues(nil, Issue{
				Code:    CodeSchema,
				Path:    raw,
				Message: i18n.T(CodeSchema, nil),
				Hint:    "default path must not descend through a list",
			})
		}
		entry := defaultEntry{path: p}
		switch v := cfg.defaults[raw].(type) {
		case func() any:
			// Factory output is checked by the type stage once applied.
			entry.factory = v
		default:
			if !n.typ.Check(v) {
				return nil, AppendIssues(nil, Issue{
					Code:    CodeSchema,
					Path:    raw,
					Message: i18n.T(CodeSchema, nil),
					Hint:    fmt.Sprintf("default value %v does not satisfy %s", v, n.typ.Name()),
				})
			}
			entry.value = v
		}
		ds.defaults = append(ds.defaults, entry)
	}

	vkeys := make([]string, 0, len(cfg.validators))
	for raw := range cfg.validators {
		vkeys = append(vkeys, raw)
	}
	sort.Strings(vkeys)
	for _, raw := range vkeys {
		chain := cfg.validators[raw]
		if len(chain) == 0 {
			continue
		}
		p, err := ParsePath(raw)
		if err != nil {
			return nil, err
		}
		if _, err := s.resolve(p); err != nil {
			return nil, err
		}
		ds.validators = append(ds.validators, validatorRule{path: p, chain: chain})
	}

	return ds, nil
}
