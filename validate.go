package mongokit

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ajessup/mongokit/i18n"
)

// The built-in pass runs four strictly ordered stages: default application,
// type conformance, required check, validator check. Defaults mutate the
// instance before any check runs, so a default can satisfy a required or
// type check. The pass is pure apart from that mutation and holds no state
// across calls.

// applyDefaults writes missing default values into doc, creating
// intermediate struct containers as needed. Present (non-nil) values are
// never overwritten, which makes the stage idempotent. Paths whose
// intermediate container exists with a non-struct shape are left alone; the
// type stage reports the mismatch.
func (d *Document) applyDefaults(doc map[string]any) {
	for _, e := range d.desc.defaults {
		cur := doc
		ok := true
		segs := e.path.segs
		for _, seg := range segs[:len(segs)-1] {
			v, exists := cur[seg]
			if !exists || v == nil {
				next := map[string]any{}
				cur[seg] = next
				cur = next
				continue
			}
			m, isMap := v.(map[string]any)
			if !isMap {
				ok = false
				break
			}
			cur = m
		}
		if !ok {
			continue
		}
		leaf := segs[len(segs)-1]
		if v, exists := cur[leaf]; exists && v != nil {
			continue
		}
		if e.factory != nil {
			cur[leaf] = e.factory()
			continue
		}
		cur[leaf] = e.value
	}
}

// typeIssues walks the schema tree against the instance. spath is the
// declared dot path (no list indexes; keys the descriptor lookups), dpath is
// the instance dot path (with indexes; appears in issues).
func (d *Document) typeIssues(n *node, v any, spath, dpath string, collect bool) Issues {
	switch n.kind {
	case nodeStruct:
		m, ok := v.(map[string]any)
		if !ok {
			return typeMismatch(dpath, "object", v)
		}
		var iss Issues
		for _, key := range n.keys {
			val, exists := m[key]
			if !exists || val == nil {
				continue
			}
			child := d.typeIssues(n.fields[key], val, childPath(spath, key), childPath(dpath, key), collect)
			if len(child) > 0 {
				iss = AppendIssues(iss, child...)
				if !collect {
					return iss
				}
			}
		}
		// unknown keys in ascending order
		var unknown []string
		for key := range m {
			if _, known := n.fields[key]; !known {
				unknown = append(unknown, key)
			}
		}
		sort.Strings(unknown)
		for _, key := range unknown {
			iss = AppendIssues(iss, Issue{
				Path:    childPath(dpath, key),
				Code:    CodeUnknownKey,
				Message: i18n.T(CodeUnknownKey, map[string]string{"key": key}),
				Params:  map[string]any{"key": key},
			})
			if !collect {
				return iss
			}
		}
		return iss
	case nodeList:
		l, ok := v.([]any)
		if !ok {
			return typeMismatch(dpath, "array", v)
		}
		var iss Issues
		for i, el := range l {
			if el == nil {
				continue
			}
			child := d.typeIssues(n.elem, el, spath, childPath(dpath, strconv.Itoa(i)), collect)
			if len(child) > 0 {
				iss = AppendIssues(iss, child...)
				if !collect {
					return iss
				}
			}
		}
		return iss
	default: // nodeScalar
		if d.desc.translatable[spath] {
			return translatableIssues(n, v, dpath, collect)
		}
		if !n.typ.Check(v) {
			return typeMismatch(dpath, n.typ.Name(), v)
		}
		return nil
	}
}

// translatableIssues checks the locale-map shape: a mapping from locale code
// to a value satisfying the leaf constraint.
func translatableIssues(n *node, v any, dpath string, collect bool) Issues {
	m, ok := v.(map[string]any)
	if !ok {
		return typeMismatch(dpath, "locale map of "+n.typ.Name(), v)
	}
	locales := make([]string, 0, len(m))
	for loc := range m {
		locales = append(locales, loc)
	}
	sort.Strings(locales)
	var iss Issues
	for _, loc := range locales {
		if loc == "" {
			iss = AppendIssues(iss, Issue{
				Path:    dpath,
				Code:    CodeInvalidType,
				Message: i18n.T(CodeInvalidType, nil),
				Hint:    "empty locale code",
			})
			if !collect {
				return iss
			}
			continue
		}
		if val := m[loc]; val != nil && !n.typ.Check(val) {
			iss = AppendIssues(iss, typeMismatch(childPath(dpath, loc), n.typ.Name(), val)...)
			if !collect {
				return iss
			}
		}
	}
	return iss
}

func typeMismatch(dpath, expected string, got any) Issues {
	return AppendIssues(nil, Issue{
		Path:    dpath,
		Code:    CodeInvalidType,
		Message: i18n.T(CodeInvalidType, map[string]string{"expected": expected, "got": typeName(got)}),
		Hint:    fmt.Sprintf("expected %s, got %s", expected, typeName(got)),
		Params:  map[string]any{"expected": expected, "got": typeName(got)},
	})
}

// requiredIssues checks one required path against the value at prefix.
// Lists fan out: every element is checked independently under its own index
// path, so an empty list vacuously satisfies nested requirements. A missing
// or null value, including an absent intermediate container, fails.
func requiredIssues(v any, segs []string, prefix string, collect bool) Issues {
	if l, ok := v.([]any); ok && len(segs) > 0 {
		var iss Issues
		for i, el := range l {
			child := requiredIssues(el, segs, childPath(prefix, strconv.Itoa(i)), collect)
			if len(child) > 0 {
				iss = AppendIssues(iss, child...)
				if !collect {
					return iss
				}
			}
		}
		return iss
	}
	if len(segs) == 0 {
		if v == nil {
			return requiredIssue(prefix)
		}
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		// A non-container mid-path cannot hold the field; the type stage
		// reports the shape mismatch separately.
		return requiredIssue(childPath(prefix, strings.Join(segs, ".")))
	}
	val, exists := m[segs[0]]
	if !exists || val == nil {
		return requiredIssue(childPath(prefix, strings.Join(segs, ".")))
	}
	return requiredIssues(val, segs[1:], childPath(prefix, segs[0]), collect)
}

func requiredIssue(path string) Issues {
	return AppendIssues(nil, Issue{
		Path:    path,
		Code:    CodeRequired,
		Message: i18n.T(CodeRequired, map[string]string{"path": path}),
		Hint:    "required field missing",
	})
}

// validatorIssues runs a validator chain at every present occurrence of the
// rule's path. Lists encountered while segments remain fan out per element;
// a path naming a list field hands the whole list to the chain. Absent or
// null values are skipped. The chain short-circuits on its first failure.
func validatorIssues(v any, segs []string, prefix string, chain []Validator, collect bool) Issues {
	if l, ok := v.([]any); ok && len(segs) > 0 {
		var iss Issues
		for i, el := range l {
			child := validatorIssues(el, segs, childPath(prefix, strconv.Itoa(i)), chain, collect)
			if len(child) > 0 {
				iss = AppendIssues(iss, child...)
				if !collect {
					return iss
				}
			}
		}
		return iss
	}
	if len(segs) == 0 {
		if v == nil {
			return nil
		}
		for _, vd := range chain {
			if err := vd.Validate(v); err != nil {
				return AppendIssues(nil, Issue{
					Path:    prefix,
					Code:    CodeValidator,
					Message: interpolate(err.Error(), prefix),
					Cause:   err,
				})
			}
		}
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	val, exists := m[segs[0]]
	if !exists || val == nil {
		return nil
	}
	return validatorIssues(val, segs[1:], childPath(prefix, segs[0]), chain, collect)
}

// pass runs the built-in stages 1-4 in order. In fail-fast mode the first
// failing stage aborts the pass with its single issue; in collect mode every
// stage runs to completion and all issues accumulate in stage order.
func (d *Document) pass(doc map[string]any, collect bool) Issues {
	d.applyDefaults(doc)

	iss := d.typeIssues(d.schema.root, doc, "", "", collect)
	if !collect && len(iss) > 0 {
		return iss
	}

	for _, p := range d.desc.required {
		child := requiredIssues(doc, p.segs, "", collect)
		if len(child) > 0 {
			iss = AppendIssues(iss, child...)
			if !collect {
				return iss
			}
		}
	}

	for _, rule := range d.desc.validators {
		child := validatorIssues(doc, rule.path.segs, "", rule.chain, collect)
		if len(child) > 0 {
			iss = AppendIssues(iss, child...)
			if !collect {
				return iss
			}
		}
	}

	return iss
}
