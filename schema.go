package mongokit

import (
	"fmt"
	"sort"

	"github.com/ajessup/mongokit/i18n"
)

// Def is a declarative structure definition: a nested mapping from field name
// to a type constraint, a nested Def, or a ListDef. It is compiled once into
// an immutable schema tree and never consulted again.
type Def map[string]any

// ListDef declares a homogeneous list field. Elem is a type constraint, a
// nested Def, or another ListDef.
type ListDef struct {
	Elem any
}

// ListOf declares a list whose elements all satisfy elem.
func ListOf(elem any) ListDef { return ListDef{Elem: elem} }

type nodeKind int

const (
	nodeScalar nodeKind = iota
	nodeStruct
	nodeList
)

// node is one vertex of the compiled schema tree. Immutable after Compile;
// shared read-only by every validation pass.
type node struct {
	kind   nodeKind
	typ    Type             // nodeScalar
	fields map[string]*node // nodeStruct
	keys   []string         // nodeStruct; field names in ascending order
	elem   *node            // nodeList
}

// Schema is the compiled representation of a structure definition. The root
// is always a struct node.
type Schema struct {
	root *node
}

// Compile builds an immutable Schema from a structure definition. It fails
// with a schema_error issue on empty field names or unsupported constraint
// values. Compilation happens once per document type.
func Compile(def Def) (*Schema, error) {
	if def == nil {
		return nil, singleIssue(CodeSchema, "", i18n.T(CodeSchema, nil)+": nil structure definition")
	}
	root, err := compileStruct(def, "")
	if err != nil {
		return nil, err
	}
	return &Schema{root: root}, nil
}

// MustCompile is Compile that panics on error.
func MustCompile(def Def) *Schema {
	s, err := Compile(def)
	if err != nil {
		panic("mongokit: " + err.Error())
	}
	return s
}

func compileStruct(def Def, at string) (*node, error) {
	fields := make(map[string]*node, len(def))
	keys := make([]string, 0, len(def))
	for name, v := range def {
		if name == "" {
			return nil, AppendIssues(nil, Issue{
				Code:    CodeSchema,
				Path:    at,
				Message: i18n.T(CodeSchema, nil),
				Hint:    "empty field name",
			})
		}
		child, err := compileValue(v, childPath(at, name))
		if err != nil {
			return nil, err
		}
		fields[name] = child
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return &node{kind: nodeStruct, fields: fields, keys: keys}, nil
}

func compileValue(v any, at string) (*node, error) {
	switch t := v.(type) {
	case Type:
		return &node{kind: nodeScalar, typ: t}, nil
	case Def:
		return compileStruct(t, at)
	case map[string]any:
		return compileStruct(Def(t), at)
	case ListDef:
		elem, err := compileValue(t.Elem, at)
		if err != nil {
			return nil, err
		}
		return &node{kind: nodeList, elem: elem}, nil
	default:
		return nil, AppendIssues(nil, Issue{
			Code:    CodeSchema,
			Path:    at,
			Message: i18n.T(CodeSchema, nil),
			Hint:    fmt.Sprintf("unsupported type constraint %T", v),
		})
	}
}

// resolve descends the schema tree along p. List nodes transparently address
// their element type, so a path into a list of structs names the element
// fields directly. Descending into a scalar yields a path_error issue.
func (s *Schema) resolve(p Path) (*node, error) {
	cur := s.root
	for _, seg := range p.segs {
		for cur.kind == nodeList {
			cur = cur.elem
		}
		if cur.kind != nodeStruct {
			return nil, AppendIssues(nil, Issue{
				Code:    CodePath,
				Path:    p.raw,
				Message: i18n.T(CodePath, nil),
				Hint:    fmt.Sprintf("segment %q descends into a scalar", seg),
			})
		}
		next, ok := cur.fields[seg]
		if !ok {
			return nil, AppendIssues(nil, Issue{
				Code:    CodePath,
				Path:    p.raw,
				Message: i18n.T(CodePath, nil),
				Hint:    fmt.Sprintf("unknown segment %q", seg),
			})
		}
		cur = next
	}
	return cur, nil
}

// descendsThroughList reports whether resolving p pierces a list node before
// all segments are consumed. Callers must have resolved p successfully first.
func (s *Schema) descendsThroughList(p Path) bool {
	cur := s.root
	for _, seg := range p.segs {
		if cur.kind == nodeList {
			return true
		}
		cur = cur.fields[seg]
	}
	return false
}
