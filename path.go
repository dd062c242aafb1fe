package mongokit

import (
	"strings"

	"github.com/ajessup/mongokit/i18n"
)

// Path is a parsed dot path addressing one location in a nested document,
// e.g. "foo.spam". Parsed once at declaration time; a validation pass never
// re-parses strings.
type Path struct {
	segs []string
	raw  string
}

// ParsePath splits a dot-path string into ordered segments. Empty paths and
// empty segments (leading/trailing/doubled dots) are rejected.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return Path{}, singleIssue(CodePath, "", i18n.T(CodePath, nil)+": empty path")
	}
	segs := strings.Split(s, ".")
	for _, seg := range segs {
		if seg == "" {
			return Path{}, AppendIssues(nil, Issue{
				Code:    CodePath,
				Path:    s,
				Message: i18n.T(CodePath, nil),
				Hint:    "empty path segment",
			})
		}
	}
	return Path{segs: segs, raw: s}, nil
}

// MustParsePath is ParsePath that panics on error. Intended for statically
// known paths in declarations and tests.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic("mongokit: " + err.Error())
	}
	return p
}

// String returns the original dot-path string.
func (p Path) String() string { return p.raw }

// Segments returns a copy of the path segments.
func (p Path) Segments() []string { return append([]string(nil), p.segs...) }

// Len returns the number of segments.
func (p Path) Len() int { return len(p.segs) }

// childPath renders a child dot path under base. An empty base means the
// child is a root-level field.
func childPath(base, seg string) string {
	if base == "" {
		return seg
	}
	return base + "." + seg
}
