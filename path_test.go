package mongokit_test

import (
	"testing"

	mongokit "github.com/ajessup/mongokit"
)

func TestParsePath_Basic(t *testing.T) {
	p, err := mongokit.ParsePath("foo.spam")
	if err != nil {
		t.Fatalf("parse ok expected, got err=%v", err)
	}
	if p.String() != "foo.spam" {
		t.Fatalf("expected raw path preserved, got %q", p.String())
	}
	segs := p.Segments()
	if len(segs) != 2 || segs[0] != "foo" || segs[1] != "spam" {
		t.Fatalf("unexpected segments: %v", segs)
	}
}

func TestParsePath_Invalid(t *testing.T) {
	for _, bad := range []string{"", ".", "a.", ".a", "a..b"} {
		_, err := mongokit.ParsePath(bad)
		if err == nil {
			t.Fatalf("expected error for %q", bad)
		}
		iss, ok := mongokit.AsIssues(err)
		if !ok || len(iss) == 0 || iss[0].Code != mongokit.CodePath {
			t.Fatalf("expected path_error for %q, got %v", bad, err)
		}
	}
}

func TestParsePath_SegmentsCopy(t *testing.T) {
	p := mongokit.MustParsePath("a.b")
	segs := p.Segments()
	segs[0] = "mutated"
	if p.Segments()[0] != "a" {
		t.Fatalf("Segments must return a copy")
	}
}
