package schemafile_test

import (
	"context"
	"testing"

	mongokit "github.com/ajessup/mongokit"
	"github.com/ajessup/mongokit/schemafile"
)

const exampleYAML = `
structure:
  bar: str
  foo:
    spam: str
    eggs: int
  tags: [str]
required: [bar, foo.spam]
defaults:
  foo.eggs: 4
`

func TestLoad_Basic(t *testing.T) {
	ctx := context.Background()
	doc, err := schemafile.Load([]byte(exampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	inst := map[string]any{"bar": "x", "foo": map[string]any{"spam": "y"}}
	if err := doc.Validate(ctx, inst); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if inst["foo"].(map[string]any)["eggs"] != 4 {
		t.Fatalf("expected default applied, got %v", inst["foo"])
	}

	err = doc.Validate(ctx, map[string]any{"bar": "x"})
	iss, ok := mongokit.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Path != "foo.spam" {
		t.Fatalf("expected required at foo.spam, got %v", err)
	}
}

func TestLoad_ExtraOptionsAttach(t *testing.T) {
	doc, err := schemafile.Load([]byte(exampleYAML),
		mongokit.WithValidator("bar", mongokit.MinLength(2)))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	err = doc.Validate(context.Background(),
		map[string]any{"bar": "x", "foo": map[string]any{"spam": "y"}})
	iss, _ := mongokit.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != mongokit.CodeValidator {
		t.Fatalf("expected attached validator to run, got %v", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"unknown type", "structure:\n  bar: blob\n"},
		{"empty structure", "required: [bar]\n"},
		{"multi-element list", "structure:\n  tags: [str, int]\n"},
		{"bad descriptor path", "structure:\n  bar: str\nrequired: [nope]\n"},
	}
	for _, tc := range cases {
		if _, err := schemafile.Load([]byte(tc.yaml)); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}
