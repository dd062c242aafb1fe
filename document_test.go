package mongokit_test

import (
	"context"
	"errors"
	"testing"

	mongokit "github.com/ajessup/mongokit"
)

func TestHook_DefaultIsBuiltinPass(t *testing.T) {
	doc := mongokit.MustNewDocument(
		mongokit.Def{"bar": mongokit.String},
		mongokit.WithRequired("bar"),
	)
	if err := doc.Validate(context.Background(), map[string]any{"bar": "x"}); err != nil {
		t.Fatalf("no hook: expected builtin pass only, got %v", err)
	}
}

func TestHook_CrossFieldAfterBuiltin(t *testing.T) {
	ctx := context.Background()
	doc := mongokit.MustNewDocument(
		mongokit.Def{"from": mongokit.Int, "to": mongokit.Int},
		mongokit.WithRequired("from", "to"),
		mongokit.WithHook(func(ctx context.Context, doc map[string]any, next func() error) error {
			if err := next(); err != nil {
				return err
			}
			if from, to := doc["from"].(int), doc["to"].(int); from >= to {
				return errors.New("from must be smaller than to")
			}
			return nil
		}),
	)

	if err := doc.Validate(ctx, map[string]any{"from": 1, "to": 2}); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	// Cross-field failure: document-level issue without a path.
	err := doc.Validate(ctx, map[string]any{"from": 5, "to": 2})
	iss, ok := mongokit.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected one extension issue, got %v", err)
	}
	if iss[0].Code != mongokit.CodeExtension || iss[0].Path != "" {
		t.Fatalf("expected pathless extension issue, got %+v", iss[0])
	}

	// Builtin failure surfaces unchanged; the hook must not run its own
	// assertions on a structurally broken document.
	err = doc.Validate(ctx, map[string]any{"from": 1})
	iss, _ = mongokit.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != mongokit.CodeRequired {
		t.Fatalf("expected required from builtin, got %v", err)
	}
}

func TestHook_CallerControlsSequencing(t *testing.T) {
	// A hook that never invokes next skips the builtin pass entirely.
	builtinSkipped := mongokit.MustNewDocument(
		mongokit.Def{"bar": mongokit.String},
		mongokit.WithRequired("bar"),
		mongokit.WithHook(func(ctx context.Context, doc map[string]any, next func() error) error {
			return nil
		}),
	)
	if err := builtinSkipped.Validate(context.Background(), map[string]any{}); err != nil {
		t.Fatalf("hook chose to skip builtin, expected ok, got %v", err)
	}

	// Custom checks may also run before the builtin pass.
	order := []string{}
	doc := mongokit.MustNewDocument(
		mongokit.Def{"bar": mongokit.String},
		mongokit.WithHook(func(ctx context.Context, doc map[string]any, next func() error) error {
			order = append(order, "custom")
			err := next()
			order = append(order, "builtin")
			return err
		}),
	)
	if err := doc.Validate(context.Background(), map[string]any{"bar": "x"}); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(order) != 2 || order[0] != "custom" || order[1] != "builtin" {
		t.Fatalf("unexpected sequencing: %v", order)
	}
}

func TestHook_IssuesPassThrough(t *testing.T) {
	doc := mongokit.MustNewDocument(
		mongokit.Def{"bar": mongokit.String},
		mongokit.WithHook(func(ctx context.Context, doc map[string]any, next func() error) error {
			return mongokit.AppendIssues(nil, mongokit.Issue{
				Code:    mongokit.CodeExtension,
				Message: "custom invariant failed",
			})
		}),
	)
	err := doc.Validate(context.Background(), map[string]any{"bar": "x"})
	iss, ok := mongokit.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Message != "custom invariant failed" {
		t.Fatalf("expected hook issues unchanged, got %v", err)
	}
}

func TestValidate_NilDocument(t *testing.T) {
	doc := mongokit.MustNewDocument(mongokit.Def{"bar": mongokit.String})
	if err := doc.Validate(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil document")
	}
}

func TestIs_Convenience(t *testing.T) {
	ctx := context.Background()
	doc := mongokit.MustNewDocument(
		mongokit.Def{"bar": mongokit.String},
		mongokit.WithRequired("bar"),
	)
	if !doc.Is(ctx, map[string]any{"bar": "x"}) {
		t.Fatalf("expected Is to report true")
	}
	if doc.Is(ctx, map[string]any{}) {
		t.Fatalf("expected Is to report false")
	}
}

func TestIssues_ErrorSummary(t *testing.T) {
	iss := mongokit.Issues{
		{Path: "a", Code: mongokit.CodeInvalidType},
		{Path: "b", Code: mongokit.CodeUnknownKey},
		{Path: "c", Code: mongokit.CodeRequired},
		{Path: "d", Code: mongokit.CodeValidator},
	}
	s := iss.Error()
	if s == "" {
		t.Fatalf("expected non-empty error summary")
	}
}
