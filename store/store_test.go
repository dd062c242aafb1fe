package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	mongokit "github.com/ajessup/mongokit"
	"github.com/ajessup/mongokit/store"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(&store.Config{
		Path: ":memory:",
		// A single connection keeps every statement on the same in-memory
		// database.
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		BusyTimeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func userCollection(t *testing.T, s *store.Store) *store.Collection {
	t.Helper()
	doc := mongokit.MustNewDocument(
		mongokit.Def{
			"name": mongokit.String,
			"age":  mongokit.Int,
		},
		mongokit.WithRequired("name"),
		mongokit.WithDefaults(map[string]any{"age": 0}),
	)
	return s.Collection("users", doc)
}

func TestCollection_SaveGet(t *testing.T) {
	ctx := context.Background()
	c := userCollection(t, testStore(t))

	id, err := c.Save(ctx, map[string]any{"name": "ada"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id == "" {
		t.Fatalf("expected generated id")
	}

	got, err := c.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got["name"] != "ada" {
		t.Fatalf("unexpected document: %v", got)
	}
	// The default was applied before persisting.
	if _, ok := got["age"]; !ok {
		t.Fatalf("expected default age persisted, got %v", got)
	}
}

func TestCollection_SaveRejectedSurfacesIssues(t *testing.T) {
	ctx := context.Background()
	c := userCollection(t, testStore(t))

	_, err := c.Save(ctx, map[string]any{"age": "old"})
	if err == nil {
		t.Fatalf("expected save rejection")
	}
	iss, ok := mongokit.AsIssues(err)
	if !ok {
		t.Fatalf("expected engine Issues, got %v", err)
	}
	// Collect mode: both the type mismatch and the missing required field.
	if len(iss) != 2 {
		t.Fatalf("expected two issues, got %v", iss)
	}
}

func TestCollection_UpsertFindDeleteCount(t *testing.T) {
	ctx := context.Background()
	c := userCollection(t, testStore(t))

	id, err := c.Save(ctx, map[string]any{"name": "ada"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := c.Save(ctx, map[string]any{"_id": id, "name": "ada lovelace"}); err != nil {
		t.Fatalf("resave: %v", err)
	}
	if _, err := c.Save(ctx, map[string]any{"name": "grace"}); err != nil {
		t.Fatalf("save second: %v", err)
	}

	if n, err := c.Count(ctx); err != nil || n != 2 {
		t.Fatalf("expected count 2, got n=%d err=%v", n, err)
	}

	docs, err := c.Find(ctx, 0, 0)
	if err != nil || len(docs) != 2 {
		t.Fatalf("expected two documents, got %v err=%v", docs, err)
	}

	if err := c.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := c.Get(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := c.Delete(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}
