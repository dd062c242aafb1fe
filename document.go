package mongokit

import (
	"context"

	"github.com/ajessup/mongokit/i18n"
)

// Hook is the extension point for caller-supplied cross-field invariants.
// next runs the built-in stage 1-4 pass on the same instance and mode; the
// hook decides if and when to invoke it, so "built-in first, then extra
// checks" and the reverse are both a one-liner. Returning a plain error maps
// to a document-level extension issue with no path.
type Hook func(ctx context.Context, doc map[string]any, next func() error) error

// Document is a compiled document type: schema tree, descriptor overlays and
// optional extension hook. Built once via NewDocument; immutable afterwards
// and safe for concurrent Validate calls on distinct instances.
type Document struct {
	schema *Schema
	desc   *descriptorSet
	hook   Hook
}

// DocumentOpt configures a document type at declaration time.
type DocumentOpt func(*documentConfig)

// WithRequired marks dot paths that must be present and non-null in every
// instance.
func WithRequired(paths ...string) DocumentOpt {
	return func(c *documentConfig) {
		c.required = append(c.required, paths...)
	}
}

// WithDefaults registers default values keyed by dot path. A value of type
// func() any is treated as a factory and evaluated per application.
func WithDefaults(defaults map[string]any) DocumentOpt {
	return func(c *documentConfig) {
		if c.defaults == nil {
			c.defaults = map[string]any{}
		}
		for k, v := range defaults {
			c.defaults[k] = v
		}
	}
}

// WithValidator appends validators to the chain for one dot path. Chains run
// in registration order and short-circuit on the first failure.
func WithValidator(path string, chain ...Validator) DocumentOpt {
	return func(c *documentConfig) {
		if c.validators == nil {
			c.validators = map[string][]Validator{}
		}
		c.validators[path] = append(c.validators[path], chain...)
	}
}

// WithValidators registers validator chains for several paths at once.
func WithValidators(m map[string][]Validator) DocumentOpt {
	return func(c *documentConfig) {
		if c.validators == nil {
			c.validators = map[string][]Validator{}
		}
		for k, chain := range m {
			c.validators[k] = append(c.validators[k], chain...)
		}
	}
}

// WithTranslatable marks scalar dot paths whose stored value is a mapping
// from locale code to a value of the declared type.
func WithTranslatable(paths ...string) DocumentOpt {
	return func(c *documentConfig) {
		c.translatable = append(c.translatable, paths...)
	}
}

// WithHook attaches the extension hook. Only one hook is kept; the last
// registration wins.
func WithHook(h Hook) DocumentOpt {
	return func(c *documentConfig) { c.hook = h }
}

// NewDocument compiles a structure definition and its descriptors into a
// document type. Every descriptor path is parsed and resolved here, once;
// declaration failures return schema_error/path_error issues and validation
// passes never see them.
func NewDocument(def Def, opts ...DocumentOpt) (*Document, error) {
	schema, err := Compile(def)
	if err != nil {
		return nil, err
	}
	var cfg documentConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	desc, err := compileDescriptors(schema, cfg)
	if err != nil {
		return nil, err
	}
	return &Document{schema: schema, desc: desc, hook: cfg.hook}, nil
}

// MustNewDocument is NewDocument that panics on error.
func MustNewDocument(def Def, opts ...DocumentOpt) *Document {
	d, err := NewDocument(def, opts...)
	if err != nil {
		panic("mongokit: " + err.Error())
	}
	return d
}

// Schema exposes the compiled schema tree.
func (d *Document) Schema() *Schema { return d.schema }

// ValidateOpt carries per-pass options. The zero value is fail-fast.
type ValidateOpt struct {
	// Collect runs every stage to completion and returns all issues in
	// stage order instead of aborting on the first failure.
	Collect bool
}

// Collect returns the collect-all validation option.
func Collect() ValidateOpt { return ValidateOpt{Collect: true} }

// Validate runs the staged pass over doc. The engine borrows doc for the
// duration of the call and mutates it only to fill defaults; it retains no
// reference afterwards. With a hook attached the hook drives the pass and
// gets the built-in stages as next; otherwise the built-in pass runs alone.
// The returned error, when non-nil, is always Issues.
func (d *Document) Validate(ctx context.Context, doc map[string]any, opts ...ValidateOpt) error {
	if doc == nil {
		return AppendIssues(nil, Issue{
			Code:    CodeInvalidType,
			Message: i18n.T(CodeInvalidType, nil),
			Hint:    "nil document",
		})
	}
	var opt ValidateOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	builtin := func() error {
		if iss := d.pass(doc, opt.Collect); len(iss) > 0 {
			return iss
		}
		return nil
	}
	if d.hook == nil {
		return builtin()
	}
	err := d.hook(ctx, doc, builtin)
	if err == nil {
		return nil
	}
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	return AppendIssues(nil, Issue{
		Code:    CodeExtension,
		Message: err.Error(),
		Cause:   err,
	})
}

// Is reports whether doc validates cleanly. Defaults are still applied.
func (d *Document) Is(ctx context.Context, doc map[string]any) bool {
	return d.Validate(ctx, doc) == nil
}
