// Package mongokit provides:
//
// - Declarative structure definitions compiled once into an immutable schema tree
// - Dot-path descriptors layered on a schema: required fields, defaults, validators, translatable fields
// - A staged validation pass over nested map/list/scalar documents (fail-fast or collect-all)
// - A stable error model via Issues (dot path, code, message)
// - An extension hook for caller-supplied cross-field invariants
//
// Design policy:
// - Keep only public APIs in the root package; persistence glue lives under store/.
// - Place file-based schema loading under schemafile/ and the CLI under cmd/mongokit.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	doc, err := mongokit.NewDocument(mongokit.Def{
//	    "bar": mongokit.String,
//	    "foo": mongokit.Def{"spam": mongokit.String, "eggs": mongokit.Int},
//	},
//	    mongokit.WithRequired("bar", "foo.spam"),
//	    mongokit.WithDefaults(map[string]any{"foo.eggs": 4}),
//	)
//	err = doc.Validate(ctx, instance)
//	err = doc.Validate(ctx, instance, mongokit.Collect())
package mongokit
