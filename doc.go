// Package valida validates JSON-like documents against JSON Schema
// documents by compiling each schema once into an immutable tree of
// validator nodes, then running that tree against any number of instances
// without re-parsing the schema.
//
// The oneOf combinator enforces "exactly one alternative matches". When the
// enclosing schema carries a discriminator object, instances that name a
// mapped tag dispatch to the matching alternative in O(1) instead of being
// checked against every alternative; instances the discriminator cannot
// place fall back to the exhaustive exactly-one check.
//
//	schema := valida.MustCompile(doc)
//	if err := schema.Validate(ctx, instance); err != nil {
//		iss, _ := valida.AsIssues(err)
//		...
//	}
//
// Compiled schemas are safe for concurrent use.
package valida
