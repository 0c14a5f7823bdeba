package engine_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/valida-go/valida/internal/engine"
)

func mustCompile(t *testing.T, doc any) *engine.SchemaNode {
	t.Helper()
	node, err := engine.Compile(doc, engine.Draft202012, nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return node
}

func collectErrs(node *engine.SchemaNode, instance any) []engine.ValidationError {
	var out []engine.ValidationError
	for e := range node.ValidateErrs(instance, nil) {
		out = append(out, e)
	}
	return out
}

// checkConsistent asserts that the boolean check agrees with the error
// sequence being empty, and with the structured output's verdict.
func checkConsistent(t *testing.T, node *engine.SchemaNode, instance any) {
	t.Helper()
	valid := node.IsValid(instance)
	errs := collectErrs(node, instance)
	if valid != (len(errs) == 0) {
		t.Fatalf("IsValid=%v but %d errors: %v", valid, len(errs), errs)
	}
	if out := node.Apply(instance, nil); out.IsValid() != valid {
		t.Fatalf("Apply verdict %v disagrees with IsValid %v", out.IsValid(), valid)
	}
}

func TestOneOfSingleAlternativeNotValid(t *testing.T) {
	node := mustCompile(t, map[string]any{
		"oneOf": []any{map[string]any{"type": "string"}},
	})

	errs := collectErrs(node, 0)
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %v", errs)
	}
	if errs[0].Kind != engine.KindOneOfNotValid {
		t.Fatalf("expected one_of_not_valid, got %v", errs[0].Kind)
	}
	if got := errs[0].SchemaPath.String(); got != "/oneOf" {
		t.Fatalf("expected schema path /oneOf, got %q", got)
	}
	checkConsistent(t, node, 0)
}

func TestOneOfMultipleValid(t *testing.T) {
	node := mustCompile(t, map[string]any{
		"oneOf": []any{
			map[string]any{"type": "string"},
			map[string]any{"maxLength": 3},
		},
	})

	// "" is a string of length <= 3, so both alternatives match.
	errs := collectErrs(node, "")
	if len(errs) != 1 || errs[0].Kind != engine.KindOneOfMultipleValid {
		t.Fatalf("expected one_of_multiple_valid, got %v", errs)
	}
	if got := errs[0].SchemaPath.String(); got != "/oneOf" {
		t.Fatalf("expected schema path /oneOf, got %q", got)
	}
	checkConsistent(t, node, "")
}

func TestOneOfExactlyOne(t *testing.T) {
	node := mustCompile(t, map[string]any{
		"oneOf": []any{
			map[string]any{"type": "string"},
			map[string]any{"type": "number"},
		},
	})

	for _, tc := range []struct {
		instance any
		valid    bool
	}{
		{"hello", true},
		{42, true},
		{true, false},
		{nil, false},
		{map[string]any{}, false},
	} {
		if got := node.IsValid(tc.instance); got != tc.valid {
			t.Fatalf("IsValid(%v) = %v, want %v", tc.instance, got, tc.valid)
		}
		checkConsistent(t, node, tc.instance)
	}
}

// exactly-one property: the combinator's verdict must equal "exactly one
// alternative, checked independently, is valid".
func TestOneOfExactlyOneProperty(t *testing.T) {
	alts := []any{
		map[string]any{"type": "string"},
		map[string]any{"maxLength": 3},
		map[string]any{"minimum": 10},
	}
	combined := mustCompile(t, map[string]any{"oneOf": alts})
	var nodes []*engine.SchemaNode
	for _, alt := range alts {
		nodes = append(nodes, mustCompile(t, alt))
	}

	instances := []any{"", "abc", "abcdef", 5, 15, true, nil, []any{}, map[string]any{"a": 1}}
	for _, instance := range instances {
		matches := 0
		for _, n := range nodes {
			if n.IsValid(instance) {
				matches++
			}
		}
		want := matches == 1
		if got := combined.IsValid(instance); got != want {
			t.Fatalf("instance %v: oneOf=%v, independent matches=%d", instance, got, matches)
		}
	}
}

func discriminatedSchema() map[string]any {
	return map[string]any{
		"discriminator": map[string]any{
			"propertyName": "kind",
			"mapping": map[string]any{
				"a": "#/defs/A",
				"b": "#/defs/B",
			},
		},
		"oneOf": []any{
			map[string]any{"$ref": "#/defs/A"},
			map[string]any{"$ref": "#/defs/B"},
		},
		"defs": map[string]any{
			"A": map[string]any{
				"type":     "object",
				"required": []any{"kind", "size"},
			},
			"B": map[string]any{
				"type":     "object",
				"required": []any{"kind", "name"},
			},
		},
	}
}

func TestOneOfDiscriminatorFastPath(t *testing.T) {
	node := mustCompile(t, discriminatedSchema())

	instance := map[string]any{"kind": "a", "size": 3}
	if !node.IsValid(instance) {
		t.Fatalf("expected valid via fast path")
	}
	if errs := collectErrs(node, instance); len(errs) != 0 {
		t.Fatalf("expected zero errors, got %v", errs)
	}

	// The dispatched alternative's own failures come through untouched.
	bad := map[string]any{"kind": "b"}
	errs := collectErrs(node, bad)
	if len(errs) == 0 {
		t.Fatalf("expected errors from dispatched alternative")
	}
	for _, e := range errs {
		if e.Kind == engine.KindOneOfNotValid || e.Kind == engine.KindOneOfMultipleValid {
			t.Fatalf("fast path must report the target's errors, got %v", e.Kind)
		}
	}
	checkConsistent(t, node, bad)
}

// Once the tag names a unique target, the discriminator result is
// authoritative: an instance that would be ambiguous under the exhaustive
// check still validates against only the dispatched alternative.
func TestOneOfDiscriminatorAuthoritative(t *testing.T) {
	node := mustCompile(t, discriminatedSchema())

	instance := map[string]any{"kind": "a", "size": 3, "name": "x"}
	if !node.IsValid(instance) {
		t.Fatalf("expected fast-path verdict, not ambiguity")
	}
	if errs := collectErrs(node, instance); len(errs) != 0 {
		t.Fatalf("expected zero errors, got %v", errs)
	}
}

// fallback totality: whenever the fast path cannot place the instance, the
// exhaustive path still produces a verdict.
func TestOneOfDiscriminatorFallback(t *testing.T) {
	node := mustCompile(t, discriminatedSchema())

	for name, instance := range map[string]any{
		"unmapped tag":   map[string]any{"kind": "unknown"},
		"missing tag":    map[string]any{"size": 3},
		"non-string tag": map[string]any{"kind": 7},
		"not an object":  "card",
	} {
		errs := collectErrs(node, instance)
		if len(errs) != 1 || errs[0].Kind != engine.KindOneOfNotValid {
			t.Fatalf("%s: expected one_of_not_valid, got %v", name, errs)
		}
		checkConsistent(t, node, instance)
	}
}

// A mapping entry pointing outside the dispatch index degrades to the
// exhaustive path instead of panicking.
func TestOneOfDiscriminatorUnindexedTarget(t *testing.T) {
	doc := discriminatedSchema()
	disc := doc["discriminator"].(map[string]any)
	disc["mapping"].(map[string]any)["c"] = "#/defs/C"
	doc["defs"].(map[string]any)["C"] = map[string]any{"type": "object"}

	node := mustCompile(t, doc)
	// #/defs/C is not a oneOf alternative, so "c" cannot dispatch and the
	// exhaustive path decides. {"kind":"c"} satisfies neither alternative;
	// adding "size" satisfies exactly alternative A.
	errs := collectErrs(node, map[string]any{"kind": "c"})
	if len(errs) != 1 || errs[0].Kind != engine.KindOneOfNotValid {
		t.Fatalf("expected exhaustive fallback, got %v", errs)
	}
	if !node.IsValid(map[string]any{"kind": "c", "size": 1}) {
		t.Fatalf("exhaustive path must still find the single match")
	}
}

// Alternatives that are not bare $refs stay unreachable by dispatch but
// reachable exhaustively.
func TestOneOfInlineAlternative(t *testing.T) {
	node := mustCompile(t, map[string]any{
		"discriminator": map[string]any{
			"propertyName": "kind",
			"mapping":      map[string]any{"a": "#/defs/A"},
		},
		"oneOf": []any{
			map[string]any{"$ref": "#/defs/A"},
			map[string]any{"type": "object", "required": []any{"inline"}},
		},
		"defs": map[string]any{
			"A": map[string]any{"type": "object", "required": []any{"kind"}},
		},
	})

	if !node.IsValid(map[string]any{"inline": true}) {
		t.Fatalf("inline alternative must match via the exhaustive path")
	}
}

func TestOneOfCompileErrors(t *testing.T) {
	for name, doc := range map[string]any{
		"not an array": map[string]any{"oneOf": "nope"},
		"empty array":  map[string]any{"oneOf": []any{}},
	} {
		_, err := engine.Compile(doc, engine.Draft202012, nil)
		var ve *engine.ValidationError
		if err == nil {
			t.Fatalf("%s: expected compile error", name)
		}
		if ok := asValidationError(err, &ve); !ok || ve.Kind != engine.KindTypeMismatch {
			t.Fatalf("%s: expected type_mismatch, got %v", name, err)
		}
	}
}

func TestOneOfMalformedDiscriminator(t *testing.T) {
	cases := map[string]any{
		"propertyName missing":    map[string]any{},
		"propertyName non-string": map[string]any{"propertyName": 1},
		"mapping non-object":      map[string]any{"propertyName": "kind", "mapping": "x"},
		"mapping non-string-vals": map[string]any{"propertyName": "kind", "mapping": map[string]any{"a": 1}},
	}
	for name, disc := range cases {
		doc := map[string]any{
			"discriminator": disc,
			"oneOf":         []any{map[string]any{"type": "string"}},
		}
		_, err := engine.Compile(doc, engine.Draft202012, nil)
		var ve *engine.ValidationError
		if err == nil || !asValidationError(err, &ve) || ve.Kind != engine.KindInvalidDiscriminator {
			t.Fatalf("%s: expected invalid_discriminator, got %v", name, err)
		}
	}
}

// faultyResolver fails every lookup that targets a discriminator location
// with an error distinct from ErrNotFound, and delegates the rest.
type faultyResolver struct {
	inner engine.Resolver
	fail  error
}

func (r *faultyResolver) ResolveFragment(draft engine.Draft, baseURL, pointer string) (string, any, error) {
	if strings.HasSuffix(pointer, "/discriminator") {
		return "", nil, r.fail
	}
	return r.inner.ResolveFragment(draft, baseURL, pointer)
}

// A resolver failure while looking for the sibling discriminator is a
// compile error, not a silent downgrade to the exhaustive path.
func TestOneOfDiscriminatorResolverFailure(t *testing.T) {
	doc := map[string]any{
		"oneOf": []any{map[string]any{"type": "string"}},
	}
	fail := errors.New("backing store unavailable")
	resolver := &faultyResolver{inner: engine.NewDocumentResolver(doc), fail: fail}

	_, err := engine.Compile(doc, engine.Draft202012, resolver)
	var ve *engine.ValidationError
	if err == nil || !asValidationError(err, &ve) {
		t.Fatalf("expected compile error, got %v", err)
	}
	if ve.Kind != engine.KindReferenceUnresolved {
		t.Fatalf("expected ref_unresolved, got %v", ve.Kind)
	}
	if !strings.Contains(ve.Detail, "backing store unavailable") {
		t.Fatalf("resolver failure not carried in detail: %q", ve.Detail)
	}
	if got := ve.SchemaPath.String(); got != "/discriminator" {
		t.Fatalf("expected schema path /discriminator, got %q", got)
	}
}

// Absence of a discriminator is not an error: plain oneOf compiles and runs
// exhaustively.
func TestOneOfNoDiscriminator(t *testing.T) {
	node := mustCompile(t, map[string]any{
		"oneOf": []any{map[string]any{"type": "string"}},
	})
	if !node.IsValid("x") {
		t.Fatalf("expected valid")
	}
}

func TestOneOfApplySingleSuccess(t *testing.T) {
	node := mustCompile(t, map[string]any{
		"oneOf": []any{
			map[string]any{"type": "string"},
			map[string]any{"type": "number"},
		},
	})
	out := node.Apply("x", nil)
	if !out.IsValid() {
		t.Fatalf("expected valid output, got %v", out.Units())
	}
	found := false
	for _, u := range out.Units() {
		if u.KeywordLocation == "/oneOf" && u.Error == "" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an annotation at /oneOf, got %v", out.Units())
	}
}

func TestOneOfApplyAmbiguous(t *testing.T) {
	node := mustCompile(t, map[string]any{
		"oneOf": []any{
			map[string]any{"type": "string"},
			map[string]any{"maxLength": 3},
		},
	})
	out := node.Apply("", nil)
	if out.IsValid() {
		t.Fatalf("expected invalid output")
	}
	if len(out.Units()) != 1 || !strings.Contains(out.Units()[0].Error, "more than one") {
		t.Fatalf("expected the ambiguity unit, got %v", out.Units())
	}
}

func TestOneOfApplyAllFail(t *testing.T) {
	node := mustCompile(t, map[string]any{
		"oneOf": []any{
			map[string]any{"type": "string"},
			map[string]any{"type": "number"},
		},
	})
	out := node.Apply(true, nil)
	if out.IsValid() {
		t.Fatalf("expected invalid output")
	}
	// The sum of both failing branches keeps each branch's detail.
	if len(out.Units()) < 2 {
		t.Fatalf("expected merged branch failures, got %v", out.Units())
	}
}

func TestOneOfIdempotent(t *testing.T) {
	node := mustCompile(t, map[string]any{
		"oneOf": []any{
			map[string]any{"type": "string"},
			map[string]any{"maxLength": 3},
		},
	})
	first := collectErrs(node, "")
	second := collectErrs(node, "")
	if len(first) != len(second) {
		t.Fatalf("error sequences differ: %v vs %v", first, second)
	}
	for i := range first {
		if first[i].Kind != second[i].Kind || first[i].SchemaPath.String() != second[i].SchemaPath.String() {
			t.Fatalf("error %d differs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestOneOfString(t *testing.T) {
	node := mustCompile(t, map[string]any{
		"oneOf": []any{
			map[string]any{"type": "string"},
			map[string]any{"maxLength": 3},
		},
	})
	got := node.String()
	if !strings.Contains(got, "oneOf: [") || !strings.Contains(got, "type: string") || !strings.Contains(got, "maxLength: 3") {
		t.Fatalf("unexpected rendering %q", got)
	}
}
