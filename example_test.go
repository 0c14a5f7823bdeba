package valida_test

import (
	"context"
	"fmt"

	valida "github.com/valida-go/valida"
)

func ExampleCompile() {
	schema := valida.MustCompile(map[string]any{
		"oneOf": []any{
			map[string]any{"type": "string"},
			map[string]any{"type": "number"},
		},
	})

	fmt.Println(schema.IsValid("hello"))
	fmt.Println(schema.IsValid(true))
	// Output:
	// true
	// false
}

func ExampleSchema_Validate() {
	ctx := context.Background()
	schema := valida.MustCompile(map[string]any{
		"discriminator": map[string]any{
			"propertyName": "kind",
			"mapping": map[string]any{
				"card": "#/defs/Card",
				"bank": "#/defs/Bank",
			},
		},
		"oneOf": []any{
			map[string]any{"$ref": "#/defs/Card"},
			map[string]any{"$ref": "#/defs/Bank"},
		},
		"defs": map[string]any{
			"Card": map[string]any{"type": "object", "required": []any{"kind", "number"}},
			"Bank": map[string]any{"type": "object", "required": []any{"kind", "iban"}},
		},
	})

	// The "card" tag dispatches straight to the Card alternative.
	err := schema.Validate(ctx, map[string]any{"kind": "card", "number": "4111"})
	fmt.Println(err)

	// An unknown tag falls back to the exhaustive exactly-one check.
	err = schema.Validate(ctx, map[string]any{"kind": "crypto"})
	if iss, ok := valida.AsIssues(err); ok {
		fmt.Println(iss[0].Code)
	}
	// Output:
	// <nil>
	// one_of_not_valid
}
