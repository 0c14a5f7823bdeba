package engine

// compileFn compiles one keyword. parent is the enclosing schema object so
// keywords that read siblings (oneOf probing for a discriminator) can; body
// is the keyword's own value. Returning a nil Validator without error means
// the keyword declined to produce one.
type compileFn func(parent map[string]any, body any, ctx *CompileContext) (Validator, error)

// keywordOrder fixes the compilation and evaluation order of keywords so
// nodes are deterministic regardless of map iteration.
var keywordOrder = []string{
	"$ref",
	"type",
	"enum",
	"const",
	"minLength",
	"maxLength",
	"pattern",
	"minimum",
	"maximum",
	"required",
	"properties",
	"items",
	"oneOf",
	"discriminator",
}

// keywordRegistry is populated in init: several keyword compilers recurse
// into CompileValidators, so a map literal would form an initialization
// cycle.
var keywordRegistry map[string]compileFn

func init() {
	keywordRegistry = map[string]compileFn{
		"$ref":          compileRefKeyword,
		"type":          compileType,
		"enum":          compileEnum,
		"const":         compileConst,
		"minLength":     compileMinLength,
		"maxLength":     compileMaxLength,
		"pattern":       compilePattern,
		"minimum":       compileMinimum,
		"maximum":       compileMaximum,
		"required":      compileRequired,
		"properties":    compileProperties,
		"items":         compileItems,
		"oneOf":         compileOneOf,
		"discriminator": compileDiscriminator,
	}
}

// CompileKeyword is the factory surface consumed by a generic compilation
// driver: ok is false when the keyword is absent or not recognized, while a
// present-but-invalid keyword returns a hard error.
func CompileKeyword(name string, parent map[string]any, ctx *CompileContext) (Validator, bool, error) {
	f, known := keywordRegistry[name]
	if !known {
		return nil, false, nil
	}
	body, present := parent[name]
	if !present {
		return nil, false, nil
	}
	v, err := f(parent, body, ctx)
	if err != nil {
		return nil, true, err
	}
	if v == nil {
		return nil, false, nil
	}
	return v, true, nil
}

// Compile turns a whole schema document into its root validator node. When
// resolver is nil, fragments resolve against the document itself.
func Compile(doc any, draft Draft, resolver Resolver) (*SchemaNode, error) {
	if resolver == nil {
		resolver = NewDocumentResolver(doc)
	}
	return CompileValidators(doc, NewCompileContext(draft, resolver))
}

// CompileValidators compiles any JSON value into a full validator node.
// Unknown keywords are annotations and are skipped; boolean schemas compile
// to the empty node (true) or a node that rejects everything (false).
func CompileValidators(schema any, ctx *CompileContext) (*SchemaNode, error) {
	switch s := schema.(type) {
	case bool:
		if s {
			return newSchemaNode(ctx.Pointer(), nil), nil
		}
		f := &falseValidator{schemaPath: ctx.Pointer()}
		return newSchemaNode(ctx.Pointer(), []keywordValidator{{keyword: "false", v: f}}), nil
	case map[string]any:
		var kvs []keywordValidator
		for _, kw := range keywordOrder {
			body, present := s[kw]
			if !present {
				continue
			}
			v, err := keywordRegistry[kw](s, body, ctx)
			if err != nil {
				return nil, err
			}
			if v == nil {
				continue
			}
			kvs = append(kvs, keywordValidator{keyword: kw, v: v})
		}
		return newSchemaNode(ctx.Pointer(), kvs), nil
	default:
		return nil, compileErr(ctx, KindTypeMismatch, "schema must be an object or boolean")
	}
}
