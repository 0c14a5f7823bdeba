package engine

import "errors"

// Discriminator is compiled, keyword-independent dispatch metadata: a tag
// property plus a mapping from tag value to reference string. It is produced
// at most once per enclosing combinator.
type Discriminator struct {
	PropertyName string
	Mapping      map[string]string
}

// oneOfValidator enforces "exactly one alternative matches". Alternatives
// keep their source order; refIndex maps the reference string of each bare
// $ref alternative to its position so a discriminator can dispatch in O(1)
// instead of checking all N alternatives.
type oneOfValidator struct {
	schemaPath    JSONPointer
	alternatives  []*SchemaNode
	refIndex      map[string]int
	discriminator *Discriminator
}

func compileOneOf(_ map[string]any, body any, ctx *CompileContext) (Validator, error) {
	kctx := ctx.WithPath("oneOf")
	items, ok := body.([]any)
	if !ok {
		return nil, compileErr(kctx, KindTypeMismatch, "oneOf must be an array")
	}
	if len(items) == 0 {
		return nil, compileErr(kctx, KindTypeMismatch, "oneOf must list at least one schema")
	}
	disc, err := probeDiscriminator(ctx)
	if err != nil {
		return nil, err
	}
	alternatives := make([]*SchemaNode, 0, len(items))
	refIndex := map[string]int{}
	for i, item := range items {
		node, err := CompileValidators(item, kctx.WithIndex(i))
		if err != nil {
			return nil, err
		}
		alternatives = append(alternatives, node)
		if ref, bare := bareRef(item); bare {
			refIndex[ref] = i
		}
	}
	return &oneOfValidator{
		schemaPath:    kctx.Pointer(),
		alternatives:  alternatives,
		refIndex:      refIndex,
		discriminator: disc,
	}, nil
}

// bareRef reports whether a sub-schema body is exactly {"$ref": "..."} with
// no sibling keywords. Only such alternatives are reachable by discriminator
// dispatch; the rest stay reachable through the exhaustive path.
func bareRef(item any) (string, bool) {
	obj, ok := item.(map[string]any)
	if !ok || len(obj) != 1 {
		return "", false
	}
	ref, ok := obj["$ref"].(string)
	return ref, ok
}

// probeDiscriminator looks for a sibling discriminator object at the
// enclosing schema's location in the original document. Absence is not an
// error; a malformed payload or a failing resolver is.
func probeDiscriminator(ctx *CompileContext) (*Discriminator, error) {
	ptr := "#" + ctx.Pointer().String() + "/discriminator"
	_, raw, err := ctx.Resolver().ResolveFragment(ctx.Draft(), ctx.baseURL, ptr)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, compileErr(ctx.WithPath("discriminator"), KindReferenceUnresolved, err.Error())
	}
	return parseDiscriminator(raw, ctx)
}

func parseDiscriminator(raw any, ctx *CompileContext) (*Discriminator, error) {
	kctx := ctx.WithPath("discriminator")
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, compileErr(kctx, KindInvalidDiscriminator, "discriminator must be an object")
	}
	name, ok := obj["propertyName"].(string)
	if !ok || name == "" {
		return nil, compileErr(kctx, KindInvalidDiscriminator, "propertyName must be a non-empty string")
	}
	mapping := map[string]string{}
	if rawMapping, present := obj["mapping"]; present {
		m, ok := rawMapping.(map[string]any)
		if !ok {
			return nil, compileErr(kctx, KindInvalidDiscriminator, "mapping must be an object")
		}
		for tag, target := range m {
			ref, ok := target.(string)
			if !ok {
				return nil, compileErr(kctx, KindInvalidDiscriminator, "mapping values must be strings")
			}
			mapping[tag] = ref
		}
	}
	return &Discriminator{PropertyName: name, Mapping: mapping}, nil
}

// dispatch is the O(1) fast path: one property lookup, one mapping lookup,
// one index lookup. Any miss falls through to the exhaustive path; none of
// the misses is itself a validation error.
func (o *oneOfValidator) dispatch(instance any) (*SchemaNode, bool) {
	if o.discriminator == nil {
		return nil, false
	}
	obj, ok := instance.(map[string]any)
	if !ok {
		return nil, false
	}
	tag, ok := obj[o.discriminator.PropertyName].(string)
	if !ok {
		return nil, false
	}
	ref, ok := o.discriminator.Mapping[tag]
	if !ok {
		return nil, false
	}
	idx, ok := o.refIndex[ref]
	if !ok {
		return nil, false
	}
	return o.alternatives[idx], true
}

func (o *oneOfValidator) firstValid(instance any) int {
	for i, node := range o.alternatives {
		if node.IsValid(instance) {
			return i
		}
	}
	return -1
}

// anyOtherValid only scans past first: everything before it already failed
// during firstValid.
func (o *oneOfValidator) anyOtherValid(instance any, first int) bool {
	for _, node := range o.alternatives[first+1:] {
		if node.IsValid(instance) {
			return true
		}
	}
	return false
}

func (o *oneOfValidator) IsValid(instance any) bool {
	if node, ok := o.dispatch(instance); ok {
		return node.IsValid(instance)
	}
	first := o.firstValid(instance)
	return first >= 0 && !o.anyOtherValid(instance, first)
}

func (o *oneOfValidator) ValidateErrs(instance any, path *InstancePath) ErrorSeq {
	if node, ok := o.dispatch(instance); ok {
		// The discriminator result is authoritative once a unique target is
		// identified by tag; no exactness check against the others.
		return node.ValidateErrs(instance, path)
	}
	first := o.firstValid(instance)
	if first < 0 {
		return oneError(ValidationError{
			SchemaPath:   o.schemaPath,
			InstancePath: path.Pointer(),
			Instance:     instance,
			Kind:         KindOneOfNotValid,
		})
	}
	if o.anyOtherValid(instance, first) {
		return oneError(ValidationError{
			SchemaPath:   o.schemaPath,
			InstancePath: path.Pointer(),
			Instance:     instance,
			Kind:         KindOneOfMultipleValid,
		})
	}
	return noErrors()
}

func (o *oneOfValidator) Apply(instance any, path *InstancePath) BasicOutput {
	if node, ok := o.dispatch(instance); ok {
		return node.ApplyRooted(instance, path)
	}
	var successes, failures []BasicOutput
	for _, node := range o.alternatives {
		out := node.ApplyRooted(instance, path)
		if out.IsValid() {
			successes = append(successes, out)
		} else {
			failures = append(failures, out)
		}
	}
	switch {
	case len(successes) == 1:
		units := append([]OutputUnit{annotationUnit(o.schemaPath, path)}, successes[0].Units()...)
		return validOutput(units...)
	case len(successes) > 1:
		return invalidOutput(errUnit(o.schemaPath, path, "more than one subschema succeeded"))
	case len(failures) > 0:
		return mergeAll(failures)
	default:
		// Compilation rejects empty oneOf; reaching this is an internal
		// invariant violation, reported instead of panicking.
		return invalidOutput(errUnit(o.schemaPath, path, "oneOf compiled with no alternatives"))
	}
}

func (o *oneOfValidator) String() string {
	return "oneOf: [" + formatNodeList(o.alternatives) + "]"
}
