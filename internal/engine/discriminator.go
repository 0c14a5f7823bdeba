package engine

import "sort"

// discriminatorValidator is the standalone discriminator keyword: it reads
// the tag property and delegates entirely to the one mapped target, with no
// alternative checking and no ambiguity detection.
//
// Deprecated: the oneOf-embedded discriminator (see oneOfValidator) is the
// conformance target; this keyword is kept for schemas that use
// discriminator without oneOf.
type discriminatorValidator struct {
	schemaPath   JSONPointer
	propertyName string
	mapping      map[string]*SchemaNode
	tags         []string
}

func compileDiscriminator(parent map[string]any, body any, ctx *CompileContext) (Validator, error) {
	if _, hasOneOf := parent["oneOf"]; hasOneOf {
		// Consumed as dispatch metadata by the sibling oneOf combinator.
		return nil, nil
	}
	kctx := ctx.WithPath("discriminator")
	obj, ok := body.(map[string]any)
	if !ok {
		return nil, compileErr(kctx, KindInvalidDiscriminator, "discriminator must be an object")
	}
	name, ok := obj["propertyName"].(string)
	if !ok || name == "" {
		return nil, compileErr(kctx, KindInvalidDiscriminator, "propertyName must be a non-empty string")
	}
	rawMapping, ok := obj["mapping"].(map[string]any)
	if !ok {
		return nil, compileErr(kctx, KindInvalidDiscriminator, "mapping must be an object")
	}
	mctx := kctx.WithPath("mapping")
	mapping := make(map[string]*SchemaNode, len(rawMapping))
	tags := make([]string, 0, len(rawMapping))
	for tag, target := range rawMapping {
		tctx := mctx.WithPath(tag)
		ref, ok := target.(string)
		if !ok {
			return nil, compileErr(tctx, KindInvalidDiscriminator, "mapping values must be reference strings")
		}
		v, err := compileReference(ref, tctx)
		if err != nil {
			return nil, err
		}
		mapping[tag] = newSchemaNode(tctx.Pointer(), []keywordValidator{{keyword: "$ref", v: v}})
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return &discriminatorValidator{
		schemaPath:   kctx.Pointer(),
		propertyName: name,
		mapping:      mapping,
		tags:         tags,
	}, nil
}

// target looks up the node for the instance's tag value. A missing property,
// non-string tag or unmapped value yields no target; that outcome is the
// same "nothing matched" verdict as an exhausted combinator.
func (d *discriminatorValidator) target(instance any) (*SchemaNode, bool) {
	obj, ok := instance.(map[string]any)
	if !ok {
		return nil, false
	}
	tag, ok := obj[d.propertyName].(string)
	if !ok {
		return nil, false
	}
	node, ok := d.mapping[tag]
	return node, ok
}

func (d *discriminatorValidator) IsValid(instance any) bool {
	node, ok := d.target(instance)
	return ok && node.IsValid(instance)
}

func (d *discriminatorValidator) ValidateErrs(instance any, path *InstancePath) ErrorSeq {
	node, ok := d.target(instance)
	if !ok {
		return oneError(ValidationError{
			SchemaPath:   d.schemaPath,
			InstancePath: path.Pointer(),
			Instance:     instance,
			Kind:         KindOneOfNotValid,
			Detail:       d.propertyName,
		})
	}
	return node.ValidateErrs(instance, path)
}

func (d *discriminatorValidator) Apply(instance any, path *InstancePath) BasicOutput {
	node, ok := d.target(instance)
	if !ok {
		return invalidOutput(errUnit(d.schemaPath, path, "no discriminator match for property "+d.propertyName))
	}
	return node.ApplyRooted(instance, path)
}

func (d *discriminatorValidator) String() string {
	nodes := make([]*SchemaNode, 0, len(d.mapping))
	for _, tag := range d.tags {
		nodes = append(nodes, d.mapping[tag])
	}
	return "discriminator: [" + formatNodeList(nodes) + "]"
}
