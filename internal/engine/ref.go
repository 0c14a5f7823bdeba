package engine

// refValidator delegates to the compiled target of a $ref. The slot is
// shared through the compilation-scope reference table, so cyclic schemas
// point back at the node being compiled instead of recursing forever.
type refValidator struct {
	schemaPath JSONPointer
	ref        string
	slot       *refSlot
}

func compileRefKeyword(_ map[string]any, body any, ctx *CompileContext) (Validator, error) {
	kctx := ctx.WithPath("$ref")
	ref, ok := body.(string)
	if !ok {
		return nil, compileErr(kctx, KindTypeMismatch, "$ref must be a string")
	}
	return compileReference(ref, kctx)
}

// compileReference compiles a reference string into a validator. It also
// serves the discriminator keyword, whose mapping values are bare
// references.
func compileReference(ref string, kctx *CompileContext) (Validator, error) {
	base, frag := splitRef(ref)
	if base == "" {
		// fragment-only references stay within the current document
		base = kctx.baseURL
	}
	loc, raw, err := kctx.Resolver().ResolveFragment(kctx.Draft(), base, frag)
	if err != nil {
		return nil, compileErr(kctx, KindReferenceUnresolved, ref)
	}
	if slot, seen := kctx.refs[loc]; seen {
		return &refValidator{schemaPath: kctx.Pointer(), ref: ref, slot: slot}, nil
	}
	slot := &refSlot{}
	kctx.refs[loc] = slot
	node, err := CompileValidators(raw, kctx.atLocation(base, ParsePointer(frag)))
	if err != nil {
		delete(kctx.refs, loc)
		return nil, err
	}
	slot.node = node
	return &refValidator{schemaPath: kctx.Pointer(), ref: ref, slot: slot}, nil
}

func (r *refValidator) IsValid(instance any) bool {
	node := r.slot.node
	if node == nil {
		return false
	}
	return node.IsValid(instance)
}

func (r *refValidator) ValidateErrs(instance any, path *InstancePath) ErrorSeq {
	node := r.slot.node
	if node == nil {
		// The slot is only empty while its target is still compiling; a
		// compiled tree never reaches this.
		return oneError(ValidationError{
			SchemaPath:   r.schemaPath,
			InstancePath: path.Pointer(),
			Instance:     instance,
			Kind:         KindReferenceUnresolved,
			Detail:       r.ref,
		})
	}
	return node.ValidateErrs(instance, path)
}

func (r *refValidator) Apply(instance any, path *InstancePath) BasicOutput {
	node := r.slot.node
	if node == nil {
		return invalidOutput(errUnit(r.schemaPath, path, "unresolved reference "+r.ref))
	}
	return node.Apply(instance, path)
}

func (r *refValidator) String() string { return "$ref: " + r.ref }
