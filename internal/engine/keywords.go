package engine

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// leaf adapts a single predicate into a full Validator. Most scalar keywords
// compile to one of these; combinators and object keywords have their own
// types.
type leaf struct {
	schemaPath JSONPointer
	render     string
	kind       Kind
	detail     string
	check      func(instance any) bool
}

func (l *leaf) IsValid(instance any) bool { return l.check(instance) }

func (l *leaf) ValidateErrs(instance any, path *InstancePath) ErrorSeq {
	if l.check(instance) {
		return noErrors()
	}
	return oneError(ValidationError{
		SchemaPath:   l.schemaPath,
		InstancePath: path.Pointer(),
		Instance:     instance,
		Kind:         l.kind,
		Detail:       l.detail,
	})
}

func (l *leaf) Apply(instance any, path *InstancePath) BasicOutput {
	return outputFromErrs(l.schemaPath, path, l.ValidateErrs(instance, path))
}

func (l *leaf) String() string { return l.render }

// falseValidator rejects every instance; it is what the boolean schema
// "false" compiles to.
type falseValidator struct {
	schemaPath JSONPointer
}

func (f *falseValidator) IsValid(any) bool { return false }

func (f *falseValidator) ValidateErrs(instance any, path *InstancePath) ErrorSeq {
	return oneError(ValidationError{
		SchemaPath:   f.schemaPath,
		InstancePath: path.Pointer(),
		Instance:     instance,
		Kind:         KindFalseSchema,
	})
}

func (f *falseValidator) Apply(instance any, path *InstancePath) BasicOutput {
	return outputFromErrs(f.schemaPath, path, f.ValidateErrs(instance, path))
}

func (f *falseValidator) String() string { return "false" }

func compileType(_ map[string]any, body any, ctx *CompileContext) (Validator, error) {
	kctx := ctx.WithPath("type")
	var names []string
	switch b := body.(type) {
	case string:
		names = []string{b}
	case []any:
		for _, item := range b {
			s, ok := item.(string)
			if !ok {
				return nil, compileErr(kctx, KindTypeMismatch, "type entries must be strings")
			}
			names = append(names, s)
		}
		if len(names) == 0 {
			return nil, compileErr(kctx, KindTypeMismatch, "type array must not be empty")
		}
	default:
		return nil, compileErr(kctx, KindTypeMismatch, "string or array of strings")
	}
	detail := strings.Join(names, " or ")
	return &leaf{
		schemaPath: kctx.Pointer(),
		render:     "type: " + detail,
		kind:       KindTypeMismatch,
		detail:     detail,
		check: func(instance any) bool {
			for _, name := range names {
				if typeMatches(name, instance) {
					return true
				}
			}
			return false
		},
	}, nil
}

func compileEnum(_ map[string]any, body any, ctx *CompileContext) (Validator, error) {
	kctx := ctx.WithPath("enum")
	items, ok := body.([]any)
	if !ok {
		return nil, compileErr(kctx, KindTypeMismatch, "enum must be an array")
	}
	return &leaf{
		schemaPath: kctx.Pointer(),
		render:     fmt.Sprintf("enum: %d values", len(items)),
		kind:       KindEnum,
		check: func(instance any) bool {
			for _, item := range items {
				if equalJSON(item, instance) {
					return true
				}
			}
			return false
		},
	}, nil
}

func compileConst(_ map[string]any, body any, ctx *CompileContext) (Validator, error) {
	kctx := ctx.WithPath("const")
	return &leaf{
		schemaPath: kctx.Pointer(),
		render:     fmt.Sprintf("const: %v", body),
		kind:       KindConst,
		check:      func(instance any) bool { return equalJSON(body, instance) },
	}, nil
}

func compileLengthBound(body any, ctx *CompileContext, keyword string, kind Kind, ok func(n, bound int) bool) (Validator, error) {
	kctx := ctx.WithPath(keyword)
	f, isNum := numberValue(body)
	if !isNum || f < 0 || !isInteger(body) {
		return nil, compileErr(kctx, KindTypeMismatch, keyword+" must be a non-negative integer")
	}
	bound := int(f)
	return &leaf{
		schemaPath: kctx.Pointer(),
		render:     fmt.Sprintf("%s: %d", keyword, bound),
		kind:       kind,
		detail:     fmt.Sprintf("%s %d", keyword, bound),
		check: func(instance any) bool {
			s, isStr := instance.(string)
			if !isStr {
				return true
			}
			return ok(utf8.RuneCountInString(s), bound)
		},
	}, nil
}

func compileMinLength(_ map[string]any, body any, ctx *CompileContext) (Validator, error) {
	return compileLengthBound(body, ctx, "minLength", KindTooShort, func(n, bound int) bool { return n >= bound })
}

func compileMaxLength(_ map[string]any, body any, ctx *CompileContext) (Validator, error) {
	return compileLengthBound(body, ctx, "maxLength", KindTooLong, func(n, bound int) bool { return n <= bound })
}

func compilePattern(_ map[string]any, body any, ctx *CompileContext) (Validator, error) {
	kctx := ctx.WithPath("pattern")
	expr, ok := body.(string)
	if !ok {
		return nil, compileErr(kctx, KindTypeMismatch, "pattern must be a string")
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, compileErr(kctx, KindTypeMismatch, "pattern must be a valid regular expression")
	}
	return &leaf{
		schemaPath: kctx.Pointer(),
		render:     "pattern: " + expr,
		kind:       KindPattern,
		detail:     expr,
		check: func(instance any) bool {
			s, isStr := instance.(string)
			return !isStr || re.MatchString(s)
		},
	}, nil
}

func compileNumericBound(body any, ctx *CompileContext, keyword string, kind Kind, ok func(n, bound float64) bool) (Validator, error) {
	kctx := ctx.WithPath(keyword)
	bound, isNum := numberValue(body)
	if !isNum {
		return nil, compileErr(kctx, KindTypeMismatch, keyword+" must be a number")
	}
	return &leaf{
		schemaPath: kctx.Pointer(),
		render:     fmt.Sprintf("%s: %v", keyword, bound),
		kind:       kind,
		detail:     fmt.Sprintf("%s %v", keyword, bound),
		check: func(instance any) bool {
			n, isN := numberValue(instance)
			return !isN || ok(n, bound)
		},
	}, nil
}

func compileMinimum(_ map[string]any, body any, ctx *CompileContext) (Validator, error) {
	return compileNumericBound(body, ctx, "minimum", KindTooSmall, func(n, bound float64) bool { return n >= bound })
}

func compileMaximum(_ map[string]any, body any, ctx *CompileContext) (Validator, error) {
	return compileNumericBound(body, ctx, "maximum", KindTooBig, func(n, bound float64) bool { return n <= bound })
}

// requiredValidator reports one error per missing property.
type requiredValidator struct {
	schemaPath JSONPointer
	properties []string
}

func compileRequired(_ map[string]any, body any, ctx *CompileContext) (Validator, error) {
	kctx := ctx.WithPath("required")
	items, ok := body.([]any)
	if !ok {
		return nil, compileErr(kctx, KindTypeMismatch, "required must be an array")
	}
	props := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, compileErr(kctx, KindTypeMismatch, "required entries must be strings")
		}
		props = append(props, s)
	}
	return &requiredValidator{schemaPath: kctx.Pointer(), properties: props}, nil
}

func (r *requiredValidator) IsValid(instance any) bool {
	obj, ok := instance.(map[string]any)
	if !ok {
		return true
	}
	for _, p := range r.properties {
		if _, present := obj[p]; !present {
			return false
		}
	}
	return true
}

func (r *requiredValidator) ValidateErrs(instance any, path *InstancePath) ErrorSeq {
	obj, ok := instance.(map[string]any)
	if !ok {
		return noErrors()
	}
	return func(yield func(ValidationError) bool) {
		for _, p := range r.properties {
			if _, present := obj[p]; present {
				continue
			}
			e := ValidationError{
				SchemaPath:   r.schemaPath,
				InstancePath: path.Pointer(),
				Instance:     instance,
				Kind:         KindRequired,
				Detail:       p,
			}
			if !yield(e) {
				return
			}
		}
	}
}

func (r *requiredValidator) Apply(instance any, path *InstancePath) BasicOutput {
	return outputFromErrs(r.schemaPath, path, r.ValidateErrs(instance, path))
}

func (r *requiredValidator) String() string {
	return "required: [" + strings.Join(r.properties, ", ") + "]"
}

// propertiesValidator applies a compiled node to each matching property.
// Properties are kept name-sorted so error order is deterministic.
type propertiesValidator struct {
	schemaPath JSONPointer
	names      []string
	nodes      map[string]*SchemaNode
}

func compileProperties(_ map[string]any, body any, ctx *CompileContext) (Validator, error) {
	kctx := ctx.WithPath("properties")
	obj, ok := body.(map[string]any)
	if !ok {
		return nil, compileErr(kctx, KindTypeMismatch, "properties must be an object")
	}
	names := make([]string, 0, len(obj))
	for name := range obj {
		names = append(names, name)
	}
	sort.Strings(names)
	nodes := make(map[string]*SchemaNode, len(obj))
	for _, name := range names {
		node, err := CompileValidators(obj[name], kctx.WithPath(name))
		if err != nil {
			return nil, err
		}
		nodes[name] = node
	}
	return &propertiesValidator{schemaPath: kctx.Pointer(), names: names, nodes: nodes}, nil
}

func (p *propertiesValidator) IsValid(instance any) bool {
	obj, ok := instance.(map[string]any)
	if !ok {
		return true
	}
	for _, name := range p.names {
		v, present := obj[name]
		if present && !p.nodes[name].IsValid(v) {
			return false
		}
	}
	return true
}

func (p *propertiesValidator) ValidateErrs(instance any, path *InstancePath) ErrorSeq {
	obj, ok := instance.(map[string]any)
	if !ok {
		return noErrors()
	}
	return func(yield func(ValidationError) bool) {
		for _, name := range p.names {
			v, present := obj[name]
			if !present {
				continue
			}
			for e := range p.nodes[name].ValidateErrs(v, path.Push(name)) {
				if !yield(e) {
					return
				}
			}
		}
	}
}

func (p *propertiesValidator) Apply(instance any, path *InstancePath) BasicOutput {
	obj, ok := instance.(map[string]any)
	if !ok {
		return validOutput(annotationUnit(p.schemaPath, path))
	}
	sum := validOutput()
	for _, name := range p.names {
		v, present := obj[name]
		if !present {
			continue
		}
		sum = sum.Merge(p.nodes[name].Apply(v, path.Push(name)))
	}
	return sum
}

func (p *propertiesValidator) String() string {
	parts := make([]string, 0, len(p.names))
	for _, name := range p.names {
		parts = append(parts, name+": "+p.nodes[name].String())
	}
	return "properties: {" + strings.Join(parts, ", ") + "}"
}

// itemsValidator applies one compiled node to every array element.
type itemsValidator struct {
	schemaPath JSONPointer
	node       *SchemaNode
}

func compileItems(_ map[string]any, body any, ctx *CompileContext) (Validator, error) {
	kctx := ctx.WithPath("items")
	node, err := CompileValidators(body, kctx)
	if err != nil {
		return nil, err
	}
	return &itemsValidator{schemaPath: kctx.Pointer(), node: node}, nil
}

func (iv *itemsValidator) IsValid(instance any) bool {
	arr, ok := instance.([]any)
	if !ok {
		return true
	}
	for _, v := range arr {
		if !iv.node.IsValid(v) {
			return false
		}
	}
	return true
}

func (iv *itemsValidator) ValidateErrs(instance any, path *InstancePath) ErrorSeq {
	arr, ok := instance.([]any)
	if !ok {
		return noErrors()
	}
	return func(yield func(ValidationError) bool) {
		for i, v := range arr {
			for e := range iv.node.ValidateErrs(v, path.PushIndex(i)) {
				if !yield(e) {
					return
				}
			}
		}
	}
}

func (iv *itemsValidator) Apply(instance any, path *InstancePath) BasicOutput {
	arr, ok := instance.([]any)
	if !ok {
		return validOutput(annotationUnit(iv.schemaPath, path))
	}
	sum := validOutput()
	for i, v := range arr {
		sum = sum.Merge(iv.node.Apply(v, path.PushIndex(i)))
	}
	return sum
}

func (iv *itemsValidator) String() string {
	return "items: " + iv.node.String()
}
