package engine

import (
	"fmt"
	"strings"
)

// Validator is the capability set every compiled keyword supports. The three
// checks must agree: IsValid(v) is true exactly when ValidateErrs(v, p)
// yields nothing, and Apply's verdict matches both.
type Validator interface {
	// IsValid is the boolean check. It short-circuits and never allocates
	// error detail.
	IsValid(instance any) bool
	// ValidateErrs is the error-producing check: a lazy sequence consumed at
	// most once per call.
	ValidateErrs(instance any, path *InstancePath) ErrorSeq
	// Apply is the structured-output check used for verbose reporting and
	// combinator bookkeeping.
	Apply(instance any, path *InstancePath) BasicOutput

	fmt.Stringer
}

type keywordValidator struct {
	keyword string
	v       Validator
}

// SchemaNode is one compiled schema: an ordered list of keyword validators
// plus the schema path that produced it. Immutable after compilation and
// safe to share across concurrent validations; it never stores instance
// data.
type SchemaNode struct {
	validators []keywordValidator
	path       JSONPointer
}

func newSchemaNode(path JSONPointer, validators []keywordValidator) *SchemaNode {
	return &SchemaNode{validators: validators, path: path}
}

// Path returns the schema location this node was compiled from.
func (n *SchemaNode) Path() JSONPointer { return n.path }

// IsValid reports whether every keyword accepts the instance.
func (n *SchemaNode) IsValid(instance any) bool {
	for _, kv := range n.validators {
		if !kv.v.IsValid(instance) {
			return false
		}
	}
	return true
}

// ValidateErrs yields the errors of every keyword in declaration order.
func (n *SchemaNode) ValidateErrs(instance any, path *InstancePath) ErrorSeq {
	return func(yield func(ValidationError) bool) {
		for _, kv := range n.validators {
			for e := range kv.v.ValidateErrs(instance, path) {
				if !yield(e) {
					return
				}
			}
		}
	}
}

// Apply merges the structured output of every keyword.
func (n *SchemaNode) Apply(instance any, path *InstancePath) BasicOutput {
	sum := validOutput()
	for _, kv := range n.validators {
		sum = sum.Merge(kv.v.Apply(instance, path))
	}
	return sum
}

// ApplyRooted is Apply plus an annotation at the node's own location, so a
// parent combinator can tell which branch produced which result.
func (n *SchemaNode) ApplyRooted(instance any, path *InstancePath) BasicOutput {
	out := n.Apply(instance, path)
	if out.IsValid() {
		return validOutput(append([]OutputUnit{annotationUnit(n.path, path)}, out.Units()...)...)
	}
	return out
}

// String renders the node's keyword validators for diagnostics, for example
// "{type: string, maxLength: 3}".
func (n *SchemaNode) String() string {
	b := &strings.Builder{}
	b.WriteByte('{')
	for i, kv := range n.validators {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(kv.v.String())
	}
	b.WriteByte('}')
	return b.String()
}

// formatNodeList joins node renderings for combinator diagnostics.
func formatNodeList(nodes []*SchemaNode) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, n.String())
	}
	return strings.Join(parts, ", ")
}
