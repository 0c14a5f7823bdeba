package engine

import (
	"fmt"
	"iter"
)

// Kind classifies a validation or compilation failure.
type Kind int

const (
	// KindTypeMismatch reports a value of the wrong JSON type, either a
	// keyword body at compile time or an instance value at validation time.
	KindTypeMismatch Kind = iota
	// KindInvalidDiscriminator reports malformed discriminator metadata at
	// compile time (missing propertyName, non-object mapping, and so on).
	KindInvalidDiscriminator
	// KindOneOfNotValid reports that no oneOf alternative matched, or that a
	// discriminator lookup found no target for the instance.
	KindOneOfNotValid
	// KindOneOfMultipleValid reports that more than one alternative matched.
	KindOneOfMultipleValid
	// KindReferenceUnresolved reports a $ref whose target could not be
	// resolved or compiled.
	KindReferenceUnresolved
	KindFalseSchema
	KindRequired
	KindEnum
	KindConst
	KindPattern
	KindTooShort
	KindTooLong
	KindTooSmall
	KindTooBig
)

var kindNames = map[Kind]string{
	KindTypeMismatch:         "type_mismatch",
	KindInvalidDiscriminator: "invalid_discriminator",
	KindOneOfNotValid:        "one_of_not_valid",
	KindOneOfMultipleValid:   "one_of_multiple_valid",
	KindReferenceUnresolved:  "ref_unresolved",
	KindFalseSchema:          "false_schema",
	KindRequired:             "required",
	KindEnum:                 "enum",
	KindConst:                "const",
	KindPattern:              "pattern",
	KindTooShort:             "too_short",
	KindTooLong:              "too_long",
	KindTooSmall:             "too_small",
	KindTooBig:               "too_big",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ValidationError is a single failure. It carries enough of the instance to
// render a message without the tree that produced it, and is never mutated
// after creation. The same type reports compile-time malformations, with a
// nil Instance.
type ValidationError struct {
	SchemaPath   JSONPointer
	InstancePath JSONPointer
	Instance     any
	Kind         Kind
	// Detail is kind-specific: the expected type for KindTypeMismatch, the
	// malformation reason for KindInvalidDiscriminator, the missing property
	// for KindRequired, the unresolved target for KindReferenceUnresolved.
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (%s) at %q", e.Kind, e.Detail, e.SchemaPath.String())
	}
	return fmt.Sprintf("%s at %q", e.Kind, e.SchemaPath.String())
}

func compileErr(ctx *CompileContext, kind Kind, detail string) *ValidationError {
	return &ValidationError{SchemaPath: ctx.Pointer(), Kind: kind, Detail: detail}
}

// ErrorSeq is a lazy, finite sequence of validation errors. It is produced
// per call from borrowed instance data and must be consumed at most once.
type ErrorSeq = iter.Seq[ValidationError]

func noErrors() ErrorSeq {
	return func(yield func(ValidationError) bool) {}
}

func oneError(e ValidationError) ErrorSeq {
	return func(yield func(ValidationError) bool) { yield(e) }
}
