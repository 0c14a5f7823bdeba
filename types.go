package valida

import (
	"github.com/valida-go/valida/internal/engine"
)

// Draft selects the JSON Schema dialect a document is compiled under. The
// combinator layer is draft-agnostic; the value is forwarded to the resolver.
type Draft int

const (
	Draft7 Draft = iota
	Draft201909
	Draft202012
)

func (d Draft) engine() engine.Draft {
	switch d {
	case Draft7:
		return engine.Draft7
	case Draft201909:
		return engine.Draft201909
	default:
		return engine.Draft202012
	}
}

// CompileOpt bundles compilation options.
type CompileOpt struct {
	// Draft selects the schema dialect. The zero value is Draft7.
	Draft Draft
	// Resources registers additional in-memory documents by base URL so that
	// cross-document $ref targets resolve without fetching. The compiled
	// schema's own document is always registered.
	Resources map[string]any
}

// ValidateOpt bundles validation options.
type ValidateOpt struct {
	// FailFast stops at the first error instead of collecting all of them.
	FailFast bool
}
