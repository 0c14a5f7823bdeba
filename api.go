package valida

import (
	"context"
	"errors"
	"fmt"

	"github.com/valida-go/valida/i18n"
	"github.com/valida-go/valida/internal/engine"
)

// Schema is a compiled schema document: an immutable tree of validator
// nodes. Compile once, then validate any number of instances; a Schema is
// safe for concurrent use because validation never mutates it.
type Schema struct {
	root *engine.SchemaNode
}

// Compile compiles an already-parsed schema document. $ref fragments resolve
// against the document itself plus any resources registered in opts.
func Compile(doc any, opts ...CompileOpt) (*Schema, error) {
	var opt CompileOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	resolver := engine.NewDocumentResolver(doc)
	for base, res := range opt.Resources {
		resolver.AddResource(base, res)
	}
	node, err := engine.Compile(doc, opt.Draft.engine(), resolver)
	if err != nil {
		return nil, compileIssues(err)
	}
	return &Schema{root: node}, nil
}

// MustCompile is Compile panicking on error, for schemas known at build time.
func MustCompile(doc any, opts ...CompileOpt) *Schema {
	s, err := Compile(doc, opts...)
	if err != nil {
		panic(fmt.Sprintf("valida: compile: %v", err))
	}
	return s
}

// CompileBytes decodes a JSON schema document and compiles it.
func CompileBytes(b []byte, opts ...CompileOpt) (*Schema, error) {
	doc, err := DecodeJSON(b)
	if err != nil {
		return nil, AppendIssues(nil, Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Cause: err})
	}
	return Compile(doc, opts...)
}

// CompileYAML decodes a YAML schema document and compiles it. Discriminated
// schemas are routinely authored as YAML; mappings are normalized to
// map[string]any before compilation.
func CompileYAML(b []byte, opts ...CompileOpt) (*Schema, error) {
	doc, err := DecodeYAML(b)
	if err != nil {
		return nil, AppendIssues(nil, Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Cause: err})
	}
	return Compile(doc, opts...)
}

// IsValid is the boolean check: it short-circuits and allocates no error
// detail.
func (s *Schema) IsValid(v any) bool {
	return s.root.IsValid(v)
}

// Validate checks v and returns nil or Issues. By default every error is
// collected; ValidateOpt.FailFast stops at the first one.
func (s *Schema) Validate(ctx context.Context, v any, opts ...ValidateOpt) error {
	_ = ctx // validation is synchronous; the context is part of the API shape
	var opt ValidateOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	var iss Issues
	for e := range s.root.ValidateErrs(v, nil) {
		iss = AppendIssues(iss, issueFrom(e))
		if opt.FailFast {
			break
		}
	}
	if len(iss) == 0 {
		return nil
	}
	return iss
}

// ValidateBytes decodes a JSON instance and validates it.
func (s *Schema) ValidateBytes(ctx context.Context, b []byte, opts ...ValidateOpt) error {
	v, err := DecodeJSON(b)
	if err != nil {
		return AppendIssues(nil, Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Cause: err})
	}
	return s.Validate(ctx, v, opts...)
}

// OutputUnit is one entry of structured output: an annotation when Error is
// empty, a failure otherwise.
type OutputUnit struct {
	KeywordLocation  string
	InstanceLocation string
	Error            string
}

// Result is the structured output of applying a schema: a verdict plus the
// per-location units behind it, suitable for verbose reporting.
type Result struct {
	Valid bool
	Units []OutputUnit
}

// Apply runs the structured-output check. Unlike Validate it evaluates every
// oneOf branch, so the result shows what each branch did.
func (s *Schema) Apply(v any) *Result {
	out := s.root.Apply(v, nil)
	units := make([]OutputUnit, 0, len(out.Units()))
	for _, u := range out.Units() {
		units = append(units, OutputUnit{
			KeywordLocation:  pointerOrRoot(u.KeywordLocation),
			InstanceLocation: pointerOrRoot(u.InstanceLocation),
			Error:            u.Error,
		})
	}
	return &Result{Valid: out.IsValid(), Units: units}
}

// String renders the compiled tree for diagnostics, e.g.
// "{oneOf: [{type: string}, {maxLength: 3}]}".
func (s *Schema) String() string {
	return s.root.String()
}

var kindCodes = map[engine.Kind]string{
	engine.KindTypeMismatch:         CodeInvalidType,
	engine.KindInvalidDiscriminator: CodeInvalidDiscriminator,
	engine.KindOneOfNotValid:        CodeOneOfNotValid,
	engine.KindOneOfMultipleValid:   CodeOneOfMultipleValid,
	engine.KindReferenceUnresolved:  CodeRefUnresolved,
	engine.KindFalseSchema:          CodeFalseSchema,
	engine.KindRequired:             CodeRequired,
	engine.KindEnum:                 CodeInvalidEnum,
	engine.KindConst:                CodeInvalidConst,
	engine.KindPattern:              CodePattern,
	engine.KindTooShort:             CodeTooShort,
	engine.KindTooLong:              CodeTooLong,
	engine.KindTooSmall:             CodeTooSmall,
	engine.KindTooBig:               CodeTooBig,
}

func codeForKind(k engine.Kind) string {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return CodeParseError
}

func issueFrom(e engine.ValidationError) Issue {
	code := codeForKind(e.Kind)
	return Issue{
		Path:    pointerOrRoot(e.InstancePath.String()),
		Code:    code,
		Message: i18n.T(code, nil),
		Hint:    e.Detail,
		Params:  map[string]any{"keywordLocation": e.SchemaPath.String()},
	}
}

// compileIssues converts an engine compile failure into the public error
// model.
func compileIssues(err error) error {
	var ve *engine.ValidationError
	if errors.As(err, &ve) {
		return AppendIssues(nil, issueFrom(*ve))
	}
	return singleIssue(CodeParseError, err.Error())
}

func pointerOrRoot(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
