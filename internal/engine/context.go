package engine

// refSlot is one entry of the compilation-scope reference table. The node is
// patched in when its target finishes compiling, which is what lets cyclic
// $ref graphs compile without recursing forever: an in-flight slot is handed
// out as-is and filled when the cycle closes.
type refSlot struct {
	node *SchemaNode
}

// CompileContext carries the state of one compilation call: the active
// draft, the path accumulated so far, and the shared resolver and reference
// table. Descending into a sub-schema clones the context (sharing resolver
// and table) and appends one segment; a context is never mutated after a
// deeper one has been derived from it.
type CompileContext struct {
	draft    Draft
	path     JSONPointer
	baseURL  string
	resolver Resolver
	refs     map[string]*refSlot
}

// NewCompileContext starts a compilation rooted at the document root.
func NewCompileContext(draft Draft, resolver Resolver) *CompileContext {
	return &CompileContext{
		draft:    draft,
		resolver: resolver,
		refs:     map[string]*refSlot{},
	}
}

// Draft returns the active schema dialect.
func (c *CompileContext) Draft() Draft { return c.draft }

// Resolver returns the shared resolver.
func (c *CompileContext) Resolver() Resolver { return c.resolver }

// Pointer returns the schema path accumulated so far.
func (c *CompileContext) Pointer() JSONPointer { return c.path }

// WithPath clones the context one level deeper.
func (c *CompileContext) WithPath(seg string) *CompileContext {
	child := *c
	child.path = c.path.Append(seg)
	return &child
}

// WithIndex clones the context one array level deeper.
func (c *CompileContext) WithIndex(i int) *CompileContext {
	child := *c
	child.path = c.path.AppendIndex(i)
	return &child
}

// atLocation re-roots the context at a resolved reference target, keeping
// the shared resolver and reference table.
func (c *CompileContext) atLocation(baseURL string, ptr JSONPointer) *CompileContext {
	child := *c
	child.baseURL = baseURL
	child.path = ptr
	return &child
}
