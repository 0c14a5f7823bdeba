package engine

import (
	"errors"
	"strconv"
	"strings"
)

// ErrNotFound reports that a fragment does not exist in any registered
// document. Callers that treat absence as a non-error (the discriminator
// probe does) must test for it with errors.Is.
var ErrNotFound = errors.New("engine: fragment not found")

// Resolver dereferences schema fragments. Implementations must be safe for
// repeated and concurrent calls; the engine only reads through them.
type Resolver interface {
	// ResolveFragment returns the resolved location and the raw JSON value at
	// pointer within the document identified by baseURL, or ErrNotFound.
	ResolveFragment(draft Draft, baseURL, pointer string) (string, any, error)
}

// Draft selects the schema dialect. The combinator layer is draft-agnostic;
// the value is carried for resolver implementations that are not.
type Draft int

const (
	Draft7 Draft = iota
	Draft201909
	Draft202012
)

// DocumentResolver resolves JSON Pointer fragments against pre-registered,
// already-parsed documents. Registration happens before compilation; after
// that the resolver is read-only and concurrent reads need no locking.
// Fetching external URLs is out of scope: callers register every document
// up front.
type DocumentResolver struct {
	root      any
	resources map[string]any
}

// NewDocumentResolver builds a resolver rooted at the schema document being
// compiled.
func NewDocumentResolver(root any) *DocumentResolver {
	return &DocumentResolver{root: root, resources: map[string]any{}}
}

// AddResource registers an additional document under a base URL so that
// "url#/pointer" references resolve in-memory.
func (r *DocumentResolver) AddResource(baseURL string, doc any) {
	r.resources[baseURL] = doc
}

// ResolveFragment implements Resolver over the registered documents.
func (r *DocumentResolver) ResolveFragment(_ Draft, baseURL, pointer string) (string, any, error) {
	doc := r.root
	base := ""
	if baseURL != "" {
		d, ok := r.resources[baseURL]
		if !ok {
			return "", nil, ErrNotFound
		}
		doc = d
		base = baseURL
	}
	v, err := walkPointer(doc, ParsePointer(pointer))
	if err != nil {
		return "", nil, err
	}
	frag := ParsePointer(pointer).String()
	return base + "#" + frag, v, nil
}

// splitRef separates a reference string into its base URL and fragment,
// e.g. "schemas/a.json#/defs/X" -> ("schemas/a.json", "#/defs/X").
func splitRef(ref string) (baseURL, fragment string) {
	if i := strings.IndexByte(ref, '#'); i >= 0 {
		return ref[:i], ref[i:]
	}
	return ref, "#"
}

func walkPointer(doc any, ptr JSONPointer) (any, error) {
	cur := doc
	for _, seg := range ptr {
		switch c := cur.(type) {
		case map[string]any:
			v, ok := c[seg]
			if !ok {
				return nil, ErrNotFound
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(c) {
				return nil, ErrNotFound
			}
			cur = c[i]
		default:
			return nil, ErrNotFound
		}
	}
	return cur, nil
}
