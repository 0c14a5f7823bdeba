package engine

import (
	"strconv"
	"strings"
)

// JSONPointer is an RFC 6901 pointer into a schema or instance document.
// The zero value addresses the document root.
type JSONPointer []string

// Append returns a new pointer with one more segment. The receiver is never
// mutated; compiled nodes share pointers freely.
func (p JSONPointer) Append(seg string) JSONPointer {
	out := make(JSONPointer, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// AppendIndex returns a new pointer with a decimal array-index segment.
func (p JSONPointer) AppendIndex(i int) JSONPointer {
	return p.Append(strconv.Itoa(i))
}

// String renders the pointer with ~0/~1 escaping, "" for the root.
func (p JSONPointer) String() string {
	if len(p) == 0 {
		return ""
	}
	b := &strings.Builder{}
	for _, seg := range p {
		b.WriteByte('/')
		b.WriteString(escapeSegment(seg))
	}
	return b.String()
}

func escapeSegment(seg string) string {
	if !strings.ContainsAny(seg, "~/") {
		return seg
	}
	seg = strings.ReplaceAll(seg, "~", "~0")
	return strings.ReplaceAll(seg, "/", "~1")
}

func unescapeSegment(seg string) string {
	if !strings.Contains(seg, "~") {
		return seg
	}
	seg = strings.ReplaceAll(seg, "~1", "/")
	return strings.ReplaceAll(seg, "~0", "~")
}

// ParsePointer splits a "#/a/b"- or "/a/b"-style fragment into segments.
// "" and "#" address the root.
func ParsePointer(s string) JSONPointer {
	s = strings.TrimPrefix(s, "#")
	if s == "" {
		return nil
	}
	s = strings.TrimPrefix(s, "/")
	parts := strings.Split(s, "/")
	out := make(JSONPointer, 0, len(parts))
	for _, part := range parts {
		out = append(out, unescapeSegment(part))
	}
	return out
}

// InstancePath accumulates the location inside the instance during one
// validation call. It is a parent-linked chain so pushing a segment never
// copies the prefix; nil is the instance root.
type InstancePath struct {
	parent *InstancePath
	seg    string
}

// Push returns a child path extended by one segment.
func (p *InstancePath) Push(seg string) *InstancePath {
	return &InstancePath{parent: p, seg: seg}
}

// PushIndex returns a child path extended by an array index.
func (p *InstancePath) PushIndex(i int) *InstancePath {
	return p.Push(strconv.Itoa(i))
}

// Pointer materializes the chain into a JSONPointer.
func (p *InstancePath) Pointer() JSONPointer {
	n := 0
	for q := p; q != nil; q = q.parent {
		n++
	}
	out := make(JSONPointer, n)
	for q := p; q != nil; q = q.parent {
		n--
		out[n] = q.seg
	}
	return out
}
