// Package fieldpath implements the dotted field-path addressing scheme
// used to locate URL-bearing values inside a document: a sequence of
// segments that are either mapping keys or sequence indices, with a
// lossy string boundary representation (spec.md §9 design note).
package fieldpath

import (
	"strconv"
	"strings"
)

// SegmentKind discriminates a Segment.
type SegmentKind int

const (
	// Key addresses a mapping entry.
	Key SegmentKind = iota
	// Index addresses a sequence element.
	Index
)

// Segment is one step of a Path: either a mapping key or a sequence index.
type Segment struct {
	Kind SegmentKind
	Key  string
	Idx  int
}

// KeySeg builds a mapping-key segment.
func KeySeg(k string) Segment { return Segment{Kind: Key, Key: k} }

// IndexSeg builds a sequence-index segment.
func IndexSeg(i int) Segment { return Segment{Kind: Index, Idx: i} }

func (s Segment) String() string {
	if s.Kind == Index {
		return strconv.Itoa(s.Idx)
	}
	return s.Key
}

// Path is an ordered list of segments addressing a value inside a
// document, e.g. Path{Key("media"), Index(0), Key("url")} for
// "media.0.url".
type Path []Segment

// String joins the segments with '.', the wire representation used
// everywhere a FieldResult or update spec carries a path.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		parts[i] = seg.String()
	}
	return strings.Join(parts, ".")
}

// Append returns a new Path with seg appended, never mutating p.
func (p Path) Append(seg Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Leaf returns the final segment and true, or the zero Segment and
// false if the path is empty.
func (p Path) Leaf() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[len(p)-1], true
}

// AncestorKeyPath returns the path with the final segment removed, or
// nil for an empty path.
func (p Path) AncestorKeyPath() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// Parse splits a dotted string into segments. Because a mapping key
// may itself be all-digits (the Open Question in spec.md §9), Parse
// cannot decide Key vs. Index from the string alone: it takes a
// classifier callback that reports, for a candidate index at a given
// prefix, whether the ancestor addressed by that prefix is currently a
// sequence. Segments that parse as non-negative integers are emitted
// as Index only when isAncestorSequence says so; otherwise they are
// emitted as Key, preserving the existing behavior documented in
// spec.md: "always prefer Index when the ancestor is a sequence and
// the segment parses as a non-negative integer, else Key".
func Parse(dotted string, isAncestorSequence func(prefix Path) bool) Path {
	if dotted == "" {
		return nil
	}
	raw := strings.Split(dotted, ".")
	path := make(Path, 0, len(raw))
	for _, r := range raw {
		if n, err := strconv.Atoi(r); err == nil && n >= 0 && isAncestorSequence(path) {
			path = append(path, IndexSeg(n))
			continue
		}
		path = append(path, KeySeg(r))
	}
	return path
}

// ParseStatic splits a dotted string into segments without consulting
// document shape, using only the textual rule: a segment that parses
// as a non-negative integer is an Index, otherwise a Key. This is a
// convenience for callers that only have the string (e.g. report
// indexes) and accept the lossiness the Open Question describes.
func ParseStatic(dotted string) Path {
	return Parse(dotted, func(Path) bool { return true })
}
