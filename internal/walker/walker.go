// Package walker implements the field-discovery walker (spec.md §4.D):
// locating URL-bearing paths inside an arbitrary value.Value document,
// and reading/writing values addressed by a fieldpath.Path.
package walker

import (
	"sort"
	"strings"

	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/fieldpath"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/value"
)

// mediaHintedKeys are the key-name substrings that mark a scalar as a
// media-bearing field, checked case-insensitively (spec.md §4.D).
var mediaHintedKeys = []string{
	"image", "photo", "picture", "avatar", "thumbnail", "cover", "media", "video", "url",
}

// LooksLikeMediaFunc classifies whether a bare string value looks like
// a media URL on its own merits, independent of the key it sits under.
// The walker package takes this as a dependency instead of importing
// internal/classify directly, keeping the two pure-function packages
// decoupled (classify has no notion of document shape; walker has no
// notion of URL syntax).
type LooksLikeMediaFunc func(s string) bool

// Discover walks doc and returns every field path whose value is
// emitted under the precedence rules of spec.md §4.D:
//  1. the leaf key name contains a media hint; or
//  2. the value sits under a "media" sequence element that is itself a
//     mapping with a "url" scalar; or
//  3. the string value satisfies looksLikeMedia AND some ancestor
//     segment name provides a media hint.
//
// Discover is deterministic: the same doc always yields the same path
// list in the same order (mapping keys are visited in sorted order,
// sequence elements by index).
func Discover(doc value.Value, looksLikeMedia LooksLikeMediaFunc) []fieldpath.Path {
	var out []fieldpath.Path
	discover(doc, nil, looksLikeMedia, false, &out)
	return out
}

func discover(v value.Value, path fieldpath.Path, looksLikeMedia LooksLikeMediaFunc, underMediaSeq bool, out *[]fieldpath.Path) {
	switch v.Kind {
	case value.KindMapping:
		m, _ := v.AsMapping()
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			child := m[k]
			childPath := path.Append(fieldpath.KeySeg(k))
			hinted := keyHasMediaHint(k)
			// Rule 2: a mapping directly inside a "media" sequence that
			// carries a scalar "url" key is always emitted, hint or not.
			if underMediaSeq && strings.EqualFold(k, "url") {
				if s, ok := child.AsString(); ok {
					_ = s
					*out = append(*out, childPath)
					continue
				}
			}
			discoverChild(child, childPath, looksLikeMedia, hinted, false, out)
		}
	case value.KindSequence:
		items, _ := v.AsSequence()
		leafKey, _ := path.Leaf()
		isMediaSeq := leafKey.Kind == fieldpath.Key && strings.EqualFold(leafKey.Key, "media")
		for i, item := range items {
			childPath := path.Append(fieldpath.IndexSeg(i))
			discoverChild(item, childPath, looksLikeMedia, false, isMediaSeq, out)
		}
	default:
		// Scalars at the document root never get a path emitted: a path
		// requires at least one segment to be addressable and checked
		// for a hint.
	}
}

// discoverChild dispatches a single child value already identified by
// childPath. hintedAncestor is true if childPath's own leaf segment (a
// mapping key) carries a media hint; underMediaSeq is true if the
// immediate parent container is a sequence field named "media".
func discoverChild(v value.Value, childPath fieldpath.Path, looksLikeMedia LooksLikeMediaFunc, hintedAncestor, underMediaSeq bool, out *[]fieldpath.Path) {
	switch v.Kind {
	case value.KindMapping, value.KindSequence:
		discover(v, childPath, looksLikeMedia, underMediaSeq, out)
		return
	case value.KindString:
		s, _ := v.AsString()
		if hintedAncestor {
			*out = append(*out, childPath)
			return
		}
		if looksLikeMedia != nil && looksLikeMedia(s) && pathHasMediaHint(childPath) {
			*out = append(*out, childPath)
		}
	default:
		// non-string scalars are never media-bearing
	}
}

// TODO(spec-refinement): "url" is itself one of the hint substrings,
// so any key containing it (including a bare top-level "url") already
// satisfies rule 1 regardless of ancestor. spec.md's design note (i)
// flags this as ambiguous upstream behavior; this walker preserves it
// rather than guessing a narrower rule.
func keyHasMediaHint(key string) bool {
	lower := strings.ToLower(key)
	for _, hint := range mediaHintedKeys {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// pathHasMediaHint reports whether any Key segment along path carries
// a media hint. Used for rule 3, where the string itself looks like
// media but the immediate key didn't already trigger rule 1 (i.e. this
// only matters for ancestors further up the tree, e.g. an array of
// plain strings under a "gallery" key).
func pathHasMediaHint(path fieldpath.Path) bool {
	for _, seg := range path {
		if seg.Kind == fieldpath.Key && keyHasMediaHint(seg.Key) {
			return true
		}
	}
	return false
}

// Missing is the sentinel returned by Read when the path does not
// resolve inside doc (absent mapping key, out-of-range index, or a
// segment that tries to descend into a scalar).
var Missing = value.Null()

// Read resolves path inside doc, returning the terminal value. It
// returns (Missing, false) when any segment fails to resolve.
func Read(doc value.Value, path fieldpath.Path) (value.Value, bool) {
	cur := doc
	for _, seg := range path {
		switch seg.Kind {
		case fieldpath.Key:
			m, ok := cur.AsMapping()
			if !ok {
				return Missing, false
			}
			child, present := m[seg.Key]
			if !present {
				return Missing, false
			}
			cur = child
		case fieldpath.Index:
			items, ok := cur.AsSequence()
			if !ok || seg.Idx < 0 || seg.Idx >= len(items) {
				return Missing, false
			}
			cur = items[seg.Idx]
		}
	}
	return cur, true
}

// Update describes how to persist a single write: either a direct
// dotted-path update (mapping-addressed) or a full replacement of the
// ancestor sequence that holds the path's first Index segment (when any
// segment of the path is an Index, not only the leaf), per
// spec.md §4.D: "the store cannot partially update a sequence element
// at an arbitrary depth".
type Update struct {
	// IsSequenceRewrite is true when Path addresses the ancestor
	// sequence that must be written in full, rather than a scalar leaf.
	IsSequenceRewrite bool
	// Path is the dotted path to write: either the original leaf path
	// (direct update) or the ancestor sequence's path (rewrite).
	Path fieldpath.Path
	// Value is the new value to write at Path.
	Value value.Value
}

// Write computes the Update needed to set newValue at path inside doc.
// It does not mutate doc; callers apply the returned Update through a
// store's SetDocument/UpdateFields call. If path passes through any
// Index segment — not only as its own leaf, but anywhere along it,
// e.g. "media.0.url" — Write walks up to the outermost ancestor sequence
// on the path (the container of the first Index segment) and returns a full
// replacement of that sequence, with the addressed element rewritten
// in place by recursively applying the remainder of path inside it.
// This is the only shape store.Store.UpdateFields accepts for a
// sequence element: Firestore (and any dotted-field-path store) has no
// way to index into an array via a field path, so the full ancestor
// array is the smallest unit that can carry the change.
func Write(doc value.Value, path fieldpath.Path, newValue value.Value) (Update, bool) {
	if _, ok := path.Leaf(); !ok {
		return Update{}, false
	}

	idxPos := firstIndexPos(path)
	if idxPos == -1 {
		return Update{IsSequenceRewrite: false, Path: path, Value: newValue}, true
	}

	ancestorPath := path[:idxPos]
	leaf := path[idxPos]
	subPath := path[idxPos+1:]

	ancestorVal, ok := Read(doc, ancestorPath)
	if !ok {
		return Update{}, false
	}
	items, ok := ancestorVal.AsSequence()
	if !ok || leaf.Idx < 0 || leaf.Idx >= len(items) {
		return Update{}, false
	}

	rewritten := make([]value.Value, len(items))
	copy(rewritten, items)

	if len(subPath) == 0 {
		rewritten[leaf.Idx] = newValue
	} else {
		updated, ok := setSubPath(rewritten[leaf.Idx], subPath, newValue)
		if !ok {
			return Update{}, false
		}
		rewritten[leaf.Idx] = updated
	}

	return Update{
		IsSequenceRewrite: true,
		Path:              ancestorPath,
		Value:             value.Sequence(rewritten),
	}, true
}

// firstIndexPos returns the position of the first Index segment in
// path, or -1 if path never descends into a sequence.
func firstIndexPos(path fieldpath.Path) int {
	for i, seg := range path {
		if seg.Kind == fieldpath.Index {
			return i
		}
	}
	return -1
}

// setSubPath returns a copy of v with newValue set at path inside it,
// cloning only the mappings/sequences along the way so siblings are
// left untouched.
func setSubPath(v value.Value, path fieldpath.Path, newValue value.Value) (value.Value, bool) {
	if len(path) == 0 {
		return newValue, true
	}

	seg := path[0]
	rest := path[1:]

	switch seg.Kind {
	case fieldpath.Key:
		m, ok := v.AsMapping()
		if !ok {
			return value.Value{}, false
		}
		cp := make(map[string]value.Value, len(m))
		for k, child := range m {
			cp[k] = child
		}
		updated, ok := setSubPath(cp[seg.Key], rest, newValue)
		if !ok {
			return value.Value{}, false
		}
		cp[seg.Key] = updated
		return value.Mapping(cp), true
	case fieldpath.Index:
		items, ok := v.AsSequence()
		if !ok || seg.Idx < 0 || seg.Idx >= len(items) {
			return value.Value{}, false
		}
		cp := make([]value.Value, len(items))
		copy(cp, items)
		updated, ok := setSubPath(cp[seg.Idx], rest, newValue)
		if !ok {
			return value.Value{}, false
		}
		cp[seg.Idx] = updated
		return value.Sequence(cp), true
	default:
		return value.Value{}, false
	}
}
