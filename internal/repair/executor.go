package repair

import (
	"context"
	"fmt"

	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/fieldpath"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/store"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/value"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/walker"
)

// Executor implements spec.md §4.I: group plan items by document,
// apply compare-and-set updates, coalescing any items that share an
// ancestor sequence into one rewrite.
type Executor struct {
	store store.Store
}

// NewExecutor builds an Executor.
func NewExecutor(st store.Store) *Executor {
	return &Executor{store: st}
}

type docKey struct {
	collection string
	documentID string
}

// Apply groups items by (collection, documentId), reads each document
// once, and applies one store write per document. Partial success
// within a document is allowed: a field whose current value no longer
// matches OldURL fails with a compare-and-set error but does not
// prevent other fields in the same document from being repaired.
func (e *Executor) Apply(ctx context.Context, items []PlanItem) []Result {
	groups := make(map[docKey][]PlanItem)
	var order []docKey
	for _, item := range items {
		key := docKey{item.Collection, item.DocumentID}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], item)
	}

	var results []Result
	for _, key := range order {
		results = append(results, e.applyGroup(ctx, key, groups[key])...)
	}
	return results
}

func (e *Executor) applyGroup(ctx context.Context, key docKey, items []PlanItem) []Result {
	doc, found, err := e.store.GetDocument(ctx, key.collection, key.documentID)
	if err != nil || !found {
		msg := "document not found"
		if err != nil {
			msg = err.Error()
		}
		return failAll(items, msg)
	}

	// fields collects one write per distinct path — either a direct
	// mapping-addressed field, or an ancestor sequence rewritten in
	// full. Because `working` is updated after every item (both direct
	// and sequence), each subsequent walker.Write against the same
	// ancestor sequence already reads the prior items' changes back out
	// of it, so the latest upd.Value for a given ancestor path is always
	// the fully coalesced sequence — no separate merge step needed
	// (spec.md design note: "Multiple repairs against the same ancestor
	// sequence must be coalesced into one parent rewrite to avoid lost
	// updates").
	fields := map[string]value.Value{}

	var results []Result
	working := doc

	for _, item := range items {
		path := fieldpath.ParseStatic(item.FieldPath)
		current, ok := walker.Read(working, path)
		currentStr, isString := current.AsString()
		if !ok || !isString || currentStr != item.OldURL {
			results = append(results, Result{PlanItem: item, Success: false, Error: "URL does not match expected value"})
			continue
		}

		upd, ok := walker.Write(working, path, value.String(item.NewURL))
		if !ok {
			results = append(results, Result{PlanItem: item, Success: false, Error: "failed to compute update"})
			continue
		}

		fields[upd.Path.String()] = upd.Value
		working = applyUpdateToWorking(working, upd)

		results = append(results, Result{PlanItem: item, Success: true})
	}

	if len(fields) == 0 {
		return results
	}

	if err := e.store.UpdateFields(ctx, key.collection, key.documentID, fields); err != nil {
		return markWriteFailed(results, fmt.Sprintf("failed to write document: %v", err))
	}

	return results
}

// applyUpdateToWorking returns a copy of doc with upd applied, so later
// plan items in the same group read the post-repair value when they
// re-resolve their own path (needed for compare-and-set correctness
// across multiple items touching the same document).
func applyUpdateToWorking(doc value.Value, upd walker.Update) value.Value {
	cloned := doc.Clone()
	setAtPath(&cloned, upd.Path, upd.Value)
	return cloned
}

func setAtPath(doc *value.Value, path fieldpath.Path, newValue value.Value) {
	if len(path) == 0 {
		*doc = newValue
		return
	}
	seg := path[0]
	rest := path[1:]

	switch seg.Kind {
	case fieldpath.Key:
		m, ok := doc.AsMapping()
		if !ok {
			return
		}
		child := m[seg.Key]
		setAtPath(&child, rest, newValue)
		m[seg.Key] = child
		*doc = value.Mapping(m)
	case fieldpath.Index:
		items, ok := doc.AsSequence()
		if !ok || seg.Idx < 0 || seg.Idx >= len(items) {
			return
		}
		child := items[seg.Idx]
		setAtPath(&child, rest, newValue)
		items[seg.Idx] = child
		*doc = value.Sequence(items)
	}
}

func failAll(items []PlanItem, reason string) []Result {
	results := make([]Result, len(items))
	for i, item := range items {
		results[i] = Result{PlanItem: item, Success: false, Error: reason}
	}
	return results
}

func markWriteFailed(results []Result, reason string) []Result {
	for i, r := range results {
		if r.Success {
			results[i] = Result{PlanItem: r.PlanItem, Success: false, Error: reason}
		}
	}
	return results
}
