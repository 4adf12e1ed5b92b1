// Package scan implements the Collection/Scan Engine (spec.md §4.F):
// paginated, bounded-concurrency traversal of a collection or the
// whole store, fanning documents out to the document validator.
package scan

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/store"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/validate"
)

// DocumentValidator is the subset of *validate.DocumentValidator the
// scan engine depends on, so tests can substitute a fake.
type DocumentValidator interface {
	ValidateDocument(ctx context.Context, collection, docID string) (validate.DocumentResult, error)
}

// ErrorReporter receives per-document failures that the scan must
// tolerate without aborting (spec.md §4.F: "A failing document
// produces an empty result logged via the error channel; the scan
// continues").
type ErrorReporter func(collection, docID string, err error)

// Options configures one call to Collection or All.
type Options struct {
	BatchSize          int
	Limit              int
	IncludeCollections []string
	ExcludeCollections []string
	OnDocumentError    ErrorReporter
}

func (o Options) batchSizeOrDefault() int {
	if o.BatchSize <= 0 {
		return 50
	}
	return o.BatchSize
}

// Engine implements ValidateCollection/ValidateAll.
type Engine struct {
	store     store.Store
	validator DocumentValidator
}

// New builds a scan Engine.
func New(st store.Store, validator DocumentValidator) *Engine {
	return &Engine{store: st, validator: validator}
}

// Collection pages through one collection under a concurrency cap
// equal to the page size (never exceeding it, per spec.md §4.F), and
// returns one DocumentResult per dispatched document; a document whose
// validation failed contributes an empty, zero-count result. Ordering
// across results is not guaranteed.
func (e *Engine) Collection(ctx context.Context, collection string, opts Options) ([]validate.DocumentResult, error) {
	batchSize := opts.batchSizeOrDefault()

	var results []validate.DocumentResult
	pageToken := ""
	fetched := 0

	for {
		docs, next, err := e.store.PageCollection(ctx, collection, pageToken, batchSize)
		if err != nil {
			return results, fmt.Errorf("page collection %s: %w", collection, err)
		}

		pageResults, err := e.validatePage(ctx, collection, docs, batchSize, opts.OnDocumentError)
		if err != nil {
			return results, err
		}
		results = append(results, pageResults...)

		fetched += len(docs)
		if opts.Limit > 0 && fetched >= opts.Limit {
			break
		}
		if next == "" {
			break
		}
		pageToken = next
	}

	return results, nil
}

// validatePage dispatches one page's documents to the document
// validator under a semaphore sized to the page's concurrency cap.
func (e *Engine) validatePage(ctx context.Context, collection string, docs []store.Document, concurrency int, onErr ErrorReporter) ([]validate.DocumentResult, error) {
	if concurrency <= 0 {
		concurrency = len(docs)
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	sem := semaphore.NewWeighted(int64(concurrency))
	grp, grpCtx := errgroup.WithContext(ctx)

	results := make([]validate.DocumentResult, len(docs))
	ok := make([]bool, len(docs))

	for i, doc := range docs {
		i, doc := i, doc
		if err := sem.Acquire(grpCtx, 1); err != nil {
			// Context cancelled: stop dispatching, let in-flight tasks
			// finish or abort at their next suspension point (spec.md §5).
			break
		}
		grp.Go(func() error {
			defer sem.Release(1)
			res, err := e.validator.ValidateDocument(grpCtx, collection, doc.ID)
			if err != nil {
				if onErr != nil {
					onErr(collection, doc.ID, err)
				}
				// A failing document yields an empty, zero-count result; a
				// single document's failure never aborts the scan.
				results[i] = validate.DocumentResult{Collection: collection, DocumentID: doc.ID}
				ok[i] = true
				return nil
			}
			results[i] = res
			ok[i] = true
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, err
	}

	out := make([]validate.DocumentResult, 0, len(docs))
	for i, wasOK := range ok {
		if wasOK {
			out = append(out, results[i])
		}
	}
	return out, nil
}

// All implements spec.md §4.F validateAll: enumerate top-level
// collections, filter by include/exclude (include wins), and scan each.
func (e *Engine) All(ctx context.Context, opts Options) ([]validate.DocumentResult, error) {
	names, err := e.store.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	selected := filterCollections(names, opts.IncludeCollections, opts.ExcludeCollections)

	var all []validate.DocumentResult
	for _, name := range selected {
		results, err := e.Collection(ctx, name, opts)
		if err != nil {
			return all, err
		}
		all = append(all, results...)
	}
	return all, nil
}

func filterCollections(names, include, exclude []string) []string {
	if len(include) > 0 {
		includeSet := toSet(include)
		out := make([]string, 0, len(include))
		for _, n := range names {
			if includeSet[n] {
				out = append(out, n)
			}
		}
		return out
	}

	if len(exclude) > 0 {
		excludeSet := toSet(exclude)
		out := make([]string, 0, len(names))
		for _, n := range names {
			if !excludeSet[n] {
				out = append(out, n)
			}
		}
		return out
	}

	return names
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
