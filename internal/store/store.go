// Package store defines the Document Store interface the core
// consumes (spec.md §6). The store's own driver, auth, and emulator
// setup are external collaborators; this package only pins the shape
// the core code is written against. Concrete adapters live in
// sub-packages (e.g. internal/store/firestore).
package store

import (
	"context"

	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/value"
)

// Store is the document-store contract the validation and repair
// pipelines are written against.
type Store interface {
	// GetDocument fetches one document. found is false if it does not
	// exist; that is not an error.
	GetDocument(ctx context.Context, collection, id string) (doc value.Value, found bool, err error)

	// SetDocument replaces a document in full.
	SetDocument(ctx context.Context, collection, id string, doc value.Value) error

	// UpdateFields applies one or more dotted-path field updates to an
	// existing document in a single store operation. Paths use '.' as
	// the mapping-key separator; sequence elements must be addressed by
	// replacing their nearest ancestor sequence in full (spec.md §4.D),
	// never by a per-element path.
	UpdateFields(ctx context.Context, collection, id string, fields map[string]value.Value) error

	// PageCollection pages through collection. pageToken is empty for
	// the first page; nextPageToken is empty when there are no more
	// pages.
	PageCollection(ctx context.Context, collection, pageToken string, limit int) (docs []Document, nextPageToken string, err error)

	// ListCollections enumerates top-level collection names.
	ListCollections(ctx context.Context) ([]string, error)

	// SaveReport persists a report of the given kind (ReportKindValidation
	// or ReportKindRepair), keyed by id.
	SaveReport(ctx context.Context, kind ReportKind, id string, report value.Value) error

	// LoadReport loads a previously saved report. found is false if no
	// report with that id exists.
	LoadReport(ctx context.Context, kind ReportKind, id string) (report value.Value, found bool, err error)
}

// Document pairs a document's id with its value, as returned by a
// page of a collection scan.
type Document struct {
	ID    string
	Value value.Value
}

// ReportKind distinguishes the two report collections spec.md §6
// describes: "two collections — one for validation reports, one for
// repair reports — keyed by the report id".
type ReportKind int

const (
	ReportKindValidation ReportKind = iota
	ReportKindRepair
)
