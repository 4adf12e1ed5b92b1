package validate

import (
	"context"

	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/classify"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/fieldpath"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/store"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/value"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/walker"
)

// FieldResult is a Verdict plus the coordinates that located it
// (spec.md §3).
type FieldResult struct {
	Collection string
	DocumentID string
	FieldPath  string
	Verdict    Verdict
	// Missing is true when the field was discovered but its value was
	// empty/absent; Verdict is then left as its zero value (no URL,
	// ValidatedAt or expected type), and report serialization omits it.
	Missing bool
}

// DocumentResult is the per-document validation outcome (spec.md §3).
// Invariant: Valid+Invalid+Missing == Total, enforced by construction
// in ValidateDocument.
type DocumentResult struct {
	Collection string
	DocumentID string
	Total      int
	Valid      int
	Invalid    int
	Missing    int
	Fields     []FieldResult
}

// DocumentValidator implements spec.md §4.E, composing the walker
// (component D) with the Validator (component C).
type DocumentValidator struct {
	store          store.Store
	validator      *Validator
	looksLikeMedia walker.LooksLikeMediaFunc
}

// NewDocumentValidator builds a DocumentValidator. looksLikeMedia
// defaults to classify.LooksLikeMedia when nil.
func NewDocumentValidator(st store.Store, v *Validator, looksLikeMedia walker.LooksLikeMediaFunc) *DocumentValidator {
	if looksLikeMedia == nil {
		looksLikeMedia = classify.LooksLikeMedia
	}
	return &DocumentValidator{store: st, validator: v, looksLikeMedia: looksLikeMedia}
}

// ValidateDocument implements spec.md §4.E: fetch, discover, validate
// each discovered field, accumulate counts. A document that no longer
// exists returns a zero-count result rather than an error, matching
// "if absent, return a result with zero counts".
func (dv *DocumentValidator) ValidateDocument(ctx context.Context, collection, docID string) (DocumentResult, error) {
	result := DocumentResult{Collection: collection, DocumentID: docID}

	doc, found, err := dv.store.GetDocument(ctx, collection, docID)
	if err != nil {
		return result, err
	}
	if !found {
		return result, nil
	}

	paths := walker.Discover(doc, dv.looksLikeMedia)
	result.Total = len(paths)
	result.Fields = make([]FieldResult, 0, len(paths))

	for _, path := range paths {
		fr := dv.validateField(ctx, collection, docID, doc, path)
		result.Fields = append(result.Fields, fr)
		switch {
		case fr.Missing:
			result.Missing++
		case fr.Verdict.IsValid:
			result.Valid++
		default:
			result.Invalid++
		}
	}

	return result, nil
}

func (dv *DocumentValidator) validateField(ctx context.Context, collection, docID string, doc value.Value, path fieldpath.Path) FieldResult {
	pathStr := path.String()

	val, ok := walker.Read(doc, path)
	if !ok || val.IsEmpty() {
		return FieldResult{
			Collection: collection,
			DocumentID: docID,
			FieldPath:  pathStr,
			Missing:    true,
		}
	}

	s, isString := val.AsString()
	if !isString {
		// A discovered path whose value isn't a string (shouldn't happen
		// given Discover only emits string leaves, but store adapters
		// could drift) is reported as a field-level error, never aborts
		// the document (spec.md §4.E).
		return FieldResult{
			Collection: collection,
			DocumentID: docID,
			FieldPath:  pathStr,
			Verdict:    invalidNonString(pathStr),
		}
	}

	leaf, _ := path.Leaf()
	fieldName := leaf.String()
	expected := classify.InferExpectedType(fieldName, s)

	verdict := dv.validator.Validate(ctx, s, &expected)
	return FieldResult{
		Collection: collection,
		DocumentID: docID,
		FieldPath:  pathStr,
		Verdict:    verdict,
	}
}

func invalidNonString(path string) Verdict {
	return Verdict{
		IsValid: false,
		Error:   "field at " + path + " is not a string value",
	}
}
