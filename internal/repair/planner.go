package repair

import (
	"context"
	"strings"

	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/classify"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/fieldpath"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/report"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/store"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/validate"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/walker"
)

// PlaceholderSource supplies fallback placeholder URLs when config does
// not set one explicitly (backed by internal/placeholder's MinIO
// adapter in production).
type PlaceholderSource interface {
	URLFor(ctx context.Context, mediaType classify.MediaType) (string, error)
}

// Config bounds what the planner is allowed to propose.
type Config struct {
	// BaseURL prefixes a relative path to produce RELATIVE_URL_FIX's
	// NewURL. Empty means relative-path repairs are always skipped.
	BaseURL string
	// PlaceholderImageURL / PlaceholderVideoURL are explicit substitutes.
	// When empty, Planner falls back to Placeholders if set.
	PlaceholderImageURL string
	PlaceholderVideoURL string
	// Placeholders is an optional fallback source (e.g. MinIO-backed
	// presigned URLs) used when the explicit placeholder URL above is
	// empty.
	Placeholders PlaceholderSource
}

// Planner implements spec.md §4.H.
type Planner struct {
	store store.Store
	cfg   Config
}

// New builds a Planner.
func New(st store.Store, cfg Config) *Planner {
	return &Planner{store: st, cfg: cfg}
}

// unrepairable records a field the planner could not produce a plan
// for (no applicable repair type, or no placeholder configured).
type unrepairable struct {
	field  validate.FieldResult
	reason string
}

// PlanResult holds the plan items the caller should execute plus the
// fields the planner could not repair (spec.md §4.H: "Otherwise:
// skipped (recorded as unrepairable)").
type PlanResult struct {
	Items        []PlanItem
	Unrepairable []string // one per skipped field: field path (FromReport) or "collection/docID#path" (Find* scans)
}

// FromReport consumes a previously persisted ValidationReport and
// produces a plan item per invalid field that the planner knows how to
// repair (spec.md §4.H).
func (p *Planner) FromReport(ctx context.Context, rpt report.ValidationReport) PlanResult {
	var result PlanResult
	for _, field := range rpt.InvalidResults {
		item, ok := p.planField(ctx, field)
		if !ok {
			result.Unrepairable = append(result.Unrepairable, field.FieldPath)
			continue
		}
		result.Items = append(result.Items, item)
	}
	return result
}

func (p *Planner) planField(ctx context.Context, field validate.FieldResult) (PlanItem, bool) {
	url := field.Verdict.URL

	base := PlanItem{
		Collection: field.Collection,
		DocumentID: field.DocumentID,
		FieldPath:  field.FieldPath,
		OldURL:     url,
	}

	if classify.IsRelative(url) {
		if p.cfg.BaseURL == "" {
			return PlanItem{}, false
		}
		base.Type = RelativeURLFix
		base.NewURL = p.cfg.BaseURL + url
		return base, true
	}

	if classify.IsBlob(url) {
		placeholder, ok := p.resolvePlaceholder(ctx, classify.Unknown)
		if !ok {
			return PlanItem{}, false
		}
		base.Type = BlobURLResolve
		base.NewURL = placeholder
		return base, true
	}

	if isTypeMismatch(field.Verdict) {
		want := classify.Image
		if field.Verdict.ExpectedType != nil {
			want = *field.Verdict.ExpectedType
		}
		placeholder, ok := p.resolvePlaceholder(ctx, want)
		if !ok {
			return PlanItem{}, false
		}
		base.Type = MediaTypeCorrection
		base.NewURL = placeholder
		return base, true
	}

	// Remaining hard failures fall back to a generic placeholder insert
	// when one is configured.
	want := classify.Image
	if field.Verdict.ExpectedType != nil {
		want = *field.Verdict.ExpectedType
	}
	placeholder, ok := p.resolvePlaceholder(ctx, want)
	if !ok {
		return PlanItem{}, false
	}
	base.Type = PlaceholderInsertion
	base.NewURL = placeholder
	return base, true
}

func isTypeMismatch(v validate.Verdict) bool {
	return v.ExpectedType != nil && strings.HasPrefix(v.Error, "Expected ")
}

func (p *Planner) resolvePlaceholder(ctx context.Context, mediaType classify.MediaType) (string, bool) {
	switch mediaType {
	case classify.Video:
		if p.cfg.PlaceholderVideoURL != "" {
			return p.cfg.PlaceholderVideoURL, true
		}
	default:
		if p.cfg.PlaceholderImageURL != "" {
			return p.cfg.PlaceholderImageURL, true
		}
	}
	if p.cfg.Placeholders == nil {
		return "", false
	}
	url, err := p.cfg.Placeholders.URLFor(ctx, mediaType)
	if err != nil || url == "" {
		return "", false
	}
	return url, true
}

// FindRelativeURLs re-scans the store for relative-path URLs without
// requiring a prior report (spec.md §4.H findRelativeUrls).
func (p *Planner) FindRelativeURLs(ctx context.Context) (PlanResult, error) {
	return p.scanAndPlan(ctx, func(url string) bool { return classify.IsRelative(url) }, func(url string) (PlanItem, bool) {
		if p.cfg.BaseURL == "" {
			return PlanItem{}, false
		}
		return PlanItem{NewURL: p.cfg.BaseURL + url, Type: RelativeURLFix}, true
	})
}

// FindBlobURLs re-scans the store for blob: URLs without requiring a
// prior report (spec.md §4.H findBlobUrls).
func (p *Planner) FindBlobURLs(ctx context.Context) (PlanResult, error) {
	return p.scanAndPlan(ctx, func(url string) bool { return classify.IsBlob(url) }, func(url string) (PlanItem, bool) {
		placeholder, ok := p.resolvePlaceholder(ctx, classify.Unknown)
		if !ok {
			return PlanItem{}, false
		}
		return PlanItem{NewURL: placeholder, Type: BlobURLResolve}, true
	})
}

func (p *Planner) scanAndPlan(ctx context.Context, match func(string) bool, build func(string) (PlanItem, bool)) (PlanResult, error) {
	var result PlanResult

	collections, err := p.store.ListCollections(ctx)
	if err != nil {
		return result, err
	}

	for _, collection := range collections {
		pageToken := ""
		for {
			docs, next, err := p.store.PageCollection(ctx, collection, pageToken, 50)
			if err != nil {
				return result, err
			}
			for _, doc := range docs {
				p.scanDocument(collection, doc, match, build, &result)
			}
			if next == "" {
				break
			}
			pageToken = next
		}
	}

	return result, nil
}

func (p *Planner) scanDocument(collection string, doc store.Document, match func(string) bool, build func(string) (PlanItem, bool), result *PlanResult) {
	paths := walker.Discover(doc.Value, classify.LooksLikeMedia)
	for _, path := range paths {
		val, ok := walker.Read(doc.Value, path)
		if !ok {
			continue
		}
		s, isString := val.AsString()
		if !isString || !match(s) {
			continue
		}
		item, ok := build(s)
		if !ok {
			result.Unrepairable = append(result.Unrepairable, pathStringFor(collection, doc.ID, path))
			continue
		}
		item.Collection = collection
		item.DocumentID = doc.ID
		item.FieldPath = path.String()
		item.OldURL = s
		result.Items = append(result.Items, item)
	}
}

func pathStringFor(collection, docID string, path fieldpath.Path) string {
	return collection + "/" + docID + "#" + path.String()
}
