package repair

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/classify"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/report"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/store"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/validate"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/value"
)

type fakePlannerStore struct {
	collections []string
	docs        map[string][]store.Document
}

func (f *fakePlannerStore) GetDocument(ctx context.Context, collection, id string) (value.Value, bool, error) {
	return value.Value{}, false, nil
}
func (f *fakePlannerStore) SetDocument(ctx context.Context, collection, id string, doc value.Value) error {
	return nil
}
func (f *fakePlannerStore) UpdateFields(ctx context.Context, collection, id string, fields map[string]value.Value) error {
	return nil
}
func (f *fakePlannerStore) PageCollection(ctx context.Context, collection, pageToken string, limit int) ([]store.Document, string, error) {
	if pageToken != "" {
		return nil, "", nil
	}
	return f.docs[collection], "", nil
}
func (f *fakePlannerStore) ListCollections(ctx context.Context) ([]string, error) {
	return f.collections, nil
}
func (f *fakePlannerStore) SaveReport(ctx context.Context, kind store.ReportKind, id string, report value.Value) error {
	return nil
}
func (f *fakePlannerStore) LoadReport(ctx context.Context, kind store.ReportKind, id string) (value.Value, bool, error) {
	return value.Value{}, false, nil
}

type fakePlaceholders struct{ url string }

func (f fakePlaceholders) URLFor(ctx context.Context, mediaType classify.MediaType) (string, error) {
	return f.url, nil
}

func TestFromReportRelativeURLFix(t *testing.T) {
	p := New(&fakePlannerStore{}, Config{BaseURL: "https://cdn.example.com"})

	rpt := report.ValidationReport{
		InvalidResults: []validate.FieldResult{
			{Collection: "yachts", DocumentID: "1", FieldPath: "coverImage", Verdict: validate.Verdict{URL: "/boat.jpg", IsValid: false}},
		},
	}

	plan := p.FromReport(context.Background(), rpt)
	require.Len(t, plan.Items, 1)
	assert.Equal(t, RelativeURLFix, plan.Items[0].Type)
	assert.Equal(t, "https://cdn.example.com/boat.jpg", plan.Items[0].NewURL)
	assert.Empty(t, plan.Unrepairable)
}

func TestFromReportRelativeURLFixSkippedWithoutBaseURL(t *testing.T) {
	p := New(&fakePlannerStore{}, Config{})

	rpt := report.ValidationReport{
		InvalidResults: []validate.FieldResult{
			{Collection: "yachts", DocumentID: "1", FieldPath: "coverImage", Verdict: validate.Verdict{URL: "/boat.jpg"}},
		},
	}

	plan := p.FromReport(context.Background(), rpt)
	assert.Empty(t, plan.Items)
	assert.Equal(t, []string{"coverImage"}, plan.Unrepairable)
}

func TestFromReportBlobURLResolveUsesPlaceholder(t *testing.T) {
	p := New(&fakePlannerStore{}, Config{Placeholders: fakePlaceholders{url: "https://cdn.example.com/placeholder.png"}})

	rpt := report.ValidationReport{
		InvalidResults: []validate.FieldResult{
			{Collection: "yachts", DocumentID: "1", FieldPath: "coverImage", Verdict: validate.Verdict{URL: "blob:https://example.com/1234"}},
		},
	}

	plan := p.FromReport(context.Background(), rpt)
	require.Len(t, plan.Items, 1)
	assert.Equal(t, BlobURLResolve, plan.Items[0].Type)
	assert.Equal(t, "https://cdn.example.com/placeholder.png", plan.Items[0].NewURL)
}

func TestFromReportMediaTypeCorrection(t *testing.T) {
	p := New(&fakePlannerStore{}, Config{PlaceholderImageURL: "https://cdn.example.com/placeholder.png"})

	imageType := classify.Image
	rpt := report.ValidationReport{
		InvalidResults: []validate.FieldResult{
			{
				Collection: "yachts", DocumentID: "1", FieldPath: "coverImage",
				Verdict: validate.Verdict{
					URL: "https://cdn.example.com/clip.mp4", Error: "Expected image, got video/mp4",
					ExpectedType: &imageType, DetectedType: classify.Video,
				},
			},
		},
	}

	plan := p.FromReport(context.Background(), rpt)
	require.Len(t, plan.Items, 1)
	assert.Equal(t, MediaTypeCorrection, plan.Items[0].Type)
	assert.Equal(t, "https://cdn.example.com/placeholder.png", plan.Items[0].NewURL)
}

func TestFromReportUnrepairableWithoutPlaceholder(t *testing.T) {
	p := New(&fakePlannerStore{}, Config{})

	rpt := report.ValidationReport{
		InvalidResults: []validate.FieldResult{
			{Collection: "yachts", DocumentID: "1", FieldPath: "coverImage", Verdict: validate.Verdict{URL: "https://cdn.example.com/missing.jpg", Error: "HTTP 404"}},
		},
	}

	plan := p.FromReport(context.Background(), rpt)
	assert.Empty(t, plan.Items)
	assert.Equal(t, []string{"coverImage"}, plan.Unrepairable)
}

func TestFindRelativeURLsScansStoreDirectly(t *testing.T) {
	st := &fakePlannerStore{
		collections: []string{"yachts"},
		docs: map[string][]store.Document{
			"yachts": {
				{ID: "1", Value: value.Mapping(map[string]value.Value{
					"coverImage": value.String("/relative.jpg"),
				})},
			},
		},
	}
	p := New(st, Config{BaseURL: "https://cdn.example.com"})

	plan, err := p.FindRelativeURLs(context.Background())
	require.NoError(t, err)
	require.Len(t, plan.Items, 1)
	assert.Equal(t, "yachts", plan.Items[0].Collection)
	assert.Equal(t, "1", plan.Items[0].DocumentID)
	assert.Equal(t, "coverImage", plan.Items[0].FieldPath)
	assert.Equal(t, "https://cdn.example.com/relative.jpg", plan.Items[0].NewURL)
}

func TestFindBlobURLsSkipsNonBlobFields(t *testing.T) {
	st := &fakePlannerStore{
		collections: []string{"yachts"},
		docs: map[string][]store.Document{
			"yachts": {
				{ID: "1", Value: value.Mapping(map[string]value.Value{
					"coverImage": value.String("https://cdn.example.com/ok.jpg"),
				})},
			},
		},
	}
	p := New(st, Config{Placeholders: fakePlaceholders{url: "https://cdn.example.com/placeholder.png"}})

	plan, err := p.FindBlobURLs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, plan.Items)
	assert.Empty(t, plan.Unrepairable)
}
