package repair

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/fieldpath"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/store"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/value"
)

type fakeExecStore struct {
	docs    map[string]value.Value
	updates map[string]map[string]value.Value
}

func newFakeExecStore() *fakeExecStore {
	return &fakeExecStore{docs: map[string]value.Value{}, updates: map[string]map[string]value.Value{}}
}

func (f *fakeExecStore) key(collection, id string) string { return collection + "/" + id }

func (f *fakeExecStore) GetDocument(ctx context.Context, collection, id string) (value.Value, bool, error) {
	v, ok := f.docs[f.key(collection, id)]
	return v, ok, nil
}
func (f *fakeExecStore) SetDocument(ctx context.Context, collection, id string, doc value.Value) error {
	f.docs[f.key(collection, id)] = doc
	return nil
}
func (f *fakeExecStore) UpdateFields(ctx context.Context, collection, id string, fields map[string]value.Value) error {
	key := f.key(collection, id)
	doc := f.docs[key]
	for path, v := range fields {
		setAtPath(&doc, fieldpath.ParseStatic(path), v)
	}
	f.docs[key] = doc
	f.updates[key] = fields
	return nil
}
func (f *fakeExecStore) PageCollection(ctx context.Context, collection, pageToken string, limit int) ([]store.Document, string, error) {
	return nil, "", nil
}
func (f *fakeExecStore) ListCollections(ctx context.Context) ([]string, error) { return nil, nil }
func (f *fakeExecStore) SaveReport(ctx context.Context, kind store.ReportKind, id string, report value.Value) error {
	return nil
}
func (f *fakeExecStore) LoadReport(ctx context.Context, kind store.ReportKind, id string) (value.Value, bool, error) {
	return value.Value{}, false, nil
}

func TestApplyCompareAndSetSucceedsOnMatch(t *testing.T) {
	st := newFakeExecStore()
	st.docs["yachts/1"] = value.Mapping(map[string]value.Value{
		"coverImage": value.String("/boat.jpg"),
	})

	exec := NewExecutor(st)
	results := exec.Apply(context.Background(), []PlanItem{
		{Collection: "yachts", DocumentID: "1", FieldPath: "coverImage", OldURL: "/boat.jpg", NewURL: "https://cdn.example.com/boat.jpg", Type: RelativeURLFix},
	})

	require.Len(t, results, 1)
	assert.True(t, results[0].Success)

	doc, _, _ := st.GetDocument(context.Background(), "yachts", "1")
	m, _ := doc.AsMapping()
	s, _ := m["coverImage"].AsString()
	assert.Equal(t, "https://cdn.example.com/boat.jpg", s)
}

func TestApplyCompareAndSetFailsOnMismatchWithoutAbortingSiblings(t *testing.T) {
	st := newFakeExecStore()
	st.docs["yachts/1"] = value.Mapping(map[string]value.Value{
		"coverImage": value.String("/changed-since.jpg"),
		"heroImage":  value.String("/hero.jpg"),
	})

	exec := NewExecutor(st)
	results := exec.Apply(context.Background(), []PlanItem{
		{Collection: "yachts", DocumentID: "1", FieldPath: "coverImage", OldURL: "/boat.jpg", NewURL: "https://cdn.example.com/boat.jpg", Type: RelativeURLFix},
		{Collection: "yachts", DocumentID: "1", FieldPath: "heroImage", OldURL: "/hero.jpg", NewURL: "https://cdn.example.com/hero.jpg", Type: RelativeURLFix},
	})

	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.NotEmpty(t, results[0].Error)
	assert.True(t, results[1].Success)

	doc, _, _ := st.GetDocument(context.Background(), "yachts", "1")
	m, _ := doc.AsMapping()
	hero, _ := m["heroImage"].AsString()
	assert.Equal(t, "https://cdn.example.com/hero.jpg", hero)
	cover, _ := m["coverImage"].AsString()
	assert.Equal(t, "/changed-since.jpg", cover, "the mismatched field must be left untouched")
}

func TestApplyCoalescesSiblingSequenceRepairsIntoOneRewrite(t *testing.T) {
	st := newFakeExecStore()
	st.docs["yachts/1"] = value.Mapping(map[string]value.Value{
		"gallery": value.Sequence([]value.Value{
			value.String("/a.jpg"),
			value.String("/b.jpg"),
		}),
	})

	exec := NewExecutor(st)
	results := exec.Apply(context.Background(), []PlanItem{
		{Collection: "yachts", DocumentID: "1", FieldPath: "gallery.0", OldURL: "/a.jpg", NewURL: "https://cdn.example.com/a.jpg", Type: RelativeURLFix},
		{Collection: "yachts", DocumentID: "1", FieldPath: "gallery.1", OldURL: "/b.jpg", NewURL: "https://cdn.example.com/b.jpg", Type: RelativeURLFix},
	})

	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.True(t, results[1].Success)

	doc, _, _ := st.GetDocument(context.Background(), "yachts", "1")
	m, _ := doc.AsMapping()
	items, _ := m["gallery"].AsSequence()
	require.Len(t, items, 2)
	s0, _ := items[0].AsString()
	s1, _ := items[1].AsString()
	assert.Equal(t, "https://cdn.example.com/a.jpg", s0)
	assert.Equal(t, "https://cdn.example.com/b.jpg", s1)
}

func TestApplyCoalescesSiblingMediaMappingSequenceIntoOneAncestorRewrite(t *testing.T) {
	st := newFakeExecStore()
	st.docs["yachts/1"] = value.Mapping(map[string]value.Value{
		"media": value.Sequence([]value.Value{
			value.Mapping(map[string]value.Value{"url": value.String("/a.jpg")}),
			value.Mapping(map[string]value.Value{"url": value.String("/b.jpg")}),
		}),
	})

	exec := NewExecutor(st)
	results := exec.Apply(context.Background(), []PlanItem{
		{Collection: "yachts", DocumentID: "1", FieldPath: "media.0.url", OldURL: "/a.jpg", NewURL: "https://cdn.example.com/a.jpg", Type: RelativeURLFix},
		{Collection: "yachts", DocumentID: "1", FieldPath: "media.1.url", OldURL: "/b.jpg", NewURL: "https://cdn.example.com/b.jpg", Type: RelativeURLFix},
	})

	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.True(t, results[1].Success)

	// Exactly one write went to the store, addressing the whole "media"
	// sequence rather than a per-element dotted path.
	require.Len(t, st.updates["yachts/1"], 1)
	_, wroteAncestor := st.updates["yachts/1"]["media"]
	assert.True(t, wroteAncestor)
	_, wroteDirectPath := st.updates["yachts/1"]["media.0.url"]
	assert.False(t, wroteDirectPath, "a sequence element must never be written via a per-element dotted path")

	doc, _, _ := st.GetDocument(context.Background(), "yachts", "1")
	m, _ := doc.AsMapping()
	items, _ := m["media"].AsSequence()
	require.Len(t, items, 2)

	m0, _ := items[0].AsMapping()
	url0, _ := m0["url"].AsString()
	assert.Equal(t, "https://cdn.example.com/a.jpg", url0, "first item's change must survive the coalesced rewrite")

	m1, _ := items[1].AsMapping()
	url1, _ := m1["url"].AsString()
	assert.Equal(t, "https://cdn.example.com/b.jpg", url1, "second item's change must also survive the coalesced rewrite")
}

func TestApplyDocumentNotFoundFailsAllItems(t *testing.T) {
	st := newFakeExecStore()
	exec := NewExecutor(st)

	results := exec.Apply(context.Background(), []PlanItem{
		{Collection: "yachts", DocumentID: "missing", FieldPath: "coverImage", OldURL: "/a.jpg", NewURL: "https://cdn.example.com/a.jpg"},
	})

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, "document not found", results[0].Error)
}
