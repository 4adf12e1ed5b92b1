// Package firestore implements internal/store.Store against Cloud
// Firestore, grounded on
// other_examples/a1c089fe_yuorei-yuovision-worker__main.go.go's
// Collection(...).Doc(...), Set(..., firestore.MergeAll), and
// Update(ctx, []firestore.Update{...}) call shapes — the closest
// collection/document/dotted-path-update precedent in the retrieved
// pack to spec.md §6's Document Store contract.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/store"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/value"
)

// Store is a Cloud Firestore-backed internal/store.Store.
type Store struct {
	client                  *firestore.Client
	reportsCollection       string
	repairReportsCollection string
}

// New wraps an existing Firestore client. reportsCollection and
// repairReportsCollection name the two report collections spec.md §6
// describes ("two collections... keyed by the report id").
func New(client *firestore.Client, reportsCollection, repairReportsCollection string) *Store {
	return &Store{
		client:                  client,
		reportsCollection:       reportsCollection,
		repairReportsCollection: repairReportsCollection,
	}
}

// GetDocument implements store.Store.
func (s *Store) GetDocument(ctx context.Context, collection, id string) (value.Value, bool, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return value.Value{}, false, nil
		}
		return value.Value{}, false, fmt.Errorf("firestore: get %s/%s: %w", collection, id, err)
	}
	if !snap.Exists() {
		return value.Value{}, false, nil
	}
	return toValue(snap.Data()), true, nil
}

// SetDocument implements store.Store.
func (s *Store) SetDocument(ctx context.Context, collection, id string, doc value.Value) error {
	_, err := s.client.Collection(collection).Doc(id).Set(ctx, fromValue(doc))
	if err != nil {
		return fmt.Errorf("firestore: set %s/%s: %w", collection, id, err)
	}
	return nil
}

// UpdateFields implements store.Store, translating each dotted path
// into a firestore.Update entry so a single call merges every field
// (spec.md §4.I: "one store operation per document").
func (s *Store) UpdateFields(ctx context.Context, collection, id string, fields map[string]value.Value) error {
	updates := make([]firestore.Update, 0, len(fields))
	for path, v := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: valueToNative(v)})
	}
	_, err := s.client.Collection(collection).Doc(id).Update(ctx, updates)
	if err != nil {
		return fmt.Errorf("firestore: update fields %s/%s: %w", collection, id, err)
	}
	return nil
}

// PageCollection implements store.Store, ordering by document id so a
// page token (the last-seen document id) is stable across calls.
func (s *Store) PageCollection(ctx context.Context, collection, pageToken string, limit int) ([]store.Document, string, error) {
	query := s.client.Collection(collection).OrderBy(firestore.DocumentID, firestore.Asc).Limit(limit)
	if pageToken != "" {
		query = query.StartAfter(pageToken)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var docs []store.Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return docs, "", fmt.Errorf("firestore: page %s: %w", collection, err)
		}
		docs = append(docs, store.Document{ID: snap.Ref.ID, Value: toValue(snap.Data())})
	}

	nextPageToken := ""
	if len(docs) == limit {
		nextPageToken = docs[len(docs)-1].ID
	}
	return docs, nextPageToken, nil
}

// ListCollections implements store.Store.
func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	iter := s.client.Collections(ctx)
	var names []string
	for {
		ref, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return names, fmt.Errorf("firestore: list collections: %w", err)
		}
		names = append(names, ref.ID)
	}
	return names, nil
}

// SaveReport implements store.Store.
func (s *Store) SaveReport(ctx context.Context, kind store.ReportKind, id string, report value.Value) error {
	_, err := s.client.Collection(s.collectionFor(kind)).Doc(id).Set(ctx, fromValue(report))
	if err != nil {
		return fmt.Errorf("firestore: save report %s: %w", id, err)
	}
	return nil
}

// LoadReport implements store.Store.
func (s *Store) LoadReport(ctx context.Context, kind store.ReportKind, id string) (value.Value, bool, error) {
	snap, err := s.client.Collection(s.collectionFor(kind)).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return value.Value{}, false, nil
		}
		return value.Value{}, false, fmt.Errorf("firestore: load report %s: %w", id, err)
	}
	if !snap.Exists() {
		return value.Value{}, false, nil
	}
	return toValue(snap.Data()), true, nil
}

func (s *Store) collectionFor(kind store.ReportKind) string {
	if kind == store.ReportKindRepair {
		return s.repairReportsCollection
	}
	return s.reportsCollection
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
