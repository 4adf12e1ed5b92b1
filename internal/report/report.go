// Package report implements the Report Aggregator (spec.md §4.G):
// merging document results into a run-scoped ValidationReport. The
// repair report type lives in internal/worker.
package report

import (
	"context"
	"time"

	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/clock"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/store"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/validate"
)

// CollectionSummary is the per-collection rollup of a validation run
// (spec.md §3). Percentages are derived, not stored authoritatively.
type CollectionSummary struct {
	Collection string
	Total      int
	Valid      int
	Invalid    int
	Missing    int
}

// ValidPct returns the percentage of Total that validated successfully.
// A zero-total collection reports 100% valid, per spec.md §4.G.
func (s CollectionSummary) ValidPct() float64  { return pct(s.Valid, s.Total) }
func (s CollectionSummary) InvalidPct() float64 { return pct(s.Invalid, s.Total) }
func (s CollectionSummary) MissingPct() float64 { return pct(s.Missing, s.Total) }

func pct(count, total int) float64 {
	if total == 0 {
		return 100
	}
	return float64(count) / float64(total) * 100
}

// ValidationReport is the immutable, persisted outcome of one
// validation run (spec.md §3). SchemaVersion lets future optional
// fields default cleanly without a migration (spec.md §6: "No schema
// versioning is required; new optional fields must default cleanly" —
// the report carries a version anyway, since it costs nothing).
type ValidationReport struct {
	ID                string
	SchemaVersion     int
	StartTime         time.Time
	EndTime           time.Time
	DurationMs        int64
	TotalDocuments      int
	TotalFields         int
	ValidURLs           int
	InvalidURLs         int
	MissingURLs         int
	CollectionSummaries []CollectionSummary
	InvalidResults      []validate.FieldResult
}

// Aggregator builds and persists ValidationReports.
type Aggregator struct {
	store store.Store
	clock clock.Clock
	ids   clock.IDGenerator
}

// New builds an Aggregator.
func New(st store.Store, clk clock.Clock, ids clock.IDGenerator) *Aggregator {
	return &Aggregator{store: st, clock: clk, ids: ids}
}

// Generate implements spec.md §4.G generateReport: partition sums for
// totals, grouped-by-collection summaries, and a flattened invalid
// list. It does not persist; call Persist separately (the worker calls
// both in sequence, but tests frequently want the pure computation
// alone).
func (a *Aggregator) Generate(results []validate.DocumentResult, startTime, endTime time.Time) ValidationReport {
	rpt := ValidationReport{
		ID:            a.ids.NewID(),
		SchemaVersion: 1,
		StartTime:     startTime,
		EndTime:       endTime,
		DurationMs:    endTime.Sub(startTime).Milliseconds(),
	}

	bySummary := map[string]*CollectionSummary{}
	var order []string

	for _, doc := range results {
		rpt.TotalDocuments++
		rpt.TotalFields += doc.Total
		rpt.ValidURLs += doc.Valid
		rpt.InvalidURLs += doc.Invalid
		rpt.MissingURLs += doc.Missing

		summary, ok := bySummary[doc.Collection]
		if !ok {
			summary = &CollectionSummary{Collection: doc.Collection}
			bySummary[doc.Collection] = summary
			order = append(order, doc.Collection)
		}
		summary.Total += doc.Total
		summary.Valid += doc.Valid
		summary.Invalid += doc.Invalid
		summary.Missing += doc.Missing

		for _, field := range doc.Fields {
			if field.Missing || field.Verdict.IsValid {
				continue
			}
			rpt.InvalidResults = append(rpt.InvalidResults, field)
		}
	}

	rpt.CollectionSummaries = make([]CollectionSummary, 0, len(order))
	for _, name := range order {
		rpt.CollectionSummaries = append(rpt.CollectionSummaries, *bySummary[name])
	}

	return rpt
}

// Persist saves rpt via the configured Store, keyed by rpt.ID.
func (a *Aggregator) Persist(ctx context.Context, rpt ValidationReport) error {
	return a.store.SaveReport(ctx, store.ReportKindValidation, rpt.ID, ToValue(rpt))
}
