package worker

import (
	"context"
	"time"

	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/clock"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/repair"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/store"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/value"
)

// RepairReport is the persisted outcome of one repair run (spec.md §3:
// "{ id; timestamp; totalDocuments; totalFieldsRepaired;
// repairsByType: map<repairType,int>; results: DocumentRepairResult[] }").
type RepairReport struct {
	ID                  string
	Timestamp           time.Time
	TotalDocuments      int
	TotalFieldsRepaired int
	RepairsByType       map[string]int
	Results             []repair.Result
}

func buildRepairReport(ids clock.IDGenerator, clk clock.Clock, results []repair.Result) RepairReport {
	rpt := RepairReport{
		ID:            ids.NewID(),
		Timestamp:     clk.Now(),
		RepairsByType: map[string]int{},
	}

	docs := map[string]bool{}
	for _, r := range results {
		docs[r.Collection+"/"+r.DocumentID] = true
		if r.Success {
			rpt.TotalFieldsRepaired++
			rpt.RepairsByType[r.Type.String()]++
		}
	}
	rpt.TotalDocuments = len(docs)
	rpt.Results = results
	return rpt
}

func repairReportToValue(rpt RepairReport) value.Value {
	byType := make(map[string]value.Value, len(rpt.RepairsByType))
	for k, v := range rpt.RepairsByType {
		byType[k] = value.Number(float64(v))
	}

	results := make([]value.Value, len(rpt.Results))
	for i, r := range rpt.Results {
		m := map[string]value.Value{
			"collection": value.String(r.Collection),
			"documentId": value.String(r.DocumentID),
			"fieldPath":  value.String(r.FieldPath),
			"oldUrl":     value.String(r.OldURL),
			"newUrl":     value.String(r.NewURL),
			"repairType": value.String(r.Type.String()),
			"success":    value.Bool(r.Success),
		}
		if r.Error != "" {
			m["error"] = value.String(r.Error)
		}
		results[i] = value.Mapping(m)
	}

	return value.Mapping(map[string]value.Value{
		"id":                  value.String(rpt.ID),
		"timestamp":           value.Timestamp(rpt.Timestamp),
		"totalDocuments":      value.Number(float64(rpt.TotalDocuments)),
		"totalFieldsRepaired": value.Number(float64(rpt.TotalFieldsRepaired)),
		"repairsByType":       value.Mapping(byType),
		"results":             value.Sequence(results),
	})
}

func persistRepairReport(ctx context.Context, st store.Store, rpt RepairReport) error {
	return st.SaveReport(ctx, store.ReportKindRepair, rpt.ID, repairReportToValue(rpt))
}
