package report

import (
	"time"

	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/classify"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/validate"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/value"
)

// ToValue serializes a ValidationReport into the Value representation
// Store.SaveReport persists. The report's timestamps are stored as
// value.Timestamp; the store adapter converts them to its native type.
func ToValue(rpt ValidationReport) value.Value {
	summaries := make([]value.Value, len(rpt.CollectionSummaries))
	for i, s := range rpt.CollectionSummaries {
		summaries[i] = value.Mapping(map[string]value.Value{
			"collection": value.String(s.Collection),
			"total":      value.Number(float64(s.Total)),
			"valid":      value.Number(float64(s.Valid)),
			"invalid":    value.Number(float64(s.Invalid)),
			"missing":    value.Number(float64(s.Missing)),
		})
	}

	invalidResults := make([]value.Value, len(rpt.InvalidResults))
	for i, fr := range rpt.InvalidResults {
		invalidResults[i] = fieldResultToValue(fr)
	}

	return value.Mapping(map[string]value.Value{
		"id":                  value.String(rpt.ID),
		"schemaVersion":       value.Number(float64(rpt.SchemaVersion)),
		"startTime":           value.Timestamp(rpt.StartTime),
		"endTime":             value.Timestamp(rpt.EndTime),
		"durationMs":          value.Number(float64(rpt.DurationMs)),
		"totalDocuments":      value.Number(float64(rpt.TotalDocuments)),
		"totalFields":         value.Number(float64(rpt.TotalFields)),
		"validUrls":           value.Number(float64(rpt.ValidURLs)),
		"invalidUrls":         value.Number(float64(rpt.InvalidURLs)),
		"missingUrls":         value.Number(float64(rpt.MissingURLs)),
		"collectionSummaries": value.Sequence(summaries),
		"invalidResults":      value.Sequence(invalidResults),
	})
}

func fieldResultToValue(fr validate.FieldResult) value.Value {
	m := map[string]value.Value{
		"collection": value.String(fr.Collection),
		"documentId": value.String(fr.DocumentID),
		"fieldPath":  value.String(fr.FieldPath),
		"missing":    value.Bool(fr.Missing),
	}
	if !fr.Missing {
		m["verdict"] = verdictToValue(fr.Verdict)
	}
	return value.Mapping(m)
}

func verdictToValue(v validate.Verdict) value.Value {
	m := map[string]value.Value{
		"url":          value.String(v.URL),
		"isValid":      value.Bool(v.IsValid),
		"httpStatus":   value.Number(float64(v.HTTPStatus)),
		"detectedType": value.String(v.DetectedType.String()),
		"validatedAt":  value.Timestamp(v.ValidatedAt),
	}
	if v.HTTPStatusText != "" {
		m["httpStatusText"] = value.String(v.HTTPStatusText)
	}
	if v.ContentType != "" {
		m["contentType"] = value.String(v.ContentType)
	}
	if v.ExpectedType != nil {
		m["expectedType"] = value.String(v.ExpectedType.String())
	}
	if v.Error != "" {
		m["error"] = value.String(v.Error)
	}
	return value.Mapping(m)
}

// FromValue deserializes a ValidationReport previously produced by
// ToValue. It is tolerant of missing optional fields, per spec.md §6:
// "new optional fields must default cleanly".
func FromValue(v value.Value) ValidationReport {
	m, _ := v.AsMapping()

	rpt := ValidationReport{
		ID:             getString(m, "id"),
		SchemaVersion:  int(getNumber(m, "schemaVersion")),
		StartTime:      getTimestamp(m, "startTime"),
		EndTime:        getTimestamp(m, "endTime"),
		DurationMs:     int64(getNumber(m, "durationMs")),
		TotalDocuments: int(getNumber(m, "totalDocuments")),
		TotalFields:    int(getNumber(m, "totalFields")),
		ValidURLs:      int(getNumber(m, "validUrls")),
		InvalidURLs:    int(getNumber(m, "invalidUrls")),
		MissingURLs:    int(getNumber(m, "missingUrls")),
	}

	if seq, ok := getSequence(m, "collectionSummaries"); ok {
		rpt.CollectionSummaries = make([]CollectionSummary, len(seq))
		for i, item := range seq {
			sm, _ := item.AsMapping()
			rpt.CollectionSummaries[i] = CollectionSummary{
				Collection: getString(sm, "collection"),
				Total:      int(getNumber(sm, "total")),
				Valid:      int(getNumber(sm, "valid")),
				Invalid:    int(getNumber(sm, "invalid")),
				Missing:    int(getNumber(sm, "missing")),
			}
		}
	}

	if seq, ok := getSequence(m, "invalidResults"); ok {
		rpt.InvalidResults = make([]validate.FieldResult, len(seq))
		for i, item := range seq {
			rpt.InvalidResults[i] = fieldResultFromValue(item)
		}
	}

	return rpt
}

func fieldResultFromValue(v value.Value) validate.FieldResult {
	m, _ := v.AsMapping()
	fr := validate.FieldResult{
		Collection: getString(m, "collection"),
		DocumentID: getString(m, "documentId"),
		FieldPath:  getString(m, "fieldPath"),
		Missing:    getBool(m, "missing"),
	}
	if vm, ok := m["verdict"]; ok {
		fr.Verdict = verdictFromValue(vm)
	}
	return fr
}

func verdictFromValue(v value.Value) validate.Verdict {
	m, _ := v.AsMapping()
	verdict := validate.Verdict{
		URL:            getString(m, "url"),
		IsValid:        getBool(m, "isValid"),
		HTTPStatus:     int(getNumber(m, "httpStatus")),
		HTTPStatusText: getString(m, "httpStatusText"),
		ContentType:    getString(m, "contentType"),
		DetectedType:   parseMediaType(getString(m, "detectedType")),
		Error:          getString(m, "error"),
		ValidatedAt:    getTimestamp(m, "validatedAt"),
	}
	if s, ok := m["expectedType"]; ok {
		if str, isStr := s.AsString(); isStr {
			mt := parseMediaType(str)
			verdict.ExpectedType = &mt
		}
	}
	return verdict
}

func parseMediaType(s string) classify.MediaType {
	switch s {
	case "image":
		return classify.Image
	case "video":
		return classify.Video
	default:
		return classify.Unknown
	}
}

func getString(m map[string]value.Value, key string) string {
	if v, ok := m[key]; ok {
		s, _ := v.AsString()
		return s
	}
	return ""
}

func getNumber(m map[string]value.Value, key string) float64 {
	if v, ok := m[key]; ok {
		n, _ := v.AsNumber()
		return n
	}
	return 0
}

func getBool(m map[string]value.Value, key string) bool {
	if v, ok := m[key]; ok {
		b, _ := v.AsBool()
		return b
	}
	return false
}

func getTimestamp(m map[string]value.Value, key string) time.Time {
	if v, ok := m[key]; ok {
		tv, _ := v.AsTimestamp()
		return tv
	}
	return time.Time{}
}

func getSequence(m map[string]value.Value, key string) ([]value.Value, bool) {
	if v, ok := m[key]; ok {
		return v.AsSequence()
	}
	return nil, false
}
