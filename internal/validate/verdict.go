// Package validate implements the URL Validator (spec.md §4.C) and the
// Document Validator (spec.md §4.E) built atop it.
package validate

import (
	"time"

	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/classify"
)

// Verdict is the outcome of validating one URL (spec.md §3). Exactly
// one of IsValid implies Error is empty; DetectedType is always set
// after any classification attempt.
type Verdict struct {
	URL            string
	IsValid        bool
	HTTPStatus     int
	HTTPStatusText string
	ContentType    string
	DetectedType   classify.MediaType
	ExpectedType   *classify.MediaType
	Error          string
	ValidatedAt    time.Time
}

func invalid(url, errMsg string, status int, detected classify.MediaType, expected *classify.MediaType, now time.Time) Verdict {
	return Verdict{
		URL:          url,
		IsValid:      false,
		HTTPStatus:   status,
		DetectedType: detected,
		ExpectedType: expected,
		Error:        errMsg,
		ValidatedAt:  now,
	}
}

func valid(url string, status int, statusText, contentType string, detected classify.MediaType, expected *classify.MediaType, now time.Time) Verdict {
	return Verdict{
		URL:            url,
		IsValid:        true,
		HTTPStatus:     status,
		HTTPStatusText: statusText,
		ContentType:    contentType,
		DetectedType:   detected,
		ExpectedType:   expected,
		ValidatedAt:    now,
	}
}
