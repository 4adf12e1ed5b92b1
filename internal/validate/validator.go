package validate

import (
	"context"
	"fmt"
	"strings"

	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/classify"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/clock"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/httpclient"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/probe"
)

// Validator combines the classifier (pure) and the prober (I/O) into
// the single verdict-producing operation of spec.md §4.C.
type Validator struct {
	prober *probe.Prober
	clock  clock.Clock
}

// New builds a Validator. clk may be clock.System{} in production or a
// fixed fake in tests.
func New(prober *probe.Prober, clk clock.Clock) *Validator {
	return &Validator{prober: prober, clock: clk}
}

// Validate runs the full decision table of spec.md §4.C against url,
// optionally checking it against expectedType.
func (v *Validator) Validate(ctx context.Context, url string, expectedType *classify.MediaType) Verdict {
	now := v.clock.Now()

	trimmed := strings.TrimSpace(url)
	if trimmed == "" {
		return invalid(url, "URL is empty or undefined", 400, classify.Unknown, expectedType, now)
	}

	if classify.IsRelative(trimmed) {
		return invalid(url, "Relative URLs are not supported", 400, classify.Unknown, expectedType, now)
	}

	if classify.IsBlob(trimmed) {
		return invalid(url, "Blob URLs are not supported", 400, classify.Unknown, expectedType, now)
	}

	if classify.IsData(trimmed) {
		detected := classify.DataMediaType(trimmed)
		return valid(url, 0, "", "", detected, expectedType, now)
	}

	resp, err := v.prober.Probe(ctx, trimmed)
	if err != nil {
		msg := err.Error()
		if te, ok := err.(*httpclient.TransportError); ok {
			msg = te.Message
		}
		return invalid(url, msg, 0, classify.Unknown, expectedType, now)
	}

	if resp.Status >= 400 {
		return invalid(url, fmt.Sprintf("HTTP %d", resp.Status), resp.Status, classify.Unknown, expectedType, now)
	}

	contentType := strings.ToLower(resp.ContentType)
	isImage := strings.HasPrefix(contentType, "image/")
	isVideo := strings.HasPrefix(contentType, "video/") || classify.DetectVideo(trimmed)

	detected := classify.Unknown
	switch {
	case isImage:
		detected = classify.Image
	case isVideo:
		detected = classify.Video
	}

	if expectedType != nil {
		switch *expectedType {
		case classify.Image:
			if !isImage {
				return invalid(url, fmt.Sprintf("Expected image, got %s", displayContentType(resp.ContentType, isVideo)), resp.Status, detected, expectedType, now)
			}
		case classify.Video:
			if !isVideo {
				return invalid(url, fmt.Sprintf("Expected video, got %s", displayContentType(resp.ContentType, isVideo)), resp.Status, detected, expectedType, now)
			}
		}
	}

	return valid(url, resp.Status, resp.StatusText, resp.ContentType, detected, expectedType, now)
}

// displayContentType renders the "got <x>" half of a type-mismatch
// error: the server content-type when present, otherwise "video" if a
// URL-based video marker was the only signal (spec.md scenario 2 uses
// "got video/mp4" when the content-type itself says so, but the
// precedence table also allows a URL-only video signal with no
// content-type confirmation).
func displayContentType(contentType string, isVideo bool) string {
	if contentType != "" {
		return contentType
	}
	if isVideo {
		return "video"
	}
	return "unknown"
}
