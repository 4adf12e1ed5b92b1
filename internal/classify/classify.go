// Package classify implements the URL classifier (spec.md §4.A): pure,
// total predicates over a URL string with no I/O. Every function here
// must resolve for any input; none return an error.
package classify

import "strings"

// MediaType is the coarse classification a URL or field can carry.
type MediaType int

const (
	// Unknown means no image/video signal was found.
	Unknown MediaType = iota
	Image
	Video
)

func (t MediaType) String() string {
	switch t {
	case Image:
		return "image"
	case Video:
		return "video"
	default:
		return "unknown"
	}
}

// hostHints are substrings of known media-hosting domains.
var hostHints = []string{
	"cloudinary.com",
	"storage.googleapis.com",
	"firebasestorage.googleapis.com",
	"amazonaws.com",
	"imgix.net",
}

// mediaExtensions are file extensions (with leading dot) recognized as
// media assets.
var mediaExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".svg", ".webp", ".bmp", ".tiff",
	".mp4", ".mov", ".avi", ".webm", ".ogg", ".mkv", ".flv", ".m4v",
}

// videoExtensions is the subset of mediaExtensions that indicate video.
var videoExtensions = []string{".mp4", ".mov", ".avi", ".webm", ".ogg", ".mkv", ".flv", ".m4v"}

// nonMediaDenylist are substrings that rule out an absolute http(s) URL
// as media even though it has no recognized extension.
var nonMediaDenylist = []string{"swagger", "api", "json", "xml", "graphql"}

// videoMarkers are substrings whose presence marks a URL as video,
// independent of file extension (spec.md §4.A detect-video / §4.C).
var videoMarkers = []string{".mp4", ".mov", ".webm", "video/", "-sbv-", "dynamic motion"}

// videoFieldNameHints and imageFieldNameHints drive infer-expected-type's
// field-name precedence fallback.
var videoFieldNameHints = []string{"video", "movie", "clip"}
var imageFieldNameHints = []string{"image", "photo", "picture", "thumbnail", "cover", "avatar"}

// IsRelative reports whether s is a root-relative path rather than an
// absolute or scheme URL: it starts with "/" but not the
// protocol-relative "//".
func IsRelative(s string) bool {
	return strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//")
}

// IsBlob reports whether s is a blob: URL.
func IsBlob(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), "blob:")
}

// IsData reports whether s is a data: URL.
func IsData(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), "data:")
}

// DataMediaType sub-classifies a data: URL into image/video/unknown,
// per spec.md §4.A ("sub-classify data:image/* and data:video/*").
// Callers should only invoke this after confirming IsData(s).
func DataMediaType(s string) MediaType {
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "data:image/") {
		return Image
	}
	if strings.HasPrefix(lower, "data:video/") {
		return Video
	}
	return Unknown
}

// DetectVideo reports whether s contains any video marker substring
// (case-insensitive), per spec.md §4.A detect-video.
func DetectVideo(s string) bool {
	lower := strings.ToLower(s)
	for _, marker := range videoMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func hasAnyExtension(lower string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func containsAny(lower string, substrs []string) bool {
	for _, s := range substrs {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// LooksLikeMedia implements spec.md §4.A looks-like-media: true for
// data/blob URLs, known media hosts, a recognized media extension, or
// any absolute http(s) URL that isn't denylisted as clearly non-media.
func LooksLikeMedia(s string) bool {
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)

	if IsData(s) || IsBlob(s) {
		return true
	}
	if containsAny(lower, hostHints) {
		return true
	}
	if hasAnyExtension(lower, mediaExtensions) {
		return true
	}
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return !containsAny(lower, nonMediaDenylist)
	}
	return false
}

// InferExpectedType implements spec.md §4.A infer-expected-type,
// applying its precedence in order: URL video markers, then URL image
// signals, then field-name hints, defaulting to Image.
func InferExpectedType(fieldName, url string) MediaType {
	lowerURL := strings.ToLower(url)

	if DetectVideo(lowerURL) {
		return Video
	}
	if hasAnyExtension(lowerURL, imageExtensionsOnly()) || strings.Contains(lowerURL, "image/") {
		return Image
	}

	lowerField := strings.ToLower(fieldName)
	if containsAny(lowerField, videoFieldNameHints) {
		return Video
	}
	if containsAny(lowerField, imageFieldNameHints) {
		return Image
	}

	return Image
}

// imageExtensionsOnly returns mediaExtensions minus the video ones, so
// InferExpectedType's image-signal check doesn't double-count video
// files (video markers are already checked first in the precedence).
func imageExtensionsOnly() []string {
	out := make([]string, 0, len(mediaExtensions))
	for _, ext := range mediaExtensions {
		isVideo := false
		for _, v := range videoExtensions {
			if ext == v {
				isVideo = true
				break
			}
		}
		if !isVideo {
			out = append(out, ext)
		}
	}
	return out
}
