// Package placeholder implements a MinIO-backed repair.PlaceholderSource
// (spec.md §4.H fallback), serving canonical placeholder assets via
// presigned GET URLs. Grounded on
// services/media-api/internal/storage/minio.go's PresignedGetURL
// pattern, narrowed to the one object-store operation the repair
// planner needs.
package placeholder

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/classify"
)

// presignExpiry is long-lived since placeholder URLs get written into
// documents and should keep resolving for a realistic browsing session.
const presignExpiry = 7 * 24 * time.Hour

// objectKeys maps each media type to the canonical placeholder object
// stored in the bucket. Unknown falls back to the image placeholder.
var objectKeys = map[classify.MediaType]string{
	classify.Image: "placeholder-image.jpg",
	classify.Video: "placeholder-video.mp4",
}

// Provider is a MinIO-backed placeholder asset source.
type Provider struct {
	client *minio.Client
	bucket string
}

// New builds a Provider against an existing MinIO client and bucket.
func New(client *minio.Client, bucket string) *Provider {
	return &Provider{client: client, bucket: bucket}
}

// URLFor implements repair.PlaceholderSource.
func (p *Provider) URLFor(ctx context.Context, mediaType classify.MediaType) (string, error) {
	key, ok := objectKeys[mediaType]
	if !ok {
		key = objectKeys[classify.Image]
	}

	presigned, err := p.client.PresignedGetObject(ctx, p.bucket, key, presignExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("placeholder: presign %s/%s: %w", p.bucket, key, err)
	}
	return presigned.String(), nil
}
