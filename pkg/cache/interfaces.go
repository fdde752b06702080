package cache

import (
	"context"
	"time"

	cacherepositories "github.com/thebartekbanach/imgpipe/pkg/cache/repositories"
)

// CachedArtifact is a rendered image together with the information needed to
// serve it again. It is never modified once stored.
type CachedArtifact struct {
	Fingerprint string
	ImagePath   string
	Operations  string
	EngineName  string
	MimeType    string
	Data        []byte
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

type CacheService interface {
	Get(ctx context.Context, fingerprint string) (CachedArtifact, error)
	Save(ctx context.Context, artifact CachedArtifact, lifetime time.Duration) error
	InvalidateAllEntriesForImage(ctx context.Context, imagePath string) ([]cacherepositories.CachedImageModel, error)
}

type InvalidationService interface {
	Invalidate(ctx context.Context, imagePaths []string) (cacherepositories.InvalidationModel, error)
	LatestInvalidations(ctx context.Context, limit int) ([]cacherepositories.InvalidationModel, error)
}
