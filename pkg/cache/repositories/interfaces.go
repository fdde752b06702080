package cacherepositories

import (
	"context"
	"time"
)

type CachedImageModel struct {
	Fingerprint string `json:"fingerprint" bson:"fingerprint"`
	ImagePath   string `json:"imagePath" bson:"imagePath"`
	Operations  string `json:"operations" bson:"operations"`
	EngineName  string `json:"engineName" bson:"engineName"`

	MimeType  string    `json:"mimeType" bson:"mimeType"`
	ImageSize int64     `json:"imageSize" bson:"imageSize"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt" bson:"expiresAt"`
}

// Expired reports whether the entry outlived its lifetime at the given time.
// Entries with zero ExpiresAt never expire.
func (m CachedImageModel) Expired(now time.Time) bool {
	return !m.ExpiresAt.IsZero() && !now.Before(m.ExpiresAt)
}

type InvalidationModel struct {
	ID string `json:"id" bson:"_id"`

	InvalidationDate  time.Time          `json:"invalidationDate" bson:"invalidationDate"`
	RequestedPaths    []string           `json:"requestedPaths" bson:"requestedPaths"`
	DonePaths         []string           `json:"donePaths" bson:"donePaths"`
	InvalidatedImages []CachedImageModel `json:"invalidatedImages" bson:"invalidatedImages"`
	InvalidationError *string            `json:"invalidationError,omitempty" bson:"invalidationError,omitempty"`
}

type CachedImagesRepository interface {
	CreateCachedImageInfo(ctx context.Context, info CachedImageModel) error
	DeleteCachedImageInfo(ctx context.Context, fingerprint string) error
	GetCachedImageInfo(ctx context.Context, fingerprint string) (CachedImageModel, error)
	GetCachedImageInfosOfSource(ctx context.Context, imagePath string) ([]CachedImageModel, error)
}

type CachedImagesStorage interface {
	Save(ctx context.Context, fingerprint, mimeType string, data []byte, lifetime time.Duration) error
	Get(ctx context.Context, fingerprint string) ([]byte, error)
	Delete(ctx context.Context, fingerprint string) error
}

type InvalidationsRepository interface {
	CreateInvalidation(ctx context.Context, invalidation InvalidationModel) error
	GetLatestInvalidations(ctx context.Context, limit int) ([]InvalidationModel, error)
}
