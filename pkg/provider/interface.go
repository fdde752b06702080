package provider

import (
	"context"
	"time"

	"github.com/thebartekbanach/imgpipe/pkg/cache"
	"github.com/thebartekbanach/imgpipe/pkg/transform"
)

// Provider is the environment of a single image request: path layout, query
// string variables and access to the rendered images cache.
type Provider interface {
	PublicPath() string
	BasePath() string
	JsPath() string

	QueryStringData(varName string) string
	VarImage() string
	VarTransform() string
	VarResponsiveFlag() string

	WorkerName() string
	Breakpoints() transform.Breakpoints

	// GetFromCache returns nil artifact and nil error on a miss.
	GetFromCache(ctx context.Context, fingerprint string) (*cache.CachedArtifact, error)
	PutToCache(ctx context.Context, artifact cache.CachedArtifact, lifetime time.Duration) error
}
