package provider

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/thebartekbanach/imgpipe/pkg/cache"
	"github.com/thebartekbanach/imgpipe/pkg/transform"
)

type Settings struct {
	PublicPath string
	BasePath   string
	JsPath     string

	VarImage          string
	VarTransform      string
	VarResponsiveFlag string

	WorkerName  string
	Breakpoints transform.Breakpoints
}

type RequestProvider struct {
	settings Settings
	query    Query
	cache    cache.CacheService
}

var _ Provider = (*RequestProvider)(nil)

func NewRequestProvider(settings Settings, rawQuery string, cacheService cache.CacheService) *RequestProvider {
	return &RequestProvider{
		settings: settings,
		query:    ParseQuery(rawQuery, settings.VarTransform),
		cache:    cacheService,
	}
}

func (p *RequestProvider) PublicPath() string { return p.settings.PublicPath }
func (p *RequestProvider) BasePath() string   { return p.settings.BasePath }
func (p *RequestProvider) JsPath() string     { return p.settings.JsPath }

func (p *RequestProvider) QueryStringData(varName string) string {
	return p.query.Get(varName)
}

func (p *RequestProvider) VarImage() string          { return p.settings.VarImage }
func (p *RequestProvider) VarTransform() string      { return p.settings.VarTransform }
func (p *RequestProvider) VarResponsiveFlag() string { return p.settings.VarResponsiveFlag }

func (p *RequestProvider) WorkerName() string { return p.settings.WorkerName }

func (p *RequestProvider) Breakpoints() transform.Breakpoints {
	return p.settings.Breakpoints
}

func (p *RequestProvider) GetFromCache(ctx context.Context, fingerprint string) (*cache.CachedArtifact, error) {
	artifact, err := p.cache.Get(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, cache.ErrEntryNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &artifact, nil
}

// PutToCache stores the artifact. Losing a race against a concurrent request
// and rejections by a bounded store are not errors.
func (p *RequestProvider) PutToCache(ctx context.Context, artifact cache.CachedArtifact, lifetime time.Duration) error {
	err := p.cache.Save(ctx, artifact, lifetime)
	switch {
	case errors.Is(err, cache.ErrEntryAlreadyExists):
		return nil
	case errors.Is(err, cache.ErrEntryRejected):
		log.Printf("cache rejected %s (%d bytes)", artifact.Fingerprint, len(artifact.Data))
		return nil
	}

	return err
}
