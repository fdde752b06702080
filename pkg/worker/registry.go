package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/thebartekbanach/imgpipe/pkg/filefetcher"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type Registry struct {
	fetcher filefetcher.Fetcher

	lock          sync.RWMutex
	engines       map[string]Engine
	defaultEngine string
	limits        Limits
}

var _ Factory = (*Registry)(nil)

// NewRegistry creates a worker factory. The first registered engine is used
// when a request does not name one.
func NewRegistry(fetcher filefetcher.Fetcher, engines ...Engine) *Registry {
	registry := &Registry{
		fetcher: fetcher,
		engines: make(map[string]Engine),
		limits:  DefaultLimits,
	}

	for _, engine := range engines {
		registry.Register(engine)
	}

	return registry
}

func (r *Registry) Register(engine Engine) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.defaultEngine == "" {
		r.defaultEngine = engine.Name()
	}

	r.engines[engine.Name()] = engine
}

func (r *Registry) SetLimits(limits Limits) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.limits = limits
}

func (r *Registry) Engine(name string) (Engine, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if name == "" {
		name = r.defaultEngine
	}

	engine, ok := r.engines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}

	return engine, nil
}

func (r *Registry) CreateWorker(ctx context.Context, path, engineName string) (Worker, error) {
	engine, err := r.Engine(engineName)
	if err != nil {
		return nil, err
	}

	source, err := r.fetcher.Fetch(ctx, path)
	if err != nil {
		return nil, err
	}

	r.lock.RLock()
	limits := r.limits
	r.lock.RUnlock()

	// formats unknown to the image package are left to the engine
	config, _, err := image.DecodeConfig(bytes.NewReader(source))
	if err == nil {
		if err := limits.CheckSource(config.Width, config.Height); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUndecodableSource, err)
		}
	}

	worker, err := engine.Open(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUndecodableSource, err)
	}

	return limitedWorker{Worker: worker, limits: limits, width: config.Width, height: config.Height}, nil
}

var (
	ErrUnknownEngine     = errors.New("unknown worker engine")
	ErrUndecodableSource = errors.New("cannot decode source image")
)
