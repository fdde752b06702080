package imageservice

import (
	"context"
	"errors"
	"log"
	"net/url"
	"time"

	"github.com/ryanuber/go-glob"
	"github.com/thebartekbanach/imgpipe/pkg/cache"
	"github.com/thebartekbanach/imgpipe/pkg/filefetcher"
	"github.com/thebartekbanach/imgpipe/pkg/imgrequest"
	"github.com/thebartekbanach/imgpipe/pkg/metrics"
	"github.com/thebartekbanach/imgpipe/pkg/provider"
	"github.com/thebartekbanach/imgpipe/pkg/worker"
)

type ImageServiceConfig struct {
	Provider       provider.Settings
	ServeRoute     string
	CacheLifetime  time.Duration
	AllowedDomains []string
	AllowedOrigins []string
}

type imageService struct {
	config  ImageServiceConfig
	cache   cache.CacheService
	workers worker.Factory
	flights *imgrequest.FlightGroup
	metrics *metrics.Metrics
}

var _ ImageService = (*imageService)(nil)

func NewImageService(
	config ImageServiceConfig,
	cache cache.CacheService,
	workers worker.Factory,
	flights *imgrequest.FlightGroup,
	metrics *metrics.Metrics,
) ImageService {
	return &imageService{
		config:  config,
		cache:   cache,
		workers: workers,
		flights: flights,
		metrics: metrics,
	}
}

func (s *imageService) Handle(ctx context.Context, rawQuery, callerOrigin, device string, responseWriter imgrequest.ResponseWriter) {
	if !s.isAllowedOrigin(callerOrigin) {
		s.writeError(responseWriter, 403, "request origin not allowed")
		return
	}

	requestProvider := provider.NewRequestProvider(s.config.Provider, rawQuery, s.cache)
	image := requestProvider.QueryStringData(requestProvider.VarImage())
	if image == "" {
		s.writeError(responseWriter, 400, "image not given")
		return
	}

	if filefetcher.IsRemote(image) && !s.isAllowedImageSourceDomain(image) {
		s.writeError(responseWriter, 403, "source image domain not allowed")
		return
	}

	img := imgrequest.New(requestProvider, s.workers, s.config.CacheLifetime, s.config.ServeRoute).ForDevice(device)

	start := time.Now()
	result, err := s.flights.Serve(ctx, img, responseWriter)
	if err != nil {
		code, message := errorResponse(err)
		log.Printf("cannot serve %s: %s", rawQuery, err)
		s.writeError(responseWriter, code, message)
		return
	}

	s.metrics.ObserveStatus(200)
	s.metrics.ObserveServed(result.FromCache, result.Shared, time.Since(start))
}

func (s *imageService) Js(publicDir string) (string, error) {
	requestProvider := provider.NewRequestProvider(s.config.Provider, "", s.cache)
	return imgrequest.New(requestProvider, s.workers, s.config.CacheLifetime, s.config.ServeRoute).Js(publicDir)
}

func (s *imageService) writeError(responseWriter imgrequest.ResponseWriter, code int, message string) {
	s.metrics.ObserveStatus(code)
	responseWriter.WriteError(code, message)
}

func errorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, imgrequest.ErrInvalidRequest):
		return 400, "bad request"
	case errors.Is(err, imgrequest.ErrTransform):
		return 400, err.Error()
	case errors.Is(err, filefetcher.ErrSourceNotFound):
		return 404, "image not found"
	case errors.Is(err, filefetcher.ErrSourceTooLarge):
		return 413, "source image too large"
	case errors.Is(err, worker.ErrUndecodableSource):
		return 422, "source image cannot be decoded"
	case errors.Is(err, cache.ErrCacheUnavailable):
		return 503, "cache unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return 504, "processing timed out"
	case errors.Is(err, context.Canceled):
		return 499, "client closed request"
	}

	return 500, "processing error"
}

func (s *imageService) isAllowedOrigin(origin string) bool {
	if len(s.config.AllowedOrigins) == 0 {
		return true
	}

	for _, allowedOrigin := range s.config.AllowedOrigins {
		if glob.Glob(allowedOrigin, origin) {
			return true
		}
	}

	return false
}

func (s *imageService) isAllowedImageSourceDomain(sourceImageURL string) bool {
	if len(s.config.AllowedDomains) == 0 {
		return true
	}

	url, err := url.Parse(sourceImageURL)
	if err != nil {
		return false
	}

	sourceImageDomain := url.Hostname()
	for _, allowedDomain := range s.config.AllowedDomains {
		if glob.Glob(allowedDomain, sourceImageDomain) {
			return true
		}
	}

	return false
}
