package imageservice_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/thebartekbanach/imgpipe/pkg/cache"
	mock_cache "github.com/thebartekbanach/imgpipe/pkg/cache/mocks"
	"github.com/thebartekbanach/imgpipe/pkg/filefetcher"
	"github.com/thebartekbanach/imgpipe/pkg/imageservice"
	"github.com/thebartekbanach/imgpipe/pkg/imgrequest"
	mock_imgrequest "github.com/thebartekbanach/imgpipe/pkg/imgrequest/mocks"
	"github.com/thebartekbanach/imgpipe/pkg/metrics"
	"github.com/thebartekbanach/imgpipe/pkg/provider"
	"github.com/thebartekbanach/imgpipe/pkg/transform"
	"github.com/thebartekbanach/imgpipe/pkg/worker"
	mock_worker "github.com/thebartekbanach/imgpipe/pkg/worker/mocks"
)

type testingImageServiceDeps struct {
	cache          *mock_cache.MockCacheService
	workers        *mock_worker.MockFactory
	worker         *mock_worker.MockWorker
	responseWriter *mock_imgrequest.MockResponseWriter
}

type testingImageServiceCreationConfig struct {
	allowedDomains []string
	allowedOrigins []string
}

func createTestingImageService(t *testing.T, cfg testingImageServiceCreationConfig) (imageservice.ImageService, *testingImageServiceDeps) {
	mockCtrl := gomock.NewController(t)
	deps := &testingImageServiceDeps{
		cache:          mock_cache.NewMockCacheService(mockCtrl),
		workers:        mock_worker.NewMockFactory(mockCtrl),
		worker:         mock_worker.NewMockWorker(mockCtrl),
		responseWriter: mock_imgrequest.NewMockResponseWriter(mockCtrl),
	}

	if len(cfg.allowedDomains) == 0 {
		cfg.allowedDomains = []string{"*"}
	}

	if len(cfg.allowedOrigins) == 0 {
		cfg.allowedOrigins = []string{"*"}
	}

	config := imageservice.ImageServiceConfig{
		Provider: provider.Settings{
			PublicPath:        "/public/",
			VarImage:          "img",
			VarTransform:      "t",
			VarResponsiveFlag: "r",
			WorkerName:        "imaging",
		},
		ServeRoute:     "/img",
		CacheLifetime:  time.Hour,
		AllowedDomains: cfg.allowedDomains,
		AllowedOrigins: cfg.allowedOrigins,
	}

	service := imageservice.NewImageService(
		config,
		deps.cache,
		deps.workers,
		imgrequest.NewFlightGroup(),
		metrics.New(prometheus.NewRegistry()),
	)

	return service, deps
}

func (deps *testingImageServiceDeps) expectRender(imagePath string) {
	deps.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cache.CachedArtifact{}, cache.ErrEntryNotFound)
	deps.workers.EXPECT().CreateWorker(gomock.Any(), imagePath, "imaging").Return(deps.worker, nil)
	deps.worker.EXPECT().Apply(gomock.Any()).Return(deps.worker, nil)
	deps.worker.EXPECT().Encode(gomock.Any()).Return("image/png", []byte("rendered"), nil)
	deps.cache.EXPECT().Save(gomock.Any(), gomock.Any(), time.Hour).Return(nil)
	deps.responseWriter.EXPECT().WriteOK("image/png", gomock.Any(), gomock.Any()).Return(nil)
}

func TestImageService_FirstHandleShouldRenderImageAndSaveInCacheAndReturn(t *testing.T) {
	service, deps := createTestingImageService(t, testingImageServiceCreationConfig{})
	fingerprint := transform.Fingerprint("/public/photo.jpg", transform.MustParseChain("resize:300,300"))

	gomock.InOrder(
		deps.cache.EXPECT().Get(gomock.Any(), fingerprint).Return(cache.CachedArtifact{}, cache.ErrEntryNotFound),
		deps.workers.EXPECT().CreateWorker(gomock.Any(), "/public/photo.jpg", "imaging").Return(deps.worker, nil),
		deps.worker.EXPECT().Apply(transform.NewOperation("resize", "300", "300")).Return(deps.worker, nil),
		deps.worker.EXPECT().Encode(gomock.Any()).Return("image/png", []byte("rendered"), nil),
		deps.cache.EXPECT().Save(gomock.Any(), gomock.Any(), time.Hour).DoAndReturn(
			func(ctx context.Context, artifact cache.CachedArtifact, lifetime time.Duration) error {
				if artifact.Fingerprint != fingerprint || artifact.ImagePath != "/public/photo.jpg" {
					t.Errorf("Unexpected artifact saved: %+v", artifact)
				}
				return nil
			}),
		deps.responseWriter.EXPECT().WriteOK("image/png", gomock.Any(), gomock.Any()).Return(nil),
	)

	service.Handle(context.Background(), "img=photo.jpg&t=resize:300,300", "github.com", "", deps.responseWriter)
}

func TestImageService_SecondHandleShouldReturnImageFromCache(t *testing.T) {
	service, deps := createTestingImageService(t, testingImageServiceCreationConfig{})

	deps.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cache.CachedArtifact{MimeType: "image/jpeg", Data: []byte("cached")}, nil)
	deps.responseWriter.EXPECT().WriteOK("image/jpeg", gomock.Any(), gomock.Any()).Return(nil)

	service.Handle(context.Background(), "img=photo.jpg&t=resize:300,300", "github.com", "", deps.responseWriter)
}

func TestImageService_Returns400WhenImageIsNotGiven(t *testing.T) {
	service, deps := createTestingImageService(t, testingImageServiceCreationConfig{})

	deps.responseWriter.EXPECT().WriteError(400, "image not given")

	service.Handle(context.Background(), "t=resize:300,300", "github.com", "", deps.responseWriter)
}

func TestImageService_Returns400OnMalformedTransformChain(t *testing.T) {
	service, deps := createTestingImageService(t, testingImageServiceCreationConfig{})

	deps.responseWriter.EXPECT().WriteError(400, gomock.Any())

	service.Handle(context.Background(), "img=photo.jpg&t=resize:1,1||grayscale", "github.com", "", deps.responseWriter)
}

func TestImageService_Returns400WhenImageLeavesPublicPath(t *testing.T) {
	service, deps := createTestingImageService(t, testingImageServiceCreationConfig{})

	deps.responseWriter.EXPECT().WriteError(400, "bad request")

	service.Handle(context.Background(), "img=../../../srv/private/x.png&t=resize:10,10", "github.com", "", deps.responseWriter)
}

func TestImageService_RejectsRequestIfRequesterOriginIsNotAllowed(t *testing.T) {
	service, deps := createTestingImageService(t, testingImageServiceCreationConfig{
		allowedOrigins: []string{"google.com"},
	})

	deps.responseWriter.EXPECT().WriteError(403, "request origin not allowed")

	service.Handle(context.Background(), "img=photo.jpg&t=resize:300,300", "github.com", "", deps.responseWriter)
}

func TestImageService_AllowsRequestIfRequesterOriginIsAllowedUsingGlobPattern(t *testing.T) {
	service, deps := createTestingImageService(t, testingImageServiceCreationConfig{
		allowedOrigins: []string{"google.com", "*.github.com"},
	})

	deps.expectRender("/public/photo.jpg")

	service.Handle(context.Background(), "img=photo.jpg&t=resize:300,300", "pages.github.com", "", deps.responseWriter)
}

func TestImageService_RejectsRequestIfSourceImageDomainIsNotAllowed(t *testing.T) {
	service, deps := createTestingImageService(t, testingImageServiceCreationConfig{
		allowedDomains: []string{"github.com"},
	})

	deps.responseWriter.EXPECT().WriteError(403, "source image domain not allowed")

	service.Handle(context.Background(), "img=http://google.com/image.jpg&t=resize:300,300", "github.com", "", deps.responseWriter)
}

func TestImageService_AllowsRequestIfSourceImageDomainIsAllowedUsingGlobPattern(t *testing.T) {
	service, deps := createTestingImageService(t, testingImageServiceCreationConfig{
		allowedDomains: []string{"github.com", "google.*"},
	})

	deps.expectRender("http://google.com/image.jpg")

	service.Handle(context.Background(), "img=http://google.com/image.jpg&t=resize:300,300", "github.com", "", deps.responseWriter)
}

func TestImageService_LocalImagesIgnoreDomainAllowList(t *testing.T) {
	service, deps := createTestingImageService(t, testingImageServiceCreationConfig{
		allowedDomains: []string{"github.com"},
	})

	deps.expectRender("/public/photo.jpg")

	service.Handle(context.Background(), "img=photo.jpg&t=resize:300,300", "github.com", "", deps.responseWriter)
}

func TestImageService_MapsErrorsToStatusCodes(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"missing source", fmt.Errorf("%w: /public/photo.jpg", filefetcher.ErrSourceNotFound), 404, "image not found"},
		{"too large source", filefetcher.ErrSourceTooLarge, 413, "source image too large"},
		{"undecodable source", fmt.Errorf("%w: bad header", worker.ErrUndecodableSource), 422, "source image cannot be decoded"},
		{"unknown engine", worker.ErrUnknownEngine, 500, "processing error"},
		{"canceled request", fmt.Errorf("cannot open: %w", context.Canceled), 499, "client closed request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, deps := createTestingImageService(t, testingImageServiceCreationConfig{})

			deps.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cache.CachedArtifact{}, cache.ErrEntryNotFound)
			deps.workers.EXPECT().CreateWorker(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tt.err)
			deps.responseWriter.EXPECT().WriteError(tt.code, tt.message)

			service.Handle(context.Background(), "img=photo.jpg&t=grayscale", "github.com", "", deps.responseWriter)
		})
	}
}

func TestImageService_Returns503WhenCacheIsUnavailable(t *testing.T) {
	service, deps := createTestingImageService(t, testingImageServiceCreationConfig{})

	deps.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cache.CachedArtifact{}, fmt.Errorf("%w: connection refused", cache.ErrCacheUnavailable))
	deps.responseWriter.EXPECT().WriteError(503, "cache unavailable")

	service.Handle(context.Background(), "img=photo.jpg&t=grayscale", "github.com", "", deps.responseWriter)
}

func TestImageService_Returns400WhenWorkerRejectsOperation(t *testing.T) {
	service, deps := createTestingImageService(t, testingImageServiceCreationConfig{})

	deps.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cache.CachedArtifact{}, cache.ErrEntryNotFound)
	deps.workers.EXPECT().CreateWorker(gomock.Any(), gomock.Any(), gomock.Any()).Return(deps.worker, nil)
	deps.worker.EXPECT().Apply(gomock.Any()).Return(nil, worker.ErrUnsupportedOperation)
	deps.responseWriter.EXPECT().WriteError(400, gomock.Any())

	service.Handle(context.Background(), "img=photo.jpg&t=sepia", "github.com", "", deps.responseWriter)
}
