package imgrequest_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/franela/goblin"
	"github.com/golang/mock/gomock"
	"github.com/thebartekbanach/imgpipe/pkg/cache"
	mock_cache "github.com/thebartekbanach/imgpipe/pkg/cache/mocks"
	cacherepositories "github.com/thebartekbanach/imgpipe/pkg/cache/repositories"
	mock_cacherepositories "github.com/thebartekbanach/imgpipe/pkg/cache/repositories/mocks"
	"github.com/thebartekbanach/imgpipe/pkg/imgrequest"
	"github.com/thebartekbanach/imgpipe/pkg/provider"
	"github.com/thebartekbanach/imgpipe/pkg/transform"
	"github.com/thebartekbanach/imgpipe/pkg/worker"
	mock_worker "github.com/thebartekbanach/imgpipe/pkg/worker/mocks"
)

type recordingWriter struct {
	lock         sync.Mutex
	contentType  string
	lastModified time.Time
	body         []byte
	writes       int
}

func (w *recordingWriter) WriteOK(contentType string, lastModified time.Time, body io.Reader) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	w.contentType = contentType
	w.lastModified = lastModified
	w.body = data
	w.writes++
	return nil
}

func (w *recordingWriter) WriteError(code int, message string) {}

func testSettings() provider.Settings {
	return provider.Settings{
		PublicPath:        "/public/",
		BasePath:          "/var/www",
		JsPath:            "/public/js/imgpipe.js",
		VarImage:          "img",
		VarTransform:      "t",
		VarResponsiveFlag: "r",
		WorkerName:        "imaging",
		Breakpoints:       transform.Breakpoints{"small": "max-width=480"},
	}
}

func newTestCacheService() cache.CacheService {
	return cache.NewCacheService(
		cacherepositories.NewMemoryCachedImagesRepository(),
		mock_cacherepositories.NewMockCachedImagesStorage(),
	)
}

func TestImage(t *testing.T) {
	g := goblin.Goblin(t)

	g.Describe("Image", func() {
		var mockCtrl *gomock.Controller
		var mockFactory *mock_worker.MockFactory
		var mockWorker *mock_worker.MockWorker
		var cacheService cache.CacheService
		ctx := context.Background()

		newImage := func(rawQuery string) *imgrequest.Image {
			p := provider.NewRequestProvider(testSettings(), rawQuery, cacheService)
			return imgrequest.New(p, mockFactory, time.Hour, "/img")
		}

		g.BeforeEach(func() {
			mockCtrl = gomock.NewController(g)
			mockFactory = mock_worker.NewMockFactory(mockCtrl)
			mockWorker = mock_worker.NewMockWorker(mockCtrl)
			cacheService = newTestCacheService()
		})

		g.AfterEach(func() {
			mockCtrl.Finish()
		})

		g.Describe("Path", func() {
			g.It("Should build the image URL", func() {
				img, err := newImage("").Path("photo.jpg", "resize:300,300")

				g.Assert(err).IsNil()
				g.Assert(img.String()).Equal("/img?img=photo.jpg&t=resize:300,300")
			})

			g.It("Should join transform arguments with commas", func() {
				img, err := newImage("").Path("photo.jpg", "resize:300,300", "crop:100,100,center")

				g.Assert(err).IsNil()
				g.Assert(img.String()).Equal("/img?img=photo.jpg&t=resize:300,300,crop:100,100,center")
			})

			g.It("Should fail without transform and keep previous state", func() {
				img := newImage("")
				_, err := img.Path("photo.jpg")

				g.Assert(errors.Is(err, imgrequest.ErrInvalidRequest)).IsTrue()
				g.Assert(img.String()).Equal("")
			})

			g.It("Should replace previous path", func() {
				img := newImage("")
				img.Path("photo.jpg", "resize:300,300")
				img.Path("other.jpg", "grayscale")

				g.Assert(img.String()).Equal("/img?img=other.jpg&t=grayscale")
			})
		})

		g.Describe("Responsive", func() {
			g.It("Should fail when path was not set", func() {
				img := newImage("")
				_, err := img.Responsive("small", "resize:100,100")

				g.Assert(errors.Is(err, imgrequest.ErrPathNotSet)).IsTrue()
				g.Assert(errors.Is(err, imgrequest.ErrInvalidRequest)).IsTrue()
				g.Assert(img.String()).Equal("")
			})

			g.It("Should fail without transform", func() {
				img, _ := newImage("").Path("photo.jpg", "resize:300,300")
				_, err := img.Responsive("small")

				g.Assert(errors.Is(err, imgrequest.ErrInvalidRequest)).IsTrue()
				g.Assert(img.String()).Equal("/img?img=photo.jpg&t=resize:300,300")
			})

			g.It("Should append rules in call order", func() {
				img, _ := newImage("").Path("photo.jpg", "resize:800,600")
				img.Responsive("small", "resize:100,100")
				img.Responsive("min-width=1200", "crop:1200,600,center")

				g.Assert(img.String()).Equal("/img?img=photo.jpg&t=resize:800,600;small:resize:100,100&r=true;min-width=1200:crop:1200,600,center&r=true")
			})

			g.It("Should resolve rules against the device", func() {
				img, _ := newImage("").Path("photo.jpg", "resize:800,600")
				img.Responsive("small", "resize:100,100")
				img.Responsive("min-width=1200", "crop:1200,600,center")

				phone, err := img.Operations("375x812")
				g.Assert(err).IsNil()
				g.Assert(phone.String()).Equal("resize:800,600|resize:100,100")

				desktop, err := img.Operations("1920x1080")
				g.Assert(err).IsNil()
				g.Assert(desktop.String()).Equal("resize:800,600|crop:1200,600,center")

				unknown, err := img.Operations("")
				g.Assert(err).IsNil()
				g.Assert(unknown.String()).Equal("resize:800,600")
			})
		})

		g.Describe("ImagePath", func() {
			g.It("Should resolve the image against the public path", func() {
				path, err := newImage("img=photo.jpg&t=grayscale").ImagePath()
				g.Assert(err).IsNil()
				g.Assert(path).Equal("/public/photo.jpg")
			})

			g.It("Should reject images outside of the public path", func() {
				for _, query := range []string{
					"img=../secret.png&t=grayscale",
					"img=photos/../../secret.png&t=grayscale",
					"img=/../../etc/secret.png&t=grayscale",
					"img=%2E%2E/secret.png&t=grayscale",
				} {
					_, err := newImage(query).ImagePath()
					g.Assert(errors.Is(err, imgrequest.ErrInvalidRequest)).IsTrue(query)
				}
			})

			g.It("Should allow dots which stay inside of the public path", func() {
				path, err := newImage("img=photos/../photo.jpg&t=grayscale").ImagePath()
				g.Assert(err).IsNil()
				g.Assert(path).Equal("/public/photos/../photo.jpg")
			})

			g.It("Should not fetch nor fingerprint images outside of the public path", func() {
				img := newImage("img=../../srv/private/x.png&t=resize:10,10")

				_, err := img.Fingerprint()
				g.Assert(errors.Is(err, imgrequest.ErrInvalidRequest)).IsTrue()

				err = img.Serve(ctx, &recordingWriter{})
				g.Assert(errors.Is(err, imgrequest.ErrInvalidRequest)).IsTrue()
			})

			g.It("Should keep remote images untouched", func() {
				path, err := newImage("img=https%3A//cdn.example.com/photo.jpg&t=grayscale").ImagePath()
				g.Assert(err).IsNil()
				g.Assert(path).Equal("https://cdn.example.com/photo.jpg")
			})

			g.It("Should run path callbacks in registration order", func() {
				img := newImage("img=photo.jpg&t=grayscale")
				img.AddCallback(imgrequest.HookModifyImagePath, imgrequest.PathTransformFunc(func(path string) string {
					return path + ".orig"
				}))
				img.AddCallback(imgrequest.HookModifyImagePath, imgrequest.PathTransformFunc(func(path string) string {
					return "/mnt" + path
				}))

				path, err := img.ImagePath()
				g.Assert(err).IsNil()
				g.Assert(path).Equal("/mnt/public/photo.jpg.orig")
			})
		})

		g.Describe("Operations", func() {
			g.It("Should read the request when path was not set", func() {
				ops, err := newImage("img=photo.jpg&t=resize:300,300|grayscale").Operations("")

				g.Assert(err).IsNil()
				g.Assert(ops.String()).Equal("resize:300,300|grayscale")
			})

			g.It("Should report malformed chain as transform error", func() {
				_, err := newImage("img=photo.jpg&t=resize:1,1||grayscale").Operations("")

				g.Assert(errors.Is(err, imgrequest.ErrTransform)).IsTrue()
				g.Assert(errors.Is(err, transform.ErrMalformedChain)).IsTrue()
			})

			g.It("Should report unknown breakpoint as transform error", func() {
				_, err := newImage("img=photo.jpg&t=resize:1,1;tiny:grayscale&r=true").Operations("320x480")

				g.Assert(errors.Is(err, imgrequest.ErrTransform)).IsTrue()
			})
		})

		g.Describe("Serve", func() {
			g.It("Should render, cache and serve the image on cache miss", func() {
				img, _ := newImage("").Path("photo.jpg", "resize:300,300")
				writer := &recordingWriter{}

				gomock.InOrder(
					mockFactory.EXPECT().CreateWorker(gomock.Any(), "/public/photo.jpg", "imaging").Return(mockWorker, nil).Times(1),
					mockWorker.EXPECT().Apply(transform.NewOperation("resize", "300", "300")).Return(mockWorker, nil).Times(1),
					mockWorker.EXPECT().Encode(gomock.Any()).Return("image/png", []byte("rendered"), nil).Times(1),
				)

				g.Assert(img.Serve(ctx, writer)).IsNil()
				g.Assert(string(writer.body)).Equal("rendered")
				g.Assert(writer.contentType).Equal("image/png")

				fromCache, err := img.IsFromCache(ctx)
				g.Assert(err).IsNil()
				g.Assert(fromCache).IsFalse()

				fingerprint := transform.Fingerprint("/public/photo.jpg", transform.MustParseChain("resize:300,300"))
				cached, err := cacheService.Get(ctx, fingerprint)
				g.Assert(err).IsNil()
				g.Assert(string(cached.Data)).Equal("rendered")
				g.Assert(cached.Operations).Equal("resize:300,300")
				g.Assert(cached.EngineName).Equal("imaging")
			})

			g.It("Should not render again when served twice", func() {
				img, _ := newImage("").Path("photo.jpg", "resize:300,300")

				mockFactory.EXPECT().CreateWorker(gomock.Any(), gomock.Any(), gomock.Any()).Return(mockWorker, nil).Times(1)
				mockWorker.EXPECT().Apply(gomock.Any()).Return(mockWorker, nil).Times(1)
				mockWorker.EXPECT().Encode(gomock.Any()).Return("image/png", []byte("rendered"), nil).Times(1)

				first, second := &recordingWriter{}, &recordingWriter{}
				g.Assert(img.Serve(ctx, first)).IsNil()
				g.Assert(img.Serve(ctx, second)).IsNil()
				g.Assert(string(second.body)).Equal("rendered")
			})

			g.It("Should serve cached bytes without touching the worker", func() {
				fingerprint := transform.Fingerprint("/public/photo.jpg", transform.MustParseChain("resize:300,300"))
				lastModified := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
				cacheService.Save(ctx, cache.CachedArtifact{
					Fingerprint: fingerprint,
					MimeType:    "image/jpeg",
					Data:        []byte("cached"),
					CreatedAt:   lastModified,
				}, 0)

				img, _ := newImage("").Path("photo.jpg", "resize:300,300")
				writer := &recordingWriter{}

				g.Assert(img.Serve(ctx, writer)).IsNil()
				g.Assert(string(writer.body)).Equal("cached")
				g.Assert(writer.contentType).Equal("image/jpeg")
				g.Assert(writer.lastModified.Equal(lastModified)).IsTrue()

				fromCache, _ := img.IsFromCache(ctx)
				g.Assert(fromCache).IsTrue()

				data, err := img.ImageData(ctx)
				g.Assert(err).IsNil()
				g.Assert(string(data)).Equal("cached")
			})

			g.It("Should not cache anything when an operation fails", func() {
				img, _ := newImage("").Path("photo.jpg", "resize:300,300|sepia")

				mockFactory.EXPECT().CreateWorker(gomock.Any(), gomock.Any(), gomock.Any()).Return(mockWorker, nil)
				mockWorker.EXPECT().Apply(transform.NewOperation("resize", "300", "300")).Return(mockWorker, nil)
				mockWorker.EXPECT().Apply(transform.NewOperation("sepia")).Return(nil, worker.ErrUnsupportedOperation)

				err := img.Serve(ctx, &recordingWriter{})

				var transformErr *imgrequest.TransformError
				g.Assert(errors.As(err, &transformErr)).IsTrue()
				g.Assert(transformErr.Operation).Equal("sepia")
				g.Assert(errors.Is(err, worker.ErrUnsupportedOperation)).IsTrue()

				fingerprint, _ := img.Fingerprint()
				_, err = cacheService.Get(ctx, fingerprint)
				g.Assert(err).Equal(cache.ErrEntryNotFound)
			})

			g.It("Should report encoder argument errors as transform errors", func() {
				img, _ := newImage("").Path("photo.jpg", "quality:500")

				mockFactory.EXPECT().CreateWorker(gomock.Any(), gomock.Any(), gomock.Any()).Return(mockWorker, nil)
				mockWorker.EXPECT().Apply(gomock.Any()).Return(mockWorker, nil)
				mockWorker.EXPECT().Encode(gomock.Any()).Return("", nil, worker.ErrInvalidArgument)

				err := img.Serve(ctx, &recordingWriter{})
				g.Assert(errors.Is(err, imgrequest.ErrTransform)).IsTrue()
			})

			g.It("Should fail when the image is not given", func() {
				err := newImage("t=grayscale").Serve(ctx, &recordingWriter{})

				g.Assert(errors.Is(err, imgrequest.ErrInvalidRequest)).IsTrue()
			})

			g.It("Should surface worker creation errors", func() {
				img, _ := newImage("").Path("photo.jpg", "grayscale")
				mockFactory.EXPECT().CreateWorker(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, worker.ErrUndecodableSource)

				err := img.Serve(ctx, &recordingWriter{})
				g.Assert(errors.Is(err, worker.ErrUndecodableSource)).IsTrue()
			})

			g.It("Should not treat cache backend errors as a miss", func() {
				mockCache := mock_cache.NewMockCacheService(mockCtrl)
				mockCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cache.CachedArtifact{}, cache.ErrCacheUnavailable)

				p := provider.NewRequestProvider(testSettings(), "img=photo.jpg&t=grayscale", mockCache)
				img := imgrequest.New(p, mockFactory, time.Hour, "/img")

				err := img.Serve(ctx, &recordingWriter{})
				g.Assert(errors.Is(err, cache.ErrCacheUnavailable)).IsTrue()
			})
		})

		g.Describe("Fingerprint", func() {
			g.It("Should match the fingerprint of the resolved path and operations", func() {
				img, _ := newImage("").Path("photo.jpg", "resize:300,300")

				fingerprint, err := img.Fingerprint()
				g.Assert(err).IsNil()
				g.Assert(fingerprint).Equal(transform.Fingerprint("/public/photo.jpg", transform.MustParseChain("resize:300,300")))
			})

			g.It("Should depend on the device for responsive requests", func() {
				img, _ := newImage("").Path("photo.jpg", "resize:800,600")
				img.Responsive("small", "resize:100,100")

				phone, _ := img.ForDevice("320x480").Fingerprint()
				desktop, _ := img.ForDevice("1920x1080").Fingerprint()
				g.Assert(phone == desktop).IsFalse()
			})
		})
	})
}
