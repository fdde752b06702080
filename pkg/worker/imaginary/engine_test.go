package imaginaryworker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/franela/goblin"
	"github.com/thebartekbanach/imgpipe/pkg/transform"
	"github.com/thebartekbanach/imgpipe/pkg/worker"
	testutils "github.com/thebartekbanach/imgpipe/test/utils"
)

type httpResponseBody struct {
	io.Reader
	readError error
}

func (body *httpResponseBody) Read(p []byte) (n int, err error) {
	if body.readError != nil {
		return 0, body.readError
	}

	return body.Reader.Read(p)
}

func (body *httpResponseBody) Close() error {
	return nil
}

func testReqFunc(statusCode int, response []byte, callError, responseBodyError error, requestAssert func(req *http.Request)) httpRequestFunc {
	return func(req *http.Request) (*http.Response, error) {
		requestAssert(req)

		if callError != nil {
			return nil, callError
		}

		reader := bytes.NewReader(response)
		body := httpResponseBody{reader, responseBodyError}

		return &http.Response{
			StatusCode: statusCode,
			Body:       &body,
			Header: http.Header{
				"Content-Type": []string{"image/png"},
			},
		}, nil
	}
}

func noAssertions(req *http.Request) {}

func openWithChain(engine *Engine, raw string) (worker.Worker, error) {
	w, err := engine.Open(context.Background(), []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a})
	if err != nil {
		return nil, err
	}

	for _, op := range transform.MustParseChain(raw) {
		if w, err = w.Apply(op); err != nil {
			return nil, err
		}
	}

	return w, nil
}

func TestImaginaryEngine(t *testing.T) {
	g := goblin.Goblin(t)

	g.Describe("Engine", func() {
		g.Describe("Apply", func() {
			g.It("Should translate operations into imaginary pipeline", func() {
				w, err := openWithChain(NewEngine(Config{}), "resize:200,100|crop:50,50,top|crop:10,10,5,6|rotate:-90|flip:h|blur:2|format:webp|quality:70")
				g.Assert(err).IsNil()

				encoded, _ := json.Marshal(w.(imageWorker).pipeline())
				g.Assert(string(encoded)).Equal(`[` +
					`{"operation":"resize","params":{"force":true,"height":100,"width":200}},` +
					`{"operation":"crop","params":{"gravity":"north","height":50,"width":50}},` +
					`{"operation":"extract","params":{"areaheight":10,"areawidth":10,"left":5,"top":6}},` +
					`{"operation":"rotate","params":{"rotate":270}},` +
					`{"operation":"flop","params":{}},` +
					`{"operation":"blur","params":{"sigma":2}},` +
					`{"operation":"convert","params":{"quality":70,"type":"webp"}}` +
					`]`)
			})

			g.It("Should reject operations imaginary cannot run", func() {
				for _, raw := range []string{"grayscale", "sharpen", "brightness:10", "contrast:10", "format:bmp"} {
					_, err := openWithChain(NewEngine(Config{}), raw)
					g.Assert(errors.Is(err, worker.ErrUnsupportedOperation)).IsTrue(raw)
				}
			})

			g.It("Should reject rotation that is not a multiple of 90 degrees", func() {
				_, err := openWithChain(NewEngine(Config{}), "rotate:45")
				g.Assert(errors.Is(err, worker.ErrInvalidArgument)).IsTrue()
			})

			g.It("Should reject empty source", func() {
				_, err := NewEngine(Config{}).Open(context.Background(), nil)
				g.Assert(err).Equal(ErrEmptySource)
			})
		})

		g.Describe("Encode", func() {
			g.It("Should post source image to pipeline endpoint", func() {
				testData := []byte{0x1, 0x2, 0x3}
				engine := &Engine{Config{ImaginaryServiceURL: "http://localhost:9000/"}, testReqFunc(200, testData, nil, nil, func(req *http.Request) {
					g.Assert(req.Method).Equal(http.MethodPost)
					g.Assert(req.URL.Host).Equal("localhost:9000")
					g.Assert(req.URL.Path).Equal("/pipeline")
					g.Assert(req.URL.Query().Get("operations")).Equal(`[{"operation":"fit","params":{"height":20,"width":10}}]`)
					g.Assert(req.Header.Get("Content-Type")).Equal("image/png")
				})}

				w, err := openWithChain(engine, "fit:10,20")
				g.Assert(err).IsNil()

				mime, data, err := w.Encode(context.Background())
				g.Assert(err).IsNil()
				g.Assert(mime).Equal("image/png")
				g.Assert(data).Equal(testData)
			})

			g.It("Should return error on non 200 response", func() {
				engine := &Engine{Config{}, testReqFunc(400, []byte("bad params"), nil, nil, noAssertions)}
				w, _ := openWithChain(engine, "fit:10,20")

				_, _, err := w.Encode(context.Background())
				g.Assert(errors.Is(err, ErrResponseStatusNotOK)).IsTrue()
			})

			g.It("Should return request error", func() {
				testError := errors.New("connection refused")
				engine := &Engine{Config{}, testReqFunc(200, nil, testError, nil, noAssertions)}
				w, _ := openWithChain(engine, "fit:10,20")

				_, _, err := w.Encode(context.Background())
				g.Assert(err).Equal(testError)
			})

			g.It("Should return response body read error", func() {
				testError := errors.New("connection reset")
				engine := &Engine{Config{}, testReqFunc(200, []byte{0x1}, nil, testError, noAssertions)}
				w, _ := openWithChain(engine, "fit:10,20")

				_, _, err := w.Encode(context.Background())
				g.Assert(err).Equal(testError)
			})
		})
	})
}

func TestImaginaryEngine_TalksToHttpServer(t *testing.T) {
	rendered := []byte("rendered image")
	server := testutils.NewTestImageServer()
	server.HandleFunc("/pipeline", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if len(body) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "image/webp")
		w.Write(rendered)
	})
	server.Start(t)

	engine := NewEngine(Config{ImaginaryServiceURL: server.URL("")})
	w, err := openWithChain(engine, "thumbnail:10,10|format:webp")
	if err != nil {
		t.Fatal(err)
	}

	mime, data, err := w.Encode(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if mime != "image/webp" || !bytes.Equal(data, rendered) {
		t.Errorf("Unexpected response %s %q", mime, data)
	}
}
