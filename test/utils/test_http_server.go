package testutils

import (
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phayes/freeport"
)

// TestImageServer is an http server on a free local port used as a remote
// image source or as an external processing service in tests.
type TestImageServer struct {
	*http.ServeMux
	addr     string
	requests int64
}

func NewTestImageServer() *TestImageServer {
	return &TestImageServer{ServeMux: http.NewServeMux()}
}

// ServeImage responds on pattern with data of the given mime type.
func (s *TestImageServer) ServeImage(pattern, mimeType string, data []byte) {
	s.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", mimeType)
		w.Write(data)
	})
}

func (s *TestImageServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt64(&s.requests, 1)
	s.ServeMux.ServeHTTP(w, r)
}

// Requests returns the number of requests received so far.
func (s *TestImageServer) Requests() int {
	return int(atomic.LoadInt64(&s.requests))
}

// URL returns the absolute url of path on the started server.
func (s *TestImageServer) URL(path string) string {
	return "http://" + s.addr + path
}

// Start runs the server until the test ends and returns its port.
func (s *TestImageServer) Start(t *testing.T) int {
	port, err := freeport.GetFreePort()
	if err != nil {
		t.Fatalf("cannot start test image server: %v", err)
	}

	s.addr = fmt.Sprintf("localhost:%d", port)
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	t.Cleanup(func() { srv.Close() })

	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			t.Errorf("test image server stopped: %v", err)
		}
	}()

	awaitListening(t, s.addr)
	return port
}

func awaitListening(t *testing.T, addr string) {
	for attempt := 0; attempt < 20; attempt++ {
		conn, err := net.DialTimeout("tcp", addr, time.Second)
		if err == nil {
			conn.Close()
			return
		}

		time.Sleep(25 * time.Millisecond)
	}

	t.Fatalf("test image server on %s not listening", addr)
}
