package imgrequest

import (
	"bytes"

	"github.com/thebartekbanach/imgpipe/pkg/cache"
)

// CacheResultServer plays back a previously rendered image. It has nothing
// to create.
type CacheResultServer struct {
	artifact cache.CachedArtifact
}

func NewCacheResultServer(artifact cache.CachedArtifact) *CacheResultServer {
	return &CacheResultServer{artifact}
}

func (s *CacheResultServer) IsFromCache() bool {
	return true
}

func (s *CacheResultServer) Serve(w ResponseWriter) error {
	return w.WriteOK(s.artifact.MimeType, s.artifact.CreatedAt, bytes.NewReader(s.artifact.Data))
}

func (s *CacheResultServer) ImageData() ([]byte, error) {
	return s.artifact.Data, nil
}

func (s *CacheResultServer) Artifact() cache.CachedArtifact {
	return s.artifact
}
