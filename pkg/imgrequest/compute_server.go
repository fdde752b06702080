package imgrequest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/thebartekbanach/imgpipe/pkg/cache"
	"github.com/thebartekbanach/imgpipe/pkg/transform"
	"github.com/thebartekbanach/imgpipe/pkg/worker"
)

type ComputeState int

const (
	ComputePending ComputeState = iota
	ComputeCreated
	ComputeServed
)

func (s ComputeState) String() string {
	switch s {
	case ComputePending:
		return "pending"
	case ComputeCreated:
		return "created"
	case ComputeServed:
		return "served"
	}

	return fmt.Sprintf("ComputeState(%d)", int(s))
}

// ComputeJob describes an image which is not in the cache yet.
type ComputeJob struct {
	Worker      worker.Worker
	Operations  transform.Chain
	Lifetime    time.Duration
	Fingerprint string
	ImagePath   string
	EngineName  string
}

type CacheWriter interface {
	PutToCache(ctx context.Context, artifact cache.CachedArtifact, lifetime time.Duration) error
}

type ComputeServer struct {
	job   ComputeJob
	cache CacheWriter
	now   func() time.Time

	lock     sync.Mutex
	state    ComputeState
	artifact cache.CachedArtifact
}

func NewComputeServer(job ComputeJob, cacheWriter CacheWriter) *ComputeServer {
	return &ComputeServer{
		job:   job,
		cache: cacheWriter,
		now:   time.Now,
	}
}

func (s *ComputeServer) IsFromCache() bool {
	return false
}

func (s *ComputeServer) State() ComputeState {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.state
}

// Create applies the operations in order, encodes the result and stores it
// in the cache. The image is cached only when every step succeeded.
func (s *ComputeServer) Create(ctx context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.state != ComputePending {
		return ErrAlreadyCreated
	}

	current := s.job.Worker
	for _, op := range s.job.Operations {
		next, err := current.Apply(op)
		if err != nil {
			return &TransformError{Operation: op.String(), Err: err}
		}

		current = next
	}

	mimeType, data, err := current.Encode(ctx)
	if err != nil {
		if errors.Is(err, worker.ErrUnsupportedOperation) || errors.Is(err, worker.ErrInvalidArgument) {
			return &TransformError{Operation: s.job.Operations.String(), Err: err}
		}

		return fmt.Errorf("cannot render %s: %w", s.job.ImagePath, err)
	}

	artifact := cache.CachedArtifact{
		Fingerprint: s.job.Fingerprint,
		ImagePath:   s.job.ImagePath,
		Operations:  s.job.Operations.String(),
		EngineName:  s.job.EngineName,
		MimeType:    mimeType,
		Data:        data,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.cache.PutToCache(ctx, artifact, s.job.Lifetime); err != nil {
		return fmt.Errorf("cannot cache %s: %w", s.job.Fingerprint, err)
	}

	s.artifact = artifact
	s.state = ComputeCreated
	return nil
}

func (s *ComputeServer) Serve(w ResponseWriter) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.state == ComputePending {
		return ErrNotCreated
	}

	if err := w.WriteOK(s.artifact.MimeType, s.artifact.CreatedAt, bytes.NewReader(s.artifact.Data)); err != nil {
		return err
	}

	s.state = ComputeServed
	return nil
}

func (s *ComputeServer) ImageData() ([]byte, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.state == ComputePending {
		return nil, ErrNotCreated
	}

	return s.artifact.Data, nil
}
