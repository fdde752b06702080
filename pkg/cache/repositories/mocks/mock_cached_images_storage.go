package mock_cacherepositories

import (
	context "context"
	"sync"
	"time"

	cacherepositories "github.com/thebartekbanach/imgpipe/pkg/cache/repositories"
)

// MockCachedImagesStorage is an in-memory CachedImagesStorage with error
// injection. It records how many times each method was called.
type MockCachedImagesStorage struct {
	images map[string][]byte
	lock   sync.Mutex
	err    error

	SaveCalls   int
	GetCalls    int
	DeleteCalls int
}

var _ cacherepositories.CachedImagesStorage = (*MockCachedImagesStorage)(nil)

func NewMockCachedImagesStorage() *MockCachedImagesStorage {
	return &MockCachedImagesStorage{
		images: make(map[string][]byte),
	}
}

func (s *MockCachedImagesStorage) InstantSave(fingerprint string, data []byte) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.images[fingerprint] = data
}

func (s *MockCachedImagesStorage) ReturnError(err error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.err = err
}

func (s *MockCachedImagesStorage) Save(ctx context.Context, fingerprint, mimeType string, data []byte, lifetime time.Duration) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.SaveCalls++
	if s.err != nil {
		return s.err
	}

	if _, exists := s.images[fingerprint]; exists {
		return cacherepositories.ErrImageAlreadyExists
	}

	s.images[fingerprint] = append([]byte{}, data...)
	return nil
}

func (s *MockCachedImagesStorage) Get(ctx context.Context, fingerprint string) ([]byte, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.GetCalls++
	if s.err != nil {
		return nil, s.err
	}

	if data, ok := s.images[fingerprint]; ok {
		return data, nil
	}

	return nil, cacherepositories.ErrImageNotFound
}

func (s *MockCachedImagesStorage) Delete(ctx context.Context, fingerprint string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.DeleteCalls++
	if s.err != nil {
		return s.err
	}

	if _, ok := s.images[fingerprint]; ok {
		delete(s.images, fingerprint)
		return nil
	}

	return cacherepositories.ErrImageNotFound
}

func (s *MockCachedImagesStorage) Exists(fingerprint string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	_, ok := s.images[fingerprint]
	return ok
}
