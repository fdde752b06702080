package cacherepositories

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
)

type MemoryStorageConfig struct {
	MaxCostBytes int64
	NumCounters  int64
	BufferItems  int64
}

type memoryCachedImagesStorage struct {
	client *ristretto.Cache
}

var _ CachedImagesStorage = (*memoryCachedImagesStorage)(nil)

// NewMemoryCachedImagesStorage keeps rendered images in a cost bounded
// in-process cache. The cost of an entry is its size in bytes, entries may be
// evicted before their lifetime ends.
func NewMemoryCachedImagesStorage(config MemoryStorageConfig) (CachedImagesStorage, error) {
	if config.NumCounters == 0 {
		config.NumCounters = 1e5
	}
	if config.BufferItems == 0 {
		config.BufferItems = 64
	}

	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: config.NumCounters,
		MaxCost:     config.MaxCostBytes,
		BufferItems: config.BufferItems,
	})
	if err != nil {
		return nil, err
	}

	return &memoryCachedImagesStorage{client}, nil
}

func (s *memoryCachedImagesStorage) Save(ctx context.Context, fingerprint, mimeType string, data []byte, lifetime time.Duration) error {
	if _, found := s.client.Get(fingerprint); found {
		return ErrImageAlreadyExists
	}

	if !s.client.SetWithTTL(fingerprint, data, int64(len(data)), lifetime) {
		return ErrImageRejected
	}

	s.client.Wait()
	return nil
}

func (s *memoryCachedImagesStorage) Get(ctx context.Context, fingerprint string) ([]byte, error) {
	value, found := s.client.Get(fingerprint)
	if !found {
		return nil, ErrImageNotFound
	}

	data, ok := value.([]byte)
	if !ok {
		return nil, ErrImageNotFound
	}

	return data, nil
}

func (s *memoryCachedImagesStorage) Delete(ctx context.Context, fingerprint string) error {
	if _, found := s.client.Get(fingerprint); !found {
		return ErrImageNotFound
	}

	s.client.Del(fingerprint)
	return nil
}
