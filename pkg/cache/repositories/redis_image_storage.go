package cacherepositories

import (
	"context"
	"errors"
	"time"

	"github.com/fxamacker/cbor/v2"
	dbconnections "github.com/thebartekbanach/imgpipe/pkg/cache/repositories/connections"
)

const redisImageKeyPrefix = "imgpipe:image:"

type redisImageRecord struct {
	MimeType string `cbor:"1,keyasint"`
	Data     []byte `cbor:"2,keyasint"`
}

type redisCachedImagesStorage struct {
	conn dbconnections.RedisConnection
}

var _ CachedImagesStorage = (*redisCachedImagesStorage)(nil)

// NewRedisCachedImagesStorage keeps rendered images in redis. Keys expire
// together with the cache entry lifetime.
func NewRedisCachedImagesStorage(conn dbconnections.RedisConnection) CachedImagesStorage {
	return &redisCachedImagesStorage{conn}
}

func (s *redisCachedImagesStorage) Save(ctx context.Context, fingerprint, mimeType string, data []byte, lifetime time.Duration) error {
	key := redisImageKeyPrefix + fingerprint

	if _, err := s.conn.Get(ctx, key); err == nil {
		return ErrImageAlreadyExists
	} else if !errors.Is(err, dbconnections.ErrKeyNotFound) {
		return err
	}

	value, err := cbor.Marshal(redisImageRecord{MimeType: mimeType, Data: data})
	if err != nil {
		return err
	}

	return s.conn.Set(ctx, key, value, lifetime)
}

func (s *redisCachedImagesStorage) Get(ctx context.Context, fingerprint string) ([]byte, error) {
	value, err := s.conn.Get(ctx, redisImageKeyPrefix+fingerprint)
	if err != nil {
		if errors.Is(err, dbconnections.ErrKeyNotFound) {
			return nil, ErrImageNotFound
		}

		return nil, err
	}

	var record redisImageRecord
	if err := cbor.Unmarshal(value, &record); err != nil {
		return nil, err
	}

	return record.Data, nil
}

func (s *redisCachedImagesStorage) Delete(ctx context.Context, fingerprint string) error {
	deleted, err := s.conn.Delete(ctx, redisImageKeyPrefix+fingerprint)
	if err != nil {
		return err
	}

	if !deleted {
		return ErrImageNotFound
	}

	return nil
}
