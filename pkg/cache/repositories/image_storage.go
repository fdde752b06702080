package cacherepositories

import (
	"context"
	"errors"
	"net/url"
	"time"

	dbconnections "github.com/thebartekbanach/imgpipe/pkg/cache/repositories/connections"
)

type cachedImagesStorage struct {
	conn dbconnections.MinioConnection
}

var _ CachedImagesStorage = (*cachedImagesStorage)(nil)

// NewCachedImagesStorage stores rendered images as objects in a MinIO bucket.
// Object lifetime is governed by the metadata repository, lifetime passed to
// Save is ignored.
func NewCachedImagesStorage(conn dbconnections.MinioConnection) CachedImagesStorage {
	return &cachedImagesStorage{conn}
}

func (s *cachedImagesStorage) Save(ctx context.Context, fingerprint, mimeType string, data []byte, lifetime time.Duration) error {
	objectName := s.objectName(fingerprint)
	exists, err := s.conn.Exists(ctx, objectName)
	if err != nil {
		return err
	}
	if exists {
		return ErrImageAlreadyExists
	}

	return s.conn.Put(ctx, objectName, mimeType, data, map[string]string{"fingerprint": fingerprint})
}

func (s *cachedImagesStorage) Get(ctx context.Context, fingerprint string) ([]byte, error) {
	data, err := s.conn.Get(ctx, s.objectName(fingerprint))
	if errors.Is(err, dbconnections.ErrKeyNotFound) {
		return nil, ErrImageNotFound
	}

	return data, err
}

func (s *cachedImagesStorage) Delete(ctx context.Context, fingerprint string) error {
	objectName := s.objectName(fingerprint)
	exists, err := s.conn.Exists(ctx, objectName)
	if err != nil {
		return err
	}
	if !exists {
		return ErrImageNotFound
	}

	return s.conn.Delete(ctx, objectName)
}

func (s *cachedImagesStorage) objectName(fingerprint string) string {
	return "images/" + url.PathEscape(fingerprint)
}

var (
	ErrImageNotFound      = errors.New("image not found")
	ErrImageAlreadyExists = errors.New("image already exists")
	ErrImageRejected      = errors.New("image rejected by storage")
)
