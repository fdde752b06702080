package cacherepositories

import (
	"bytes"
	"context"
	"testing"
	"time"

	dbconnections "github.com/thebartekbanach/imgpipe/pkg/cache/repositories/connections"
)

type cachedImagesStorageFactory func(t *testing.T) CachedImagesStorage

func runCachedImagesStorageContract(t *testing.T, newStorage cachedImagesStorageFactory) {
	testData := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

	t.Run("saves and reads image", func(t *testing.T) {
		ctx := context.Background()
		storage := newStorage(t)

		if err := storage.Save(ctx, "fp-1", "image/jpeg", testData, time.Hour); err != nil {
			t.Fatalf("Error ocurred while saving image: %s", err)
		}

		data, err := storage.Get(ctx, "fp-1")
		if err != nil {
			t.Fatalf("Error ocurred while getting image: %s", err)
		}

		if !bytes.Equal(data, testData) {
			t.Errorf("Read data is not equal to original data")
		}
	})

	t.Run("rejects image that already exists", func(t *testing.T) {
		ctx := context.Background()
		storage := newStorage(t)

		if err := storage.Save(ctx, "fp-1", "image/jpeg", testData, time.Hour); err != nil {
			t.Fatalf("Error ocurred while saving image: %s", err)
		}

		if err := storage.Save(ctx, "fp-1", "image/jpeg", testData, time.Hour); err != ErrImageAlreadyExists {
			t.Errorf("Expected ErrImageAlreadyExists, got: %v", err)
		}
	})

	t.Run("returns ErrImageNotFound for unknown image", func(t *testing.T) {
		storage := newStorage(t)

		if _, err := storage.Get(context.Background(), "unknown"); err != ErrImageNotFound {
			t.Errorf("Expected ErrImageNotFound, got: %v", err)
		}

		if err := storage.Delete(context.Background(), "unknown"); err != ErrImageNotFound {
			t.Errorf("Expected ErrImageNotFound on delete, got: %v", err)
		}
	})

	t.Run("deletes image", func(t *testing.T) {
		ctx := context.Background()
		storage := newStorage(t)
		storage.Save(ctx, "fp-1", "image/jpeg", testData, time.Hour)

		if err := storage.Delete(ctx, "fp-1"); err != nil {
			t.Fatalf("Error ocurred while deleting image: %s", err)
		}

		if _, err := storage.Get(ctx, "fp-1"); err != ErrImageNotFound {
			t.Errorf("Image was not deleted, got: %v", err)
		}
	})
}

func TestMemoryCachedImagesStorage(t *testing.T) {
	runCachedImagesStorageContract(t, func(t *testing.T) CachedImagesStorage {
		storage, err := NewMemoryCachedImagesStorage(MemoryStorageConfig{MaxCostBytes: 1 << 20})
		if err != nil {
			t.Fatalf("cannot create memory storage: %s", err)
		}

		return storage
	})
}

func TestCachedImagesStorageIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping cachedImagesStorage integration tests")
	}

	runCachedImagesStorageContract(t, func(t *testing.T) CachedImagesStorage {
		return NewCachedImagesStorage(dbconnections.NewMinioTestingConnection(t))
	})
}

func TestRedisCachedImagesStorageIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis cachedImagesStorage integration tests")
	}

	runCachedImagesStorageContract(t, func(t *testing.T) CachedImagesStorage {
		return NewRedisCachedImagesStorage(dbconnections.NewRedisTestingConnection(t))
	})
}
