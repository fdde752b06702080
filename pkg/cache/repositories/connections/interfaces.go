package dbconnections

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

type CacheDBConnection interface {
	Collection(collectionName string) *mongo.Collection
}

type MinioConnection interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name, mimeType string, data []byte, metadata map[string]string) error
	Exists(ctx context.Context, name string) (bool, error)
	Delete(ctx context.Context, name string) error
}

type RedisConnection interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	Delete(ctx context.Context, key string) (deleted bool, err error)
	Close() error
}
