package dbconnections

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

type RedisConfig struct {
	Address      string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

type RedisProductionConnection struct {
	client *redis.Client
}

var _ RedisConnection = (*RedisProductionConnection)(nil)

func NewRedisProductionConnection(ctx context.Context, config RedisConfig) (*RedisProductionConnection, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Address,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisProductionConnection{client}, nil
}

// Get returns ErrKeyNotFound when the key does not exist.
func (c *RedisProductionConnection) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}

	return data, err
}

func (c *RedisProductionConnection) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	return c.client.Set(ctx, key, value, expiration).Err()
}

func (c *RedisProductionConnection) Delete(ctx context.Context, key string) (bool, error) {
	deleted, err := c.client.Del(ctx, key).Result()
	return deleted > 0, err
}

func (c *RedisProductionConnection) Close() error {
	return c.client.Close()
}

var ErrKeyNotFound = errors.New("key not found")
