package dbconnections

import (
	"context"
	"os"
	"testing"
)

// NewRedisTestingConnection connects to IMGPIPE_TEST_REDIS_ADDR and skips the
// test when it is not set. Database 15 is used and flushed on cleanup.
func NewRedisTestingConnection(t *testing.T) *RedisProductionConnection {
	address := os.Getenv("IMGPIPE_TEST_REDIS_ADDR")
	if address == "" {
		t.Skip("IMGPIPE_TEST_REDIS_ADDR not set, skipping redis integration test")
	}

	conn, err := NewRedisProductionConnection(context.Background(), RedisConfig{
		Address: address,
		DB:      15,
	})
	if err != nil {
		t.Fatalf("cannot connect to redis: %v", err)
	}

	t.Cleanup(func() {
		conn.client.FlushDB(context.Background())
		conn.Close()
	})

	return conn
}
