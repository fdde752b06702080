package dbconnections

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

type MinioTestingConnection struct {
	*MinioProductionConnection
}

// NewMinioTestingConnection creates a fresh bucket on the server
// given by IMGPIPE_TEST_MINIO_ENDPOINT and skips the test when it is not set.
func NewMinioTestingConnection(t *testing.T) *MinioTestingConnection {
	endpoint := os.Getenv("IMGPIPE_TEST_MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("IMGPIPE_TEST_MINIO_ENDPOINT not set, skipping minio integration test")
	}

	conn, err := NewMinioProductionConnection(context.Background(), MinioConfig{
		Endpoint:  endpoint,
		AccessKey: getEnvOrDefault("IMGPIPE_TEST_MINIO_ACCESS_KEY", "minio"),
		SecretKey: getEnvOrDefault("IMGPIPE_TEST_MINIO_SECRET_KEY", "minio123"),
		Bucket:    uuid.New().String() + "-testing-bucket",
		Location:  "us-east-1",
		UseSSL:    false,
	})
	if err != nil {
		t.Fatalf("error when connecting to minio block storage: %v", err)
	}

	testingConn := &MinioTestingConnection{conn}
	t.Cleanup(testingConn.dropTestBucket)

	return testingConn
}

func (c *MinioTestingConnection) dropTestBucket() {
	c.client.RemoveBucketWithOptions(context.Background(), c.bucket, minio.RemoveBucketOptions{
		ForceDelete: true,
	})
}

func getEnvOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}

	return fallback
}
