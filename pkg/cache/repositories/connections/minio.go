package dbconnections

import (
	"bytes"
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Location  string
	UseSSL    bool
}

type MinioProductionConnection struct {
	bucket string
	client *minio.Client
}

var _ MinioConnection = (*MinioProductionConnection)(nil)

// NewMinioProductionConnection connects to the server and creates the bucket
// when it does not exist yet.
func NewMinioProductionConnection(ctx context.Context, config MinioConfig) (*MinioProductionConnection, error) {
	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
		Region: config.Location,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, config.Bucket)
	if err != nil {
		return nil, err
	}

	if !exists {
		if err := client.MakeBucket(ctx, config.Bucket, minio.MakeBucketOptions{Region: config.Location}); err != nil {
			return nil, err
		}
	}

	return &MinioProductionConnection{config.Bucket, client}, nil
}

// Get returns ErrKeyNotFound when there is no object under name.
func (c *MinioProductionConnection) Get(ctx context.Context, name string) ([]byte, error) {
	object, err := c.client.GetObject(ctx, c.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, c.convertToKnownError(err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, c.convertToKnownError(err)
	}

	return data, nil
}

func (c *MinioProductionConnection) Put(ctx context.Context, name, mimeType string, data []byte, metadata map[string]string) error {
	_, err := c.client.PutObject(ctx, c.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  mimeType,
		UserMetadata: metadata,
	})

	return err
}

func (c *MinioProductionConnection) Exists(ctx context.Context, name string) (bool, error) {
	_, err := c.client.StatObject(ctx, c.bucket, name, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}

	if c.convertToKnownError(err) == ErrKeyNotFound {
		return false, nil
	}

	return false, err
}

func (c *MinioProductionConnection) Delete(ctx context.Context, name string) error {
	return c.client.RemoveObject(ctx, c.bucket, name, minio.RemoveObjectOptions{})
}

func (c *MinioProductionConnection) convertToKnownError(err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return ErrKeyNotFound
	}

	return err
}
