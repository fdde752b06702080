package cacherepositories

import (
	"context"
	"errors"
	"log"
	"time"

	dbconnections "github.com/thebartekbanach/imgpipe/pkg/cache/repositories/connections"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const cachedImagesCollection = "cachedImages"

type cachedImagesRepository struct {
	conn dbconnections.CacheDBConnection
	now  func() time.Time
}

var _ CachedImagesRepository = (*cachedImagesRepository)(nil)

// NewCachedImagesRepository returns a MongoDB backed metadata repository.
// Indexes are created on first use; expired rows are removed by the
// MongoDB TTL monitor.
func NewCachedImagesRepository(conn dbconnections.CacheDBConnection) CachedImagesRepository {
	repo := &cachedImagesRepository{conn, time.Now}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := repo.ensureIndexes(ctx); err != nil {
		log.Printf("cannot create %s indexes: %v", cachedImagesCollection, err)
	}

	return repo
}

func (repo *cachedImagesRepository) ensureIndexes(ctx context.Context) error {
	_, err := repo.conn.Collection(cachedImagesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "fingerprint", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "imagePath", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	})

	return err
}

func (repo *cachedImagesRepository) CreateCachedImageInfo(ctx context.Context, info CachedImageModel) error {
	collection := repo.conn.Collection(cachedImagesCollection)

	var existing CachedImageModel
	err := collection.FindOne(ctx, bson.M{"fingerprint": info.Fingerprint}).Decode(&existing)
	switch {
	case err == nil && !existing.Expired(repo.now()):
		return ErrCachedImageAlreadyExists
	case err == nil:
		// the TTL monitor did not catch up yet
		if _, err := collection.DeleteOne(ctx, bson.M{"fingerprint": info.Fingerprint}); err != nil {
			return err
		}
	case err != mongo.ErrNoDocuments:
		return err
	}

	if _, err := collection.InsertOne(ctx, info); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrCachedImageAlreadyExists
		}

		return err
	}

	return nil
}

func (repo *cachedImagesRepository) DeleteCachedImageInfo(ctx context.Context, fingerprint string) error {
	collection := repo.conn.Collection(cachedImagesCollection)

	result, err := collection.DeleteOne(ctx, bson.M{"fingerprint": fingerprint})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return ErrCachedImageNotFound
	}

	return nil
}

func (repo *cachedImagesRepository) GetCachedImageInfo(ctx context.Context, fingerprint string) (CachedImageModel, error) {
	collection := repo.conn.Collection(cachedImagesCollection)

	var info CachedImageModel
	if err := collection.FindOne(ctx, bson.M{"fingerprint": fingerprint}).Decode(&info); err != nil {
		if err == mongo.ErrNoDocuments {
			return CachedImageModel{}, ErrCachedImageNotFound
		}

		return CachedImageModel{}, err
	}

	if info.Expired(repo.now()) {
		return CachedImageModel{}, ErrCachedImageNotFound
	}

	return info, nil
}

func (repo *cachedImagesRepository) GetCachedImageInfosOfSource(ctx context.Context, imagePath string) ([]CachedImageModel, error) {
	collection := repo.conn.Collection(cachedImagesCollection)

	cursor, err := collection.Find(ctx, bson.M{"imagePath": imagePath})
	if err != nil {
		return nil, err
	}

	infos := []CachedImageModel{}
	if err := cursor.All(ctx, &infos); err != nil {
		return nil, err
	}

	return infos, nil
}

var (
	ErrCachedImageNotFound      = errors.New("cached image not found")
	ErrCachedImageAlreadyExists = errors.New("cached image already exists")
)
