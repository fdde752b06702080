package cacherepositories

import (
	"context"
	"errors"

	dbconnections "github.com/thebartekbanach/imgpipe/pkg/cache/repositories/connections"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type invalidationRepository struct {
	conn dbconnections.CacheDBConnection
}

var _ InvalidationsRepository = (*invalidationRepository)(nil)

func NewInvalidationsRepository(conn dbconnections.CacheDBConnection) InvalidationsRepository {
	return &invalidationRepository{conn}
}

func (r *invalidationRepository) CreateInvalidation(ctx context.Context, invalidation InvalidationModel) error {
	if invalidation.ID == "" {
		return ErrInvalidationIDNotAllowed
	}

	coll := r.conn.Collection("invalidations")
	_, err := coll.InsertOne(ctx, invalidation)
	return err
}

func (r *invalidationRepository) GetLatestInvalidations(ctx context.Context, limit int) ([]InvalidationModel, error) {
	if limit <= 0 {
		return nil, ErrLimitNotAllowed
	}

	coll := r.conn.Collection("invalidations")
	opts := options.Find().
		SetSort(bson.D{{Key: "invalidationDate", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}

	invalidations := []InvalidationModel{}
	if err := cursor.All(ctx, &invalidations); err != nil {
		return nil, err
	}

	return invalidations, nil
}

var (
	ErrInvalidationIDNotAllowed = errors.New("this invalidation id is not allowed")
	ErrLimitNotAllowed          = errors.New("limit must be greater than zero")
)
