package cache

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	cacherepositories "github.com/thebartekbanach/imgpipe/pkg/cache/repositories"
)

type InvalidationServiceImplementation struct {
	invalidationsRepository cacherepositories.InvalidationsRepository
	cacheService            CacheService
}

var _ InvalidationService = (*InvalidationServiceImplementation)(nil)

func NewInvalidationService(invalidationsRepository cacherepositories.InvalidationsRepository, cacheService CacheService) InvalidationService {
	return &InvalidationServiceImplementation{invalidationsRepository, cacheService}
}

func (s *InvalidationServiceImplementation) LatestInvalidations(ctx context.Context, limit int) ([]cacherepositories.InvalidationModel, error) {
	return s.invalidationsRepository.GetLatestInvalidations(ctx, limit)
}

// Invalidate removes every cached rendition of the given images and records
// the outcome. Processing stops on the first failing path, the record is
// stored either way.
func (s *InvalidationServiceImplementation) Invalidate(ctx context.Context, imagePaths []string) (cacherepositories.InvalidationModel, error) {
	if len(imagePaths) == 0 {
		return cacherepositories.InvalidationModel{}, ErrNoPathsGiven
	}

	invalidationInfo := cacherepositories.InvalidationModel{
		ID:                uuid.New().String(),
		RequestedPaths:    imagePaths,
		DonePaths:         []string{},
		InvalidatedImages: []cacherepositories.CachedImageModel{},
	}

	var invalidationError error

	for _, path := range imagePaths {
		invalidatedEntries, err := s.cacheService.InvalidateAllEntriesForImage(ctx, path)
		invalidationInfo.InvalidatedImages = append(invalidationInfo.InvalidatedImages, invalidatedEntries...)

		if err != nil {
			invalidationError = err
			errText := err.Error()
			invalidationInfo.InvalidationError = &errText
			break
		}

		invalidationInfo.DonePaths = append(invalidationInfo.DonePaths, path)
	}

	log.Printf("invalidation %s: %d of %d paths done, %d images removed",
		invalidationInfo.ID, len(invalidationInfo.DonePaths), len(imagePaths), len(invalidationInfo.InvalidatedImages))

	invalidationInfo.InvalidationDate = time.Now()
	if err := s.invalidationsRepository.CreateInvalidation(ctx, invalidationInfo); err != nil {
		return invalidationInfo, err
	}

	return invalidationInfo, invalidationError
}

var ErrNoPathsGiven = errors.New("no image paths given")
