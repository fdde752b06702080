package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	cacherepositories "github.com/thebartekbanach/imgpipe/pkg/cache/repositories"
)

type cacheService struct {
	imagesRepository cacherepositories.CachedImagesRepository
	imagesStorage    cacherepositories.CachedImagesStorage
	now              func() time.Time
}

var _ CacheService = (*cacheService)(nil)

func NewCacheService(
	imagesRepository cacherepositories.CachedImagesRepository,
	imagesStorage cacherepositories.CachedImagesStorage,
) CacheService {
	return &cacheService{
		imagesRepository,
		imagesStorage,
		time.Now,
	}
}

func (s *cacheService) Get(ctx context.Context, fingerprint string) (CachedArtifact, error) {
	info, err := s.imagesRepository.GetCachedImageInfo(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, cacherepositories.ErrCachedImageNotFound) {
			return CachedArtifact{}, ErrEntryNotFound
		}

		return CachedArtifact{}, fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}

	if info.Expired(s.now()) {
		return CachedArtifact{}, ErrEntryNotFound
	}

	data, err := s.imagesStorage.Get(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, cacherepositories.ErrImageNotFound) {
			// blob was evicted, drop the metadata so the entry can be saved again
			if deleteErr := s.imagesRepository.DeleteCachedImageInfo(ctx, fingerprint); deleteErr != nil && !errors.Is(deleteErr, cacherepositories.ErrCachedImageNotFound) {
				log.Printf("cache: cannot drop metadata of evicted %s: %v", fingerprint, deleteErr)
			}
			return CachedArtifact{}, ErrEntryNotFound
		}

		return CachedArtifact{}, fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}

	return CachedArtifact{
		Fingerprint: info.Fingerprint,
		ImagePath:   info.ImagePath,
		Operations:  info.Operations,
		EngineName:  info.EngineName,
		MimeType:    info.MimeType,
		Data:        data,
		CreatedAt:   info.CreatedAt,
		ExpiresAt:   info.ExpiresAt,
	}, nil
}

func (s *cacheService) Save(ctx context.Context, artifact CachedArtifact, lifetime time.Duration) error {
	if artifact.Fingerprint == "" {
		return ErrFingerprintRequired
	}

	createdAt := artifact.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	var expiresAt time.Time
	if lifetime > 0 {
		expiresAt = createdAt.Add(lifetime)
	}

	imageInfo := cacherepositories.CachedImageModel{
		Fingerprint: artifact.Fingerprint,
		ImagePath:   artifact.ImagePath,
		Operations:  artifact.Operations,
		EngineName:  artifact.EngineName,
		MimeType:    artifact.MimeType,
		ImageSize:   int64(len(artifact.Data)),
		CreatedAt:   createdAt,
		ExpiresAt:   expiresAt,
	}

	if err := s.imagesRepository.CreateCachedImageInfo(ctx, imageInfo); err != nil {
		if errors.Is(err, cacherepositories.ErrCachedImageAlreadyExists) {
			return ErrEntryAlreadyExists
		}

		return fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}

	err := s.imagesStorage.Save(ctx, artifact.Fingerprint, artifact.MimeType, artifact.Data, lifetime)
	if errors.Is(err, cacherepositories.ErrImageAlreadyExists) {
		// leftover of an expired entry
		if err = s.imagesStorage.Delete(ctx, artifact.Fingerprint); err == nil {
			err = s.imagesStorage.Save(ctx, artifact.Fingerprint, artifact.MimeType, artifact.Data, lifetime)
		}
	}

	if err != nil {
		if rollbackErr := s.imagesRepository.DeleteCachedImageInfo(ctx, artifact.Fingerprint); rollbackErr != nil {
			log.Printf("cache: cannot roll back metadata of %s: %v", artifact.Fingerprint, rollbackErr)
		}

		if errors.Is(err, cacherepositories.ErrImageRejected) {
			return ErrEntryRejected
		}

		return fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}

	return nil
}

func (s *cacheService) InvalidateAllEntriesForImage(ctx context.Context, imagePath string) (removedEntries []cacherepositories.CachedImageModel, err error) {
	entries, err := s.imagesRepository.GetCachedImageInfosOfSource(ctx, imagePath)
	if err != nil {
		return
	}

	for _, entry := range entries {
		err = s.imagesRepository.DeleteCachedImageInfo(ctx, entry.Fingerprint)
		if err != nil && !errors.Is(err, cacherepositories.ErrCachedImageNotFound) {
			return
		}

		err = s.imagesStorage.Delete(ctx, entry.Fingerprint)
		if err != nil && !errors.Is(err, cacherepositories.ErrImageNotFound) {
			return
		}

		err = nil
		removedEntries = append(removedEntries, entry)
	}

	return
}

var (
	ErrEntryNotFound       = errors.New("entry not found")
	ErrEntryAlreadyExists  = errors.New("entry already exists")
	ErrEntryRejected       = errors.New("entry rejected by storage")
	ErrCacheUnavailable    = errors.New("cache unavailable")
	ErrFingerprintRequired = errors.New("fingerprint is required")
)
