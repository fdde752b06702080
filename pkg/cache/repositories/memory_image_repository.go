package cacherepositories

import (
	"context"
	"sort"
	"sync"
	"time"
)

// expired entries are swept at most once per sweepInterval when new entries
// are created
const sweepInterval = time.Minute

type memoryCachedImagesRepository struct {
	lock      sync.RWMutex
	infos     map[string]CachedImageModel
	now       func() time.Time
	lastSweep time.Time
}

var _ CachedImagesRepository = (*memoryCachedImagesRepository)(nil)

// NewMemoryCachedImagesRepository keeps metadata in process memory. It is
// paired with the redis and ristretto blob storages.
func NewMemoryCachedImagesRepository() CachedImagesRepository {
	return newMemoryCachedImagesRepository(time.Now)
}

func newMemoryCachedImagesRepository(now func() time.Time) *memoryCachedImagesRepository {
	return &memoryCachedImagesRepository{
		infos:     make(map[string]CachedImageModel),
		now:       now,
		lastSweep: now(),
	}
}

func (repo *memoryCachedImagesRepository) CreateCachedImageInfo(ctx context.Context, info CachedImageModel) error {
	repo.lock.Lock()
	defer repo.lock.Unlock()

	now := repo.now()
	if existing, ok := repo.infos[info.Fingerprint]; ok && !existing.Expired(now) {
		return ErrCachedImageAlreadyExists
	}

	if now.Sub(repo.lastSweep) >= sweepInterval {
		repo.removeExpired(now)
	}

	repo.infos[info.Fingerprint] = info
	return nil
}

func (repo *memoryCachedImagesRepository) removeExpired(now time.Time) {
	for fingerprint, info := range repo.infos {
		if info.Expired(now) {
			delete(repo.infos, fingerprint)
		}
	}

	repo.lastSweep = now
}

func (repo *memoryCachedImagesRepository) DeleteCachedImageInfo(ctx context.Context, fingerprint string) error {
	repo.lock.Lock()
	defer repo.lock.Unlock()

	if _, ok := repo.infos[fingerprint]; !ok {
		return ErrCachedImageNotFound
	}

	delete(repo.infos, fingerprint)
	return nil
}

func (repo *memoryCachedImagesRepository) GetCachedImageInfo(ctx context.Context, fingerprint string) (CachedImageModel, error) {
	repo.lock.Lock()
	defer repo.lock.Unlock()

	info, ok := repo.infos[fingerprint]
	if !ok {
		return CachedImageModel{}, ErrCachedImageNotFound
	}

	if info.Expired(repo.now()) {
		delete(repo.infos, fingerprint)
		return CachedImageModel{}, ErrCachedImageNotFound
	}

	return info, nil
}

func (repo *memoryCachedImagesRepository) GetCachedImageInfosOfSource(ctx context.Context, imagePath string) ([]CachedImageModel, error) {
	repo.lock.RLock()
	defer repo.lock.RUnlock()

	infos := []CachedImageModel{}
	for _, info := range repo.infos {
		if info.ImagePath == imagePath {
			infos = append(infos, info)
		}
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Fingerprint < infos[j].Fingerprint })
	return infos, nil
}
