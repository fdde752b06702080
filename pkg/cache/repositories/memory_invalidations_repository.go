package cacherepositories

import (
	"context"
	"sort"
	"sync"
)

type memoryInvalidationsRepository struct {
	lock          sync.Mutex
	invalidations []InvalidationModel
}

var _ InvalidationsRepository = (*memoryInvalidationsRepository)(nil)

func NewMemoryInvalidationsRepository() InvalidationsRepository {
	return &memoryInvalidationsRepository{}
}

func (r *memoryInvalidationsRepository) CreateInvalidation(ctx context.Context, invalidation InvalidationModel) error {
	if invalidation.ID == "" {
		return ErrInvalidationIDNotAllowed
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	r.invalidations = append(r.invalidations, invalidation)
	return nil
}

func (r *memoryInvalidationsRepository) GetLatestInvalidations(ctx context.Context, limit int) ([]InvalidationModel, error) {
	if limit <= 0 {
		return nil, ErrLimitNotAllowed
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	latest := append([]InvalidationModel{}, r.invalidations...)
	sort.SliceStable(latest, func(i, j int) bool {
		return latest[i].InvalidationDate.After(latest[j].InvalidationDate)
	})

	if len(latest) > limit {
		latest = latest[:limit]
	}

	return latest, nil
}
