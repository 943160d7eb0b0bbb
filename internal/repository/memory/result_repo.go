package memory

import (
	"context"
	"sync"

	"advanced-form/internal/domain"
	"advanced-form/internal/form"
)

type resultKey struct {
	session string
	version form.Version
}

type ResultRepository struct {
	mu      sync.RWMutex
	results map[resultKey]string
}

func NewResultRepository() *ResultRepository {
	return &ResultRepository{results: make(map[resultKey]string)}
}

func (r *ResultRepository) Save(_ context.Context, sessionID string, version form.Version, result string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[resultKey{sessionID, version}] = result
	return nil
}

func (r *ResultRepository) Get(_ context.Context, sessionID string, version form.Version) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result, ok := r.results[resultKey{sessionID, version}]
	if !ok {
		return "", domain.ErrResultNotFound
	}
	return result, nil
}
