package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/openfoods/openfoods/internal/domain"
)

// MemoryStore is a thread-safe in-memory food repository
type MemoryStore struct {
	data  map[int]domain.Food
	mutex sync.RWMutex
	now   func() time.Time
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[int]domain.Food),
		now:  time.Now,
	}
}

// List returns every food ordered by id
func (s *MemoryStore) List(ctx context.Context) ([]domain.Food, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	foods := make([]domain.Food, 0, len(s.data))
	for _, f := range s.data {
		foods = append(foods, f)
	}
	sort.Slice(foods, func(i, j int) bool { return foods[i].ID < foods[j].ID })
	return foods, nil
}

// Get retrieves a food by id
func (s *MemoryStore) Get(ctx context.Context, id int) (domain.Food, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	f, ok := s.data[id]
	if !ok {
		return domain.Food{}, domain.ErrFoodNotFound
	}
	return f, nil
}

// Put stores a food, replacing any existing one with the same id
func (s *MemoryStore) Put(ctx context.Context, food domain.Food) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[food.ID] = food
	return nil
}

// SetLiked updates the like state of a food
func (s *MemoryStore) SetLiked(ctx context.Context, id int, liked bool) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	f, ok := s.data[id]
	if !ok {
		return false, domain.ErrFoodNotFound
	}
	if f.IsLiked == liked {
		return false, nil
	}

	s.data[id] = f.WithLiked(liked, s.now().UTC())
	return true, nil
}

// Size returns the current number of foods (for debugging/monitoring)
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

// Close is a no-op for the memory store
func (s *MemoryStore) Close() error { return nil }
