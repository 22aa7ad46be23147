package usecase

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/openfoods/openfoods/internal/domain"
	"github.com/openfoods/openfoods/internal/logger"
)

// FoodListObserver is notified after every refresh or toggle.
type FoodListObserver interface {
	FoodsDidChange(foods []domain.Food)
	DidFail(err error)
}

// FoodListService owns the last-seen food list and the refresh policy
// around the API client.
type FoodListService struct {
	api      domain.FoodAPI
	observer FoodListObserver
	log      *zap.SugaredLogger

	mu    sync.RWMutex
	foods []domain.Food
}

// NewFoodListService creates a new food list service with dependencies.
// observer may be nil.
func NewFoodListService(api domain.FoodAPI, observer FoodListObserver, log *zap.SugaredLogger) *FoodListService {
	return &FoodListService{
		api:      api,
		observer: observer,
		log:      logger.OrNop(log),
	}
}

// Refresh fetches the full list and replaces the snapshot.
func (s *FoodListService) Refresh(ctx context.Context) ([]domain.Food, error) {
	foods, err := s.api.GetFoods(ctx)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	s.replace(foods)
	return s.Foods(), nil
}

// ToggleLike likes food if it is not liked and unlikes it otherwise, then
// re-fetches the whole list. The API does not return the updated food, so
// the snapshot only changes through a fresh fetch.
func (s *FoodListService) ToggleLike(ctx context.Context, food domain.Food) ([]domain.Food, error) {
	return s.SetLiked(ctx, food, !food.IsLiked)
}

// SetLiked likes or unlikes food regardless of its last-seen state, then
// re-fetches the list.
func (s *FoodListService) SetLiked(ctx context.Context, food domain.Food, liked bool) ([]domain.Food, error) {
	call, action := s.api.Like, "like"
	if !liked {
		call, action = s.api.Unlike, "unlike"
	}

	if err := call(ctx, food); err != nil {
		s.log.Warnw("toggle like failed", "action", action, "food_id", food.ID, "error", err)
		s.fail(err)
		return nil, err
	}
	s.log.Debugw("toggle like accepted", "action", action, "food_id", food.ID)

	return s.Refresh(ctx)
}

// ToggleLikeByID resolves id against the snapshot, fetching it first when
// empty, and toggles it.
func (s *FoodListService) ToggleLikeByID(ctx context.Context, id int) ([]domain.Food, error) {
	food, err := s.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.ToggleLike(ctx, food)
}

// Resolve returns the food with id from the snapshot, refreshing once when
// the snapshot is empty.
func (s *FoodListService) Resolve(ctx context.Context, id int) (domain.Food, error) {
	if len(s.Foods()) == 0 {
		if _, err := s.Refresh(ctx); err != nil {
			return domain.Food{}, err
		}
	}

	food, ok := s.FoodByID(id)
	if !ok {
		return domain.Food{}, fmt.Errorf("%w: id %d", domain.ErrFoodNotFound, id)
	}
	return food, nil
}

// Foods returns a copy of the last-seen list.
func (s *FoodListService) Foods() []domain.Food {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Food, len(s.foods))
	copy(out, s.foods)
	return out
}

// FoodByID looks id up in the last-seen list.
func (s *FoodListService) FoodByID(id int) (domain.Food, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.FindByID(s.foods, id)
}

func (s *FoodListService) replace(foods []domain.Food) {
	s.mu.Lock()
	s.foods = foods
	s.mu.Unlock()

	s.log.Debugw("food list replaced", "count", len(foods))
	if s.observer != nil {
		s.observer.FoodsDidChange(s.Foods())
	}
}

func (s *FoodListService) fail(err error) {
	if s.observer != nil {
		s.observer.DidFail(err)
	}
}
