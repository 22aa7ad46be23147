package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfoods/openfoods/internal/domain"
)

// MockFoodAPI is a mock implementation of domain.FoodAPI
type MockFoodAPI struct {
	mu sync.Mutex

	foods       []domain.Food
	getFoodsErr error
	likeErr     error
	unlikeErr   error

	getFoodsCalls int
	liked         []domain.Food
	unliked       []domain.Food
}

func NewMockFoodAPI(foods ...domain.Food) *MockFoodAPI {
	return &MockFoodAPI{foods: foods}
}

func (m *MockFoodAPI) GetFoods(ctx context.Context) ([]domain.Food, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getFoodsCalls++
	if m.getFoodsErr != nil {
		return nil, m.getFoodsErr
	}
	out := make([]domain.Food, len(m.foods))
	copy(out, m.foods)
	return out, nil
}

func (m *MockFoodAPI) Like(ctx context.Context, food domain.Food) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.liked = append(m.liked, food)
	if m.likeErr != nil {
		return m.likeErr
	}
	m.setLiked(food.ID, true)
	return nil
}

func (m *MockFoodAPI) Unlike(ctx context.Context, food domain.Food) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unliked = append(m.unliked, food)
	if m.unlikeErr != nil {
		return m.unlikeErr
	}
	m.setLiked(food.ID, false)
	return nil
}

func (m *MockFoodAPI) setLiked(id int, liked bool) {
	for i := range m.foods {
		if m.foods[i].ID == id {
			m.foods[i].IsLiked = liked
		}
	}
}

// MockObserver records notifications
type MockObserver struct {
	changes [][]domain.Food
	errs    []error
}

func (o *MockObserver) FoodsDidChange(foods []domain.Food) { o.changes = append(o.changes, foods) }
func (o *MockObserver) DidFail(err error)                  { o.errs = append(o.errs, err) }

func testFoods() []domain.Food {
	at := time.Date(2024, 5, 3, 10, 0, 0, 0, time.UTC)
	return []domain.Food{
		{ID: 1, Name: "Sushi", PhotoURL: "https://x/1.png", CountryOfOrigin: "JP", LastUpdatedDate: at},
		{ID: 2, Name: "Pizza", IsLiked: true, PhotoURL: "https://x/2.png", CountryOfOrigin: "IT", LastUpdatedDate: at},
	}
}

func TestFoodListService_Refresh(t *testing.T) {
	api := NewMockFoodAPI(testFoods()...)
	observer := &MockObserver{}
	svc := NewFoodListService(api, observer, nil)

	foods, err := svc.Refresh(context.Background())

	require.NoError(t, err)
	assert.Len(t, foods, 2)
	assert.Len(t, svc.Foods(), 2)
	require.Len(t, observer.changes, 1)
	assert.Len(t, observer.changes[0], 2)
	assert.Empty(t, observer.errs)
}

func TestFoodListService_RefreshFailureKeepsSnapshot(t *testing.T) {
	api := NewMockFoodAPI(testFoods()...)
	observer := &MockObserver{}
	svc := NewFoodListService(api, observer, nil)
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	api.getFoodsErr = &domain.InvalidStatusCodeError{Code: 500}
	foods, err := svc.Refresh(context.Background())

	assert.Nil(t, foods)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusCode)
	assert.Len(t, svc.Foods(), 2)
	require.Len(t, observer.errs, 1)
	assert.ErrorIs(t, observer.errs[0], domain.ErrInvalidStatusCode)
}

func TestFoodListService_ToggleLike(t *testing.T) {
	t.Run("likes an unliked food then re-fetches", func(t *testing.T) {
		api := NewMockFoodAPI(testFoods()...)
		svc := NewFoodListService(api, nil, nil)
		food := testFoods()[0]

		foods, err := svc.ToggleLike(context.Background(), food)

		require.NoError(t, err)
		require.Len(t, api.liked, 1)
		assert.True(t, api.liked[0].Equal(food))
		assert.Empty(t, api.unliked)
		assert.Equal(t, 1, api.getFoodsCalls)

		got, ok := domain.FindByID(foods, 1)
		require.True(t, ok)
		assert.True(t, got.IsLiked)
		assert.False(t, food.IsLiked, "argument is never mutated")
	})

	t.Run("unlikes a liked food", func(t *testing.T) {
		api := NewMockFoodAPI(testFoods()...)
		svc := NewFoodListService(api, nil, nil)

		foods, err := svc.ToggleLike(context.Background(), testFoods()[1])

		require.NoError(t, err)
		assert.Len(t, api.unliked, 1)
		assert.Empty(t, api.liked)
		got, _ := domain.FindByID(foods, 2)
		assert.False(t, got.IsLiked)
	})

	t.Run("failure skips the re-fetch and notifies", func(t *testing.T) {
		api := NewMockFoodAPI(testFoods()...)
		observer := &MockObserver{}
		svc := NewFoodListService(api, observer, nil)
		food := testFoods()[0]
		api.likeErr = &domain.CouldNotLikeFoodError{Food: food}

		foods, err := svc.ToggleLike(context.Background(), food)

		assert.Nil(t, foods)
		assert.ErrorIs(t, err, domain.ErrCouldNotLikeFood)
		assert.Equal(t, 0, api.getFoodsCalls)
		assert.Empty(t, observer.changes)
		require.Len(t, observer.errs, 1)
	})
}

func TestFoodListService_SetLiked(t *testing.T) {
	api := NewMockFoodAPI(testFoods()...)
	svc := NewFoodListService(api, nil, nil)

	// Pizza is liked; SetLiked(true) still issues a like call
	_, err := svc.SetLiked(context.Background(), testFoods()[1], true)
	require.NoError(t, err)
	require.Len(t, api.liked, 1)
	assert.True(t, api.liked[0].Equal(testFoods()[1]), "the argument reaches the API unchanged")

	_, err = svc.SetLiked(context.Background(), testFoods()[0], false)
	require.NoError(t, err)
	require.Len(t, api.unliked, 1)
	assert.Equal(t, 1, api.unliked[0].ID)
}

func TestFoodListService_ToggleLikeByID(t *testing.T) {
	t.Run("fetches when the snapshot is empty", func(t *testing.T) {
		api := NewMockFoodAPI(testFoods()...)
		svc := NewFoodListService(api, nil, nil)

		foods, err := svc.ToggleLikeByID(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, 2, api.getFoodsCalls)
		got, _ := domain.FindByID(foods, 1)
		assert.True(t, got.IsLiked)
	})

	t.Run("unknown id", func(t *testing.T) {
		api := NewMockFoodAPI(testFoods()...)
		svc := NewFoodListService(api, nil, nil)

		_, err := svc.ToggleLikeByID(context.Background(), 42)

		assert.ErrorIs(t, err, domain.ErrFoodNotFound)
		assert.Empty(t, api.liked)
	})

	t.Run("fetch failure", func(t *testing.T) {
		api := NewMockFoodAPI()
		api.getFoodsErr = errors.New("connection reset")
		svc := NewFoodListService(api, nil, nil)

		_, err := svc.ToggleLikeByID(context.Background(), 1)

		assert.EqualError(t, err, "connection reset")
	})
}

func TestFoodListService_FoodsReturnsCopy(t *testing.T) {
	svc := NewFoodListService(NewMockFoodAPI(testFoods()...), nil, nil)
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	foods := svc.Foods()
	foods[0].Name = "changed"

	got, ok := svc.FoodByID(1)
	require.True(t, ok)
	assert.Equal(t, "Sushi", got.Name)
}

func TestFoodListService_ConcurrentUse(t *testing.T) {
	api := NewMockFoodAPI(testFoods()...)
	svc := NewFoodListService(api, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			svc.Refresh(context.Background())
		}()
		go func() {
			defer wg.Done()
			svc.ToggleLikeByID(context.Background(), 1)
		}()
	}
	wg.Wait()

	assert.Len(t, svc.Foods(), 2)
}
