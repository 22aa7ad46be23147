package domain

import "context"

// FoodAPI defines the operations offered by the remote OpenFoods API
type FoodAPI interface {
	GetFoods(ctx context.Context) ([]Food, error)
	Like(ctx context.Context, food Food) error
	Unlike(ctx context.Context, food Food) error
}

// FoodRepository defines the persistence used by the local fixture server
type FoodRepository interface {
	List(ctx context.Context) ([]Food, error)
	Get(ctx context.Context, id int) (Food, error)
	Put(ctx context.Context, food Food) error
	// SetLiked flips the like state of a food. changed is false when the food
	// was already in the requested state.
	SetLiked(ctx context.Context, id int, liked bool) (changed bool, err error)
	Close() error
}
