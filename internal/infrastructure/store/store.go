package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openfoods/openfoods/internal/domain"
)

// NewStore creates the configured food repository backend.
func NewStore(typ, path string) (domain.FoodRepository, error) {
	switch strings.TrimSpace(strings.ToLower(typ)) {
	case "", "memory":
		return NewMemoryStore(), nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return OpenBolt(path)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

// Seed inserts foods into repo when it is empty. It returns the number of
// foods written.
func Seed(ctx context.Context, repo domain.FoodRepository, foods []domain.Food) (int, error) {
	existing, err := repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list existing foods: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for _, f := range foods {
		if err := repo.Put(ctx, f); err != nil {
			return 0, fmt.Errorf("seed food %d: %w", f.ID, err)
		}
	}
	return len(foods), nil
}

// LoadSeedFile reads a JSON array of foods in the API wire format.
// An empty path yields the built-in seed.
func LoadSeedFile(path string) ([]domain.Food, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultSeed(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var foods []domain.Food
	if err := json.Unmarshal(b, &foods); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return foods, nil
}

// DefaultSeed is the food list served by a fresh fixture server.
func DefaultSeed() []domain.Food {
	updated := time.Date(2024, 5, 3, 10, 0, 0, 0, time.UTC)
	return []domain.Food{
		{
			ID:              1,
			Name:            "Sushi",
			PhotoURL:        "https://images.openfoods.example/sushi.jpg",
			Description:     "Vinegared rice with raw fish and seaweed.",
			CountryOfOrigin: "JP",
			LastUpdatedDate: updated,
		},
		{
			ID:              2,
			Name:            "Pizza Margherita",
			PhotoURL:        "https://images.openfoods.example/pizza.jpg",
			Description:     "Tomato, mozzarella and basil on a thin crust.",
			CountryOfOrigin: "IT",
			LastUpdatedDate: updated,
		},
		{
			ID:              3,
			Name:            "Tacos al Pastor",
			PhotoURL:        "https://images.openfoods.example/tacos.jpg",
			Description:     "Spit-grilled pork with pineapple in corn tortillas.",
			CountryOfOrigin: "MX",
			LastUpdatedDate: updated,
		},
		{
			ID:              4,
			Name:            "Pad Thai",
			PhotoURL:        "https://images.openfoods.example/padthai.jpg",
			Description:     "Stir-fried rice noodles with tamarind, peanuts and lime.",
			CountryOfOrigin: "TH",
			LastUpdatedDate: updated,
		},
		{
			ID:              5,
			Name:            "Croissant",
			PhotoURL:        "https://images.openfoods.example/croissant.jpg",
			Description:     "Laminated butter pastry.",
			CountryOfOrigin: "FR",
			LastUpdatedDate: updated,
		},
	}
}
