package tool

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository_test.go -package=tool

// Repository defines the contract for tool data storage.
type Repository interface {
	List(ctx context.Context, q Query) ([]Tool, error)
	GetByID(ctx context.Context, id string) (Tool, error)
	Create(ctx context.Context, t *Tool) (string, error)
	CountByCategory(ctx context.Context) (map[Category]int, error)
	ListLegacyPricing(ctx context.Context) ([]LegacyPricingRow, error)
	SetPricing(ctx context.Context, id string, p Pricing) error
}
