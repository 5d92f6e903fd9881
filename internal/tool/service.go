package tool

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Service provides tool-related business logic.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new tool service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns tools matching the query.
func (s *Service) List(ctx context.Context, q Query) ([]Tool, error) {
	return s.repo.List(ctx, q)
}

// Get returns a tool by its id.
func (s *Service) Get(ctx context.Context, id string) (Tool, error) {
	return s.repo.GetByID(ctx, id)
}

// Create persists a new tool. ID and CreatedAt are assigned by the store.
func (s *Service) Create(ctx context.Context, t *Tool) (string, error) {
	if !t.Category.Valid() {
		return "", fmt.Errorf("invalid category %q", t.Category)
	}
	if !t.Pricing.Valid() {
		return "", fmt.Errorf("invalid pricing type %q", t.Pricing)
	}
	return s.repo.Create(ctx, t)
}

// CountByCategory returns the number of stored tools per category label.
func (s *Service) CountByCategory(ctx context.Context) (map[Category]int, error) {
	return s.repo.CountByCategory(ctx)
}

// MigrateLegacyPricing rewrites every row still carrying only the boolean free
// flag to the canonical pricing type. It is safe to run repeatedly.
func (s *Service) MigrateLegacyPricing(ctx context.Context) (int, error) {
	rows, err := s.repo.ListLegacyPricing(ctx)
	if err != nil {
		return 0, err
	}

	migrated := 0
	for _, row := range rows {
		p := PricingFromLegacy(row.IsFree)
		if err := s.repo.SetPricing(ctx, row.ID, p); err != nil {
			return migrated, fmt.Errorf("migrate %s: %w", row.ID, err)
		}
		migrated++
		s.logger.Debug("migrated legacy pricing",
			zap.String("tool_id", row.ID),
			zap.Bool("is_free", row.IsFree),
			zap.String("pricing_type", string(p)),
		)
	}
	s.logger.Info("legacy pricing migration finished", zap.Int("migrated", migrated))
	return migrated, nil
}
