package blog

import "context"

//go:generate mockgen -source=ports.go -destination=mock_repository_test.go -package=blog

type Repository interface {
	ListLatest(ctx context.Context, limit int) ([]Summary, error)
	GetBySlug(ctx context.Context, slug string) (Post, error)
	GetByID(ctx context.Context, id string) (Post, error)
}
