package directory

import (
	"context"

	"agentzone/internal/tool"
)

//go:generate mockgen -source=ports.go -destination=mock_source_test.go -package=directory

// Source is the read query against the tool store.
type Source interface {
	List(ctx context.Context, q tool.Query) ([]tool.Tool, error)
	CountByCategory(ctx context.Context) (map[tool.Category]int, error)
}
