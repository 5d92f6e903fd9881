package trending

import "context"

// Procedure recomputes trend scores remotely. It takes no arguments and may be
// retried freely.
type Procedure interface {
	Refresh(ctx context.Context) (Result, error)
}

type Repository interface {
	CreateRun(ctx context.Context, run *Run) (string, error)
	UpdateRun(ctx context.Context, run *Run) error
	LastRun(ctx context.Context) (*Run, error)
	CountTrending(ctx context.Context) (int, error)
}
