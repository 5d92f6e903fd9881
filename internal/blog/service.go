package blog

import (
	"context"
	"errors"
	"strconv"

	"agentzone/internal/snapshot"

	"github.com/microcosm-cc/bluemonday"
)

type Service struct {
	repo   Repository
	policy *bluemonday.Policy
	latest *snapshot.Keyed[[]Summary]
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:   repo,
		policy: bluemonday.UGCPolicy(),
		latest: snapshot.NewKeyed[[]Summary](),
	}
}

// ListLatest returns the newest posts. A failed read falls back to the last
// good list for the same limit, marked stale; both the blog listing and the
// home feed read through here.
func (s *Service) ListLatest(ctx context.Context, limit int) (snapshot.Result[[]Summary], error) {
	return s.latest.Get(strconv.Itoa(limit)).Load(ctx, func(ctx context.Context) ([]Summary, error) {
		posts, err := s.repo.ListLatest(ctx, limit)
		if err != nil {
			return nil, err
		}
		if posts == nil {
			posts = []Summary{}
		}
		return posts, nil
	})
}

// Get looks a post up by slug, then by id, and returns it with sanitised HTML.
func (s *Service) Get(ctx context.Context, slugOrID string) (Post, error) {
	p, err := s.repo.GetBySlug(ctx, slugOrID)
	if errors.Is(err, ErrNotFound) {
		p, err = s.repo.GetByID(ctx, slugOrID)
	}
	if err != nil {
		return Post{}, err
	}
	p.Content = s.policy.Sanitize(p.Content)
	return p, nil
}
