package directory

import (
	"context"
	"fmt"

	"agentzone/internal/config"
	"agentzone/internal/ranking"
	"agentzone/internal/snapshot"
	"agentzone/internal/telemetry"
	"agentzone/internal/tool"

	"go.uber.org/zap"
)

type Service struct {
	src        Source
	limits     config.Limits
	thresholds ranking.Thresholds
	metrics    telemetry.Metrics
	logger     *zap.Logger

	trending   *snapshot.Snapshot[[]tool.Tool]
	recent     *snapshot.Snapshot[[]tool.Tool]
	counts     *snapshot.Snapshot[[]CategoryCount]
	featured   *snapshot.Snapshot[[]ranking.CategoryGroup]
	byCategory *snapshot.Keyed[[]tool.Tool]
}

func NewService(src Source, limits config.Limits, thresholds ranking.Thresholds, metrics telemetry.Metrics, logger *zap.Logger) *Service {
	return &Service{
		src:        src,
		limits:     limits,
		thresholds: thresholds,
		metrics:    metrics,
		logger:     logger,
		trending:   snapshot.New[[]tool.Tool](),
		recent:     snapshot.New[[]tool.Tool](),
		counts:     snapshot.New[[]CategoryCount](),
		featured:   snapshot.New[[]ranking.CategoryGroup](),
		byCategory: snapshot.NewKeyed[[]tool.Tool](),
	}
}

// Thresholds returns the badge thresholds in effect.
func (s *Service) Thresholds() ranking.Thresholds {
	return s.thresholds
}

// List runs a paged read query. It is not snapshotted: every cursor is a
// distinct query.
func (s *Service) List(ctx context.Context, q tool.Query) ([]tool.Tool, error) {
	list, err := s.src.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	return list, nil
}

// Trending returns the flagged trending tools ranked by score. When nothing is
// flagged it falls back to the overall top scores.
func (s *Service) Trending(ctx context.Context) (snapshot.Result[[]ranking.Ranked], error) {
	res, err := load(ctx, s, SectionTrending, s.trending, s.fetchTrending)
	if err != nil {
		return snapshot.Result[[]ranking.Ranked]{}, err
	}
	return snapshot.Result[[]ranking.Ranked]{
		Value:     s.thresholds.Annotate(res.Value),
		Stale:     res.Stale,
		FetchedAt: res.FetchedAt,
	}, nil
}

func (s *Service) fetchTrending(ctx context.Context) ([]tool.Tool, error) {
	list, err := s.src.List(ctx, tool.Query{
		TrendingOnly: true,
		Order:        tool.OrderScore,
		Limit:        s.limits.TrendingLimit,
	})
	if err != nil {
		return nil, err
	}
	n := s.limits.TrendingLimit
	if len(list) == 0 {
		n = s.limits.TrendingFallbackLimit
		list, err = s.src.List(ctx, tool.Query{Order: tool.OrderScore, Limit: n})
		if err != nil {
			return nil, err
		}
	}
	return ranking.TopByScore(list, n), nil
}

// Recent returns the most recently added tools.
func (s *Service) Recent(ctx context.Context) (snapshot.Result[[]tool.Tool], error) {
	return load(ctx, s, SectionRecent, s.recent, func(ctx context.Context) ([]tool.Tool, error) {
		return s.src.List(ctx, tool.Query{Order: tool.OrderRecent, Limit: s.limits.RecentLimit})
	})
}

// Categories returns every enumerated category with its member count, in
// display order. Categories without tools report zero.
func (s *Service) Categories(ctx context.Context) (snapshot.Result[[]CategoryCount], error) {
	return load(ctx, s, SectionCategories, s.counts, func(ctx context.Context) ([]CategoryCount, error) {
		counts, err := s.src.CountByCategory(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]CategoryCount, 0, len(tool.Categories()))
		for _, c := range tool.Categories() {
			out = append(out, CategoryCount{Category: c, Slug: c.Slug(), Count: counts[c]})
		}
		return out, nil
	})
}

// Featured ranks categories by size and keeps the first few members of each.
func (s *Service) Featured(ctx context.Context) (snapshot.Result[[]ranking.CategoryGroup], error) {
	return load(ctx, s, SectionFeatured, s.featured, func(ctx context.Context) ([]ranking.CategoryGroup, error) {
		list, err := s.src.List(ctx, tool.Query{Order: tool.OrderRecent, Limit: s.limits.ScanLimit})
		if err != nil {
			return nil, err
		}
		groups := ranking.RankCategories(
			ranking.GroupByCategory(ranking.SortByName(list)),
			s.limits.FeaturedCategories,
		)
		for i := range groups {
			groups[i].Tools = ranking.TakeTop(groups[i].Tools, s.limits.MembersPerCategory)
		}
		return groups, nil
	})
}

// CategoryTools returns every tool in c, newest first.
func (s *Service) CategoryTools(ctx context.Context, c tool.Category) (snapshot.Result[[]tool.Tool], error) {
	return load(ctx, s, SectionCategory, s.byCategory.Get(c.Slug()), func(ctx context.Context) ([]tool.Tool, error) {
		return s.src.List(ctx, tool.Query{Category: c, Order: tool.OrderRecent, Limit: s.limits.ScanLimit})
	})
}

// Warm reloads the score-dependent sections. It is registered as a refresh
// listener so readers see new scores without waiting for their next miss.
func (s *Service) Warm(ctx context.Context) {
	if _, err := s.Trending(ctx); err != nil {
		s.logger.Warn("warm trending", zap.Error(err))
	}
	if _, err := s.Featured(ctx); err != nil {
		s.logger.Warn("warm featured categories", zap.Error(err))
	}
}

func load[T any](ctx context.Context, s *Service, section string, snap *snapshot.Snapshot[T], fetch func(context.Context) (T, error)) (snapshot.Result[T], error) {
	res, err := snap.Load(ctx, fetch)
	if err != nil {
		return res, fmt.Errorf("load %s: %w", section, err)
	}
	if res.Stale {
		s.metrics.ObserveStale(section)
		s.logger.Warn("serving stale section",
			zap.String("section", section),
			zap.Time("fetched_at", res.FetchedAt),
		)
	}
	return res, nil
}
