package feed

import (
	"context"
	"slices"
	"sync"
	"time"

	"agentzone/internal/blog"
	"agentzone/internal/carousel"
	"agentzone/internal/config"
	"agentzone/internal/directory"
	"agentzone/internal/ranking"
	"agentzone/internal/schedule"
	"agentzone/internal/telemetry"
	"agentzone/internal/tool"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	sections Sections
	posts    Posts
	limits   config.Limits
	metrics  telemetry.Metrics
	logger   *zap.Logger

	spotlight *carousel.Rotator
}

func NewService(sections Sections, posts Posts, limits config.Limits, metrics telemetry.Metrics, logger *zap.Logger) *Service {
	return &Service{
		sections:  sections,
		posts:     posts,
		limits:    limits,
		metrics:   metrics,
		logger:    logger,
		spotlight: carousel.NewRotator(0),
	}
}

// RunCarousel rotates the spotlight post every interval until ctx is done.
func (s *Service) RunCarousel(ctx context.Context, interval time.Duration) {
	s.spotlight.Run(ctx, schedule.Every(ctx, interval))
}

// Home loads every section concurrently. A section that fails with nothing
// cached is returned empty and listed in the report.
func (s *Service) Home(ctx context.Context) (Home, Report) {
	home := Home{
		Trending: []ranking.Ranked{},
		Recent:   []tool.Tool{},
		Featured: []ranking.CategoryGroup{},
		Posts:    []blog.Summary{},
	}
	var (
		mu  sync.Mutex
		rep Report
	)
	note := func(section string, stale bool, err error) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case err != nil:
			rep.Unavailable = append(rep.Unavailable, section)
			s.logger.Warn("home section unavailable", zap.String("section", section), zap.Error(err))
		case stale:
			rep.Stale = append(rep.Stale, section)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := s.sections.Trending(gctx)
		if err == nil {
			home.Trending = res.Value
		}
		note(directory.SectionTrending, res.Stale, err)
		return nil
	})
	g.Go(func() error {
		res, err := s.sections.Recent(gctx)
		if err == nil {
			home.Recent = trimTags(res.Value, s.limits.CardTags)
		}
		note(directory.SectionRecent, res.Stale, err)
		return nil
	})
	g.Go(func() error {
		res, err := s.sections.Featured(gctx)
		if err == nil {
			home.Featured = res.Value
		}
		note(directory.SectionFeatured, res.Stale, err)
		return nil
	})
	g.Go(func() error {
		res, err := s.posts.ListLatest(gctx, s.limits.LatestPosts)
		if err == nil {
			home.Posts = res.Value
			if res.Stale {
				s.metrics.ObserveStale(SectionPosts)
			}
		}
		note(SectionPosts, res.Stale, err)
		return nil
	})
	_ = g.Wait()

	if home.Trending == nil {
		home.Trending = []ranking.Ranked{}
	}
	if home.Recent == nil {
		home.Recent = []tool.Tool{}
	}
	if home.Featured == nil {
		home.Featured = []ranking.CategoryGroup{}
	}
	if home.Posts == nil {
		home.Posts = []blog.Summary{}
	}

	s.spotlight.Resize(len(home.Posts))
	if len(home.Posts) > 0 {
		p := home.Posts[s.spotlight.Current()%len(home.Posts)]
		home.Spotlight = &p
	}

	slices.Sort(rep.Stale)
	slices.Sort(rep.Unavailable)
	return home, rep
}
