package trending

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"sync/atomic"
	"time"

	"agentzone/internal/schedule"
	"agentzone/internal/telemetry"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const flightKey = "refresh"

type Config struct {
	// Timeout bounds one refresh. Zero means no limit beyond the procedure's own.
	Timeout time.Duration
}

type Service struct {
	proc    Procedure
	repo    Repository
	metrics telemetry.Metrics
	logger  *zap.Logger
	cfg     Config

	group   singleflight.Group
	state   atomic.Value // State
	waiting atomic.Int32

	mu        sync.Mutex
	listeners []func(context.Context)
	now       func() time.Time
}

func NewService(proc Procedure, repo Repository, metrics telemetry.Metrics, logger *zap.Logger, cfg Config) *Service {
	s := &Service{
		proc:    proc,
		repo:    repo,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
	s.state.Store(StateIdle)
	return s
}

// OnRefreshed registers fn to run after every successful refresh so readers
// can re-fetch instead of trusting what they hold.
func (s *Service) OnRefreshed(fn func(context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Service) State() State {
	return s.state.Load().(State)
}

// Trigger starts a refresh, or joins the one already in flight so that at most
// one remote call is outstanding. The refresh itself is detached from ctx;
// cancelling ctx only stops this caller from waiting.
func (s *Service) Trigger(ctx context.Context, source string) (Outcome, error) {
	s.waiting.Add(1)
	defer s.waiting.Add(-1)

	leader := false
	ch := s.group.DoChan(flightKey, func() (any, error) {
		leader = true
		return s.run(context.WithoutCancel(ctx), source)
	})

	select {
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	case res := <-ch:
		out, _ := res.Val.(Outcome)
		out.Coalesced = !leader
		if out.Coalesced {
			s.metrics.ObserveTrendingRefresh(telemetry.OutcomeCoalesced)
		}
		return out, res.Err
	}
}

func (s *Service) run(ctx context.Context, source string) (out Outcome, err error) {
	s.state.Store(StateRequesting)
	defer s.state.Store(StateIdle)

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	run := &Run{
		Status:    StatusRunning,
		Source:    source,
		StartedAt: s.now(),
	}
	runID, rErr := s.repo.CreateRun(ctx, run)
	if rErr != nil {
		s.metrics.ObserveTrendingRefresh(telemetry.OutcomeFailure)
		return Outcome{}, fmt.Errorf("record refresh run: %w", rErr)
	}
	run.ID = runID
	out.RunID = runID

	defer func() {
		now := s.now()
		run.FinishedAt = &now
		if err != nil {
			run.Status = StatusFailed
			run.Error = err.Error()
			s.metrics.ObserveTrendingRefresh(telemetry.OutcomeFailure)
			s.logger.Warn("trend refresh failed",
				zap.String("run_id", run.ID),
				zap.String("source", source),
				zap.Error(err),
			)
		} else {
			run.Status = StatusCompleted
			run.AffectedCount = out.Result.AffectedCount
			s.metrics.ObserveTrendingRefresh(telemetry.OutcomeSuccess)
			s.logger.Info("trend refresh completed",
				zap.String("run_id", run.ID),
				zap.String("source", source),
				zap.Duration("elapsed", now.Sub(run.StartedAt)),
			)
		}
		if updateErr := s.repo.UpdateRun(context.WithoutCancel(ctx), run); updateErr != nil {
			s.logger.Error("failed to update refresh run", zap.String("run_id", run.ID), zap.Error(updateErr))
		}
	}()

	res, err := s.proc.Refresh(ctx)
	if err != nil {
		return out, err
	}
	if !res.Success {
		return out, ErrRefreshFailed
	}

	// The procedure returns no delta, so the count is re-read from the store.
	if count, cErr := s.repo.CountTrending(ctx); cErr == nil {
		res.AffectedCount = &count
	} else {
		s.logger.Warn("re-read trending count", zap.Error(cErr))
	}
	out.Result = res

	s.notify(ctx)
	return out, nil
}

func (s *Service) notify(ctx context.Context) {
	s.mu.Lock()
	listeners := append([]func(context.Context){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(ctx)
	}
}

// Status reports the trigger state and the most recent recorded run.
func (s *Service) Status(ctx context.Context) (Status, error) {
	st := Status{State: s.State(), Waiting: int(s.waiting.Load())}
	last, err := s.repo.LastRun(ctx)
	if err != nil {
		return st, err
	}
	st.LastRun = last
	return st, nil
}

// RunScheduled triggers a refresh on every tick until ticks ends or ctx is
// done. Failures are logged; the next tick tries again.
func (s *Service) RunScheduled(ctx context.Context, ticks iter.Seq[schedule.Tick]) {
	for tick := range ticks {
		if _, err := s.Trigger(ctx, SourceSchedule); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Warn("scheduled trend refresh", zap.Int("tick", tick.N), zap.Error(err))
		}
	}
}
