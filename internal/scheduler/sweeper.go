package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"talentpool/internal/domain/advert"
	"talentpool/internal/metrics"
	"talentpool/internal/observability"
)

// DefaultInterval is how often scheduled adverts are checked.
const DefaultInterval = 60 * time.Second

type SweeperConfig struct {
	Interval time.Duration
}

// SweepResult summarises one pass.
type SweepResult struct {
	Due      int
	Promoted int
	Failed   int
}

type Stats struct {
	Sweeps        int64
	Promoted      int64
	Failed        int64
	LastSweepAt   time.Time
	LastSweepErr  string
	LastPromotion time.Time
}

// Sweeper publishes scheduled adverts once their publish_at has passed.
type Sweeper struct {
	repo     advert.Repository
	metrics  *metrics.Collector
	logger   *zap.SugaredLogger
	interval time.Duration
	clock    func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.Mutex
	stats Stats
}

func NewSweeper(repo advert.Repository, cfg SweeperConfig, collector *metrics.Collector, logger *zap.SugaredLogger) *Sweeper {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = observability.NewNop()
	}
	return &Sweeper{
		repo:     repo,
		metrics:  collector,
		logger:   logger.With(observability.FieldComponent, "publish_sweeper"),
		interval: interval,
		clock:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time used by ticks started through Start.
func (s *Sweeper) WithClock(clock func() time.Time) *Sweeper {
	s.clock = clock
	return s
}

// Start runs the sweep loop until ctx is cancelled or Stop is called.
func (s *Sweeper) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.run()
	s.logger.Infow("publish sweeper started", "interval", s.interval.String())
}

// Stop cancels the loop and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
	s.logger.Infow("publish sweeper stopped")
}

func (s *Sweeper) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(s.ctx, s.clock()); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Warnw("publish sweep failed", observability.FieldError, err)
			}
		}
	}
}

// RunOnce promotes every advert that is due at now. A failure on one advert
// is logged and counted; the remaining adverts are still processed.
func (s *Sweeper) RunOnce(ctx context.Context, now time.Time) (SweepResult, error) {
	var result SweepResult
	due, err := s.repo.ListDue(ctx, now)
	if err != nil {
		err = errors.Wrap(err, "list due adverts")
		s.record(now, result, err)
		return result, err
	}
	result.Due = len(due)

	for _, item := range due {
		if err := ctx.Err(); err != nil {
			s.record(now, result, err)
			return result, err
		}
		promoted, err := s.repo.PromoteScheduled(ctx, item.ID, now)
		if err != nil {
			result.Failed++
			s.logger.Errorw("failed to publish scheduled advert",
				observability.FieldAdvertID, item.ID.String(),
				observability.FieldError, err,
			)
			continue
		}
		if promoted {
			result.Promoted++
			s.logger.Infow("scheduled advert published",
				observability.FieldAdvertID, item.ID.String(),
				"publish_at", item.PublishAt,
			)
		}
	}

	s.record(now, result, nil)
	if result.Due > 0 {
		s.logger.Infow("publish sweep complete",
			observability.FieldCount, result.Due,
			"promoted", result.Promoted,
			"failed", result.Failed,
		)
	}
	return result, nil
}

func (s *Sweeper) record(at time.Time, result SweepResult, err error) {
	s.metrics.ObserveSweep(at, result.Promoted, result.Failed, err)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Sweeps++
	s.stats.Promoted += int64(result.Promoted)
	s.stats.Failed += int64(result.Failed)
	s.stats.LastSweepAt = at
	s.stats.LastSweepErr = ""
	if err != nil {
		s.stats.LastSweepErr = err.Error()
	}
	if result.Promoted > 0 {
		s.stats.LastPromotion = at
	}
}

func (s *Sweeper) GetStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}
