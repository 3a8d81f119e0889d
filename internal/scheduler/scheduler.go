// Package scheduler runs the periodic maintenance jobs: write-behind flushes,
// blackjack timeouts, leaderboard refreshes and snapshot backups.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vie_bot/internal/backup"
	"vie_bot/internal/logger"
	"vie_bot/internal/metrics"
	"vie_bot/internal/service"
	"vie_bot/internal/store"

	"github.com/go-co-op/gocron/v2"
)

// Jobs are the components the scheduler drives. Leaderboard and Backup may be
// nil.
type Jobs struct {
	Store       *store.Store
	Casino      *service.CasinoService
	Leaderboard *service.LeaderboardService
	Backup      *backup.Uploader
}

// Intervals configure each job; a zero interval disables it.
type Intervals struct {
	Flush       time.Duration
	Sweep       time.Duration
	Leaderboard time.Duration
	Backup      time.Duration
}

type Scheduler struct {
	jobs  Jobs
	sched gocron.Scheduler
	log   *slog.Logger
	ctx   context.Context
	stop  context.CancelFunc
}

func New(jobs Jobs, iv Intervals) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	ctx, stop := context.WithCancel(context.Background())
	s := &Scheduler{
		jobs:  jobs,
		sched: sched,
		log:   logger.With("component", "scheduler"),
		ctx:   ctx,
		stop:  stop,
	}

	add := func(name string, every time.Duration, fn func(context.Context) error) error {
		if every <= 0 {
			return nil
		}
		_, err := sched.NewJob(
			gocron.DurationJob(every),
			gocron.NewTask(func() {
				if err := fn(s.ctx); err != nil {
					s.log.Error("job failed", "job", name, "error", err)
				}
			}),
			gocron.WithName(name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return fmt.Errorf("schedule %s: %w", name, err)
		}
		s.log.Info("job scheduled", "job", name, "every", every.String())
		return nil
	}

	if err := add("flush", iv.Flush, s.Flush); err != nil {
		return nil, err
	}
	if err := add("blackjack_sweep", iv.Sweep, s.Sweep); err != nil {
		return nil, err
	}
	if jobs.Leaderboard != nil {
		if err := add("leaderboard_refresh", iv.Leaderboard, jobs.Leaderboard.Refresh); err != nil {
			return nil, err
		}
	}
	if jobs.Backup != nil {
		if err := add("backup", iv.Backup, s.Backup); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.sched.Start()
}

// Shutdown stops the jobs and waits for running ones to return.
func (s *Scheduler) Shutdown() error {
	s.stop()
	return s.sched.Shutdown()
}

// Flush persists write-behind changes and refreshes the store gauges.
func (s *Scheduler) Flush(ctx context.Context) error {
	err := s.jobs.Store.Flush(ctx)
	if err != nil {
		metrics.StoreFlushes.WithLabelValues("error").Inc()
	} else {
		metrics.StoreFlushes.WithLabelValues("ok").Inc()
	}
	metrics.PendingWrites.Set(float64(s.jobs.Store.Pending()))
	metrics.Players.Set(float64(s.jobs.Store.Len()))
	return err
}

// Sweep settles blackjack hands left idle past the timeout.
func (s *Scheduler) Sweep(ctx context.Context) error {
	if s.jobs.Casino == nil {
		return nil
	}
	if n := s.jobs.Casino.SweepExpired(ctx, time.Now()); n > 0 {
		s.log.Info("expired blackjack hands settled", "count", n)
	}
	metrics.OpenBlackjack.Set(float64(s.jobs.Casino.OpenSessions()))
	return nil
}

// Backup uploads a snapshot of the whole store.
func (s *Scheduler) Backup(ctx context.Context) error {
	_, err := s.jobs.Backup.Upload(ctx, s.jobs.Store.Snapshot())
	return err
}
