// Package scheduler runs the periodic exposure sweep. Month boundaries shift
// both evaluation windows without any transaction arriving, so exposure must
// be re-evaluated on a clock, not only on imports.
package scheduler

import (
	"context"
	"time"

	"github.com/claytondb/salestaxjar-sub000/internal/clock"
	"github.com/claytondb/salestaxjar-sub000/internal/nexus"
	summarydomain "github.com/claytondb/salestaxjar-sub000/internal/summary/domain"
	txdomain "github.com/claytondb/salestaxjar-sub000/internal/transaction/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log          *zap.Logger
	Clock        clock.Clock
	TxRepo       txdomain.Repository
	SummaryRepo  summarydomain.Repository
	Orchestrator nexus.Orchestrator
	Config       Config `optional:"true"`
}

type Scheduler struct {
	log          *zap.Logger
	cfg          Config
	clock        clock.Clock
	txRepo       txdomain.Repository
	summaryRepo  summarydomain.Repository
	orchestrator nexus.Orchestrator
}

func New(p Params) *Scheduler {
	return &Scheduler{
		log:          p.Log.Named("scheduler"),
		cfg:          p.Config.withDefaults(),
		clock:        p.Clock,
		txRepo:       p.TxRepo,
		summaryRepo:  p.SummaryRepo,
		orchestrator: p.Orchestrator,
	}
}

func (s *Scheduler) RunForever(ctx context.Context) {
	if s.cfg.SweepInterval <= 0 {
		s.log.Info("sweep disabled")
		return
	}
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("sweep failed", zap.Error(err))
		}
	}
}

// RunOnce sweeps every user with transaction history, then applies retention.
// One user's failure does not stop the sweep.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	start := s.clock.Now()

	userIDs, err := s.txRepo.UserIDsWithActivity(ctx)
	if err != nil {
		return err
	}

	var failed int
	for _, userID := range userIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		userCtx, cancel := context.WithTimeout(ctx, s.cfg.UserTimeout)
		_, err := s.orchestrator.SweepUser(userCtx, userID)
		cancel()
		if err != nil {
			failed++
			s.log.Warn("user sweep failed",
				zap.Int64("user_id", int64(userID)), zap.Error(err))
		}
	}

	s.applyRetention(ctx)

	s.log.Info("sweep complete",
		zap.Int("users", len(userIDs)),
		zap.Int("failed", failed),
		zap.Duration("elapsed", s.clock.Now().Sub(start)))
	return nil
}

func (s *Scheduler) applyRetention(ctx context.Context) {
	if s.cfg.SummaryRetention <= 0 {
		return
	}
	now := s.clock.Now()
	cutoff := summarydomain.PeriodOf(now.Add(-s.cfg.SummaryRetention))

	// Never purge inside the rolling window, whatever retention says.
	if floor := summarydomain.RollingWindow(now)[0]; cutoff > floor {
		cutoff = floor
	}

	deleted, err := s.summaryRepo.DeleteBefore(ctx, cutoff)
	if err != nil {
		s.log.Warn("retention purge failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		s.log.Info("retention purge",
			zap.String("before_period", string(cutoff)),
			zap.Int64("deleted", deleted))
	}
}
