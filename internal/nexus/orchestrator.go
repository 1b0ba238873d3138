// Package nexus runs the end-to-end pipeline: recompute monthly buckets for
// the states a batch touched, evaluate exposure across every state with
// activity, reconcile alerts, then hand new crossings to the notifier.
package nexus

import (
	"context"
	"fmt"

	alertdomain "github.com/claytondb/salestaxjar-sub000/internal/alert/domain"
	"github.com/claytondb/salestaxjar-sub000/internal/clock"
	exposuredomain "github.com/claytondb/salestaxjar-sub000/internal/exposure/domain"
	"github.com/claytondb/salestaxjar-sub000/internal/notification"
	obsmetrics "github.com/claytondb/salestaxjar-sub000/internal/observability/metrics"
	summarydomain "github.com/claytondb/salestaxjar-sub000/internal/summary/domain"
	txdomain "github.com/claytondb/salestaxjar-sub000/internal/transaction/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Orchestrator drives one user's pipeline run.
type Orchestrator interface {
	// ProcessBatch handles an import-completed signal: the given states had
	// transactions added, changed, or cancelled. Returns the alerts newly
	// created by this run (highest level per state).
	ProcessBatch(ctx context.Context, userID snowflake.ID, stateCodes []string) ([]alertdomain.Alert, error)

	// SweepUser recomputes every state the user has activity in. Used by the
	// scheduled sweep to catch drift and month boundaries.
	SweepUser(ctx context.Context, userID snowflake.ID) ([]alertdomain.Alert, error)
}

type Params struct {
	fx.In

	Log        *zap.Logger
	Clock      clock.Clock
	TxRepo     txdomain.Repository
	Aggregator summarydomain.Aggregator
	Calculator exposuredomain.Calculator
	Engine     alertdomain.Engine
	Notifier   notification.Dispatcher
	Metrics    *obsmetrics.Metrics `optional:"true"`
}

type orchestrator struct {
	log        *zap.Logger
	clock      clock.Clock
	txRepo     txdomain.Repository
	aggregator summarydomain.Aggregator
	calculator exposuredomain.Calculator
	engine     alertdomain.Engine
	notifier   notification.Dispatcher
	metrics    *obsmetrics.Metrics
}

func NewOrchestrator(p Params) Orchestrator {
	return &orchestrator{
		log:        p.Log.Named("nexus"),
		clock:      p.Clock,
		txRepo:     p.TxRepo,
		aggregator: p.Aggregator,
		calculator: p.Calculator,
		engine:     p.Engine,
		notifier:   p.Notifier,
		metrics:    p.Metrics,
	}
}

func (o *orchestrator) ProcessBatch(ctx context.Context, userID snowflake.ID, stateCodes []string) ([]alertdomain.Alert, error) {
	if len(stateCodes) == 0 {
		return nil, summarydomain.ErrNoAffectedStates
	}
	return o.run(ctx, userID, stateCodes)
}

func (o *orchestrator) SweepUser(ctx context.Context, userID snowflake.ID) ([]alertdomain.Alert, error) {
	states, err := o.txRepo.StatesWithActivity(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list states with activity: %w", err)
	}
	if len(states) == 0 {
		return nil, nil
	}
	return o.run(ctx, userID, states)
}

// run executes the four pipeline stages in order. The recompute stage is
// joined before exposure reads the buckets; notification is fire-and-forget.
func (o *orchestrator) run(ctx context.Context, userID snowflake.ID, stateCodes []string) ([]alertdomain.Alert, error) {
	start := o.clock.Now()

	if err := o.aggregator.RecomputeForAffectedStates(ctx, userID, stateCodes); err != nil {
		return nil, fmt.Errorf("recompute summaries: %w", err)
	}

	snapshots, err := o.calculator.Compute(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("compute exposure: %w", err)
	}

	created, err := o.engine.Reconcile(ctx, userID, snapshots)
	if err != nil {
		return nil, fmt.Errorf("reconcile alerts: %w", err)
	}

	if len(created) > 0 {
		// context.WithoutCancel: dispatch must survive the request that
		// triggered the run. The dispatcher applies its own timeout per send.
		go o.notifier.Dispatch(context.WithoutCancel(ctx), userID, created)
	}

	elapsed := o.clock.Now().Sub(start)
	if o.metrics != nil {
		o.metrics.PipelineDuration.Observe(elapsed.Seconds())
	}
	o.log.Info("pipeline run complete",
		zap.Int64("user_id", int64(userID)),
		zap.Int("affected_states", len(stateCodes)),
		zap.Int("evaluated_states", len(snapshots)),
		zap.Int("new_alerts", len(created)),
		zap.Duration("elapsed", elapsed))

	return created, nil
}
