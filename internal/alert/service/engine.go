package service

import (
	"context"
	"fmt"
	"sort"

	alertdomain "github.com/claytondb/salestaxjar-sub000/internal/alert/domain"
	"github.com/claytondb/salestaxjar-sub000/internal/clock"
	exposuredomain "github.com/claytondb/salestaxjar-sub000/internal/exposure/domain"
	obsmetrics "github.com/claytondb/salestaxjar-sub000/internal/observability/metrics"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type EngineParams struct {
	fx.In

	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    alertdomain.Repository
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type engine struct {
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    alertdomain.Repository
	metrics *obsmetrics.Metrics
}

func NewEngine(p EngineParams) alertdomain.Engine {
	return &engine{
		log:     p.Log.Named("alert.engine"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (e *engine) Reconcile(ctx context.Context, userID snowflake.ID, snapshots map[string]exposuredomain.Snapshot) ([]alertdomain.Alert, error) {
	if userID == 0 {
		return nil, alertdomain.ErrInvalidUser
	}

	existing, err := e.repo.ExistingLevels(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load existing alert levels: %w", err)
	}

	states := make([]string, 0, len(snapshots))
	for state := range snapshots {
		states = append(states, state)
	}
	sort.Strings(states)

	now := e.clock.Now()
	var newlyCreated []alertdomain.Alert

	for _, state := range states {
		snap := snapshots[state]
		required := alertdomain.RequiredLevels(snap.Status)
		if len(required) == 0 {
			continue
		}

		// Track only the highest created level per state so a multi-level
		// crossing between two runs dispatches one notification.
		var top *alertdomain.Alert

		for _, level := range required {
			key := alertdomain.LevelKey{StateCode: state, Level: level}
			if _, ok := existing[key]; ok {
				continue
			}

			alert := alertdomain.Alert{
				ID:                   e.genID.Generate(),
				UserID:               userID,
				StateCode:            state,
				Level:                level,
				SalesAmountCents:     snap.EvalSalesCents,
				SalesThresholdCents:  snap.SalesThresholdCents,
				TxCount:              snap.EvalTxCount,
				TransactionThreshold: snap.TransactionThreshold,
				Percent:              snap.HighestPct,
				Message:              alertdomain.BuildMessage(level, snap),
				CreatedAt:            now,
			}

			created, err := e.repo.InsertIgnoreDuplicate(ctx, &alert)
			if err != nil {
				return newlyCreated, fmt.Errorf("insert alert %s/%s: %w", state, level, err)
			}
			if !created {
				// Lost a race to a concurrent reconciler; treat as existing.
				continue
			}

			if e.metrics != nil {
				e.metrics.AlertsCreated.WithLabelValues(string(level)).Inc()
			}
			e.log.Info("nexus alert created",
				zap.String("user_id", userID.String()),
				zap.String("state", state),
				zap.String("level", string(level)),
				zap.Float64("percent", snap.HighestPct),
			)

			if top == nil || alert.Level.Rank() > top.Level.Rank() {
				copied := alert
				top = &copied
			}
		}

		if top != nil {
			newlyCreated = append(newlyCreated, *top)
		}
	}

	return newlyCreated, nil
}
