package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/claytondb/salestaxjar-sub000/internal/clock"
	"github.com/claytondb/salestaxjar-sub000/internal/config"
	obsmetrics "github.com/claytondb/salestaxjar-sub000/internal/observability/metrics"
	summarydomain "github.com/claytondb/salestaxjar-sub000/internal/summary/domain"
	txdomain "github.com/claytondb/salestaxjar-sub000/internal/transaction/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Params struct {
	fx.In

	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	TxRepo      txdomain.Repository
	SummaryRepo summarydomain.Repository
	Config      config.Config
	Metrics     *obsmetrics.Metrics `optional:"true"`
}

type aggregator struct {
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	txRepo      txdomain.Repository
	summaryRepo summarydomain.Repository
	workers     int
	metrics     *obsmetrics.Metrics
}

func NewAggregator(p Params) summarydomain.Aggregator {
	workers := p.Config.RecomputeWorkers
	if workers <= 0 {
		workers = 4
	}
	return &aggregator{
		log:         p.Log.Named("summary.aggregator"),
		genID:       p.GenID,
		clock:       p.Clock,
		txRepo:      p.TxRepo,
		summaryRepo: p.SummaryRepo,
		workers:     workers,
		metrics:     p.Metrics,
	}
}

func (a *aggregator) RecomputeBucket(ctx context.Context, userID snowflake.ID, stateCode string, period summarydomain.Period) error {
	if userID == 0 {
		return summarydomain.ErrInvalidUser
	}
	stateCode = strings.ToUpper(strings.TrimSpace(stateCode))
	if len(stateCode) != 2 {
		return summarydomain.ErrInvalidState
	}
	from, err := period.Start()
	if err != nil {
		return summarydomain.ErrInvalidPeriod
	}
	to := from.AddDate(0, 1, 0)

	totals, err := a.txRepo.SumBucket(ctx, userID, stateCode, from, to)
	if err != nil {
		return fmt.Errorf("sum bucket %s/%s: %w", stateCode, period, err)
	}

	// Sparse storage: no row for an empty bucket. A previously written row
	// is removed so cancellations and refunds self-correct.
	if totals.OrderCount == 0 {
		return a.summaryRepo.DeleteBucket(ctx, userID, stateCode, period)
	}

	row := &summarydomain.SalesSummary{
		ID:                a.genID.Generate(),
		UserID:            userID,
		StateCode:         stateCode,
		Period:            period,
		TotalSalesCents:   totals.TotalSalesCents,
		TaxableSalesCents: totals.TaxableSalesCents,
		TaxCollectedCents: totals.TaxCollectedCents,
		OrderCount:        totals.OrderCount,
		Channels:          datatypes.NewJSONSlice(totals.Channels),
		UpdatedAt:         a.clock.Now(),
	}
	if err := a.summaryRepo.Upsert(ctx, row); err != nil {
		return fmt.Errorf("upsert bucket %s/%s: %w", stateCode, period, err)
	}

	if a.metrics != nil {
		a.metrics.BucketsRecomputed.Inc()
	}
	return nil
}

type bucketKey struct {
	StateCode string
	Period    summarydomain.Period
}

func (a *aggregator) RecomputeForAffectedStates(ctx context.Context, userID snowflake.ID, stateCodes []string) error {
	if userID == 0 {
		return summarydomain.ErrInvalidUser
	}
	states := normalizeStates(stateCodes)
	if len(states) == 0 {
		return summarydomain.ErrNoAffectedStates
	}

	earliest, err := a.txRepo.EarliestOrderDate(ctx, userID, states)
	if err != nil {
		return fmt.Errorf("earliest order date: %w", err)
	}
	if earliest == nil {
		return nil
	}

	// Full history for every touched state: retroactive edits anywhere in
	// the range self-correct at the cost of extra recomputes.
	periods := summarydomain.PeriodsBetween(summarydomain.PeriodOf(*earliest), summarydomain.PeriodOf(a.clock.Now()))

	worklist := make([]bucketKey, 0, len(states)*len(periods))
	for _, state := range states {
		for _, period := range periods {
			worklist = append(worklist, bucketKey{StateCode: state, Period: period})
		}
	}

	failed := a.recomputeAll(ctx, userID, worklist)
	if len(failed) == 0 {
		return nil
	}

	// One retry for the failed subset; transient store errors usually clear.
	a.log.Warn("retrying failed buckets",
		zap.String("user_id", userID.String()),
		zap.Int("count", len(failed)),
	)
	failed = a.recomputeAll(ctx, userID, failed)
	if len(failed) == 0 {
		return nil
	}

	if a.metrics != nil {
		a.metrics.BucketFailures.Add(float64(len(failed)))
	}
	errs := make([]error, 0, len(failed))
	for _, key := range failed {
		errs = append(errs, fmt.Errorf("bucket %s/%s failed", key.StateCode, key.Period))
	}
	return errors.Join(errs...)
}

// recomputeAll runs the worklist on a bounded worker pool and returns the
// keys that failed.
func (a *aggregator) recomputeAll(ctx context.Context, userID snowflake.ID, worklist []bucketKey) []bucketKey {
	sem := make(chan struct{}, a.workers)
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed []bucketKey
	)

	for _, key := range worklist {
		if ctx.Err() != nil {
			mu.Lock()
			failed = append(failed, key)
			mu.Unlock()
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(key bucketKey) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := a.RecomputeBucket(ctx, userID, key.StateCode, key.Period); err != nil {
				a.log.Warn("bucket recompute failed",
					zap.Error(err),
					zap.String("user_id", userID.String()),
					zap.String("state", key.StateCode),
					zap.String("period", string(key.Period)),
				)
				mu.Lock()
				failed = append(failed, key)
				mu.Unlock()
			}
		}(key)
	}
	wg.Wait()

	sort.Slice(failed, func(i, j int) bool {
		if failed[i].StateCode != failed[j].StateCode {
			return failed[i].StateCode < failed[j].StateCode
		}
		return failed[i].Period < failed[j].Period
	})
	return failed
}

func normalizeStates(stateCodes []string) []string {
	seen := make(map[string]struct{}, len(stateCodes))
	out := make([]string, 0, len(stateCodes))
	for _, code := range stateCodes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if len(code) != 2 {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
