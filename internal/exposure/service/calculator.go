package service

import (
	"context"

	"github.com/claytondb/salestaxjar-sub000/internal/clock"
	exposuredomain "github.com/claytondb/salestaxjar-sub000/internal/exposure/domain"
	obsmetrics "github.com/claytondb/salestaxjar-sub000/internal/observability/metrics"
	summarydomain "github.com/claytondb/salestaxjar-sub000/internal/summary/domain"
	thresholddomain "github.com/claytondb/salestaxjar-sub000/internal/threshold/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	pctApproaching = 75
	pctWarning     = 90
	pctExceeded    = 100
)

type Params struct {
	fx.In

	Log         *zap.Logger
	Clock       clock.Clock
	Registry    thresholddomain.Registry
	SummaryRepo summarydomain.Repository
	Metrics     *obsmetrics.Metrics `optional:"true"`
}

type calculator struct {
	log         *zap.Logger
	clock       clock.Clock
	registry    thresholddomain.Registry
	summaryRepo summarydomain.Repository
	metrics     *obsmetrics.Metrics
}

func NewCalculator(p Params) exposuredomain.Calculator {
	return &calculator{
		log:         p.Log.Named("exposure.calculator"),
		clock:       p.Clock,
		registry:    p.Registry,
		summaryRepo: p.SummaryRepo,
		metrics:     p.Metrics,
	}
}

type windowTotals struct {
	rollingSalesCents  int64
	rollingTxCount     int
	calendarSalesCents int64
	calendarTxCount    int
}

func (c *calculator) Compute(ctx context.Context, userID snowflake.ID) (map[string]exposuredomain.Snapshot, error) {
	if userID == 0 {
		return nil, summarydomain.ErrInvalidUser
	}

	now := c.clock.Now()
	rolling := summarydomain.RollingWindow(now)
	calendar := summarydomain.CalendarWindow(now)

	rows, err := c.summaryRepo.FindByPeriods(ctx, userID, summarydomain.UnionPeriods(rolling, calendar))
	if err != nil {
		return nil, err
	}

	rollingSet := periodSet(rolling)
	calendarSet := periodSet(calendar)

	perState := make(map[string]*windowTotals)
	for _, row := range rows {
		totals := perState[row.StateCode]
		if totals == nil {
			totals = &windowTotals{}
			perState[row.StateCode] = totals
		}
		if _, ok := rollingSet[row.Period]; ok {
			totals.rollingSalesCents += row.TotalSalesCents
			totals.rollingTxCount += row.OrderCount
		}
		if _, ok := calendarSet[row.Period]; ok {
			totals.calendarSalesCents += row.TotalSalesCents
			totals.calendarTxCount += row.OrderCount
		}
	}

	out := make(map[string]exposuredomain.Snapshot, len(perState))
	for stateCode, totals := range perState {
		rule, ok := c.registry.Get(stateCode)
		if !ok {
			// Unknown state codes are excluded at this boundary, not fatal.
			c.log.Debug("skipping unknown state code", zap.String("state", stateCode))
			continue
		}
		out[stateCode] = buildSnapshot(rule, *totals)
	}

	if c.metrics != nil {
		c.metrics.ExposureRuns.Inc()
	}
	return out, nil
}

func buildSnapshot(rule thresholddomain.Rule, totals windowTotals) exposuredomain.Snapshot {
	snap := exposuredomain.Snapshot{
		StateCode:          rule.StateCode,
		StateName:          rule.StateName,
		RollingSalesCents:  totals.rollingSalesCents,
		RollingTxCount:     totals.rollingTxCount,
		CalendarSalesCents: totals.calendarSalesCents,
		CalendarTxCount:    totals.calendarTxCount,
		Status:             exposuredomain.StatusSafe,
	}

	if !rule.HasSalesTax {
		return snap
	}

	switch rule.Period {
	case thresholddomain.PeriodRolling12Months:
		snap.EvalSalesCents = totals.rollingSalesCents
		snap.EvalTxCount = totals.rollingTxCount
	case thresholddomain.PeriodCalendarYear:
		snap.EvalSalesCents = totals.calendarSalesCents
		snap.EvalTxCount = totals.calendarTxCount
	default:
		// Previous-or-current: element-wise max of the two windows.
		snap.EvalSalesCents = max64(totals.rollingSalesCents, totals.calendarSalesCents)
		snap.EvalTxCount = maxInt(totals.rollingTxCount, totals.calendarTxCount)
	}

	snap.SalesThresholdCents = rule.SalesThresholdCents
	snap.TransactionThreshold = rule.TransactionThreshold

	if rule.SalesThresholdCents != nil {
		snap.SalesPct = float64(snap.EvalSalesCents) / float64(*rule.SalesThresholdCents) * 100
	}
	if rule.TransactionThreshold != nil {
		snap.TxPct = float64(snap.EvalTxCount) / float64(*rule.TransactionThreshold) * 100
	}
	snap.HighestPct = snap.SalesPct
	if snap.TxPct > snap.HighestPct {
		snap.HighestPct = snap.TxPct
	}

	snap.Status = classify(rule, snap)
	return snap
}

func classify(rule thresholddomain.Rule, snap exposuredomain.Snapshot) exposuredomain.Status {
	status := exposuredomain.StatusSafe
	switch {
	case snap.HighestPct >= pctExceeded:
		status = exposuredomain.StatusExceeded
	case snap.HighestPct >= pctWarning:
		status = exposuredomain.StatusWarning
	case snap.HighestPct >= pctApproaching:
		status = exposuredomain.StatusApproaching
	}

	// Strict "and" states may demand both configured triggers at 100 before
	// reporting exceeded; the crossing stays visible as a warning.
	if status == exposuredomain.StatusExceeded &&
		rule.Combinator == thresholddomain.CombinatorAnd &&
		rule.RequireBothForExceeded &&
		!bothExceeded(rule, snap) {
		status = exposuredomain.StatusWarning
	}
	return status
}

func bothExceeded(rule thresholddomain.Rule, snap exposuredomain.Snapshot) bool {
	if rule.SalesThresholdCents != nil && snap.SalesPct < pctExceeded {
		return false
	}
	if rule.TransactionThreshold != nil && snap.TxPct < pctExceeded {
		return false
	}
	return true
}

func periodSet(periods []summarydomain.Period) map[summarydomain.Period]struct{} {
	set := make(map[summarydomain.Period]struct{}, len(periods))
	for _, p := range periods {
		set[p] = struct{}{}
	}
	return set
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
