// Package domain defines derived nexus exposure snapshots. Snapshots are
// computed on demand and never persisted.
package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Status is the four-level exposure classification.
type Status string

const (
	StatusSafe        Status = "safe"
	StatusApproaching Status = "approaching"
	StatusWarning     Status = "warning"
	StatusExceeded    Status = "exceeded"
)

// Rank orders statuses by severity; higher is worse.
func (s Status) Rank() int {
	switch s {
	case StatusApproaching:
		return 1
	case StatusWarning:
		return 2
	case StatusExceeded:
		return 3
	default:
		return 0
	}
}

// Snapshot is one state's exposure for a user at evaluation time.
type Snapshot struct {
	StateCode string `json:"state_code"`
	StateName string `json:"state_name"`

	RollingSalesCents  int64 `json:"rolling_sales_cents"`
	RollingTxCount     int   `json:"rolling_tx_count"`
	CalendarSalesCents int64 `json:"calendar_sales_cents"`
	CalendarTxCount    int   `json:"calendar_tx_count"`

	// Eval* are the governing totals selected by the state's rule period.
	EvalSalesCents int64 `json:"eval_sales_cents"`
	EvalTxCount    int   `json:"eval_tx_count"`

	SalesThresholdCents  *int64 `json:"sales_threshold_cents,omitempty"`
	TransactionThreshold *int   `json:"transaction_threshold,omitempty"`

	SalesPct   float64 `json:"sales_pct"`
	TxPct      float64 `json:"tx_pct"`
	HighestPct float64 `json:"highest_pct"`

	Status Status `json:"status"`
}

// Calculator computes per-state exposure snapshots for one user.
type Calculator interface {
	Compute(ctx context.Context, userID snowflake.ID) (map[string]Snapshot, error)
}
