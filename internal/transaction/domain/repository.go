package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// BucketTotals is the aggregate of qualifying transactions for one
// (user, state, month) bucket.
type BucketTotals struct {
	TotalSalesCents   int64
	TaxableSalesCents int64
	TaxCollectedCents int64
	OrderCount        int
	Channels          []string
}

type Repository interface {
	// SumBucket aggregates qualifying rows for the user/state inside
	// [from, to). Malformed or foreign-destination rows are excluded here,
	// never surfaced as errors.
	SumBucket(ctx context.Context, userID snowflake.ID, stateCode string, from, to time.Time) (BucketTotals, error)

	// EarliestOrderDate returns the oldest order date the user has in any of
	// the given states, across all lifecycle states, or nil when none exist.
	EarliestOrderDate(ctx context.Context, userID snowflake.ID, stateCodes []string) (*time.Time, error)

	// UserIDsWithActivity lists distinct users that have any transactions,
	// for the periodic sweep.
	UserIDsWithActivity(ctx context.Context) ([]snowflake.ID, error)

	// StatesWithActivity lists distinct destination states for one user.
	StatesWithActivity(ctx context.Context, userID snowflake.ID) ([]string, error)
}
