package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	// Upsert writes the bucket by its natural key, fully replacing any
	// previous values.
	Upsert(ctx context.Context, row *SalesSummary) error

	// DeleteBucket removes the bucket row if present. Used when a recompute
	// finds zero qualifying transactions for a bucket that previously had
	// activity.
	DeleteBucket(ctx context.Context, userID snowflake.ID, stateCode string, period Period) error

	// FindByPeriods fetches every bucket for the user whose period is in the
	// given key set, in one read.
	FindByPeriods(ctx context.Context, userID snowflake.ID, periods []Period) ([]SalesSummary, error)

	// DeleteBefore purges buckets older than the period, for data retention.
	DeleteBefore(ctx context.Context, before Period) (int64, error)
}
