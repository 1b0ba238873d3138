package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Aggregator recomputes sales summary buckets from raw transactions.
type Aggregator interface {
	// RecomputeBucket rebuilds one (user, state, month) bucket from scratch.
	// Idempotent: recomputing an unchanged bucket yields identical values.
	RecomputeBucket(ctx context.Context, userID snowflake.ID, stateCode string, period Period) error

	// RecomputeForAffectedStates rebuilds every bucket for the given states
	// from the user's earliest transaction month through the current month.
	// Individual bucket failures are collected and retried once; the joined
	// remainder is returned without blocking sibling buckets.
	RecomputeForAffectedStates(ctx context.Context, userID snowflake.ID, stateCodes []string) error
}
