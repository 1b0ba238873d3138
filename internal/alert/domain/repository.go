package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// LevelKey identifies one existing (state, level) alert.
type LevelKey struct {
	StateCode string
	Level     Level
}

type Repository interface {
	// InsertIgnoreDuplicate creates the alert unless the (user, state,
	// level) row already exists. Returns whether a row was created; a
	// duplicate is a no-op, not an error.
	InsertIgnoreDuplicate(ctx context.Context, alert *Alert) (bool, error)

	// ExistingLevels returns every (state, level) key the user already has,
	// in one query.
	ExistingLevels(ctx context.Context, userID snowflake.ID) (map[LevelKey]struct{}, error)

	List(ctx context.Context, userID snowflake.ID, unreadOnly bool, limit int) ([]Alert, error)
	UnreadCount(ctx context.Context, userID snowflake.ID) (int64, error)

	// MarkRead flags the given alerts as read; an empty id list flags all of
	// the user's alerts. Returns the number of rows updated.
	MarkRead(ctx context.Context, userID snowflake.ID, alertIDs []snowflake.ID) (int64, error)

	// MarkEmailSent records successful notification dispatch.
	MarkEmailSent(ctx context.Context, alertID snowflake.ID) error
}
