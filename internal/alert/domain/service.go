package domain

import (
	"context"

	exposuredomain "github.com/claytondb/salestaxjar-sub000/internal/exposure/domain"
	"github.com/bwmarrin/snowflake"
)

// Engine reconciles computed exposure against recorded crossings.
type Engine interface {
	// Reconcile creates every missing required (state, level) alert and
	// returns only the single highest newly created alert per state.
	// Running it twice with unchanged exposure creates nothing the second
	// time.
	Reconcile(ctx context.Context, userID snowflake.ID, snapshots map[string]exposuredomain.Snapshot) ([]Alert, error)
}

type ListRequest struct {
	UserID     snowflake.ID
	UnreadOnly bool
	Limit      int
}

type ListResponse struct {
	Alerts      []Alert `json:"alerts"`
	UnreadCount int64   `json:"unread_count"`
}

type MarkReadRequest struct {
	UserID   snowflake.ID
	AlertIDs []snowflake.ID
}

// Service is the presentation-facing alert surface.
type Service interface {
	ListAlerts(ctx context.Context, req ListRequest) (ListResponse, error)
	MarkRead(ctx context.Context, req MarkReadRequest) (int64, error)
}
