// Package domain contains the per-state-month sales summary buckets.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

var (
	ErrInvalidUser      = errors.New("invalid_user")
	ErrInvalidState     = errors.New("invalid_state")
	ErrInvalidPeriod    = errors.New("invalid_period")
	ErrNoAffectedStates = errors.New("no_affected_states")
)

// SalesSummary is one aggregation bucket per (user, state, month). The row is
// always a full recomputation of the qualifying transactions in its month,
// never an incrementally patched running total. Rows are absent, not zero,
// when the bucket has no qualifying activity.
type SalesSummary struct {
	ID snowflake.ID `gorm:"primaryKey"`

	UserID    snowflake.ID `gorm:"column:user_id;not null;uniqueIndex:uq_sales_summaries_bucket,priority:1"`
	StateCode string       `gorm:"column:state_code;type:text;not null;uniqueIndex:uq_sales_summaries_bucket,priority:2"`
	Period    Period       `gorm:"column:period;type:text;not null;uniqueIndex:uq_sales_summaries_bucket,priority:3"`

	TotalSalesCents   int64 `gorm:"column:total_sales_cents;not null"`
	TaxableSalesCents int64 `gorm:"column:taxable_sales_cents;not null"`
	TaxCollectedCents int64 `gorm:"column:tax_collected_cents;not null"`
	OrderCount        int   `gorm:"column:order_count;not null"`

	Channels datatypes.JSONSlice[string] `gorm:"column:channels"`

	UpdatedAt time.Time `gorm:"not null"`
}

func (SalesSummary) TableName() string { return "sales_summaries" }
