// Package domain contains the imported commerce transaction records the
// nexus core consumes. Rows are written by the channel import subsystem and
// are read-only here.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Status is the lifecycle state stamped by the importer.
type Status string

const (
	StatusImported  Status = "imported"
	StatusCancelled Status = "cancelled"
	StatusRefunded  Status = "refunded"
)

// Transaction is one immutable fact per imported order.
type Transaction struct {
	ID     snowflake.ID `gorm:"primaryKey"`
	UserID snowflake.ID `gorm:"column:user_id;not null;index;uniqueIndex:uq_transactions_channel_order,priority:1"`

	Channel        string `gorm:"type:text;not null;uniqueIndex:uq_transactions_channel_order,priority:2"`
	ChannelOrderID string `gorm:"column:channel_order_id;type:text;not null;uniqueIndex:uq_transactions_channel_order,priority:3"`

	OrderDate time.Time `gorm:"column:order_date;not null;index"`

	SubtotalCents int64 `gorm:"column:subtotal_cents;not null"`
	TaxCents      int64 `gorm:"column:tax_cents;not null"`
	TotalCents    int64 `gorm:"column:total_cents;not null"`

	DestinationState   string `gorm:"column:destination_state;type:text;not null;index"`
	DestinationCountry string `gorm:"column:destination_country;type:text;not null"`

	Status Status `gorm:"type:text;not null;default:imported"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Transaction) TableName() string { return "transactions" }

// Qualifies reports whether the row counts toward nexus totals for a state.
func (t Transaction) Qualifies() bool {
	return t.Status == StatusImported && t.DestinationCountry == "US"
}
