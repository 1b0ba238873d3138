// Package domain contains threshold crossing alerts. An alert row is a
// permanent record that a (user, state, level) crossing was observed; rows
// are never revoked when sales later drop.
package domain

import (
	"fmt"
	"time"

	exposuredomain "github.com/claytondb/salestaxjar-sub000/internal/exposure/domain"
	"github.com/bwmarrin/snowflake"
)

// Level is the alert severity, ordered approaching < warning < exceeded.
type Level string

const (
	LevelApproaching Level = "approaching"
	LevelWarning     Level = "warning"
	LevelExceeded    Level = "exceeded"
)

func (l Level) Rank() int {
	switch l {
	case LevelApproaching:
		return 1
	case LevelWarning:
		return 2
	case LevelExceeded:
		return 3
	default:
		return 0
	}
}

// RequiredLevels maps an exposure status to the complete set of levels that
// must exist, ascending by severity. An exceeded state implies the lower
// crossings happened even when no run observed them individually.
func RequiredLevels(status exposuredomain.Status) []Level {
	switch status {
	case exposuredomain.StatusExceeded:
		return []Level{LevelApproaching, LevelWarning, LevelExceeded}
	case exposuredomain.StatusWarning:
		return []Level{LevelApproaching, LevelWarning}
	case exposuredomain.StatusApproaching:
		return []Level{LevelApproaching}
	default:
		return nil
	}
}

// Alert is one crossing record per (user, state, level).
type Alert struct {
	ID snowflake.ID `gorm:"primaryKey"`

	UserID    snowflake.ID `gorm:"column:user_id;not null;index;uniqueIndex:uq_nexus_alerts_level,priority:1"`
	StateCode string       `gorm:"column:state_code;type:text;not null;uniqueIndex:uq_nexus_alerts_level,priority:2"`
	Level     Level        `gorm:"type:text;not null;uniqueIndex:uq_nexus_alerts_level,priority:3"`

	SalesAmountCents     int64  `gorm:"column:sales_amount_cents;not null"`
	SalesThresholdCents  *int64 `gorm:"column:sales_threshold_cents"`
	TxCount              int    `gorm:"column:tx_count;not null"`
	TransactionThreshold *int   `gorm:"column:transaction_threshold"`

	Percent float64 `gorm:"not null"`
	Message string  `gorm:"type:text;not null"`

	Read      bool `gorm:"not null;default:false"`
	EmailSent bool `gorm:"column:email_sent;not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
}

func (Alert) TableName() string { return "nexus_alerts" }

// BuildMessage renders the user-facing alert text for a crossing.
func BuildMessage(level Level, snap exposuredomain.Snapshot) string {
	sales := float64(snap.EvalSalesCents) / 100
	switch level {
	case LevelExceeded:
		return fmt.Sprintf("Your sales into %s have exceeded the economic nexus threshold (%.0f%% of threshold, $%.2f in sales). You may be required to register and collect sales tax.",
			snap.StateName, snap.HighestPct, sales)
	case LevelWarning:
		return fmt.Sprintf("Your sales into %s are at %.0f%% of the economic nexus threshold ($%.2f in sales).",
			snap.StateName, snap.HighestPct, sales)
	default:
		return fmt.Sprintf("Your sales into %s are approaching the economic nexus threshold (%.0f%% of threshold, $%.2f in sales).",
			snap.StateName, snap.HighestPct, sales)
	}
}
