// Package domain holds the minimal seller account surface the nexus core
// needs: recipient identity and the notification preference flag. Account
// management itself lives outside this service.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var ErrNotFound = errors.New("not_found")

type User struct {
	ID    snowflake.ID `gorm:"primaryKey"`
	Email string       `gorm:"type:text;not null"`
	Name  string       `gorm:"type:text;not null"`

	// NotifyThresholdAlerts gates outbound dispatch only; alert records are
	// created regardless.
	NotifyThresholdAlerts bool `gorm:"column:notify_threshold_alerts;not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (User) TableName() string { return "users" }

type Repository interface {
	FindByID(ctx context.Context, id snowflake.ID) (*User, error)
}
