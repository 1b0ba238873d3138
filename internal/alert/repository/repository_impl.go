package repository

import (
	"context"

	alertdomain "github.com/claytondb/salestaxjar-sub000/internal/alert/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) alertdomain.Repository {
	return &repository{db: db}
}

func (r *repository) InsertIgnoreDuplicate(ctx context.Context, alert *alertdomain.Alert) (bool, error) {
	// The unique constraint on (user_id, state_code, level) makes the
	// check-then-insert race impossible: concurrent reconcilers collapse to
	// one winner and the rest see RowsAffected == 0.
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "state_code"},
			{Name: "level"},
		},
		DoNothing: true,
	}).Create(alert)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

type levelRow struct {
	StateCode string            `gorm:"column:state_code"`
	Level     alertdomain.Level `gorm:"column:level"`
}

func (r *repository) ExistingLevels(ctx context.Context, userID snowflake.ID) (map[alertdomain.LevelKey]struct{}, error) {
	var rows []levelRow
	err := r.db.WithContext(ctx).Raw(
		`SELECT state_code, level FROM nexus_alerts WHERE user_id = ?`,
		userID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[alertdomain.LevelKey]struct{}, len(rows))
	for _, row := range rows {
		out[alertdomain.LevelKey{StateCode: row.StateCode, Level: row.Level}] = struct{}{}
	}
	return out, nil
}

func (r *repository) List(ctx context.Context, userID snowflake.ID, unreadOnly bool, limit int) ([]alertdomain.Alert, error) {
	stmt := r.db.WithContext(ctx).
		Model(&alertdomain.Alert{}).
		Where("user_id = ?", userID)

	if unreadOnly {
		stmt = stmt.Where("read = ?", false)
	}
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}

	var rows []alertdomain.Alert
	if err := stmt.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) UnreadCount(ctx context.Context, userID snowflake.ID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&alertdomain.Alert{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *repository) MarkRead(ctx context.Context, userID snowflake.ID, alertIDs []snowflake.ID) (int64, error) {
	stmt := r.db.WithContext(ctx).
		Model(&alertdomain.Alert{}).
		Where("user_id = ? AND read = ?", userID, false)
	if len(alertIDs) > 0 {
		stmt = stmt.Where("id IN ?", alertIDs)
	}
	result := stmt.Update("read", true)
	return result.RowsAffected, result.Error
}

func (r *repository) MarkEmailSent(ctx context.Context, alertID snowflake.ID) error {
	return r.db.WithContext(ctx).
		Model(&alertdomain.Alert{}).
		Where("id = ?", alertID).
		Update("email_sent", true).Error
}
