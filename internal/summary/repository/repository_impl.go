package repository

import (
	"context"

	summarydomain "github.com/claytondb/salestaxjar-sub000/internal/summary/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) summarydomain.Repository {
	return &repository{db: db}
}

func (r *repository) Upsert(ctx context.Context, row *summarydomain.SalesSummary) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "state_code"},
			{Name: "period"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_sales_cents",
			"taxable_sales_cents",
			"tax_collected_cents",
			"order_count",
			"channels",
			"updated_at",
		}),
	}).Create(row).Error
}

func (r *repository) DeleteBucket(ctx context.Context, userID snowflake.ID, stateCode string, period summarydomain.Period) error {
	return r.db.WithContext(ctx).Exec(
		`DELETE FROM sales_summaries WHERE user_id = ? AND state_code = ? AND period = ?`,
		userID,
		stateCode,
		period,
	).Error
}

func (r *repository) FindByPeriods(ctx context.Context, userID snowflake.ID, periods []summarydomain.Period) ([]summarydomain.SalesSummary, error) {
	if len(periods) == 0 {
		return nil, nil
	}
	var rows []summarydomain.SalesSummary
	err := r.db.WithContext(ctx).
		Model(&summarydomain.SalesSummary{}).
		Where("user_id = ? AND period IN ?", userID, periods).
		Order("state_code ASC, period ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) DeleteBefore(ctx context.Context, before summarydomain.Period) (int64, error) {
	result := r.db.WithContext(ctx).Exec(
		`DELETE FROM sales_summaries WHERE period < ?`,
		before,
	)
	return result.RowsAffected, result.Error
}
