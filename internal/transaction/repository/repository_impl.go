package repository

import (
	"context"
	"errors"
	"time"

	txdomain "github.com/claytondb/salestaxjar-sub000/internal/transaction/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) txdomain.Repository {
	return &repository{db: db}
}

type bucketRow struct {
	TotalSalesCents   int64 `gorm:"column:total_sales_cents"`
	TaxableSalesCents int64 `gorm:"column:taxable_sales_cents"`
	TaxCollectedCents int64 `gorm:"column:tax_collected_cents"`
	OrderCount        int   `gorm:"column:order_count"`
}

func (r *repository) SumBucket(ctx context.Context, userID snowflake.ID, stateCode string, from, to time.Time) (txdomain.BucketTotals, error) {
	var row bucketRow
	err := r.db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(total_cents), 0) AS total_sales_cents,
		        COALESCE(SUM(subtotal_cents), 0) AS taxable_sales_cents,
		        COALESCE(SUM(tax_cents), 0) AS tax_collected_cents,
		        COUNT(*) AS order_count
		 FROM transactions
		 WHERE user_id = ?
		   AND destination_state = ?
		   AND destination_country = 'US'
		   AND status = ?
		   AND order_date >= ? AND order_date < ?`,
		userID,
		stateCode,
		txdomain.StatusImported,
		from,
		to,
	).Scan(&row).Error
	if err != nil {
		return txdomain.BucketTotals{}, err
	}

	totals := txdomain.BucketTotals{
		TotalSalesCents:   row.TotalSalesCents,
		TaxableSalesCents: row.TaxableSalesCents,
		TaxCollectedCents: row.TaxCollectedCents,
		OrderCount:        row.OrderCount,
	}
	if totals.OrderCount == 0 {
		return totals, nil
	}

	var channels []string
	err = r.db.WithContext(ctx).Raw(
		`SELECT DISTINCT channel
		 FROM transactions
		 WHERE user_id = ?
		   AND destination_state = ?
		   AND destination_country = 'US'
		   AND status = ?
		   AND order_date >= ? AND order_date < ?
		 ORDER BY channel ASC`,
		userID,
		stateCode,
		txdomain.StatusImported,
		from,
		to,
	).Scan(&channels).Error
	if err != nil {
		return txdomain.BucketTotals{}, err
	}
	totals.Channels = channels

	return totals, nil
}

func (r *repository) EarliestOrderDate(ctx context.Context, userID snowflake.ID, stateCodes []string) (*time.Time, error) {
	if len(stateCodes) == 0 {
		return nil, nil
	}
	// A MIN() aggregate loses the column's declared type, so the sqlite
	// driver hands the result back as a string. Selecting the oldest row
	// through the model keeps the typed scan and makes the empty case an
	// ErrRecordNotFound instead of a NULL.
	var tx txdomain.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND destination_state IN ?", userID, stateCodes).
		Order("order_date ASC").
		Limit(1).
		Take(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	earliest := tx.OrderDate
	return &earliest, nil
}

func (r *repository) UserIDsWithActivity(ctx context.Context) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := r.db.WithContext(ctx).Raw(
		`SELECT DISTINCT user_id FROM transactions ORDER BY user_id ASC`,
	).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repository) StatesWithActivity(ctx context.Context, userID snowflake.ID) ([]string, error) {
	var states []string
	err := r.db.WithContext(ctx).Raw(
		`SELECT DISTINCT destination_state
		 FROM transactions
		 WHERE user_id = ? AND destination_country = 'US'
		 ORDER BY destination_state ASC`,
		userID,
	).Scan(&states).Error
	if err != nil {
		return nil, err
	}
	return states, nil
}
