package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/claytondb/salestaxjar-sub000/internal/clock"
	"github.com/claytondb/salestaxjar-sub000/internal/config"
	summarydomain "github.com/claytondb/salestaxjar-sub000/internal/summary/domain"
	summaryrepo "github.com/claytondb/salestaxjar-sub000/internal/summary/repository"
	txdomain "github.com/claytondb/salestaxjar-sub000/internal/transaction/domain"
	txrepo "github.com/claytondb/salestaxjar-sub000/internal/transaction/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type aggregatorFixture struct {
	aggregator summarydomain.Aggregator
	db         *gorm.DB
	node       *snowflake.Node
	clock      *clock.FakeClock
	summaries  summarydomain.Repository
}

func setupAggregator(t *testing.T, now time.Time) *aggregatorFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, db.AutoMigrate(&txdomain.Transaction{}, &summarydomain.SalesSummary{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(now)
	summaries := summaryrepo.NewRepository(db)

	aggregator := NewAggregator(Params{
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       fake,
		TxRepo:      txrepo.NewRepository(db),
		SummaryRepo: summaries,
		Config:      config.Config{RecomputeWorkers: 2},
	})

	return &aggregatorFixture{
		aggregator: aggregator,
		db:         db,
		node:       node,
		clock:      fake,
		summaries:  summaries,
	}
}

func (f *aggregatorFixture) seedTransaction(t *testing.T, userID snowflake.ID, state string, orderDate time.Time, totalCents int64, status txdomain.Status, channel string) {
	t.Helper()
	row := txdomain.Transaction{
		ID:                 f.node.Generate(),
		UserID:             userID,
		Channel:            channel,
		ChannelOrderID:     f.node.Generate().String(),
		OrderDate:          orderDate,
		SubtotalCents:      totalCents - totalCents/10,
		TaxCents:           totalCents / 10,
		TotalCents:         totalCents,
		DestinationState:   state,
		DestinationCountry: "US",
		Status:             status,
	}
	require.NoError(t, f.db.Create(&row).Error)
}

func (f *aggregatorFixture) bucket(t *testing.T, userID snowflake.ID, state string, period summarydomain.Period) *summarydomain.SalesSummary {
	t.Helper()
	var rows []summarydomain.SalesSummary
	err := f.db.Where("user_id = ? AND state_code = ? AND period = ?", userID, state, period).Find(&rows).Error
	require.NoError(t, err)
	if len(rows) == 0 {
		return nil
	}
	require.Len(t, rows, 1)
	return &rows[0]
}

func TestRecomputeBucketAggregatesQualifyingRows(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	f := setupAggregator(t, now)
	userID := f.node.Generate()
	june := time.Date(2025, time.June, 5, 12, 0, 0, 0, time.UTC)

	f.seedTransaction(t, userID, "CA", june, 10_000, txdomain.StatusImported, "shopify")
	f.seedTransaction(t, userID, "CA", june.AddDate(0, 0, 2), 25_000, txdomain.StatusImported, "amazon")
	f.seedTransaction(t, userID, "CA", june.AddDate(0, 0, 4), 5_000, txdomain.StatusImported, "shopify")
	// Excluded rows: wrong lifecycle state, foreign destination, other state,
	// adjacent month.
	f.seedTransaction(t, userID, "CA", june, 99_000, txdomain.StatusCancelled, "shopify")
	f.seedTransaction(t, userID, "CA", june, 77_000, txdomain.StatusRefunded, "amazon")
	f.seedTransaction(t, userID, "TX", june, 50_000, txdomain.StatusImported, "shopify")
	f.seedTransaction(t, userID, "CA", june.AddDate(0, 1, 0), 12_000, txdomain.StatusImported, "shopify")
	foreign := txdomain.Transaction{
		ID:                 f.node.Generate(),
		UserID:             userID,
		Channel:            "shopify",
		ChannelOrderID:     "intl-1",
		OrderDate:          june,
		TotalCents:         40_000,
		DestinationState:   "CA",
		DestinationCountry: "GB",
		Status:             txdomain.StatusImported,
	}
	require.NoError(t, f.db.Create(&foreign).Error)

	require.NoError(t, f.aggregator.RecomputeBucket(context.Background(), userID, "CA", "2025-06"))

	row := f.bucket(t, userID, "CA", "2025-06")
	require.NotNil(t, row)
	assert.Equal(t, int64(40_000), row.TotalSalesCents)
	assert.Equal(t, 3, row.OrderCount)
	assert.Equal(t, []string{"amazon", "shopify"}, []string(row.Channels))
	assert.WithinDuration(t, now, row.UpdatedAt, time.Second)
}

func TestRecomputeBucketIdempotent(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	f := setupAggregator(t, now)
	userID := f.node.Generate()
	f.seedTransaction(t, userID, "WA", time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), 8_000, txdomain.StatusImported, "etsy")

	for i := 0; i < 3; i++ {
		require.NoError(t, f.aggregator.RecomputeBucket(context.Background(), userID, "WA", "2025-06"))
	}

	var count int64
	require.NoError(t, f.db.Model(&summarydomain.SalesSummary{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	row := f.bucket(t, userID, "WA", "2025-06")
	require.NotNil(t, row)
	assert.Equal(t, int64(8_000), row.TotalSalesCents)
	assert.Equal(t, 1, row.OrderCount)
}

func TestRecomputeBucketRemovesEmptiedBucket(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	f := setupAggregator(t, now)
	userID := f.node.Generate()
	orderDate := time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC)
	f.seedTransaction(t, userID, "FL", orderDate, 20_000, txdomain.StatusImported, "shopify")

	require.NoError(t, f.aggregator.RecomputeBucket(context.Background(), userID, "FL", "2025-05"))
	require.NotNil(t, f.bucket(t, userID, "FL", "2025-05"))

	// The importer later marks the only order cancelled; the bucket must
	// disappear rather than linger at stale totals.
	require.NoError(t, f.db.Model(&txdomain.Transaction{}).
		Where("user_id = ?", userID).
		Update("status", txdomain.StatusCancelled).Error)

	require.NoError(t, f.aggregator.RecomputeBucket(context.Background(), userID, "FL", "2025-05"))
	assert.Nil(t, f.bucket(t, userID, "FL", "2025-05"))
}

func TestRecomputeBucketValidation(t *testing.T) {
	f := setupAggregator(t, time.Now().UTC())
	ctx := context.Background()

	assert.ErrorIs(t, f.aggregator.RecomputeBucket(ctx, 0, "CA", "2025-06"), summarydomain.ErrInvalidUser)
	assert.ErrorIs(t, f.aggregator.RecomputeBucket(ctx, f.node.Generate(), "CAL", "2025-06"), summarydomain.ErrInvalidState)
	assert.ErrorIs(t, f.aggregator.RecomputeBucket(ctx, f.node.Generate(), "CA", "June 2025"), summarydomain.ErrInvalidPeriod)
}

func TestRecomputeForAffectedStatesCoversFullHistory(t *testing.T) {
	now := time.Date(2025, time.April, 20, 0, 0, 0, 0, time.UTC)
	f := setupAggregator(t, now)
	userID := f.node.Generate()

	f.seedTransaction(t, userID, "CA", time.Date(2025, time.January, 3, 0, 0, 0, 0, time.UTC), 15_000, txdomain.StatusImported, "shopify")
	f.seedTransaction(t, userID, "CA", time.Date(2025, time.March, 8, 0, 0, 0, 0, time.UTC), 30_000, txdomain.StatusImported, "shopify")
	f.seedTransaction(t, userID, "TX", time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), 9_000, txdomain.StatusImported, "amazon")

	// Lowercase and duplicate inputs normalize away.
	require.NoError(t, f.aggregator.RecomputeForAffectedStates(context.Background(), userID, []string{" ca ", "CA", "tx"}))

	assert.NotNil(t, f.bucket(t, userID, "CA", "2025-01"))
	assert.Nil(t, f.bucket(t, userID, "CA", "2025-02"))
	assert.NotNil(t, f.bucket(t, userID, "CA", "2025-03"))
	assert.Nil(t, f.bucket(t, userID, "CA", "2025-04"))
	assert.NotNil(t, f.bucket(t, userID, "TX", "2025-02"))
}

func TestRecomputeForAffectedStatesValidation(t *testing.T) {
	f := setupAggregator(t, time.Now().UTC())
	ctx := context.Background()
	userID := f.node.Generate()

	assert.ErrorIs(t, f.aggregator.RecomputeForAffectedStates(ctx, 0, []string{"CA"}), summarydomain.ErrInvalidUser)
	assert.ErrorIs(t, f.aggregator.RecomputeForAffectedStates(ctx, userID, nil), summarydomain.ErrNoAffectedStates)
	assert.ErrorIs(t, f.aggregator.RecomputeForAffectedStates(ctx, userID, []string{"bogus"}), summarydomain.ErrNoAffectedStates)

	// A state with no transactions at all is a quiet no-op.
	require.NoError(t, f.aggregator.RecomputeForAffectedStates(ctx, userID, []string{"WY"}))
	var count int64
	require.NoError(t, f.db.Model(&summarydomain.SalesSummary{}).Count(&count).Error)
	assert.Zero(t, count)
}
