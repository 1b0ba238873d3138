package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/claytondb/salestaxjar-sub000/internal/config"
	thresholddomain "github.com/claytondb/salestaxjar-sub000/internal/threshold/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuiltinTableCoversAllStates(t *testing.T) {
	registry, err := NewRegistry(config.Config{}, zap.NewNop())
	require.NoError(t, err)

	rules := registry.All()
	// 50 states plus DC.
	assert.Len(t, rules, 51)

	seen := make(map[string]struct{}, len(rules))
	for _, rule := range rules {
		_, dup := seen[rule.StateCode]
		assert.False(t, dup, "duplicate rule for %s", rule.StateCode)
		seen[rule.StateCode] = struct{}{}
		require.NoError(t, rule.Validate(), "rule %s", rule.StateCode)
	}
}

func TestBuiltinNoSalesTaxStates(t *testing.T) {
	registry, err := NewRegistry(config.Config{}, zap.NewNop())
	require.NoError(t, err)

	for _, code := range []string{"AK", "DE", "MT", "NH", "OR"} {
		rule, ok := registry.Get(code)
		require.True(t, ok, code)
		assert.False(t, rule.HasSalesTax, code)
		assert.Nil(t, rule.SalesThresholdCents, code)
	}

	ca, ok := registry.Get("CA")
	require.True(t, ok)
	assert.True(t, ca.HasSalesTax)
	require.NotNil(t, ca.SalesThresholdCents)
	assert.Equal(t, int64(50_000_000), *ca.SalesThresholdCents)
	assert.Nil(t, ca.TransactionThreshold)

	ny, ok := registry.Get("NY")
	require.True(t, ok)
	assert.Equal(t, thresholddomain.CombinatorAnd, ny.Combinator)
	assert.Equal(t, thresholddomain.PeriodRolling12Months, ny.Period)
}

func TestGetNormalizesStateCode(t *testing.T) {
	registry, err := NewRegistry(config.Config{}, zap.NewNop())
	require.NoError(t, err)

	rule, ok := registry.Get(" tx ")
	require.True(t, ok)
	assert.Equal(t, "TX", rule.StateCode)

	_, ok = registry.Get("ZZ")
	assert.False(t, ok)
}

func TestRegistryAppliesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	yaml := `rules:
  - state_code: ca
    state_name: California
    has_sales_tax: true
    sales_threshold_cents: 25000000
    period: calendar_year
    combinator: or
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	registry, err := NewRegistry(config.Config{ThresholdRulesPath: path}, zap.NewNop())
	require.NoError(t, err)

	ca, ok := registry.Get("CA")
	require.True(t, ok)
	require.NotNil(t, ca.SalesThresholdCents)
	assert.Equal(t, int64(25_000_000), *ca.SalesThresholdCents)
	assert.Equal(t, thresholddomain.PeriodCalendarYear, ca.Period)

	// Untouched states keep the built-in rule.
	tx, ok := registry.Get("TX")
	require.True(t, ok)
	assert.Equal(t, int64(50_000_000), *tx.SalesThresholdCents)
}

func TestRegistryRejectsInvalidOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	yaml := `rules:
  - state_code: ca
    state_name: California
    has_sales_tax: true
    period: fiscal_year
    combinator: or
    sales_threshold_cents: 100
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	_, err := NewRegistry(config.Config{ThresholdRulesPath: path}, zap.NewNop())
	assert.ErrorIs(t, err, thresholddomain.ErrInvalidPeriod)

	_, err = NewRegistry(config.Config{ThresholdRulesPath: filepath.Join(t.TempDir(), "missing.yaml")}, zap.NewNop())
	assert.Error(t, err)
}
