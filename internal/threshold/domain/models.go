// Package domain defines the per-state economic nexus threshold rules.
package domain

import "errors"

// Period selects the measurement window a state evaluates sales against.
type Period string

const (
	PeriodCalendarYear    Period = "calendar_year"
	PeriodRolling12Months Period = "rolling_12_months"
	// PeriodPreviousOrCurrent evaluates whichever of the rolling-12-month or
	// current calendar-year-to-date totals is larger. Conservative reading of
	// "previous or current calendar year" statutes.
	PeriodPreviousOrCurrent Period = "previous_or_current_calendar_year"
)

// Combinator joins the dollar and transaction-count thresholds.
type Combinator string

const (
	CombinatorOr  Combinator = "or"
	CombinatorAnd Combinator = "and"
)

var (
	ErrInvalidStateCode  = errors.New("invalid_state_code")
	ErrInvalidPeriod     = errors.New("invalid_period")
	ErrInvalidCombinator = errors.New("invalid_combinator")
	ErrInvalidThreshold  = errors.New("invalid_threshold")
)

// Rule is the authoritative evaluation source for one state or territory.
// Rules are immutable once the registry is built.
type Rule struct {
	StateCode string `mapstructure:"state_code" json:"state_code"`
	StateName string `mapstructure:"state_name" json:"state_name"`

	// HasSalesTax is false for states without a state-level sales tax;
	// those states always classify safe regardless of volume.
	HasSalesTax bool `mapstructure:"has_sales_tax" json:"has_sales_tax"`

	// SalesThresholdCents is nil when the state has no dollar trigger.
	SalesThresholdCents *int64 `mapstructure:"sales_threshold_cents" json:"sales_threshold_cents,omitempty"`

	// TransactionThreshold is nil when the state has no count trigger.
	TransactionThreshold *int `mapstructure:"transaction_threshold" json:"transaction_threshold,omitempty"`

	Period     Period     `mapstructure:"period" json:"period"`
	Combinator Combinator `mapstructure:"combinator" json:"combinator"`

	// RequireBothForExceeded applies only to "and" states: when true, the
	// exceeded classification needs both configured percentages at 100 or
	// above instead of the max of the two.
	RequireBothForExceeded bool `mapstructure:"require_both_for_exceeded" json:"require_both_for_exceeded"`
}

func (r Rule) Validate() error {
	if len(r.StateCode) != 2 {
		return ErrInvalidStateCode
	}
	if !r.HasSalesTax {
		return nil
	}
	switch r.Period {
	case PeriodCalendarYear, PeriodRolling12Months, PeriodPreviousOrCurrent:
	default:
		return ErrInvalidPeriod
	}
	switch r.Combinator {
	case CombinatorOr, CombinatorAnd:
	default:
		return ErrInvalidCombinator
	}
	if r.SalesThresholdCents == nil && r.TransactionThreshold == nil {
		return ErrInvalidThreshold
	}
	if r.SalesThresholdCents != nil && *r.SalesThresholdCents <= 0 {
		return ErrInvalidThreshold
	}
	if r.TransactionThreshold != nil && *r.TransactionThreshold <= 0 {
		return ErrInvalidThreshold
	}
	return nil
}
