package service

import (
	thresholddomain "github.com/claytondb/salestaxjar-sub000/internal/threshold/domain"
)

func cents(dollars int64) *int64 {
	v := dollars * 100
	return &v
}

func count(n int) *int {
	return &n
}

// builtinRules is the shipped state threshold table. Most states follow the
// Wayfair-era default of $100,000 or 200 transactions measured over the
// previous or current calendar year; exceptions are encoded per state.
func builtinRules() []thresholddomain.Rule {
	or := thresholddomain.CombinatorOr
	and := thresholddomain.CombinatorAnd
	calendar := thresholddomain.PeriodCalendarYear
	rolling := thresholddomain.PeriodRolling12Months
	prevOrCurr := thresholddomain.PeriodPreviousOrCurrent

	std := func(code, name string) thresholddomain.Rule {
		return thresholddomain.Rule{
			StateCode:            code,
			StateName:            name,
			HasSalesTax:          true,
			SalesThresholdCents:  cents(100_000),
			TransactionThreshold: count(200),
			Period:               prevOrCurr,
			Combinator:           or,
		}
	}
	noTax := func(code, name string) thresholddomain.Rule {
		return thresholddomain.Rule{StateCode: code, StateName: name, HasSalesTax: false}
	}

	return []thresholddomain.Rule{
		noTax("AK", "Alaska"),
		{StateCode: "AL", StateName: "Alabama", HasSalesTax: true, SalesThresholdCents: cents(250_000), Period: prevOrCurr, Combinator: or},
		std("AR", "Arkansas"),
		{StateCode: "AZ", StateName: "Arizona", HasSalesTax: true, SalesThresholdCents: cents(100_000), Period: prevOrCurr, Combinator: or},
		{StateCode: "CA", StateName: "California", HasSalesTax: true, SalesThresholdCents: cents(500_000), Period: prevOrCurr, Combinator: or},
		{StateCode: "CO", StateName: "Colorado", HasSalesTax: true, SalesThresholdCents: cents(100_000), Period: prevOrCurr, Combinator: or},
		{StateCode: "CT", StateName: "Connecticut", HasSalesTax: true, SalesThresholdCents: cents(100_000), TransactionThreshold: count(200), Period: rolling, Combinator: and},
		{StateCode: "DC", StateName: "District of Columbia", HasSalesTax: true, SalesThresholdCents: cents(100_000), TransactionThreshold: count(200), Period: prevOrCurr, Combinator: or},
		noTax("DE", "Delaware"),
		{StateCode: "FL", StateName: "Florida", HasSalesTax: true, SalesThresholdCents: cents(100_000), Period: calendar, Combinator: or},
		std("GA", "Georgia"),
		std("HI", "Hawaii"),
		{StateCode: "IA", StateName: "Iowa", HasSalesTax: true, SalesThresholdCents: cents(100_000), Period: prevOrCurr, Combinator: or},
		{StateCode: "ID", StateName: "Idaho", HasSalesTax: true, SalesThresholdCents: cents(100_000), Period: calendar, Combinator: or},
		{StateCode: "IL", StateName: "Illinois", HasSalesTax: true, SalesThresholdCents: cents(100_000), TransactionThreshold: count(200), Period: rolling, Combinator: or},
		{StateCode: "IN", StateName: "Indiana", HasSalesTax: true, SalesThresholdCents: cents(100_000), Period: prevOrCurr, Combinator: or},
		{StateCode: "KS", StateName: "Kansas", HasSalesTax: true, SalesThresholdCents: cents(100_000), Period: calendar, Combinator: or},
		std("KY", "Kentucky"),
		{StateCode: "LA", StateName: "Louisiana", HasSalesTax: true, SalesThresholdCents: cents(100_000), Period: prevOrCurr, Combinator: or},
		{StateCode: "MA", StateName: "Massachusetts", HasSalesTax: true, SalesThresholdCents: cents(100_000), Period: calendar, Combinator: or},
		std("MD", "Maryland"),
		{StateCode: "ME", StateName: "Maine", HasSalesTax: true, SalesThresholdCents: cents(100_000), Period: calendar, Combinator: or},
		std("MI", "Michigan"),
		{StateCode: "MN", StateName: "Minnesota", HasSalesTax: true, SalesThresholdCents: cents(100_000), TransactionThreshold: count(200), Period: rolling, Combinator: or},
		{StateCode: "MO", StateName: "Missouri", HasSalesTax: true, SalesThresholdCents: cents(100_000), Period: rolling, Combinator: or},
		{StateCode: "MS", StateName: "Mississippi", HasSalesTax: true, SalesThresholdCents: cents(250_000), Period: rolling, Combinator: or},
		noTax("MT", "Montana"),
		std("NC", "North Carolina"),
		{StateCode: "ND", StateName: "North Dakota", HasSalesTax: true, SalesThresholdCents: cents(100_000), Period: calendar, Combinator: or},
		std("NE", "Nebraska"),
		noTax("NH", "New Hampshire"),
		std("NJ", "New Jersey"),
		{StateCode: "NM", StateName: "New Mexico", HasSalesTax: true, SalesThresholdCents: cents(100_000), Period: calendar, Combinator: or},
		{StateCode: "NV", StateName: "Nevada", HasSalesTax: true, SalesThresholdCents: cents(100_000), TransactionThreshold: count(200), Period: prevOrCurr, Combinator: or},
		{StateCode: "NY", StateName: "New York", HasSalesTax: true, SalesThresholdCents: cents(500_000), TransactionThreshold: count(100), Period: rolling, Combinator: and},
		{StateCode: "OH", StateName: "Ohio", HasSalesTax: true, SalesThresholdCents: cents(100_000), TransactionThreshold: count(200), Period: prevOrCurr, Combinator: or},
		{StateCode: "OK", StateName: "Oklahoma", HasSalesTax: true, SalesThresholdCents: cents(100_000), Period: prevOrCurr, Combinator: or},
		noTax("OR", "Oregon"),
		{StateCode: "PA", StateName: "Pennsylvania", HasSalesTax: true, SalesThresholdCents: cents(100_000), Period: rolling, Combinator: or},
		std("RI", "Rhode Island"),
		{StateCode: "SC", StateName: "South Carolina", HasSalesTax: true, SalesThresholdCents: cents(100_000), Period: calendar, Combinator: or},
		std("SD", "South Dakota"),
		{StateCode: "TN", StateName: "Tennessee", HasSalesTax: true, SalesThresholdCents: cents(100_000), Period: rolling, Combinator: or},
		{StateCode: "TX", StateName: "Texas", HasSalesTax: true, SalesThresholdCents: cents(500_000), Period: rolling, Combinator: or},
		std("UT", "Utah"),
		std("VA", "Virginia"),
		{StateCode: "VT", StateName: "Vermont", HasSalesTax: true, SalesThresholdCents: cents(100_000), TransactionThreshold: count(200), Period: rolling, Combinator: or},
		{StateCode: "WA", StateName: "Washington", HasSalesTax: true, SalesThresholdCents: cents(100_000), Period: calendar, Combinator: or},
		std("WI", "Wisconsin"),
		std("WV", "West Virginia"),
		std("WY", "Wyoming"),
	}
}
