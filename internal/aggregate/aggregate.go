// Package aggregate reduces record collections into view models. Every
// function here is pure: no I/O, no shared state, and malformed records
// degrade to a zero contribution instead of failing the reduction.
package aggregate

import (
	"github.com/lachiem1/monthlens/internal/records"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Summary is the period summary. Average is nil when Count is zero.
type Summary struct {
	Total   decimal.Decimal
	Count   int
	Average *decimal.Decimal
}

// Comparison is a summary plus its change against the previous period.
// PercentChange is nil when the previous total is zero, which is distinct
// from a zero change.
type Comparison struct {
	Summary
	Previous      Summary
	Delta         decimal.Decimal
	PercentChange *decimal.Decimal
	CountDelta    int
}

func Summarize(rs []records.Record) Summary {
	total := decimal.Zero
	for _, r := range rs {
		total = total.Add(contribution(r))
	}
	s := Summary{Total: total, Count: len(rs)}
	if s.Count > 0 {
		avg := total.Div(decimal.NewFromInt(int64(s.Count)))
		s.Average = &avg
	}
	return s
}

func SummarizeWithComparison(current, previous []records.Record) Comparison {
	cur := Summarize(current)
	prev := Summarize(previous)
	c := Comparison{
		Summary:    cur,
		Previous:   prev,
		Delta:      cur.Total.Sub(prev.Total),
		CountDelta: cur.Count - prev.Count,
	}
	if !prev.Total.IsZero() {
		pct := c.Delta.Mul(hundred).Div(prev.Total)
		c.PercentChange = &pct
	}
	return c
}

func contribution(r records.Record) decimal.Decimal {
	if r.Malformed || !r.Amount.IsPositive() {
		return decimal.Zero
	}
	return r.Amount
}
