// Package period models the one-calendar-month aggregation window and the
// selector that owns which month is being viewed.
package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lachiem1/monthlens/internal/errs"
)

const (
	minYear = 1
	maxYear = 9999
)

// Period is one calendar month. Month is zero-based (January = 0).
type Period struct {
	year  int
	month int
}

// New validates (year, zero-based month). Out-of-range months are rejected,
// never wrapped.
func New(year, monthIndex int) (Period, error) {
	if monthIndex < 0 || monthIndex > 11 {
		return Period{}, errs.NewInvalidPeriodError(fmt.Sprintf("month index %d out of range 0..11", monthIndex))
	}
	if year < minYear || year > maxYear {
		return Period{}, errs.NewInvalidPeriodError(fmt.Sprintf("year %d out of range %d..%d", year, minYear, maxYear))
	}
	return Period{year: year, month: monthIndex}, nil
}

// MustNew is New for literals known to be valid.
func MustNew(year, monthIndex int) Period {
	p, err := New(year, monthIndex)
	if err != nil {
		panic(err)
	}
	return p
}

// Current returns the period containing now, using now's own location.
func Current(now time.Time) Period {
	return Period{year: now.Year(), month: int(now.Month()) - 1}
}

// Parse reads the "YYYY-MM" form produced by String.
func Parse(s string) (Period, error) {
	s = strings.TrimSpace(s)
	year, month, ok := strings.Cut(s, "-")
	if !ok || len(year) != 4 || len(month) != 2 {
		return Period{}, errs.NewInvalidPeriodError(fmt.Sprintf("period %q must look like YYYY-MM", s))
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return Period{}, errs.NewInvalidPeriodError(fmt.Sprintf("period %q has a non-numeric year", s))
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return Period{}, errs.NewInvalidPeriodError(fmt.Sprintf("period %q has a non-numeric month", s))
	}
	return New(y, m-1)
}

func (p Period) IsZero() bool { return p.year == 0 }

func (p Period) Year() int { return p.year }

// MonthIndex is the zero-based month.
func (p Period) MonthIndex() int { return p.month }

func (p Period) Month() time.Month { return time.Month(p.month + 1) }

// Start is the first day of the month at UTC midnight.
func (p Period) Start() time.Time {
	return time.Date(p.year, p.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// End is the last day of the month, taken as day 0 of the following month.
func (p Period) End() time.Time {
	return time.Date(p.year, p.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}

// Days is the number of calendar days in the month.
func (p Period) Days() int { return p.End().Day() }

// Shift moves by n months, rolling the year over in either direction.
func (p Period) Shift(n int) Period {
	total := p.year*12 + p.month + n
	year := total / 12
	month := total % 12
	if month < 0 {
		month += 12
		year--
	}
	return Period{year: year, month: month}
}

func (p Period) Prev() Period { return p.Shift(-1) }

func (p Period) Next() Period { return p.Shift(1) }

// Adjacent reports whether p and q are consecutive months in either order.
func (p Period) Adjacent(q Period) bool {
	return p.Prev() == q || q.Prev() == p
}

// Before reports whether p is an earlier month than q.
func (p Period) Before(q Period) bool {
	if p.year != q.year {
		return p.year < q.year
	}
	return p.month < q.month
}

// Contains compares by calendar day in t's own location.
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.year && int(t.Month())-1 == p.month
}

// String renders "YYYY-MM".
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.year, p.month+1)
}

// Label renders "March 2024".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", p.Month().String(), p.year)
}
