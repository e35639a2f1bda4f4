package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lachiem1/monthlens/internal/errs"
	"github.com/lachiem1/monthlens/internal/period"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// ID is an opaque identifier. The service sends ids as JSON numbers or
// strings; both decode to the same text.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Date is a calendar day at UTC midnight; comparisons are by day, not instant.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts "YYYY-MM-DD" or an ISO timestamp, keeping only the date
// part before 'T' so no time zone conversion can move the day.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) Equal(o Date) bool { return d.Time.Equal(o.Time) }

// CategoryRef is the category relation some services embed in each record.
type CategoryRef struct {
	ID    ID     `json:"category_id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Record is one expense as returned by the service. Malformed is set when
// the amount or date could not be read; such a record contributes nothing
// to totals but is still listed.
type Record struct {
	ID              ID
	Amount          decimal.Decimal
	CategoryID      ID
	Category        *CategoryRef
	PaymentMethodID ID
	Date            Date
	Description     string
	Notes           string
	Recurring       bool
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	Malformed       bool
}

// CategoryKey is the grouping key; empty for uncategorized records.
func (r Record) CategoryKey() ID {
	if r.CategoryID != "" {
		return r.CategoryID
	}
	if r.Category != nil {
		return r.Category.ID
	}
	return ""
}

// Collection is one fetch result for a period.
type Collection struct {
	Period        period.Period
	Records       []Record
	ReportedTotal *decimal.Decimal
	ReportedCount *int
}

func (c Collection) Len() int { return len(c.Records) }

// Filters narrows a fetch beyond the period's date range.
type Filters struct {
	CategoryID ID
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	Recurring  *bool
}

type Category struct {
	ID        ID     `json:"category_id"`
	Name      string `json:"name"`
	Icon      string `json:"icon,omitempty"`
	Color     string `json:"color,omitempty"`
	IsDefault bool   `json:"is_default"`
	IsIncome  bool   `json:"is_income"`
}

type PaymentMethod struct {
	ID       ID     `json:"payment_method_id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	BankName string `json:"bank_name,omitempty"`
}

// Draft carries the client-writable fields of a record.
type Draft struct {
	Amount          decimal.Decimal
	CategoryID      ID
	PaymentMethodID ID
	Date            Date
	Description     string
	Notes           string
	Recurring       bool
}

// DraftFrom copies the writable fields of r, e.g. to toggle one of them.
func DraftFrom(r Record) Draft {
	return Draft{
		Amount:          r.Amount,
		CategoryID:      r.CategoryKey(),
		PaymentMethodID: r.PaymentMethodID,
		Date:            r.Date,
		Description:     r.Description,
		Notes:           r.Notes,
		Recurring:       r.Recurring,
	}
}

func (d Draft) Validate() error {
	if !d.Amount.IsPositive() {
		return errs.NewValidationError("amount must be greater than zero")
	}
	if d.Date.IsZero() {
		return errs.NewValidationError("date is required")
	}
	if len(d.Description) > 200 {
		return errs.NewValidationError("description too long (max 200 characters)")
	}
	return nil
}
