package records

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// wireRecord is a record as the service encodes it. Amount and date stay raw
// so one bad field marks the record instead of failing the whole response.
type wireRecord struct {
	ID              ID              `json:"expense_id"`
	AltID           ID              `json:"id"`
	Amount          json.RawMessage `json:"amount"`
	Category        ID              `json:"category"`
	CategoryID      ID              `json:"category_id"`
	ExpenseCategory *CategoryRef    `json:"expense_category"`
	PaymentMethodID ID              `json:"payment_method_id"`
	ExpenseDate     string          `json:"expense_date"`
	Description     string          `json:"description"`
	Notes           string          `json:"notes"`
	IsRecurring     bool            `json:"is_recurring"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
}

func (w wireRecord) record() Record {
	r := Record{
		ID:              w.ID,
		CategoryID:      w.CategoryID,
		Category:        w.ExpenseCategory,
		PaymentMethodID: w.PaymentMethodID,
		Description:     w.Description,
		Notes:           w.Notes,
		Recurring:       w.IsRecurring,
	}
	if r.ID == "" {
		r.ID = w.AltID
	}
	if r.CategoryID == "" {
		r.CategoryID = w.Category
	}

	amount, ok := parseAmount(w.Amount)
	if ok && amount.IsPositive() {
		r.Amount = amount
	} else {
		r.Malformed = true
	}

	date, err := ParseDate(w.ExpenseDate)
	if err != nil {
		r.Malformed = true
	} else {
		r.Date = date
	}

	if t, ok := parseTimestamp(w.CreatedAt); ok {
		r.CreatedAt = t
	}
	if t, ok := parseTimestamp(w.UpdatedAt); ok {
		r.UpdatedAt = &t
	}
	return r
}

// parseAmount accepts a JSON number or a numeric string.
func parseAmount(raw json.RawMessage) (decimal.Decimal, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, false
	}
	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, false
		}
		text = strings.TrimSpace(s)
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// wireDraft is the request body for create and update.
type wireDraft struct {
	Amount          json.Number `json:"amount"`
	CategoryID      *string     `json:"category_id"`
	PaymentMethodID *string     `json:"payment_method_id"`
	ExpenseDate     string      `json:"expense_date"`
	Description     string      `json:"description"`
	Notes           string      `json:"notes,omitempty"`
	IsRecurring     bool        `json:"is_recurring"`
}

func newWireDraft(d Draft) wireDraft {
	w := wireDraft{
		Amount:      json.Number(d.Amount.String()),
		ExpenseDate: d.Date.String(),
		Description: strings.TrimSpace(d.Description),
		Notes:       strings.TrimSpace(d.Notes),
		IsRecurring: d.Recurring,
	}
	if d.CategoryID != "" {
		s := string(d.CategoryID)
		w.CategoryID = &s
	}
	if d.PaymentMethodID != "" {
		s := string(d.PaymentMethodID)
		w.PaymentMethodID = &s
	}
	return w
}
