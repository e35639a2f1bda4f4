package records

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/lachiem1/monthlens/internal/errs"
	"github.com/lachiem1/monthlens/internal/logger"
	"github.com/lachiem1/monthlens/internal/period"
)

const expensesPath = "/expenses"

// Fetch calls GET /expenses for the inclusive date range of p.
func (c *Client) Fetch(ctx context.Context, p period.Period, filters Filters) (Collection, error) {
	if p.IsZero() {
		return Collection{}, errs.NewInvalidPeriodError("period is not set")
	}

	query := url.Values{}
	query.Set("start_date", p.Start().Format(dateLayout))
	query.Set("end_date", p.End().Format(dateLayout))
	applyFilters(query, filters)

	env, err := c.do(ctx, http.MethodGet, expensesPath, query, nil)
	if err != nil {
		return Collection{}, err
	}

	var wire []wireRecord
	if err := decodeData(env, expensesPath, &wire); err != nil {
		return Collection{}, err
	}

	out := Collection{
		Period:        p,
		Records:       make([]Record, 0, len(wire)),
		ReportedCount: env.Count,
	}
	log := logger.FromContext(ctx)
	for _, w := range wire {
		r := w.record()
		if r.Malformed {
			log.Warn("record has unreadable amount or date",
				logger.FieldComponent, logger.ComponentRecords,
				logger.FieldRecordID, r.ID.String(),
			)
		}
		out.Records = append(out.Records, r)
	}
	if total, ok := parseAmount(env.TotalAmount); ok {
		out.ReportedTotal = &total
	}
	if out.ReportedCount != nil && *out.ReportedCount != len(out.Records) {
		log.Warn("reported count does not match records",
			logger.FieldComponent, logger.ComponentRecords,
			logger.FieldPeriod, p.String(),
			logger.FieldCount, len(out.Records),
			"reported_count", *out.ReportedCount,
		)
	}
	return out, nil
}

// Create calls POST /expenses.
func (c *Client) Create(ctx context.Context, d Draft) (Record, error) {
	if err := d.Validate(); err != nil {
		return Record{}, err
	}
	return c.writeRecord(ctx, http.MethodPost, expensesPath, d)
}

// Update calls PUT /expenses/{id}.
func (c *Client) Update(ctx context.Context, id ID, d Draft) (Record, error) {
	if id == "" {
		return Record{}, errs.NewValidationError("record id is required")
	}
	if err := d.Validate(); err != nil {
		return Record{}, err
	}
	return c.writeRecord(ctx, http.MethodPut, expensesPath+"/"+url.PathEscape(id.String()), d)
}

// Delete calls DELETE /expenses/{id}.
func (c *Client) Delete(ctx context.Context, id ID) error {
	if id == "" {
		return errs.NewValidationError("record id is required")
	}
	_, err := c.do(ctx, http.MethodDelete, expensesPath+"/"+url.PathEscape(id.String()), nil, nil)
	return err
}

func (c *Client) writeRecord(ctx context.Context, method, path string, d Draft) (Record, error) {
	env, err := c.do(ctx, method, path, nil, newWireDraft(d))
	if err != nil {
		return Record{}, err
	}
	var w wireRecord
	if err := decodeData(env, path, &w); err != nil {
		return Record{}, err
	}
	return w.record(), nil
}

func applyFilters(query url.Values, f Filters) {
	if f.CategoryID != "" {
		query.Set("category_id", f.CategoryID.String())
	}
	if f.MinAmount != nil {
		query.Set("min_amount", f.MinAmount.String())
	}
	if f.MaxAmount != nil {
		query.Set("max_amount", f.MaxAmount.String())
	}
	if f.Recurring != nil {
		query.Set("is_recurring", strconv.FormatBool(*f.Recurring))
	}
}
