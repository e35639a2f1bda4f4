package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lachiem1/monthlens/internal/errs"
)

// FetchState is the last known fetch outcome of one widget.
type FetchState struct {
	Widget        string
	Period        string
	LastSuccess   *time.Time
	LastAttempt   *time.Time
	LastErrorMsg  string
	LastErrorKind errs.Kind
	LastCount     int
}

type FetchStateRepo struct {
	db *sql.DB
}

func NewFetchStateRepo(db *sql.DB) *FetchStateRepo {
	return &FetchStateRepo{db: db}
}

const fetchStateColumns = `widget, period, last_success_at, last_attempt_at,
	COALESCE(last_error, ''), COALESCE(last_error_kind, ''), last_count`

func (r *FetchStateRepo) Get(ctx context.Context, widget string) (FetchState, bool, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT `+fetchStateColumns+` FROM fetch_state WHERE widget = ?`,
		widget,
	)
	state, err := scanFetchState(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return FetchState{}, false, nil
		}
		return FetchState{}, false, fmt.Errorf("query fetch state for %q: %w", widget, err)
	}
	return state, true, nil
}

func (r *FetchStateRepo) List(ctx context.Context) ([]FetchState, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+fetchStateColumns+` FROM fetch_state ORDER BY widget`)
	if err != nil {
		return nil, fmt.Errorf("query fetch states: %w", err)
	}
	defer rows.Close()

	var out []FetchState
	for rows.Next() {
		state, err := scanFetchState(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fetch state: %w", err)
		}
		out = append(out, state)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read fetch state rows: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFetchState(row scanner) (FetchState, error) {
	var state FetchState
	var lastSuccess, lastAttempt sql.NullString
	var kind string
	if err := row.Scan(
		&state.Widget,
		&state.Period,
		&lastSuccess,
		&lastAttempt,
		&state.LastErrorMsg,
		&kind,
		&state.LastCount,
	); err != nil {
		return FetchState{}, err
	}
	state.LastErrorKind = errs.Kind(kind)

	var err error
	if state.LastSuccess, err = parseStoredTime(lastSuccess); err != nil {
		return FetchState{}, fmt.Errorf("parse last_success_at for %q: %w", state.Widget, err)
	}
	if state.LastAttempt, err = parseStoredTime(lastAttempt); err != nil {
		return FetchState{}, fmt.Errorf("parse last_attempt_at for %q: %w", state.Widget, err)
	}
	return state, nil
}

func parseStoredTime(v sql.NullString) (*time.Time, error) {
	if strings.TrimSpace(v.String) == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *FetchStateRepo) RecordAttempt(ctx context.Context, widget, period string, at time.Time) error {
	// Clear previous error at the start of a new attempt.
	msg, kind := "", ""
	return r.upsert(ctx, widget, period, at, nil, &msg, &kind, nil)
}

func (r *FetchStateRepo) RecordSuccess(ctx context.Context, widget, period string, at time.Time, count int) error {
	msg, kind := "", ""
	return r.upsert(ctx, widget, period, at, &at, &msg, &kind, &count)
}

func (r *FetchStateRepo) RecordError(ctx context.Context, widget, period string, at time.Time, fetchErr error) error {
	msg, kind := "", ""
	if fetchErr != nil {
		msg = normalizeErrorText(fetchErr.Error())
		kind = string(errs.KindOf(fetchErr))
	}
	return r.upsert(ctx, widget, period, at, nil, &msg, &kind, nil)
}

func (r *FetchStateRepo) upsert(
	ctx context.Context,
	widget string,
	period string,
	attemptAt time.Time,
	successAt *time.Time,
	errorMsg *string,
	errorKind *string,
	count *int,
) error {
	attemptValue := attemptAt.UTC().Format(time.RFC3339Nano)
	var successValue any
	if successAt != nil {
		successValue = successAt.UTC().Format(time.RFC3339Nano)
	}
	var errorValue, kindValue, countValue any
	if errorMsg != nil {
		errorValue = *errorMsg
	}
	if errorKind != nil {
		kindValue = *errorKind
	}
	if count != nil {
		countValue = *count
	}

	const q = `
INSERT INTO fetch_state (widget, period, last_attempt_at, last_success_at, last_error, last_error_kind, last_count)
VALUES (?, ?, ?, ?, ?, ?, COALESCE(?, 0))
ON CONFLICT(widget) DO UPDATE SET
  period = excluded.period,
  last_attempt_at = excluded.last_attempt_at,
  last_success_at = COALESCE(excluded.last_success_at, fetch_state.last_success_at),
  last_error = CASE
    WHEN excluded.last_error IS NULL THEN fetch_state.last_error
    ELSE excluded.last_error
  END,
  last_error_kind = CASE
    WHEN excluded.last_error_kind IS NULL THEN fetch_state.last_error_kind
    ELSE excluded.last_error_kind
  END,
  last_count = CASE
    WHEN ? IS NULL THEN fetch_state.last_count
    ELSE excluded.last_count
  END
`
	if _, err := r.db.ExecContext(
		ctx, q,
		widget, period, attemptValue, successValue, errorValue, kindValue, countValue, countValue,
	); err != nil {
		return fmt.Errorf("upsert fetch state for %q: %w", widget, err)
	}
	return nil
}
