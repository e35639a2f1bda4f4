package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lachiem1/monthlens/internal/period"
)

const keyLastPeriod = "last_period"

type AppConfigRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewAppConfigRepo(db *sql.DB) *AppConfigRepo {
	return &AppConfigRepo{db: db, now: time.Now}
}

func (r *AppConfigRepo) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM app_config WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get app config %q: %w", key, err)
	}
	return value, true, nil
}

func (r *AppConfigRepo) UpsertMany(ctx context.Context, values map[string]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin app config upsert transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := r.now().UTC().Format(time.RFC3339Nano)
	for key, value := range values {
		if _, err = tx.ExecContext(
			ctx,
			`INSERT INTO app_config (key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key,
			value,
			now,
		); err != nil {
			return fmt.Errorf("upsert app config %q: %w", key, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit app config upsert transaction: %w", err)
	}
	return nil
}

// LastPeriod returns the period that was on screen when the dashboard last
// changed month. A stored value that no longer parses is treated as absent.
func (r *AppConfigRepo) LastPeriod(ctx context.Context) (period.Period, bool, error) {
	raw, ok, err := r.Get(ctx, keyLastPeriod)
	if err != nil || !ok {
		return period.Period{}, false, err
	}
	p, err := period.Parse(raw)
	if err != nil {
		return period.Period{}, false, nil
	}
	return p, true, nil
}

func (r *AppConfigRepo) SaveLastPeriod(ctx context.Context, p period.Period) error {
	return r.UpsertMany(ctx, map[string]string{keyLastPeriod: p.String()})
}
