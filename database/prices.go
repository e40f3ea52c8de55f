package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type DayAheadPriceRow struct {
	Time     time.Time
	Price    float64
	Currency string
	Unit     string
}

// SaveDayAheadPrices upserts a batch of price points in a single
// transaction. Re-fetching the same day overwrites the stored curve.
func (d *Database) SaveDayAheadPrices(ctx context.Context, rows []DayAheadPriceRow) error {
	tx, err := d.write.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("saving day-ahead prices: %w", err)
	}

	for _, row := range rows {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO day_ahead_price (ts, price, currency, unit) VALUES (?, ?, ?, ?)
			ON CONFLICT(ts) DO UPDATE SET
				price = excluded.price,
				currency = excluded.currency,
				unit = excluded.unit`,
			row.Time.UTC().Format(time.RFC3339),
			row.Price,
			row.Currency,
			row.Unit)
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return fmt.Errorf("rollback after failed price insert: %w", rbErr)
			}
			return fmt.Errorf("saving day-ahead prices: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("saving day-ahead prices: %w", err)
	}
	return nil
}

// GetDayAheadPricesFrom returns all stored points at or after the given
// instant, ascending. RFC 3339 UTC strings sort chronologically, so the
// comparison happens in SQL.
func (d *Database) GetDayAheadPricesFrom(ctx context.Context, from time.Time) ([]DayAheadPriceRow, error) {
	rows, err := d.read.QueryContext(ctx, `
		SELECT ts, price, currency, unit
		FROM day_ahead_price
		WHERE ts >= ?
		ORDER BY ts ASC`,
		from.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("fetching day-ahead prices: %w", err)
	}
	defer rows.Close()

	var prices []DayAheadPriceRow
	for rows.Next() {
		var ts string
		var row DayAheadPriceRow
		if err := rows.Scan(&ts, &row.Price, &row.Currency, &row.Unit); err != nil {
			return nil, fmt.Errorf("scanning day-ahead price row: %w", err)
		}
		row.Time, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing stored timestamp %q: %w", ts, err)
		}
		prices = append(prices, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading day-ahead price rows: %w", err)
	}

	return prices, nil
}

// GetLatestDayAheadPriceTime returns the start of the last stored interval,
// or the zero time when the table is empty.
func (d *Database) GetLatestDayAheadPriceTime(ctx context.Context) (time.Time, error) {
	var ts string
	err := d.read.QueryRowContext(ctx,
		`SELECT ts FROM day_ahead_price ORDER BY ts DESC LIMIT 1`).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("fetching latest price timestamp: %w", err)
	}

	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing stored timestamp %q: %w", ts, err)
	}
	return t, nil
}

func (d *Database) PurgeDayAheadPrices(ctx context.Context, retentionDays int) error {
	d.logger.Debug("purging day_ahead_price")
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	res, err := d.write.ExecContext(ctx,
		`DELETE FROM day_ahead_price WHERE ts < ?`,
		cutoff.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("purging day_ahead_price: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil {
		d.logger.Debug(fmt.Sprintf("purged %d rows from day_ahead_price", rows))
	}
	return nil
}
