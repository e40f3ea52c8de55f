package task

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/wnelis/entsoe-qdap-go/database"
	"github.com/wnelis/entsoe-qdap-go/entsoe"
)

// OnPricesUpdated is called after a successful fetch with the freshly
// stored points, e.g. to publish them over MQTT or the websocket.
type OnPricesUpdated func(points []entsoe.PricePoint)

func NewPriceTask(logger *slog.Logger, db *database.Database, client *entsoe.Client, zone entsoe.Zone, timeout time.Duration, onUpdated OnPricesUpdated) func() {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if needImmediatePriceUpdate(ctx, db) {
		logger.Info("need an immediate update of day-ahead prices")
		runPriceTask(logger, db, client, zone, timeout, onUpdated)
	} else {
		logger.Debug("no need for immediate update of day-ahead prices")
	}

	return func() { runPriceTask(logger, db, client, zone, timeout, onUpdated) }
}

func runPriceTask(logger *slog.Logger, db *database.Database, client *entsoe.Client, zone entsoe.Zone, timeout time.Duration, onUpdated OnPricesUpdated) {
	logger.Debug("running price task...")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	points, err := client.TodayPrices(ctx, zone)
	if err != nil {
		logger.Error("price task error, fetching today's prices", slog.Any("error", err))
		return
	}

	tomorrow, err := client.TomorrowPrices(ctx, zone)
	var upstreamErr *entsoe.UpstreamError
	switch {
	case errors.As(err, &upstreamErr):
		// Published in the early afternoon; before that the platform
		// answers with a "no matching data" acknowledgement.
		logger.Info("day-ahead prices not published yet", slog.String("reason", upstreamErr.Reason))
	case err != nil:
		logger.Error("price task error, fetching day-ahead prices", slog.Any("error", err))
	default:
		points = append(points, tomorrow...)
	}

	if len(points) == 0 {
		logger.Error("price task error, no prices fetched")
		return
	}

	rows := make([]database.DayAheadPriceRow, len(points))
	for i, p := range points {
		logger.Debug("day-ahead price",
			slog.Time("time", p.Time),
			slog.Float64("price", p.Price),
			slog.String("unit", p.Unit))
		rows[i] = database.DayAheadPriceRow{Time: p.Time, Price: p.Price, Currency: p.Currency, Unit: p.Unit}
	}

	if err := db.SaveDayAheadPrices(ctx, rows); err != nil {
		logger.Error("price task error", slog.Any("error", err))
		return
	}

	if onUpdated != nil {
		onUpdated(points)
	}

	logger.Info("price task done", slog.Int("noOfPointsUpdated", len(rows)))
}

// An immediate fetch is needed unless the store already reaches well into
// the future. Looking ahead covers a restart that missed the scheduled
// slot: today's curve alone ends at midnight, which is less than twelve
// hours away once tomorrow's prices are out.
func needImmediatePriceUpdate(ctx context.Context, db *database.Database) bool {
	latest, err := db.GetLatestDayAheadPriceTime(ctx)
	if err != nil {
		return true
	}
	return latest.Before(time.Now().Add(12 * time.Hour))
}
