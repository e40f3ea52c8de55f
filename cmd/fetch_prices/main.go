// One-shot fetch of tomorrow's day-ahead prices, printed to stdout.
// Useful for checking the API key and zone before running the daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/wnelis/entsoe-qdap-go/config"
	"github.com/wnelis/entsoe-qdap-go/entsoe"
)

func main() {
	w := os.Stdout
	slog.SetDefault(slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.RFC3339Nano,
		}),
	))

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cnfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	zone, ok := entsoe.ZoneFromString(cnfg.Entsoe.Zone)
	if !ok {
		slog.Error("unknown bidding zone", slog.String("zone", cnfg.Entsoe.Zone))
		os.Exit(1)
	}

	client := entsoe.New(cnfg.Entsoe.ApiKey, entsoe.WithTimeout(cnfg.Entsoe.GetTimeout()))

	ctx, cancel := context.WithTimeout(context.Background(), cnfg.Entsoe.GetTimeout())
	defer cancel()

	points, err := client.TomorrowPrices(ctx, zone)
	if err != nil {
		slog.Error("failed to fetch day-ahead prices", slog.Any("error", err))
		os.Exit(1)
	}

	fmt.Printf("day-ahead prices for %s (%d intervals)\n", zone.Name(), len(points))
	for _, p := range points {
		fmt.Printf("%s  %8.2f %s\n", p.Time.Format(time.RFC3339), p.Price, p.Unit)
	}
}
