package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/wnelis/entsoe-qdap-go/config"
	"github.com/wnelis/entsoe-qdap-go/database"
	"github.com/wnelis/entsoe-qdap-go/entsoe"
	"github.com/wnelis/entsoe-qdap-go/logging"
	"github.com/wnelis/entsoe-qdap-go/mqtt"
	"github.com/wnelis/entsoe-qdap-go/task"
	"github.com/wnelis/entsoe-qdap-go/www"
)

var Version = "?.?.?"

func main() {
	defer func() {
		if err := recover(); err != nil {
			exitWithError(slog.Default(), fmt.Errorf("application panicked: %v", err))
		} else {
			slog.Default().Info("application is shutting down...")
		}
	}()

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cnfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	zone, ok := entsoe.ZoneFromString(cnfg.Entsoe.Zone)
	if !ok {
		panic(fmt.Sprintf("unknown bidding zone: %q", cnfg.Entsoe.Zone))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consoleHandler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      cnfg.Logging.GetConsoleLevel(),
		TimeFormat: time.RFC3339,
	})
	slog.New(consoleHandler).Debug("entsoe-qdap is starting...", slog.String("version", Version))

	db, err := database.New(ctx, cnfg.Database.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to connect to database: %v", err))
	}
	defer db.Close()

	logger := slog.New(logging.NewMultiHandler(
		consoleHandler,
		logging.NewSQLiteHandler(db, cnfg.Logging.GetDbLevel(), cnfg.Logging.GetDbAttrsFormat())))
	slog.SetDefault(logger)

	// Now we can use the logger to log database operations into the database itself
	db.SetLogger(logger.With("module", "database"))

	client := entsoe.New(cnfg.Entsoe.ApiKey, entsoe.WithTimeout(cnfg.Entsoe.GetTimeout()))

	hub := www.NewHub(logger.With("module", "www"))

	var publisher *mqtt.Publisher
	if cnfg.Mqtt.Enabled {
		publisher = mqtt.New(
			cnfg.Mqtt.Host,
			cnfg.Mqtt.Port,
			cnfg.Mqtt.Username,
			cnfg.Mqtt.Password,
			cnfg.Mqtt.GetTopic())
		if err := publisher.Connect(); err != nil {
			panic(fmt.Sprintf("mqtt connection error: %v", err))
		}
		defer publisher.Disconnect()
	}

	onPricesUpdated := func(points []entsoe.PricePoint) {
		hub.NotifyPricesUpdated(zone.Name(), len(points))
		if publisher != nil {
			if err := publisher.PublishPrices(zone, points); err != nil {
				logger.Error("failed to publish prices over mqtt", slog.Any("error", err))
			}
		}
	}

	tasks := task.NewTasks(db, client, zone, cnfg, onPricesUpdated)
	if isDevMode() {
		logger.Info("dev mode, skipping task scheduling")
	} else {
		tasks.Run()
		defer tasks.Stop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-ctx.Done():
			logger.Info("main context done")
		case sig := <-sigCh:
			logger.Info("received signal", slog.Any("signal", sig))
			cancel()
		}
	}()

	sysInfo := www.SysInfo{Version: Version, Zone: zone.Name(), StartedAt: time.Now()}
	server := www.StartServer(db, tasks, hub, cnfg.Api, sysInfo)
	server.Run(ctx)
}

func isDevMode() bool {
	return strings.EqualFold(os.Getenv("APP_ENV"), "development")
}

func exitWithError(logger *slog.Logger, err error) {
	if err != nil {
		logger.Error("application shutting down with error", slog.Any("error", err))
	}

	time.Sleep(2 * time.Second)
	os.Exit(1)
}
