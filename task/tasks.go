package task

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
	"github.com/wnelis/entsoe-qdap-go/config"
	"github.com/wnelis/entsoe-qdap-go/database"
	"github.com/wnelis/entsoe-qdap-go/entsoe"
)

type Tasks struct {
	cron            *cron.Cron
	cnfg            *config.AppConfig
	PriceTask       func()
	MaintenanceTask func()
}

func NewTasks(
	db *database.Database,
	client *entsoe.Client,
	zone entsoe.Zone,
	cnfg *config.AppConfig,
	onPricesUpdated OnPricesUpdated,
) *Tasks {
	logger := slog.Default().With("module", "tasks")
	return &Tasks{
		cron: cron.New(),
		cnfg: cnfg,
		PriceTask: NewPriceTask(
			logger.With(slog.String("task", "price")),
			db, client, zone, cnfg.Entsoe.GetTimeout(), onPricesUpdated),
		MaintenanceTask: NewMaintenanceTask(
			logger.With(slog.String("task", "maintenance")),
			db, cnfg),
	}
}

func (t *Tasks) Run() {
	if _, err := t.cron.AddFunc(t.cnfg.Entsoe.RunAt, t.PriceTask); err != nil {
		panic(err)
	}
	if _, err := t.cron.AddFunc("30 2 * * *", t.MaintenanceTask); err != nil {
		panic(err)
	}
	t.cron.Start()
}

func (t *Tasks) Stop() context.Context {
	return t.cron.Stop()
}
