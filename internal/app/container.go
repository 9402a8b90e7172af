package app

import (
	"context"

	"github.com/doeshing/hangwatch/internal/application/monitor"
	"github.com/doeshing/hangwatch/internal/application/stats"
	"github.com/doeshing/hangwatch/internal/domain"
	"github.com/doeshing/hangwatch/internal/infrastructure/config"
	"github.com/doeshing/hangwatch/internal/infrastructure/diag"
	"github.com/doeshing/hangwatch/internal/infrastructure/history"
	"github.com/doeshing/hangwatch/internal/infrastructure/runner"
	"github.com/doeshing/hangwatch/internal/infrastructure/watch"
	"github.com/doeshing/hangwatch/internal/pkg/logger"
	"github.com/doeshing/hangwatch/internal/ports"
)

// Container wires up application services with infrastructure adapters.
type Container struct {
	Monitor        *monitor.Service
	StatsService   *stats.Service
	Diagnostics    *diag.Engine
	HistoryStore   ports.HistoryRepository
	ConfigProvider ports.ConfigProvider
	Config         domain.Config
	Logger         ports.Logger
}

// BuildContainer constructs the dependency graph. The monitor's decision
// reader is attached by the CLI layer, which owns the terminal.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd(verbose)

	var historyStore ports.HistoryRepository
	if cfg.History.Backend == "file" {
		historyStore = history.NewFileStore("", cfg.History.MaxEntries)
	} else {
		historyStore = history.NewSQLiteStore("", cfg.History.MaxEntries)
	}

	engine := diag.NewEngine(cfg.Diagnostics.ReportDir, log)

	monitorService := &monitor.Service{
		Runner:      runner.New(log),
		Watchdog:    watch.New(nil),
		Diagnostics: engine,
		History:     historyStore,
		Logger:      log,
		RetryLimit:  cfg.Execution.Retries(),
		InputWait:   cfg.Execution.InputWait(),
	}

	return &Container{
		Monitor:        monitorService,
		StatsService:   &stats.Service{History: historyStore},
		Diagnostics:    engine,
		HistoryStore:   historyStore,
		ConfigProvider: cfgLoader,
		Config:         cfg,
		Logger:         log,
	}, nil
}
