package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/tradefolio/analytics/internal/account"
	"github.com/tradefolio/analytics/internal/api"
	"github.com/tradefolio/analytics/internal/config"
	"github.com/tradefolio/analytics/internal/datasource"
	"github.com/tradefolio/analytics/internal/engine"
	"github.com/tradefolio/analytics/internal/logger"
	"github.com/tradefolio/analytics/internal/sector"
	"github.com/tradefolio/analytics/internal/service"
	"github.com/tradefolio/analytics/internal/types"
)

// loadConfig resolves the configuration from the --config flag, falling back
// to defaults when no file is given, and applies flag overrides on top.
func loadConfig(cmd *cli.Command) (*config.AnalyticsConfig, error) {
	cfg := config.DefaultConfig()

	if path := cmd.String("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}

		cfg = *loaded
	}

	if cmd.IsSet("data") {
		cfg.DataPath = cmd.String("data")
	}

	if cmd.IsSet("scale") {
		cfg.TimeScale = cmd.String("scale")
	}

	if cmd.IsSet("balance") {
		cfg.StartingBalance = cmd.Float64("balance")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// buildService wires the snapshot source, sector table and engine into a
// metrics service. The returned cleanup closes the source.
func buildService(cfg *config.AnalyticsConfig, log *logger.Logger) (*service.MetricsService, func(), error) {
	source, err := datasource.NewDuckDBSource(cfg.DataPath, log)
	if err != nil {
		return nil, nil, err
	}

	var sectors engine.SectorLookup
	if cfg.SectorTablePath != "" {
		table, err := sector.LoadTable(cfg.SectorTablePath)
		if err != nil {
			source.Close()

			return nil, nil, err
		}

		sectors = table
	}

	metricsService := service.NewMetricsService(
		engine.New(log, sectors),
		source,
		account.NewStaticProvider(cfg.StartingBalance),
		log,
	)

	return metricsService, func() { source.Close() }, nil
}

// ingestAction loads a YAML dataset fixture into the DuckDB snapshot store.
func ingestAction(ctx context.Context, cmd *cli.Command) error {
	log, err := logger.NewLogger()
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fixture, err := datasource.ReadFixture(cmd.String("fixture"))
	if err != nil {
		return err
	}

	source, err := datasource.NewDuckDBSource(cfg.DataPath, log)
	if err != nil {
		return err
	}
	defer source.Close()

	version, err := source.SaveSnapshot(ctx, fixture.Positions, fixture.Transactions)
	if err != nil {
		return err
	}

	log.Info("snapshot ingested",
		zap.String("version", version),
		zap.Int("positions", len(fixture.Positions)),
		zap.Int("transactions", len(fixture.Transactions)),
	)

	return nil
}

// computeAction runs the analytics pipeline once and writes a YAML report.
func computeAction(ctx context.Context, cmd *cli.Command) error {
	log, err := logger.NewLogger()
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	scale, err := types.ParseTimeScale(cfg.TimeScale)
	if err != nil {
		return err
	}

	metricsService, cleanup, err := buildService(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	metrics, err := metricsService.Metrics(ctx, scale)
	if err != nil {
		return err
	}

	report := types.MetricsReport{
		ID:          uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Metrics:     *metrics,
	}

	if err := types.WriteMetricsReport(cfg.OutputPath, report); err != nil {
		return err
	}

	log.Info("metrics report written",
		zap.String("path", cfg.OutputPath),
		zap.String("scale", string(scale)),
		zap.Int("trades", metrics.TradeCount),
	)

	return nil
}

// serveAction starts the HTTP API and blocks until interrupted.
func serveAction(ctx context.Context, cmd *cli.Command) error {
	log, err := logger.NewLogger()
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	scale, err := types.ParseTimeScale(cfg.TimeScale)
	if err != nil {
		return err
	}

	metricsService, cleanup, err := buildService(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	server := api.NewServer(metricsService, scale, log)
	if err := server.Start(cfg.ListenAddr); err != nil {
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
	case <-stop:
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return server.Stop(shutdownCtx)
}

func sharedFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the YAML configuration file",
		},
		&cli.StringFlag{
			Name:    "data",
			Aliases: []string{"d"},
			Usage:   "Path to the DuckDB snapshot database",
		},
		&cli.StringFlag{
			Name:    "scale",
			Aliases: []string{"s"},
			Usage:   fmt.Sprintf("Time scale to compute (%v)", types.AllTimeScales()),
		},
		&cli.Float64Flag{
			Name:    "balance",
			Aliases: []string{"b"},
			Usage:   "Starting account balance",
		},
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "analytics",
		Usage: "Trading analytics: FIFO P&L, equity, drawdown, ratios and cohorts",
		Commands: []*cli.Command{
			{
				Name:  "ingest",
				Usage: "Load a YAML dataset fixture into the snapshot store",
				Flags: append(sharedFlags(), &cli.StringFlag{
					Name:     "fixture",
					Aliases:  []string{"f"},
					Usage:    "Path to the YAML dataset fixture",
					Required: true,
				}),
				Action: ingestAction,
			},
			{
				Name:   "compute",
				Usage:  "Compute derived metrics and write a YAML report",
				Flags:  sharedFlags(),
				Action: computeAction,
			},
			{
				Name:   "serve",
				Usage:  "Serve derived metrics over HTTP",
				Flags:  sharedFlags(),
				Action: serveAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
