package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rxtech-lab/argo-rotation/internal/backtest/engine"
	enginev1 "github.com/rxtech-lab/argo-rotation/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-rotation/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-rotation/internal/logger"
	"github.com/rxtech-lab/argo-rotation/internal/metrics"
	"github.com/rxtech-lab/argo-rotation/internal/strategy"
	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/rxtech-lab/argo-rotation/internal/version"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// readConfig returns the file content, or an empty document when path is empty.
func readConfig(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return string(content), nil
}

func printSchemas(backtest engine.Engine) error {
	engineSchema, err := backtest.GetConfigSchema()
	if err != nil {
		return err
	}

	strategySchema, err := strategy.GenerateSchemaJSON()
	if err != nil {
		return err
	}

	fmt.Println(engineSchema)
	fmt.Println(strategySchema)

	return nil
}

// backtestAction wires the engine, data source and strategy from the flags and runs one backtest.
func backtestAction(ctx context.Context, cmd *cli.Command) error {
	level, err := logger.ParseLevel(cmd.String("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	appLogger, err := logger.NewLoggerWithLevel(level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer appLogger.Sync() //nolint:errcheck

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	recorder, err := metrics.NewRecorder(registry)
	if err != nil {
		return fmt.Errorf("failed to create metrics recorder: %w", err)
	}

	backtest := enginev1.NewBacktestEngineV1(appLogger, recorder)
	defer backtest.Close() //nolint:errcheck

	if cmd.Bool("schema") {
		return printSchemas(backtest)
	}

	if addr := cmd.String("metrics-addr"); addr != "" {
		server := metrics.Serve(addr, registry)
		defer server.Shutdown(context.Background()) //nolint:errcheck

		appLogger.Info("Serving metrics", zap.String("addr", addr))
	}

	engineConfig, err := readConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	if err := backtest.Initialize(engineConfig); err != nil {
		return fmt.Errorf("failed to initialize backtest engine: %w", err)
	}

	strategyConfigContent, err := readConfig(cmd.String("strategy-config"))
	if err != nil {
		return err
	}

	strategyConfig, err := strategy.LoadConfig(strategyConfigContent)
	if err != nil {
		return err
	}

	rotation, err := strategy.NewSMARotation(strategyConfig)
	if err != nil {
		return err
	}

	if err := backtest.LoadStrategy(rotation); err != nil {
		return err
	}

	if err := backtest.SetDataPath(cmd.String("data")); err != nil {
		return err
	}

	if err := backtest.SetResultsFolder(cmd.String("results")); err != nil {
		return err
	}

	dataSource, err := datasource.NewDataSource(":memory:", appLogger)
	if err != nil {
		return fmt.Errorf("failed to create data source: %w", err)
	}
	defer dataSource.Close()

	if err := backtest.SetDataSource(dataSource); err != nil {
		return err
	}

	var bar *progressbar.ProgressBar

	onRunStart := engine.OnRunStartCallback(func(_ string, strategyName string, totalDataPoints int) error {
		bar = progressbar.NewOptions(totalDataPoints,
			progressbar.OptionSetDescription(fmt.Sprintf("Running %s", strategyName)),
			progressbar.OptionShowCount(),
		)

		return nil
	})
	onProcessData := engine.OnProcessDataCallback(func(current int, _ int) error {
		return bar.Set(current)
	})
	onRunEnd := engine.OnRunEndCallback(func(strategyName string, resultFolderPath string, stats types.TradeStats) {
		_ = bar.Finish()

		fmt.Printf("\n%s results written to %s\n", strategyName, resultFolderPath)
		fmt.Printf("Starting Portfolio Value: %.2f\n", stats.Portfolio.StartingValue)
		fmt.Printf("Final Portfolio Value: %.2f\n", stats.Portfolio.FinalValue)
		fmt.Printf("Round trips: %d (won %d, lost %d), net pnl %.2f\n",
			stats.TradeResult.NumberOfTrades,
			stats.TradeResult.NumberOfWinningTrades,
			stats.TradeResult.NumberOfLosingTrades,
			stats.TradePnl.NetPnL,
		)
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	return backtest.Run(ctx, engine.LifecycleCallbacks{
		OnRunStart:    &onRunStart,
		OnProcessData: &onProcessData,
		OnRunEnd:      &onRunEnd,
	})
}

func main() {
	cmd := &cli.Command{
		Name:    "backtest",
		Usage:   "Backtest the SMA crossover rotation strategy over two instruments",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the engine `YAML` config. Defaults apply when omitted.",
			},
			&cli.StringFlag{
				Name:    "strategy-config",
				Aliases: []string{"s"},
				Usage:   "Path to the strategy `YAML` config. Defaults apply when omitted.",
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Glob of per-symbol data files named SYMBOL_*.csv or SYMBOL_*.parquet",
				Value:   "data/*.csv",
			},
			&cli.StringFlag{
				Name:    "results",
				Aliases: []string{"r"},
				Usage:   "Folder receiving stats.yaml and the parquet exports",
				Value:   "results",
			},
			&cli.BoolFlag{
				Name:  "schema",
				Usage: "Print the engine and strategy config JSON schemas and exit",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "info",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve Prometheus metrics on this address, e.g. :9090",
			},
		},
		Action: backtestAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
