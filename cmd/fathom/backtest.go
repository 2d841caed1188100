package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fathomq/fathom/internal/backtest"
	"github.com/fathomq/fathom/internal/core"
	"github.com/fathomq/fathom/internal/llm/factory"
	"github.com/fathomq/fathom/internal/logger"
	"github.com/fathomq/fathom/internal/metrics"
	"github.com/fathomq/fathom/internal/report"
	"github.com/fathomq/fathom/internal/storage/history"
)

var (
	backtestFrom    string
	backtestTo      string
	backtestNarrate bool
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Backtest the signal strategy against buy-and-hold",
	Long: `Replay the signal strategy day by day over archived historical data
and compare it to an equal-weight buy-and-hold benchmark. Without
--from/--to the period is the configured lookback ending today.`,
	RunE: runBacktest,
}

func init() {
	backtestCmd.Flags().StringVar(&backtestFrom, "from", "", "start date YYYY-MM-DD")
	backtestCmd.Flags().StringVar(&backtestTo, "to", "", "end date YYYY-MM-DD")
	backtestCmd.Flags().BoolVar(&backtestNarrate, "narrate", false, "generate LLM commentary on the results")
	rootCmd.AddCommand(backtestCmd)
}

func runBacktest(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	end := core.Today()
	if backtestTo != "" {
		if end, err = core.ParseDate(backtestTo); err != nil {
			return fmt.Errorf("invalid to date (expected YYYY-MM-DD): %w", err)
		}
	}
	start := end.AddDays(-cfg.Backtest.Years * 365)
	if backtestFrom != "" {
		if start, err = core.ParseDate(backtestFrom); err != nil {
			return fmt.Errorf("invalid from date (expected YYYY-MM-DD): %w", err)
		}
	}

	blobs, err := newArchive(cfg)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	store := history.NewStore(blobs)

	ctx := cmd.Context()
	histories, err := store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("loading historical data: %w", err)
	}

	var stocks []core.Stock
	for _, info := range cfg.Stocks() {
		h, ok := histories[info.Ticker]
		if !ok {
			log.Warn("skipping ticker with no archived data", zap.String("ticker", info.Ticker))
			continue
		}
		stocks = append(stocks, core.Stock{Info: info, History: h})
	}
	if len(stocks) == 0 {
		return fmt.Errorf("no archived data for any watchlist ticker; run fetch first")
	}
	fmt.Printf("Loaded %d stocks for backtest\n", len(stocks))
	fmt.Printf("Backtest period: %s to %s\n", start, end)

	engine, err := backtest.NewEngine(stocks, start, end, log)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	var reg *metrics.Registry
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry()
		reg.SetWatchlistSize(len(stocks))
		engine.SetMetrics(reg)
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Addr, reg.Handler()); err != nil {
				log.Error("metrics listener failed", zap.Error(err))
			}
		}()
	}

	result, err := engine.Run(ctx)
	if err != nil {
		return fmt.Errorf("running backtest: %w", err)
	}
	fmt.Printf("Backtest complete: %d trading days\n", len(result.Strategy))

	report.WriteBacktest(os.Stdout, result.StrategySummary, result.BenchmarkSummary)

	key, err := store.SaveResult(ctx, result)
	if err != nil {
		log.Error("archiving result failed", zap.Error(err))
	} else {
		log.Info("result archived", zap.String("run_id", result.RunID), zap.String("key", key))
	}

	if backtestNarrate {
		if cfg.LLM.Provider == "" {
			return fmt.Errorf("--narrate requires an llm provider in the config")
		}
		provider, err := factory.New(cfg.LLM)
		if err != nil {
			return fmt.Errorf("creating llm provider: %w", err)
		}
		commentary, err := report.NewNarrator(provider, log).NarrateBacktest(ctx, result)
		if err != nil {
			return fmt.Errorf("generating commentary: %w", err)
		}
		fmt.Printf("\nCOMMENTARY\n%s\n", commentary)
	}

	return nil
}
