package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fathomq/fathom/internal/collector/eodhd"
	"github.com/fathomq/fathom/internal/core"
	"github.com/fathomq/fathom/internal/llm/factory"
	"github.com/fathomq/fathom/internal/logger"
	"github.com/fathomq/fathom/internal/report"
	"github.com/fathomq/fathom/internal/storage/history"
	"github.com/fathomq/fathom/internal/valuation"
)

var (
	analyzeDate    string
	analyzeNarrate bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the watchlist and print recommendations",
	Long: `Analyze every watchlist stock against the valuation signals. By
default it fetches live quotes and analyzes as of now; --date replays
the analysis at a historical date using archived data only.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeDate, "date", "", "analyze as of a historical date (YYYY-MM-DD)")
	analyzeCmd.Flags().BoolVar(&analyzeNarrate, "narrate", false, "generate LLM commentary on the results")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	if len(cfg.Watchlist) == 0 {
		return fmt.Errorf("watchlist is empty")
	}

	var asOf *core.Date
	if analyzeDate != "" {
		d, err := core.ParseDate(analyzeDate)
		if err != nil {
			return fmt.Errorf("invalid date (expected YYYY-MM-DD): %w", err)
		}
		asOf = &d
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

	// Live mode needs the data provider for quotes and company names.
	var client *eodhd.Client
	if asOf == nil {
		client, err = eodhd.New(cfg.EODHD.APIKey, cfg.EODHD.Exchange)
		if err != nil {
			return fmt.Errorf("creating eodhd client: %w", err)
		}
	}

	stocks := cfg.Stocks()
	results := make([]valuation.Result, 0, len(stocks))
	for i, info := range stocks {
		fmt.Printf("\n[%d/%d]\n", i+1, len(stocks))

		h, ok := histories[info.Ticker]
		if !ok {
			r := valuation.Result{Info: info, Err: "no historical data archived; run fetch first"}
			report.WriteAnalysis(os.Stdout, r)
			results = append(results, r)
			continue
		}

		stock := core.Stock{Info: info, History: h}
		if asOf == nil {
			if name, err := client.CompanyName(ctx, info.Ticker); err == nil {
				stock.Info.Name = name
			}
			quote, err := client.FetchLive(ctx, info.Ticker)
			if err != nil {
				log.Error("live fetch failed", zap.String("ticker", info.Ticker), zap.Error(err))
				r := valuation.Result{Info: stock.Info, Err: err.Error()}
				report.WriteAnalysis(os.Stdout, r)
				results = append(results, r)
				continue
			}
			stock.Live = quote
		}

		r := valuation.Analyze(stock, asOf)
		report.WriteAnalysis(os.Stdout, r)
		results = append(results, r)
	}

	report.WriteSummary(os.Stdout, results)

	if analyzeNarrate {
		if cfg.LLM.Provider == "" {
			return fmt.Errorf("--narrate requires an llm provider in the config")
		}
		provider, err := factory.New(cfg.LLM)
		if err != nil {
			return fmt.Errorf("creating llm provider: %w", err)
		}
		commentary, err := report.NewNarrator(provider, log).NarrateAnalyses(ctx, results)
		if err != nil {
			return fmt.Errorf("generating commentary: %w", err)
		}
		fmt.Printf("\nCOMMENTARY\n%s\n", commentary)
	}

	return nil
}
