package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fathomq/fathom/internal/collector/eodhd"
	"github.com/fathomq/fathom/internal/core"
	"github.com/fathomq/fathom/internal/logger"
	"github.com/fathomq/fathom/internal/storage/history"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and archive historical data for the watchlist",
	RunE:  runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	if len(cfg.Watchlist) == 0 {
		return fmt.Errorf("watchlist is empty")
	}

	client, err := eodhd.New(cfg.EODHD.APIKey, cfg.EODHD.Exchange)
	if err != nil {
		return fmt.Errorf("creating eodhd client: %w", err)
	}

	blobs, err := newArchive(cfg)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	store := history.NewStore(blobs)

	// The percentile windows need the full lookback of dailies plus two
	// extra years of quarters behind the backtest start.
	from := core.Today().AddDays(-(cfg.Backtest.Years + 2) * 365)

	ctx := cmd.Context()
	stocks := cfg.Stocks()
	saved := 0
	for i, info := range stocks {
		log.Info("fetching",
			zap.String("ticker", info.Ticker),
			zap.Int("n", i+1),
			zap.Int("total", len(stocks)),
		)

		h, err := client.FetchHistory(ctx, info.Ticker, from)
		if err != nil {
			log.Error("fetch failed", zap.String("ticker", info.Ticker), zap.Error(err))
			continue
		}
		if err := store.SaveHistory(ctx, info.Ticker, h); err != nil {
			log.Error("save failed", zap.String("ticker", info.Ticker), zap.Error(err))
			continue
		}

		saved++
		log.Info("saved",
			zap.String("ticker", info.Ticker),
			zap.Int("daily", len(h.Daily)),
			zap.Int("quarterly", len(h.Quarterly)),
		)
	}

	fmt.Printf("Saved %d/%d tickers\n", saved, len(stocks))
	return nil
}
