// Package history persists per-ticker historical series and backtest
// results over an archive backend.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/fathomq/fathom/internal/backtest"
	"github.com/fathomq/fathom/internal/core"
	"github.com/fathomq/fathom/internal/storage/archive"
)

const (
	historyPrefix  = "history"
	backtestPrefix = "backtests"
)

// Store reads and writes JSON documents in an archive.
type Store struct {
	blobs archive.Storage
}

// NewStore wraps an archive backend.
func NewStore(blobs archive.Storage) *Store {
	return &Store{blobs: blobs}
}

func historyKey(ticker string) string {
	return path.Join(historyPrefix, ticker+".json")
}

// SaveHistory writes one ticker's full series.
func (s *Store) SaveHistory(ctx context.Context, ticker string, h core.History) error {
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return core.WrapError(core.ErrArchiveFailed, fmt.Errorf("encoding %s: %w", ticker, err))
	}
	if err := s.blobs.Write(ctx, historyKey(ticker), data); err != nil {
		return core.WrapError(core.ErrArchiveFailed, fmt.Errorf("writing %s: %w", ticker, err))
	}
	return nil
}

// LoadHistory reads one ticker's series. Returns ErrNoData when the
// ticker has never been fetched.
func (s *Store) LoadHistory(ctx context.Context, ticker string) (core.History, error) {
	ok, err := s.blobs.Exists(ctx, historyKey(ticker))
	if err != nil {
		return core.History{}, core.WrapError(core.ErrArchiveFailed, err)
	}
	if !ok {
		return core.History{}, core.WrapError(core.ErrNoData, fmt.Errorf("ticker %s", ticker))
	}

	data, err := s.blobs.Read(ctx, historyKey(ticker))
	if err != nil {
		return core.History{}, core.WrapError(core.ErrArchiveFailed, fmt.Errorf("reading %s: %w", ticker, err))
	}
	var h core.History
	if err := json.Unmarshal(data, &h); err != nil {
		return core.History{}, core.WrapError(core.ErrArchiveFailed, fmt.Errorf("decoding %s: %w", ticker, err))
	}
	return h, nil
}

// LoadAll reads every stored ticker's series, keyed by ticker.
func (s *Store) LoadAll(ctx context.Context) (map[string]core.History, error) {
	keys, err := s.blobs.List(ctx, historyPrefix)
	if err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, err)
	}

	histories := make(map[string]core.History, len(keys))
	for _, key := range keys {
		name := path.Base(key)
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		ticker := strings.TrimSuffix(name, ".json")

		h, err := s.LoadHistory(ctx, ticker)
		if err != nil {
			return nil, err
		}
		histories[ticker] = h
	}
	return histories, nil
}

// SaveResult archives a completed backtest run under its run ID and
// returns the key it was written to.
func (s *Store) SaveResult(ctx context.Context, result *backtest.Result) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", core.WrapError(core.ErrArchiveFailed, fmt.Errorf("encoding result: %w", err))
	}
	key := path.Join(backtestPrefix, result.RunID+".json")
	if err := s.blobs.Write(ctx, key, data); err != nil {
		return "", core.WrapError(core.ErrArchiveFailed, fmt.Errorf("writing result: %w", err))
	}
	return key, nil
}
