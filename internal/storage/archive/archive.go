// Package archive provides blob storage for fetched historical data and
// backtest results, with local filesystem and S3-compatible backends.
package archive

import "context"

// Storage is a flat keyed blob store. Keys use forward slashes
// regardless of backend.
type Storage interface {
	Write(ctx context.Context, key string, data []byte) error
	Read(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
