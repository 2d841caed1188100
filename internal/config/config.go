package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/fathomq/fathom/internal/core"
)

// Config is the root configuration. The watchlist is the entire ticker
// universe: nothing is compiled in.
type Config struct {
	Watchlist []WatchlistItem `mapstructure:"watchlist"`
	EODHD     EODHDConfig     `mapstructure:"eodhd"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Backtest  BacktestConfig  `mapstructure:"backtest"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// WatchlistItem declares one stock to track.
type WatchlistItem struct {
	Ticker   string `mapstructure:"ticker"`
	Category string `mapstructure:"category"`
	Name     string `mapstructure:"name"`
}

// EODHDConfig holds data provider settings.
type EODHDConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Exchange string `mapstructure:"exchange"`
}

// StorageConfig selects where historical data and backtest results live.
type StorageConfig struct {
	Type string   `mapstructure:"type"` // "localfs" or "s3"
	Path string   `mapstructure:"path"` // for localfs
	S3   S3Config `mapstructure:"s3"`   // for s3
}

// S3Config holds S3-compatible storage settings.
type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// BacktestConfig holds simulation defaults.
type BacktestConfig struct {
	Years int `mapstructure:"years"` // default lookback when no dates given
}

// LLMConfig selects the optional narrative provider.
type LLMConfig struct {
	Provider string       `mapstructure:"provider"` // "", "claude", "openai", "ollama"
	Claude   ClaudeConfig `mapstructure:"claude"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
	Ollama   OllamaConfig `mapstructure:"ollama"`
}

// ClaudeConfig holds Anthropic API settings.
type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// OpenAIConfig holds OpenAI API settings.
type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// OllamaConfig holds local Ollama settings.
type OllamaConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
}

// MetricsConfig controls the optional Prometheus listener.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// Load reads configuration from a file, with environment variable
// overrides and ${VAR} expansion in string values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Defaults returns a config with sensible defaults.
func Defaults() *Config {
	return &Config{
		EODHD: EODHDConfig{
			Exchange: "US",
		},
		Storage: StorageConfig{
			Type: "localfs",
			Path: "data",
		},
		Backtest: BacktestConfig{
			Years: 5,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9090",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Watchlist))
	for _, item := range c.Watchlist {
		if item.Ticker == "" {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("watchlist entry with empty ticker"))
		}
		if seen[item.Ticker] {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("duplicate watchlist ticker %s", item.Ticker))
		}
		seen[item.Ticker] = true
		if _, err := core.ParseCategory(item.Category); err != nil {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("ticker %s: %w", item.Ticker, err))
		}
	}

	switch c.Storage.Type {
	case "localfs":
		if c.Storage.Path == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("storage path required for localfs"))
		}
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("s3 bucket required"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown storage type %q", c.Storage.Type))
	}

	if c.Backtest.Years < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("backtest years must be positive, got %d", c.Backtest.Years))
	}

	if c.LLM.Provider != "" {
		switch c.LLM.Provider {
		case "claude":
			if c.LLM.Claude.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("claude api_key required when provider is claude"))
			}
		case "openai":
			if c.LLM.OpenAI.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("openai api_key required when provider is openai"))
			}
		case "ollama":
			if c.LLM.Ollama.Endpoint == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("ollama endpoint required when provider is ollama"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown llm provider %q", c.LLM.Provider))
		}
	}

	return nil
}

// Stocks converts the watchlist into typed stock identities. Assumes the
// config has been validated.
func (c *Config) Stocks() []core.StockInfo {
	infos := make([]core.StockInfo, 0, len(c.Watchlist))
	for _, item := range c.Watchlist {
		category, _ := core.ParseCategory(item.Category)
		infos = append(infos, core.StockInfo{
			Ticker:   item.Ticker,
			Category: category,
			Name:     item.Name,
		})
	}
	return infos
}
