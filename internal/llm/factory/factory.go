// Package factory builds a completion provider from configuration.
package factory

import (
	"fmt"

	"github.com/fathomq/fathom/internal/config"
	"github.com/fathomq/fathom/internal/core"
	"github.com/fathomq/fathom/internal/llm"
	"github.com/fathomq/fathom/internal/llm/claude"
	"github.com/fathomq/fathom/internal/llm/ollama"
	"github.com/fathomq/fathom/internal/llm/openai"
)

// New creates the configured provider.
func New(cfg config.LLMConfig) (llm.Provider, error) {
	switch cfg.Provider {
	case "claude":
		return claude.New(cfg.Claude.APIKey, cfg.Claude.Model)
	case "openai":
		return openai.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	case "ollama":
		return ollama.New(cfg.Ollama.Endpoint, cfg.Ollama.Model)
	default:
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown llm provider: %q", cfg.Provider))
	}
}
