package llm

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"frscan/internal/config"
	"frscan/internal/logger"
)

// New builds the provider client named by cfg and wraps it with logging and,
// when cfg.CacheSize > 0, the response cache.
func New(ctx context.Context, cfg config.LLMConfig, log hclog.Logger) (LLMClient, error) {
	log = logger.OrNull(log)
	var base LLMClient
	switch cfg.Provider {
	case config.ProviderOpenAI:
		if cfg.APIKey() == "" {
			log.Warn("OPENAI_API_KEY is not set; requests are sent without credentials", "base_url", cfg.BaseURL)
		}
		base = NewOpenAIClient(cfg.BaseURL, cfg.APIKey(), cfg.Model, cfg.Timeout, log.Named("http"))
	case config.ProviderGemini:
		if cfg.APIKey() == "" {
			return nil, fmt.Errorf("llm: GEMINI_API_KEY is required for provider %q", cfg.Provider)
		}
		g, err := NewGeminiClient(ctx, GeminiOptions{APIKey: cfg.APIKey(), Model: cfg.Model, Timeout: cfg.Timeout})
		if err != nil {
			return nil, err
		}
		base = g
	case config.ProviderFake:
		base = NewFakeClient()
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
	return Wrap(base, WithLogging(log), Cache(cfg.CacheSize)), nil
}
