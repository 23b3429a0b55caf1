package provider

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/pdf-extractor/internal/common"
	"github.com/joseph-ayodele/pdf-extractor/internal/llm"
	"github.com/joseph-ayodele/pdf-extractor/internal/llm/gemini"
	"github.com/joseph-ayodele/pdf-extractor/internal/llm/openai"
)

// New builds the Generator selected by cfg.Provider.
func New(ctx context.Context, cfg common.LLMConfig, logger *slog.Logger) (llm.Generator, error) {
	switch cfg.Provider {
	case common.ProviderGemini, "":
		c, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
			BaseURL:     cfg.BaseURL,
		}, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case common.ProviderOpenAI:
		return openai.NewClient(openai.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %q", cfg.Provider)
	}
}
