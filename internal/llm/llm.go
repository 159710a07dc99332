// Package llm is the text-generation collaborator used by the tool handlers.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/mcpgate/mcpgate/internal/config"
)

// Generator turns a prompt into the model's raw reply text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// New builds the generator selected by cfg.LLMProvider.
func New(cfg *config.Config) (Generator, error) {
	switch cfg.LLMProvider {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("llm_provider anthropic requires ANTHROPIC_API_KEY")
		}
		return NewAnthropic(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicBaseURL), nil
	case "ollama", "":
		return NewOllama(cfg.OllamaHost, cfg.Model, cfg.ReadTimeout()+30*time.Second)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}
