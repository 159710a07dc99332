// Package search is the web-search collaborator used to discover PDF candidates.
package search

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mcpgate/mcpgate/internal/config"
)

// Result is one search hit. Order in a result slice is the provider's ranking.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

type Provider interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// New builds the provider selected by cfg.SearchProvider.
func New(cfg *config.Config, client *http.Client) (Provider, error) {
	switch cfg.SearchProvider {
	case "duckduckgo", "":
		return NewDuckDuckGo(client), nil
	case "ollama":
		return NewOllamaWebSearch(cfg.OllamaHost, cfg.OllamaAPIKey, client), nil
	default:
		return nil, fmt.Errorf("unknown search provider %q", cfg.SearchProvider)
	}
}
