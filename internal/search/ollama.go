package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// OllamaWebSearch queries the Ollama web search API.
type OllamaWebSearch struct {
	host   string
	apiKey string
	client *http.Client
}

func NewOllamaWebSearch(host, apiKey string, client *http.Client) *OllamaWebSearch {
	if client == nil {
		client = http.DefaultClient
	}
	return &OllamaWebSearch{host: strings.TrimRight(host, "/"), apiKey: apiKey, client: client}
}

func (o *OllamaWebSearch) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	reqBody := map[string]any{"query": query}
	if maxResults > 0 {
		reqBody["max_results"] = maxResults
	}
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(reqBody); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.host+"/api/web_search", buf)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("web search failed: %s", resp.Status)
	}

	var data struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	out := make([]Result, 0, len(data.Results))
	for _, r := range data.Results {
		out = append(out, Result{Title: r.Title, URL: r.URL, Snippet: r.Content})
	}
	if maxResults > 0 && len(out) > maxResults {
		out = out[:maxResults]
	}
	return out, nil
}
