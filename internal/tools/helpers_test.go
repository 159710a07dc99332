package tools_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mcpgate/mcpgate/internal/files"
	"github.com/mcpgate/mcpgate/internal/llm"
	"github.com/mcpgate/mcpgate/internal/search"
	"github.com/mcpgate/mcpgate/internal/tools"
)

type fakeSearch struct {
	results []search.Result
	err     error
	query   string
}

func (f *fakeSearch) Search(ctx context.Context, query string, maxResults int) ([]search.Result, error) {
	f.query = query
	return f.results, f.err
}

type fakePDF struct {
	text     string
	err      error
	path     string
	maxPages int
}

func (f *fakePDF) ExtractText(path string, maxPages int) (string, error) {
	f.path, f.maxPages = path, maxPages
	return f.text, f.err
}

// recordingGenerator echoes a canned reply and remembers the last prompt.
type recordingGenerator struct {
	reply  string
	err    error
	prompt string
}

func (g *recordingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.reply, g.err
}

var _ llm.Generator = (*recordingGenerator)(nil)

func newStore(t *testing.T) *files.Store {
	t.Helper()
	s, err := files.NewStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func newToolbox(t *testing.T, d tools.Deps) *tools.Toolbox {
	t.Helper()
	if d.Files == nil {
		d.Files = newStore(t)
	}
	if d.Generator == nil {
		d.Generator = &recordingGenerator{}
	}
	if d.Search == nil {
		d.Search = &fakeSearch{}
	}
	return tools.NewToolbox(d)
}
