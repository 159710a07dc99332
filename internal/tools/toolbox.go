package tools

import (
	"net/http"
	"time"

	"github.com/mcpgate/mcpgate/internal/files"
	"github.com/mcpgate/mcpgate/internal/llm"
	"github.com/mcpgate/mcpgate/internal/pdf"
	"github.com/mcpgate/mcpgate/internal/search"
)

// HTTPDoer is the subset of *http.Client used for PDF downloads.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Deps struct {
	Generator        llm.Generator
	Search           search.Provider
	HTTP             HTTPDoer
	Files            *files.Store
	PDF              pdf.Extractor
	SearchMaxResults int
	DownloadTimeout  time.Duration
}

// Toolbox binds the tool handlers to their external collaborators.
type Toolbox struct {
	gen             llm.Generator
	search          search.Provider
	http            HTTPDoer
	files           *files.Store
	pdf             pdf.Extractor
	maxResults      int
	downloadTimeout time.Duration
}

func NewToolbox(d Deps) *Toolbox {
	if d.HTTP == nil {
		d.HTTP = http.DefaultClient
	}
	if d.PDF == nil {
		d.PDF = pdf.PlainText{}
	}
	if d.SearchMaxResults <= 0 {
		d.SearchMaxResults = 10
	}
	if d.DownloadTimeout <= 0 {
		d.DownloadTimeout = 20 * time.Second
	}
	return &Toolbox{
		gen:             d.Generator,
		search:          d.Search,
		http:            d.HTTP,
		files:           d.Files,
		pdf:             d.PDF,
		maxResults:      d.SearchMaxResults,
		downloadTimeout: d.DownloadTimeout,
	}
}

// Handlers returns every handler the toolbox implements. DetectIntent is
// supplied by the dispatcher since it needs the registry itself.
func (t *Toolbox) Handlers() map[Name]Handler {
	return map[Name]Handler{
		Generate:         t.Generate,
		DownloadPDF:      t.DownloadPDF,
		GenerateCodeFile: t.GenerateCodeFile,
		SummarizePDF:     t.SummarizePDF,
		ListFiles:        t.ListFiles,
		ReadFile:         t.ReadFile,
		WriteFile:        t.WriteFile,
		ModifyFile:       t.ModifyFile,
	}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
