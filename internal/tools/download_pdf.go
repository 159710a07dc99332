package tools

import (
	"context"
	"fmt"
	"io"
	"iter"
	"mime"
	"net/http"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mcpgate/mcpgate/internal/models"
	"github.com/mcpgate/mcpgate/internal/search"
)

const (
	MsgNoPDFs          = "No PDFs found."
	MsgDownloadsFailed = "All downloads failed."

	maxStemLen = 50
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// PDFFileName derives the nth candidate's file name from the query.
func PDFFileName(query string, n int) string {
	stem := truncate(nonWord.ReplaceAllString(query, "_"), maxStemLen)
	return fmt.Sprintf("%s_%d.pdf", stem, n)
}

// Candidates yields, in ranking order, result URLs that end in .pdf.
func Candidates(results []search.Result) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, r := range results {
			if strings.HasSuffix(strings.ToLower(r.URL), ".pdf") {
				if !yield(r.URL) {
					return
				}
			}
		}
	}
}

// DownloadPDF tries candidates one at a time and stops at the first that
// downloads completely.
func (t *Toolbox) DownloadPDF(ctx context.Context, args Args) Result {
	query := args.Get("query")
	results, err := t.search.Search(ctx, query+" filetype:pdf", t.maxResults)
	if err != nil {
		return Fail(UpstreamKind(err), "search failed: %v", err)
	}

	n := 0
	for url := range Candidates(results) {
		n++
		name := PDFFileName(query, n)
		path, err := t.fetchPDF(ctx, url, name)
		if err != nil {
			log.Debug().Err(err).Str("url", url).Int("candidate", n).Msg("pdf candidate failed")
			continue
		}
		log.Info().Str("url", url).Str("file", name).Msg("pdf downloaded")
		return Success(models.DownloadResponse{Status: "success", File: name, Path: path, URL: url})
	}

	if n == 0 {
		return Fail(KindNotFound, MsgNoPDFs)
	}
	return Fail(KindIO, MsgDownloadsFailed)
}

func (t *Toolbox) fetchPDF(ctx context.Context, url, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := t.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("status %s", resp.Status)
	}
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/pdf" {
		return "", fmt.Errorf("unexpected content type %q", resp.Header.Get("Content-Type"))
	}

	path, err := t.files.Resolve(name)
	if err != nil {
		return "", err
	}
	f, err := t.files.Create(name)
	if err != nil {
		return "", err
	}
	_, copyErr := io.Copy(f, resp.Body)
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		t.files.Remove(name)
		if copyErr != nil {
			return "", fmt.Errorf("write %s: %w", name, copyErr)
		}
		return "", fmt.Errorf("close %s: %w", name, closeErr)
	}
	return path, nil
}
