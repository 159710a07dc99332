// Package pdf extracts plain text from PDF files on disk.
package pdf

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

type Extractor interface {
	// ExtractText returns the text of the first maxPages pages (all if <= 0).
	ExtractText(path string, maxPages int) (string, error)
}

// PlainText uses ledongthuc/pdf. Pages without extractable text are skipped.
type PlainText struct{}

func (PlainText) ExtractText(path string, maxPages int) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	n := r.NumPage()
	if maxPages > 0 && n > maxPages {
		n = maxPages
	}

	var sb strings.Builder
	for i := 1; i <= n; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		txt, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(txt)
	}
	return sb.String(), nil
}
