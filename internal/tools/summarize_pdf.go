package tools

import (
	"context"
	"errors"

	"github.com/mcpgate/mcpgate/internal/files"
	"github.com/mcpgate/mcpgate/internal/models"
)

const (
	summaryPages = 3
	summaryChars = 2000
)

func (t *Toolbox) SummarizePDF(ctx context.Context, args Args) Result {
	path, err := t.files.Resolve(args.Get("path"))
	if err != nil {
		return fileFailure(err)
	}
	text, err := t.pdf.ExtractText(path, summaryPages)
	if err != nil {
		return Fail(KindIO, "PDF error: %v", err)
	}

	reply, err := t.gen.Generate(ctx, "Summarize this:\n"+truncate(text, summaryChars))
	if err != nil {
		return Fail(UpstreamKind(err), "%v", err)
	}
	return Success(models.TextResponse{Response: reply})
}

func fileFailure(err error) Result {
	if errors.Is(err, files.ErrOutsideRoot) {
		return Fail(KindValidation, "%v", err)
	}
	return Fail(KindIO, "Error: %v", err)
}
