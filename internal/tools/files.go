package tools

import (
	"context"
	"fmt"

	"github.com/mcpgate/mcpgate/internal/models"
)

func (t *Toolbox) ListFiles(ctx context.Context, _ Args) Result {
	names, err := t.files.List()
	if err != nil {
		return fileFailure(err)
	}
	return Success(models.FilesResponse{Files: names})
}

func (t *Toolbox) ReadFile(ctx context.Context, args Args) Result {
	content, err := t.files.Read(args.Get("path"))
	if err != nil {
		return fileFailure(err)
	}
	return Success(models.ContentResponse{Content: content})
}

func (t *Toolbox) WriteFile(ctx context.Context, args Args) Result {
	return t.write(args, "written")
}

// ModifyFile replaces the whole content, same as WriteFile.
func (t *Toolbox) ModifyFile(ctx context.Context, args Args) Result {
	return t.write(args, "modified")
}

func (t *Toolbox) write(args Args, verb string) Result {
	path := args.Get("path")
	if _, err := t.files.Write(path, args.Get("content")); err != nil {
		return fileFailure(err)
	}
	return Success(models.TextResponse{Response: fmt.Sprintf("File '%s' %s successfully.", path, verb)})
}
