package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mcpgate/mcpgate/internal/models"
)

const previewLen = 500

var extensions = map[string]string{
	"python":     "py",
	"html":       "html",
	"javascript": "js",
	"java":       "java",
	"c":          "c",
	"go":         "go",
	"typescript": "ts",
	"rust":       "rs",
	"cpp":        "cpp",
	"bash":       "sh",
}

// Extension maps a language name to a file extension, "txt" when unknown.
func Extension(language string) string {
	if ext, ok := extensions[strings.ToLower(strings.TrimSpace(language))]; ok {
		return ext
	}
	return "txt"
}

func CodePrompt(language, task string) string {
	return fmt.Sprintf("Write a complete %s program that does the following:\n%s", language, task)
}

func (t *Toolbox) GenerateCodeFile(ctx context.Context, args Args) Result {
	language := args.Get("language")
	code, err := t.gen.Generate(ctx, CodePrompt(language, args.Get("task")))
	if err != nil {
		return Fail(UpstreamKind(err), "Error generating code: %v", err)
	}

	name := "generated_code." + Extension(language)
	if _, err := t.files.Write(name, code); err != nil {
		return Fail(KindIO, "Error saving code: %v", err)
	}

	msg := fmt.Sprintf("Code saved as `%s`.\n\nOutput Preview:\n%s...", name, truncate(code, previewLen))
	return Success(models.CodeFileResponse{Response: msg, File: name})
}
