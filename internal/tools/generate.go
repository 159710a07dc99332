package tools

import (
	"context"

	"github.com/mcpgate/mcpgate/internal/models"
)

// Generate forwards the prompt and returns the model reply untouched.
func (t *Toolbox) Generate(ctx context.Context, args Args) Result {
	reply, err := t.gen.Generate(ctx, args.Get("prompt"))
	if err != nil {
		return Fail(UpstreamKind(err), "%v", err)
	}
	return Success(models.TextResponse{Response: reply})
}
