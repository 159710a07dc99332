package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mcpgate/mcpgate/internal/llm"
	"github.com/mcpgate/mcpgate/internal/models"
	"github.com/mcpgate/mcpgate/internal/tools"
)

// IntentClassifier asks the model which registered tool fits a free-form
// prompt and accepts only an exact registry name as the answer.
type IntentClassifier struct {
	gen llm.Generator
}

func NewIntentClassifier(gen llm.Generator) *IntentClassifier {
	return &IntentClassifier{gen: gen}
}

func IntentPrompt(prompt string, names []tools.Name) string {
	list := make([]string, len(names))
	for i, n := range names {
		list[i] = string(n)
	}
	return fmt.Sprintf("Given this request: '%s', choose the best matching tool name from this list:\n%s\n\n"+
		"Reply with ONLY the exact tool name from the list. No explanation.",
		prompt, strings.Join(list, ", "))
}

// Classify returns the tool the model picked. Surrounding whitespace is
// trimmed; anything else must match exactly.
func (c *IntentClassifier) Classify(ctx context.Context, prompt string) tools.Result {
	reply, err := c.gen.Generate(ctx, IntentPrompt(prompt, tools.Names()))
	if err != nil {
		return tools.Fail(tools.UpstreamKind(err), "LLM error: %v", err)
	}
	reply = strings.TrimSpace(reply)
	spec, ok := tools.Lookup(reply)
	if !ok {
		return tools.Fail(tools.KindClassification, "LLM responded with an invalid tool: %s", reply)
	}
	return tools.Success(models.ToolResponse{Tool: string(spec.Name)})
}

func (c *IntentClassifier) Handle(ctx context.Context, args tools.Args) tools.Result {
	return c.Classify(ctx, args.Get("prompt"))
}
