package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpgate/mcpgate/internal/files"
	"github.com/mcpgate/mcpgate/internal/llm"
	"github.com/mcpgate/mcpgate/internal/models"
	"github.com/mcpgate/mcpgate/internal/security"
	"github.com/mcpgate/mcpgate/internal/service"
	"github.com/mcpgate/mcpgate/internal/tools"
)

func reply(s string, err error) llm.Generator {
	return llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return s, err
	})
}

func newDispatcher(t *testing.T, gen llm.Generator) *service.Dispatcher {
	t.Helper()
	store, err := files.NewStore(t.TempDir())
	require.NoError(t, err)
	box := tools.NewToolbox(tools.Deps{Generator: gen, Files: store})
	return service.NewDispatcher(box, gen, security.NewAuditLogger(false, nil))
}

func TestDispatchUnknownTool(t *testing.T) {
	d := newDispatcher(t, reply("x", nil))

	res := d.Dispatch(context.Background(), tools.Request{Tool: "rm_rf"})
	require.False(t, res.OK())
	assert.Equal(t, tools.KindNotFound, res.Failure().Kind)
	assert.Equal(t, "Route not found", res.Failure().Message)
}

func TestDispatchMissingParamsDefaultEmpty(t *testing.T) {
	var got string
	gen := llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		got = prompt
		return "ok", nil
	})
	d := newDispatcher(t, gen)

	res := d.Dispatch(context.Background(), tools.Request{Tool: "generate", Arguments: tools.Args{"other": "x"}})
	require.True(t, res.OK())
	assert.Equal(t, "", got)
}

func TestDispatchWriteThenRead(t *testing.T) {
	d := newDispatcher(t, reply("", nil))
	ctx := context.Background()

	res := d.Dispatch(ctx, tools.Request{Tool: "write_file", Arguments: tools.Args{"path": "a.txt", "content": "hello"}})
	require.True(t, res.OK())

	res = d.Dispatch(ctx, tools.Request{Tool: "read_file", Arguments: tools.Args{"path": "a.txt"}})
	require.True(t, res.OK())
	assert.Equal(t, models.ContentResponse{Content: "hello"}, res.Payload())
}

func TestDispatchRecoversPanic(t *testing.T) {
	gen := llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		panic("model exploded")
	})
	d := newDispatcher(t, gen)

	res := d.Dispatch(context.Background(), tools.Request{Tool: "generate", Arguments: tools.Args{"prompt": "p"}})
	require.False(t, res.OK())
	assert.Equal(t, tools.KindInternal, res.Failure().Kind)
	assert.Contains(t, res.Failure().Message, "model exploded")
}

func TestDetectIntentExactMatch(t *testing.T) {
	d := newDispatcher(t, reply("  download_pdf\n", nil))

	res := d.Dispatch(context.Background(), tools.Request{Tool: "detect_intent", Arguments: tools.Args{"prompt": "get me a paper"}})
	require.True(t, res.OK())
	assert.Equal(t, models.ToolResponse{Tool: "download_pdf"}, res.Payload())
}

func TestDetectIntentRejectsLooseReply(t *testing.T) {
	for _, r := range []string{"Download_PDF", "use download_pdf", "'generate'", ""} {
		d := newDispatcher(t, reply(r, nil))

		res := d.Dispatch(context.Background(), tools.Request{Tool: "detect_intent", Arguments: tools.Args{"prompt": "p"}})
		require.False(t, res.OK(), r)
		assert.Equal(t, tools.KindClassification, res.Failure().Kind)
		assert.True(t, strings.HasPrefix(res.Failure().Message, "LLM responded with an invalid tool: "))
	}
}

func TestDetectIntentUpstreamError(t *testing.T) {
	d := newDispatcher(t, reply("", assert.AnError))

	res := d.Dispatch(context.Background(), tools.Request{Tool: "detect_intent", Arguments: tools.Args{"prompt": "p"}})
	require.False(t, res.OK())
	assert.Equal(t, tools.KindUpstream, res.Failure().Kind)
}

func TestIntentPromptListsEveryTool(t *testing.T) {
	p := service.IntentPrompt("make a pdf", tools.Names())
	assert.Contains(t, p, "'make a pdf'")
	for _, n := range tools.Names() {
		assert.Contains(t, p, string(n))
	}
	assert.True(t, strings.HasSuffix(p, "Reply with ONLY the exact tool name from the list. No explanation."))
}

func TestList(t *testing.T) {
	d := newDispatcher(t, reply("", nil))
	list := d.List()
	require.Len(t, list, len(tools.Names()))
	for _, info := range list {
		assert.NotNil(t, info.Parameters, info.Name)
		if info.Name == "list_files" {
			assert.Empty(t, info.Parameters)
		}
	}
}
