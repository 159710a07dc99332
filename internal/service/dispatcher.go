// Package service routes tool requests to their handlers.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mcpgate/mcpgate/internal/llm"
	"github.com/mcpgate/mcpgate/internal/middleware"
	"github.com/mcpgate/mcpgate/internal/models"
	"github.com/mcpgate/mcpgate/internal/security"
	"github.com/mcpgate/mcpgate/internal/tools"
)

// Dispatcher owns the handler table keyed by registry name. It holds no
// per-request state.
type Dispatcher struct {
	handlers map[tools.Name]tools.Handler
	audit    *security.AuditLogger
}

func NewDispatcher(box *tools.Toolbox, gen llm.Generator, audit *security.AuditLogger) *Dispatcher {
	handlers := box.Handlers()
	handlers[tools.DetectIntent] = NewIntentClassifier(gen).Handle
	return &Dispatcher{handlers: handlers, audit: audit}
}

// Dispatch runs the named tool synchronously. Unknown names never reach a
// handler.
func (d *Dispatcher) Dispatch(ctx context.Context, req tools.Request) (res tools.Result) {
	spec, ok := tools.Lookup(req.Tool)
	if !ok {
		return tools.Fail(tools.KindNotFound, models.MsgRouteNotFound)
	}
	handler, ok := d.handlers[spec.Name]
	if !ok {
		return tools.Fail(tools.KindInternal, "no handler bound for %s", spec.Name)
	}
	args := spec.Bind(req.Arguments)

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("tool", string(spec.Name)).Msg("tool handler panicked")
			res = tools.Fail(tools.KindInternal, "%s", fmt.Sprint(r))
		}
		call := security.ToolCall{
			Tool:      string(spec.Name),
			RequestID: middleware.GetRequestID(ctx),
			Arguments: args,
			Duration:  time.Since(start),
			Success:   res.OK(),
		}
		if f := res.Failure(); f != nil {
			call.ErrorKind = f.Kind.String()
		}
		d.audit.LogToolCall(call)
	}()

	return handler(ctx, args)
}

// List describes every registered tool.
func (d *Dispatcher) List() []models.ToolInfo {
	specs := tools.Specs()
	out := make([]models.ToolInfo, 0, len(specs))
	for _, s := range specs {
		params := s.Params
		if params == nil {
			params = []string{}
		}
		out = append(out, models.ToolInfo{Name: string(s.Name), Description: s.Description, Parameters: params})
	}
	return out
}
