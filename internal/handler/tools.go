package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/mcpgate/mcpgate/internal/models"
	"github.com/mcpgate/mcpgate/internal/tools"
)

// Route binds an HTTP endpoint to a registered tool. The gateway and the
// bridge serve the same table.
type Route struct {
	Method string
	Path   string
	Tool   tools.Name
}

var ToolRoutes = []Route{
	{http.MethodPost, "/generate", tools.Generate},
	{http.MethodPost, "/download_pdf", tools.DownloadPDF},
	{http.MethodPost, "/generate_code_file", tools.GenerateCodeFile},
	{http.MethodPost, "/detect_tool", tools.DetectIntent},
	{http.MethodPost, "/summarize_pdf", tools.SummarizePDF},
	{http.MethodGet, "/list_files", tools.ListFiles},
	{http.MethodPost, "/read_file", tools.ReadFile},
	{http.MethodPost, "/write_file", tools.WriteFile},
	{http.MethodPost, "/modify_file", tools.ModifyFile},
}

type Dispatcher interface {
	Dispatch(ctx context.Context, req tools.Request) tools.Result
	List() []models.ToolInfo
}

// ToolHandler serves the bridge side of every tool route.
type ToolHandler struct {
	dispatcher Dispatcher
	maxBody    int64
}

func NewToolHandler(d Dispatcher, maxBody int64) *ToolHandler {
	return &ToolHandler{dispatcher: d, maxBody: maxBody}
}

// Tool handles one fixed tool route. GET routes take no body.
func (h *ToolHandler) Tool(name tools.Name) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		args := map[string]string{}
		if r.Method != http.MethodGet {
			body, ok := h.readBody(w, r)
			if !ok {
				return
			}
			var err error
			if args, err = ParseArguments(body); err != nil {
				models.WriteError(w, http.StatusBadRequest, models.InvalidJSON(err))
				return
			}
		}
		writeResult(w, h.dispatcher.Dispatch(r.Context(), tools.Request{Tool: string(name), Arguments: args}))
	}
}

// Dispatch handles POST /dispatch.
func (h *ToolHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	req, err := ParseDispatch(body)
	if err != nil {
		models.WriteError(w, http.StatusBadRequest, models.InvalidJSON(err))
		return
	}
	writeResult(w, h.dispatcher.Dispatch(r.Context(), req))
}

// List handles GET /tools.
func (h *ToolHandler) List(w http.ResponseWriter, r *http.Request) {
	models.WriteJSON(w, http.StatusOK, h.dispatcher.List())
}

func (h *ToolHandler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	return readBody(w, r, h.maxBody)
}

func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			models.WriteError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		models.WriteError(w, http.StatusBadRequest, models.InvalidJSON(err))
		return nil, false
	}
	return body, true
}

func writeResult(w http.ResponseWriter, res tools.Result) {
	if f := res.Failure(); f != nil {
		models.WriteError(w, f.Kind.Status(), f.Message)
		return
	}
	models.WriteJSON(w, http.StatusOK, res.Payload())
}
