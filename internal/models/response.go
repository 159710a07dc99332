package models

// PingResponse is returned by GET /ping on the bridge and relayed by the gateway.
type PingResponse struct {
	Status string `json:"status"`
}

// HealthResponse is returned by GET /health on the gateway.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Worker   string `json:"worker"`
	Launches int64  `json:"launches"`
}

// TextResponse carries a model reply or a human readable confirmation.
type TextResponse struct {
	Response string `json:"response"`
}

// DownloadResponse is returned by a successful POST /download_pdf.
type DownloadResponse struct {
	Status string `json:"status"`
	File   string `json:"file"`
	Path   string `json:"path"`
	URL    string `json:"url"`
}

// CodeFileResponse is returned by POST /generate_code_file.
type CodeFileResponse struct {
	Response string `json:"response"`
	File     string `json:"file"`
}

// ToolResponse is returned by POST /detect_tool.
type ToolResponse struct {
	Tool string `json:"tool"`
}

// FilesResponse is returned by GET /list_files.
type FilesResponse struct {
	Files []string `json:"files"`
}

// ContentResponse is returned by POST /read_file.
type ContentResponse struct {
	Content string `json:"content"`
}

// ToolInfo describes one registry entry for GET /tools.
type ToolInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Parameters  []string `json:"parameters"`
}
