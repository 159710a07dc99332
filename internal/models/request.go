package models

// DispatchRequest is the body of POST /dispatch. Argument values may be any
// JSON scalar on the wire; the bridge turns them into strings.
type DispatchRequest struct {
	ToolName  string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments"`
}
