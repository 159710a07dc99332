package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"

	"github.com/mcpgate/mcpgate/internal/models"
	"github.com/mcpgate/mcpgate/internal/tools"
)

var errNotObject = errors.New("expected a JSON object")

// ParseArguments decodes a JSON object into string arguments. Numbers keep
// their literal text, null becomes "" and nested values are re-encoded.
func ParseArguments(body []byte) (map[string]string, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errNotObject
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON object")
	}

	args := make(map[string]string, len(raw))
	for k, v := range raw {
		s, err := stringify(v)
		if err != nil {
			return nil, err
		}
		args[k] = s
	}
	return args, nil
}

// ParseDispatch decodes a POST /dispatch body. The tool name is not checked
// here; the dispatcher rejects unknown names.
func ParseDispatch(body []byte) (tools.Request, error) {
	var env struct {
		ToolName  string          `json:"tool_name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return tools.Request{}, err
	}

	args := map[string]string{}
	if len(env.Arguments) > 0 && string(env.Arguments) != "null" {
		var err error
		if args, err = ParseArguments(env.Arguments); err != nil {
			return tools.Request{}, err
		}
	}
	return tools.Request{Tool: env.ToolName, Arguments: args}, nil
}

// CheckArguments and CheckDispatch let the gateway reject bad bodies without
// keeping the decoded result.
func CheckArguments(body []byte) error {
	_, err := ParseArguments(body)
	return err
}

func CheckDispatch(body []byte) error {
	_, err := ParseDispatch(body)
	return err
}

// EncodeDispatch builds a POST /dispatch body.
func EncodeDispatch(tool string, args map[string]string) ([]byte, error) {
	req := models.DispatchRequest{ToolName: tool, Arguments: make(map[string]any, len(args))}
	for k, v := range args {
		req.Arguments[k] = v
	}
	return json.Marshal(req)
}

func stringify(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
