// Package agent is the interactive client for a running gateway: free-form
// commands are resolved to a tool, its parameters are asked for in registry
// order and the result is printed.
package agent

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mcpgate/mcpgate/internal/handler"
	"github.com/mcpgate/mcpgate/internal/models"
)

const chatCommand = "chat"

var errEOF = errors.New("input closed")

// Session drives one interactive loop against a gateway.
type Session struct {
	gateway string
	client  *http.Client
	in      *bufio.Scanner
	out     io.Writer
	tools   map[string]models.ToolInfo
}

func NewSession(gatewayURL string, client *http.Client, in io.Reader, out io.Writer) *Session {
	if client == nil {
		client = http.DefaultClient
	}
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return &Session{
		gateway: strings.TrimRight(gatewayURL, "/"),
		client:  client,
		in:      sc,
		out:     out,
	}
}

// Run loads the tool list and reads commands until "exit" or end of input.
func (s *Session) Run() error {
	if err := s.loadTools(); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "mcpgate agent. Type a request or a tool name, 'chat' to talk to the model, 'exit' to quit.")

	for {
		line, err := s.ask("\ncommand> ")
		if errors.Is(err, errEOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch {
		case line == "":
			continue
		case strings.EqualFold(line, "exit"):
			fmt.Fprintln(s.out, "Goodbye.")
			return nil
		case strings.EqualFold(line, chatCommand):
			if err := s.chat(); err != nil {
				return ignoreEOF(err)
			}
			continue
		}

		if err := s.runCommand(line); err != nil {
			return ignoreEOF(err)
		}
	}
}

func (s *Session) runCommand(line string) error {
	tool, ok := s.tools[line]
	if !ok {
		name, err := s.detect(line)
		if err != nil {
			fmt.Fprintf(s.out, "Unknown tool or intent: %v\n", err)
			return nil
		}
		if tool, ok = s.tools[name]; !ok {
			fmt.Fprintf(s.out, "Unknown tool or intent: %s\n", name)
			return nil
		}
		fmt.Fprintf(s.out, "Using tool %s\n", tool.Name)
	}

	args := make(map[string]string, len(tool.Parameters))
	for _, p := range tool.Parameters {
		v, err := s.ask(fmt.Sprintf("  %s: ", p))
		if err != nil {
			return err
		}
		args[p] = v
	}

	body, err := s.dispatch(tool.Name, args)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return nil
	}
	fmt.Fprintf(s.out, "Result:\n%s\n", render(body))
	return nil
}

// chat keeps a rolling User:/AI: transcript and sends all of it as the prompt
// on every turn.
func (s *Session) chat() error {
	fmt.Fprintln(s.out, "Chat mode, 'exit' to leave.")
	var history []string
	for {
		line, err := s.ask("you> ")
		if err != nil {
			return err
		}
		if strings.EqualFold(line, "exit") {
			fmt.Fprintln(s.out, "Leaving chat.")
			return nil
		}
		if line == "" {
			continue
		}

		history = append(history, "User: "+line)
		prompt := strings.Join(history, "\n") + "\nAI:"
		body, err := s.dispatch("generate", map[string]string{"prompt": prompt})
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			continue
		}
		var resp models.TextResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			continue
		}
		reply := strings.TrimSpace(resp.Response)
		fmt.Fprintf(s.out, "AI: %s\n", reply)
		history = append(history, "AI: "+reply)
	}
}

func (s *Session) loadTools() error {
	body, err := s.do(http.MethodGet, "/tools", nil)
	if err != nil {
		return fmt.Errorf("list tools: %w", err)
	}
	var list []models.ToolInfo
	if err := json.Unmarshal(body, &list); err != nil {
		return fmt.Errorf("list tools: %w", err)
	}
	s.tools = make(map[string]models.ToolInfo, len(list))
	for _, t := range list {
		s.tools[t.Name] = t
	}
	return nil
}

func (s *Session) detect(prompt string) (string, error) {
	req, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return "", err
	}
	body, err := s.do(http.MethodPost, "/detect_tool", req)
	if err != nil {
		return "", err
	}
	var resp models.ToolResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}
	return resp.Tool, nil
}

func (s *Session) dispatch(tool string, args map[string]string) ([]byte, error) {
	req, err := handler.EncodeDispatch(tool, args)
	if err != nil {
		return nil, err
	}
	return s.do(http.MethodPost, "/dispatch", req)
}

// do returns the body of a 2xx reply; anything else becomes an error carrying
// the gateway's message.
func (s *Session) do(method, path string, body []byte) ([]byte, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, s.gateway+path, rdr)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e models.ErrorResponse
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			return nil, errors.New(e.Error)
		}
		return nil, fmt.Errorf("gateway returned %s", resp.Status)
	}
	return data, nil
}

func (s *Session) ask(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", errEOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

// render prints a text reply as is and anything else as indented JSON.
func render(body []byte) string {
	var text models.TextResponse
	if json.Unmarshal(body, &text) == nil && text.Response != "" {
		return text.Response
	}
	var buf bytes.Buffer
	if json.Indent(&buf, body, "", "  ") != nil {
		return string(body)
	}
	return buf.String()
}

func ignoreEOF(err error) error {
	if errors.Is(err, errEOF) {
		return nil
	}
	return err
}
