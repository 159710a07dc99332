package security

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// AuditLogger logs one event per tool call. Argument values are hashed so
// file contents and prompts never reach the log verbatim.
type AuditLogger struct {
	enabled bool
	pii     *PIIDetector
}

func NewAuditLogger(enabled bool, pii *PIIDetector) *AuditLogger {
	return &AuditLogger{enabled: enabled, pii: pii}
}

// ToolCall is what the dispatcher reports after a call returns.
type ToolCall struct {
	Tool      string
	RequestID string
	Arguments map[string]string
	Duration  time.Duration
	Success   bool
	ErrorKind string
}

// LogToolCall is a no-op on a nil or disabled logger.
func (a *AuditLogger) LogToolCall(c ToolCall) {
	if a == nil || !a.enabled {
		return
	}

	keys := make([]string, 0, len(c.Arguments))
	for k := range c.Arguments {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	hashes := make([]string, len(keys))
	var pii string
	for i, k := range keys {
		hashes[i] = k + "=" + HashArg(c.Arguments[k])
		if pii == "" && a.pii != nil {
			if found, kw := a.pii.Detect(c.Arguments[k]); found {
				pii = kw
			}
		}
	}

	evt := log.Info().
		Str("event", "tool_audit").
		Str("tool", c.Tool).
		Str("args", strings.Join(hashes, ",")).
		Int64("duration_ms", c.Duration.Milliseconds()).
		Bool("success", c.Success)
	if c.RequestID != "" {
		evt = evt.Str("request_id", c.RequestID)
	}
	if c.ErrorKind != "" {
		evt = evt.Str("error_kind", c.ErrorKind)
	}
	if pii != "" {
		evt = evt.Str("pii_keyword", pii)
	}
	evt.Msg("audit")
}

// HashArg returns the first 16 hex digits of the SHA-256 of s.
func HashArg(s string) string {
	h := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", h)[:16]
}
