// Package tools defines the tool registry, the request/result envelope shared by
// the dispatcher and the bridge routes, and the individual tool handlers.
package tools

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Name identifies one registered tool. The set is closed; see Lookup.
type Name string

const (
	Generate         Name = "generate"
	DownloadPDF      Name = "download_pdf"
	GenerateCodeFile Name = "generate_code_file"
	SummarizePDF     Name = "summarize_pdf"
	DetectIntent     Name = "detect_intent"
	ListFiles        Name = "list_files"
	ReadFile         Name = "read_file"
	WriteFile        Name = "write_file"
	ModifyFile       Name = "modify_file"
)

// Args holds the string arguments of a call. Missing keys read as "".
type Args map[string]string

func (a Args) Get(key string) string { return a[key] }

// Request is one tool invocation.
type Request struct {
	Tool      string
	Arguments Args
}

// Kind classifies a Failure and decides its HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUpstreamUnavailable
	KindUpstream
	KindIO
	KindClassification
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	case KindUpstream:
		return "upstream"
	case KindIO:
		return "io"
	case KindClassification:
		return "classification"
	default:
		return "internal"
	}
}

// Status maps the kind to the HTTP status written by the bridge.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// UpstreamKind tells an unreachable collaborator apart from one that
// answered with an error.
func UpstreamKind(err error) Kind {
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return KindUpstreamUnavailable
	}
	return KindUpstream
}

// Failure is the error half of Result.
type Failure struct {
	Kind    Kind
	Message string
}

func (f *Failure) Error() string { return f.Message }

// Result is either a success payload or a Failure, never both.
type Result struct {
	payload any
	failure *Failure
}

func Success(payload any) Result {
	return Result{payload: payload}
}

func Fail(kind Kind, format string, args ...any) Result {
	return Result{failure: &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}}
}

func (r Result) OK() bool          { return r.failure == nil }
func (r Result) Payload() any      { return r.payload }
func (r Result) Failure() *Failure { return r.failure }

// Handler executes one tool. Faults are reported through the Result, not panics.
type Handler func(ctx context.Context, args Args) Result
