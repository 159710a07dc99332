package tools_test

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpgate/mcpgate/internal/tools"
)

func TestLookup(t *testing.T) {
	spec, ok := tools.Lookup("generate_code_file")
	require.True(t, ok)
	assert.Equal(t, []string{"language", "task"}, spec.Params)

	_, ok = tools.Lookup("rm_rf")
	assert.False(t, ok)
	_, ok = tools.Lookup("Generate")
	assert.False(t, ok, "lookup is exact")
}

func TestLookupReturnsCopy(t *testing.T) {
	spec, _ := tools.Lookup("write_file")
	spec.Params[0] = "mutated"

	again, _ := tools.Lookup("write_file")
	assert.Equal(t, "path", again.Params[0])
}

func TestBindDefaultsMissingToEmpty(t *testing.T) {
	spec, _ := tools.Lookup("write_file")
	args := spec.Bind(map[string]string{"path": "a.txt", "extra": "ignored"})

	assert.Equal(t, tools.Args{"path": "a.txt", "content": ""}, args)
	assert.Equal(t, "", args.Get("nope"))
}

func TestNamesSorted(t *testing.T) {
	names := tools.Names()
	require.Len(t, names, 9)
	for i := 1; i < len(names); i++ {
		assert.Less(t, string(names[i-1]), string(names[i]))
	}
}

func TestResultVariants(t *testing.T) {
	ok := tools.Success("payload")
	assert.True(t, ok.OK())
	assert.Nil(t, ok.Failure())
	assert.Equal(t, "payload", ok.Payload())

	bad := tools.Fail(tools.KindNotFound, "missing %s", "thing")
	assert.False(t, bad.OK())
	assert.Nil(t, bad.Payload())
	assert.Equal(t, "missing thing", bad.Failure().Message)
}

func TestKindStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, tools.KindValidation.Status())
	assert.Equal(t, http.StatusNotFound, tools.KindNotFound.Status())
	for _, k := range []tools.Kind{tools.KindInternal, tools.KindUpstream, tools.KindUpstreamUnavailable, tools.KindIO, tools.KindClassification} {
		assert.Equal(t, http.StatusInternalServerError, k.Status(), k.String())
	}
}

func TestUpstreamKind(t *testing.T) {
	dial := fmt.Errorf("ollama generate: %w", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")})
	assert.Equal(t, tools.KindUpstreamUnavailable, tools.UpstreamKind(dial))
	assert.Equal(t, tools.KindUpstream, tools.UpstreamKind(errors.New("model not found")))
}
