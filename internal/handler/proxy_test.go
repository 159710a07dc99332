package handler_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpgate/mcpgate/internal/handler"
	"github.com/mcpgate/mcpgate/internal/middleware"
)

type fakeSupervisor struct {
	err    error
	calls  atomic.Int32
	ctxErr error
}

func (f *fakeSupervisor) EnsureReady(ctx context.Context) error {
	f.calls.Add(1)
	f.ctxErr = ctx.Err()
	return f.err
}

func (f *fakeSupervisor) Status() string  { return "ready" }
func (f *fakeSupervisor) Launches() int64 { return int64(f.calls.Load()) }

type backend struct {
	*httptest.Server
	mu   sync.Mutex
	reqs []*http.Request
	body []string
}

func newBackend(t *testing.T, fn http.HandlerFunc) *backend {
	t.Helper()
	b := &backend{}
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		b.mu.Lock()
		b.reqs = append(b.reqs, r)
		b.body = append(b.body, string(data))
		b.mu.Unlock()
		fn(w, r)
	}))
	t.Cleanup(b.Close)
	return b
}

func (b *backend) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.reqs)
}

func newProxy(t *testing.T, sup handler.Supervisor, url string) *handler.Proxy {
	t.Helper()
	p, err := handler.NewProxy(sup, url, time.Second, 2*time.Second, 1<<20)
	require.NoError(t, err)
	return p
}

func jsonReply(code int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		io.WriteString(w, body)
	}
}

func TestForwardRelaysStatusAndBody(t *testing.T) {
	be := newBackend(t, jsonReply(http.StatusNotFound, `{"error":"No PDFs found."}`))
	sup := &fakeSupervisor{}
	p := newProxy(t, sup, be.URL)

	req := httptest.NewRequest(http.MethodPost, "/download_pdf", strings.NewReader(`{"query":"go"}`))
	rr := httptest.NewRecorder()
	p.Forward(handler.CheckArguments).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"No PDFs found."}`, rr.Body.String())
	assert.Equal(t, int32(1), sup.calls.Load())
	require.Equal(t, 1, be.count())
	assert.Equal(t, "/download_pdf", be.reqs[0].URL.Path)
	assert.Equal(t, `{"query":"go"}`, be.body[0], "body is forwarded verbatim")
}

func TestForwardMalformedJSONSkipsWorker(t *testing.T) {
	be := newBackend(t, jsonReply(http.StatusOK, `{}`))
	sup := &fakeSupervisor{}
	p := newProxy(t, sup, be.URL)

	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(`not json`))
	rr := httptest.NewRecorder()
	p.Forward(handler.CheckArguments).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.True(t, strings.HasPrefix(decodeError(t, rr), "Invalid JSON: "))
	assert.Zero(t, sup.calls.Load(), "worker must not be started for a bad body")
	assert.Zero(t, be.count())
}

func TestForwardWorkerNotReady(t *testing.T) {
	be := newBackend(t, jsonReply(http.StatusOK, `{}`))
	sup := &fakeSupervisor{err: errors.New("worker not ready: timed out")}
	p := newProxy(t, sup, be.URL)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rr := httptest.NewRecorder()
	p.Forward(nil).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, decodeError(t, rr), "worker unavailable")
	assert.Zero(t, be.count())
}

func TestForwardNonJSONReply(t *testing.T) {
	be := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, "<html>oops</html>")
	})
	p := newProxy(t, &fakeSupervisor{}, be.URL)

	rr := httptest.NewRecorder()
	p.Forward(nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, decodeError(t, rr), "non-JSON")
}

func TestForwardBackendDown(t *testing.T) {
	be := newBackend(t, jsonReply(http.StatusOK, `{}`))
	url := be.URL
	be.Close()
	p := newProxy(t, &fakeSupervisor{}, url)

	rr := httptest.NewRecorder()
	p.Forward(nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, decodeError(t, rr), "worker request failed")
}

func TestForwardReadTimeout(t *testing.T) {
	release := make(chan struct{})
	be := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-time.After(5 * time.Second):
		}
	})
	defer close(release)
	p, err := handler.NewProxy(&fakeSupervisor{}, be.URL, time.Second, 100*time.Millisecond, 1<<20)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	start := time.Now()
	p.Forward(nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestForwardBodyStallTimesOut(t *testing.T) {
	release := make(chan struct{})
	be := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"response":"`)
		w.(http.Flusher).Flush()
		select {
		case <-release:
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
		io.WriteString(w, `late"}`)
	})
	defer close(release)
	p, err := handler.NewProxy(&fakeSupervisor{}, be.URL, 100*time.Millisecond, 200*time.Millisecond, 1<<20)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	start := time.Now()
	p.Forward(nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/generate", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, decodeError(t, rr), "read worker response")
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestForwardIgnoresClientCancellation(t *testing.T) {
	be := newBackend(t, jsonReply(http.StatusOK, `{"status":"alive"}`))
	sup := &fakeSupervisor{}
	p := newProxy(t, sup, be.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil).WithContext(ctx)
	rr := httptest.NewRecorder()
	p.Forward(nil).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NoError(t, sup.ctxErr)
	assert.Equal(t, 1, be.count())
}

func TestForwardPropagatesRequestIDAndQuery(t *testing.T) {
	be := newBackend(t, jsonReply(http.StatusOK, `{"files":[]}`))
	p := newProxy(t, &fakeSupervisor{}, be.URL)

	h := middleware.RequestID(p.Forward(nil))
	req := httptest.NewRequest(http.MethodGet, "/list_files?x=1", nil)
	req.Header.Set("X-Request-ID", "trace-42")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, 1, be.count())
	assert.Equal(t, "trace-42", be.reqs[0].Header.Get("X-Request-ID"))
	assert.Equal(t, "x=1", be.reqs[0].URL.RawQuery)
}

func TestHealth(t *testing.T) {
	h := handler.NewHealthHandler(&fakeSupervisor{})
	rr := httptest.NewRecorder()
	h.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok","version":"`+handler.Version+`","worker":"ready","launches":0}`, rr.Body.String())
}
