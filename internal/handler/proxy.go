package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mcpgate/mcpgate/internal/middleware"
	"github.com/mcpgate/mcpgate/internal/models"
)

// Supervisor is what the proxy needs from the worker supervisor.
type Supervisor interface {
	EnsureReady(ctx context.Context) error
	Status() string
	Launches() int64
}

// BodyCheck validates a request body before the worker is involved.
type BodyCheck func(body []byte) error

// Proxy relays gateway requests to the bridge worker, starting it on demand.
type Proxy struct {
	sup      Supervisor
	backend  *url.URL
	client   *http.Client
	exchange time.Duration
	maxBody  int64
}

// NewProxy dials the backend with connectTimeout. The worker then has
// readTimeout to deliver the complete response, headers and body.
func NewProxy(sup Supervisor, backendURL string, connectTimeout, readTimeout time.Duration, maxBody int64) (*Proxy, error) {
	u, err := url.Parse(backendURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	transport := &http.Transport{
		DialContext:           (&net.Dialer{Timeout: connectTimeout}).DialContext,
		ResponseHeaderTimeout: readTimeout,
		MaxIdleConns:          16,
		IdleConnTimeout:       90 * time.Second,
	}
	return &Proxy{
		sup:      sup,
		backend:  u,
		client:   &http.Client{Transport: transport},
		exchange: connectTimeout + readTimeout,
		maxBody:  maxBody,
	}, nil
}

// Forward validates the body with check (nil means the route takes no body),
// makes sure the worker is up and relays the worker's reply.
func (p *Proxy) Forward(check BodyCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if check != nil {
			b, ok := readBody(w, r, p.maxBody)
			if !ok {
				return
			}
			if err := check(b); err != nil {
				models.WriteError(w, http.StatusBadRequest, models.InvalidJSON(err))
				return
			}
			body = b
		}

		// The caller going away does not abort a launch or a tool call in flight.
		ctx := context.WithoutCancel(r.Context())

		if err := p.sup.EnsureReady(ctx); err != nil {
			log.Error().Err(err).Str("path", r.URL.Path).Msg("worker not ready")
			models.WriteError(w, http.StatusInternalServerError, "worker unavailable: "+err.Error())
			return
		}

		status, reply, err := p.relay(ctx, r, body)
		if err != nil {
			log.Error().Err(err).Str("path", r.URL.Path).Msg("forward failed")
			models.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		models.WriteRaw(w, status, reply)
	}
}

func (p *Proxy) relay(ctx context.Context, r *http.Request, body []byte) (int, []byte, error) {
	if p.exchange > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.exchange)
		defer cancel()
	}

	target := p.backend.ResolveReference(&url.URL{Path: r.URL.Path, RawQuery: r.URL.RawQuery})

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, target.String(), rdr)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if id := middleware.GetRequestID(r.Context()); id != "" {
		req.Header.Set(middleware.RequestIDHeader, id)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("worker request failed: %w", err)
	}
	defer resp.Body.Close()

	reply, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read worker response: %w", err)
	}
	if !json.Valid(reply) {
		return 0, nil, fmt.Errorf("worker returned a non-JSON response (status %d)", resp.StatusCode)
	}
	return resp.StatusCode, reply, nil
}
