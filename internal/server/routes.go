package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/mcpgate/mcpgate/internal/config"
	"github.com/mcpgate/mcpgate/internal/files"
	"github.com/mcpgate/mcpgate/internal/handler"
	"github.com/mcpgate/mcpgate/internal/llm"
	"github.com/mcpgate/mcpgate/internal/middleware"
	"github.com/mcpgate/mcpgate/internal/models"
	"github.com/mcpgate/mcpgate/internal/pdf"
	"github.com/mcpgate/mcpgate/internal/search"
	"github.com/mcpgate/mcpgate/internal/security"
	"github.com/mcpgate/mcpgate/internal/service"
	"github.com/mcpgate/mcpgate/internal/supervisor"
	"github.com/mcpgate/mcpgate/internal/tools"
)

// NewGateway wires the public proxy and the supervisor that owns the worker.
func NewGateway(cfg *config.Config, launcher supervisor.Launcher) (*Server, *supervisor.Supervisor, error) {
	prober := &supervisor.TCPProber{Addr: cfg.BridgeAddr(), Timeout: cfg.ProbeTimeout()}
	sup := supervisor.New(prober, launcher, supervisor.Options{
		PollInterval: cfg.PollInterval(),
		ReadyTimeout: cfg.ReadyTimeout(),
	})

	router, err := GatewayRouter(cfg, sup)
	if err != nil {
		return nil, nil, err
	}

	log.Info().
		Str("bridge", cfg.BridgeAddr()).
		Dur("ready_timeout", cfg.ReadyTimeout()).
		Dur("read_timeout", cfg.ReadTimeout()).
		Int("rate_limit_per_minute", cfg.RateLimitPerMinute).
		Msg("gateway configuration")

	// A request may wait for the launch and then for the whole tool call.
	writeTimeout := cfg.ReadyTimeout() + cfg.ConnectTimeout() + cfg.ReadTimeout() + 10*time.Second
	return New("gateway", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), router, writeTimeout), sup, nil
}

// GatewayRouter exposes every tool route and forwards it to the worker.
func GatewayRouter(cfg *config.Config, sup handler.Supervisor) (http.Handler, error) {
	proxy, err := handler.NewProxy(sup, cfg.BridgeURL(), cfg.ConnectTimeout(), cfg.ReadTimeout(), cfg.MaxBodyBytes)
	if err != nil {
		return nil, err
	}
	healthH := handler.NewHealthHandler(sup)

	corsCfg := middleware.DefaultCORSConfig(cfg.CORSOrigins)
	corsCfg.MaxAge = config.DefaultCORSMaxAge
	mws := []func(http.Handler) http.Handler{
		middleware.CORS(corsCfg),
		chiMiddleware.RealIP,
	}
	if cfg.RateLimitPerMinute > 0 {
		mws = append(mws, middleware.RateLimit(cfg.RateLimitPerMinute))
	}
	r := newRouter(mws...)

	r.Get("/health", healthH.Health)
	r.Get("/ping", proxy.Forward(nil))
	for _, rt := range handler.ToolRoutes {
		var check handler.BodyCheck
		if rt.Method != http.MethodGet {
			check = handler.CheckArguments
		}
		r.Method(rt.Method, rt.Path, proxy.Forward(check))
	}
	r.Post("/dispatch", proxy.Forward(handler.CheckDispatch))
	r.Get("/tools", proxy.Forward(nil))

	return r, nil
}

// NewBridge wires the worker: collaborators, toolbox, dispatcher and routes.
func NewBridge(cfg *config.Config) (*Server, error) {
	gen, err := llm.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}
	client := &http.Client{Timeout: cfg.DownloadTimeout()}
	searcher, err := search.New(cfg, client)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	store, err := files.NewStore(cfg.FilesDir)
	if err != nil {
		return nil, err
	}

	box := tools.NewToolbox(tools.Deps{
		Generator:        gen,
		Search:           searcher,
		HTTP:             &http.Client{},
		Files:            store,
		PDF:              pdf.PlainText{},
		SearchMaxResults: cfg.SearchMaxResults,
		DownloadTimeout:  cfg.DownloadTimeout(),
	})
	audit := security.NewAuditLogger(cfg.EnableAuditLogging, security.NewPIIDetector(cfg.PIIKeywords))
	dispatcher := service.NewDispatcher(box, gen, audit)

	log.Info().
		Str("llm_provider", cfg.LLMProvider).
		Str("search_provider", cfg.SearchProvider).
		Str("files_dir", store.Root()).
		Bool("audit_logging", cfg.EnableAuditLogging).
		Msg("bridge configuration")

	return New("bridge", cfg.BridgeAddr(), BridgeRouter(cfg, dispatcher), cfg.ReadTimeout()+10*time.Second), nil
}

// BridgeRouter serves the tool routes without CORS; only the gateway calls it.
func BridgeRouter(cfg *config.Config, d handler.Dispatcher) http.Handler {
	toolH := handler.NewToolHandler(d, cfg.MaxBodyBytes)

	r := newRouter()
	r.Get("/ping", handler.Ping)
	for _, rt := range handler.ToolRoutes {
		r.Method(rt.Method, rt.Path, toolH.Tool(rt.Tool))
	}
	r.Post("/dispatch", toolH.Dispatch)
	r.Get("/tools", toolH.List)
	return r
}

func newRouter(extra ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(extra...)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		models.WriteError(w, http.StatusNotFound, models.MsgRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		models.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return r
}
