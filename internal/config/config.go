package config

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Gateway
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Environment string `json:"environment"`
	LogLevel    string `json:"log_level"`

	// CORS
	CORSOrigins []string `json:"cors_origins"`

	// Rate Limiting (0 disables)
	RateLimitPerMinute int `json:"rate_limit_per_minute"`

	// Bridge worker
	BridgeHost    string   `json:"bridge_host"`
	BridgePort    int      `json:"bridge_port"`
	WorkerCommand []string `json:"worker_command"` // empty = this executable + "bridge"
	WorkerLogFile string   `json:"worker_log_file"`

	// Supervision and forwarding
	ProbeTimeoutMs   int   `json:"probe_timeout_ms"`
	PollIntervalMs   int   `json:"poll_interval_ms"`
	ReadyTimeoutMs   int   `json:"ready_timeout_ms"`
	ConnectTimeoutMs int   `json:"connect_timeout_ms"`
	ReadTimeoutMs    int   `json:"read_timeout_ms"`
	MaxBodyBytes     int64 `json:"max_body_bytes"`

	// Text generation
	LLMProvider      string `json:"llm_provider"` // "ollama" | "anthropic"
	OllamaHost       string `json:"ollama_host"`
	Model            string `json:"model"`
	AnthropicAPIKey  string `json:"anthropic_api_key"`
	AnthropicBaseURL string `json:"anthropic_base_url"`
	AnthropicModel   string `json:"anthropic_model"`

	// Web search
	SearchProvider   string `json:"search_provider"` // "duckduckgo" | "ollama"
	SearchMaxResults int    `json:"search_max_results"`
	OllamaAPIKey     string `json:"ollama_api_key"`

	// Files
	FilesDir          string `json:"files_dir"`
	DownloadTimeoutMs int    `json:"download_timeout_ms"`

	EnableAuditLogging bool     `json:"enable_audit_logging"`
	PIIKeywords        []string `json:"pii_keywords"`
}

func Load() (*Config, error) {
	return LoadFile(getEnv("MCPGATE_CONFIG", ""))
}

// LoadFile is Load with an explicit JSON file; an empty path skips the file.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{
		Host:               DefaultHost,
		Port:               DefaultPort,
		Environment:        DefaultEnvironment,
		LogLevel:           DefaultLogLevel,
		CORSOrigins:        slices.Clone(DefaultCORSOrigins),
		BridgeHost:         DefaultBridgeHost,
		BridgePort:         DefaultBridgePort,
		ProbeTimeoutMs:     DefaultProbeTimeoutMs,
		PollIntervalMs:     DefaultPollIntervalMs,
		ReadyTimeoutMs:     DefaultReadyTimeoutMs,
		ConnectTimeoutMs:   DefaultConnectTimeoutMs,
		ReadTimeoutMs:      DefaultReadTimeoutMs,
		MaxBodyBytes:       DefaultMaxBodyBytes,
		LLMProvider:        DefaultLLMProvider,
		OllamaHost:         DefaultOllamaHost,
		Model:              DefaultModel,
		AnthropicModel:     DefaultAnthropicModel,
		SearchProvider:     DefaultSearchProvider,
		SearchMaxResults:   DefaultSearchMaxResults,
		FilesDir:           DefaultFilesDir,
		DownloadTimeoutMs:  DefaultDownloadTimeoutMs,
		EnableAuditLogging: true,
		PIIKeywords:        slices.Clone(DefaultPIIKeywords),
	}

	if path != "" {
		if err := loadJSON(path, cfg); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings that would make the supervisor or proxy unusable.
func (c *Config) Validate() error {
	if c.BridgePort <= 0 || c.BridgePort > 65535 {
		return fmt.Errorf("invalid bridge_port %d", c.BridgePort)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.PollIntervalMs <= 0 || c.ReadyTimeoutMs <= 0 || c.ProbeTimeoutMs <= 0 {
		return fmt.Errorf("probe, poll and ready timeouts must be positive")
	}
	switch c.LLMProvider {
	case "ollama", "anthropic":
	default:
		return fmt.Errorf("unknown llm_provider %q", c.LLMProvider)
	}
	switch c.SearchProvider {
	case "duckduckgo", "ollama":
	default:
		return fmt.Errorf("unknown search_provider %q", c.SearchProvider)
	}
	return nil
}

// GatewayURL is where local clients reach the gateway.
func (c *Config) GatewayURL() string {
	return fmt.Sprintf("http://%s:%d", c.Host, c.Port)
}

// BridgeAddr is the host:port the worker listens on and the supervisor probes.
func (c *Config) BridgeAddr() string {
	return fmt.Sprintf("%s:%d", c.BridgeHost, c.BridgePort)
}

// BridgeURL is the base URL the gateway forwards to.
func (c *Config) BridgeURL() string {
	return "http://" + c.BridgeAddr()
}

func (c *Config) ProbeTimeout() time.Duration    { return ms(c.ProbeTimeoutMs) }
func (c *Config) PollInterval() time.Duration    { return ms(c.PollIntervalMs) }
func (c *Config) ReadyTimeout() time.Duration    { return ms(c.ReadyTimeoutMs) }
func (c *Config) ConnectTimeout() time.Duration  { return ms(c.ConnectTimeoutMs) }
func (c *Config) ReadTimeout() time.Duration     { return ms(c.ReadTimeoutMs) }
func (c *Config) DownloadTimeout() time.Duration { return ms(c.DownloadTimeoutMs) }

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func loadJSON(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, cfg)
}

func applyEnvOverrides(cfg *Config) {
	if v := getEnv("MCPGATE_HOST", ""); v != "" {
		cfg.Host = v
	}
	setInt("MCPGATE_PORT", &cfg.Port)
	if v := getEnv("MCPGATE_ENV", ""); v != "" {
		cfg.Environment = v
	}
	if v := getEnv("MCPGATE_LOG_LEVEL", ""); v != "" {
		cfg.LogLevel = v
	}
	if v := getEnv("MCPGATE_CORS_ORIGINS", ""); v != "" {
		cfg.CORSOrigins = strings.Split(v, ",")
	}
	setInt("RATE_LIMIT_PER_MINUTE", &cfg.RateLimitPerMinute)

	if v := getEnv("MCPGATE_BRIDGE_HOST", ""); v != "" {
		cfg.BridgeHost = v
	}
	setInt("MCPGATE_BRIDGE_PORT", &cfg.BridgePort)
	if v := getEnv("MCPGATE_WORKER_COMMAND", ""); v != "" {
		cfg.WorkerCommand = strings.Fields(v)
	}
	if v := getEnv("MCPGATE_WORKER_LOG", ""); v != "" {
		cfg.WorkerLogFile = v
	}
	setInt("MCPGATE_PROBE_TIMEOUT_MS", &cfg.ProbeTimeoutMs)
	setInt("MCPGATE_POLL_INTERVAL_MS", &cfg.PollIntervalMs)
	setInt("MCPGATE_READY_TIMEOUT_MS", &cfg.ReadyTimeoutMs)
	setInt("MCPGATE_CONNECT_TIMEOUT_MS", &cfg.ConnectTimeoutMs)
	setInt("MCPGATE_READ_TIMEOUT_MS", &cfg.ReadTimeoutMs)

	if v := getEnv("MCPGATE_LLM_PROVIDER", ""); v != "" {
		cfg.LLMProvider = v
	}
	if v := getEnv("OLLAMA_HOST", ""); v != "" {
		cfg.OllamaHost = v
	}
	if v := getEnv("MCPGATE_MODEL", ""); v != "" {
		cfg.Model = v
	}
	if v := getEnv("ANTHROPIC_API_KEY", ""); v != "" {
		cfg.AnthropicAPIKey = v
	}
	if v := getEnv("ANTHROPIC_BASE_URL", ""); v != "" {
		cfg.AnthropicBaseURL = v
	}

	if v := getEnv("MCPGATE_SEARCH_PROVIDER", ""); v != "" {
		cfg.SearchProvider = v
	}
	if v := getEnv("OLLAMA_API_KEY", ""); v != "" {
		cfg.OllamaAPIKey = v
	}
	if v := getEnv("MCPGATE_FILES_DIR", ""); v != "" {
		cfg.FilesDir = v
	}
	if v := getEnv("ENABLE_AUDIT_LOGGING", ""); v != "" {
		cfg.EnableAuditLogging = v == "true" || v == "1"
	}
	if v := getEnv("PII_KEYWORDS", ""); v != "" {
		cfg.PIIKeywords = strings.Split(v, ",")
	}
}

func setInt(key string, dst *int) {
	if v := getEnv(key, ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
