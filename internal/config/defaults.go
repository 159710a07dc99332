package config

const (
	DefaultHost        = "localhost"
	DefaultPort        = 8010
	DefaultEnvironment = "development"
	DefaultLogLevel    = "info"

	DefaultBridgeHost = "localhost"
	DefaultBridgePort = 5001

	DefaultProbeTimeoutMs   = 1_000
	DefaultPollIntervalMs   = 500
	DefaultReadyTimeoutMs   = 15_000
	DefaultConnectTimeoutMs = 10_000
	DefaultReadTimeoutMs    = 180_000 // model inference is slow

	DefaultLLMProvider    = "ollama"
	DefaultOllamaHost     = "http://localhost:11434"
	DefaultModel          = "llama3.2:1b"
	DefaultAnthropicModel = "claude-sonnet-4-6"

	DefaultSearchProvider    = "duckduckgo"
	DefaultSearchMaxResults  = 10
	DefaultDownloadTimeoutMs = 20_000

	DefaultFilesDir = "files"

	DefaultMaxBodyBytes = 10 << 20

	DefaultCORSMaxAge = 300
)

// Browser extensions call the gateway from arbitrary origins.
var DefaultCORSOrigins = []string{"*"}

// Arguments containing these are flagged in the audit log.
var DefaultPIIKeywords = []string{"password", "passwd", "ssn", "credit card", "api key", "secret", "token"}
