package types

import (
	"time"
)

// Mode constants for gateway operation
const (
	ModeLocal  = "local"  // No Redis, in-memory stores
	ModeRemote = "remote" // Full infrastructure
)

// AppConfig is the root configuration for the mailchat gateway
type AppConfig struct {
	Mode       string `key:"mode" json:"mode"` // "local" or "remote"
	DebugMode  bool   `key:"debugMode" json:"debug_mode"`
	PrettyLogs bool   `key:"prettyLogs" json:"pretty_logs"`

	Database DatabaseConfig    `key:"database" json:"database"`
	Gateway  GatewayConfig     `key:"gateway" json:"gateway"`
	OAuth    GoogleOAuthConfig `key:"oauth" json:"oauth"`
	LLM      LLMConfig         `key:"llm" json:"llm"`
	Chat     ChatConfig        `key:"chat" json:"chat"`
}

// IsLocalMode returns true if running in local mode (no Redis)
func (c *AppConfig) IsLocalMode() bool {
	return c.Mode == ModeLocal
}

// ----------------------------------------------------------------------------
// Database Configuration
// ----------------------------------------------------------------------------

type DatabaseConfig struct {
	Redis RedisConfig `key:"redis" json:"redis"`
}

type RedisMode string

const (
	RedisModeSingle  RedisMode = "single"
	RedisModeCluster RedisMode = "cluster"
)

type RedisConfig struct {
	Mode               RedisMode     `key:"mode" json:"mode"`
	Addrs              []string      `key:"addrs" json:"addrs"`
	Username           string        `key:"username" json:"username"`
	Password           string        `key:"password" json:"password"`
	ClientName         string        `key:"clientName" json:"client_name"`
	EnableTLS          bool          `key:"enableTLS" json:"enable_tls"`
	InsecureSkipVerify bool          `key:"insecureSkipVerify" json:"insecure_skip_verify"`
	PoolSize           int           `key:"poolSize" json:"pool_size"`
	MinIdleConns       int           `key:"minIdleConns" json:"min_idle_conns"`
	MaxIdleConns       int           `key:"maxIdleConns" json:"max_idle_conns"`
	ConnMaxIdleTime    time.Duration `key:"connMaxIdleTime" json:"conn_max_idle_time"`
	ConnMaxLifetime    time.Duration `key:"connMaxLifetime" json:"conn_max_lifetime"`
	DialTimeout        time.Duration `key:"dialTimeout" json:"dial_timeout"`
	ReadTimeout        time.Duration `key:"readTimeout" json:"read_timeout"`
	WriteTimeout       time.Duration `key:"writeTimeout" json:"write_timeout"`
	MaxRedirects       int           `key:"maxRedirects" json:"max_redirects"`
	MaxRetries         int           `key:"maxRetries" json:"max_retries"`
	RouteByLatency     bool          `key:"routeByLatency" json:"route_by_latency"`
}

// ----------------------------------------------------------------------------
// Gateway Configuration
// ----------------------------------------------------------------------------

type GatewayConfig struct {
	HTTP            HTTPConfig    `key:"http" json:"http"`
	ShutdownTimeout time.Duration `key:"shutdownTimeout" json:"shutdown_timeout"`
}

type HTTPConfig struct {
	Host             string     `key:"host" json:"host"`
	Port             int        `key:"port" json:"port"`
	EnablePrettyLogs bool       `key:"enablePrettyLogs" json:"enable_pretty_logs"`
	CORS             CORSConfig `key:"cors" json:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `key:"allowedOrigins" json:"allowed_origins"`
	AllowedHeaders []string `key:"allowedHeaders" json:"allowed_headers"`
	AllowedMethods []string `key:"allowedMethods" json:"allowed_methods"`
}

// ----------------------------------------------------------------------------
// OAuth Configuration
// ----------------------------------------------------------------------------

// GoogleOAuthConfig for the Gmail login flow
type GoogleOAuthConfig struct {
	ClientID      string   `key:"clientId" json:"client_id"`
	ClientSecret  string   `key:"clientSecret" json:"client_secret"`
	RedirectURL   string   `key:"redirectUrl" json:"redirect_url"`
	SessionSecret string   `key:"sessionSecret" json:"session_secret"`
	AllowedEmails []string `key:"allowedEmails" json:"allowed_emails"`
}

func (c GoogleOAuthConfig) IsConfigured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RedirectURL != ""
}

// ----------------------------------------------------------------------------
// LLM Configuration
// ----------------------------------------------------------------------------

// LLMConfig points at an OpenAI-compatible chat completions endpoint
type LLMConfig struct {
	BaseURL string `key:"baseUrl" json:"base_url"`
	APIKey  string `key:"apiKey" json:"api_key"`
	Model   string `key:"model" json:"model"`
}

// ----------------------------------------------------------------------------
// Chat Configuration
// ----------------------------------------------------------------------------

// ChatConfig holds tunables for the email context pipeline
type ChatConfig struct {
	CacheTTL        time.Duration `key:"cacheTtl" json:"cache_ttl"`
	SessionTTL      time.Duration `key:"sessionTtl" json:"session_ttl"`
	ChunkDelay      time.Duration `key:"chunkDelay" json:"chunk_delay"`
	FallbackCount   int           `key:"fallbackCount" json:"fallback_count"`
	MinCount        int           `key:"minCount" json:"min_count"`
	MaxCount        int           `key:"maxCount" json:"max_count"`
	LargeThreshold  int           `key:"largeThreshold" json:"large_threshold"`
	ChunkSize       int           `key:"chunkSize" json:"chunk_size"`
	MaxHistory      int           `key:"maxHistory" json:"max_history"`
	ContextMessages int           `key:"contextMessages" json:"context_messages"`
}
