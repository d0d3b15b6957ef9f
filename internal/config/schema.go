package config

import (
	"time"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Provider ProviderConfig `yaml:"provider"`
	Signing  SigningConfig  `yaml:"signing"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
	Sessions SessionConfig  `yaml:"sessions"`
	Redis    *RedisConfig   `yaml:"redis"`
	Storage  *StorageConfig `yaml:"storage"`
}

type ServerConfig struct {
	Port        int                `yaml:"port"`
	ExternalURL string             `yaml:"external_url"`
	Debug       *ServerDebugConfig `yaml:"debug"`
}

var DefaultServerConfig = ServerConfig{
	Port: 1235,
}

type ServerDebugConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

var DefaultDebugConfig = ServerDebugConfig{
	Enabled: false,
	Host:    "localhost",
	Port:    5123,
}

// ProviderConfig describes the upstream OAuth provider. Type is "github" or "oidc".
type ProviderConfig struct {
	Type         string        `yaml:"type"`
	ClientID     string        `yaml:"client_id"`
	ClientSecret string        `yaml:"client_secret"`
	RedirectURL  string        `yaml:"redirect_url"`
	Scopes       []string      `yaml:"scopes"`
	IssuerURL    string        `yaml:"issuer_url"`
	AuthURL      string        `yaml:"auth_url"`
	TokenURL     string        `yaml:"token_url"`
	APIBaseURL   string        `yaml:"api_base_url"`
	ResourceURL  string        `yaml:"resource_url"`
	Timeout      time.Duration `yaml:"timeout"`
}

var DefaultProviderConfig = ProviderConfig{
	Type:        "github",
	Scopes:      []string{"user", "public_repo"},
	RedirectURL: "http://localhost:1234",
	APIBaseURL:  "https://api.github.com",
	ResourceURL: "https://api.github.com/user/repos?sort=created&direction=desc",
	Timeout:     10 * time.Second,
}

// SigningConfig holds the server-held key session tokens are derived from.
type SigningConfig struct {
	Key      string        `yaml:"key"`
	Issuer   string        `yaml:"issuer"`
	Lifetime time.Duration `yaml:"lifetime"`
}

var DefaultSigningConfig = SigningConfig{
	Issuer:   "oauth-relay",
	Lifetime: time.Hour,
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	StackTraces bool   `yaml:"stack_traces"`
}

var DefaultLogConfig = LogConfig{
	Level:  "info",
	Format: "text",
}

type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers"`
	ExposedHeaders   []string `yaml:"exposed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
	MaxAgeSeconds    int      `yaml:"max_age_seconds"`
}

var DefaultCORSConfig = CORSConfig{
	AllowedOrigins: []string{"http://localhost:1234"},
	AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	AllowedHeaders: []string{"Authorization", "Content-Type"},
	MaxAgeSeconds:  300,
}

// SessionConfig covers both the relay session store (Store) and the cookie
// session used to remember the login state (Name, Secure, CookieLifetime).
// An unset Secure follows the scheme of server.external_url.
type SessionConfig struct {
	Store          string        `yaml:"store"`
	CookieStore    string        `yaml:"cookie_store"`
	Name           string        `yaml:"name"`
	Secure         *bool         `yaml:"secure"`
	CookieLifetime time.Duration `yaml:"cookie_lifetime"`
	VerifyState    bool          `yaml:"verify_state"`
	StatsInterval  time.Duration `yaml:"stats_interval"`
}

// SecureCookies reports whether the login-state cookie carries the Secure attribute.
func (s SessionConfig) SecureCookies() bool {
	return s.Secure != nil && *s.Secure
}

var DefaultSessionConfig = SessionConfig{
	Store:          "memory",
	CookieStore:    "memory",
	Name:           "relay_session",
	CookieLifetime: 15 * time.Minute,
	StatsInterval:  time.Minute,
}

type RedisConfig struct {
	Address      string               `yaml:"address"`
	Username     string               `yaml:"username"`
	Password     string               `yaml:"password"`
	Sentinel     *RedisSentinelConfig `yaml:"sentinel"`
	SessionIndex int                  `yaml:"session_index"`
	CookieIndex  int                  `yaml:"cookie_index"`
}

var DefaultRedisConfig = RedisConfig{
	SessionIndex: 0,
	CookieIndex:  1,
}

type RedisSentinelConfig struct {
	MasterName        string   `yaml:"master_name"`
	SentinelAddresses []string `yaml:"addresses"`
	SentinelPassword  string   `yaml:"password"`
	SentinelUsername  string   `yaml:"username"`
}

type StorageConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

var DefaultStorageConfig = StorageConfig{
	Port:    5432,
	SSLMode: "prefer",
}
