package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("config file path is required (use -config or -c)")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes YAML, applies environment overrides and validates the result.
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvironmentOverrides(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

var (
	EnvProviderClientID      = "RELAY_PROVIDER_CLIENT_ID"
	EnvProviderClientSecret  = "RELAY_PROVIDER_CLIENT_SECRET"
	EnvProviderRedirectURL   = "RELAY_PROVIDER_REDIRECT_URL"
	EnvSigningKey            = "RELAY_SIGNING_KEY"
	EnvRedisPassword         = "RELAY_REDIS_PASSWORD"
	EnvRedisUsername         = "RELAY_REDIS_USERNAME"
	EnvRedisSentinelPassword = "RELAY_REDIS_SENTINEL_PASSWORD"
	EnvStorageHost           = "RELAY_STORAGE_HOST"
	EnvStoragePort           = "RELAY_STORAGE_PORT"
	EnvStorageUsername       = "RELAY_STORAGE_USERNAME"
	EnvStoragePassword       = "RELAY_STORAGE_PASSWORD"
	EnvStorageDatabase       = "RELAY_STORAGE_DATABASE"
)

func applyEnvironmentOverrides(config *Config) {
	if clientID := os.Getenv(EnvProviderClientID); clientID != "" {
		config.Provider.ClientID = clientID
	}

	if clientSecret := os.Getenv(EnvProviderClientSecret); clientSecret != "" {
		config.Provider.ClientSecret = clientSecret
	}

	if redirectURL := os.Getenv(EnvProviderRedirectURL); redirectURL != "" {
		config.Provider.RedirectURL = redirectURL
	}

	if signingKey := os.Getenv(EnvSigningKey); signingKey != "" {
		config.Signing.Key = signingKey
	}

	if redisPassword := os.Getenv(EnvRedisPassword); redisPassword != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		config.Redis.Password = redisPassword
	}

	if redisUsername := os.Getenv(EnvRedisUsername); redisUsername != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		config.Redis.Username = redisUsername
	}

	if sentinelPassword := os.Getenv(EnvRedisSentinelPassword); sentinelPassword != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		if config.Redis.Sentinel == nil {
			config.Redis.Sentinel = &RedisSentinelConfig{}
		}
		config.Redis.Sentinel.SentinelPassword = sentinelPassword
	}

	if host := os.Getenv(EnvStorageHost); host != "" {
		if config.Storage == nil {
			config.Storage = &StorageConfig{}
		}
		config.Storage.Host = host
	}

	if portStr := os.Getenv(EnvStoragePort); portStr != "" {
		if config.Storage == nil {
			config.Storage = &StorageConfig{}
		}
		if port, err := strconv.Atoi(portStr); err == nil {
			config.Storage.Port = port
		}
	}

	if username := os.Getenv(EnvStorageUsername); username != "" {
		if config.Storage == nil {
			config.Storage = &StorageConfig{}
		}
		config.Storage.Username = username
	}

	if password := os.Getenv(EnvStoragePassword); password != "" {
		if config.Storage == nil {
			config.Storage = &StorageConfig{}
		}
		config.Storage.Password = password
	}

	if database := os.Getenv(EnvStorageDatabase); database != "" {
		if config.Storage == nil {
			config.Storage = &StorageConfig{}
		}
		config.Storage.Database = database
	}
}

func validateConfig(config *Config) error {
	err := config.validateServerConfig()
	if err != nil {
		return err
	}

	err = config.validateProviderConfig()
	if err != nil {
		return err
	}

	err = config.validateSigningConfig()
	if err != nil {
		return err
	}

	err = config.validateLogConfig()
	if err != nil {
		return err
	}

	err = config.validateCORSConfig()
	if err != nil {
		return err
	}

	err = config.validateSessionConfig()
	if err != nil {
		return err
	}

	if config.Sessions.Store == "redis" || config.Sessions.CookieStore == "redis" {
		err = config.validateRedisConfig()
		if err != nil {
			return err
		}
	}

	if config.Sessions.Store == "postgres" {
		err = config.validateStorageConfig()
		if err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) validateServerConfig() error {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerConfig.Port
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ExternalURL != "" {
		if err := validateURL(c.Server.ExternalURL, "server.external_url"); err != nil {
			return err
		}
	}

	if c.Server.Debug != nil && c.Server.Debug.Enabled {
		if c.Server.Debug.Host == "" {
			c.Server.Debug.Host = DefaultDebugConfig.Host
		}
		if c.Server.Debug.Port <= 0 || c.Server.Debug.Port >= 65535 {
			c.Server.Debug.Port = DefaultDebugConfig.Port
		}
	}

	return nil
}

func (c *Config) validateProviderConfig() error {
	if c.Provider.Type == "" {
		c.Provider.Type = DefaultProviderConfig.Type
	}

	if c.Provider.ClientID == "" {
		return fmt.Errorf("provider client id is required")
	}

	if c.Provider.ClientSecret == "" {
		return fmt.Errorf("provider client secret is required")
	}

	if c.Provider.RedirectURL == "" {
		c.Provider.RedirectURL = DefaultProviderConfig.RedirectURL
	}

	if err := validateURL(c.Provider.RedirectURL, "provider.redirect_url"); err != nil {
		return err
	}

	if c.Provider.Timeout <= 0 {
		c.Provider.Timeout = DefaultProviderConfig.Timeout
	}

	switch c.Provider.Type {
	case "github":
		if len(c.Provider.Scopes) == 0 {
			c.Provider.Scopes = DefaultProviderConfig.Scopes
		}
		if c.Provider.APIBaseURL == "" {
			c.Provider.APIBaseURL = DefaultProviderConfig.APIBaseURL
		}
		if c.Provider.ResourceURL == "" {
			c.Provider.ResourceURL = DefaultProviderConfig.ResourceURL
		}
	case "oidc":
		if err := validateURL(c.Provider.IssuerURL, "provider.issuer_url"); err != nil {
			return err
		}
		if len(c.Provider.Scopes) == 0 {
			c.Provider.Scopes = []string{"openid", "profile"}
		}
		if c.Provider.ResourceURL == "" {
			return fmt.Errorf("provider.resource_url is required for oidc providers")
		}
	default:
		return fmt.Errorf("invalid provider type: %s, options are 'github' or 'oidc'", c.Provider.Type)
	}

	for _, field := range []struct{ value, name string }{
		{c.Provider.AuthURL, "provider.auth_url"},
		{c.Provider.TokenURL, "provider.token_url"},
		{c.Provider.APIBaseURL, "provider.api_base_url"},
		{c.Provider.ResourceURL, "provider.resource_url"},
	} {
		if field.value == "" {
			continue
		}
		if err := validateURL(field.value, field.name); err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) validateSigningConfig() error {
	if c.Signing.Key == "" {
		return fmt.Errorf("signing.key is required")
	}

	if len(c.Signing.Key) < 32 {
		return fmt.Errorf("signing.key must be at least 32 characters")
	}

	if c.Signing.Issuer == "" {
		c.Signing.Issuer = DefaultSigningConfig.Issuer
	}

	if c.Signing.Lifetime == 0 {
		c.Signing.Lifetime = DefaultSigningConfig.Lifetime
	} else if c.Signing.Lifetime < time.Minute {
		return fmt.Errorf("signing.lifetime cannot be less than 1 minute")
	}

	return nil
}

func (c *Config) validateLogConfig() error {
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogConfig.Format
	} else {
		switch c.Log.Format {
		case "text", "json":
		default:
			return fmt.Errorf("invalid log format: %s, options are text or json", c.Log.Format)
		}
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogConfig.Level
	} else {
		switch c.Log.Level {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("invalid log level: %s, options are debug, info, warn, error", c.Log.Level)
		}
	}

	return nil
}

func (c *Config) validateCORSConfig() error {
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = DefaultCORSConfig.AllowedOrigins
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = DefaultCORSConfig.AllowedMethods
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = DefaultCORSConfig.AllowedHeaders
	}
	if c.CORS.MaxAgeSeconds == 0 {
		c.CORS.MaxAgeSeconds = DefaultCORSConfig.MaxAgeSeconds
	}

	return nil
}

func (c *Config) validateSessionConfig() error {
	if c.Sessions.Store == "" {
		c.Sessions.Store = DefaultSessionConfig.Store
	} else {
		switch c.Sessions.Store {
		case "memory", "redis", "postgres":
		default:
			return fmt.Errorf("invalid session store: %s, options are 'memory', 'redis' or 'postgres'", c.Sessions.Store)
		}
	}

	if c.Sessions.CookieStore == "" {
		c.Sessions.CookieStore = DefaultSessionConfig.CookieStore
	} else {
		switch c.Sessions.CookieStore {
		case "memory", "redis":
		default:
			return fmt.Errorf("invalid cookie store: %s, options are 'memory' or 'redis'", c.Sessions.CookieStore)
		}
	}

	if c.Sessions.Name == "" {
		c.Sessions.Name = DefaultSessionConfig.Name
	}

	// Browsers drop Secure cookies on plain http, which would leave every
	// login without a state to check.
	servedOverHTTPS := strings.HasPrefix(strings.ToLower(c.Server.ExternalURL), "https://")
	if c.Sessions.Secure == nil {
		c.Sessions.Secure = &servedOverHTTPS
	} else if *c.Sessions.Secure && c.Server.ExternalURL != "" && !servedOverHTTPS {
		return fmt.Errorf("sessions.secure cannot be enabled when server.external_url is not https")
	}

	if c.Sessions.CookieLifetime == 0 {
		c.Sessions.CookieLifetime = DefaultSessionConfig.CookieLifetime
	}

	if c.Sessions.StatsInterval == 0 {
		c.Sessions.StatsInterval = DefaultSessionConfig.StatsInterval
	} else if c.Sessions.StatsInterval < 5*time.Second {
		return fmt.Errorf("sessions.stats_interval cannot be less than 5 seconds, got %s", c.Sessions.StatsInterval)
	}

	return nil
}

func (c *Config) validateRedisConfig() error {
	if c.Redis == nil {
		return fmt.Errorf("redis config is nil")
	}

	if c.Redis.Address == "" && c.Redis.Sentinel == nil {
		return fmt.Errorf("redis address is required")
	}

	if c.Redis.Address != "" {
		if _, _, err := net.SplitHostPort(c.Redis.Address); err != nil {
			return fmt.Errorf("invalid redis address format (expected host:port): %w", err)
		}
	}

	if c.Redis.SessionIndex == 0 && c.Redis.CookieIndex == 0 {
		c.Redis.SessionIndex = DefaultRedisConfig.SessionIndex
		c.Redis.CookieIndex = DefaultRedisConfig.CookieIndex
	}

	if c.Redis.SessionIndex < 0 {
		return fmt.Errorf("redis session_index must be non-negative, got %d", c.Redis.SessionIndex)
	}

	if c.Redis.CookieIndex < 0 {
		return fmt.Errorf("redis cookie_index must be non-negative, got %d", c.Redis.CookieIndex)
	}

	if c.Redis.SessionIndex == c.Redis.CookieIndex {
		return fmt.Errorf("redis session_index and cookie_index should be different to avoid data collision (both are %d)", c.Redis.SessionIndex)
	}

	const maxRedisDB = 15
	if c.Redis.SessionIndex > maxRedisDB {
		return fmt.Errorf("redis session_index %d exceeds typical maximum of %d", c.Redis.SessionIndex, maxRedisDB)
	}

	if c.Redis.CookieIndex > maxRedisDB {
		return fmt.Errorf("redis cookie_index %d exceeds typical maximum of %d", c.Redis.CookieIndex, maxRedisDB)
	}

	if c.Redis.Sentinel != nil {
		if c.Redis.Sentinel.MasterName == "" {
			return fmt.Errorf("sentinel master_name is required")
		}
		if len(c.Redis.Sentinel.SentinelAddresses) == 0 {
			return fmt.Errorf("at least one sentinel address is required")
		}
	}
	return nil
}

func (c *Config) validateStorageConfig() error {
	if c.Storage == nil {
		return fmt.Errorf("storage config is required when sessions.store is 'postgres'")
	}

	if c.Storage.Host == "" {
		return fmt.Errorf("storage.host is required when sessions.store is 'postgres'")
	}

	if c.Storage.Port == 0 {
		c.Storage.Port = DefaultStorageConfig.Port
	}

	if c.Storage.Port < 0 || c.Storage.Port > 65535 {
		return fmt.Errorf("storage.port must be between 1 and 65535, got %d", c.Storage.Port)
	}

	if c.Storage.Database == "" {
		return fmt.Errorf("storage.database is required when sessions.store is 'postgres'")
	}

	if c.Storage.SSLMode == "" {
		c.Storage.SSLMode = DefaultStorageConfig.SSLMode
	}

	return nil
}
