package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/url"
	"oauth-relay/internal/config"
	"strconv"
)

// GetConnectionStringFromConfig renders the storage config as a postgres:// URL.
func GetConnectionStringFromConfig(cfg *config.Config) string {
	dsn := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.Storage.Host, strconv.Itoa(cfg.Storage.Port)),
		Path:   "/" + cfg.Storage.Database,
	}

	switch {
	case cfg.Storage.Username != "" && cfg.Storage.Password != "":
		dsn.User = url.UserPassword(cfg.Storage.Username, cfg.Storage.Password)
	case cfg.Storage.Username != "":
		dsn.User = url.User(cfg.Storage.Username)
	}

	if cfg.Storage.SSLMode != "" {
		dsn.RawQuery = url.Values{"sslmode": []string{cfg.Storage.SSLMode}}.Encode()
	}

	return dsn.String()
}

// HashToken returns the hex sha256 of a session token. Session tokens are
// only ever stored and looked up by this hash.
func HashToken(sessionToken string) string {
	sum := sha256.Sum256([]byte(sessionToken))
	return hex.EncodeToString(sum[:])
}
