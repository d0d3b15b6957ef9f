package data

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"oauth-relay/internal/config"
	"oauth-relay/internal/models"
	"oauth-relay/internal/storage"
)

//go:generate mockgen -source=session_store.go -destination=../mocks/session_store.go -package=mocks

var ErrSessionNotFound = storage.ErrSessionNotFound

// SessionStore holds the mapping from issued session tokens to provider tokens.
// Put appends; it never replaces an existing record.
type SessionStore interface {
	Put(ctx context.Context, record models.SessionRecord) error
	Get(ctx context.Context, sessionToken string) (*models.SessionRecord, error)
	Len(ctx context.Context) (int, error)
}

// NewSessionStore returns the SessionStore selected by sessions.store.
func NewSessionStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (SessionStore, error) {
	switch cfg.Sessions.Store {
	case "redis":
		return NewRedisSessionStore(ctx, cfg, logger)
	case "postgres":
		provider, err := storage.NewDatabaseProvider(ctx, cfg)
		if err != nil {
			return nil, err
		}

		logger.Debug("Running database migrations")
		if err := provider.RunMigrations(ctx); err != nil {
			provider.Close()
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}

		return provider, nil
	case "memory", "":
		return NewMemSessionStore(), nil
	default:
		return nil, fmt.Errorf("unsupported session store: %s", cfg.Sessions.Store)
	}
}

// IsNotFound reports whether err is a session lookup miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound)
}

// hashToken returns the hex sha256 of a session token, used as its storage key.
func hashToken(sessionToken string) string {
	return storage.HashToken(sessionToken)
}
