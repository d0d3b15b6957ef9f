package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"oauth-relay/internal/config"
	"oauth-relay/internal/data"
	"oauth-relay/internal/middlewares"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
)

// SessionManager holds the login state issued by the login endpoint in a
// short-lived cookie session. It is unrelated to relay session tokens.
type SessionManager struct {
	*scs.SessionManager
}

func NewSessionManager(ctx context.Context, logger *slog.Logger, cfg *config.Config) (*SessionManager, error) {
	sessionManager := scs.New()

	switch cfg.Sessions.CookieStore {
	case "memory", "":
		sessionManager.Store = memstore.New()
	case "redis":
		client := data.NewRedisClient(cfg.Redis, cfg.Redis.CookieIndex, logger)

		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}

		sessionManager.Store = goredisstore.New(client)
	default:
		return nil, fmt.Errorf("unsupported cookie store: %s", cfg.Sessions.CookieStore)
	}

	sessionManager.Lifetime = cfg.Sessions.CookieLifetime

	sessionManager.Cookie.Name = cfg.Sessions.Name
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	sessionManager.Cookie.Secure = cfg.Sessions.SecureCookies()
	sessionManager.Cookie.Path = "/"

	return &SessionManager{SessionManager: sessionManager}, nil
}

func (s *SessionManager) LoadAndSave(next http.Handler) http.Handler {
	return s.SessionManager.LoadAndSave(next)
}

func (s *SessionManager) SetLoginState(ctx *middlewares.AppContext, state string) {
	s.Put(ctx, string(SessionKeyLoginState), state)
}

func (s *SessionManager) PopLoginState(ctx *middlewares.AppContext) string {
	return s.PopString(ctx, string(SessionKeyLoginState))
}
