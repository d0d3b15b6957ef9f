package middlewares

import (
	"net/http"
)

//go:generate mockgen -source=session_provider.go -destination=../mocks/session.go -package=mocks

// SessionProvider remembers, per browser, the state issued when a login
// started. The state is single use: PopLoginState returns it and forgets it.
type SessionProvider interface {
	SetLoginState(ctx *AppContext, state string)
	PopLoginState(ctx *AppContext) string

	LoadAndSave(next http.Handler) http.Handler
}
