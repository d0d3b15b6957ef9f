package handlers

import (
	"net/http"
	"oauth-relay/internal/middlewares"
)

// GETLoginHandler builds the provider consent URL for a fresh login and
// remembers its state in the cookie session.
func GETLoginHandler(ctx *middlewares.AppContext) {
	state := ctx.OAuthProvider.GenerateState()
	ctx.SessionManager.SetLoginState(ctx, state)

	authURL := ctx.OAuthProvider.AuthCodeURL(state)

	ctx.Logger.Debug("Redirecting to OAuth provider", "url", authURL)

	ctx.WriteJSON(http.StatusOK, LoginResponse{
		Status:      "redirect_required",
		RedirectURL: authURL,
	})
}
