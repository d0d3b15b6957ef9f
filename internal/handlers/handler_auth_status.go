package handlers

import (
	"net/http"
	"oauth-relay/internal/middlewares"
)

// GETAuthStatusHandler reports the identity carried by a bearer session token.
// Must be mounted behind RequireBearer.
func GETAuthStatusHandler(ctx *middlewares.AppContext) {
	claims, err := ctx.Relay.Claims(ctx, ctx.GetBearerToken())
	if err != nil {
		writeRelayError(ctx, err)
		return
	}

	profile := claims.Profile()
	response := AuthStatusResponse{
		Authenticated: true,
		User:          &profile,
	}
	if claims.ExpiresAt != nil {
		expiresAt := claims.ExpiresAt.Time
		response.ExpiresAt = &expiresAt
	}

	ctx.WriteJSON(http.StatusOK, response)
}
