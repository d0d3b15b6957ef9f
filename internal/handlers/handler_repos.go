package handlers

import (
	"net/http"
	"oauth-relay/internal/middlewares"
)

// GETReposHandler returns the provider's resource list for the bearer of a
// session token. Must be mounted behind RequireBearer.
func GETReposHandler(ctx *middlewares.AppContext) {
	resources, err := ctx.Relay.Resources(ctx, ctx.GetBearerToken())
	if err != nil {
		ctx.Logger.Debug("resource fetch failed", "error", err)
		writeRelayError(ctx, err)
		return
	}

	ctx.WriteJSON(http.StatusOK, resources)
}
