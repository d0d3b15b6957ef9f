package handlers

import (
	"errors"
	"net/http"
	"oauth-relay/internal/data"
	"oauth-relay/internal/middlewares"
	"oauth-relay/internal/models"
	"oauth-relay/internal/provider"
	"oauth-relay/internal/relay"
	"oauth-relay/internal/token"
)

// writeRelayError maps errors from the relay service onto a status code and
// the relay error body. Details of unexpected errors are logged, not returned.
func writeRelayError(ctx *middlewares.AppContext, err error) {
	switch {
	case errors.Is(err, relay.ErrMissingCode):
		ctx.WriteError(http.StatusBadRequest, models.ErrorCodeInvalidRequest, "an authorization code is required")
	case errors.Is(err, relay.ErrInvalidState):
		ctx.WriteError(http.StatusBadRequest, models.ErrorCodeInvalidState, "state does not match the login that issued it")
	case errors.Is(err, provider.ErrExchangeRejected):
		ctx.WriteError(http.StatusUnauthorized, models.ErrorCodeInvalidGrant, "the provider rejected the authorization code")
	case errors.Is(err, provider.ErrUnauthorized):
		ctx.WriteError(http.StatusUnauthorized, models.ErrorCodeProviderUnauthorized, "the provider no longer accepts this session's credentials")
	case errors.Is(err, provider.ErrProviderUnavailable), errors.Is(err, provider.ErrUnexpectedResponse):
		ctx.Logger.Warn("provider request failed", "error", err)
		ctx.WriteError(http.StatusBadGateway, models.ErrorCodeProviderError, "the provider could not be reached")
	case errors.Is(err, token.ErrTokenExpired):
		ctx.WriteError(http.StatusUnauthorized, models.ErrorCodeInvalidToken, "session token has expired")
	case errors.Is(err, data.ErrSessionNotFound), errors.Is(err, token.ErrInvalidToken):
		ctx.WriteError(http.StatusUnauthorized, models.ErrorCodeInvalidToken, "session token is not recognized")
	default:
		ctx.Logger.Error("relay request failed", "error", err)
		ctx.WriteError(http.StatusInternalServerError, models.ErrorCodeServerError, http.StatusText(http.StatusInternalServerError))
	}
}
