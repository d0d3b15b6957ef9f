package handlers

import (
	"encoding/json"
	"net/http"
	"oauth-relay/internal/middlewares"
	"oauth-relay/internal/models"
	"oauth-relay/internal/relay"
)

const maxCodeRequestBytes = 1 << 16

// POSTCodeHandler exchanges an authorization code for a session token.
func POSTCodeHandler(ctx *middlewares.AppContext) {
	var req CodeRequest
	body := http.MaxBytesReader(ctx.Response, ctx.Request.Body, maxCodeRequestBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		ctx.Logger.Debug("malformed code request", "error", err)
		ctx.WriteError(http.StatusBadRequest, models.ErrorCodeInvalidRequest, "request body must be a JSON object with a code")
		return
	}

	if ctx.Config.Sessions.VerifyState && ctx.SessionManager != nil {
		issued := ctx.SessionManager.PopLoginState(ctx)
		if issued == "" {
			ctx.Logger.Warn("no login state in cookie session, state not checked", "ip_address", ctx.ClientInfo.IPAddress)
		}
		if err := relay.CheckState(issued, req.State); err != nil {
			ctx.Logger.Warn("state mismatch on code exchange", "ip_address", ctx.ClientInfo.IPAddress)
			writeRelayError(ctx, err)
			return
		}
	}

	sessionToken, profile, err := ctx.Relay.Exchange(ctx, req.Code)
	if err != nil {
		ctx.Logger.Debug("code exchange failed", "error", err)
		writeRelayError(ctx, err)
		return
	}

	ctx.Logger.Info("code exchanged",
		"login", profile.Login,
		"ip_address", ctx.ClientInfo.IPAddress,
		"browser", ctx.ClientInfo.BrowserName,
		"os", ctx.ClientInfo.OSName,
		"device", ctx.ClientInfo.DeviceType,
	)

	ctx.WriteJSON(http.StatusOK, CodeResponse{JWT: sessionToken})
}
