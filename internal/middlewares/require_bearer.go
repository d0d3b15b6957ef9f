package middlewares

import (
	"errors"
	"net/http"
	"oauth-relay/internal/models"
	"oauth-relay/internal/utils"
)

// RequireBearer rejects requests without a well formed "Authorization: Bearer"
// header and stores the token on the AppContext. The token itself is checked
// by the handler.
func RequireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		appCtx := GetAppContext(r)
		if appCtx == nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		token, err := utils.ExtractAuthorizationHeader(r)
		if err != nil {
			appCtx.Logger.Debug("rejecting request without bearer token", "error", err)
			description := "a bearer session token is required"
			if !errors.Is(err, utils.ErrMissingAuthzHeader) {
				description = err.Error()
			}
			w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
			appCtx.WriteError(http.StatusUnauthorized, models.ErrorCodeInvalidToken, description)
			return
		}

		appCtx.SetBearerToken(token)
		next.ServeHTTP(w, r)
	})
}
