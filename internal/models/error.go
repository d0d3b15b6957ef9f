package models

// Error codes returned in ErrorResponse.Error.
const (
	ErrorCodeInvalidRequest       = "invalid_request"
	ErrorCodeInvalidGrant         = "invalid_grant"
	ErrorCodeInvalidState         = "invalid_state"
	ErrorCodeInvalidToken         = "invalid_token"
	ErrorCodeProviderError        = "provider_error"
	ErrorCodeProviderUnauthorized = "provider_unauthorized"
	ErrorCodeServerError          = "server_error"
)

type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}
