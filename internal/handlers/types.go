package handlers

import (
	"oauth-relay/internal/models"
	"time"
)

// CodeRequest is the body of POST /code.
type CodeRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

type CodeResponse struct {
	JWT string `json:"jwt"`
}

type LoginResponse struct {
	Status      string `json:"status"`
	RedirectURL string `json:"redirect_url"`
}

type AuthStatusResponse struct {
	Authenticated bool            `json:"authenticated"`
	User          *models.Profile `json:"user,omitempty"`
	ExpiresAt     *time.Time      `json:"expires_at,omitempty"`
}
