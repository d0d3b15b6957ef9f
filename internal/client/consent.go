package client

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// ConsentRequest describes the provider consent redirect.
type ConsentRequest struct {
	AuthorizationEndpoint string
	ClientID              string
	RedirectURI           string
	Scopes                []string
	State                 string
}

// ConsentURL composes the provider authorize URL carrying response_type=code,
// the space separated scopes, redirect_uri, client_id and state. An empty
// endpoint means GitHub.
func ConsentURL(req ConsentRequest) string {
	endpoint := github.Endpoint
	if req.AuthorizationEndpoint != "" {
		endpoint.AuthURL = req.AuthorizationEndpoint
	}

	cfg := &oauth2.Config{
		ClientID:    req.ClientID,
		Endpoint:    endpoint,
		RedirectURL: req.RedirectURI,
		Scopes:      req.Scopes,
	}

	return cfg.AuthCodeURL(req.State)
}
