package provider

import (
	"errors"
	"fmt"
	"net/url"

	"golang.org/x/oauth2"
)

var (
	ErrExchangeRejected    = errors.New("provider rejected the authorization code")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrUnauthorized        = errors.New("provider rejected the access token")
	ErrUnexpectedResponse  = errors.New("unexpected provider response")
)

// classifyExchangeError maps an oauth2 exchange failure onto the provider error taxonomy.
func classifyExchangeError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		if retrieveErr.Response != nil && retrieveErr.Response.StatusCode >= 500 {
			return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
		}
		return fmt.Errorf("%w: %v", ErrExchangeRejected, err)
	}

	return fmt.Errorf("%w: %v", ErrExchangeRejected, err)
}

func classifyRequestError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	return fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
}
