package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Grant is what the provider appends to the redirect target after consent.
type Grant struct {
	Code  string
	State string
}

var ErrConsentDenied = errors.New("consent was denied")

// ReceiveGrant listens on the redirect target's host and waits for the
// provider to redirect the browser back with a grant code.
func ReceiveGrant(ctx context.Context, redirectURI string) (*Grant, error) {
	target, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect uri: %w", err)
	}

	listener, err := net.Listen("tcp", target.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", target.Host, err)
	}

	return serveGrant(ctx, listener, target.Path)
}

func serveGrant(ctx context.Context, listener net.Listener, path string) (*Grant, error) {
	if path == "" {
		path = "/"
	}

	results := make(chan grantResult, 1)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get(path, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		var result grantResult
		switch {
		case query.Get("error") != "":
			result.err = fmt.Errorf("%w: %s %s", ErrConsentDenied, query.Get("error"), query.Get("error_description"))
			http.Error(w, "Authorization failed. You can close this window.", http.StatusBadRequest)
		case query.Get("code") == "":
			http.Error(w, "Missing code.", http.StatusBadRequest)
			return
		default:
			result.grant = &Grant{Code: query.Get("code"), State: query.Get("state")}
			_, _ = w.Write([]byte("Authorization received. You can close this window."))
		}

		select {
		case results <- result:
		default:
		}
	})

	server := &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		_ = server.Serve(listener)
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	select {
	case result := <-results:
		return result.grant, result.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type grantResult struct {
	grant *Grant
	err   error
}
