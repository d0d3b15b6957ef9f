package provider

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"oauth-relay/internal/config"
	"oauth-relay/internal/metrics"
	"oauth-relay/internal/models"
	"oauth-relay/internal/version"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const maxResponseBytes = 10 << 20

// Client talks to the upstream OAuth provider: consent URLs, code exchange,
// profile lookup and the protected resource listing.
type Client struct {
	kind         string
	oauth2Config *oauth2.Config
	httpClient   *http.Client
	oidcProvider *oidc.Provider
	profileURL   string
	resourceURL  string
}

func New(ctx context.Context, cfg config.ProviderConfig) (*Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultProviderConfig.Timeout
	}
	httpClient := &http.Client{Timeout: timeout}

	client := &Client{
		kind:        cfg.Type,
		httpClient:  httpClient,
		resourceURL: cfg.ResourceURL,
	}

	var endpoint oauth2.Endpoint
	switch cfg.Type {
	case "", "github":
		client.kind = "github"
		endpoint = github.Endpoint

		apiBase := cfg.APIBaseURL
		if apiBase == "" {
			apiBase = config.DefaultProviderConfig.APIBaseURL
		}
		client.profileURL = strings.TrimSuffix(apiBase, "/") + "/user"

		if client.resourceURL == "" {
			client.resourceURL = config.DefaultProviderConfig.ResourceURL
		}
	case "oidc":
		provider, err := oidc.NewProvider(oidc.ClientContext(ctx, httpClient), cfg.IssuerURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
		}
		client.oidcProvider = provider
		endpoint = provider.Endpoint()
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", cfg.Type)
	}

	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}

	client.oauth2Config = &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       cfg.Scopes,
		RedirectURL:  cfg.RedirectURL,
	}

	return client, nil
}

// GenerateState returns a random anti-forgery value for the consent redirect.
func (c *Client) GenerateState() string {
	return GenerateState()
}

// AuthCodeURL builds the consent redirect carrying response_type, scope,
// redirect_uri, client_id and state.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth2Config.AuthCodeURL(state)
}

// Exchange trades a grant code for the provider access token.
func (c *Client) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	start := time.Now()
	defer observe(metrics.ProviderOperationExchange, start)

	token, err := c.oauth2Config.Exchange(c.withHTTPClient(ctx), code)
	if err != nil {
		metrics.ProviderErrors.WithLabelValues(metrics.ProviderOperationExchange).Inc()
		return nil, classifyExchangeError(err)
	}

	if token.AccessToken == "" {
		metrics.ProviderErrors.WithLabelValues(metrics.ProviderOperationExchange).Inc()
		return nil, fmt.Errorf("%w: response carried no access token", ErrExchangeRejected)
	}

	return token, nil
}

// FetchProfile loads the identity of the user the access token belongs to.
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (*models.Profile, error) {
	start := time.Now()
	defer observe(metrics.ProviderOperationProfile, start)

	var (
		profile *models.Profile
		err     error
	)

	if c.oidcProvider != nil {
		profile, err = c.fetchOIDCProfile(ctx, accessToken)
	} else {
		profile = &models.Profile{}
		err = c.getJSON(ctx, c.profileURL, accessToken, profile)
	}

	if err != nil {
		metrics.ProviderErrors.WithLabelValues(metrics.ProviderOperationProfile).Inc()
		return nil, err
	}

	return profile, nil
}

// FetchResources returns the provider's resource list verbatim.
func (c *Client) FetchResources(ctx context.Context, accessToken string) ([]json.RawMessage, error) {
	start := time.Now()
	defer observe(metrics.ProviderOperationResources, start)

	resources := make([]json.RawMessage, 0)
	if err := c.getJSON(ctx, c.resourceURL, accessToken, &resources); err != nil {
		metrics.ProviderErrors.WithLabelValues(metrics.ProviderOperationResources).Inc()
		return nil, err
	}

	return resources, nil
}

func (c *Client) fetchOIDCProfile(ctx context.Context, accessToken string) (*models.Profile, error) {
	userInfo, err := c.oidcProvider.UserInfo(c.withHTTPClient(ctx), staticTokenSource(accessToken))
	if err != nil {
		return nil, classifyRequestError(err)
	}

	var claims struct {
		Username string `json:"preferred_username"`
		Name     string `json:"name"`
		Picture  string `json:"picture"`
	}

	if err := userInfo.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: failed to parse user info claims: %v", ErrUnexpectedResponse, err)
	}

	return &models.Profile{
		Login:     getPreferredValue(claims.Username, claims.Name, userInfo.Subject),
		AvatarURL: claims.Picture,
		Subject:   userInfo.Subject,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, url, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent("oauth-relay"))

	httpClient := oauth2.NewClient(c.withHTTPClient(ctx), staticTokenSource(accessToken))
	httpClient.Timeout = c.httpClient.Timeout

	resp, err := httpClient.Do(req)
	if err != nil {
		return classifyRequestError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", ErrProviderUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, resp.Status)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s", ErrProviderUnavailable, resp.Status)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: %s", ErrUnexpectedResponse, resp.Status)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrUnexpectedResponse, err)
	}

	return nil
}

func (c *Client) withHTTPClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

func staticTokenSource(accessToken string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
}

func observe(operation string, start time.Time) {
	metrics.ProviderRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// GenerateState returns 32 random bytes, URL-safe base64 encoded.
func GenerateState() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)

	return base64.RawURLEncoding.EncodeToString(b)
}

// getPreferredValue returns the first non-empty string from the provided values
func getPreferredValue(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
