package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"oauth-relay/internal/data"
	"oauth-relay/internal/metrics"
	"oauth-relay/internal/models"
	"time"

	"golang.org/x/oauth2"
)

//go:generate mockgen -source=relay.go -destination=../mocks/relay.go -package=mocks

var (
	ErrMissingCode  = errors.New("authorization code is required")
	ErrInvalidState = errors.New("state does not match the issued state")
)

// Provider is the upstream OAuth provider as seen by the relay.
type Provider interface {
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchProfile(ctx context.Context, accessToken string) (*models.Profile, error)
	FetchResources(ctx context.Context, accessToken string) ([]json.RawMessage, error)
}

type TokenIssuer interface {
	Issue(profile *models.Profile, providerToken string) (string, time.Time, error)
	Verify(sessionToken, providerToken string) (*models.SessionClaims, error)
}

type Service struct {
	provider Provider
	store    data.SessionStore
	issuer   TokenIssuer
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(provider Provider, store data.SessionStore, issuer TokenIssuer, logger *slog.Logger) *Service {
	return &Service{
		provider: provider,
		store:    store,
		issuer:   issuer,
		logger:   logger,
		now:      time.Now,
	}
}

// Exchange trades an authorization code for a session token and records the
// mapping from that session token to the provider token.
func (s *Service) Exchange(ctx context.Context, code string) (string, *models.Profile, error) {
	result := metrics.ResultFailure
	defer func() {
		metrics.CodeExchangesTotal.WithLabelValues(result).Inc()
	}()

	if code == "" {
		return "", nil, ErrMissingCode
	}

	providerToken, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return "", nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	profile, err := s.provider.FetchProfile(ctx, providerToken.AccessToken)
	if err != nil {
		return "", nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	sessionToken, expiresAt, err := s.issuer.Issue(profile, providerToken.AccessToken)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	record := models.SessionRecord{
		SessionToken:  sessionToken,
		ProviderToken: providerToken.AccessToken,
		Login:         profile.Login,
		CreatedAt:     s.now(),
		ExpiresAt:     expiresAt,
	}
	if err := s.store.Put(ctx, record); err != nil {
		return "", nil, fmt.Errorf("failed to store session record: %w", err)
	}

	s.logger.Debug("session issued", "login", profile.Login, "expires_at", expiresAt)
	result = metrics.ResultSuccess
	return sessionToken, profile, nil
}

// Resources returns the provider's resource list for the holder of sessionToken,
// exactly as the provider returned it.
func (s *Service) Resources(ctx context.Context, sessionToken string) ([]json.RawMessage, error) {
	result := metrics.ResultFailure
	defer func() {
		metrics.ResourceFetchesTotal.WithLabelValues(result).Inc()
	}()

	record, _, err := s.authenticate(ctx, sessionToken)
	if err != nil {
		return nil, err
	}

	resources, err := s.provider.FetchResources(ctx, record.ProviderToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resources: %w", err)
	}

	result = metrics.ResultSuccess
	return resources, nil
}

// Claims verifies sessionToken against its record and returns its claims.
func (s *Service) Claims(ctx context.Context, sessionToken string) (*models.SessionClaims, error) {
	_, claims, err := s.authenticate(ctx, sessionToken)
	return claims, err
}

func (s *Service) authenticate(ctx context.Context, sessionToken string) (*models.SessionRecord, *models.SessionClaims, error) {
	record, err := s.store.Get(ctx, sessionToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up session: %w", err)
	}

	claims, err := s.issuer.Verify(sessionToken, record.ProviderToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to verify session token: %w", err)
	}

	return record, claims, nil
}

// CheckState compares the state returned with a code against the state issued
// at login. An empty issued state means no login was started through this
// server and nothing is checked.
func CheckState(issued, received string) error {
	if issued == "" {
		return nil
	}
	if issued != received {
		return ErrInvalidState
	}
	return nil
}
