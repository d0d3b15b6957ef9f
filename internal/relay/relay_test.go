package relay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"oauth-relay/internal/config"
	"oauth-relay/internal/data"
	"oauth-relay/internal/mocks"
	"oauth-relay/internal/models"
	"oauth-relay/internal/provider"
	"oauth-relay/internal/token"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/oauth2"
)

var alice = &models.Profile{Login: "alice", ID: 1, AvatarURL: "u"}

func newTestIssuer(t *testing.T) *token.Issuer {
	issuer, err := token.NewIssuer(config.SigningConfig{
		Key:      "0123456789abcdef0123456789abcdef",
		Issuer:   "oauth-relay",
		Lifetime: time.Hour,
	})
	require.NoError(t, err)
	return issuer
}

func TestService_Exchange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProvider := mocks.NewMockProvider(ctrl)
	store := data.NewMemSessionStore()
	issuer := newTestIssuer(t)
	svc := NewService(mockProvider, store, issuer, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	mockProvider.EXPECT().Exchange(ctx, "abc").Return(&oauth2.Token{AccessToken: "tok1"}, nil)
	mockProvider.EXPECT().FetchProfile(ctx, "tok1").Return(alice, nil)

	sessionToken, profile, err := svc.Exchange(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, alice, profile)

	claims, err := issuer.Verify(sessionToken, "tok1")
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Login)
	assert.Equal(t, int64(1), claims.ID)
	assert.Equal(t, "u", claims.AvatarURL)

	record, err := store.Get(ctx, sessionToken)
	require.NoError(t, err)
	assert.Equal(t, "tok1", record.ProviderToken)
	assert.Equal(t, "alice", record.Login)
}

func TestService_Exchange_PayloadMatchesProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProvider := mocks.NewMockProvider(ctrl)
	svc := NewService(mockProvider, data.NewMemSessionStore(), newTestIssuer(t), slog.New(slog.NewTextHandler(io.Discard, nil)))

	mockProvider.EXPECT().Exchange(gomock.Any(), "abc").Return(&oauth2.Token{AccessToken: "tok1"}, nil)
	mockProvider.EXPECT().FetchProfile(gomock.Any(), "tok1").Return(alice, nil)

	sessionToken, _, err := svc.Exchange(context.Background(), "abc")
	require.NoError(t, err)

	// Decode without verifying to inspect the raw payload.
	payload := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(sessionToken, payload)
	require.NoError(t, err)

	assert.Equal(t, "alice", payload["login"])
	assert.Equal(t, float64(1), payload["id"])
	assert.Equal(t, "u", payload["avatar_url"])
}

func TestService_Exchange_TwiceAppendsTwoRecords(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProvider := mocks.NewMockProvider(ctrl)
	store := data.NewMemSessionStore()
	svc := NewService(mockProvider, store, newTestIssuer(t), slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	mockProvider.EXPECT().Exchange(ctx, "abc").Return(&oauth2.Token{AccessToken: "tok1"}, nil)
	mockProvider.EXPECT().Exchange(ctx, "def").Return(&oauth2.Token{AccessToken: "tok2"}, nil)
	mockProvider.EXPECT().FetchProfile(ctx, gomock.Any()).Return(alice, nil).Times(2)

	first, _, err := svc.Exchange(ctx, "abc")
	require.NoError(t, err)
	second, _, err := svc.Exchange(ctx, "def")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestService_Exchange_Errors(t *testing.T) {
	ctx := context.Background()
	storeErr := errors.New("disk full")

	tests := []struct {
		name    string
		code    string
		setup   func(p *mocks.MockProvider, s *mocks.MockSessionStore, i *mocks.MockTokenIssuer)
		wantErr error
	}{
		{
			name:    "empty code",
			code:    "",
			setup:   func(p *mocks.MockProvider, s *mocks.MockSessionStore, i *mocks.MockTokenIssuer) {},
			wantErr: ErrMissingCode,
		},
		{
			name: "exchange rejected",
			code: "bad",
			setup: func(p *mocks.MockProvider, s *mocks.MockSessionStore, i *mocks.MockTokenIssuer) {
				p.EXPECT().Exchange(ctx, "bad").Return(nil, provider.ErrExchangeRejected)
			},
			wantErr: provider.ErrExchangeRejected,
		},
		{
			name: "profile unavailable",
			code: "abc",
			setup: func(p *mocks.MockProvider, s *mocks.MockSessionStore, i *mocks.MockTokenIssuer) {
				p.EXPECT().Exchange(ctx, "abc").Return(&oauth2.Token{AccessToken: "tok1"}, nil)
				p.EXPECT().FetchProfile(ctx, "tok1").Return(nil, provider.ErrProviderUnavailable)
			},
			wantErr: provider.ErrProviderUnavailable,
		},
		{
			name: "store failure",
			code: "abc",
			setup: func(p *mocks.MockProvider, s *mocks.MockSessionStore, i *mocks.MockTokenIssuer) {
				p.EXPECT().Exchange(ctx, "abc").Return(&oauth2.Token{AccessToken: "tok1"}, nil)
				p.EXPECT().FetchProfile(ctx, "tok1").Return(alice, nil)
				i.EXPECT().Issue(alice, "tok1").Return("jwt", time.Now().Add(time.Hour), nil)
				s.EXPECT().Put(ctx, gomock.Any()).Return(storeErr)
			},
			wantErr: storeErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			p := mocks.NewMockProvider(ctrl)
			s := mocks.NewMockSessionStore(ctrl)
			i := mocks.NewMockTokenIssuer(ctrl)
			tt.setup(p, s, i)

			svc := NewService(p, s, i, slog.New(slog.NewTextHandler(io.Discard, nil)))
			sessionToken, profile, err := svc.Exchange(ctx, tt.code)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, sessionToken)
			assert.Nil(t, profile)
		})
	}
}

func TestService_Resources(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProvider := mocks.NewMockProvider(ctrl)
	store := data.NewMemSessionStore()
	issuer := newTestIssuer(t)
	svc := NewService(mockProvider, store, issuer, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	sessionToken, expiresAt, err := issuer.Issue(alice, "tok1")
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, models.SessionRecord{SessionToken: sessionToken, ProviderToken: "tok1", ExpiresAt: expiresAt}))

	repos := []json.RawMessage{json.RawMessage(`{"name":"one"}`), json.RawMessage(`{"name":"two"}`)}
	mockProvider.EXPECT().FetchResources(ctx, "tok1").Return(repos, nil)

	got, err := svc.Resources(ctx, sessionToken)
	require.NoError(t, err)
	assert.Equal(t, repos, got)
}

func TestService_Resources_UnknownTokenFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	issuer := newTestIssuer(t)
	svc := NewService(mocks.NewMockProvider(ctrl), data.NewMemSessionStore(), issuer, slog.New(slog.NewTextHandler(io.Discard, nil)))

	wellFormed, _, err := issuer.Issue(alice, "tok1")
	require.NoError(t, err)

	got, err := svc.Resources(context.Background(), wellFormed)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, data.ErrSessionNotFound)
}

func TestService_Resources_TokenFromAnotherRecordFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := data.NewMemSessionStore()
	issuer := newTestIssuer(t)
	svc := NewService(mocks.NewMockProvider(ctrl), store, issuer, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	minted, _, err := issuer.Issue(alice, "tokA")
	require.NoError(t, err)
	// A record that pairs the token with a different provider token.
	require.NoError(t, store.Put(ctx, models.SessionRecord{SessionToken: minted, ProviderToken: "tokB"}))

	_, err = svc.Resources(ctx, minted)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestService_Resources_ProviderFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProvider := mocks.NewMockProvider(ctrl)
	mockStore := mocks.NewMockSessionStore(ctrl)
	mockIssuer := mocks.NewMockTokenIssuer(ctrl)
	svc := NewService(mockProvider, mockStore, mockIssuer, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	mockStore.EXPECT().Get(ctx, "jwt").Return(&models.SessionRecord{SessionToken: "jwt", ProviderToken: "tok1"}, nil)
	mockIssuer.EXPECT().Verify("jwt", "tok1").Return(&models.SessionClaims{Login: "alice"}, nil)
	mockProvider.EXPECT().FetchResources(ctx, "tok1").Return(nil, provider.ErrUnauthorized)

	_, err := svc.Resources(ctx, "jwt")
	assert.ErrorIs(t, err, provider.ErrUnauthorized)
}

func TestService_Claims(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockSessionStore(ctrl)
	mockIssuer := mocks.NewMockTokenIssuer(ctrl)
	svc := NewService(mocks.NewMockProvider(ctrl), mockStore, mockIssuer, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	mockStore.EXPECT().Get(ctx, "jwt").Return(&models.SessionRecord{SessionToken: "jwt", ProviderToken: "tok1"}, nil)
	mockIssuer.EXPECT().Verify("jwt", "tok1").Return(&models.SessionClaims{Login: "alice", ID: 1}, nil)

	claims, err := svc.Claims(ctx, "jwt")
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Login)

	mockStore.EXPECT().Get(ctx, "expired").Return(&models.SessionRecord{SessionToken: "expired", ProviderToken: "tok1"}, nil)
	mockIssuer.EXPECT().Verify("expired", "tok1").Return(nil, token.ErrTokenExpired)

	_, err = svc.Claims(ctx, "expired")
	assert.ErrorIs(t, err, token.ErrTokenExpired)
}

func TestCheckState(t *testing.T) {
	assert.NoError(t, CheckState("", "anything"))
	assert.NoError(t, CheckState("s1", "s1"))
	assert.ErrorIs(t, CheckState("s1", "s2"), ErrInvalidState)
	assert.ErrorIs(t, CheckState("s1", ""), ErrInvalidState)
}
