package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"oauth-relay/internal/data"
	"oauth-relay/internal/models"
	"oauth-relay/internal/provider"
	"oauth-relay/internal/testutil"
	"oauth-relay/internal/token"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGETReposHandler_ShouldReturnProviderListVerbatim(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, "GET", "/repos")
	defer tc.Finish()
	tc.WithBearerToken("jwt-a")

	repos := []json.RawMessage{
		json.RawMessage(`{"id":2,"name":"newer","private":false}`),
		json.RawMessage(`{"id":1,"name":"older","owner":{"login":"alice"}}`),
	}
	tc.MockRelay.EXPECT().Resources(tc.AppContext, "jwt-a").Return(repos, nil)

	tc.CallHandler(GETReposHandler)

	tc.AssertStatus(t, http.StatusOK)
	tc.AssertContentType(t, "application/json")
	assert.JSONEq(t, `[{"id":2,"name":"newer","private":false},{"id":1,"name":"older","owner":{"login":"alice"}}]`, tc.GetResponseBody())
}

func TestGETReposHandler_ShouldReturnEmptyListAsArray(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, "GET", "/repos")
	defer tc.Finish()
	tc.WithBearerToken("jwt-a")

	tc.MockRelay.EXPECT().Resources(tc.AppContext, "jwt-a").Return([]json.RawMessage{}, nil)

	tc.CallHandler(GETReposHandler)

	tc.AssertStatus(t, http.StatusOK)
	tc.AssertJSONArrayLength(t, 0)
}

func TestGETReposHandler_ShouldMapErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unknown session token",
			err:        fmt.Errorf("failed to look up session: %w", data.ErrSessionNotFound),
			wantStatus: http.StatusUnauthorized,
			wantCode:   models.ErrorCodeInvalidToken,
		},
		{
			name:       "signature mismatch",
			err:        fmt.Errorf("failed to verify session token: %w", token.ErrInvalidToken),
			wantStatus: http.StatusUnauthorized,
			wantCode:   models.ErrorCodeInvalidToken,
		},
		{
			name:       "expired session token",
			err:        fmt.Errorf("failed to verify session token: %w", token.ErrTokenExpired),
			wantStatus: http.StatusUnauthorized,
			wantCode:   models.ErrorCodeInvalidToken,
		},
		{
			name:       "provider revoked token",
			err:        fmt.Errorf("failed to fetch resources: %w", provider.ErrUnauthorized),
			wantStatus: http.StatusUnauthorized,
			wantCode:   models.ErrorCodeProviderUnauthorized,
		},
		{
			name:       "provider down",
			err:        fmt.Errorf("failed to fetch resources: %w", provider.ErrProviderUnavailable),
			wantStatus: http.StatusBadGateway,
			wantCode:   models.ErrorCodeProviderError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := testutil.NewTestContextWithURL(t, "GET", "/repos")
			defer tc.Finish()
			tc.WithBearerToken("jwt-a")

			tc.MockRelay.EXPECT().Resources(tc.AppContext, "jwt-a").Return(nil, tt.err)

			tc.CallHandler(GETReposHandler)

			tc.AssertJSONError(t, tt.wantStatus, tt.wantCode)
		})
	}
}
