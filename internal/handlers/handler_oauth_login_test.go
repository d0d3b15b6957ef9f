package handlers

import (
	"log/slog"
	"net/http"
	"oauth-relay/internal/testutil"
	"testing"
)

const expectedRedirectURL = "https://github.com/login/oauth/authorize?client_id=abc&state=12345"

func TestGetLoginHandler_ShouldReturnRedirectURL(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, "GET", "/api/auth/login")
	defer tc.Finish()

	tc.MockOAuth.EXPECT().GenerateState().Return("12345").Times(1)
	tc.MockSession.EXPECT().SetLoginState(tc.AppContext, "12345").Times(1)
	tc.MockOAuth.EXPECT().AuthCodeURL("12345").Return(expectedRedirectURL).Times(1)

	tc.CallHandler(GETLoginHandler)

	tc.AssertStatus(t, http.StatusOK)
	tc.AssertContentType(t, "application/json")
	tc.AssertJSONField(t, "status", "redirect_required")
	tc.AssertJSONField(t, "redirect_url", expectedRedirectURL)
	tc.AssertLogsContainMessage(t, slog.LevelDebug, "Redirecting to OAuth provider")
}
