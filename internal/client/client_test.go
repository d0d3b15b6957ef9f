package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRelayFake(t *testing.T, resourceCalls *atomic.Int32) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/code", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasPrefix(r.Header.Get("User-Agent"), "relay-client/"))

		var body struct {
			Code  string `json:"code"`
			State string `json:"state"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		if body.Code != "abc" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"code rejected"}`))
			return
		}
		_, _ = w.Write([]byte(`{"jwt":"session-token"}`))
	})
	mux.HandleFunc("/repos", func(w http.ResponseWriter, r *http.Request) {
		resourceCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer session-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_token"}`))
			return
		}
		_, _ = w.Write([]byte(`[{"name":"r1"},{"name":"r2"}]`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClient_SendCodeThenFetchRepos(t *testing.T) {
	var calls atomic.Int32
	server := newRelayFake(t, &calls)
	store := &MemoryTokenStore{}
	c := New(server.URL+"/", store, newTestLogger())

	assert.False(t, c.Authenticated())

	token, err := c.SendCode(context.Background(), "abc", "state")
	require.NoError(t, err)
	assert.Equal(t, "session-token", token)
	assert.True(t, c.Authenticated())

	repos, err := c.FetchRepos(context.Background())
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.JSONEq(t, `{"name":"r1"}`, string(repos[0]))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_FetchReposWithoutTokenSendsNothing(t *testing.T) {
	var calls atomic.Int32
	server := newRelayFake(t, &calls)
	c := New(server.URL, &MemoryTokenStore{}, newTestLogger())

	_, err := c.FetchRepos(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, int32(0), calls.Load())
}

func TestClient_SendCodeRejected(t *testing.T) {
	var calls atomic.Int32
	server := newRelayFake(t, &calls)
	store := &MemoryTokenStore{}
	c := New(server.URL, store, newTestLogger())

	_, err := c.SendCode(context.Background(), "bad", "")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "invalid_grant", apiErr.Code)
	assert.Equal(t, "code rejected", apiErr.Description)
	assert.False(t, c.Authenticated())
}

func TestClient_FetchReposUnknownToken(t *testing.T) {
	var calls atomic.Int32
	server := newRelayFake(t, &calls)
	store := &MemoryTokenStore{}
	require.NoError(t, store.Save("stale"))
	c := New(server.URL, store, newTestLogger())

	_, err := c.FetchRepos(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid_token", apiErr.Code)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Logout(t *testing.T) {
	store := &MemoryTokenStore{}
	require.NoError(t, store.Save("t"))
	c := New("http://unused", store, newTestLogger())

	require.NoError(t, c.Logout())
	assert.False(t, c.Authenticated())
}
