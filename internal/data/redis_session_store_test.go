package data

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"oauth-relay/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRedisSessionClient is a mock implementation of RedisSessionClient
type MockRedisSessionClient struct {
	mock.Mock
}

func (m *MockRedisSessionClient) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	return args.Get(0).(*redis.StringCmd)
}

func (m *MockRedisSessionClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)
	return args.Get(0).(*redis.StatusCmd)
}

func (m *MockRedisSessionClient) Incr(ctx context.Context, key string) *redis.IntCmd {
	args := m.Called(ctx, key)
	return args.Get(0).(*redis.IntCmd)
}

func (m *MockRedisSessionClient) Ping(ctx context.Context) *redis.StatusCmd {
	args := m.Called(ctx)
	return args.Get(0).(*redis.StatusCmd)
}

func (m *MockRedisSessionClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func createStringCmd(result string, err error) *redis.StringCmd {
	cmd := redis.NewStringCmd(context.Background())
	if err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal(result)
	}
	return cmd
}

func createStatusCmd(err error) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(context.Background())
	if err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal("OK")
	}
	return cmd
}

func createIntCmd(result int64, err error) *redis.IntCmd {
	cmd := redis.NewIntCmd(context.Background())
	if err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal(result)
	}
	return cmd
}

func newTestRedisStore(client *MockRedisSessionClient) *RedisSessionStore {
	return NewRedisSessionStoreWithClient(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRedisSessionStore_Put(t *testing.T) {
	client := new(MockRedisSessionClient)
	store := newTestRedisStore(client)
	ctx := context.Background()

	record := models.SessionRecord{
		SessionToken:  "jwt-a",
		ProviderToken: "tok1",
		Login:         "alice",
		CreatedAt:     time.Now(),
		ExpiresAt:     time.Now().Add(time.Hour),
	}

	key := redisSessionKeyPrefix + hashToken("jwt-a")
	client.On("Set", ctx, key, mock.AnythingOfType("[]uint8"), mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 59*time.Minute && ttl <= time.Hour
	})).Return(createStatusCmd(nil))
	client.On("Incr", ctx, redisSessionCountKey).Return(createIntCmd(1, nil))

	require.NoError(t, store.Put(ctx, record))
	client.AssertExpectations(t)
}

func TestRedisSessionStore_PutRejectsExpiredRecord(t *testing.T) {
	client := new(MockRedisSessionClient)
	store := newTestRedisStore(client)

	err := store.Put(context.Background(), models.SessionRecord{
		SessionToken: "jwt-a",
		ExpiresAt:    time.Now().Add(-time.Minute),
	})
	assert.Error(t, err)
	client.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRedisSessionStore_PutSetError(t *testing.T) {
	client := new(MockRedisSessionClient)
	store := newTestRedisStore(client)
	ctx := context.Background()

	client.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).Return(createStatusCmd(errors.New("connection refused")))

	err := store.Put(ctx, models.SessionRecord{SessionToken: "jwt-a", ExpiresAt: time.Now().Add(time.Hour)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store session record")
	client.AssertNotCalled(t, "Incr", mock.Anything, mock.Anything)
}

func TestRedisSessionStore_Get(t *testing.T) {
	client := new(MockRedisSessionClient)
	store := newTestRedisStore(client)
	ctx := context.Background()

	record := models.SessionRecord{SessionToken: "jwt-a", ProviderToken: "tok1", Login: "alice"}
	data, err := json.Marshal(record)
	require.NoError(t, err)

	client.On("Get", ctx, redisSessionKeyPrefix+hashToken("jwt-a")).Return(createStringCmd(string(data), nil))

	got, err := store.Get(ctx, "jwt-a")
	require.NoError(t, err)
	assert.Equal(t, "tok1", got.ProviderToken)
	assert.Equal(t, "alice", got.Login)
	client.AssertExpectations(t)
}

func TestRedisSessionStore_GetMiss(t *testing.T) {
	client := new(MockRedisSessionClient)
	store := newTestRedisStore(client)
	ctx := context.Background()

	client.On("Get", ctx, mock.Anything).Return(createStringCmd("", redis.Nil))

	got, err := store.Get(ctx, "unknown")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisSessionStore_GetBackendError(t *testing.T) {
	client := new(MockRedisSessionClient)
	store := newTestRedisStore(client)
	ctx := context.Background()

	client.On("Get", ctx, mock.Anything).Return(createStringCmd("", errors.New("i/o timeout")))

	_, err := store.Get(ctx, "jwt-a")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
}

func TestRedisSessionStore_Len(t *testing.T) {
	tests := []struct {
		name      string
		cmd       *redis.StringCmd
		want      int
		wantError bool
	}{
		{name: "no records yet", cmd: createStringCmd("", redis.Nil), want: 0},
		{name: "counted records", cmd: createStringCmd("7", nil), want: 7},
		{name: "corrupt counter", cmd: createStringCmd("seven", nil), wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(MockRedisSessionClient)
			store := newTestRedisStore(client)
			ctx := context.Background()

			client.On("Get", ctx, redisSessionCountKey).Return(tt.cmd)

			n, err := store.Len(ctx)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}
