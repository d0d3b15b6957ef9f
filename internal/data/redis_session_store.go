package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"oauth-relay/internal/config"
	"oauth-relay/internal/metrics"
	"oauth-relay/internal/models"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/extra/redisprometheus/v9"
	"github.com/redis/go-redis/v9"
)

const (
	redisSessionKeyPrefix = "relay:session:"
	redisSessionCountKey  = "relay:session:count"
)

// RedisSessionClient is the subset of the go-redis client the session store uses.
type RedisSessionClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

type RedisSessionStore struct {
	client RedisSessionClient
	logger *slog.Logger
}

func NewRedisSessionStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*RedisSessionStore, error) {
	if cfg.Redis == nil {
		return nil, fmt.Errorf("redis configuration is required for the redis session store")
	}

	client := NewRedisClient(cfg.Redis, cfg.Redis.SessionIndex, logger)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	if cfg.Server.Debug != nil && cfg.Server.Debug.Enabled {
		collector := redisprometheus.NewCollector(metrics.Namespace, "session_store", client)
		if err := prometheus.Register(collector); err != nil {
			logger.Debug("failed to register redis session store collector: already registered", "error", err)
		}
	}

	return NewRedisSessionStoreWithClient(client, logger), nil
}

// NewRedisSessionStoreWithClient wraps an existing client without pinging it.
func NewRedisSessionStoreWithClient(client RedisSessionClient, logger *slog.Logger) *RedisSessionStore {
	return &RedisSessionStore{
		client: client,
		logger: logger,
	}
}

// key generates a namespaced Redis key from the token hash
func (r *RedisSessionStore) key(sessionToken string) string {
	return redisSessionKeyPrefix + hashToken(sessionToken)
}

func (r *RedisSessionStore) Put(ctx context.Context, record models.SessionRecord) error {
	start := time.Now()
	defer r.observe(metrics.StoreOperationPut, start)

	now := time.Now()
	if record.IsExpired(now) {
		return fmt.Errorf("session record already expired")
	}

	var ttl time.Duration
	if !record.ExpiresAt.IsZero() {
		ttl = record.ExpiresAt.Sub(now)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal session record: %w", err)
	}

	if err := r.client.Set(ctx, r.key(record.SessionToken), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session record: %w", err)
	}

	if err := r.client.Incr(ctx, redisSessionCountKey).Err(); err != nil {
		r.logger.Warn("failed to increment session record count", "error", err)
	}

	metrics.SessionRecordsAppended.WithLabelValues(metrics.StoreTypeRedis).Inc()
	return nil
}

func (r *RedisSessionStore) Get(ctx context.Context, sessionToken string) (*models.SessionRecord, error) {
	start := time.Now()
	defer r.observe(metrics.StoreOperationGet, start)

	data, err := r.client.Get(ctx, r.key(sessionToken)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.SessionLookupMisses.WithLabelValues(metrics.StoreTypeRedis).Inc()
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session record: %w", err)
	}

	var record models.SessionRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session record: %w", err)
	}

	if record.SessionToken != sessionToken {
		metrics.SessionLookupMisses.WithLabelValues(metrics.StoreTypeRedis).Inc()
		return nil, ErrSessionNotFound
	}

	return &record, nil
}

// Len returns the number of records ever appended; expired records still count.
func (r *RedisSessionStore) Len(ctx context.Context) (int, error) {
	start := time.Now()
	defer r.observe(metrics.StoreOperationLen, start)

	value, err := r.client.Get(ctx, redisSessionCountKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read session record count: %w", err)
	}

	count, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid session record count %q: %w", value, err)
	}

	return count, nil
}

func (r *RedisSessionStore) Close() error {
	return r.client.Close()
}

func (r *RedisSessionStore) observe(operation string, start time.Time) {
	metrics.SessionStoreOperationDuration.WithLabelValues(metrics.StoreTypeRedis, operation).Observe(time.Since(start).Seconds())
}
