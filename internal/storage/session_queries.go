package storage

import (
	"context"
	"errors"
	"fmt"
	"oauth-relay/internal/metrics"
	"oauth-relay/internal/models"
	"time"

	"github.com/jackc/pgx/v5"
)

var ErrSessionNotFound = errors.New("session not found")

// Put appends a session record. Records are never updated in place.
func (p *DatabaseProvider) Put(ctx context.Context, record models.SessionRecord) error {
	start := time.Now()
	defer observe(metrics.StoreOperationPut, start)

	query := `
		INSERT INTO relay_sessions (token_hash, session_token, provider_token, login, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	result, err := p.pool.Exec(ctx, query,
		HashToken(record.SessionToken),
		record.SessionToken,
		record.ProviderToken,
		record.Login,
		createdAt,
		record.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session record: %w", err)
	}
	if result.RowsAffected() != 1 {
		return fmt.Errorf("failed to insert session record: %d rows affected", result.RowsAffected())
	}

	metrics.SessionRecordsAppended.WithLabelValues(metrics.StoreTypePostgres).Inc()
	return nil
}

// Get returns the newest record holding sessionToken.
func (p *DatabaseProvider) Get(ctx context.Context, sessionToken string) (*models.SessionRecord, error) {
	start := time.Now()
	defer observe(metrics.StoreOperationGet, start)

	query := `
		SELECT session_token, provider_token, login, created_at, expires_at
		FROM relay_sessions
		WHERE token_hash = $1 AND session_token = $2
		ORDER BY id DESC
		LIMIT 1
	`

	var record models.SessionRecord
	err := p.pool.QueryRow(ctx, query, HashToken(sessionToken), sessionToken).Scan(
		&record.SessionToken,
		&record.ProviderToken,
		&record.Login,
		&record.CreatedAt,
		&record.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			metrics.SessionLookupMisses.WithLabelValues(metrics.StoreTypePostgres).Inc()
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session record: %w", err)
	}

	return &record, nil
}

func (p *DatabaseProvider) Len(ctx context.Context) (int, error) {
	start := time.Now()
	defer observe(metrics.StoreOperationLen, start)

	var count int
	if err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM relay_sessions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count session records: %w", err)
	}
	return count, nil
}

func observe(operation string, start time.Time) {
	metrics.SessionStoreOperationDuration.WithLabelValues(metrics.StoreTypePostgres, operation).Observe(time.Since(start).Seconds())
}
