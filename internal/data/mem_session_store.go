package data

import (
	"context"
	"oauth-relay/internal/metrics"
	"oauth-relay/internal/models"
	"sync"
	"time"
)

// MemSessionStore is an append-only, process-lifetime session list. Records
// are never evicted or deduplicated.
type MemSessionStore struct {
	records []models.SessionRecord
	mutex   sync.RWMutex
}

func NewMemSessionStore() *MemSessionStore {
	return &MemSessionStore{
		records: make([]models.SessionRecord, 0),
	}
}

// Put appends a record.
func (m *MemSessionStore) Put(ctx context.Context, record models.SessionRecord) error {
	start := time.Now()
	defer func() {
		metrics.SessionStoreOperationDuration.WithLabelValues(metrics.StoreTypeMemory, metrics.StoreOperationPut).Observe(time.Since(start).Seconds())
	}()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.records = append(m.records, record)
	metrics.SessionRecordsAppended.WithLabelValues(metrics.StoreTypeMemory).Inc()

	return nil
}

// Get scans the list for a record holding sessionToken, newest first.
func (m *MemSessionStore) Get(ctx context.Context, sessionToken string) (*models.SessionRecord, error) {
	start := time.Now()
	defer func() {
		metrics.SessionStoreOperationDuration.WithLabelValues(metrics.StoreTypeMemory, metrics.StoreOperationGet).Observe(time.Since(start).Seconds())
	}()

	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].SessionToken == sessionToken {
			record := m.records[i]
			return &record, nil
		}
	}

	metrics.SessionLookupMisses.WithLabelValues(metrics.StoreTypeMemory).Inc()
	return nil, ErrSessionNotFound
}

// Len returns the number of records appended so far.
func (m *MemSessionStore) Len(ctx context.Context) (int, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.records), nil
}
