package jobs

import (
	"context"
	"fmt"
	"oauth-relay/internal/data"
	"oauth-relay/internal/metrics"
	"time"
)

// SessionStatsJob publishes the session store's record count as a gauge.
type SessionStatsJob struct {
	store     data.SessionStore
	storeType string
	interval  time.Duration
}

func NewSessionStatsJob(store data.SessionStore, storeType string, interval time.Duration) *SessionStatsJob {
	return &SessionStatsJob{
		store:     store,
		storeType: storeType,
		interval:  interval,
	}
}

func (j *SessionStatsJob) Name() string {
	return "session_stats"
}

func (j *SessionStatsJob) Interval() time.Duration {
	return j.interval
}

func (j *SessionStatsJob) Run(ctx context.Context) error {
	count, err := j.store.Len(ctx)
	if err != nil {
		return fmt.Errorf("failed to count %s session records: %w", j.storeType, err)
	}

	metrics.SessionRecordsStored.WithLabelValues(j.storeType).Set(float64(count))
	return nil
}
