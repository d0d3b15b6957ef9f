package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"oauth-relay/internal/metrics"
	"oauth-relay/internal/mocks"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type countingJob struct {
	name     string
	interval time.Duration
	err      error
	runs     atomic.Int32
}

func (j *countingJob) Name() string            { return j.name }
func (j *countingJob) Interval() time.Duration { return j.interval }
func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestJobManager_RunsImmediatelyAndOnInterval(t *testing.T) {
	jm := NewJobManager(slog.New(slog.NewTextHandler(io.Discard, nil)))
	job := &countingJob{name: "ticking", interval: 5 * time.Millisecond}
	require.NoError(t, jm.Register(job))

	jm.Start(context.Background())
	require.Eventually(t, func() bool { return job.runs.Load() >= 3 }, time.Second, time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	jm.Shutdown(shutdownCtx)

	stopped := job.runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, job.runs.Load())
}

func TestJobManager_StartTwiceRunsOnce(t *testing.T) {
	jm := NewJobManager(slog.New(slog.NewTextHandler(io.Discard, nil)))
	job := &countingJob{name: "slow", interval: time.Hour}
	require.NoError(t, jm.Register(job))

	jm.Start(context.Background())
	jm.Start(context.Background())

	require.Eventually(t, func() bool { return job.runs.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(1), job.runs.Load())

	jm.Shutdown(context.Background())
}

func TestJobManager_CountsFailures(t *testing.T) {
	jm := NewJobManager(slog.New(slog.NewTextHandler(io.Discard, nil)))
	job := &countingJob{name: "broken", interval: time.Hour, err: errors.New("boom")}
	require.NoError(t, jm.Register(job))

	jm.Start(context.Background())
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.JobRunsTotal.WithLabelValues("broken", metrics.ResultFailure)) == 1
	}, time.Second, time.Millisecond)

	jm.Shutdown(context.Background())
}

func TestJobManager_RejectsNonPositiveInterval(t *testing.T) {
	jm := NewJobManager(slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := jm.Register(&countingJob{name: "zero"})
	assert.Error(t, err)
}

func TestSessionStatsJob_PublishesCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockSessionStore(ctrl)
	store.EXPECT().Len(gomock.Any()).Return(4, nil)

	job := NewSessionStatsJob(store, "test", time.Minute)
	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, float64(4), testutil.ToFloat64(metrics.SessionRecordsStored.WithLabelValues("test")))
	assert.Equal(t, "session_stats", job.Name())
	assert.Equal(t, time.Minute, job.Interval())
}

func TestSessionStatsJob_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockSessionStore(ctrl)
	store.EXPECT().Len(gomock.Any()).Return(0, errors.New("connection refused"))

	job := NewSessionStatsJob(store, "failing", time.Minute)
	err := job.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
