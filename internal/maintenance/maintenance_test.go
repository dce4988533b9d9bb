package maintenance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/detailpro/detailpro-backend/pkg/logger"
	"github.com/detailpro/detailpro-backend/pkg/metrics"
)

type memoryStore struct {
	values map[string]string
}

func newMemoryStore() *memoryStore { return &memoryStore{values: map[string]string{}} }

func (m *memoryStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value.(string)
	return true, nil
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

type countingJob struct {
	name     string
	affected int64
	err      error
	runs     int
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(context.Context) (int64, error) {
	j.runs++
	return j.affected, j.err
}

func newTestRunner(t *testing.T, lock Lock, reg prometheus.Registerer, jobs ...Job) *Runner {
	t.Helper()
	runner, err := NewRunner(RunnerParams{
		Logger:  logger.Nop(),
		Lock:    lock,
		Metrics: metrics.NewMaintenanceMetrics(reg),
		Jobs:    jobs,
	})
	require.NoError(t, err)
	return runner
}

func TestRunOnceRunsEveryJobAfterFailure(t *testing.T) {
	lock, err := NewRedisLock(newMemoryStore(), "detailpro:maintenance:test", time.Minute)
	require.NoError(t, err)
	failing := &countingJob{name: "failing", err: errors.New("boom")}
	ok := &countingJob{name: "ok", affected: 4}

	require.NoError(t, newTestRunner(t, lock, prometheus.NewRegistry(), failing, nil, ok).RunOnce(context.Background()))

	assert.Equal(t, 1, failing.runs)
	assert.Equal(t, 1, ok.runs)
}

func TestRunOnceSkipsWhenLockHeld(t *testing.T) {
	store := newMemoryStore()
	holder, err := NewRedisLock(store, "detailpro:maintenance:test", time.Minute)
	require.NoError(t, err)
	acquired, err := holder.Acquire(context.Background())
	require.NoError(t, err)
	require.True(t, acquired)

	other, err := NewRedisLock(store, "detailpro:maintenance:test", time.Minute)
	require.NoError(t, err)
	job := &countingJob{name: "skipped"}
	require.NoError(t, newTestRunner(t, other, nil, job).RunOnce(context.Background()))

	assert.Zero(t, job.runs)
}

func TestRedisLockReleaseOnlyByHolder(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()
	lock, err := NewRedisLock(store, "k", time.Minute)
	require.NoError(t, err)

	acquired, err := lock.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, acquired)

	// Simulate TTL expiry and another replica taking over.
	store.values["k"] = "someone-else"
	require.NoError(t, lock.Release(ctx))
	assert.Equal(t, "someone-else", store.values["k"])

	delete(store.values, "k")
	acquired, err = lock.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, acquired)
	require.NoError(t, lock.Release(ctx))
	assert.Empty(t, store.values)
}

func TestNewRedisLockValidates(t *testing.T) {
	_, err := NewRedisLock(nil, "k", time.Minute)
	assert.Error(t, err)
	_, err = NewRedisLock(newMemoryStore(), "", time.Minute)
	assert.Error(t, err)
	_, err = NewRedisLock(newMemoryStore(), "k", 0)
	assert.Error(t, err)
}

type passthroughTx struct{}

func (passthroughTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func TestRetentionJobComputesCutoff(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	var got time.Time
	prune := func(_ context.Context, _ *gorm.DB, cutoff time.Time) (int64, error) {
		got = cutoff
		return 7, nil
	}
	job, err := NewRetentionJob(OutboxRetentionJobName, passthroughTx{}, prune, 30)
	require.NoError(t, err)
	job.now = func() time.Time { return now }

	n, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, now.Add(-30*24*time.Hour), got)
	assert.Equal(t, OutboxRetentionJobName, job.Name())
}

func TestRetentionJobWrapsError(t *testing.T) {
	prune := func(context.Context, *gorm.DB, time.Time) (int64, error) { return 0, errors.New("db down") }
	job, err := NewRetentionJob(DLQRetentionJobName, passthroughTx{}, prune, 90)
	require.NoError(t, err)

	_, err = job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dlq-retention")
	assert.Contains(t, err.Error(), "db down")
}

func TestNewRetentionJobValidates(t *testing.T) {
	prune := func(context.Context, *gorm.DB, time.Time) (int64, error) { return 0, nil }
	_, err := NewRetentionJob("", passthroughTx{}, prune, 1)
	assert.Error(t, err)
	_, err = NewRetentionJob("x", nil, prune, 1)
	assert.Error(t, err)
	_, err = NewRetentionJob("x", passthroughTx{}, nil, 1)
	assert.Error(t, err)
	_, err = NewRetentionJob("x", passthroughTx{}, prune, 0)
	assert.Error(t, err)
}
