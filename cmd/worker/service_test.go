package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/detailpro/detailpro-backend/pkg/logger"
)

type fakeConsumer struct {
	runs atomic.Int32
	err  error
}

func (f *fakeConsumer) Run(context.Context) error {
	f.runs.Add(1)
	return f.err
}

// blockingConsumer runs until its context is canceled.
type blockingConsumer struct {
	stopped atomic.Bool
}

func (b *blockingConsumer) Run(ctx context.Context) error {
	<-ctx.Done()
	b.stopped.Store(true)
	return ctx.Err()
}

func TestServiceStopsBeforeConsumingWhenDependencyDown(t *testing.T) {
	c := &fakeConsumer{}
	svc, err := NewService(ServiceParams{
		Logger:    logger.Nop(),
		Checks:    map[string]pinger{"redis": func(context.Context) error { return errors.New("refused") }},
		Consumers: map[string]consumer{"owner-alerts": c},
	})
	require.NoError(t, err)

	err = svc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping failed")
	assert.Zero(t, c.runs.Load())
}

func TestServiceTreatsCancellationAsCleanExit(t *testing.T) {
	a := &fakeConsumer{err: context.Canceled}
	b := &fakeConsumer{}
	svc, err := NewService(ServiceParams{Logger: logger.Nop(), Consumers: map[string]consumer{"a": a, "b": b}})
	require.NoError(t, err)

	require.NoError(t, svc.Run(context.Background()))
	assert.Equal(t, int32(1), a.runs.Load())
	assert.Equal(t, int32(1), b.runs.Load())
}

func TestServiceFailureStopsOtherConsumers(t *testing.T) {
	blocking := &blockingConsumer{}
	svc, err := NewService(ServiceParams{
		Logger: logger.Nop(),
		Consumers: map[string]consumer{
			"analytics":    &fakeConsumer{err: errors.New("boom")},
			"owner-alerts": blocking,
		},
	})
	require.NoError(t, err)

	err = svc.Run(context.Background())
	require.EqualError(t, err, "analytics: boom")
	assert.True(t, blocking.stopped.Load())
}

func TestNewServiceValidatesConsumers(t *testing.T) {
	_, err := NewService(ServiceParams{Logger: logger.Nop()})
	require.Error(t, err)

	_, err = NewService(ServiceParams{Logger: logger.Nop(), Consumers: map[string]consumer{"nil": nil}})
	require.Error(t, err)
}
