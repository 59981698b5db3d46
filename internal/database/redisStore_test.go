package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KunN-21/Bus-ticket/internal/entity"
)

func TestRetryRecoversFromTransientFailure(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := runWithRetries(ctx, "key", 5, func() error {
		calls++
		if calls < 3 {
			return errors.New("connection reset")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryExhaustionIsStorageUnavailable(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := runWithRetries(ctx, "key", 4, func() error {
		calls++
		return errors.New("i/o timeout")
	})

	assert.ErrorIs(t, err, entity.ErrStorageUnavailable)
	assert.Equal(t, 4, calls)
}

func TestRetryPassesUpdateAbortThrough(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := runWithRetries(ctx, "key", 5, func() error {
		calls++
		return &updateAborted{err: entity.ErrHoldExpired}
	})

	// The update function's own error is not a store failure.
	assert.ErrorIs(t, err, entity.ErrHoldExpired)
	assert.NotErrorIs(t, err, entity.ErrStorageUnavailable)
	assert.Equal(t, 1, calls)
}

func TestRetryStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := runWithRetries(ctx, "key", 5, func() error {
		calls++
		return errors.New("connection reset")
	})

	require.Error(t, err)
	assert.NotErrorIs(t, err, entity.ErrStorageUnavailable)
	assert.Equal(t, 1, calls)
}
