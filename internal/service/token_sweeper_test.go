package service

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestPurgeExpired(t *testing.T) {
	tokens := newFakeTokenRepo()
	ctx := context.Background()

	require.NoError(t, tokens.Replace(ctx, 1, "fresh-token"))
	require.NoError(t, tokens.Replace(ctx, 2, "stale-token"))
	tokens.age("stale-token", 2*time.Hour)

	sweeper := NewTokenSweeper(tokens, time.Hour, time.Minute, logrus.New())

	purged, err := sweeper.PurgeExpired(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), purged)
	require.Equal(t, 1, tokens.count(1))
	require.Equal(t, 0, tokens.count(2))

	// Re-running with nothing expired is a no-op.
	purged, err = sweeper.PurgeExpired(ctx)
	require.NoError(t, err)
	require.Zero(t, purged)
	require.Equal(t, 1, tokens.count(1))
}

func TestSweeperLifecycle(t *testing.T) {
	tokens := newFakeTokenRepo()
	ctx := context.Background()

	require.NoError(t, tokens.Replace(ctx, 1, "stale-token"))
	tokens.age("stale-token", 2*time.Hour)

	sweeper := NewTokenSweeper(tokens, time.Hour, 10*time.Millisecond, logrus.New())
	sweeper.Start(ctx)

	require.Eventually(t, func() bool {
		return tokens.count(1) == 0
	}, 2*time.Second, 10*time.Millisecond)

	sweeper.Shutdown()
}
