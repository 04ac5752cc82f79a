package ticker

import (
	"context"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"
)

// TestEvery_InvalidInterval rejects zero and negative intervals.
func TestEvery_InvalidInterval(t *testing.T) {
	t.Parallel()

	err := Every(context.Background(), nil, 0, func(context.Context) {})
	require.ErrorIs(t, err, ErrInvalidInterval)
}

// TestEvery_Cadence counts callbacks over a fixed span of fake time and stops on cancel.
func TestEvery_Cadence(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		var calls atomic.Int32

		done := make(chan error, 1)

		go func() {
			done <- Every(ctx, nil, 100*time.Millisecond, func(context.Context) {
				calls.Add(1)
			})
		}()

		time.Sleep(1050 * time.Millisecond)
		synctest.Wait()
		require.Equal(t, int32(10), calls.Load())

		cancel()
		require.NoError(t, <-done)

		time.Sleep(time.Second)
		require.Equal(t, int32(10), calls.Load())
	})
}
