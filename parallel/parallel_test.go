package parallel

import (
	"context"
	"errors"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMapPreservesOrder(t *testing.T) {
	t.Parallel()

	items := make([]int, 32)
	for i := range items {
		items[i] = i
	}
	var running, peak int32
	results, err := Map(context.Background(), NewAlive(), items, DefaultWorkers,
		func(ctx context.Context, item int) (int, error) {
			n := atomic.AddInt32(&running, 1)
			defer atomic.AddInt32(&running, -1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(time.Duration(rand.Intn(5)) * time.Millisecond) //nolint:gosec
			return item * 10, nil
		})
	require.NoError(t, err)
	require.Len(t, results, len(items))
	for i, r := range results {
		require.Equal(t, i*10, r)
	}
	require.LessOrEqual(t, atomic.LoadInt32(&peak), int32(DefaultWorkers))
}

func TestMapFailFast(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	items := make([]int, 100)
	for i := range items {
		items[i] = i
	}
	var started int32
	results, err := Map(context.Background(), NewAlive(), items, 2,
		func(ctx context.Context, item int) (int, error) {
			atomic.AddInt32(&started, 1)
			if item == 1 {
				return 0, errBoom
			}
			<-ctx.Done()
			return 0, ctx.Err()
		})
	require.ErrorIs(t, err, errBoom)
	require.Nil(t, results)
	require.Less(t, atomic.LoadInt32(&started), int32(len(items)))
}

func TestMapShutdown(t *testing.T) {
	t.Parallel()

	alive := NewAlive()
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	var started int32
	go func() {
		for atomic.LoadInt32(&started) == 0 {
			time.Sleep(time.Millisecond)
		}
		alive.Shutdown()
	}()
	_, err := Map(context.Background(), alive, items, DefaultWorkers,
		func(ctx context.Context, item int) (int, error) {
			atomic.AddInt32(&started, 1)
			<-ctx.Done()
			return 0, ctx.Err()
		})
	require.ErrorIs(t, err, ErrShutdown)
	require.False(t, alive.IsAlive())
}

func TestMapRevokedToken(t *testing.T) {
	t.Parallel()

	alive := NewAlive()
	alive.Shutdown()
	_, err := Map(context.Background(), alive, []int{1, 2, 3}, 1,
		func(ctx context.Context, item int) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		})
	require.ErrorIs(t, err, ErrShutdown)
}

func TestMapContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Map(ctx, nil, []int{1, 2, 3}, 1,
		func(ctx context.Context, item int) (int, error) {
			return item, nil
		})
	require.ErrorIs(t, err, context.Canceled)
}

func TestMapEmpty(t *testing.T) {
	t.Parallel()

	results, err := Map(context.Background(), NewAlive(), []string{}, 0,
		func(ctx context.Context, item string) (string, error) {
			return item, nil
		})
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestAlive(t *testing.T) {
	t.Parallel()

	alive := NewAlive()
	require.True(t, alive.IsAlive())
	alive.Shutdown()
	alive.Shutdown()
	require.False(t, alive.IsAlive())
	select {
	case <-alive.Done():
	default:
		t.Fatal("done channel not closed")
	}
}
