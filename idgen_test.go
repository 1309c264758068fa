package scrollback

import (
	"sync"
	"testing"

	"github.com/peco/scrollback/line"
	"github.com/stretchr/testify/require"
)

func TestIDGen(t *testing.T) {
	t.Parallel()
	ig := newIDGen(0x1_0042)
	require.Equal(t, uint64(0x42), ig.seed, "seed is truncated to the host bits")

	now := int64(1700000000)
	ig.now = func() int64 { return now }

	var prev uint64
	for i := 0; i < 10000; i++ {
		if i%5000 == 0 {
			now++
		}
		id := ig.Next()
		require.NotEqual(t, line.NoID, id)
		require.False(t, line.IsSentinel(id))
		require.Greater(t, id, prev, "IDs must increase")
		require.Equal(t, uint64(0x42), id&(1<<hostIDBits-1))
		prev = id
	}
	require.Greater(t, ig.timeID, now, "bursts borrow seconds from the future")

	// going back in time does not break monotonicity
	now -= 10
	require.Greater(t, ig.Next(), prev)
}

func TestIDGen_Concurrent(t *testing.T) {
	t.Parallel()
	ig := newIDGen(1)

	const workers, perWorker = 8, 500
	ch := make(chan uint64, workers*perWorker)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				ch <- ig.Next()
			}
		}()
	}
	wg.Wait()
	close(ch)

	seen := make(map[uint64]struct{}, workers*perWorker)
	for id := range ch {
		_, dup := seen[id]
		require.False(t, dup, "duplicate ID %d", id)
		seen[id] = struct{}{}
	}
	require.Len(t, seen, workers*perWorker)
}
