package relay

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubscriberAssignsIncreasingIDs(t *testing.T) {
	a := NewSubscriber[int](nil)
	b := NewSubscriber[string](nil)
	c := NewSubscriber[int](nil)

	assert.Less(t, a.ID(), b.ID())
	assert.Less(t, b.ID(), c.ID())
	assert.NotEqual(t, NoID, a.ID())
}

func TestNewSubscriberConcurrentIDsUnique(t *testing.T) {
	const goroutines = 16
	const perGoroutine = 500

	results := make([][]ID, goroutines)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func(g int) {
			defer wg.Done()
			ids := make([]ID, 0, perGoroutine)
			for i := 0; i < perGoroutine; i++ {
				ids = append(ids, NewSubscriber[int](nil).ID())
			}
			results[g] = ids
		}(g)
	}
	wg.Wait()

	seen := make(map[ID]struct{}, goroutines*perGoroutine)
	for _, ids := range results {
		// Each goroutine observes a strictly increasing sequence.
		for i := 1; i < len(ids); i++ {
			require.Less(t, ids[i-1], ids[i])
		}
		for _, id := range ids {
			_, dup := seen[id]
			require.False(t, dup, "duplicate id %d", id)
			seen[id] = struct{}{}
		}
	}
	assert.Len(t, seen, goroutines*perGoroutine)
}

func TestSubscriberCopyKeepsIdentity(t *testing.T) {
	s := NewSubscriber(Func(func(int) {}))
	cp := s

	assert.True(t, cp.Equal(s))
	assert.Equal(t, s.ID(), cp.ID())
}

func TestSubscriberEqualIgnoresCallback(t *testing.T) {
	s := NewSubscriber(Func(func(int) {}))
	other := Subscriber[int]{id: s.ID(), callback: func(context.Context, int) error {
		return errors.New("different")
	}}

	assert.True(t, s.Equal(other))
	assert.False(t, s.Equal(NewSubscriber(Func(func(int) {}))))
}

func TestSubscriberInvoke(t *testing.T) {
	var got int
	s := NewSubscriber(Func(func(n int) { got = n }))

	require.NoError(t, s.Invoke(context.Background(), 42))
	assert.Equal(t, 42, got)
}

func TestSubscriberInvokePropagatesError(t *testing.T) {
	boom := errors.New("boom")
	s := NewSubscriber(func(context.Context, int) error { return boom })

	assert.Same(t, boom, s.Invoke(context.Background(), 1))
}

func TestSubscriberInvokePropagatesPanic(t *testing.T) {
	s := NewSubscriber(Func(func(int) { panic("boom") }))

	assert.PanicsWithValue(t, "boom", func() {
		_ = s.Invoke(context.Background(), 1)
	})
}

func TestSubscriberNilCallbackIsNoop(t *testing.T) {
	s := NewSubscriber[int](nil)

	assert.True(t, s.Valid())
	assert.NoError(t, s.Invoke(context.Background(), 1))
}

func TestZeroSubscriber(t *testing.T) {
	var s Subscriber[int]

	assert.False(t, s.Valid())
	assert.Equal(t, NoID, s.ID())
	assert.NoError(t, s.Invoke(context.Background(), 1))
	assert.True(t, s.Equal(Subscriber[int]{}))
}

func TestSubscriberInvokePassesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")

	var got any
	s := NewSubscriber(func(ctx context.Context, _ int) error {
		got = ctx.Value(key{})
		return nil
	})

	require.NoError(t, s.Invoke(ctx, 0))
	assert.Equal(t, "v", got)
}
