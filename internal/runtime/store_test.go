package runtime_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/tally/internal/runtime"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Contract(t *testing.T) {
	ports.RunStoreContract(t, func() ports.Store {
		return runtime.NewStore()
	})
}

func TestStore_Options(t *testing.T) {
	ctx := context.Background()
	store := runtime.NewStore(
		runtime.WithInitialState(domain.State{Count: 40, OtherProperty: "seed"}),
		runtime.WithReducer(runtime.LegacyTransition),
		runtime.WithLogger(nil), // ignored, keeps the no-op logger
	)

	assert.Equal(t, domain.State{Count: 40, OtherProperty: "seed"}, store.GetState())

	got := store.Dispatch(ctx, domain.Increment(2))
	assert.Equal(t, domain.State{Count: 39, OtherProperty: "Heloo Juhi"}, got)
}

func TestStore_NestedDispatchFromListener(t *testing.T) {
	ctx := context.Background()
	store := runtime.NewStore()

	var seen []int
	var unsubscribe func()
	unsubscribe = store.Subscribe(func() {
		s := store.GetState()
		seen = append(seen, s.Count)
		if s.Count == 10 {
			store.Dispatch(ctx, domain.Decrement())
		}
	})
	defer unsubscribe()

	final := store.Dispatch(ctx, domain.Increment(10))

	// The outer Dispatch returns what it committed; the nested one has moved the store on.
	assert.Equal(t, 10, final.Count)
	assert.Equal(t, 9, store.GetState().Count)
	assert.Equal(t, []int{10, 9}, seen)
}

func TestStore_UnsubscribeDuringNotification(t *testing.T) {
	ctx := context.Background()
	store := runtime.NewStore()

	var calls int
	var unsubB func()
	unsubA := store.Subscribe(func() { unsubB() })
	unsubB = store.Subscribe(func() { calls++ })
	defer unsubA()

	store.Dispatch(ctx, domain.Decrement())
	assert.Equal(t, 1, calls, "listener removed mid-notification still sees the in-flight dispatch")

	store.Dispatch(ctx, domain.Decrement())
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, store.ListenerCount())
}

func TestStore_LifecycleHooks(t *testing.T) {
	ctx := context.Background()

	var order []string
	var dispatched, committed []*domain.DispatchEvent

	hooks := domain.LifecycleHooks{
		OnDispatch: func(ctx context.Context, e *domain.DispatchEvent) {
			order = append(order, "dispatch")
			dispatched = append(dispatched, e)
		},
		OnCommit: func(ctx context.Context, e *domain.DispatchEvent) {
			order = append(order, "commit")
			committed = append(committed, e)
		},
	}

	store := runtime.NewStore(runtime.WithLifecycleHooks(hooks))
	unsubscribe := store.Subscribe(func() { order = append(order, "listener") })
	defer unsubscribe()

	store.Dispatch(ctx, domain.Increment(3))
	store.Dispatch(ctx, domain.Action{Type: "NOOP"})

	assert.Equal(t, []string{"dispatch", "listener", "commit", "dispatch", "listener", "commit"}, order)

	require.Len(t, dispatched, 2)
	require.Len(t, committed, 2)

	first := dispatched[0]
	assert.Equal(t, domain.EventDispatch, first.Type)
	assert.Equal(t, domain.Increment(3), first.Action)
	assert.Equal(t, 0, first.Previous.Count)
	assert.Equal(t, 3, first.Next.Count)
	assert.NotEmpty(t, first.TraceID)
	assert.True(t, first.Changed())

	assert.Equal(t, domain.EventCommit, committed[0].Type)
	assert.Equal(t, first.TraceID, committed[0].TraceID)

	assert.False(t, dispatched[1].Changed(), "unknown action must be an identity transition")

	assert.Equal(t, uint64(1), dispatched[0].Seq)
	assert.Equal(t, uint64(2), dispatched[1].Seq)
	assert.Equal(t, dispatched[1].Seq, committed[1].Seq)
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	ctx := context.Background()
	store := runtime.NewStore()

	var mu sync.Mutex
	notified := 0
	unsubscribe := store.Subscribe(func() {
		mu.Lock()
		notified++
		mu.Unlock()
	})
	defer unsubscribe()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.Dispatch(ctx, domain.Increment(2))
		}()
		go func() {
			defer wg.Done()
			store.Dispatch(ctx, domain.Decrement())
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, store.GetState().Count)
	assert.Equal(t, 100, notified)
}
