package bus

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublishThenProcessDeliversFIFO(t *testing.T) {
	b := New(testLogger())
	var got []int
	b.Subscribe(TypeWindowResized, func(msg Message) {
		r := msg.Payload.(WindowResized)
		got = append(got, int(r.NewWidth))
	})

	for i := 1; i <= 3; i++ {
		b.Publish(Message{Type: TypeWindowResized, Payload: WindowResized{NewWidth: uint32(i)}})
	}
	b.Process()

	require.Equal(t, []int{1, 2, 3}, got)
}

func TestPublishImmediateBypassesQueue(t *testing.T) {
	b := New(testLogger())
	delivered := false
	b.Subscribe(FilterAll, func(msg Message) { delivered = true })

	b.PublishImmediate(Message{Type: TypeShaderReloaded})
	require.True(t, delivered)
	require.Equal(t, 0, b.Stats().Queued)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New(testLogger())
	count := 0
	id := b.Subscribe(TypeWindowResized, func(msg Message) { count++ })
	b.Unsubscribe(id)

	b.Publish(Message{Type: TypeWindowResized})
	b.Process()

	require.Equal(t, 0, count)
}

func TestHandlerPanicIsRecoveredAndCounted(t *testing.T) {
	b := New(testLogger())
	b.Subscribe(TypeWindowResized, func(msg Message) { panic("boom") })

	b.PublishImmediate(Message{Type: TypeWindowResized})

	stats := b.Stats()
	require.Equal(t, uint64(1), stats.Panics)
}

func TestDroppedMessageCountedWhenNoSubscribers(t *testing.T) {
	b := New(testLogger())
	b.PublishImmediate(Message{Type: TypeShaderReloaded})
	require.Equal(t, uint64(1), b.Stats().Dropped)
}

func TestWorkerBridgePublishesResultOnSuccess(t *testing.T) {
	b := New(testLogger())
	var mu sync.Mutex
	var result WorkResult
	got := make(chan struct{})
	b.SubscribeWorkerResult(func(msg Message) {
		mu.Lock()
		result = msg.Payload.(WorkResult)
		mu.Unlock()
		close(got)
	})

	wb := NewWorkerBridge(testLogger(), b, 1, 4)
	wb.SubmitWork("tester", func() (any, error) { return 42, nil })

	deadline := time.After(time.Second)
	for {
		b.Process()
		select {
		case <-got:
			mu.Lock()
			require.True(t, result.Success)
			require.Equal(t, 42, result.Payload)
			mu.Unlock()
			wb.Shutdown()
			return
		case <-deadline:
			t.Fatal("timed out waiting for worker result")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestWorkerBridgeShutdownDrainsQueuedWork(t *testing.T) {
	b := New(testLogger())
	var mu sync.Mutex
	received := 0
	b.SubscribeWorkerResult(func(msg Message) {
		mu.Lock()
		received++
		mu.Unlock()
	})

	wb := NewWorkerBridge(testLogger(), b, 1, 8)
	const n = 5
	for i := 0; i < n; i++ {
		wb.SubmitWork("tester", func() (any, error) { return nil, nil })
	}
	wb.Shutdown()

	b.Process()
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, n, received)
}
