package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localpulse/localpulse/internal/domain/entities"
	"github.com/localpulse/localpulse/internal/domain/providers"
)

func receive(t *testing.T, ch <-chan *entities.PageEvent) *entities.PageEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "channel closed")
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestMemoryEventBus_FanOut(t *testing.T) {
	bus := NewMemoryEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	channel := providers.GetSessionChannel("abc")
	list, err := bus.Subscribe(ctx, channel)
	require.NoError(t, err)
	mapPane, err := bus.Subscribe(ctx, channel)
	require.NoError(t, err)
	other, err := bus.Subscribe(ctx, providers.GetSessionChannel("other"))
	require.NoError(t, err)

	event := &entities.PageEvent{ID: "1", SessionID: "abc", Type: entities.EventHoverChanged, HoveredID: "Cafe X-0"}
	require.NoError(t, bus.Publish(ctx, channel, event))

	assert.Equal(t, event, receive(t, list))
	assert.Equal(t, event, receive(t, mapPane))
	select {
	case ev := <-other:
		t.Fatalf("unexpected event on other channel: %+v", ev)
	default:
	}
}

func TestMemoryEventBus_UnsubscribeOnContextDone(t *testing.T) {
	bus := NewMemoryEventBus()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := bus.Subscribe(ctx, "session:x")
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscriber channel was not closed")
	}
}

func TestMemoryEventBus_Close(t *testing.T) {
	bus := NewMemoryEventBus()
	ch, err := bus.Subscribe(context.Background(), "session:x")
	require.NoError(t, err)

	require.NoError(t, bus.Close())
	_, ok := <-ch
	assert.False(t, ok)

	assert.ErrorIs(t, bus.Publish(context.Background(), "session:x", &entities.PageEvent{}), ErrBusClosed)
	_, err = bus.Subscribe(context.Background(), "session:x")
	assert.ErrorIs(t, err, ErrBusClosed)
}
