package audit

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func TestDispatcher_CloseDrainsQueue(t *testing.T) {
	store := NewMemoryStore()
	d := NewDispatcher(New(store), zerolog.Nop())

	for i := 0; i < 20; i++ {
		d.Dispatch(Event{
			ActorID:   uintPtr(1),
			Action:    "appointment_created",
			Entity:    "appointment",
			EntityID:  uintPtr(uint(i + 1)),
			Metadata:  map[string]any{"n": i},
			RequestID: "req-1",
		})
	}
	d.Close()
	d.Close() // idempotent

	logs, total, err := store.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.EqualValues(t, 20, total)
	require.Len(t, logs, 20)
	assert.Equal(t, "req-1", logs[0].RequestID)
	assert.JSONEq(t, `{"n":19}`, logs[0].Metadata)
}

func TestMemoryStore_FilterAndPage(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	l := New(store)

	require.NoError(t, l.Log(ctx, Event{ActorID: uintPtr(1), Action: "appointment_created", Entity: "appointment"}))
	require.NoError(t, l.Log(ctx, Event{ActorID: uintPtr(2), Action: "appointment_cancelled", Entity: "appointment"}))
	require.NoError(t, l.Log(ctx, Event{ActorID: uintPtr(1), Action: "time_off_created", Entity: "time_off"}))
	require.NoError(t, l.Log(ctx, Event{Action: "user_unblocked", Entity: "user"}))

	logs, total, err := l.List(ctx, Filter{ActorID: uintPtr(1)})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "time_off_created", logs[0].Action)

	logs, total, err = l.List(ctx, Filter{Entity: "appointment", Action: "appointment_cancelled"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, uint(2), *logs[0].ActorID)

	logs, total, err = l.List(ctx, Filter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, logs, 2)
	assert.Equal(t, "time_off_created", logs[0].Action)
	assert.Equal(t, "appointment_cancelled", logs[1].Action)

	logs, _, err = l.List(ctx, Filter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	assert.Equal(t, "abc", RequestIDFrom(ctx))
	assert.Empty(t, RequestIDFrom(context.Background()))
}
