package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/student-teacher-portal/internal/docstore"
	"github.com/BruksfildServices01/student-teacher-portal/internal/models"
	"github.com/BruksfildServices01/student-teacher-portal/internal/paths"
)

func TestDispatcherPersistsEvents(t *testing.T) {
	store := docstore.NewMemoryStore()
	defer store.Close()

	d := NewDispatcher(New(store), 10)
	d.Dispatch(Event{
		Action:   ActionMessageSent,
		Entity:   "message",
		Actor:    "E1",
		Path:     "messages/T1/k",
		Metadata: map[string]string{"teacherId": "T1"},
	})
	d.Close()

	snap, err := store.Get(context.Background(), paths.AuditLogs())
	require.NoError(t, err)
	logs, err := docstore.DecodeChildren[models.AuditLog](snap)
	require.NoError(t, err)
	require.Len(t, logs, 1)

	for _, l := range logs {
		assert.Equal(t, ActionMessageSent, l.Action)
		assert.Equal(t, "E1", l.Actor)
		assert.JSONEq(t, `{"teacherId":"T1"}`, l.Metadata)
		assert.NotEmpty(t, l.Timestamp)
	}
}

func TestDispatchAfterCloseIsDropped(t *testing.T) {
	store := docstore.NewMemoryStore()
	defer store.Close()

	d := NewDispatcher(New(store), 1)
	d.Close()
	d.Close()

	assert.NotPanics(t, func() { d.Dispatch(Event{Action: ActionMessageSent}) })

	var nilDispatcher *Dispatcher
	assert.NotPanics(t, func() { nilDispatcher.Dispatch(Event{}) })
}

func TestLoggerListFiltersNewestFirst(t *testing.T) {
	store := docstore.NewMemoryStore()
	defer store.Close()
	ctx := context.Background()
	l := New(store)

	for _, ev := range []Event{
		{Action: ActionAppointmentAccepted, Entity: "appointment", Actor: "T1"},
		{Action: ActionMessageSent, Entity: "message", Actor: "E1"},
		{Action: ActionAppointmentRejected, Entity: "appointment", Actor: "T1"},
	} {
		require.NoError(t, l.Log(ctx, ev))
	}

	got, err := l.List(ctx, Filter{Actor: "T1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ActionAppointmentRejected, got[0].Action)
	assert.Equal(t, ActionAppointmentAccepted, got[1].Action)

	got, err = l.List(ctx, Filter{Entity: "message"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
