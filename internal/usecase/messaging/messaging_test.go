package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/student-teacher-portal/internal/docstore"
	"github.com/BruksfildServices01/student-teacher-portal/internal/docstore/docstoretest"
	"github.com/BruksfildServices01/student-teacher-portal/internal/domain/directory"
	"github.com/BruksfildServices01/student-teacher-portal/internal/httperr"
	"github.com/BruksfildServices01/student-teacher-portal/internal/models"
	"github.com/BruksfildServices01/student-teacher-portal/internal/timezone"
)

var alice = directory.StudentIdentity{ID: "E1", Name: "Alice", Email: "alice@example.com"}

func TestSendValidation(t *testing.T) {
	store := docstore.NewMemoryStore()
	defer store.Close()
	uc := NewSend(store, nil, "T")

	tests := []struct {
		name      string
		recipient string
		body      string
		wantCode  string
	}{
		{"no recipient", "", "hello", "missing_fields"},
		{"no body", "T1", "   ", "missing_fields"},
		{"not a teacher", "E2", "hello", "invalid_teacher_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := uc.Execute(context.Background(), SendInput{Sender: alice, Recipient: tt.recipient, Body: tt.body})
			assert.True(t, httperr.IsBusiness(err, tt.wantCode), "got %v", err)
			assert.Equal(t, httperr.KindValidation, httperr.KindOf(err))
		})
	}

	snap, err := store.Get(context.Background(), "messages")
	require.NoError(t, err)
	assert.False(t, snap.Exists(), "nothing written")
}

func TestSendIsObservedBySubscriber(t *testing.T) {
	store := docstore.NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	inbox := NewInbox(store, "UTC")
	sub, err := inbox.Watch(ctx, "T1")
	require.NoError(t, err)
	defer sub.Close()
	<-sub.C()

	key, msg, err := NewSend(store, nil, "T").Execute(ctx, SendInput{Sender: alice, Recipient: "T1", Body: "Can we meet?"})
	require.NoError(t, err)
	assert.NotEmpty(t, key)

	var snap docstore.Snapshot
	select {
	case snap = <-sub.C():
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot after send")
	}

	got, err := docstore.DecodeChildren[models.Message](snap)
	require.NoError(t, err)
	require.Contains(t, got, key)
	assert.Equal(t, *msg, got[key])
	assert.Equal(t, "Alice", got[key].StudentName)
	assert.Equal(t, "E1", got[key].EnrollmentNumber)
	assert.Equal(t, "Can we meet?", got[key].Message)

	_, err = timezone.ParseISO(got[key].Timestamp)
	assert.NoError(t, err)

	rows, err := inbox.Project(snap)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.NotEqual(t, "Invalid Date", rows[0].SentAt)
}

func TestSendRetryDuplicates(t *testing.T) {
	store := docstore.NewMemoryStore()
	defer store.Close()
	ctx := context.Background()
	uc := NewSend(store, nil, "T")

	for i := 0; i < 2; i++ {
		_, _, err := uc.Execute(ctx, SendInput{Sender: alice, Recipient: "T1", Body: "hello"})
		require.NoError(t, err)
	}

	rows, err := NewInbox(store, "UTC").Execute(ctx, "T1")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Less(t, rows[0].Key, rows[1].Key)
}

func TestSendRemoteFailure(t *testing.T) {
	mem := docstore.NewMemoryStore()
	defer mem.Close()
	store := docstoretest.New(mem, docstoretest.FailPrefix("messages/", errors.New("permission denied")))

	_, _, err := NewSend(store, nil, "T").Execute(context.Background(), SendInput{Sender: alice, Recipient: "T1", Body: "hello"})
	assert.Equal(t, httperr.KindRemoteWrite, httperr.KindOf(err))
	assert.Contains(t, err.Error(), "permission denied")
}
