package audit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chancery/pkg/domain"
)

func TestPublisher_AppendsInOrder(t *testing.T) {
	store := NewInMemoryStore()
	publisher := NewPublisher(store)
	parishID := domain.ParishID(uuid.New())

	for _, action := range []string{ActionCorrectionCreated, ActionCorrectionDeleted} {
		err := publisher.Emit(context.Background(), Event{
			ParishID: parishID,
			DecreeID: domain.DecreeID(uuid.New()),
			Action:   action,
		})
		require.NoError(t, err)
	}

	events, err := publisher.List(context.Background(), parishID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, ActionCorrectionCreated, events[0].Action)
	assert.Equal(t, ActionCorrectionDeleted, events[1].Action)
	assert.False(t, events[0].Timestamp.IsZero(), "Emit fills a missing timestamp")
}

func TestWorker_DrainsInbox(t *testing.T) {
	store := NewInMemoryStore()
	inbox := make(chan Event, 4)
	worker := NewWorker(store, inbox)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- worker.Run(ctx)
	}()

	parishID := domain.ParishID(uuid.New())
	inbox <- Event{ParishID: parishID, Action: ActionIntegrityWarning, Timestamp: time.Now()}

	require.Eventually(t, func() bool {
		events, err := store.ListByParish(context.Background(), parishID)
		return err == nil && len(events) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
