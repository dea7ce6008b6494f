//go:build integration

package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"chancery/pkg/domain"
	"chancery/pkg/testutil/containers"
)

func TestKafkaDispatcher_PublishesKeyedByParish(t *testing.T) {
	rp := containers.GetRedpanda(t)
	ctx := context.Background()
	topic := "chancery.decrees.test"

	admin, err := kgo.NewClient(kgo.SeedBrokers(rp.Brokers...))
	require.NoError(t, err)
	defer admin.Close()
	_, err = kadm.NewClient(admin).CreateTopic(ctx, 1, 1, nil, topic)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dispatcher, err := NewKafkaDispatcher(rp.Brokers, topic, logger)
	require.NoError(t, err)

	parishID := domain.ParishID(uuid.New())
	sent := Notification{
		DecreeKind: domain.DecreeKindCorrection,
		DecreeID:   domain.DecreeID(uuid.New()),
		Action:     "correction_decree.created",
		Message:    "Decreto de corrección N.º 5 emitido",
		OccurredAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, dispatcher.Notify(ctx, parishID, sent))

	closeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	require.NoError(t, dispatcher.Close(closeCtx))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetchCtx, cancelFetch := context.WithTimeout(ctx, 15*time.Second)
	defer cancelFetch()
	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, parishID.String(), string(records[0].Key))

	var got Notification
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, sent.DecreeID, got.DecreeID)
	assert.Equal(t, sent.Action, got.Action)
	assert.True(t, sent.OccurredAt.Equal(got.OccurredAt))
}
