package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"chancery/pkg/domain"
)

// KafkaDispatcher publishes notifications to a Kafka topic keyed by parish,
// so per-parish ordering is preserved across partitions. Produce is async;
// delivery failures are logged, matching the fire-and-forget contract.
type KafkaDispatcher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

func NewKafkaDispatcher(seeds []string, topic string, logger *slog.Logger) (*KafkaDispatcher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(seeds...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaDispatcher{client: client, topic: topic, logger: logger}, nil
}

func (d *KafkaDispatcher) Notify(ctx context.Context, parishID domain.ParishID, n Notification) error {
	value, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	record := &kgo.Record{
		Topic: d.topic,
		Key:   []byte(parishID.String()),
		Value: value,
	}
	d.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			d.logger.Error("decree notification delivery failed",
				"parish_id", parishID,
				"decree_id", n.DecreeID,
				"action", n.Action,
				"error", err,
			)
		}
	})
	return nil
}

// Close drains buffered records before releasing the client.
func (d *KafkaDispatcher) Close(ctx context.Context) error {
	if err := d.client.Flush(ctx); err != nil {
		return fmt.Errorf("flush kafka producer: %w", err)
	}
	d.client.Close()
	return nil
}
