package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"stayhub/internal/usecase/commands"

	"github.com/IBM/sarama"
)

// KafkaNotifier publishes reservation transition events. Delivery is
// fire-and-forget: publish failures are logged and never surfaced, so a
// broker outage cannot roll back or fail a reservation transition.
type KafkaNotifier struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaNotifier(brokers []string, topic string, cfg *sarama.Config) (*KafkaNotifier, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	cfg.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return &KafkaNotifier{producer: producer, topic: topic}, nil
}

func (n *KafkaNotifier) NotifyTransition(_ context.Context, event commands.TransitionEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to encode transition event", "reservation_id", event.ReservationID, "error", err)
		return
	}
	msg := &sarama.ProducerMessage{
		Topic: n.topic,
		// Key by reservation so per-reservation event order is preserved.
		Key:   sarama.StringEncoder(event.ReservationID.String()),
		Value: sarama.ByteEncoder(payload),
	}
	if _, _, err := n.producer.SendMessage(msg); err != nil {
		slog.Warn("failed to publish transition event",
			"reservation_id", event.ReservationID, "status", event.Status, "error", err)
	}
}

func (n *KafkaNotifier) Close() error {
	if n.producer == nil {
		return nil
	}
	return n.producer.Close()
}

// NopNotifier is used when the broker is disabled (local dev, tests).
type NopNotifier struct{}

func (NopNotifier) NotifyTransition(context.Context, commands.TransitionEvent) {}

var (
	_ commands.TransitionNotifier = (*KafkaNotifier)(nil)
	_ commands.TransitionNotifier = NopNotifier{}
)
