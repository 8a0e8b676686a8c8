package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/IBM/sarama"
)

// KafkaNotifier publishes notifications as JSON, keyed by recipient id so
// that messages for one rider stay ordered within a partition.
type KafkaNotifier struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaNotifier connects a sync producer. It returns (nil, nil) when Kafka
// is not configured.
func NewKafkaNotifier(brokers []string, topic string) (*KafkaNotifier, error) {
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" {
		return nil, nil
	}

	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Retry.Max = 0

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return NewKafkaNotifierWithProducer(producer, topic), nil
}

// NewKafkaNotifierWithProducer wraps an existing producer.
func NewKafkaNotifierWithProducer(producer sarama.SyncProducer, topic string) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, topic: topic}
}

// Notify implements Notifier.
func (k *KafkaNotifier) Notify(_ context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(n.Target()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("type"), Value: []byte(n.Kind)},
		},
	}
	if _, _, err := k.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("publish %s: %w", n.Kind, err)
	}
	return nil
}

// Close closes the producer.
func (k *KafkaNotifier) Close() error {
	if k == nil {
		return nil
	}
	return k.producer.Close()
}
