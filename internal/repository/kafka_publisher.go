package repository

import (
	"context"
	"fmt"

	"TradeYodha/internal/domain/models"
	domrepo "TradeYodha/internal/domain/repository"
	pkgkafka "TradeYodha/pkg/kafka"
)

// KafkaAlertSink publishes fired signals to the alerts topic, keyed by
// ticker so per-ticker ordering is preserved across partitions.
type KafkaAlertSink struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaAlertSink creates a Kafka alert sink.
func NewKafkaAlertSink(producer *pkgkafka.Producer, topic string) domrepo.AlertSink {
	return &KafkaAlertSink{producer: producer, topic: topic}
}

func (p *KafkaAlertSink) Publish(ctx context.Context, sig *models.Signal) error {
	if sig == nil {
		return fmt.Errorf("signal is nil")
	}
	return p.producer.Publish(ctx, p.topic, []byte(sig.Ticker), sig)
}

func (p *KafkaAlertSink) PublishBatch(ctx context.Context, sigs []*models.Signal) error {
	if len(sigs) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, 0, len(sigs))
	for _, sig := range sigs {
		if sig == nil {
			continue
		}
		msgs = append(msgs, pkgkafka.Message{Key: []byte(sig.Ticker), Value: sig})
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaAlertSink) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
