package usecase

import (
	"context"
	"encoding/json"
	"time"

	"TradeYodha/internal/domain/models"
	domrepo "TradeYodha/internal/domain/repository"
	pkgkafka "TradeYodha/pkg/kafka"
)

// KafkaSignalsHandler consumes fired signals from the alerts topic and
// writes them to signal history.
type KafkaSignalsHandler struct {
	topic   string
	history domrepo.SignalHistory
	metrics domrepo.Metrics
}

func NewKafkaSignalsHandler(topic string, history domrepo.SignalHistory, metrics domrepo.Metrics) *KafkaSignalsHandler {
	return &KafkaSignalsHandler{topic: topic, history: history, metrics: metrics}
}

func (h *KafkaSignalsHandler) Topic() string { return h.topic }

func (h *KafkaSignalsHandler) Handle(ctx context.Context, b []byte) error {
	var sig models.Signal
	if err := json.Unmarshal(b, &sig); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if sig.FiredAt.IsZero() {
		sig.FiredAt = time.Now()
	}

	// E2E latency from fire time to persistence (approx).
	h.metrics.RecordLatency("signal_e2e_seconds", time.Since(sig.FiredAt).Seconds())

	start := time.Now()
	err := h.history.Store(ctx, &sig)
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaSignalsHandler)(nil)
