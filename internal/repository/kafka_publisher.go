package repository

import (
	"context"

	"FXCast/internal/domain/models"
	domrepo "FXCast/internal/domain/repository"
	pkgkafka "FXCast/pkg/kafka"
)

// KafkaPublisher emits predictions and bars to Kafka topics, keyed by
// symbol so consumers see per-symbol ordering.
type KafkaPublisher struct {
	producer         *pkgkafka.Producer
	predictionsTopic string
	barsTopic        string
}

// NewKafkaPublisher creates a Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, predictionsTopic, barsTopic string) *KafkaPublisher {
	return &KafkaPublisher{
		producer:         producer,
		predictionsTopic: predictionsTopic,
		barsTopic:        barsTopic,
	}
}

var _ domrepo.Publisher = (*KafkaPublisher)(nil)

func (p *KafkaPublisher) PublishPrediction(ctx context.Context, res *models.PredictionResult) error {
	return p.producer.Publish(ctx, p.predictionsTopic, []byte(res.Symbol), res)
}

func (p *KafkaPublisher) PublishBars(ctx context.Context, bars []models.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, 0, len(bars))
	for _, b := range bars {
		msgs = append(msgs, pkgkafka.Message{
			Key:   []byte(b.Symbol),
			Value: b,
		})
	}
	return p.producer.PublishBatch(ctx, p.barsTopic, msgs)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
