package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/disaster-risk-service/internal/config"
	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/observability"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes risk assessments and disaster alerts. One producer serves
// both topics; each message names its own topic.
// It implements service.AssessmentPublisher and pipeline.AlertPublisher.
type Writer struct {
	writer          messageWriter
	assessmentTopic string
	alertTopic      string
	metrics         *observability.Metrics
	logger          *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topics.
func NewWriter(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Balancer:               &kafkago.LeastBytes{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newWriter(w, cfg.KafkaAssessmentTopic, cfg.KafkaAlertTopic, metrics, logger)
}

func newWriter(w messageWriter, assessmentTopic, alertTopic string, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	return &Writer{
		writer:          w,
		assessmentTopic: assessmentTopic,
		alertTopic:      alertTopic,
		metrics:         metrics,
		logger:          logger,
	}
}

// PublishAssessment writes one assessment keyed by a fresh UUID.
func (w *Writer) PublishAssessment(ctx context.Context, a domain.Assessment) error {
	msg, err := serializeAssessment(a, uuid.NewString())
	if err != nil {
		return err
	}
	msg.Topic = w.assessmentTopic
	return w.write(ctx, w.assessmentTopic, msg)
}

// PublishAlerts writes the alerts in a single WriteMessages call, keyed by
// alert ID so updates to one event land on the same partition.
func (w *Writer) PublishAlerts(ctx context.Context, alerts []domain.DisasterAlert) error {
	if len(alerts) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(alerts))
	for i := range alerts {
		msg, err := serializeAlert(alerts[i], domain.Now())
		if err != nil {
			return err
		}
		msg.Topic = w.alertTopic
		msgs[i] = msg
	}
	return w.write(ctx, w.alertTopic, msgs...)
}

func (w *Writer) write(ctx context.Context, topic string, msgs ...kafkago.Message) error {
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		w.metrics.PublishErrors.WithLabelValues(topic).Inc()
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	w.metrics.MessagesPublished.WithLabelValues(topic).Add(float64(len(msgs)))
	w.logger.Debug("published messages", "topic", topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeAssessment marshals an Assessment into a Kafka message.
func serializeAssessment(a domain.Assessment, key string) (kafkago.Message, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize assessment: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "risk_level", Value: []byte(a.Level)},
			{Key: "assessed_at", Value: []byte(a.AssessedAt.Format(time.RFC3339))},
		},
	}, nil
}

// serializeAlert marshals a DisasterAlert into a Kafka message.
func serializeAlert(a domain.DisasterAlert, publishedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert %s: %w", a.ID, err)
	}
	return kafkago.Message{
		Key:   []byte(a.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(a.Type)},
			{Key: "severity", Value: []byte(a.Severity)},
			{Key: "published_at", Value: []byte(publishedAt.Format(time.RFC3339))},
		},
	}, nil
}
