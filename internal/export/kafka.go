package export

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/vignesh3030-hub/cyber-omega/internal/types"
)

// KafkaSink publishes alerts as JSON messages to a Kafka topic, keyed by the
// identity id so per-identity alerts stay ordered within a partition.
type KafkaSink struct {
	writer *kafka.Writer
	log    *logrus.Logger
}

// KafkaConfig for the alert sink.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// NewKafkaSink creates a Kafka-backed alert sink.
func NewKafkaSink(cfg KafkaConfig, log *logrus.Logger) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			RequiredAcks: kafka.RequireAll,
			Balancer:     &kafka.LeastBytes{},
		},
		log: log,
	}
}

// Send publishes one alert.
func (k *KafkaSink) Send(ctx context.Context, alert *types.Alert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(alert.UserID),
		Value: data,
		Time:  time.Now(),
	})
	if err == nil {
		k.log.WithFields(logrus.Fields{"alert_id": alert.ID, "topic": k.writer.Topic}).Debug("Alert exported")
	}
	return err
}

// Close flushes and closes the underlying writer.
func (k *KafkaSink) Close() error {
	return k.writer.Close()
}
