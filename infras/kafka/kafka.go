package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"staybook/config"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const defaultBatchTimeout = 50 * time.Millisecond

// Message is published as JSON. Headers travel as kafka record headers.
type Message struct {
	Key     string
	Value   any
	Headers map[string]string
}

func (m Message) encode(topic string) (kafkaGo.Message, error) {
	value, err := json.Marshal(m.Value)
	if err != nil {
		return kafkaGo.Message{}, fmt.Errorf("failed to encode message %s: %w", m.Key, err)
	}

	headers := make([]kafkaGo.Header, 0, len(m.Headers))
	for key, val := range m.Headers {
		headers = append(headers, kafkaGo.Header{Key: key, Value: []byte(val)})
	}

	return kafkaGo.Message{
		Topic:   topic,
		Key:     []byte(m.Key),
		Value:   value,
		Headers: headers,
	}, nil
}

type Client interface {
	SendMessages(ctx context.Context, topic string, messages ...Message) (err error)
	Close() error
}

type client struct {
	writer *kafkaGo.Writer
}

// New returns a producer shared by every topic. Writes wait for all in-sync replicas.
func New(cfg *config.Config) Client {
	transport := &kafkaGo.Transport{}

	if cfg.Kafka.SASL.Username != "" {
		transport.SASL = plain.Mechanism{
			Username: cfg.Kafka.SASL.Username,
			Password: cfg.Kafka.SASL.Password,
		}
	}

	log.Info().Strs("brokers", cfg.Kafka.Brokers).Msg("Kafka producer initialized")

	return &client{
		writer: &kafkaGo.Writer{
			Addr:                   kafkaGo.TCP(cfg.Kafka.Brokers...),
			Transport:              transport,
			Balancer:               &kafkaGo.Hash{},
			RequiredAcks:           kafkaGo.RequireAll,
			BatchTimeout:           defaultBatchTimeout,
			AllowAutoTopicCreation: true,
		},
	}
}

// SendMessages blocks until the batch is acknowledged.
func (c *client) SendMessages(ctx context.Context, topic string, messages ...Message) error {
	records := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		record, err := message.encode(topic)
		if err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("Failed to encode Kafka message")

			return err
		}

		records = append(records, record)
	}

	if err := c.writer.WriteMessages(ctx, records...); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to publish to Kafka")

		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}

	log.Debug().Str("topic", topic).Int("count", len(records)).Msg("Published to Kafka")

	return nil
}

func (c *client) Close() error {
	if err := c.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}

	return nil
}
