package notifier

import (
	"context"
	"fmt"
	"staybook/infras/kafka"
)

const headerKind = "type"

type kafkaNotifier struct {
	client kafka.Client
	topic  string
}

// NewKafka publishes each notification as JSON keyed by booking id, so one booking's
// notifications stay ordered within a partition.
func NewKafka(client kafka.Client, topic string) Notifier {
	return &kafkaNotifier{
		client: client,
		topic:  topic,
	}
}

func (k *kafkaNotifier) Notify(ctx context.Context, n Notification) error {
	err := k.client.SendMessages(ctx, k.topic, kafka.Message{
		Key:     n.BookingID,
		Value:   n,
		Headers: map[string]string{headerKind: string(n.Kind)},
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s notification: %w", n.Kind, err)
	}

	return nil
}
