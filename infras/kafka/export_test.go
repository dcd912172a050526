package kafka

import kafkaGo "github.com/segmentio/kafka-go"

func (m Message) Encode(topic string) (kafkaGo.Message, error) {
	return m.encode(topic)
}
