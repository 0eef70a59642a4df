package notifier

import (
	"context"
	"encoding/json"
	"time"

	"codeberg.org/mutker/sysalert/internal/alert"
	"codeberg.org/mutker/sysalert/internal/errors"
	"github.com/segmentio/kafka-go"
)

const defaultKafkaTimeout = 5 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes each notification as a JSON message keyed by alert type.
type Kafka struct {
	writer  messageWriter
	timeout time.Duration
}

var _ alert.Observer = (*Kafka)(nil)

func NewKafka(brokers []string, topic string) (*Kafka, error) {
	errFactory := errors.New()

	if len(brokers) == 0 {
		return nil, errFactory.New(ErrNoBrokers)
	}
	if topic == "" {
		return nil, errFactory.WithMessage(errors.ErrInvalidArgument, "kafka topic is required")
	}

	return &Kafka{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: defaultKafkaTimeout,
			MaxAttempts:  3,
		},
		timeout: defaultKafkaTimeout,
	}, nil
}

func (k *Kafka) OnAlert(n alert.Notification) error {
	errFactory := errors.New()

	data, err := json.Marshal(n)
	if err != nil {
		return errFactory.Wrap(ErrEncodeFailed, err)
	}

	msg := kafka.Message{
		Key:   []byte(n.Type.String()),
		Value: data,
		Headers: []kafka.Header{
			{Key: "id", Value: []byte(n.ID)},
			{Key: "severity", Value: []byte(n.Severity.String())},
		},
		Time: n.Timestamp,
	}

	ctx, cancel := context.WithTimeout(context.Background(), k.timeout)
	defer cancel()

	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return errFactory.Wrap(ErrPublishFailed, err)
	}

	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
