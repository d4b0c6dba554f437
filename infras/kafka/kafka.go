package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"todoapi/config"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const (
	defaultMaxAttempts  = 5
	defaultRetryWait    = time.Second
	defaultBatchTimeout = 10 * time.Millisecond
)

// ErrUnprocessable marks a message that can never be handled. It is committed without retrying.
var ErrUnprocessable = errors.New("unprocessable message")

type Message struct {
	Key   string
	Value any
}

func (m *Message) ToKafkaMessage(topic string) (kafkaGo.Message, error) {
	jsonValue, err := json.Marshal(m.Value)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal message value to JSON")

		return kafkaGo.Message{}, fmt.Errorf("failed to marshal message value to JSON: %w", err)
	}

	return kafkaGo.Message{
		Topic: topic,
		Key:   []byte(m.Key),
		Value: jsonValue,
	}, nil
}

// Decode unmarshals the JSON value of msg. A malformed value is ErrUnprocessable.
func Decode[T any](msg kafkaGo.Message) (T, error) {
	var value T

	if err := json.Unmarshal(msg.Value, &value); err != nil {
		return value, fmt.Errorf("%w: failed to unmarshal Kafka message value from JSON: %w", ErrUnprocessable, err)
	}

	return value, nil
}

// Handler processes one message. Returning nil commits it.
type Handler func(ctx context.Context, message kafkaGo.Message) error

type Client interface {
	SendMessages(ctx context.Context, topic string, messages ...Message) (err error)
	Consume(ctx context.Context, consumerGroup, topic string, handler Handler) error
	Close() error
}

// MessageReader is the consumer-group side of kafka-go's Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkaGo.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkaGo.Message) error
	Close() error
}

type kafkaClientImpl struct {
	config *config.Config
	dialer *kafkaGo.Dialer
	writer *kafkaGo.Writer
}

func New(config *config.Config) Client {
	mechanism := plain.Mechanism{
		Username: config.Kafka.SASL.Username,
		Password: config.Kafka.SASL.Password,
	}

	dialer := &kafkaGo.Dialer{
		DualStack:     true,
		SASLMechanism: mechanism,
	}

	writer := &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(config.Kafka.Brokers...),
		Transport:              &kafkaGo.Transport{SASL: mechanism},
		Balancer:               &kafkaGo.Hash{},
		BatchTimeout:           defaultBatchTimeout,
		RequiredAcks:           kafkaGo.RequireOne,
		AllowAutoTopicCreation: true,
	}

	log.Info().Strs("brokers", config.Kafka.Brokers).Msg("Kafka client initialized")

	return &kafkaClientImpl{
		config: config,
		dialer: dialer,
		writer: writer,
	}
}

func (k *kafkaClientImpl) reader(consumerGroup, topic string) *kafkaGo.Reader {
	groupID := k.config.Kafka.ConsumerGroup
	if consumerGroup != "" {
		groupID = consumerGroup
	}

	return kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:     k.config.Kafka.Brokers,
		Topic:       topic,
		GroupID:     groupID,
		Dialer:      k.dialer,
		StartOffset: kafkaGo.FirstOffset,
	})
}

func (k *kafkaClientImpl) SendMessages(ctx context.Context, topic string, messages ...Message) error {
	msgs := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		msg, err := message.ToKafkaMessage(topic)
		if err != nil {
			return err
		}

		msgs = append(msgs, msg)
	}

	if err := k.writer.WriteMessages(ctx, msgs...); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to send message to Kafka.")

		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	log.Debug().Str("topic", topic).Int("count", len(msgs)).Msg("Sent message successfully.")

	return nil
}

func (k *kafkaClientImpl) Consume(ctx context.Context, consumerGroup, topic string, handler Handler) error {
	if topic == "" {
		return errors.New("topic name cannot be empty when creating Kafka reader")
	}

	consumer := &Consumer{
		Reader:      k.reader(consumerGroup, topic),
		MaxAttempts: defaultMaxAttempts,
		RetryWait:   defaultRetryWait,
	}

	return consumer.Run(ctx, handler)
}

func (k *kafkaClientImpl) Close() error {
	return k.writer.Close() //nolint:wrapcheck
}

// Consumer delivers messages one at a time and commits each after it is handled.
// A failing message is retried up to MaxAttempts times and then committed as dead.
type Consumer struct {
	Reader      MessageReader
	MaxAttempts int
	RetryWait   time.Duration
}

// Run blocks until ctx is cancelled or the reader fails. The reader is closed on return.
func (c *Consumer) Run(ctx context.Context, handler Handler) error {
	defer func() {
		if err := c.Reader.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Kafka reader.")
		}
	}()

	for {
		msg, err := c.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("Consumer context done.")

				return nil
			}

			return fmt.Errorf("failed to fetch message from Kafka: %w", err)
		}

		log.Debug().Str("topic", msg.Topic).Str("key", string(msg.Key)).Int64("offset", msg.Offset).Msg("Received message from Kafka.")

		if err = c.handle(ctx, msg, handler); err != nil {
			if ctx.Err() != nil {
				return nil
			}

			log.Error().
				Err(err).
				Str("topic", msg.Topic).
				Str("key", string(msg.Key)).
				Int64("offset", msg.Offset).
				Msg("Dropping Kafka message.")
		}

		if err = c.Reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}

			return fmt.Errorf("failed to commit Kafka message: %w", err)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafkaGo.Message, handler Handler) error {
	attempts := max(c.MaxAttempts, 1)

	for attempt := 1; ; attempt++ {
		err := handler(ctx, msg)
		if err == nil || errors.Is(err, ErrUnprocessable) || attempt == attempts {
			return err
		}

		log.Warn().Err(err).Int("attempt", attempt).Str("key", string(msg.Key)).Msg("Kafka message handler failed.")

		select {
		case <-ctx.Done():
			return ctx.Err() //nolint:wrapcheck
		case <-time.After(c.RetryWait):
		}
	}
}
