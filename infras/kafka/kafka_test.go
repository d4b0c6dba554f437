package kafka_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"todoapi/infras/kafka"
	"todoapi/infras/kafka/mocks"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type createdEvent struct {
	ID string `json:"id"`
}

func TestDecode(t *testing.T) {
	event, err := kafka.Decode[createdEvent](kafkaGo.Message{Value: []byte(`{"id":"abc"}`)})
	require.NoError(t, err)
	assert.Equal(t, "abc", event.ID)

	_, err = kafka.Decode[createdEvent](kafkaGo.Message{Value: []byte(`not json`)})
	require.Error(t, err)
	assert.ErrorIs(t, err, kafka.ErrUnprocessable)
}

func TestMessage_ToKafkaMessage(t *testing.T) {
	msg := kafka.Message{Key: "abc", Value: createdEvent{ID: "abc"}}

	out, err := msg.ToKafkaMessage("todo")
	require.NoError(t, err)
	assert.Equal(t, "todo", out.Topic)
	assert.Equal(t, []byte("abc"), out.Key)
	assert.JSONEq(t, `{"id":"abc"}`, string(out.Value))
}

func TestConsumer_Run(t *testing.T) {
	first := kafkaGo.Message{Key: []byte("1"), Offset: 1}
	second := kafkaGo.Message{Key: []byte("2"), Offset: 2}

	t.Run("commits each message after it is handled", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		reader := mocks.NewMockMessageReader(ctrl)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		gomock.InOrder(
			reader.EXPECT().FetchMessage(gomock.Any()).Return(first, nil),
			reader.EXPECT().CommitMessages(gomock.Any(), first).Return(nil),
			reader.EXPECT().FetchMessage(gomock.Any()).Return(second, nil),
			reader.EXPECT().CommitMessages(gomock.Any(), second).Return(nil),
			reader.EXPECT().FetchMessage(gomock.Any()).DoAndReturn(func(context.Context) (kafkaGo.Message, error) {
				cancel()

				return kafkaGo.Message{}, context.Canceled
			}),
			reader.EXPECT().Close().Return(nil),
		)

		handled := []string{}
		consumer := &kafka.Consumer{Reader: reader, MaxAttempts: 3}

		err := consumer.Run(ctx, func(_ context.Context, msg kafkaGo.Message) error {
			handled = append(handled, string(msg.Key))

			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2"}, handled)
	})

	t.Run("retries a failing message before committing it", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		reader := mocks.NewMockMessageReader(ctrl)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		gomock.InOrder(
			reader.EXPECT().FetchMessage(gomock.Any()).Return(first, nil),
			reader.EXPECT().CommitMessages(gomock.Any(), first).Return(nil),
			reader.EXPECT().FetchMessage(gomock.Any()).DoAndReturn(func(context.Context) (kafkaGo.Message, error) {
				cancel()

				return kafkaGo.Message{}, context.Canceled
			}),
			reader.EXPECT().Close().Return(nil),
		)

		attempts := 0
		consumer := &kafka.Consumer{Reader: reader, MaxAttempts: 3}

		err := consumer.Run(ctx, func(context.Context, kafkaGo.Message) error {
			attempts++
			if attempts < 3 {
				return errors.New("blob store unavailable")
			}

			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("does not retry unprocessable messages", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		reader := mocks.NewMockMessageReader(ctrl)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		gomock.InOrder(
			reader.EXPECT().FetchMessage(gomock.Any()).Return(first, nil),
			reader.EXPECT().CommitMessages(gomock.Any(), first).Return(nil),
			reader.EXPECT().FetchMessage(gomock.Any()).DoAndReturn(func(context.Context) (kafkaGo.Message, error) {
				cancel()

				return kafkaGo.Message{}, context.Canceled
			}),
			reader.EXPECT().Close().Return(nil),
		)

		attempts := 0
		consumer := &kafka.Consumer{Reader: reader, MaxAttempts: 5}

		err := consumer.Run(ctx, func(context.Context, kafkaGo.Message) error {
			attempts++

			return fmt.Errorf("decode: %w", kafka.ErrUnprocessable)
		})

		require.NoError(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("returns fetch errors", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		reader := mocks.NewMockMessageReader(ctrl)

		reader.EXPECT().FetchMessage(gomock.Any()).Return(kafkaGo.Message{}, errors.New("broker down"))
		reader.EXPECT().Close().Return(nil)

		consumer := &kafka.Consumer{Reader: reader}

		err := consumer.Run(context.Background(), func(context.Context, kafkaGo.Message) error { return nil })
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broker down")
	})
}
