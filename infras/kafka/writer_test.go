package kafka

import (
	"testing"
	"time"
	"todoapi/config"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WriterFlushesSingleMessagesPromptly(t *testing.T) {
	cfg := &config.Config{}
	cfg.Kafka.Brokers = []string{"localhost:9092"}

	client, ok := New(cfg).(*kafkaClientImpl)
	require.True(t, ok)

	assert.Equal(t, 10*time.Millisecond, client.writer.BatchTimeout)
	assert.Equal(t, kafkaGo.RequireOne, client.writer.RequiredAcks)
	assert.False(t, client.writer.Async)
}
