package otel_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"
	"todoapi/infras/otel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type partition int

func (p partition) String() string { return "partition-" + strconv.Itoa(int(p)) }

func TestAttribute(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  attribute.Value
	}{
		{name: "string", value: "todo", want: attribute.StringValue("todo")},
		{name: "bytes", value: []byte("key"), want: attribute.StringValue("key")},
		{name: "bool", value: true, want: attribute.BoolValue(true)},
		{name: "int", value: 3, want: attribute.IntValue(3)},
		{name: "int64 offset", value: int64(1 << 40), want: attribute.Int64Value(1 << 40)},
		{name: "float64", value: 0.5, want: attribute.Float64Value(0.5)},
		{name: "duration", value: 1500 * time.Millisecond, want: attribute.Int64Value(1500)},
		{name: "string slice", value: []string{"a", "b"}, want: attribute.StringSliceValue([]string{"a", "b"})},
		{name: "int slice", value: []int{1, 2}, want: attribute.IntSliceValue([]int{1, 2})},
		{name: "error", value: errors.New("boom"), want: attribute.StringValue("boom")},
		{name: "stringer", value: partition(2), want: attribute.StringValue("partition-2")},
		{name: "fallback", value: struct{ N int }{N: 7}, want: attribute.StringValue("{7}")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := otel.Attribute("k", tt.value)

			assert.Equal(t, attribute.Key("k"), kv.Key)
			assert.Equal(t, tt.want, kv.Value)
		})
	}
}

func TestScope_RecordsOnSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("test").Start(context.Background(), "ArchiveCreated")
	scope := otel.NewScope(span)

	scope.SetAttributes(map[string]any{
		"messaging.kafka.topic":  "todo",
		"messaging.kafka.offset": int64(42),
	})
	scope.AddEvent("archived")
	scope.TraceIfError(nil)
	scope.TraceIfError(errors.New("upload failed"))
	scope.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)

	attrs := attribute.NewSet(ended[0].Attributes()...)

	offset, ok := attrs.Value("messaging.kafka.offset")
	require.True(t, ok)
	assert.Equal(t, attribute.INT64, offset.Type())
	assert.Equal(t, int64(42), offset.AsInt64())

	topic, ok := attrs.Value("messaging.kafka.topic")
	require.True(t, ok)
	assert.Equal(t, "todo", topic.AsString())

	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "upload failed", ended[0].Status().Description)

	events := []string{}
	for _, event := range ended[0].Events() {
		events = append(events, event.Name)
	}

	assert.Equal(t, []string{"archived", "exception"}, events)
}
