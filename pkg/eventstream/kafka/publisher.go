// Package kafka provides an eventstream Publisher backed by Apache Kafka.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/sxpeea/sxpeea/pkg/eventstream"
)

const (
	// DefaultTopic is used when no topic is configured.
	DefaultTopic = "sxpeea.chat.streams"

	defaultBatchTimeout = 10 * time.Millisecond
)

// Config configures a Kafka publisher.
type Config struct {
	// Brokers is the list of bootstrap broker addresses ("host:port").
	Brokers []string

	// Topic is the destination topic. Defaults to DefaultTopic.
	Topic string
}

// messageWriter is the subset of *kafkago.Writer used by the publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher publishes chat stream events as JSON Kafka messages keyed by
// stream id.
type Publisher struct {
	writer messageWriter
}

// NewPublisher creates a Kafka publisher.
func NewPublisher(c Config) (*Publisher, error) {
	if len(c.Brokers) == 0 {
		return nil, errors.New("at least one kafka broker is required")
	}

	topic := c.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	return newPublisher(&kafkago.Writer{
		Addr:                   kafkago.TCP(c.Brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		BatchTimeout:           defaultBatchTimeout,
		AllowAutoTopicCreation: true,
	}), nil
}

func newPublisher(w messageWriter) *Publisher {
	return &Publisher{writer: w}
}

// PublishChatStream writes a single event message.
func (p *Publisher) PublishChatStream(ctx context.Context, event *eventstream.ChatStreamEvent) error {
	if event == nil {
		return eventstream.ErrNilStreamEvent
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling chat stream event: %w", err)
	}

	msg := kafkago.Message{
		Key:   []byte(event.StreamID),
		Value: payload,
		Time:  event.EmittedAt,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "schema_version", Value: []byte(strconv.Itoa(event.SchemaVersion))},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing chat stream event: %w", err)
	}

	return nil
}

// Close flushes pending messages and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
