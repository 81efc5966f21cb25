package mykafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	writeTimeout = 5 * time.Second
	batchTimeout = 10 * time.Millisecond
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes JSON events. The topic is chosen per call, so one
// Producer serves every topic. Safe for concurrent use.
type Producer struct {
	writer messageWriter
	now    func() time.Time
	newID  func() string
}

func NewProducer(brokers []string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           batchTimeout,
		WriteTimeout:           writeTimeout,
	}
	return newProducer(w), nil
}

func newProducer(w messageWriter) *Producer {
	return &Producer{
		writer: w,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// PublishEvent encodes event as a JSON object, stamps it with event_id and
// occurred_at, and writes it keyed by key.
func (p *Producer) PublishEvent(ctx context.Context, topic, key string, event any) error {
	data, err := p.envelope(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  p.now().UTC(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write to %s failed: %w", topic, err)
	}
	return nil
}

func (p *Producer) envelope(event any) ([]byte, error) {
	raw, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		// not an object
		fields = map[string]json.RawMessage{"payload": raw}
	}

	id, _ := json.Marshal(p.newID())
	at, _ := json.Marshal(p.now().UTC().Format(time.RFC3339Nano))
	fields["event_id"] = id
	fields["occurred_at"] = at
	return json.Marshal(fields)
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
