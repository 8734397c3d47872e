package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafka.Writer the publisher needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher keeps one writer per topic
type KafkaPublisher struct {
	brokers []string

	mu        sync.Mutex
	writers   map[string]messageWriter
	newWriter func(topic string) messageWriter
}

func NewKafkaPublisher(brokers []string) *KafkaPublisher {
	p := &KafkaPublisher{brokers: brokers, writers: make(map[string]messageWriter)}
	p.newWriter = p.kafkaWriter
	return p
}

func (p *KafkaPublisher) kafkaWriter(topic string) messageWriter {
	return &kafka.Writer{
		Addr:                   kafka.TCP(p.brokers...),
		Topic:                  topic,
		Balancer:               &kafka.CRC32Balancer{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
	}
}

func (p *KafkaPublisher) writer(topic string) messageWriter {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, ok := p.writers[topic]
	if !ok {
		w = p.newWriter(topic)
		p.writers[topic] = w
	}
	return w
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic string, e Event) error {
	value, err := e.encode()
	if err != nil {
		return err
	}
	return p.writer(topic).WriteMessages(ctx, kafka.Message{Key: e.key(), Value: value})
}

func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var errs []error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(p.writers, topic)
	}
	return errors.Join(errs...)
}
