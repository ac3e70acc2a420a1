package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ppiankov/profilemap/internal/model"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// ErrKafkaClosed is returned by Write after Close
var ErrKafkaClosed = errors.New("kafka sink closed")

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes results as JSON keyed by source domain, so every
// result for a site lands on the same partition
type KafkaSink struct {
	writer messageWriter
	closed bool
}

// NewKafkaSink creates a synchronous writer for cfg.Topic
func NewKafkaSink(cfg model.KafkaSinkConfig, logger zerolog.Logger) (*KafkaSink, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka sink: at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka sink: topic cannot be empty")
	}

	errLog := logger.With().Str("component", "kafka").Logger()
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			errLog.Error().Msgf(msg, args...)
		}),
	}
	return &KafkaSink{writer: writer}, nil
}

// Write publishes one message
func (s *KafkaSink) Write(ctx context.Context, result *model.Result) error {
	if s.closed {
		return ErrKafkaClosed
	}

	value, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("kafka sink: marshal: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(result.Source),
		Value: value,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "method", Value: []byte(result.Method)},
		},
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka sink: publish: %w", err)
	}
	return nil
}

// Close flushes pending messages
func (s *KafkaSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.writer.Close()
}
