// Package sink delivers extraction results to a file, MongoDB or Kafka.
package sink

import (
	"context"
	"fmt"

	"github.com/ppiankov/profilemap/internal/model"
	"github.com/rs/zerolog"
)

// Sink receives extraction results
type Sink interface {
	Write(ctx context.Context, result *model.Result) error
	Close() error
}

// New creates the sink selected by cfg.Kind. Kind "none" yields a sink that
// discards everything.
func New(ctx context.Context, cfg model.SinkConfig, logger zerolog.Logger) (Sink, error) {
	switch cfg.Kind {
	case "", "none":
		return Discard{}, nil
	case "file":
		return NewFileSink(cfg.File.Path)
	case "mongo":
		return NewMongoSink(ctx, cfg.Mongo, logger)
	case "kafka":
		return NewKafkaSink(cfg.Kafka, logger)
	default:
		return nil, fmt.Errorf("unknown sink kind %q", cfg.Kind)
	}
}

// Discard drops every result
type Discard struct{}

func (Discard) Write(context.Context, *model.Result) error { return nil }
func (Discard) Close() error                              { return nil }
