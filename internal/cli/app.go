package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ppiankov/profilemap/internal/cache"
	"github.com/ppiankov/profilemap/internal/extract"
	"github.com/ppiankov/profilemap/internal/fetch"
	"github.com/ppiankov/profilemap/internal/model"
	"github.com/ppiankov/profilemap/internal/pipeline"
	"github.com/ppiankov/profilemap/internal/schema"
	"github.com/ppiankov/profilemap/internal/sink"
	"github.com/rs/zerolog"
)

// Shared by every command that extracts
var (
	outPath       string
	sinkKind      string
	enableNetwork bool
)

// app is everything a command needs to extract and deliver results
type app struct {
	config   *model.Config
	logger   zerolog.Logger
	client   *fetch.Client
	pipeline *pipeline.Pipeline
	sink     sink.Sink
}

// newApp loads configuration, applies the shared flags and wires the
// pipeline, fetch client and sink. The caller must call close.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if enableNetwork {
		cfg.Network.Enabled = true
	}
	if sinkKind != "" {
		cfg.Sink.Kind = sinkKind
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	table, err := schema.Load(cfg.Mapping.FieldsFile)
	if err != nil {
		return nil, err
	}

	client := fetch.NewClient(cfg, cache.New(cfg.Cache), logger)
	open := func(origin, cookieHeader string) (extract.Requester, error) {
		s, err := client.Session(origin, cookieHeader)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	out, err := sink.New(ctx, cfg.Sink, logger)
	if err != nil {
		return nil, err
	}

	if cfg.Network.Enabled {
		logger.Warn().Bool("respect_robots", cfg.Network.RespectRobots).Msg("credentialed endpoint requests enabled")
	}

	return &app{
		config: cfg,
		logger: logger,
		client: client,
		pipeline: pipeline.NewPipeline(cfg,
			pipeline.WithTable(table),
			pipeline.WithNetwork(open),
			pipeline.WithLogger(logger),
		),
		sink: out,
	}, nil
}

// deliver writes result to the sink, logging rather than failing
func (r *app) deliver(ctx context.Context, result *model.Result) {
	if err := r.sink.Write(ctx, result); err != nil {
		r.logger.Error().Err(err).Str("source", result.Source).Msg("sink write failed")
	}
}

func (r *app) close() {
	if err := r.sink.Close(); err != nil {
		r.logger.Error().Err(err).Msg("close sink")
	}
}

// writeJSON writes v as indented JSON to path, or stdout when path is empty
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// errExtractionFailed makes the process exit non-zero after output was written
var errExtractionFailed = errors.New("extraction failed")
