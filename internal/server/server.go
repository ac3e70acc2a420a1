// Package server exposes extraction and schema mapping over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/ppiankov/profilemap/internal/model"
	"github.com/ppiankov/profilemap/internal/pipeline"
	"github.com/ppiankov/profilemap/internal/sink"
	"github.com/rs/zerolog"
)

const (
	maxRequestBytes = 8 << 20
	shutdownTimeout = 10 * time.Second
)

// Server serves the v1 API
type Server struct {
	pipeline *pipeline.Pipeline
	sink     sink.Sink
	config   model.ServerConfig
	logger   zerolog.Logger
}

// NewServer creates a server. A nil sink discards results.
func NewServer(p *pipeline.Pipeline, s sink.Sink, cfg model.ServerConfig, logger zerolog.Logger) *Server {
	if s == nil {
		s = sink.Discard{}
	}
	return &Server{
		pipeline: p,
		sink:     s,
		config:   cfg,
		logger:   logger.With().Str("component", "server").Logger(),
	}
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	router := httprouter.New()
	router.GET("/healthz", s.health)
	router.GET("/v1/fields", s.fields)
	router.POST("/v1/extract", s.extract)
	router.POST("/v1/map", s.mapBag)

	// Recovery -> Logging -> MaxSize -> Timeout -> Router
	var h http.Handler = router
	h = RequestTimeout(s.config.RequestTimeout)(h)
	h = MaxRequestSize(maxRequestBytes)(h)
	h = RequestLogging(s.logger)(h)
	h = Recovery(s.logger)(h)
	return h
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", srv.Addr).Msg("starting HTTP server")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		s.logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	_ = WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// FieldInfo describes one canonical field
type FieldInfo struct {
	Name     string   `json:"name"`
	Kind     string   `json:"kind"`
	Bonus    int      `json:"bonus,omitempty"`
	Synonyms []string `json:"synonyms"`
}

func (s *Server) fields(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	entries := s.pipeline.Projector().Table().Entries()
	out := make([]FieldInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, FieldInfo{
			Name:     string(e.Field),
			Kind:     string(e.Kind),
			Bonus:    e.Bonus,
			Synonyms: e.Synonyms,
		})
	}
	_ = WriteJSON(w, http.StatusOK, out)
}

func (s *Server) extract(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteError(w, InvalidInput("unreadable request body", err))
		return
	}
	snap, err := model.DecodeSnapshot(body)
	if err != nil {
		WriteError(w, InvalidInput(err.Error(), err))
		return
	}

	result := s.pipeline.Extract(r.Context(), snap)
	if err := s.sink.Write(r.Context(), result); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("source", result.Source).Msg("sink write failed")
	}
	_ = WriteJSON(w, http.StatusOK, result)
}

func (s *Server) mapBag(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	deep := true
	switch query.Get("mode") {
	case "", "deep":
	case "shallow":
		deep = false
	default:
		WriteError(w, InvalidInput("mode must be shallow or deep", nil))
		return
	}

	depth := 0
	if raw := query.Get("depth"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 10 {
			WriteError(w, InvalidInput("depth must be between 1 and 10", err))
			return
		}
		depth = n
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteError(w, InvalidInput("unreadable request body", err))
		return
	}
	parsed, err := model.ParseJSON(body)
	if err != nil {
		WriteError(w, InvalidInput("invalid JSON", err))
		return
	}
	bag, ok := parsed.(*model.Bag)
	if !ok {
		WriteError(w, InvalidInput("body must be a JSON object", nil))
		return
	}

	_ = WriteJSON(w, http.StatusOK, s.pipeline.Map(bag, deep, depth))
}
