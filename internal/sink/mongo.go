package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/profilemap/internal/model"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoConnectTimeout = 10 * time.Second

// MongoSink keeps the latest result per source domain
type MongoSink struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     zerolog.Logger
}

// NewMongoSink connects and pings the server before returning
func NewMongoSink(ctx context.Context, cfg model.MongoSinkConfig, logger zerolog.Logger) (*MongoSink, error) {
	if cfg.URI == "" || cfg.Database == "" || cfg.Collection == "" {
		return nil, fmt.Errorf("mongo sink: uri, database and collection are required")
	}

	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo sink: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo sink: ping: %w", err)
	}

	logger.Info().Str("database", cfg.Database).Str("collection", cfg.Collection).Msg("connected to MongoDB")
	return &MongoSink{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		logger:     logger,
	}, nil
}

// Write replaces the stored document for the result's source. Failed runs
// are not stored so they never replace earlier data.
func (s *MongoSink) Write(ctx context.Context, result *model.Result) error {
	if result.Failed() {
		s.logger.Debug().Str("source", result.Source).Msg("skipping failed result")
		return nil
	}

	filter := bson.D{{Key: "source", Value: result.Source}}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.collection.ReplaceOne(ctx, filter, document(result), opts); err != nil {
		return fmt.Errorf("mongo sink: replace %s: %w", result.Source, err)
	}
	return nil
}

// Close disconnects the client
func (s *MongoSink) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// document renders a result with record fields in declared order
func document(result *model.Result) bson.D {
	record := bson.D{}
	for _, f := range result.Record.Fields() {
		v, _ := result.Record.Get(f)
		record = append(record, bson.E{Key: string(f), Value: v})
	}

	doc := bson.D{
		{Key: "source", Value: result.Source},
		{Key: "url", Value: result.URL},
		{Key: "scraped_at", Value: result.ScrapedAt},
		{Key: "method", Value: string(result.Method)},
		{Key: "record", Value: record},
	}
	if result.Error != "" {
		doc = append(doc, bson.E{Key: "error", Value: result.Error})
	}
	return doc
}
