package sink

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/profilemap/internal/model"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/bson"
)

func okResult(source, name string) *model.Result {
	rec := model.NewRecord()
	rec.Set(model.FieldFullName, name)
	rec.Set(model.FieldEmail, "a@example.com")
	return &model.Result{
		Source:    source,
		URL:       "https://" + source + "/",
		ScrapedAt: "2026-03-01T10:00:00.000Z",
		Method:    model.MethodSiteAdapter,
		Record:    rec,
	}
}

func TestFileSink_AppendsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")

	s, err := NewFileSink(path)
	if err != nil {
		t.Fatalf("NewFileSink failed: %v", err)
	}
	ctx := context.Background()
	if err := s.Write(ctx, okResult("flipkart.com", "Asha")); err != nil {
		t.Fatal(err)
	}
	if err := s.Write(ctx, &model.Result{Source: "x.com", Method: model.MethodFailed, Error: "no account data found"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Reopening appends
	s, _ = NewFileSink(path)
	_ = s.Write(ctx, okResult("myntra.com", "Meera"))
	_ = s.Close()

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var m map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &m); err != nil {
			t.Fatalf("Invalid JSON line %q: %v", scanner.Text(), err)
		}
		lines = append(lines, m)
	}

	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}
	if lines[0]["source"] != "flipkart.com" || lines[2]["source"] != "myntra.com" {
		t.Errorf("Unexpected order: %v", lines)
	}
	if lines[1]["method"] != "failed" {
		t.Errorf("Expected failed result kept, got %v", lines[1])
	}
	record, _ := lines[0]["record"].(map[string]any)
	if record["full_name"] != "Asha" {
		t.Errorf("Unexpected record: %v", record)
	}
}

func TestFileSink_RequiresPath(t *testing.T) {
	if _, err := NewFileSink(""); err == nil {
		t.Error("Expected error for empty path")
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, model.SinkConfig{Kind: "none"}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(Discard); !ok {
		t.Errorf("Expected Discard sink, got %T", s)
	}

	if _, err := New(ctx, model.SinkConfig{Kind: "smoke-signals"}, zerolog.Nop()); err == nil {
		t.Error("Expected error for unknown kind")
	}
	if _, err := New(ctx, model.SinkConfig{Kind: "kafka"}, zerolog.Nop()); err == nil {
		t.Error("Expected error for kafka without brokers")
	}
	if _, err := New(ctx, model.SinkConfig{Kind: "mongo"}, zerolog.Nop()); err == nil {
		t.Error("Expected error for mongo without settings")
	}
}

func TestMongoDocument(t *testing.T) {
	doc := document(okResult("flipkart.com", "Asha"))

	keys := make([]string, 0, len(doc))
	for _, e := range doc {
		keys = append(keys, e.Key)
	}
	want := []string{"source", "url", "scraped_at", "method", "record"}
	if len(keys) != len(want) {
		t.Fatalf("Expected keys %v, got %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Key %d: expected %s, got %s", i, want[i], keys[i])
		}
	}

	record, ok := doc[4].Value.(bson.D)
	if !ok || len(record) != 2 || record[0].Key != "full_name" || record[1].Key != "email" {
		t.Errorf("Expected record fields in declared order, got %v", doc[4].Value)
	}
}

type fakeWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaSink_KeyedByDomain(t *testing.T) {
	w := &fakeWriter{}
	s := &KafkaSink{writer: w}
	ctx := context.Background()

	if err := s.Write(ctx, okResult("swiggy.com", "Swiggy User")); err != nil {
		t.Fatal(err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(w.msgs))
	}
	if string(w.msgs[0].Key) != "swiggy.com" {
		t.Errorf("Expected key swiggy.com, got %s", w.msgs[0].Key)
	}

	var decoded model.Result
	if err := json.Unmarshal(w.msgs[0].Value, &decoded); err != nil {
		t.Fatalf("Invalid message value: %v", err)
	}
	if v, _ := decoded.Record.Get(model.FieldFullName); v != "Swiggy User" {
		t.Errorf("Unexpected decoded record: %v", v)
	}

	_ = s.Close()
	if !w.closed {
		t.Error("Expected writer closed")
	}
	if err := s.Write(ctx, okResult("swiggy.com", "Again")); err != ErrKafkaClosed {
		t.Errorf("Expected ErrKafkaClosed, got %v", err)
	}
}
