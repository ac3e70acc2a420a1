package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/profilemap/internal/model"
)

// mockExtractor implements Extractor
type mockExtractor struct{}

func (m *mockExtractor) Extract(ctx context.Context, snap *model.Snapshot) *model.Result {
	time.Sleep(5 * time.Millisecond) // Simulate work
	return &model.Result{Source: snap.Domain(), URL: snap.URL, Method: model.MethodUnknown}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBatchProcessor_ProcessPaths_Order(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, host := range []string{"a.example.com", "www.flipkart.com", "x.com", "m.uber.com"} {
		paths = append(paths, writeFile(t, dir, host+".json", `{"url":"https://`+host+`/"}`))
	}

	processor := NewBatchProcessor(&mockExtractor{}, 3)
	results := processor.ProcessPaths(context.Background(), paths)

	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	want := []string{"example.com", "flipkart.com", "x.com", "uber.com"}
	for i, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Path, res.Error)
			continue
		}
		if res.Index != i || res.Path != paths[i] {
			t.Errorf("expected input order at %d, got index %d (%s)", i, res.Index, res.Path)
		}
		if res.Result.Source != want[i] {
			t.Errorf("expected source %s, got %s", want[i], res.Result.Source)
		}
	}
}

func TestBatchProcessor_LoadError(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.json", `{"html":"<p>no url</p>"}`)

	processor := NewBatchProcessor(&mockExtractor{}, 2)
	results := processor.ProcessPaths(context.Background(), []string{bad, filepath.Join(dir, "missing.json")})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, res := range results {
		if res.GetError() == nil {
			t.Errorf("expected load error for %s", res.Path)
		}
		if res.Result != nil {
			t.Error("expected nil result on load error")
		}
	}
}

func TestBatchProcessor_ProcessPaths_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockExtractor{}, 2)

	results := processor.ProcessPaths(context.Background(), []string{})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_Cancelled(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 20; i++ {
		paths = append(paths, writeFile(t, dir, string(rune('a'+i))+".json", `{"url":"https://example.com/"}`))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan []*BatchResult)
	go func() { done <- NewBatchProcessor(&mockExtractor{}, 2).ProcessPaths(ctx, paths) }()

	select {
	case results := <-done:
		if len(results) == len(paths) {
			t.Logf("all jobs completed before cancellation was observed")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ProcessPaths did not return after cancel")
	}
}

func TestReadPathsFromFile(t *testing.T) {
	dir := t.TempDir()
	list := writeFile(t, dir, "list.txt", "one.json\n# comment\n/abs/two.json\n   \n one.json \nsub/three.json")

	paths, err := ReadPathsFromFile(list)
	if err != nil {
		t.Fatalf("ReadPathsFromFile failed: %v", err)
	}

	expected := []string{
		filepath.Join(dir, "one.json"),
		"/abs/two.json",
		filepath.Join(dir, "sub", "three.json"),
	}
	if len(paths) != len(expected) {
		t.Fatalf("expected %d paths, got %d: %v", len(expected), len(paths), paths)
	}
	for i, p := range paths {
		if p != expected[i] {
			t.Errorf("expected %s at index %d, got %s", expected[i], i, p)
		}
	}
}

func TestReadPathsFromFile_NonExistent(t *testing.T) {
	_, err := ReadPathsFromFile("non_existent_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `{"url":"https://www.myntra.com/"}`)
	list := writeFile(t, dir, "list.txt", "a.json\n")

	results, err := NewBatchProcessor(&mockExtractor{}, 2).ProcessFile(context.Background(), list)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 1 || results[0].Result.Source != "myntra.com" {
		t.Errorf("unexpected results: %+v", results)
	}

	if _, err := NewBatchProcessor(&mockExtractor{}, 2).ProcessFile(context.Background(), filepath.Join(dir, "nope.txt")); err == nil {
		t.Error("expected error for missing list file")
	}
}

func TestBatchResult_GetError(t *testing.T) {
	expected := errors.New("load failed")
	r := &BatchResult{Path: "x.json", Error: expected}
	if r.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r.GetError())
	}
}
