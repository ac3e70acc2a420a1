package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/profilemap/internal/model"
)

// Extractor turns one snapshot into a result. Implementations never fail;
// a total failure is reported inside the result.
type Extractor interface {
	Extract(ctx context.Context, snap *model.Snapshot) *model.Result
}

// ExtractJob loads one snapshot file and extracts it
type ExtractJob struct {
	Index     int
	Path      string
	Extractor Extractor
	Load      func(path string) (*model.Snapshot, error)
}

// Execute executes the extraction job
func (j *ExtractJob) Execute(ctx context.Context) *BatchResult {
	snap, err := j.Load(j.Path)
	if err != nil {
		return &BatchResult{Index: j.Index, Path: j.Path, Error: fmt.Errorf("load snapshot: %w", err)}
	}
	return &BatchResult{Index: j.Index, Path: j.Path, Result: j.Extractor.Extract(ctx, snap)}
}

// BatchResult pairs an input path with its outcome. Error is set only when
// the snapshot could not be loaded.
type BatchResult struct {
	Index  int
	Path   string
	Result *model.Result
	Error  error
}

// GetError returns the load error
func (r *BatchResult) GetError() error {
	return r.Error
}

// BatchProcessor extracts many snapshot files concurrently
type BatchProcessor struct {
	extractor   Extractor
	concurrency int
	load        func(path string) (*model.Snapshot, error)
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(extractor Extractor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		extractor:   extractor,
		concurrency: concurrency,
		load:        model.LoadSnapshot,
	}
}

// ProcessPaths extracts every path and returns results in input order
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*BatchResult {
	if len(paths) == 0 {
		return []*BatchResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	// Submit from a separate goroutine so results can drain while jobs queue
	go func() {
		defer pool.Close()
		for i, path := range paths {
			job := &ExtractJob{Index: i, Path: path, Extractor: b.extractor, Load: b.load}
			if !pool.Submit(job) {
				return
			}
		}
	}()

	out := make([]*BatchResult, 0, len(paths))
	for r := range pool.Results() {
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// ProcessFile reads snapshot paths from a list file and processes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*BatchResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}
	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathsFromFile reads one snapshot path per line. Blank lines and
// '#' comments are skipped, duplicates dropped, and relative paths resolved
// against the list file's directory.
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	base := filepath.Dir(listPath)
	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
