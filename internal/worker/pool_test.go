package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/profilemap/internal/model"
)

// gatedExtractor tracks how many extractions overlap
type gatedExtractor struct {
	delay   time.Duration
	running atomic.Int32
	peak    atomic.Int32
	calls   atomic.Int32
	started chan struct{}
}

func (g *gatedExtractor) Extract(ctx context.Context, snap *model.Snapshot) *model.Result {
	g.calls.Add(1)
	now := g.running.Add(1)
	defer g.running.Add(-1)
	for {
		peak := g.peak.Load()
		if now <= peak || g.peak.CompareAndSwap(peak, now) {
			break
		}
	}
	if g.started != nil {
		select {
		case g.started <- struct{}{}:
		default:
		}
	}

	select {
	case <-time.After(g.delay):
	case <-ctx.Done():
		return &model.Result{Source: snap.Domain(), Method: model.MethodFailed, Error: ctx.Err().Error()}
	}
	return &model.Result{Source: snap.Domain(), URL: snap.URL, Method: model.MethodUnknown}
}

func memoryLoad(path string) (*model.Snapshot, error) {
	if path == "broken" {
		return nil, errors.New("unreadable")
	}
	return &model.Snapshot{URL: "https://" + path + "/"}, nil
}

func job(i int, host string, ex Extractor) *ExtractJob {
	return &ExtractJob{Index: i, Path: host, Extractor: ex, Load: memoryLoad}
}

func TestNewPool_Size(t *testing.T) {
	for _, tt := range []struct{ in, want int }{{5, 5}, {0, 1}, {-3, 1}} {
		if got := NewPool(context.Background(), tt.in).size; got != tt.want {
			t.Errorf("NewPool(%d): expected size %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestPool_RunsEveryJob(t *testing.T) {
	ex := &gatedExtractor{}
	pool := NewPool(context.Background(), 3)
	pool.Start()

	hosts := []string{"www.flipkart.com", "x.com", "m.uber.com", "www.myntra.com", "broken"}
	for i, h := range hosts {
		if !pool.Submit(job(i, h, ex)) {
			t.Fatalf("submit %s refused", h)
		}
	}

	results := pool.Drain()
	if len(results) != len(hosts) {
		t.Fatalf("expected %d results, got %d", len(hosts), len(results))
	}

	failed := 0
	for _, r := range results {
		if r.GetError() != nil {
			failed++
			if r.Path != "broken" || r.Result != nil {
				t.Errorf("unexpected load failure: %+v", r)
			}
		}
	}
	if failed != 1 {
		t.Errorf("expected 1 load failure, got %d", failed)
	}
	if got := ex.calls.Load(); got != 4 {
		t.Errorf("expected 4 extractions, got %d", got)
	}
}

func TestPool_BoundsConcurrency(t *testing.T) {
	const size = 4
	ex := &gatedExtractor{delay: 10 * time.Millisecond}
	pool := NewPool(context.Background(), size)
	pool.Start()

	go func() {
		defer pool.Close()
		for i := 0; i < 24; i++ {
			pool.Submit(job(i, "example.com", ex))
		}
	}()

	count := 0
	for range pool.Results() {
		count++
	}

	if count != 24 {
		t.Errorf("expected 24 results, got %d", count)
	}
	if peak := ex.peak.Load(); peak > size {
		t.Errorf("peak concurrency %d exceeded pool size %d", peak, size)
	}
}

func TestPool_ShutdownCancelsInFlight(t *testing.T) {
	ex := &gatedExtractor{delay: time.Second, started: make(chan struct{}, 1)}
	pool := NewPool(context.Background(), 1)
	pool.Start()
	pool.Submit(job(0, "example.com", ex))
	<-ex.started

	done := make(chan struct{})
	go func() {
		pool.Shutdown()
		for range pool.Results() {
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Shutdown did not interrupt the running extraction")
	}

	if pool.Submit(job(1, "example.com", ex)) {
		t.Error("expected Submit to be refused after Shutdown")
	}
}

func TestPool_ParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(ctx, 2)
	pool.Start()
	cancel()

	if pool.Submit(job(0, "example.com", &gatedExtractor{})) {
		t.Error("expected Submit to fail after the parent context is cancelled")
	}
	pool.Shutdown()
}
