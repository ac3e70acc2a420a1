package worker

import (
	"context"
	"sync"
)

// Job is one queued extraction
type Job interface {
	Execute(ctx context.Context) *BatchResult
}

// Pool runs jobs on a fixed number of goroutines and streams their results.
// Cancelling the parent context stops every worker after its current job.
type Pool struct {
	size    int
	queue   chan Job
	results chan *BatchResult

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// NewPool creates a pool bound to ctx. Sizes below one run a single worker.
func NewPool(ctx context.Context, size int) *Pool {
	if size < 1 {
		size = 1
	}
	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		size:    size,
		queue:   make(chan Job, size*2),
		results: make(chan *BatchResult, size*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers
func (p *Pool) Start() {
	p.wg.Add(p.size)
	for range p.size {
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.wg.Done()

	for {
		var job Job
		select {
		case <-p.ctx.Done():
			return
		case next, ok := <-p.queue:
			if !ok {
				return
			}
			job = next
		}

		res := job.Execute(p.ctx)
		select {
		case p.results <- res:
		case <-p.ctx.Done():
			return
		}
	}
}

// Submit queues a job. It reports false once the pool is cancelled.
func (p *Pool) Submit(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.queue <- job:
		return true
	case <-p.ctx.Done():
		return false
	}
}

// Results streams results in completion order. It is closed after Close
// once every worker has exited.
func (p *Pool) Results() <-chan *BatchResult {
	return p.results
}

// Close stops accepting jobs; queued jobs still run
func (p *Pool) Close() {
	close(p.queue)
	go func() {
		p.wg.Wait()
		p.finish()
	}()
}

// Drain closes the pool and collects every remaining result
func (p *Pool) Drain() []*BatchResult {
	p.Close()

	var out []*BatchResult
	for res := range p.results {
		out = append(out, res)
	}
	return out
}

// Shutdown cancels in-flight work and waits for the workers to exit
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.finish()
}

func (p *Pool) finish() {
	p.once.Do(func() {
		close(p.results)
		p.cancel()
	})
}
