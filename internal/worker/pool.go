// Package worker provides the concurrency primitives used for parallel
// claim verification and outbound request pacing.
package worker

import (
	"context"
	"sync"
)

// Job is a unit of work executed by the pool.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of a job execution.
type Result interface {
	GetError() error
}

// Pool runs jobs on a fixed number of workers.
type Pool struct {
	workers    int
	jobQueue   chan Job
	results    chan Result
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
}

// NewPool creates a pool with the given worker count. Non-positive counts
// fall back to a single worker.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers:    workers,
		jobQueue:   make(chan Job, workers*2),
		results:    make(chan Result, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. Submissions after shutdown are dropped.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
	case p.jobQueue <- job:
	}
}

// Results exposes the result stream for callers that drain it while
// submitting. The channel closes after Close or Wait completes.
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Close stops accepting jobs, waits for in-flight work to finish, and
// closes the result stream. Submissions must have stopped before calling.
func (p *Pool) Close() {
	close(p.jobQueue)
	p.wg.Wait()
	p.closeResults()
}

// Wait closes the queue, waits for all submitted jobs, and returns their
// results in completion order. Both channels buffer only workers*2
// entries, so a caller that submits more jobs than that must drain
// Results concurrently and use Close instead.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)
	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	var results []Result
	for result := range p.results {
		results = append(results, result)
	}
	return results
}

// Shutdown cancels outstanding work and stops the workers.
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
