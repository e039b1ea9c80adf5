package downloader

import (
	"context"
	"sync"

	"wallgrab/pkg/logger"
	"wallgrab/pkg/models"
)

// Pool runs downloads concurrently and streams their outcomes
type Pool struct {
	fetcher    Fetcher
	numWorkers int
	logger     logger.Logger
}

// NewPool creates a pool. A concurrency of 0 or less starts one worker per candidate.
func NewPool(fetcher Fetcher, concurrency int, log logger.Logger) *Pool {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Pool{fetcher: fetcher, numWorkers: concurrency, logger: log}
}

// Run starts every download and returns a channel carrying exactly one
// outcome per candidate in completion order. The channel is closed after the
// last outcome. Cancelling ctx makes pending downloads settle as failures.
func (p *Pool) Run(ctx context.Context, candidates []models.Candidate) <-chan models.Outcome {
	// Both queues hold every candidate so no worker blocks on a slow consumer.
	jobs := make(chan models.Candidate, len(candidates))
	results := make(chan models.Outcome, len(candidates))

	for _, c := range candidates {
		jobs <- c
	}
	close(jobs)

	workers := p.workers(len(candidates))
	p.logger.InfoWithFields("Starting downloads", map[string]interface{}{
		"candidates":  len(candidates),
		"num_workers": workers,
	})

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.worker(ctx, id, jobs, results)
		}(i)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

func (p *Pool) workers(jobs int) int {
	if p.numWorkers <= 0 || p.numWorkers > jobs {
		return jobs
	}
	return p.numWorkers
}

func (p *Pool) worker(ctx context.Context, id int, jobs <-chan models.Candidate, results chan<- models.Outcome) {
	for c := range jobs {
		p.logger.DebugWithFields("Worker processing candidate", map[string]interface{}{
			"worker_id": id,
			"name":      c.Name,
		})

		if err := ctx.Err(); err != nil {
			results <- models.Failed(c.Name, err)
			continue
		}
		results <- p.fetcher.Download(ctx, c)
	}
}
