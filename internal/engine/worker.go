package engine

import (
	"context"
	"sync"
)

// runWorkerPool fetches jobs with at most workers in flight and hands every
// result to collect in completion order. It returns once all jobs finished.
func (c *Coordinator) runWorkerPool(ctx context.Context, b Batch, jobs []DownloadJob, collect func(DownloadResult)) {
	if len(jobs) == 0 {
		return
	}

	workerCount := b.Concurrency
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > len(jobs) {
		workerCount = len(jobs)
	}

	jobCh := make(chan DownloadJob, len(jobs))
	results := make(chan DownloadResult, workerCount)

	// Start the Workers
	var wg sync.WaitGroup
	for w := 1; w <= workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.worker(ctx, b.Retries, jobCh, results)
		}()
	}

	// Dispatch Jobs
	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)

	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect Results
	for res := range results {
		collect(res)
	}
}

// worker pulls jobs from the channel and executes them until channel is closed
func (c *Coordinator) worker(ctx context.Context, retries int, jobs <-chan DownloadJob, results chan<- DownloadResult) {
	for job := range jobs {
		n, err := c.process(ctx, retries, job)
		results <- DownloadResult{Job: job, Bytes: n, Error: err}
	}
}

func (c *Coordinator) process(ctx context.Context, retries int, job DownloadJob) (int64, error) {
	if c.global != nil {
		if err := c.global.Acquire(ctx, 1); err != nil {
			return 0, err
		}
		defer c.global.Release(1)
	}

	return c.fetcher.FetchAndStore(ctx, job.Item.SourceURL, job.Path, retries, job.Item.Headers)
}
