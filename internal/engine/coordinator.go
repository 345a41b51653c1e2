package engine

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/sharelgx/JDVideo/internal/domain"
	"github.com/sharelgx/JDVideo/internal/infra/logger"
	"github.com/sharelgx/JDVideo/internal/paths"
)

// ItemFetcher stores one remote file at a local path.
type ItemFetcher interface {
	FetchAndStore(ctx context.Context, url, dest string, retries int, headers domain.HeaderOverrides) (int64, error)
}

// Coordinator runs batches. Each batch gets its own pool; globalLimit > 0
// additionally caps fetches in flight across all batches.
type Coordinator struct {
	fetcher ItemFetcher
	global  *semaphore.Weighted
	log     *logger.Logger
}

func NewCoordinator(fetcher ItemFetcher, globalLimit int, log *logger.Logger) *Coordinator {
	c := &Coordinator{fetcher: fetcher, log: log}
	if globalLimit > 0 {
		c.global = semaphore.NewWeighted(int64(globalLimit))
	}
	return c
}

// RunBatch blocks until every item of b has a result. Items without a URL
// fail immediately as missing_url and take no pool slot. The batch is not
// cancelled when ctx is.
func (c *Coordinator) RunBatch(ctx context.Context, b Batch, obs Observer) domain.BatchResult {
	if obs == nil {
		obs = nopObserver{}
	}
	ctx = context.WithoutCancel(ctx)
	start := time.Now()

	obs.OnBatchStart(b)

	out := domain.BatchResult{
		OK:      true,
		BatchID: b.ID,
		Total:   len(b.Items),
		Results: make([]domain.ItemResult, 0, len(b.Items)),
	}

	var jobs []DownloadJob
	for i, item := range b.Items {
		if !item.HasURL() {
			res := domain.ItemResult{
				SKU:   item.SKU(),
				Title: item.DisplayTitle(),
				Error: domain.CodeMissingURL,
			}
			out.Results = append(out.Results, res)
			obs.OnItemDone(b.ID, res)
			continue
		}

		jobs = append(jobs, DownloadJob{
			Index: i,
			Item:  item,
			Path:  paths.BuildPath(b.Root, b.SubDir, item.SKU(), item.DisplayTitle()),
		})
	}

	c.runWorkerPool(ctx, b, jobs, func(r DownloadResult) {
		res := domain.ItemResult{
			SKU:   r.Job.Item.SKU(),
			Title: r.Job.Item.DisplayTitle(),
		}
		if r.Error != nil {
			res.Error = r.Error.Error()
			res.URL = r.Job.Item.SourceURL
			c.log.Error("[FAIL] %s: %v", res.SKU, r.Error)
			if IsHTML(r.Error) {
				c.log.Warn("[FAIL] %s: host answered with a web page, the referer or cookie may be stale", res.SKU)
			}
		} else {
			res.OK = true
			res.Path = r.Job.Path
			res.Bytes = r.Bytes
			out.Success++
		}
		out.Results = append(out.Results, res)
		obs.OnItemDone(b.ID, res)
	})

	c.log.Info("[Batch %s] %d/%d succeeded in %s", b.ID, out.Success, out.Total, time.Since(start).Round(time.Millisecond))

	return out
}
