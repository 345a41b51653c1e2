package engine

import "github.com/sharelgx/JDVideo/internal/domain"

// Batch is one POST /download worth of work, already resolved to a root.
type Batch struct {
	ID          string
	Items       []domain.DownloadItem
	Root        string
	SubDir      string
	Concurrency int
	Retries     int
}

type DownloadJob struct {
	Index int
	Item  domain.DownloadItem
	Path  string
}

type DownloadResult struct {
	Job   DownloadJob
	Bytes int64
	Error error
}

// Observer is told about batch progress as it happens.
type Observer interface {
	OnBatchStart(b Batch)
	OnItemDone(batchID string, res domain.ItemResult)
}

type nopObserver struct{}

func (nopObserver) OnBatchStart(Batch)                   {}
func (nopObserver) OnItemDone(string, domain.ItemResult) {}
