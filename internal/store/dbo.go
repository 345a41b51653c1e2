package store

import (
	"time"

	"github.com/sharelgx/JDVideo/internal/domain"
)

// batchDBO maps to the batches table
type batchDBO struct {
	ID         string `db:"id"`
	CreatedAt  int64  `db:"created_at"`
	TargetDir  string `db:"target_dir"`
	SubDir     string `db:"sub_dir"`
	Total      int    `db:"total"`
	Succeeded  int    `db:"succeeded"`
	DurationMS int64  `db:"duration_ms"`
}

// Mapper: DBO to Domain BatchRecord
func (b *batchDBO) ToDomain() domain.BatchRecord {
	return domain.BatchRecord{
		ID:         b.ID,
		CreatedAt:  time.UnixMilli(b.CreatedAt).UTC(),
		TargetDir:  b.TargetDir,
		SubDir:     b.SubDir,
		Total:      b.Total,
		Succeeded:  b.Succeeded,
		DurationMS: b.DurationMS,
	}
}

// itemDBO maps to the batch_items table
type itemDBO struct {
	ID         string `db:"id"`
	BatchID    string `db:"batch_id"`
	Position   int    `db:"position"`
	SKU        string `db:"sku"`
	Title      string `db:"title"`
	Status     string `db:"status"`
	Path       string `db:"path"`
	Error      string `db:"error"`
	URL        string `db:"url"`
	FinishedAt int64  `db:"finished_at"`
	Bytes      int64  `db:"bytes"`
}

func (i *itemDBO) ToDomain() domain.ItemRecord {
	return domain.ItemRecord{
		ID:         i.ID,
		SKU:        i.SKU,
		Title:      i.Title,
		Status:     domain.ItemStatus(i.Status),
		Path:       i.Path,
		Error:      i.Error,
		URL:        i.URL,
		FinishedAt: time.UnixMilli(i.FinishedAt).UTC(),
		Bytes:      i.Bytes,
	}
}

var batchColumns = []string{"id", "created_at", "target_dir", "sub_dir", "total", "succeeded", "duration_ms"}

var itemColumns = []string{"id", "batch_id", "position", "sku", "title", "status", "path", "error", "url", "finished_at", "bytes"}
