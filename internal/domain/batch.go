package domain

import "time"

// BatchRequest is the body of POST /download.
type BatchRequest struct {
	Items     []DownloadItem `json:"items"`
	TargetDir string         `json:"target_dir"`
	SubDir    string         `json:"sub_dir"`
}

// BatchResult is returned once every item of a batch has finished.
type BatchResult struct {
	OK      bool         `json:"ok"`
	BatchID string       `json:"batch_id,omitempty"`
	Success int          `json:"success"`
	Total   int          `json:"total"`
	Results []ItemResult `json:"results"`
}

// BatchRecord is a finished batch as kept by the history store.
type BatchRecord struct {
	ID         string       `json:"id"`
	CreatedAt  time.Time    `json:"created_at"`
	TargetDir  string       `json:"target_dir"`
	SubDir     string       `json:"sub_dir,omitempty"`
	Total      int          `json:"total"`
	Succeeded  int          `json:"succeeded"`
	DurationMS int64        `json:"duration_ms"`
	Items      []ItemRecord `json:"items,omitempty"`
}

type ItemStatus string

const (
	ItemCompleted ItemStatus = "completed"
	ItemFailed    ItemStatus = "failed"
)

// ItemRecord is one stored ItemResult.
type ItemRecord struct {
	ID         string     `json:"id"`
	SKU        string     `json:"sku"`
	Title      string     `json:"title"`
	Status     ItemStatus `json:"status"`
	Path       string     `json:"path,omitempty"`
	Error      string     `json:"error,omitempty"`
	URL        string     `json:"url,omitempty"`
	FinishedAt time.Time  `json:"finished_at"`
	Bytes      int64      `json:"bytes,omitempty"`
}

// NewBatchRecord snapshots a finished batch for the history store.
func NewBatchRecord(id string, started time.Time, target, sub string, res BatchResult) BatchRecord {
	rec := BatchRecord{
		ID:         id,
		CreatedAt:  started.UTC(),
		TargetDir:  target,
		SubDir:     sub,
		Total:      res.Total,
		Succeeded:  res.Success,
		DurationMS: time.Since(started).Milliseconds(),
	}
	now := time.Now().UTC()
	for _, r := range res.Results {
		status := ItemCompleted
		if !r.OK {
			status = ItemFailed
		}
		rec.Items = append(rec.Items, ItemRecord{
			ID:         NewItemRecordID(),
			SKU:        r.SKU,
			Title:      r.Title,
			Status:     status,
			Path:       r.Path,
			Error:      r.Error,
			URL:        r.URL,
			FinishedAt: now,
			Bytes:      r.Bytes,
		})
	}
	return rec
}
