package store

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/sharelgx/JDVideo/internal/domain"
)

func newTestStore(t *testing.T) *PersistentStore {
	t.Helper()

	s, err := NewPersistentStore(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "db", "jdvideo.db"))
	if err != nil {
		t.Fatalf("NewPersistentStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(id string, created time.Time) domain.BatchRecord {
	res := domain.BatchResult{
		OK:      true,
		Success: 1,
		Total:   2,
		Results: []domain.ItemResult{
			{SKU: "1", Title: "a", OK: true, Path: "/dl/1_a.mp4", Bytes: 2048},
			{SKU: "2", Title: "b", Error: "HTTP 404", URL: "http://x/2"},
		},
	}
	rec := domain.NewBatchRecord(id, created, "/dl", "sub", res)
	rec.CreatedAt = created.UTC().Truncate(time.Millisecond)
	return rec
}

func TestSaveAndGetBatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("batch-1", time.Now())
	if err := s.SaveBatch(ctx, rec); err != nil {
		t.Fatalf("SaveBatch: %v", err)
	}

	got, err := s.GetBatch(ctx, "batch-1")
	if err != nil {
		t.Fatalf("GetBatch: %v", err)
	}
	if got.Total != 2 || got.Succeeded != 1 || got.SubDir != "sub" || !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Fatalf("batch = %+v", got)
	}
	if len(got.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(got.Items))
	}
	if got.Items[0].Status != domain.ItemCompleted || got.Items[0].Path != "/dl/1_a.mp4" || got.Items[0].Bytes != 2048 {
		t.Errorf("item 0 = %+v", got.Items[0])
	}
	if got.Items[1].Status != domain.ItemFailed || got.Items[1].Error != "HTTP 404" || got.Items[1].URL != "http://x/2" {
		t.Errorf("item 1 = %+v", got.Items[1])
	}
}

func TestSaveLargeBatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const n = 4000
	res := domain.BatchResult{OK: true, Total: n, Success: n}
	for i := 0; i < n; i++ {
		sku := strconv.Itoa(i)
		res.Results = append(res.Results, domain.ItemResult{SKU: sku, Title: "t", OK: true, Path: "/dl/" + sku + "_t.mp4"})
	}

	if err := s.SaveBatch(ctx, domain.NewBatchRecord("big", time.Now(), "/dl", "", res)); err != nil {
		t.Fatalf("SaveBatch: %v", err)
	}

	got, err := s.GetBatch(ctx, "big")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items) != n {
		t.Fatalf("items = %d, want %d", len(got.Items), n)
	}
	if got.Items[0].SKU != "0" || got.Items[n-1].SKU != strconv.Itoa(n-1) {
		t.Fatalf("order lost: first %s last %s", got.Items[0].SKU, got.Items[n-1].SKU)
	}
}

func TestGetBatchNotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetBatch(context.Background(), "nope"); !errors.Is(err, domain.ErrBatchNotFound) {
		t.Fatalf("err = %v, want ErrBatchNotFound", err)
	}
}

func TestListBatches(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		if err := s.SaveBatch(ctx, sampleRecord(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.ListBatches(ctx, time.Time{}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].ID != "new" || all[2].ID != "old" {
		t.Fatalf("list = %+v", all)
	}
	if all[0].Items != nil {
		t.Errorf("list should not load items")
	}

	recent, err := s.ListBatches(ctx, base.Add(30*time.Minute), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 {
		t.Fatalf("since filter returned %d, want 2", len(recent))
	}

	limited, err := s.ListBatches(ctx, time.Time{}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 || limited[0].ID != "new" {
		t.Fatalf("limit = %+v", limited)
	}
}

func TestMigrationsTrackVersion(t *testing.T) {
	s := newTestStore(t)

	v, dirty, err := s.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if v != 3 || dirty {
		t.Fatalf("version = %d dirty = %v, want 3 clean", v, dirty)
	}

	// The next startup applies nothing; 0003 adds a column and would fail if replayed
	if err := s.RunMigrations(); err != nil {
		t.Fatalf("second RunMigrations: %v", err)
	}
	if v2, _, _ := s.SchemaVersion(); v2 != v {
		t.Fatalf("version moved to %d", v2)
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jdvideo.db")
	ctx := context.Background()

	s, err := NewPersistentStore(ctx, DriverSQLite, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveBatch(ctx, sampleRecord("kept", time.Now())); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = NewPersistentStore(ctx, DriverSQLite, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	if _, err := s.GetBatch(ctx, "kept"); err != nil {
		t.Fatalf("GetBatch after reopen: %v", err)
	}
}

func TestUnsupportedDriver(t *testing.T) {
	if _, err := NewPersistentStore(context.Background(), "mysql", "x"); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
