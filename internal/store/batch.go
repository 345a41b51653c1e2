package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/sharelgx/JDVideo/internal/domain"
)

// DefaultListLimit applies when ListBatches is called without a limit.
const DefaultListLimit = 20

// Rows per batch_items INSERT. Keeps the bound parameters well under the
// SQLite (32766) and PostgreSQL (65535) limits.
const itemInsertChunk = 500

// SaveBatch stores a finished batch and its items in one transaction.
func (s *PersistentStore) SaveBatch(ctx context.Context, rec domain.BatchRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query, args, err := s.sb.Insert("batches").
		Columns(batchColumns...).
		Values(rec.ID, rec.CreatedAt.UnixMilli(), rec.TargetDir, rec.SubDir, rec.Total, rec.Succeeded, rec.DurationMS).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert batch %s: %w", rec.ID, err)
	}

	for start := 0; start < len(rec.Items); start += itemInsertChunk {
		end := min(start+itemInsertChunk, len(rec.Items))

		ins := s.sb.Insert("batch_items").Columns(itemColumns...)
		for i := start; i < end; i++ {
			it := rec.Items[i]
			ins = ins.Values(it.ID, rec.ID, i, it.SKU, it.Title, string(it.Status), it.Path, it.Error, it.URL, it.FinishedAt.UnixMilli(), it.Bytes)
		}

		query, args, err := ins.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert items %d-%d of batch %s: %w", start, end-1, rec.ID, err)
		}
	}

	return tx.Commit()
}

// ListBatches returns batches created at or after since, newest first, without items.
func (s *PersistentStore) ListBatches(ctx context.Context, since time.Time, limit int) ([]domain.BatchRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	q := s.sb.Select(batchColumns...).
		From("batches").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit))
	if !since.IsZero() {
		q = q.Where(sq.GtOrEq{"created_at": since.UnixMilli()})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.BatchRecord, 0)
	for rows.Next() {
		var b batchDBO
		if err := rows.Scan(&b.ID, &b.CreatedAt, &b.TargetDir, &b.SubDir, &b.Total, &b.Succeeded, &b.DurationMS); err != nil {
			return nil, err
		}
		out = append(out, b.ToDomain())
	}

	return out, rows.Err()
}

// GetBatch returns one batch with its items in result order.
func (s *PersistentStore) GetBatch(ctx context.Context, id string) (*domain.BatchRecord, error) {
	query, args, err := s.sb.Select(batchColumns...).
		From("batches").
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var b batchDBO
	err = s.db.QueryRowContext(ctx, query, args...).
		Scan(&b.ID, &b.CreatedAt, &b.TargetDir, &b.SubDir, &b.Total, &b.Succeeded, &b.DurationMS)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBatchNotFound
	}
	if err != nil {
		return nil, err
	}
	rec := b.ToDomain()

	query, args, err = s.sb.Select(itemColumns...).
		From("batch_items").
		Where(sq.Eq{"batch_id": id}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var it itemDBO
		if err := rows.Scan(&it.ID, &it.BatchID, &it.Position, &it.SKU, &it.Title, &it.Status, &it.Path, &it.Error, &it.URL, &it.FinishedAt, &it.Bytes); err != nil {
			return nil, err
		}
		rec.Items = append(rec.Items, it.ToDomain())
	}

	return &rec, rows.Err()
}
