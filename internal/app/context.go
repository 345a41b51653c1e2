package app

import (
	"context"
	"time"

	"github.com/sharelgx/JDVideo/internal/domain"
	"github.com/sharelgx/JDVideo/internal/engine"
	"github.com/sharelgx/JDVideo/internal/eventlog"
	"github.com/sharelgx/JDVideo/internal/infra/config"
	"github.com/sharelgx/JDVideo/internal/infra/logger"
	"github.com/sharelgx/JDVideo/internal/paths"
)

type BatchRunner interface {
	// Blocks until every item of the batch has a result
	RunBatch(ctx context.Context, b engine.Batch, obs engine.Observer) domain.BatchResult
}

type BatchStore interface {
	SaveBatch(ctx context.Context, rec domain.BatchRecord) error
	ListBatches(ctx context.Context, since time.Time, limit int) ([]domain.BatchRecord, error)
	GetBatch(ctx context.Context, id string) (*domain.BatchRecord, error)
}

// Context holds the core environment and shared resources for the helper.
// Config is read-only once the server starts.
type Context struct {
	Config *config.Config
	Logger *logger.Logger

	Events     *eventlog.Log
	Normalizer *paths.Normalizer
	Engine     BatchRunner

	// Store is nil when batch history is disabled
	Store BatchStore
}

// NewContext wires the download engine and event log from cfg.
func NewContext(cfg *config.Config, log *logger.Logger) *Context {
	normalizer := paths.NewNormalizer()
	normalizer.Trace = func(raw string, res paths.Resolution) {
		log.Debug("[Normalize] %q -> %s (rule=%s drive=%s)", raw, res.Path, res.Rule, res.Drive)
	}

	fetcher := engine.NewFetcher(cfg.Download.Timeout, engine.NewPathLocks(), log)

	return &Context{
		Config:     cfg,
		Logger:     log,
		Events:     eventlog.New(cfg.Events.Path),
		Normalizer: normalizer,
		Engine:     engine.NewCoordinator(fetcher, cfg.Download.GlobalLimit, log),
	}
}
