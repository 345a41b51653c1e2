package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/sharelgx/JDVideo/internal/app"
	"github.com/sharelgx/JDVideo/internal/domain"
	"github.com/sharelgx/JDVideo/internal/engine"
	"github.com/sharelgx/JDVideo/internal/eventlog"
)

type DownloadController struct {
	App *app.Context
}

// Handle runs one batch to completion and returns the aggregated results.
func (ctrl *DownloadController) Handle(c *echo.Context) error {
	var req domain.BatchRequest
	if err := decodeBody(c, &req); err != nil {
		return invalidJSON(c)
	}

	cfg := ctrl.App.Config
	target := ctrl.App.Normalizer.Normalize(req.TargetDir, cfg.Download.Root)

	batch := engine.Batch{
		ID:          domain.NewBatchID(),
		Items:       req.Items,
		Root:        target.Path,
		SubDir:      req.SubDir,
		Concurrency: cfg.Download.Concurrency,
		Retries:     cfg.Download.Retry,
	}

	ctrl.App.Logger.Info("[Batch %s] %d items -> %s (rule=%s) sub=%q", batch.ID, len(batch.Items), target.Path, target.Rule, req.SubDir)

	started := time.Now()
	result := ctrl.App.Engine.RunBatch(c.Request().Context(), batch, eventObserver{ctrl.App.Events})

	if ctrl.App.Store != nil {
		rec := domain.NewBatchRecord(batch.ID, started, target.Path, req.SubDir, result)
		if err := ctrl.App.Store.SaveBatch(context.WithoutCancel(c.Request().Context()), rec); err != nil {
			ctrl.App.Logger.Warn("[Batch %s] history not saved: %v", batch.ID, err)
		}
	}

	return writeJSON(c, http.StatusOK, result)
}

// eventObserver mirrors batch progress into the event log.
type eventObserver struct {
	events *eventlog.Log
}

func (o eventObserver) OnBatchStart(b engine.Batch) {
	o.events.Received(b.ID, len(b.Items), b.Root, b.SubDir)
}

func (o eventObserver) OnItemDone(_ string, res domain.ItemResult) {
	if res.OK {
		o.events.Succeeded(res.SKU, res.Path, res.Bytes)
		return
	}
	o.events.Failed(res.SKU, res.Error, res.URL)
}
