package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v5"

	"github.com/sharelgx/JDVideo/internal/app"
	"github.com/sharelgx/JDVideo/internal/domain"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

type HistoryController struct {
	App *app.Context
}

// HandleList serves GET /batches?since=&limit=
func (ctrl *HistoryController) HandleList(c *echo.Context) error {
	if ctrl.App.Store == nil {
		return writeError(c, http.StatusNotFound, domain.CodeNotFound)
	}

	limit := defaultHistoryLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return writeError(c, http.StatusBadRequest, "invalid_limit")
		}
		limit = min(n, maxHistoryLimit)
	}

	var since time.Time
	if raw := c.QueryParam("since"); raw != "" {
		t, err := dateparse.ParseAny(raw)
		if err != nil {
			return writeError(c, http.StatusBadRequest, "invalid_since")
		}
		since = t
	}

	batches, err := ctrl.App.Store.ListBatches(c.Request().Context(), since, limit)
	if err != nil {
		ctrl.App.Logger.Error("[History] list failed: %v", err)
		return writeError(c, http.StatusInternalServerError, "store_error")
	}

	return writeJSON(c, http.StatusOK, BatchListResponse{OK: true, Batches: batches})
}

// HandleGet serves GET /batches/:id
func (ctrl *HistoryController) HandleGet(c *echo.Context) error {
	if ctrl.App.Store == nil {
		return writeError(c, http.StatusNotFound, domain.CodeNotFound)
	}

	rec, err := ctrl.App.Store.GetBatch(c.Request().Context(), c.Param("id"))
	if errors.Is(err, domain.ErrBatchNotFound) {
		return writeError(c, http.StatusNotFound, domain.CodeNotFound)
	}
	if err != nil {
		ctrl.App.Logger.Error("[History] get %s failed: %v", c.Param("id"), err)
		return writeError(c, http.StatusInternalServerError, "store_error")
	}

	return writeJSON(c, http.StatusOK, BatchResponse{OK: true, Batch: rec})
}
