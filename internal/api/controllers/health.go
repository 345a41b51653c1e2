package controllers

import (
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/sharelgx/JDVideo/internal/domain"
)

type HealthController struct{}

// Handle answers every GET that is not a history route.
func (ctrl *HealthController) Handle(c *echo.Context) error {
	return writeJSON(c, http.StatusOK, OKResponse{OK: true, Msg: "use POST /download"})
}

// HandleUnknown rejects POSTs to unknown paths, after checking the body parses.
func (ctrl *HealthController) HandleUnknown(c *echo.Context) error {
	var payload any
	if err := decodeBody(c, &payload); err != nil {
		return invalidJSON(c)
	}
	return writeError(c, http.StatusNotFound, domain.CodeNotFound)
}
