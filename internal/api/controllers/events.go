package controllers

import (
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/sharelgx/JDVideo/internal/app"
)

type EventsController struct {
	App *app.Context
}

// Handle appends the client's JSON payload to the event log.
func (ctrl *EventsController) Handle(c *echo.Context) error {
	var payload any
	if err := decodeBody(c, &payload); err != nil {
		return invalidJSON(c)
	}

	ctrl.App.Events.AppendValue(payload)
	return writeJSON(c, http.StatusOK, OKResponse{OK: true})
}
