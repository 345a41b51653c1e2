package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v5"

	"github.com/sharelgx/JDVideo/internal/domain"
)

const MIMEJSONUTF8 = "application/json; charset=utf-8"

type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type OKResponse struct {
	OK  bool   `json:"ok"`
	Msg string `json:"msg,omitempty"`
}

type BatchListResponse struct {
	OK      bool                 `json:"ok"`
	Batches []domain.BatchRecord `json:"batches"`
}

type BatchResponse struct {
	OK    bool                `json:"ok"`
	Batch *domain.BatchRecord `json:"batch"`
}

// writeJSON sends v with an explicit Content-Length.
func writeJSON(c *echo.Context, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentLength, strconv.Itoa(len(body)))
	return c.Blob(status, MIMEJSONUTF8, body)
}

func writeError(c *echo.Context, status int, code string) error {
	return writeJSON(c, status, ErrorResponse{OK: false, Error: code})
}

// decodeBody reads the request body into v. An empty body decodes as {}.
func decodeBody(c *echo.Context, v any) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		body = []byte("{}")
	}
	return json.Unmarshal(body, v)
}

// invalidJSON answers 400 invalid_json.
func invalidJSON(c *echo.Context) error {
	return writeError(c, http.StatusBadRequest, domain.CodeInvalidJSON)
}
