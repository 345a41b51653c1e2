package domain

import "errors"

// Error codes reported to the extension in ItemResult.Error or a 4xx body.
const (
	CodeInvalidJSON = "invalid_json"
	CodeNotFound    = "not_found"
	CodeMissingURL  = "missing_url"
)

// ErrBatchNotFound is returned by the history store for an unknown batch ID
var ErrBatchNotFound = errors.New("batch not found")
