package engine

import (
	"errors"
	"fmt"
)

// HTTPStatusError is a non-2xx answer from the video host.
type HTTPStatusError struct {
	Code int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Code)
}

// HTMLResponseError is an HTML page served where a video was expected,
// usually a login or anti-bot page.
type HTMLResponseError struct {
	ContentType string
	Title       string
}

func (e *HTMLResponseError) Error() string {
	if e.Title == "" {
		return "content-type is html: " + e.ContentType
	}
	return fmt.Sprintf("content-type is html: %s (page title %q)", e.ContentType, e.Title)
}

// FilesystemError is a local I/O failure; it is never retried.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// IsFilesystem reports whether err came from local storage.
func IsFilesystem(err error) bool {
	var fe *FilesystemError
	return errors.As(err, &fe)
}

// IsHTML reports whether err is a rejected HTML response.
func IsHTML(err error) bool {
	var he *HTMLResponseError
	return errors.As(err, &he)
}
