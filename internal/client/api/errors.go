package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/mkorolis/imagepoints/internal/common"
)

const bodyPreviewLimit = 200

// RequestFailedError carries the HTTP status and the server-provided
// message of a failed call. It unwraps to the matching sentinel for
// 401/403/404 so callers can branch with errors.Is.
type RequestFailedError struct {
	StatusCode int
	Message    string

	sentinel error
}

func (e *RequestFailedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request failed (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed (%d)", e.StatusCode)
}

func (e *RequestFailedError) Unwrap() error {
	return e.sentinel
}

func newStatusError(status int, body []byte) error {
	e := &RequestFailedError{
		StatusCode: status,
		Message:    extractMessage(body),
	}

	switch status {
	case http.StatusUnauthorized:
		e.sentinel = common.ErrorUnauthorized
		if e.Message == "" {
			e.Message = common.ErrorUnauthorized.Error()
		}
	case http.StatusForbidden:
		e.sentinel = common.ErrorForbidden
	case http.StatusNotFound:
		e.sentinel = common.ErrorNotFound
	}
	return e
}

// extractMessage pulls the human-readable message out of a JSON error
// body (message, detail or error field), falling back to a truncated
// preview of the raw body.
func extractMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Message != "":
			return payload.Message
		case payload.Detail != "":
			return payload.Detail
		case payload.Error != "":
			return payload.Error
		}
	}

	preview := strings.TrimSpace(string(body))
	if len(preview) > bodyPreviewLimit {
		preview = preview[:bodyPreviewLimit] + "..."
	}
	return preview
}
