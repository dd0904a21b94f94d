package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/buger/jsonparser"
)

// Error is returned for any response outside the 2xx range.
type Error struct {
	// HTTPStatus is the response status code.
	HTTPStatus int

	// Status is the machine readable status from the error detail,
	// e.g. "invalid_api_key" or "quota_exceeded".
	Status string

	// Message is the human readable explanation.
	Message string

	// RequestID echoes the request-id response header when present.
	RequestID string
}

func (e *Error) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("elevenlabs: %s (http=%d, status=%s)", e.Message, e.HTTPStatus, e.Status)
	}
	return fmt.Sprintf("elevenlabs: %s (http=%d)", e.Message, e.HTTPStatus)
}

// IsUnauthorized reports a missing or rejected API key.
func (e *Error) IsUnauthorized() bool {
	return e.HTTPStatus == http.StatusUnauthorized
}

// IsRateLimit reports a 429 response.
func (e *Error) IsRateLimit() bool {
	return e.HTTPStatus == http.StatusTooManyRequests
}

// IsNotFound reports a 404 response.
func (e *Error) IsNotFound() bool {
	return e.HTTPStatus == http.StatusNotFound
}

// AsError extracts *Error from err.
//
//	if e, ok := api.AsError(err); ok && e.IsRateLimit() {
//	    // back off
//	}
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// parseError reads the detail of an error body. ElevenLabs reports errors as
// {"detail": {"status": ..., "message": ...}}, as {"detail": "..."} or, for
// validation failures, as {"detail": [{"msg": ...}, ...]}.
func parseError(status int, header http.Header, body []byte) *Error {
	e := &Error{
		HTTPStatus: status,
		RequestID:  header.Get("request-id"),
	}

	detail, dataType, _, err := jsonparser.Get(body, "detail")
	if err == nil {
		switch dataType {
		case jsonparser.Object:
			e.Status, _ = jsonparser.GetString(detail, "status")
			e.Message, _ = jsonparser.GetString(detail, "message")
		case jsonparser.String:
			e.Message, _ = jsonparser.ParseString(detail)
		case jsonparser.Array:
			var msgs []string
			_, _ = jsonparser.ArrayEach(detail, func(item []byte, _ jsonparser.ValueType, _ int, _ error) {
				if msg, err := jsonparser.GetString(item, "msg"); err == nil {
					msgs = append(msgs, msg)
				}
			})
			e.Message = strings.Join(msgs, "; ")
		}
	}

	if e.Message == "" {
		e.Message = strings.TrimSpace(string(body))
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}

	return e
}
