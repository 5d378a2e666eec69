package httpapi

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownEndpoint = errors.New("unknown endpoint")

const maxErrorBodyInMessage = 512

// StatusError carries the raw status and body of a non-2xx response.
type StatusError struct {
	Endpoint   string
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(string(e.Body))
	if len(body) > maxErrorBodyInMessage {
		body = body[:maxErrorBodyInMessage] + "..."
	}
	if body == "" {
		return fmt.Sprintf("%s: %s %s: status %d", e.Endpoint, e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s %s: status %d: %s", e.Endpoint, e.Method, e.URL, e.StatusCode, body)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}
