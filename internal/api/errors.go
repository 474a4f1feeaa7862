package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Common errors
var (
	ErrTransport  = errors.New("request failed")
	ErrValidation = errors.New("validation failed")
)

// Error is a non-2xx response from the server. Message carries the
// server's human-readable explanation verbatim.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error (%d)", e.Status)
	}
	return fmt.Sprintf("API error (%d): %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is a 401 response
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 response
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsTransient reports whether err is worth retrying: a transport failure
// or a 5xx response.
func IsTransient(err error) bool {
	if errors.Is(err, ErrTransport) {
		return true
	}
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status >= 500
}

// decodeError turns an error response into *Error, preferring the
// server's JSON message field over the raw body.
func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Message != "":
			apiErr.Message = payload.Message
		case payload.Error != "":
			apiErr.Message = payload.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}
