package soliscloud

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrMalformedSchedule = errors.New("malformed charge/discharge schedule")

// ConnectError reports a call the SolisCloud API did not accept: either a
// non-200 HTTP status or a 200 envelope with success=false.
type ConnectError struct {
	StatusCode int
	Reason     string
	Message    string
}

func newStatusError(statusCode int) *ConnectError {
	return &ConnectError{StatusCode: statusCode, Reason: http.StatusText(statusCode)}
}

func newBusinessError(statusCode int, message string) *ConnectError {
	return &ConnectError{StatusCode: statusCode, Reason: http.StatusText(statusCode), Message: message}
}

func (e *ConnectError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("there was an error - %s - %d - %s", e.Message, e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("there was an error - %d - %s", e.StatusCode, e.Reason)
}

// IsRateLimited reports whether the call failed because retries on
// HTTP 429 were exhausted.
func (e *ConnectError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}
