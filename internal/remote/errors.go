package remote

import (
	"errors"
	"fmt"
)

// ErrNetworkFailure marks transport-level failures: refused or aborted
// connections, timeouts, DNS errors. Match with errors.Is.
var ErrNetworkFailure = errors.New("network failure")

// ServerError is a non-2xx reply, or a 2xx reply whose body could not be
// understood.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("server error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var se *ServerError
	return errors.As(err, &se) && se.StatusCode == 404
}
