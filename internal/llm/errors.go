package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

const maxErrorBody = 200

// ProviderError is a transport failure (Status 0) or a non-2xx response.
type ProviderError struct {
	Provider ProviderID
	Status   int
	Body     string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: transport: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Status, e.Body)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Timeout reports whether the failure was a deadline on the attempt.
func (e *ProviderError) Timeout() bool { return isTimeout(e.Err) }

func newStatusError(id ProviderID, status int, body []byte) *ProviderError {
	s := string(body)
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody]
	}
	return &ProviderError{Provider: id, Status: status, Body: s, Err: fmt.Errorf("non-2xx status: %d", status)}
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
