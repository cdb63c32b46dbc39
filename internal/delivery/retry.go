// internal/delivery/retry.go
package delivery

import "time"

// DefaultRetryDelay is the fixed delay before a retry sweep after a failed
// delivery attempt.
const DefaultRetryDelay = 10 * time.Second

// permanentStatus classifies an HTTP status as a non-retryable rejection of
// the payload. Client errors are permanent except timeouts and throttling;
// server errors are transient.
func permanentStatus(code int) bool {
	if code < 400 || code >= 500 {
		return false
	}
	switch code {
	case 408, 429:
		return false
	}
	return true
}
