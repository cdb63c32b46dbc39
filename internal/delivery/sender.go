// internal/delivery/sender.go
package delivery

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/vadr-vr/vrtrace/internal/types"
)

// HTTPSender posts payloads to the collector endpoint as JSON.
type HTTPSender struct {
	endpoint string
	client   *http.Client
	log      *slog.Logger
}

// NewHTTPSender creates a sender for the given endpoint URL. A nil log falls
// back to the default logger.
func NewHTTPSender(endpoint string, log *slog.Logger) *HTTPSender {
	if log == nil {
		log = slog.Default()
	}
	return &HTTPSender{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
		log:      log,
	}
}

// Send posts one payload. A 2xx response delivers; a permanent rejection
// discards so the worker advances; anything else is a transient failure.
func (s *HTTPSender) Send(ctx context.Context, payload []byte) (types.Disposition, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return types.Delivered, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return types.Delivered, fmt.Errorf("post payload: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return types.Delivered, nil
	case permanentStatus(resp.StatusCode):
		s.log.Warn("payload permanently rejected", "status", resp.StatusCode, "endpoint", s.endpoint)
		return types.Discard, nil
	default:
		return types.Delivered, fmt.Errorf("collector returned status %d", resp.StatusCode)
	}
}
