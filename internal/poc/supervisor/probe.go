package supervisor

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// waitReady polls GET /health on the plugin's loopback port with
// exponential backoff until it answers 200, the deadline elapses, or ctx is
// cancelled. A deadline of 0 fails immediately without issuing a request.
func waitReady(ctx context.Context, pluginID string, port int, deadline, pollStart time.Duration) error {
	if deadline <= 0 {
		return &ReadinessTimeoutError{PluginID: pluginID, Deadline: deadline.String()}
	}

	client := &http.Client{Timeout: 2 * time.Second}
	url := fmt.Sprintf("http://127.0.0.1:%d/health", port)

	deadlineCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	backoff := pollStart
	if backoff <= 0 {
		backoff = 50 * time.Millisecond
	}
	const maxBackoff = 1 * time.Second

	for {
		req, err := http.NewRequestWithContext(deadlineCtx, http.MethodGet, url, nil)
		if err == nil {
			resp, err := client.Do(req)
			if err == nil {
				resp.Body.Close()
				if resp.StatusCode == http.StatusOK {
					return nil
				}
			}
		}

		select {
		case <-deadlineCtx.Done():
			return &ReadinessTimeoutError{PluginID: pluginID, Deadline: deadline.String()}
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}
