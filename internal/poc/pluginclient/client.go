// Package pluginclient speaks the loopback HTTP protocol every plugin
// subprocess exposes: POST /<operation> for invocation. It does not call
// GET /health; that readiness check is made by the Supervisor alone.
package pluginclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/libreassistant/poc/internal/poc/supervisor"
	"github.com/libreassistant/poc/pkg/utils/json"
)

// ErrorKind categorises a failed invocation for the Dispatcher's benefit.
type ErrorKind string

const (
	KindNotRunning     ErrorKind = "NotRunning"
	KindTimeout        ErrorKind = "Timeout"
	KindTransportError ErrorKind = "TransportError"
	KindProtocolError  ErrorKind = "ProtocolError"
	KindPluginError    ErrorKind = "PluginError"
)

// InvokeError is the typed error returned by Invoke on any non-success path.
type InvokeError struct {
	Kind    ErrorKind
	Plugin  string
	Message string
	Cause   error
}

func (e *InvokeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: plugin %q: %s: %v", e.Kind, e.Plugin, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: plugin %q: %s", e.Kind, e.Plugin, e.Message)
}

func (e *InvokeError) Unwrap() error { return e.Cause }

// Result is a successful invocation's payload.
type Result struct {
	Success bool                   `json:"success"`
	Payload map[string]interface{} `json:"result,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// StatusSource reports a plugin's current Supervisor state, so the client
// can refuse calls to anything but a running plugin without depending on
// the full Supervisor API.
type StatusSource interface {
	Status(pluginID string) supervisor.Status
}

// Client enforces per-call timeout and response-size limits on top of a
// plain net/http client.
type Client struct {
	status  StatusSource
	http    *http.Client
	timeout time.Duration
	maxBody int64
}

// New builds a Client that consults status before every call and enforces
// timeout/maxBody on each request.
func New(status StatusSource, timeout time.Duration, maxBody int64) *Client {
	return &Client{
		status:  status,
		http:    &http.Client{},
		timeout: timeout,
		maxBody: maxBody,
	}
}

// Invoke calls POST /<operation> on pluginID's bound port with input as the
// JSON body.
func (c *Client) Invoke(ctx context.Context, pluginID, operation string, input map[string]interface{}) (*Result, error) {
	st := c.status.Status(pluginID)
	if st.State != supervisor.StateRunning {
		return nil, &InvokeError{Kind: KindNotRunning, Plugin: pluginID, Message: fmt.Sprintf("state is %q", st.State)}
	}

	body, err := json.Marshal(input)
	if err != nil {
		return nil, &InvokeError{Kind: KindProtocolError, Plugin: pluginID, Message: "marshal input", Cause: err}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("http://127.0.0.1:%d/%s", st.Port, operation)
	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &InvokeError{Kind: KindTransportError, Plugin: pluginID, Message: "build request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if callCtx.Err() != nil {
			return nil, &InvokeError{Kind: KindTimeout, Plugin: pluginID, Message: "invocation timed out", Cause: err}
		}
		return nil, &InvokeError{Kind: KindTransportError, Plugin: pluginID, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, c.maxBody+1)
	raw, err := io.ReadAll(limited)
	if err != nil {
		return nil, &InvokeError{Kind: KindTransportError, Plugin: pluginID, Message: "read response", Cause: err}
	}
	if int64(len(raw)) > c.maxBody {
		return nil, &InvokeError{Kind: KindProtocolError, Plugin: pluginID, Message: fmt.Sprintf("response exceeds %d byte cap", c.maxBody)}
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &InvokeError{Kind: KindProtocolError, Plugin: pluginID, Message: "non-compliant response body", Cause: err}
	}

	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "plugin reported failure without a message"
		}
		return nil, &InvokeError{Kind: KindPluginError, Plugin: pluginID, Message: msg}
	}

	return &result, nil
}
