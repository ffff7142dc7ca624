package httpapi

import "github.com/libreassistant/poc/internal/poc/tracker"

// PluginStatusResponse is the shape returned for /plugins and
// /plugins/{id}/status.
type PluginStatusResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	State        string `json:"state"`
	Port         int    `json:"port"`
	UptimeMS     int64  `json:"uptime_ms"`
	RestartCount int    `json:"restart_count"`
	LastError    string `json:"last_error,omitempty"`
}

// StartPluginRequest is POST /plugins/{id}/start's body.
type StartPluginRequest struct {
	Options map[string]string `json:"options,omitempty"`
}

// ChatRequest is POST /chat's body.
type ChatRequest struct {
	Model          string            `json:"model"`
	Message        string            `json:"message" binding:"required"`
	History        []ChatHistoryTurn `json:"history,omitempty"`
	EnablePlugins  *bool             `json:"enable_plugins,omitempty"`
}

// ChatHistoryTurn is one prior turn supplied by the caller.
type ChatHistoryTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse is POST /chat's successful response.
type ChatResponse struct {
	Text        string                      `json:"text"`
	Markdown    bool                        `json:"markdown,omitempty"`
	Outcome     string                      `json:"outcome"`
	Invocations []tracker.InvocationRecord  `json:"invocations"`
}

// UsageSnapshotResponse is GET /plugins/usage's response.
type UsageSnapshotResponse struct {
	SessionCount        int                `json:"session_count"`
	InvocationsByPlugin map[string]int     `json:"invocations_by_plugin"`
	SuccessRateByPlugin map[string]float64 `json:"success_rate_by_plugin"`
	MostUsedPlugin      string             `json:"most_used_plugin,omitempty"`
}
