// Package protocol implements the Protocol Codec: system-instruction prompt
// assembly and lenient-parse/strict-validate decoding of LM responses
// against the two-variant response schema.
package protocol

import (
	"fmt"

	"github.com/libreassistant/poc/pkg/utils/json"
)

// Action names the tagged variant of an LM response document.
type Action string

const (
	ActionMessage      Action = "message"
	ActionPluginInvoke Action = "plugin_invoke"
)

// LMMessage is the decoded, validated form of an LM response: exactly one
// of Message or Invoke is non-nil.
type LMMessage struct {
	Message *MessageContent
	Invoke  *InvokeContent

	// NonCompliant is set when the codec could not find any schema-valid
	// candidate and fell back to wrapping the raw text as a Message.
	NonCompliant bool
	RawText      string
}

// MessageContent is the "message" action's payload.
type MessageContent struct {
	Text     string `json:"text"`
	Markdown bool   `json:"markdown,omitempty"`
}

// InvokeContent is the "plugin_invoke" action's payload.
type InvokeContent struct {
	Plugin string                 `json:"plugin"`
	Input  map[string]interface{} `json:"input"`
	Reason string                 `json:"reason"`
}

// document is the wire shape: {"action": ..., "content": {...}}.
type document struct {
	Action  Action          `json:"action"`
	Content json.RawMessage `json:"content"`
}

// validate decodes content according to action and enforces the schema.
func (d document) validate() (LMMessage, error) {
	switch d.Action {
	case ActionMessage:
		var c MessageContent
		if err := json.Unmarshal(d.Content, &c); err != nil {
			return LMMessage{}, fmt.Errorf("decode message content: %w", err)
		}
		if c.Text == "" {
			return LMMessage{}, fmt.Errorf("message content requires non-empty text")
		}
		return LMMessage{Message: &c}, nil
	case ActionPluginInvoke:
		var c InvokeContent
		if err := json.Unmarshal(d.Content, &c); err != nil {
			return LMMessage{}, fmt.Errorf("decode plugin_invoke content: %w", err)
		}
		if c.Plugin == "" {
			return LMMessage{}, fmt.Errorf("plugin_invoke content requires a plugin id")
		}
		if c.Input == nil {
			c.Input = map[string]interface{}{}
		}
		return LMMessage{Invoke: &c}, nil
	default:
		return LMMessage{}, fmt.Errorf("unknown action %q", d.Action)
	}
}

// Serialize renders an LMMessage back to its canonical wire document;
// Parse(Serialize(m)) is the identity for both variants.
func Serialize(m LMMessage) ([]byte, error) {
	switch {
	case m.Invoke != nil:
		return json.Marshal(map[string]interface{}{
			"action":  ActionPluginInvoke,
			"content": m.Invoke,
		})
	case m.Message != nil:
		return json.Marshal(map[string]interface{}{
			"action":  ActionMessage,
			"content": m.Message,
		})
	default:
		return nil, fmt.Errorf("LMMessage has neither Message nor Invoke set")
	}
}
