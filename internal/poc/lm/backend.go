// Package lm abstracts the external LM backend behind a single Call
// method, backed by cloudwego/eino's model.BaseChatModel so any
// eino-ext chat-model component can be registered as a provider.
package lm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/libreassistant/poc/internal/poc/protocol"
)

// ErrLMUnavailable wraps any transport-level failure talking to the
// configured backend; the dispatcher surfaces it as a single structured
// error with no internal retry.
type ErrLMUnavailable struct {
	Backend string
	Cause   error
}

func (e *ErrLMUnavailable) Error() string {
	return fmt.Sprintf("lm backend %q unavailable: %v", e.Backend, e.Cause)
}

func (e *ErrLMUnavailable) Unwrap() error { return e.Cause }

// Backend is the narrow interface the Dispatcher depends on: one
// non-streaming call per turn.
type Backend interface {
	Call(ctx context.Context, prompt []protocol.Turn) (string, error)
}

// chatModelBackend adapts an eino model.BaseChatModel to Backend.
type chatModelBackend struct {
	name  string
	model model.BaseChatModel
}

// NewChatModelBackend wraps cm, identified by name for error reporting.
func NewChatModelBackend(name string, cm model.BaseChatModel) Backend {
	return &chatModelBackend{name: name, model: cm}
}

func (b *chatModelBackend) Call(ctx context.Context, prompt []protocol.Turn) (string, error) {
	messages := make([]*schema.Message, 0, len(prompt))
	for _, turn := range prompt {
		messages = append(messages, &schema.Message{
			Role:    roleOf(turn.Role),
			Content: turn.Content,
		})
	}

	resp, err := b.model.Generate(ctx, messages)
	if err != nil {
		return "", &ErrLMUnavailable{Backend: b.name, Cause: err}
	}
	if resp == nil {
		return "", &ErrLMUnavailable{Backend: b.name, Cause: fmt.Errorf("empty response")}
	}
	return resp.Content, nil
}

func roleOf(role string) schema.RoleType {
	switch role {
	case "system":
		return schema.System
	case "assistant":
		return schema.Assistant
	default:
		return schema.User
	}
}
