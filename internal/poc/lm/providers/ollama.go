// Package providers registers each eino-ext chat-model component under
// the lm.Registry, keyed by the name operators select via lm.backend.
package providers

import (
	"context"

	einoOllama "github.com/cloudwego/eino-ext/components/model/ollama"

	"github.com/libreassistant/poc/internal/poc/lm"
	"github.com/libreassistant/poc/internal/poc/options"
)

func init() {
	lm.MustRegister("ollama", buildOllama)
}

func buildOllama(ctx context.Context, opts *options.LMOptions) (lm.Backend, error) {
	conf := &einoOllama.ChatModelConfig{
		BaseURL: "http://127.0.0.1:11434/v1",
		Model:   opts.Model,
	}
	if opts.BaseURL != "" {
		conf.BaseURL = opts.BaseURL
	}
	cm, err := einoOllama.NewChatModel(ctx, conf)
	if err != nil {
		return nil, err
	}
	return lm.NewChatModelBackend("ollama", cm), nil
}
