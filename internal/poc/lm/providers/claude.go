package providers

import (
	"context"

	einoClaude "github.com/cloudwego/eino-ext/components/model/claude"

	"github.com/libreassistant/poc/internal/poc/lm"
	"github.com/libreassistant/poc/internal/poc/options"
)

func init() {
	lm.MustRegister("claude", buildClaude)
}

// buildClaude wires an Anthropic-compatible REST endpoint. The model
// identifier is always taken from opts.Model — operator configuration, not
// a hardcoded catalog of model names/versions.
func buildClaude(ctx context.Context, opts *options.LMOptions) (lm.Backend, error) {
	conf := &einoClaude.Config{
		APIKey: opts.APIKey,
		Model:  opts.Model,
	}
	if opts.BaseURL != "" {
		conf.BaseURL = &opts.BaseURL
	}
	cm, err := einoClaude.NewChatModel(ctx, conf)
	if err != nil {
		return nil, err
	}
	return lm.NewChatModelBackend("claude", cm), nil
}
