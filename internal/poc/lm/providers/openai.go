package providers

import (
	"context"

	einoOpenAI "github.com/cloudwego/eino-ext/components/model/openai"

	"github.com/libreassistant/poc/internal/poc/lm"
	"github.com/libreassistant/poc/internal/poc/options"
)

func init() {
	lm.MustRegister("openai", buildOpenAI)
}

func buildOpenAI(ctx context.Context, opts *options.LMOptions) (lm.Backend, error) {
	conf := &einoOpenAI.ChatModelConfig{
		BaseURL: "https://api.openai.com/v1",
		APIKey:  opts.APIKey,
		Model:   opts.Model,
	}
	if opts.BaseURL != "" {
		conf.BaseURL = opts.BaseURL
	}
	cm, err := einoOpenAI.NewChatModel(ctx, conf)
	if err != nil {
		return nil, err
	}
	return lm.NewChatModelBackend("openai", cm), nil
}
