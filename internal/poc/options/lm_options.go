package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// LMOptions configures the external language-model backend.
type LMOptions struct {
	// Backend selects the registered provider: "ollama", "openai", or
	// "claude" (any OpenAI- or Anthropic-compatible REST endpoint).
	Backend string        `json:"backend" mapstructure:"backend"`
	BaseURL string        `json:"base-url" mapstructure:"base-url"`
	APIKey  string        `json:"api-key" mapstructure:"api-key"`
	Model   string        `json:"model" mapstructure:"model"`
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

func NewLMOptions() *LMOptions {
	return &LMOptions{
		Backend: "ollama",
		BaseURL: "http://127.0.0.1:11434/v1",
		Model:   "",
		Timeout: 60 * time.Second,
	}
}

func (o *LMOptions) Validate() []error {
	var errs []error
	if o.Backend != "ollama" && o.Backend != "openai" && o.Backend != "claude" {
		errs = append(errs, fmt.Errorf("lm.backend %q is not a registered provider", o.Backend))
	}
	if o.BaseURL == "" {
		errs = append(errs, fmt.Errorf("lm.base-url must not be empty"))
	}
	if o.Model == "" {
		errs = append(errs, fmt.Errorf("lm.model must be configured; no model catalog is hardcoded"))
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("lm.timeout must be > 0"))
	}
	return errs
}

func (o *LMOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Backend, "lm.backend", o.Backend, "LM backend: ollama, openai, or claude.")
	fs.StringVar(&o.BaseURL, "lm.base-url", o.BaseURL, "LM endpoint base URL.")
	fs.StringVar(&o.APIKey, "lm.api-key", o.APIKey, "LM API key, if the backend requires one.")
	fs.StringVar(&o.Model, "lm.model", o.Model, "Model identifier to request from the backend.")
	fs.DurationVar(&o.Timeout, "lm.timeout", o.Timeout, "Validated to be > 0 but not applied: LM calls are bounded only by the caller's context.")
}
