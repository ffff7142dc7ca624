package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// ClientOptions tunes the Plugin Client's per-call limits.
type ClientOptions struct {
	InvocationTimeout time.Duration `json:"invocation-timeout" mapstructure:"invocation-timeout"`
	MaxResponseBytes  int64         `json:"max-response-bytes" mapstructure:"max-response-bytes"`
}

func NewClientOptions() *ClientOptions {
	return &ClientOptions{
		InvocationTimeout: 30 * time.Second,
		MaxResponseBytes:  4 << 20,
	}
}

func (o *ClientOptions) Validate() []error {
	var errs []error
	if o.InvocationTimeout <= 0 {
		errs = append(errs, fmt.Errorf("client.invocation-timeout must be > 0"))
	}
	if o.MaxResponseBytes <= 0 {
		errs = append(errs, fmt.Errorf("client.max-response-bytes must be > 0"))
	}
	return errs
}

func (o *ClientOptions) AddFlags(fs *pflag.FlagSet) {
	fs.DurationVar(&o.InvocationTimeout, "client.invocation-timeout", o.InvocationTimeout, "Per-call timeout for plugin invocations.")
	fs.Int64Var(&o.MaxResponseBytes, "client.max-response-bytes", o.MaxResponseBytes, "Maximum accepted plugin response body size, in bytes.")
}
