package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

// DispatcherOptions bounds a single user-turn LM/plugin exchange.
type DispatcherOptions struct {
	MaxSteps int `json:"max-steps" mapstructure:"max-steps"`
}

func NewDispatcherOptions() *DispatcherOptions {
	return &DispatcherOptions{MaxSteps: 5}
}

func (o *DispatcherOptions) Validate() []error {
	var errs []error
	if o.MaxSteps < 0 {
		errs = append(errs, fmt.Errorf("dispatcher.max-steps must be >= 0"))
	}
	return errs
}

func (o *DispatcherOptions) AddFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.MaxSteps, "dispatcher.max-steps", o.MaxSteps, "Maximum LM<->plugin round-trips per user turn (0 means the LM is never called).")
}
