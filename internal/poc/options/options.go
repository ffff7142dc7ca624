// Package options aggregates every per-concern configuration struct the
// daemon and CLI bind flags and config-file keys onto.
package options

import (
	"github.com/libreassistant/poc/pkg/utils/cliflag"
	"github.com/libreassistant/poc/pkg/utils/json"
)

// Options is the top-level configuration aggregate bound from flags and an
// optional config file.
type Options struct {
	Manifest   *ManifestOptions   `json:"manifest" mapstructure:"manifest"`
	Supervisor *SupervisorOptions `json:"supervisor" mapstructure:"supervisor"`
	Client     *ClientOptions     `json:"client" mapstructure:"client"`
	LM         *LMOptions         `json:"lm" mapstructure:"lm"`
	Dispatcher *DispatcherOptions `json:"dispatcher" mapstructure:"dispatcher"`
	Tracker    *TrackerOptions    `json:"tracker" mapstructure:"tracker"`
	HTTP       *HTTPOptions       `json:"http" mapstructure:"http"`
}

// NewOptions builds an Options aggregate populated with defaults.
func NewOptions() *Options {
	return &Options{
		Manifest:   NewManifestOptions(),
		Supervisor: NewSupervisorOptions(),
		Client:     NewClientOptions(),
		LM:         NewLMOptions(),
		Dispatcher: NewDispatcherOptions(),
		Tracker:    NewTrackerOptions(),
		HTTP:       NewHTTPOptions(),
	}
}

// Flags returns named flag sets, one per concern, for cobra/pflag wiring.
func (o *Options) Flags() (fss cliflag.NamedFlagSets) {
	o.Manifest.AddFlags(fss.FlagSet("manifest"))
	o.Supervisor.AddFlags(fss.FlagSet("supervisor"))
	o.Client.AddFlags(fss.FlagSet("client"))
	o.LM.AddFlags(fss.FlagSet("lm"))
	o.Dispatcher.AddFlags(fss.FlagSet("dispatcher"))
	o.Tracker.AddFlags(fss.FlagSet("tracker"))
	o.HTTP.AddFlags(fss.FlagSet("http"))
	return fss
}

// Validate collects validation errors across every sub-options struct.
func (o *Options) Validate() []error {
	var errs []error
	errs = append(errs, o.Manifest.Validate()...)
	errs = append(errs, o.Supervisor.Validate()...)
	errs = append(errs, o.Client.Validate()...)
	errs = append(errs, o.LM.Validate()...)
	errs = append(errs, o.Dispatcher.Validate()...)
	errs = append(errs, o.Tracker.Validate()...)
	errs = append(errs, o.HTTP.Validate()...)
	return errs
}

func (o *Options) String() string {
	data, _ := json.MarshalIndent(o, "", "  ")
	return string(data)
}
