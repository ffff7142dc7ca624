package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

// ManifestOptions controls plugin discovery and autostart policy.
type ManifestOptions struct {
	// PluginsRoot is the directory scanned for plugin subdirectories.
	PluginsRoot string `json:"plugins-root" mapstructure:"plugins-root"`
	// AutoStart, when true, has the Lifecycle Controller start every
	// discovered plugin at boot.
	AutoStart bool `json:"auto-start" mapstructure:"auto-start"`
	// DisableAutostart overrides AutoStart unconditionally; set from an
	// operator flag for emergency boots.
	DisableAutostart bool `json:"disable-autostart" mapstructure:"disable-autostart"`
	// AutoApproveAll grants every declared permission before autostart.
	// Only meaningful alongside AutoStart; never the default.
	AutoApproveAll bool `json:"auto-approve-all" mapstructure:"auto-approve-all"`
	// InterStartDelayMS is the pause between successive plugin starts
	// during Lifecycle Controller autostart, to reduce port-binding races.
	InterStartDelayMS int `json:"inter-start-delay-ms" mapstructure:"inter-start-delay-ms"`
}

func NewManifestOptions() *ManifestOptions {
	return &ManifestOptions{
		PluginsRoot:       "./plugins",
		AutoStart:         false,
		DisableAutostart:  false,
		AutoApproveAll:    false,
		InterStartDelayMS: 150,
	}
}

func (o *ManifestOptions) Validate() []error {
	var errs []error
	if o.PluginsRoot == "" {
		errs = append(errs, fmt.Errorf("manifest.plugins-root must not be empty"))
	}
	if o.InterStartDelayMS < 0 {
		errs = append(errs, fmt.Errorf("manifest.inter-start-delay-ms must be >= 0"))
	}
	return errs
}

func (o *ManifestOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.PluginsRoot, "manifest.plugins-root", o.PluginsRoot, "Directory scanned for plugin subdirectories.")
	fs.BoolVar(&o.AutoStart, "manifest.auto-start", o.AutoStart, "Start every discovered plugin at boot.")
	fs.BoolVar(&o.DisableAutostart, "manifest.disable-autostart", o.DisableAutostart, "Override auto-start unconditionally.")
	fs.BoolVar(&o.AutoApproveAll, "manifest.auto-approve-all", o.AutoApproveAll, "Grant every declared permission before autostart (local trusted deployments only).")
	fs.IntVar(&o.InterStartDelayMS, "manifest.inter-start-delay-ms", o.InterStartDelayMS, "Delay in milliseconds between successive autostarts.")
}

// Effective reports whether autostart should actually run.
func (o *ManifestOptions) Effective() bool {
	return o.AutoStart && !o.DisableAutostart
}
