package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

// TrackerOptions bounds the Usage Tracker's retained session archive.
type TrackerOptions struct {
	ArchiveSize int `json:"archive-size" mapstructure:"archive-size"`
}

func NewTrackerOptions() *TrackerOptions {
	return &TrackerOptions{ArchiveSize: 100}
}

func (o *TrackerOptions) Validate() []error {
	var errs []error
	if o.ArchiveSize <= 0 {
		errs = append(errs, fmt.Errorf("tracker.archive-size must be > 0"))
	}
	return errs
}

func (o *TrackerOptions) AddFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.ArchiveSize, "tracker.archive-size", o.ArchiveSize, "Number of completed sessions retained for analytics.")
}
