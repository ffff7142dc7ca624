package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// SupervisorOptions tunes plugin subprocess lifecycle timing.
type SupervisorOptions struct {
	ReadinessDeadline  time.Duration `json:"readiness-deadline" mapstructure:"readiness-deadline"`
	StopDeadline       time.Duration `json:"stop-deadline" mapstructure:"stop-deadline"`
	MaxStartAttempts   int           `json:"max-start-attempts" mapstructure:"max-start-attempts"`
	ReadinessPollStart time.Duration `json:"readiness-poll-start" mapstructure:"readiness-poll-start"`
}

func NewSupervisorOptions() *SupervisorOptions {
	return &SupervisorOptions{
		ReadinessDeadline:  10 * time.Second,
		StopDeadline:       5 * time.Second,
		MaxStartAttempts:   3,
		ReadinessPollStart: 50 * time.Millisecond,
	}
}

func (o *SupervisorOptions) Validate() []error {
	var errs []error
	if o.ReadinessDeadline < 0 {
		errs = append(errs, fmt.Errorf("supervisor.readiness-deadline must be >= 0"))
	}
	if o.StopDeadline <= 0 {
		errs = append(errs, fmt.Errorf("supervisor.stop-deadline must be > 0"))
	}
	if o.MaxStartAttempts <= 0 {
		errs = append(errs, fmt.Errorf("supervisor.max-start-attempts must be > 0"))
	}
	return errs
}

func (o *SupervisorOptions) AddFlags(fs *pflag.FlagSet) {
	fs.DurationVar(&o.ReadinessDeadline, "supervisor.readiness-deadline", o.ReadinessDeadline, "Deadline for a plugin to report ready after start.")
	fs.DurationVar(&o.StopDeadline, "supervisor.stop-deadline", o.StopDeadline, "Deadline for graceful stop before force-kill.")
	fs.IntVar(&o.MaxStartAttempts, "supervisor.max-start-attempts", o.MaxStartAttempts, "Max consecutive start attempts per plugin that do not reach running; once reached, every further start of that plugin is refused.")
	fs.DurationVar(&o.ReadinessPollStart, "supervisor.readiness-poll-start", o.ReadinessPollStart, "Initial backoff interval for the readiness probe.")
}
