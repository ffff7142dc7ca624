// Package app provides the cobra-based bootstrap shared by every
// cmd/* entrypoint: an Options-driven root command with consistent
// --config flag wiring and a single RunFunc hook.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/libreassistant/poc/pkg/utils/cliflag"
)

// RunFunc is invoked once flags/config have been bound; basename is the
// process's argv[0] base name, used for default log file naming.
type RunFunc func(basename string) error

// CliOptions is the contract every *Options aggregate must satisfy to be
// wired into an App.
type CliOptions interface {
	Flags() cliflag.NamedFlagSets
	Validate() []error
}

// App wraps a cobra.Command with the conventions this codebase expects.
type App struct {
	name        string
	basename    string
	description string
	options     CliOptions
	runFunc     RunFunc
	validArgs   cobra.PositionalArgs
	cmd         *cobra.Command
}

// Option configures an App during construction.
type Option func(*App)

// WithOptions attaches a CliOptions aggregate whose flags are added to the
// root command and whose Validate() runs before RunFunc.
func WithOptions(opts CliOptions) Option {
	return func(a *App) { a.options = opts }
}

// WithDescription sets the long description shown in --help.
func WithDescription(desc string) Option {
	return func(a *App) { a.description = desc }
}

// WithRunFunc sets the function invoked after flags are parsed and options
// validated.
func WithRunFunc(run RunFunc) Option {
	return func(a *App) { a.runFunc = run }
}

// WithDefaultValidArgs rejects any positional arguments; daemons and CLIs
// alike are flag-driven only.
func WithDefaultValidArgs() Option {
	return func(a *App) { a.validArgs = cobra.NoArgs }
}

// NewApp builds an App named name, with argv0 basename, applying opts.
func NewApp(name, basename string, opts ...Option) *App {
	a := &App{name: name, basename: basename}
	for _, opt := range opts {
		opt(a)
	}
	a.buildCommand()
	return a
}

func (a *App) buildCommand() {
	cmd := &cobra.Command{
		Use:          a.basename,
		Short:        a.name,
		Long:         a.description,
		SilenceUsage: true,
		Args:         a.validArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run()
		},
	}
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	cmd.Flags().SortFlags = false

	var namedFlagSets cliflag.NamedFlagSets
	if a.options != nil {
		namedFlagSets = a.options.Flags()
	}
	configFS := namedFlagSets.FlagSet("global")
	configFS.String("config", "", "Path to a YAML/JSON/TOML config file.")
	cliflag.AddFlagSet(cmd.Flags(), &namedFlagSets)

	a.cmd = cmd
}

func (a *App) run() error {
	if configPath, _ := a.cmd.Flags().GetString("config"); configPath != "" {
		viper.SetConfigFile(configPath)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %q: %w", configPath, err)
		}
		if a.options != nil {
			// Flags set on the command line take precedence over the file.
			if err := viper.BindPFlags(a.cmd.Flags()); err != nil {
				return fmt.Errorf("bind flags: %w", err)
			}
			if err := viper.Unmarshal(a.options); err != nil {
				return fmt.Errorf("apply config %q: %w", configPath, err)
			}
		}
	}

	if a.options != nil {
		if errs := a.options.Validate(); len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintln(os.Stderr, e)
			}
			return fmt.Errorf("%d option validation error(s)", len(errs))
		}
	}

	if a.runFunc == nil {
		return nil
	}
	return a.runFunc(a.basename)
}

// Run parses os.Args and executes the command.
func (a *App) Run() error {
	return a.cmd.Execute()
}

// Flags exposes the underlying pflag.FlagSet, e.g. for sub-registration.
func (a *App) Flags() *pflag.FlagSet {
	return a.cmd.Flags()
}

// Command returns the underlying *cobra.Command.
func (a *App) Command() *cobra.Command {
	return a.cmd
}
