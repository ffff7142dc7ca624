package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

// HTTPOptions configures the REST surface bound over the POC.
type HTTPOptions struct {
	BindAddress string `json:"bind-address" mapstructure:"bind-address"`
	SqlitePath  string `json:"sqlite-path" mapstructure:"sqlite-path"`
}

func NewHTTPOptions() *HTTPOptions {
	return &HTTPOptions{
		BindAddress: "127.0.0.1:8742",
		SqlitePath:  "",
	}
}

func (o *HTTPOptions) Validate() []error {
	var errs []error
	if o.BindAddress == "" {
		errs = append(errs, fmt.Errorf("http.bind-address must not be empty"))
	}
	return errs
}

func (o *HTTPOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.BindAddress, "http.bind-address", o.BindAddress, "Address the POC HTTP surface listens on.")
	fs.StringVar(&o.SqlitePath, "http.sqlite-path", o.SqlitePath, "Optional sqlite file for chat-history persistence; empty disables it.")
}
