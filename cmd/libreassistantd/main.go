package main

import (
	"errors"
	"math/rand"
	"os"
	"time"

	"github.com/libreassistant/poc/internal/poc/cli"
	"github.com/libreassistant/poc/internal/poc/daemon"
)

func main() {
	rand.New(rand.NewSource(time.Now().UTC().UnixNano()))

	if err := daemon.NewApp("libreassistantd").Run(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	var cfgErr *daemon.ConfigError
	if errors.As(err, &cfgErr) {
		return cli.ExitConfigError
	}
	var startupErr *daemon.StartupError
	if errors.As(err, &startupErr) {
		return cli.ExitStartupFailure
	}
	return 1
}
