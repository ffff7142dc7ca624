package main

import (
	"math/rand"
	"os"
	"time"

	"github.com/libreassistant/poc/internal/poc/ctl"
)

func main() {
	rand.New(rand.NewSource(time.Now().UTC().UnixNano()))

	if err := ctl.NewDefaultLibreAssistantCtlCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
