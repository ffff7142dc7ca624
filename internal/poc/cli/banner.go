// Package cli holds the small pieces used by the daemon entrypoint: the
// startup banner and exit code constants.
package cli

const bannerText = `
  _     _ _                    _        _       _              _
 | |   (_) |__  _ __ ___      / \   ___ (_)___  | |_ __ _ _ __ | |_
 | |   | | '_ \| '__/ _ \    / _ \ / __|| / __| | __/ _` + "`" + ` | '_ \| __|
 | |___| | |_) | | |  __/   / ___ \\__ \| \__ \ | || (_| | | | | |_
 |_____|_|_.__/|_|  \___|  /_/   \_\___/|_|___/  \__\__,_|_| |_|\__|

          Plugin Orchestration Core
`

// Banner returns the CLI startup banner text.
func Banner() string { return bannerText }

// Exit codes per the recognised process contract: 0 clean shutdown, 64
// configuration error, 65 startup failure, 130 interrupted (SIGINT).
const (
	ExitOK              = 0
	ExitConfigError     = 64
	ExitStartupFailure  = 65
	ExitInterrupted     = 130
)
