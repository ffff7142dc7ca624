package supervisor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/libreassistant/poc/internal/poc/manifest"
)

// spawn starts descriptor's entrypoint with the declared port and id
// handed over as environment variables (PLUGIN_PORT, PLUGIN_ID), plus any
// caller-supplied option values, stdout/stderr captured to per-plugin log
// sinks alongside the manifest.
func spawn(descriptor manifest.Descriptor, env map[string]string) (*exec.Cmd, error) {
	if len(descriptor.Entrypoint) == 0 {
		return nil, fmt.Errorf("plugin %q has an empty entrypoint", descriptor.ID)
	}

	cmd := exec.Command(descriptor.Entrypoint[0], descriptor.Entrypoint[1:]...)
	cmd.Dir = descriptor.SourceDir
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("PLUGIN_PORT=%d", descriptor.Port),
		fmt.Sprintf("PLUGIN_ID=%s", descriptor.ID),
	)
	for k, v := range env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("PLUGIN_OPT_%s=%s", strings.ToUpper(k), v))
	}

	stdout, err := os.OpenFile(logFilePath(descriptor, "stdout"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open stdout sink: %w", err)
	}
	stderr, err := os.OpenFile(logFilePath(descriptor, "stderr"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		stdout.Close()
		return nil, fmt.Errorf("open stderr sink: %w", err)
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		stdout.Close()
		stderr.Close()
		return nil, fmt.Errorf("start %q: %w", descriptor.Entrypoint[0], err)
	}

	return cmd, nil
}

// gracefulStop sends SIGTERM, allowing the plugin to shut down cleanly.
func gracefulStop(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = cmd.Process.Signal(syscall.SIGTERM)
}

// killProcess force-terminates the plugin's process with SIGKILL; processes
// it spawned itself are not signalled.
func killProcess(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = cmd.Process.Signal(syscall.SIGKILL)
	// Give the OS a moment to reap before the caller proceeds.
	time.Sleep(10 * time.Millisecond)
}
