package supervisor

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/libreassistant/poc/internal/poc/manifest"
	"github.com/libreassistant/poc/internal/poc/options"
	"github.com/libreassistant/poc/internal/poc/permission"
	"github.com/libreassistant/poc/pkg/logger"
)

// Supervisor owns every plugin's State and RuntimeHandle. Operations on a
// given plugin are serialised via a per-plugin mutex; independent plugins
// progress in parallel.
type Supervisor struct {
	registry *manifest.Registry
	gate     *permission.Gate
	opts     *options.SupervisorOptions

	mu      sync.Mutex // guards plugMus creation only
	plugMus map[string]*sync.Mutex

	stateMu       sync.RWMutex
	states        map[string]State
	handles       map[string]*RuntimeHandle
	startAttempts map[string]int
}

type exitTracker struct {
	done chan struct{}
	err  error
}

// New builds a Supervisor over registry, consulting gate before every
// start.
func New(registry *manifest.Registry, gate *permission.Gate, opts *options.SupervisorOptions) *Supervisor {
	return &Supervisor{
		registry:      registry,
		gate:          gate,
		opts:          opts,
		plugMus:       make(map[string]*sync.Mutex),
		states:        make(map[string]State),
		handles:       make(map[string]*RuntimeHandle),
		startAttempts: make(map[string]int),
	}
}

func (s *Supervisor) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.plugMus[id]
	if !ok {
		m = &sync.Mutex{}
		s.plugMus[id] = m
	}
	return m
}

func (s *Supervisor) stateOf(id string) State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	if st, ok := s.states[id]; ok {
		return st
	}
	return StateDiscovered
}

func (s *Supervisor) setState(id string, st State) {
	s.stateMu.Lock()
	s.states[id] = st
	s.stateMu.Unlock()
}

// Status returns a consistent (state, handle) snapshot for id.
func (s *Supervisor) Status(id string) Status {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	st := s.states[id]
	if st == "" {
		st = StateDiscovered
	}
	out := Status{PluginID: id, State: st, RestartCount: s.startAttempts[id]}
	if h, ok := s.handles[id]; ok {
		out.Port = h.Port
		out.LastError = h.LastError
		if !h.StartedAt.IsZero() && (st == StateRunning || st == StateStopping) {
			out.Uptime = time.Since(h.StartedAt)
		}
		out.RestartCount = h.RestartCount
	}
	return out
}

// Approve transitions a discovered plugin to approved, provided the
// Permission Gate is satisfied for its declared permissions.
func (s *Supervisor) Approve(id string) error {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	descriptor, ok := s.registry.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlugin, id)
	}
	if !s.gate.IsSatisfied(descriptor) {
		return ErrPermissionDenied
	}
	s.setState(id, StateApproved)
	return nil
}

// Clear moves a failed plugin back to stopped so it can be started again.
func (s *Supervisor) Clear(id string) error {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	if s.stateOf(id) != StateFailed {
		return &PreconditionError{PluginID: id, State: s.stateOf(id), Op: "clear"}
	}
	s.setState(id, StateStopped)
	return nil
}

// Start launches the plugin's entrypoint, probes readiness, and returns the
// bound port on success.
func (s *Supervisor) Start(ctx context.Context, id string, env map[string]string) (int, error) {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	descriptor, ok := s.registry.Get(id)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownPlugin, id)
	}

	current := s.stateOf(id)
	if current != StateApproved && current != StateStopped {
		return 0, &PreconditionError{PluginID: id, State: current, Op: "start"}
	}
	if !s.gate.IsSatisfied(descriptor) {
		return 0, ErrPermissionDenied
	}

	s.stateMu.RLock()
	attempts := s.startAttempts[id]
	s.stateMu.RUnlock()
	if attempts >= s.opts.MaxStartAttempts {
		return 0, fmt.Errorf("plugin %q: exceeded max start attempts (%d)", id, s.opts.MaxStartAttempts)
	}

	if err := checkPortFree(descriptor.Port); err != nil {
		portErr := &PortInUseError{PluginID: id, Port: descriptor.Port}
		s.fail(id, portErr)
		return 0, portErr
	}

	s.setState(id, StateStarting)
	s.stateMu.Lock()
	s.startAttempts[id] = attempts + 1
	s.stateMu.Unlock()

	cmd, err := spawn(descriptor, env)
	if err != nil {
		s.fail(id, fmt.Errorf("spawn: %w", err))
		return 0, err
	}

	tracker := &exitTracker{done: make(chan struct{})}
	go func() {
		tracker.err = cmd.Wait()
		close(tracker.done)
	}()

	handle := &RuntimeHandle{Cmd: cmd, Port: descriptor.Port, StartedAt: time.Now()}
	s.stateMu.Lock()
	s.handles[id] = handle
	s.stateMu.Unlock()

	readyErr := waitReady(ctx, id, descriptor.Port, s.opts.ReadinessDeadline, s.opts.ReadinessPollStart)

	select {
	case <-tracker.done:
		// Process exited before (or exactly as) readiness was confirmed.
		err := fmt.Errorf("plugin %q exited before becoming ready: %w", id, tracker.err)
		s.fail(id, err)
		return 0, err
	default:
	}

	if readyErr != nil {
		killProcess(cmd)
		<-tracker.done
		s.fail(id, readyErr)
		return 0, readyErr
	}

	s.setState(id, StateRunning)
	s.stateMu.Lock()
	s.startAttempts[id] = 0
	s.stateMu.Unlock()
	go s.monitor(id, tracker)

	return descriptor.Port, nil
}

// monitor waits for the subprocess to exit and reconciles state: an exit
// while running is a crash; an exit while stopping is the expected path and
// is handled by Stop itself, which polls for the process's exit.
func (s *Supervisor) monitor(id string, tracker *exitTracker) {
	<-tracker.done
	if s.stateOf(id) == StateRunning {
		logger.WarnX("supervisor", "plugin %q exited unexpectedly: %v", id, tracker.err)
		s.fail(id, fmt.Errorf("crash detected: %w", tracker.err))
	}
}

func (s *Supervisor) fail(id string, cause error) {
	s.stateMu.Lock()
	if h, ok := s.handles[id]; ok {
		h.LastError = cause
		h.RestartCount++
	}
	s.stateMu.Unlock()
	s.setState(id, StateFailed)
}

// Stop gracefully terminates the plugin, waiting up to the configured stop
// deadline before force-killing. A stop on an already-stopped plugin is a
// no-op and does not change state.
func (s *Supervisor) Stop(ctx context.Context, id string) error {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	current := s.stateOf(id)
	if current == StateStopped {
		return nil
	}
	if current != StateRunning {
		return &PreconditionError{PluginID: id, State: current, Op: "stop"}
	}

	s.stateMu.RLock()
	handle, ok := s.handles[id]
	s.stateMu.RUnlock()
	if !ok || handle.Cmd == nil || handle.Cmd.Process == nil {
		s.setState(id, StateStopped)
		return nil
	}

	s.setState(id, StateStopping)

	gracefulStop(handle.Cmd)

	done := make(chan struct{})
	go func() {
		// The exit-tracker goroutine started by Start already owns
		// cmd.Wait(); we only need to
		// know when the process is gone, which a zero-signal poll answers
		// without a second Wait() call.
		for {
			if handle.Cmd.ProcessState != nil {
				close(done)
				return
			}
			if err := handle.Cmd.Process.Signal(syscall.Signal(0)); err != nil {
				close(done)
				return
			}
			select {
			case <-ctx.Done():
				close(done)
				return
			case <-time.After(25 * time.Millisecond):
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(s.opts.StopDeadline):
		killProcess(handle.Cmd)
		<-done
	}

	s.setState(id, StateStopped)
	return nil
}

// Restart stops then starts the plugin, reusing Start's preconditions for
// the second half.
func (s *Supervisor) Restart(ctx context.Context, id string, env map[string]string) (int, error) {
	if err := s.Stop(ctx, id); err != nil {
		return 0, err
	}
	return s.Start(ctx, id, env)
}

// Descriptor exposes the underlying registry lookup for callers that need
// the plugin's static metadata alongside its runtime status.
func (s *Supervisor) Descriptor(id string) (manifest.Descriptor, bool) {
	return s.registry.Get(id)
}

func logFilePath(descriptor manifest.Descriptor, stream string) string {
	return filepath.Join(descriptor.SourceDir, fmt.Sprintf(".%s.log", stream))
}
