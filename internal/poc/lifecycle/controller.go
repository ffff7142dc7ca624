// Package lifecycle implements the Lifecycle Controller: process-wide
// init (scan + optional autostart) and teardown (concurrent stop +
// session archival) independent of any single request.
package lifecycle

import (
	"context"
	"sync"
	"time"

	"github.com/libreassistant/poc/internal/poc/manifest"
	"github.com/libreassistant/poc/internal/poc/options"
	"github.com/libreassistant/poc/internal/poc/permission"
	"github.com/libreassistant/poc/internal/poc/protocol"
	"github.com/libreassistant/poc/internal/poc/supervisor"
	"github.com/libreassistant/poc/internal/poc/tracker"
	"github.com/libreassistant/poc/pkg/logger"
)

// Controller owns process-wide init/teardown of the plugin fleet.
type Controller struct {
	Registry   *manifest.Registry
	Gate       *permission.Gate
	Supervisor *supervisor.Supervisor
	Tracker    *tracker.Tracker
	opts       *options.ManifestOptions
}

// New builds a Controller over an already-constructed registry/gate/
// supervisor/tracker quadruple.
func New(registry *manifest.Registry, gate *permission.Gate, sup *supervisor.Supervisor, tr *tracker.Tracker, opts *options.ManifestOptions) *Controller {
	return &Controller{Registry: registry, Gate: gate, Supervisor: sup, Tracker: tr, opts: opts}
}

// Boot runs the Manifest Registry scan and, if configured, autostarts every
// discovered plugin serially with a small inter-start delay. Individual
// start failures are logged, never abort siblings.
func (c *Controller) Boot(ctx context.Context) error {
	if err := c.Registry.Scan(); err != nil {
		return err
	}

	if !c.opts.Effective() {
		return nil
	}

	for _, d := range c.Registry.List() {
		if c.opts.AutoApproveAll {
			c.Gate.AutoApproveAll(d)
		}
		if err := c.Supervisor.Approve(d.ID); err != nil {
			logger.WarnX("lifecycle", "autostart: approve %q: %v", d.ID, err)
			continue
		}
		if _, err := c.Supervisor.Start(ctx, d.ID, nil); err != nil {
			logger.WarnX("lifecycle", "autostart: start %q: %v", d.ID, err)
			continue
		}
		logger.InfoX("lifecycle", "autostarted plugin %q", d.ID)

		delay := time.Duration(c.opts.InterStartDelayMS) * time.Millisecond
		if delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return nil
}

// Shutdown stops every running plugin concurrently, bounded by deadline,
// then archives every still-active Usage Tracker session so no in-flight
// dispatch is silently dropped.
func (c *Controller) Shutdown(deadline time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), deadline)
	defer cancel()

	var wg sync.WaitGroup
	for _, d := range c.Registry.List() {
		st := c.Supervisor.Status(d.ID)
		if st.State != supervisor.StateRunning {
			continue
		}
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := c.Supervisor.Stop(ctx, id); err != nil {
				logger.WarnX("lifecycle", "shutdown: stop %q: %v", id, err)
			}
		}(d.ID)
	}
	wg.Wait()

	if c.Tracker != nil {
		c.Tracker.ArchiveAll()
	}
}

// RunningPlugins implements dispatcher.PluginSource.
func (c *Controller) RunningPlugins() []protocol.PluginInfo {
	var out []protocol.PluginInfo
	for _, d := range c.Registry.List() {
		if c.Supervisor.Status(d.ID).State != supervisor.StateRunning {
			continue
		}
		out = append(out, protocol.PluginInfo{
			ID:          d.ID,
			Description: d.Description,
			InputFields: d.Options,
		})
	}
	return out
}

// IsRunning implements dispatcher.PluginSource.
func (c *Controller) IsRunning(pluginID string) bool {
	return c.Supervisor.Status(pluginID).State == supervisor.StateRunning
}
