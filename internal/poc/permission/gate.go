// Package permission implements the Permission Gate: the user-approved
// capability set per plugin, mutated only via explicit approval.
package permission

import (
	"sync"

	"github.com/libreassistant/poc/internal/poc/manifest"
)

// Gate holds approved capabilities per plugin id.
type Gate struct {
	mu       sync.RWMutex
	approved map[string]map[manifest.Capability]struct{}
}

// NewGate builds an empty Gate; nothing is approved by default.
func NewGate() *Gate {
	return &Gate{approved: make(map[string]map[manifest.Capability]struct{})}
}

// Approve grants capabilities to pluginID, merging with any prior grant.
func (g *Gate) Approve(pluginID string, capabilities ...manifest.Capability) {
	g.mu.Lock()
	defer g.mu.Unlock()
	set, ok := g.approved[pluginID]
	if !ok {
		set = make(map[manifest.Capability]struct{})
		g.approved[pluginID] = set
	}
	for _, c := range capabilities {
		set[c] = struct{}{}
	}
}

// Revoke removes previously granted capabilities from pluginID.
func (g *Gate) Revoke(pluginID string, capabilities ...manifest.Capability) {
	g.mu.Lock()
	defer g.mu.Unlock()
	set, ok := g.approved[pluginID]
	if !ok {
		return
	}
	for _, c := range capabilities {
		delete(set, c)
	}
}

// IsSatisfied reports whether descriptor's declared permissions are a
// subset of pluginID's approved set.
func (g *Gate) IsSatisfied(descriptor manifest.Descriptor) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	set := g.approved[descriptor.ID]
	for _, want := range descriptor.Permissions {
		if _, ok := set[want]; !ok {
			return false
		}
	}
	return true
}

// AutoApproveAll grants every permission descriptor declares. Intended only
// for the explicit local-config autostart path (spec'd as security
// sensitive); callers must gate this behind an explicit config flag.
func (g *Gate) AutoApproveAll(descriptor manifest.Descriptor) {
	g.Approve(descriptor.ID, descriptor.Permissions...)
}

// Approved returns a snapshot of pluginID's currently approved capabilities.
func (g *Gate) Approved(pluginID string) []manifest.Capability {
	g.mu.RLock()
	defer g.mu.RUnlock()
	set := g.approved[pluginID]
	out := make([]manifest.Capability, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}
