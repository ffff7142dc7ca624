package permission

import (
	"testing"

	"github.com/libreassistant/poc/internal/poc/manifest"
)

func TestIsSatisfiedRequiresSubsetOfApproved(t *testing.T) {
	g := NewGate()
	d := manifest.Descriptor{ID: "search", Permissions: []manifest.Capability{manifest.CapabilityNetwork}}

	if g.IsSatisfied(d) {
		t.Fatal("expected unsatisfied before approval")
	}

	g.Approve("search", manifest.CapabilityNetwork)
	if !g.IsSatisfied(d) {
		t.Fatal("expected satisfied after approval")
	}
}

func TestAutoApproveAllGrantsDeclaredPermissions(t *testing.T) {
	g := NewGate()
	d := manifest.Descriptor{
		ID:          "fs",
		Permissions: []manifest.Capability{manifest.CapabilityFileRead, manifest.CapabilityFileWrite},
	}
	g.AutoApproveAll(d)
	if !g.IsSatisfied(d) {
		t.Fatal("expected satisfied after auto-approve-all")
	}
}

func TestRevokeRemovesCapability(t *testing.T) {
	g := NewGate()
	d := manifest.Descriptor{ID: "search", Permissions: []manifest.Capability{manifest.CapabilityNetwork}}
	g.Approve("search", manifest.CapabilityNetwork)
	g.Revoke("search", manifest.CapabilityNetwork)
	if g.IsSatisfied(d) {
		t.Fatal("expected unsatisfied after revoke")
	}
}
