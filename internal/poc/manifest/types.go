// Package manifest implements the Manifest Registry: discovery, parsing,
// and validation of plugin manifests into immutable descriptors.
package manifest

import "fmt"

// Capability is a permission string drawn from a closed vocabulary.
type Capability string

const (
	CapabilityFileRead  Capability = "file-read"
	CapabilityFileWrite Capability = "file-write"
	CapabilityNetwork   Capability = "network"
	CapabilityExec      Capability = "exec"
	CapabilityClipboard Capability = "clipboard"
)

var knownCapabilities = map[Capability]struct{}{
	CapabilityFileRead:  {},
	CapabilityFileWrite: {},
	CapabilityNetwork:   {},
	CapabilityExec:      {},
	CapabilityClipboard: {},
}

// IsKnownCapability reports whether c belongs to the closed vocabulary.
func IsKnownCapability(c Capability) bool {
	_, ok := knownCapabilities[c]
	return ok
}

// OptionSpec describes one user-configurable plugin option.
type OptionSpec struct {
	Type        string      `json:"type"`
	Required    bool        `json:"required"`
	Default     interface{} `json:"default,omitempty"`
	Description string      `json:"description,omitempty"`
}

// rawManifest is the on-disk shape; unknown fields are ignored by the JSON
// decoder by default, matching the "unknown fields are ignored" rule.
type rawManifest struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Version     string                `json:"version"`
	Description string                `json:"description"`
	Author      string                `json:"author"`
	Entrypoint  []string              `json:"entrypoint"`
	Port        int                   `json:"port"`
	Permissions []string              `json:"permissions"`
	Options     map[string]OptionSpec `json:"options,omitempty"`
	License     string                `json:"license,omitempty"`
	Homepage    string                `json:"homepage,omitempty"`
}

// Descriptor is the immutable, validated plugin metadata the rest of the
// core reads by value. Once returned from the registry it is never mutated.
type Descriptor struct {
	ID          string
	Name        string
	Version     string
	Description string
	Author      string
	Entrypoint  []string
	Port        int
	Permissions []Capability
	Options     map[string]OptionSpec
	License     string
	Homepage    string

	// SourceDir is the directory the manifest was loaded from; not part of
	// the manifest document itself but required by the Supervisor to set
	// the subprocess's working directory.
	SourceDir string
}

// HasPermission reports whether the descriptor declares capability c.
func (d Descriptor) HasPermission(c Capability) bool {
	for _, p := range d.Permissions {
		if p == c {
			return true
		}
	}
	return false
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s@%s (port %d)", d.ID, d.Version, d.Port)
}
