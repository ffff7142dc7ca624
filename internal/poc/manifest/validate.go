package manifest

import (
	"fmt"
	"regexp"
)

var idPattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// ErrManifestInvalid wraps every manifest validation failure; the Manifest
// Registry records it against the offending directory and proceeds with the
// rest of the scan.
type ErrManifestInvalid struct {
	Dir    string
	Reason string
}

func (e *ErrManifestInvalid) Error() string {
	return fmt.Sprintf("manifest invalid in %s: %s", e.Dir, e.Reason)
}

func validate(dir string, raw rawManifest) (Descriptor, error) {
	switch {
	case raw.Name == "":
		return Descriptor{}, &ErrManifestInvalid{Dir: dir, Reason: "missing name"}
	case raw.ID == "":
		return Descriptor{}, &ErrManifestInvalid{Dir: dir, Reason: "missing id"}
	case !idPattern.MatchString(raw.ID):
		return Descriptor{}, &ErrManifestInvalid{Dir: dir, Reason: fmt.Sprintf("id %q must be lowercase, hyphen-separated", raw.ID)}
	case raw.Version == "":
		return Descriptor{}, &ErrManifestInvalid{Dir: dir, Reason: "missing version"}
	case raw.Description == "":
		return Descriptor{}, &ErrManifestInvalid{Dir: dir, Reason: "missing description"}
	case raw.Author == "":
		return Descriptor{}, &ErrManifestInvalid{Dir: dir, Reason: "missing author"}
	case len(raw.Entrypoint) == 0:
		return Descriptor{}, &ErrManifestInvalid{Dir: dir, Reason: "missing entrypoint"}
	case raw.Port < 1024 || raw.Port > 65535:
		return Descriptor{}, &ErrManifestInvalid{Dir: dir, Reason: fmt.Sprintf("port %d out of range [1024,65535]", raw.Port)}
	}

	perms := make([]Capability, 0, len(raw.Permissions))
	for _, p := range raw.Permissions {
		capability := Capability(p)
		if !IsKnownCapability(capability) {
			return Descriptor{}, &ErrManifestInvalid{Dir: dir, Reason: fmt.Sprintf("unknown capability %q", p)}
		}
		perms = append(perms, capability)
	}

	return Descriptor{
		ID:          raw.ID,
		Name:        raw.Name,
		Version:     raw.Version,
		Description: raw.Description,
		Author:      raw.Author,
		Entrypoint:  append([]string(nil), raw.Entrypoint...),
		Port:        raw.Port,
		Permissions: perms,
		Options:     raw.Options,
		License:     raw.License,
		Homepage:    raw.Homepage,
		SourceDir:   dir,
	}, nil
}
