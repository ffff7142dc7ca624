package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/libreassistant/poc/pkg/logger"
	"github.com/libreassistant/poc/pkg/utils/json"
)

// ManifestFileName is the conventional manifest file name looked for in
// each immediate subdirectory of the plugins root.
const ManifestFileName = "plugin.json"

// Registry holds the immutable set of discovered plugin descriptors. It is
// the exclusive owner of Descriptor values; every other component reads
// through its accessors.
type Registry struct {
	mu          sync.RWMutex
	root        string
	descriptors map[string]Descriptor
	loadErrors  map[string]error
}

// NewRegistry builds a Registry rooted at root. Scan must be called at
// least once before Get/List return anything.
func NewRegistry(root string) *Registry {
	return &Registry{
		root:        root,
		descriptors: make(map[string]Descriptor),
		loadErrors:  make(map[string]error),
	}
}

// Scan is an explicit, re-runnable discovery pass: no filesystem watching.
// It replaces the prior descriptor set wholesale so a re-scan reflects
// additions and removals on disk.
func (r *Registry) Scan() error {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return fmt.Errorf("read plugins root %q: %w", r.root, err)
	}

	descriptors := make(map[string]Descriptor)
	loadErrors := make(map[string]error)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(r.root, entry.Name())
		manifestPath := filepath.Join(dir, ManifestFileName)

		data, err := os.ReadFile(manifestPath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			loadErrors[dir] = fmt.Errorf("read manifest %q: %w", manifestPath, err)
			logger.WarnX("manifest", "skipping %s: %v", dir, loadErrors[dir])
			continue
		}

		var raw rawManifest
		if err := json.Unmarshal(data, &raw); err != nil {
			loadErrors[dir] = &ErrManifestInvalid{Dir: dir, Reason: fmt.Sprintf("malformed JSON: %v", err)}
			logger.WarnX("manifest", "skipping %s: %v", dir, loadErrors[dir])
			continue
		}

		descriptor, err := validate(dir, raw)
		if err != nil {
			loadErrors[dir] = err
			logger.WarnX("manifest", "skipping %s: %v", dir, err)
			continue
		}

		if existing, dup := descriptors[descriptor.ID]; dup {
			loadErrors[dir] = fmt.Errorf("duplicate plugin id %q (already loaded from %s)", descriptor.ID, existing.SourceDir)
			logger.WarnX("manifest", "skipping %s: %v", dir, loadErrors[dir])
			continue
		}

		descriptors[descriptor.ID] = descriptor
	}

	r.mu.Lock()
	r.descriptors = descriptors
	r.loadErrors = loadErrors
	r.mu.Unlock()

	return nil
}

// Get returns the descriptor for id and whether it was found.
func (r *Registry) Get(id string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[id]
	return d, ok
}

// List returns every known descriptor, sorted by id for deterministic
// iteration.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadErrors returns the skip reasons recorded by the most recent Scan,
// keyed by plugin directory.
func (r *Registry) LoadErrors() map[string]error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]error, len(r.loadErrors))
	for k, v := range r.loadErrors {
		out[k] = v
	}
	return out
}

// Len reports the number of successfully loaded descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.descriptors)
}
