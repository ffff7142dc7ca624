package lifecycle

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/libreassistant/poc/internal/poc/manifest"
	"github.com/libreassistant/poc/internal/poc/options"
	"github.com/libreassistant/poc/internal/poc/permission"
	"github.com/libreassistant/poc/internal/poc/supervisor"
	"github.com/libreassistant/poc/internal/poc/tracker"
	"github.com/libreassistant/poc/pkg/utils/json"
)

func writeTestManifest(t *testing.T, root, id string, port int) {
	t.Helper()
	dir := filepath.Join(root, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	body := map[string]interface{}{
		"id": id, "name": id, "version": "1.0.0", "description": "x",
		"author": "acme", "entrypoint": []string{"./run"}, "port": port,
		"permissions": []string{},
	}
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifest.ManifestFileName), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBootScansWithoutAutostartLeavesPluginsDiscovered(t *testing.T) {
	root := t.TempDir()
	writeTestManifest(t, root, "search", 5301)

	registry := manifest.NewRegistry(root)
	gate := permission.NewGate()
	sup := supervisor.New(registry, gate, options.NewSupervisorOptions())
	opts := options.NewManifestOptions()
	opts.PluginsRoot = root
	opts.AutoStart = false

	c := New(registry, gate, sup, tracker.New(10), opts)
	if err := c.Boot(context.Background()); err != nil {
		t.Fatalf("Boot: %v", err)
	}

	if registry.Len() != 1 {
		t.Fatalf("expected 1 discovered plugin, got %d", registry.Len())
	}
	if sup.Status("search").State != supervisor.StateDiscovered {
		t.Fatalf("expected discovered state without autostart, got %v", sup.Status("search").State)
	}
}

func TestRunningPluginsExcludesNonRunningPlugins(t *testing.T) {
	root := t.TempDir()
	writeTestManifest(t, root, "search", 5302)

	registry := manifest.NewRegistry(root)
	gate := permission.NewGate()
	sup := supervisor.New(registry, gate, options.NewSupervisorOptions())
	opts := options.NewManifestOptions()
	opts.PluginsRoot = root

	c := New(registry, gate, sup, tracker.New(10), opts)
	if err := c.Boot(context.Background()); err != nil {
		t.Fatal(err)
	}

	if got := c.RunningPlugins(); len(got) != 0 {
		t.Fatalf("expected no running plugins, got %+v", got)
	}
	if c.IsRunning("search") {
		t.Fatal("expected search to be reported not running")
	}
}

func TestShutdownOnNoRunningPluginsIsNoOp(t *testing.T) {
	root := t.TempDir()
	writeTestManifest(t, root, "search", 5303)

	registry := manifest.NewRegistry(root)
	if err := registry.Scan(); err != nil {
		t.Fatal(err)
	}
	gate := permission.NewGate()
	sup := supervisor.New(registry, gate, options.NewSupervisorOptions())
	opts := options.NewManifestOptions()

	c := New(registry, gate, sup, tracker.New(10), opts)
	c.Shutdown(time.Second)
}

func TestShutdownArchivesActiveSessions(t *testing.T) {
	root := t.TempDir()
	registry := manifest.NewRegistry(root)
	if err := registry.Scan(); err != nil {
		t.Fatal(err)
	}
	gate := permission.NewGate()
	sup := supervisor.New(registry, gate, options.NewSupervisorOptions())
	tr := tracker.New(10)
	opts := options.NewManifestOptions()

	c := New(registry, gate, sup, tr, opts)

	// Simulate a dispatch that is still in flight when the signal arrives.
	session := tr.StartSession("in-flight")
	idx := tr.RecordInvocation(session, "search", nil, "testing shutdown sweep")

	c.Shutdown(time.Second)

	summary := tr.GetSessionSummary()
	if summary.SessionCount != 1 {
		t.Fatalf("expected the in-flight session to be archived, got %d archived sessions", summary.SessionCount)
	}
	records := session.Invocations()
	if !records[idx].Cancelled {
		t.Fatalf("expected open invocation record to be marked cancelled, got %+v", records[idx])
	}
}
