package supervisor

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/libreassistant/poc/internal/poc/manifest"
	"github.com/libreassistant/poc/internal/poc/options"
	"github.com/libreassistant/poc/internal/poc/permission"
)

func writeTestManifest(t *testing.T, root, id string, fields map[string]interface{}) {
	t.Helper()
	dir := filepath.Join(root, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(fields)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifest.ManifestFileName), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestStartFailsOnPortInUse(t *testing.T) {
	root := t.TempDir()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	port := l.Addr().(*net.TCPAddr).Port

	writeTestManifest(t, root, "busy", map[string]interface{}{
		"id": "busy", "name": "Busy", "version": "1.0.0", "description": "x",
		"author": "acme", "entrypoint": []string{"./busy"}, "port": port, "permissions": []string{},
	})

	reg := manifest.NewRegistry(root)
	if err := reg.Scan(); err != nil {
		t.Fatal(err)
	}
	gate := permission.NewGate()
	sup := New(reg, gate, options.NewSupervisorOptions())

	if err := sup.Approve("busy"); err != nil {
		t.Fatal(err)
	}
	_, err = sup.Start(context.Background(), "busy", nil)
	if err == nil {
		t.Fatal("expected PortInUse error")
	}
	if _, ok := err.(*PortInUseError); !ok {
		t.Fatalf("expected *PortInUseError, got %T: %v", err, err)
	}
	if sup.Status("busy").State != StateFailed {
		t.Fatalf("expected failed state, got %s", sup.Status("busy").State)
	}

	// A failed plugin cannot be started or stopped directly; it must be
	// cleared back to stopped first.
	if _, err := sup.Start(context.Background(), "busy", nil); err == nil {
		t.Fatal("expected precondition error starting a failed plugin directly")
	} else if _, ok := err.(*PreconditionError); !ok {
		t.Fatalf("expected *PreconditionError, got %T: %v", err, err)
	}
	if err := sup.Stop(context.Background(), "busy"); err == nil {
		t.Fatal("expected precondition error stopping a failed plugin directly")
	} else if _, ok := err.(*PreconditionError); !ok {
		t.Fatalf("expected *PreconditionError, got %T: %v", err, err)
	}

	if err := sup.Clear("busy"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if sup.Status("busy").State != StateStopped {
		t.Fatalf("expected stopped state after clear, got %s", sup.Status("busy").State)
	}
}

func TestStartDeniedWithoutApproval(t *testing.T) {
	root := t.TempDir()
	writeTestManifest(t, root, "search", map[string]interface{}{
		"id": "search", "name": "Search", "version": "1.0.0", "description": "x",
		"author": "acme", "entrypoint": []string{"./search"}, "port": 5199, "permissions": []string{"network"},
	})
	reg := manifest.NewRegistry(root)
	if err := reg.Scan(); err != nil {
		t.Fatal(err)
	}
	sup := New(reg, permission.NewGate(), options.NewSupervisorOptions())

	_, err := sup.Start(context.Background(), "search", nil)
	if err == nil {
		t.Fatal("expected precondition error: not approved")
	}
	if _, ok := err.(*PreconditionError); !ok {
		t.Fatalf("expected *PreconditionError, got %T: %v", err, err)
	}
}

func TestStopFromDiscoveredIsPreconditionError(t *testing.T) {
	root := t.TempDir()
	writeTestManifest(t, root, "idle", map[string]interface{}{
		"id": "idle", "name": "Idle", "version": "1.0.0", "description": "x",
		"author": "acme", "entrypoint": []string{"./idle"}, "port": 5200, "permissions": []string{},
	})
	reg := manifest.NewRegistry(root)
	if err := reg.Scan(); err != nil {
		t.Fatal(err)
	}
	sup := New(reg, permission.NewGate(), options.NewSupervisorOptions())

	err := sup.Stop(context.Background(), "idle")
	if err == nil {
		t.Fatal("expected precondition error stopping a never-started plugin")
	}
	if _, ok := err.(*PreconditionError); !ok {
		t.Fatalf("expected *PreconditionError, got %T: %v", err, err)
	}
}

func TestReadinessDeadlineZeroFailsImmediately(t *testing.T) {
	err := waitReady(context.Background(), "idle", 1, 0, time.Millisecond)
	if err == nil {
		t.Fatal("expected immediate failure with zero deadline")
	}
	if _, ok := err.(*ReadinessTimeoutError); !ok {
		t.Fatalf("expected *ReadinessTimeoutError, got %T", err)
	}
}
