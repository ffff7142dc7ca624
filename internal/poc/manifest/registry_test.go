package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, root, dir, body string) {
	t.Helper()
	full := filepath.Join(root, dir)
	if err := os.MkdirAll(full, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(full, ManifestFileName), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRegistryScanLoadsValidAndSkipsInvalid(t *testing.T) {
	root := t.TempDir()

	writeManifest(t, root, "search", `{
		"id":"search","name":"Search","version":"1.0.0","description":"web search",
		"author":"acme","entrypoint":["./search"],"port":5101,"permissions":["network"]
	}`)
	writeManifest(t, root, "bad-port", `{
		"id":"bad-port","name":"Bad","version":"1.0.0","description":"x",
		"author":"acme","entrypoint":["./bad"],"port":80,"permissions":[]
	}`)
	writeManifest(t, root, "bad-perm", `{
		"id":"bad-perm","name":"Bad","version":"1.0.0","description":"x",
		"author":"acme","entrypoint":["./bad"],"port":5102,"permissions":["root-access"]
	}`)
	writeManifest(t, root, "no-manifest-here", "")
	if err := os.Remove(filepath.Join(root, "no-manifest-here", ManifestFileName)); err != nil {
		t.Fatal(err)
	}

	reg := NewRegistry(root)
	if err := reg.Scan(); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if reg.Len() != 1 {
		t.Fatalf("expected 1 valid plugin, got %d (errors: %v)", reg.Len(), reg.LoadErrors())
	}
	d, ok := reg.Get("search")
	if !ok {
		t.Fatal("expected search descriptor")
	}
	if d.Port != 5101 {
		t.Errorf("port = %d, want 5101", d.Port)
	}
	if !d.HasPermission(CapabilityNetwork) {
		t.Error("expected network permission")
	}

	errs := reg.LoadErrors()
	if len(errs) != 2 {
		t.Fatalf("expected 2 load errors, got %d: %v", len(errs), errs)
	}
}

func TestRegistryScanIsIdempotentAndReplacesPriorSet(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "a", `{
		"id":"a","name":"A","version":"1.0.0","description":"x",
		"author":"acme","entrypoint":["./a"],"port":5101,"permissions":[]
	}`)

	reg := NewRegistry(root)
	if err := reg.Scan(); err != nil {
		t.Fatal(err)
	}
	if reg.Len() != 1 {
		t.Fatalf("expected 1 plugin, got %d", reg.Len())
	}

	if err := os.RemoveAll(filepath.Join(root, "a")); err != nil {
		t.Fatal(err)
	}
	if err := reg.Scan(); err != nil {
		t.Fatal(err)
	}
	if reg.Len() != 0 {
		t.Fatalf("expected 0 plugins after removal + rescan, got %d", reg.Len())
	}
}

func TestReparseYieldsEqualDescriptor(t *testing.T) {
	root := t.TempDir()
	body := `{
		"id":"search","name":"Search","version":"1.0.0","description":"web search",
		"author":"acme","entrypoint":["./search"],"port":5101,"permissions":["network"]
	}`
	writeManifest(t, root, "search", body)

	reg1 := NewRegistry(root)
	if err := reg1.Scan(); err != nil {
		t.Fatal(err)
	}
	d1, _ := reg1.Get("search")

	reg2 := NewRegistry(root)
	if err := reg2.Scan(); err != nil {
		t.Fatal(err)
	}
	d2, _ := reg2.Get("search")

	if d1.ID != d2.ID || d1.Port != d2.Port || d1.Version != d2.Version {
		t.Errorf("re-parse produced a different descriptor: %+v vs %+v", d1, d2)
	}
}
