package protocol

import "testing"

func TestParseRawConformantMessage(t *testing.T) {
	msg := Parse(`{"action":"message","content":{"text":"hello"}}`)
	if msg.NonCompliant {
		t.Fatal("expected compliant parse")
	}
	if msg.Message == nil || msg.Message.Text != "hello" {
		t.Fatalf("expected Message(hello), got %+v", msg)
	}
}

func TestParseFencedJSON(t *testing.T) {
	raw := "Sure:\n```json\n{\"action\":\"message\",\"content\":{\"text\":\"ok\"}}\n```"
	msg := Parse(raw)
	if msg.NonCompliant {
		t.Fatal("expected compliant parse of fenced block")
	}
	if msg.Message == nil || msg.Message.Text != "ok" {
		t.Fatalf("expected Message(ok), got %+v", msg)
	}
}

func TestParseEmbeddedInSurroundingText(t *testing.T) {
	raw := `Let me check that for you. {"action":"plugin_invoke","content":{"plugin":"search","input":{"q":"x"},"reason":"user asked"}} — one moment.`
	msg := Parse(raw)
	if msg.NonCompliant {
		t.Fatal("expected compliant parse")
	}
	if msg.Invoke == nil || msg.Invoke.Plugin != "search" {
		t.Fatalf("expected Invoke(search), got %+v", msg)
	}
}

func TestParseTotalFailureFallsBackToMessage(t *testing.T) {
	raw := "not json at all"
	msg := Parse(raw)
	if !msg.NonCompliant {
		t.Fatal("expected NonCompliant fallback")
	}
	if msg.RawText != raw {
		t.Fatalf("expected raw text preserved, got %q", msg.RawText)
	}
}

func TestFingerprintIsKeyOrderInvariant(t *testing.T) {
	a := ComputeFingerprint("search", map[string]interface{}{"q": "x", "limit": float64(3)})
	b := ComputeFingerprint("search", map[string]interface{}{"limit": float64(3), "q": "x"})
	if a != b {
		t.Fatalf("fingerprints differ across key order: %s vs %s", a, b)
	}
}

func TestFingerprintDiffersByPluginOrInput(t *testing.T) {
	a := ComputeFingerprint("search", map[string]interface{}{"q": "x"})
	b := ComputeFingerprint("search", map[string]interface{}{"q": "y"})
	c := ComputeFingerprint("other", map[string]interface{}{"q": "x"})
	if a == b || a == c {
		t.Fatal("expected distinct fingerprints for distinct (plugin, input) pairs")
	}
}

func TestSerializeParseRoundTrip(t *testing.T) {
	original := LMMessage{Message: &MessageContent{Text: "hi", Markdown: true}}
	data, err := Serialize(original)
	if err != nil {
		t.Fatal(err)
	}
	parsed := Parse(string(data))
	if parsed.Message == nil || parsed.Message.Text != "hi" || !parsed.Message.Markdown {
		t.Fatalf("round-trip mismatch: %+v", parsed)
	}
}
