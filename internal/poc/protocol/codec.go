package protocol

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/libreassistant/poc/internal/poc/manifest"
	"github.com/libreassistant/poc/pkg/utils/json"
)

// PluginInfo is the slice of a running plugin's descriptor the prompt
// assembly step exposes to the LM.
type PluginInfo struct {
	ID          string
	Description string
	InputFields map[string]manifest.OptionSpec
	SampleUses  []string
}

// Turn is one entry of conversation history fed back into the prompt.
type Turn struct {
	Role    string // "user", "assistant", or "system"
	Content string
}

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// BuildPrompt assembles the system instruction enumerating running
// plugins, followed by the unmodified history.
func BuildPrompt(history []Turn, plugins []PluginInfo) []Turn {
	var sb strings.Builder
	sb.WriteString("You control a set of local plugins. Respond with exactly one JSON document matching:\n")
	sb.WriteString(`{"action":"message","content":{"text":<string>,"markdown":<bool?>}}` + "\n")
	sb.WriteString(`{"action":"plugin_invoke","content":{"plugin":<plugin_id>,"input":<mapping>,"reason":<string>}}` + "\n")
	if len(plugins) == 0 {
		sb.WriteString("No plugins are currently running.\n")
	} else {
		sb.WriteString("Available plugins:\n")
		for _, p := range plugins {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", p.ID, p.Description))
			for name, spec := range p.InputFields {
				sb.WriteString(fmt.Sprintf("    input.%s (%s, required=%v): %s\n", name, spec.Type, spec.Required, spec.Description))
			}
			for _, use := range p.SampleUses {
				sb.WriteString(fmt.Sprintf("    e.g. %s\n", use))
			}
		}
	}

	prompt := make([]Turn, 0, len(history)+1)
	prompt = append(prompt, Turn{Role: "system", Content: sb.String()})
	prompt = append(prompt, history...)
	return prompt
}

// Parse decodes raw LM output, tolerant of wrapping text and fenced code,
// and strictly schema-validates whichever candidate it settles on. On total
// failure it returns a NonCompliant Message carrying the original text —
// never a silent guess at a structured variant.
func Parse(raw string) LMMessage {
	for _, candidate := range candidates(raw) {
		var doc document
		if err := json.Unmarshal([]byte(candidate), &doc); err != nil {
			continue
		}
		msg, err := doc.validate()
		if err != nil {
			continue
		}
		return msg
	}

	return LMMessage{Message: &MessageContent{Text: raw}, NonCompliant: true, RawText: raw}
}

// candidates yields, in order: the trimmed raw text; every fenced block's
// inner content; then every brace-balanced substring found by scanning for
// a top-level '{' and matching its closing '}'.
func candidates(raw string) []string {
	var out []string

	trimmed := strings.TrimSpace(raw)
	if trimmed != "" {
		out = append(out, trimmed)
	}

	for _, m := range fencedBlock.FindAllStringSubmatch(raw, -1) {
		if inner := strings.TrimSpace(m[1]); inner != "" {
			out = append(out, inner)
		}
	}

	out = append(out, braceBalancedSubstrings(raw)...)

	return out
}

// braceBalancedSubstrings scans for every top-level {...} span, handling
// strings and escapes so braces inside JSON string values don't confuse the
// balance count.
func braceBalancedSubstrings(raw string) []string {
	var out []string
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i, r := range raw {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			inString = true
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					out = append(out, raw[start:i+1])
					start = -1
				}
			}
		}
	}
	return out
}
