package protocol

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// Fingerprint is the deterministic digest of (plugin-id, canonical input)
// used for consecutive-duplicate detection.
type Fingerprint string

// ComputeFingerprint canonicalises input (sorted keys, normalised
// primitives) before hashing, so key-order permutations of the same
// mapping yield equal fingerprints.
func ComputeFingerprint(pluginID string, input map[string]interface{}) Fingerprint {
	canon := canonicalize(input)
	h := sha256.New()
	h.Write([]byte(pluginID))
	h.Write([]byte{0})
	h.Write([]byte(canon))
	return Fingerprint(hex.EncodeToString(h.Sum(nil)))
}

// canonicalize renders a mapping as a string with lexicographically sorted
// keys and stable primitive formatting, independent of map iteration order.
func canonicalize(v interface{}) string {
	switch val := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := "{"
		for i, k := range keys {
			if i > 0 {
				out += ","
			}
			out += fmt.Sprintf("%q:%s", k, canonicalize(val[k]))
		}
		return out + "}"
	case []interface{}:
		out := "["
		for i, e := range val {
			if i > 0 {
				out += ","
			}
			out += canonicalize(e)
		}
		return out + "]"
	case string:
		return fmt.Sprintf("%q", val)
	case nil:
		return "null"
	default:
		// Numbers, bools: fmt's default verb gives a stable textual form
		// regardless of the JSON decoder's numeric representation.
		return fmt.Sprintf("%v", val)
	}
}
