// Package json re-exports bytedance/sonic behind the encoding/json-shaped
// calling convention the rest of the codebase expects, so call sites never
// import either library directly.
package json

import "github.com/bytedance/sonic"

var (
	Marshal       = sonic.Marshal
	Unmarshal     = sonic.Unmarshal
	MarshalString = sonic.MarshalString
	UnmarshalString = sonic.UnmarshalString
)

// MarshalIndent mirrors encoding/json.MarshalIndent; sonic has no direct
// equivalent, so this falls back to marshal-then-indent via the stdlib only
// for pretty-printing (never on a hot path).
func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	b, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	return reindent(b, prefix, indent)
}
