package json

import "encoding/json"

// reindent pretty-prints already-marshaled JSON. sonic does not provide an
// indent mode; this is the only stdlib encoding/json usage in the package,
// reserved for human-facing CLI output where performance is irrelevant.
func reindent(b []byte, prefix, indent string) ([]byte, error) {
	var buf []byte
	dst := &buf
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(v, prefix, indent)
	if err != nil {
		return nil, err
	}
	*dst = out
	return *dst, nil
}
