package hash

import (
	"bytes"
	"encoding/json"
	"fmt"
	"hash/fnv"
)

// Payload fingerprints a raw JSON argument object with FNV-1a 64-bit, ignoring
// insignificant whitespace. Invalid JSON is hashed verbatim.
func Payload(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err == nil {
		raw = buf.Bytes()
	}

	h := fnv.New64a()
	h.Write(raw) // nolint:errcheck
	return fmt.Sprintf("%x", h.Sum64())
}
