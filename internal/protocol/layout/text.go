package layout

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// ParseValue reads the textual form of a value for f: decimal or 0x-prefixed
// integers, hex for bytes fields.
func ParseValue(f Field, raw string) (Value, error) {
	raw = strings.TrimSpace(raw)
	if f.Kind == KindBytes {
		b, err := hex.DecodeString(strings.TrimPrefix(raw, "0x"))
		if err != nil {
			return Value{}, fmt.Errorf("field %s: %w", f.Name, err)
		}
		return Value{Bytes: b}, nil
	}
	n, err := strconv.ParseUint(raw, 0, 64)
	if err != nil {
		return Value{}, fmt.Errorf("field %s: %w", f.Name, err)
	}
	return Value{Uint: n}, nil
}

// FormatValue is the inverse of ParseValue; integers print as hex.
func FormatValue(f Field, v Value) string {
	if f.Kind == KindBytes {
		return hex.EncodeToString(v.Bytes)
	}
	return fmt.Sprintf("%#x", v.Uint)
}
