// Package domain holds the lead-scoring value types shared by the scorer,
// the report renderer and the analyses store.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Attributes is an ordered, open mapping from attribute name to a JSON
// scalar (float64, string, bool or nil). Nested JSON values are kept as
// decoded by encoding/json. Order is the order keys were first set, which
// for decoded payloads is the order of the submitted object.
type Attributes struct {
	keys   []string
	values map[string]any
}

// NewAttributes builds attributes from alternating key/value pairs.
// It panics on an odd number of arguments or a non-string key.
func NewAttributes(pairs ...any) Attributes {
	if len(pairs)%2 != 0 {
		panic("domain.NewAttributes: odd number of arguments")
	}
	var a Attributes
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("domain.NewAttributes: key %v is not a string", pairs[i]))
		}
		a.Set(key, pairs[i+1])
	}
	return a
}

// Set stores value under key. An existing key keeps its position.
// Go integer and float32 values are widened to float64 so that Number
// treats them like decoded JSON numbers.
func (a *Attributes) Set(key string, value any) {
	if a.values == nil {
		a.values = make(map[string]any)
	}
	if _, exists := a.values[key]; !exists {
		a.keys = append(a.keys, key)
	}
	a.values[key] = normalizeValue(value)
}

// Get returns the raw value for key.
func (a Attributes) Get(key string) (any, bool) {
	v, ok := a.values[key]
	return v, ok
}

// Has reports whether key is present, including explicit nulls.
func (a Attributes) Has(key string) bool {
	_, ok := a.values[key]
	return ok
}

// Number returns the value for key when it is a JSON number.
func (a Attributes) Number(key string) (float64, bool) {
	v, ok := a.values[key].(float64)
	return v, ok
}

// String returns the value for key when it is a JSON string.
func (a Attributes) String(key string) (string, bool) {
	v, ok := a.values[key].(string)
	return v, ok
}

// Keys returns attribute names in order.
func (a Attributes) Keys() []string {
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// Len returns the number of attributes.
func (a Attributes) Len() int {
	return len(a.keys)
}

// Text renders the value for key the way it appears in reports.
// Absent and null values render as "N/A".
func (a Attributes) Text(key string) string {
	v, ok := a.values[key]
	if !ok {
		return "N/A"
	}
	return FormatValue(v)
}

// FormatValue renders a single attribute value as plain text.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "N/A"
	case string:
		return t
	case float64:
		return FormatNumber(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

// FormatNumber prints the shortest decimal form of v (80, 0.65, 92.893).
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Canonicalize returns a copy in which dot spellings of economic indicators
// are renamed to their underscore spelling. When both spellings are present
// the underscore value wins and the canonical key takes the position of
// whichever spelling appeared first.
func (a Attributes) Canonicalize() Attributes {
	var out Attributes
	for _, key := range a.keys {
		canonical := CanonicalKey(key)
		if canonical == key {
			out.Set(key, a.values[key])
			continue
		}
		if underscore, ok := a.values[canonical]; ok {
			if !out.Has(canonical) {
				out.Set(canonical, underscore)
			}
			continue
		}
		out.Set(canonical, a.values[key])
	}
	return out
}

// Clone returns an independent copy.
func (a Attributes) Clone() Attributes {
	var out Attributes
	for _, key := range a.keys {
		out.Set(key, a.values[key])
	}
	return out
}

// Without returns a copy that omits the given keys.
func (a Attributes) Without(keys ...string) Attributes {
	skip := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		skip[k] = struct{}{}
	}
	var out Attributes
	for _, key := range a.keys {
		if _, drop := skip[key]; drop {
			continue
		}
		out.Set(key, a.values[key])
	}
	return out
}

// UnmarshalJSON decodes a JSON object while keeping key order.
// Duplicate keys keep their first position and their last value.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	*a = Attributes{}
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("lead attributes must be a JSON object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("lead attributes: unexpected key %v", keyTok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("lead attributes: field %q: %w", key, err)
		}
		a.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON encodes attributes as a JSON object in order.
func (a Attributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range a.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(a.values[key])
		if err != nil {
			return nil, fmt.Errorf("lead attributes: field %q: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// TitleKey turns an attribute name into a table label: underscores become
// spaces and the first word character after any non-word character is
// upper-cased ("day_of_week" → "Day Of Week", "emp.var.rate" → "Emp.Var.Rate").
func TitleKey(key string) string {
	src := strings.ReplaceAll(key, "_", " ")
	var b strings.Builder
	b.Grow(len(src))
	prevWord := false
	for i := 0; i < len(src); i++ {
		c := src[i]
		word := isWordByte(c)
		if word && !prevWord && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		b.WriteByte(c)
		prevWord = word
	}
	return b.String()
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case float32:
		return float64(t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}
