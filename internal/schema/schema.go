// Package schema extracts semantic values from loosely-typed upstream
// responses. The collaborators behind the orchestrator disagree on key names
// and nesting, so every field is read through an ordered list of candidate
// accessors instead of a fixed struct. Extraction never fails: a value that
// cannot be found or coerced is reported as absent, not as an error.
package schema

import (
	"encoding/json"
	"strconv"
)

// Field is an ordered list of candidate keys for one semantic value. The
// first key present with a non-nil value wins. New upstream schema variants
// are handled by appending a key, not by adding conditionals at call sites.
type Field struct {
	keys   []string
	nested []hop
}

// hop descends into a wrapper object and retries an inner field there, for
// shapes like {"categoria": {"id": 3}}.
type hop struct {
	wrapper Field
	inner   Field
}

func NewField(keys ...string) Field {
	return Field{keys: keys}
}

// WithNested returns a copy of f that, when no direct key matches, looks for
// the wrapper field and retries the inner field inside it.
func (f Field) WithNested(wrapper, inner Field) Field {
	f.nested = append(f.nested[:len(f.nested):len(f.nested)], hop{wrapper: wrapper, inner: inner})
	return f
}

// Raw returns the first non-nil value among the candidate keys.
func (f Field) Raw(record map[string]any) (any, bool) {
	if record == nil {
		return nil, false
	}
	for _, k := range f.keys {
		if v, ok := record[k]; ok && v != nil {
			return v, true
		}
	}
	for _, h := range f.nested {
		if v, ok := h.wrapper.Raw(record); ok {
			if m, ok := v.(map[string]any); ok {
				if nv, ok := h.inner.Raw(m); ok {
					return nv, true
				}
			}
		}
	}
	return nil, false
}

// String returns the value coerced to a string, or def when absent.
func (f Field) String(record map[string]any, def string) string {
	v, ok := f.Raw(record)
	if !ok {
		return def
	}
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return def
}

// Float returns the value coerced to a float64, or def on absence or any
// conversion failure.
func (f Field) Float(record map[string]any, def float64) float64 {
	v, ok := f.Raw(record)
	if !ok {
		return def
	}
	return ToFloat(v, def)
}

// Int returns the value coerced to an int. The second return reports whether
// a usable value was found; callers skip records that fail, they never error.
func (f Field) Int(record map[string]any) (int, bool) {
	v, ok := f.Raw(record)
	if !ok {
		return 0, false
	}
	return ToInt(v)
}

// ToFloat coerces v to a float64, returning def on any failure.
func ToFloat(v any, def float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	}
	return def
}

// ToInt coerces v to an int, tolerating numeric strings and JSON floats.
func ToInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if f, err := n.Float64(); err == nil {
			return int(f), true
		}
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return int(f), true
		}
	}
	return 0, false
}

// Address collections come back as a bare list, a wrapper object holding a
// list under some key, or a single address object. idLike/contentLike decide
// whether a map is one address rather than a wrapper.
var (
	idLike      = []string{"id_direccion", "direccion_id", "id"}
	contentLike = []string{"direccion", "ciudad", "codigo_postal"}
)

// NormalizeList always yields a list of records. It is idempotent and never
// fails; inputs it cannot make sense of become an empty list.
func NormalizeList(v any) []any {
	switch val := v.(type) {
	case []any:
		return val
	case map[string]any:
		if hasAny(val, idLike) && hasAny(val, contentLike) {
			return []any{val}
		}
		for _, inner := range val {
			if list, ok := inner.([]any); ok {
				return list
			}
		}
	}
	return []any{}
}

func hasAny(m map[string]any, keys []string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

// AsRecord narrows a decoded JSON value to an object, or nil.
func AsRecord(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}
