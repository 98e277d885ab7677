package models

// Engine-reserved attribute fields (spec.md §3: "Word record").
const (
	FieldOriginalKey = "original_key"
	FieldCount       = "count"
)

// WordAttrs is the accessor contract every word record must satisfy,
// whether it is backed by a mutable map or an immutable tuple-like
// struct. Both variants expose get(field, default); WithField returns a
// possibly-new record with field set, since struct-backed records cannot
// be mutated in place.
type WordAttrs interface {
	Get(field string, def any) any
	WithField(field string, value any) WordAttrs
	Clone() WordAttrs
}

// MapRecord is a mutable key->value record, the common case for word
// dictionaries assembled by hand or decoded from loosely-typed JSON.
type MapRecord map[string]any

func (m MapRecord) Get(field string, def any) any {
	if v, ok := m[field]; ok && v != nil {
		return v
	}
	return def
}

// WithField mutates the record in place and returns it, matching the
// "mutable key->value map" variant described in spec.md §3.
func (m MapRecord) WithField(field string, value any) WordAttrs {
	m[field] = value
	return m
}

func (m MapRecord) Clone() WordAttrs {
	clone := make(MapRecord, len(m))
	for k, v := range m {
		clone[k] = v
	}
	return clone
}

// TupleRecord is an immutable tuple-like record, the counterpart of the
// NamedTuple word value used by the original loader. Context and Display
// hold caller-defined attributes; OriginalKey and Count are the two
// engine-reserved fields.
type TupleRecord struct {
	Context     any
	Display     any
	Count       int
	OriginalKey string
}

func (t TupleRecord) Get(field string, def any) any {
	switch field {
	case FieldCount:
		return t.Count
	case FieldOriginalKey:
		if t.OriginalKey == "" {
			return def
		}
		return t.OriginalKey
	case "context":
		return t.Context
	case "display":
		return t.Display
	default:
		return def
	}
}

// WithField returns a replacement record with field set, since
// TupleRecord values are immutable once constructed.
func (t TupleRecord) WithField(field string, value any) WordAttrs {
	switch field {
	case FieldCount:
		if v, ok := value.(int); ok {
			t.Count = v
		}
	case FieldOriginalKey:
		if v, ok := value.(string); ok {
			t.OriginalKey = v
		}
	}
	return t
}

func (t TupleRecord) Clone() WordAttrs {
	return t
}
