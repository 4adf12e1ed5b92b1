// Package value defines the tagged-variant representation the field
// walker and validators operate on. Document store adapters translate
// their native representations to and from Value at the boundary so
// the core never depends on a specific store's types.
package value

import "time"

// Kind discriminates the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindTimestamp
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindTimestamp:
		return "timestamp"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is a heterogeneous document value: null, bool, number, string,
// timestamp, an ordered sequence of values, or a string-keyed mapping.
// Exactly one of the fields below is meaningful, selected by Kind.
type Value struct {
	Kind Kind

	boolVal   bool
	numberVal float64
	stringVal string
	timeVal   time.Time
	seqVal    []Value
	mapVal    map[string]Value
}

// Null returns the null value.
func Null() Value { return Value{Kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{Kind: KindBool, boolVal: b} }

// Number wraps a float64 (the store adapters normalize ints/floats
// into this single numeric representation at the boundary).
func Number(n float64) Value { return Value{Kind: KindNumber, numberVal: n} }

// String wraps a string scalar.
func String(s string) Value { return Value{Kind: KindString, stringVal: s} }

// Timestamp wraps a point in time.
func Timestamp(t time.Time) Value { return Value{Kind: KindTimestamp, timeVal: t} }

// Sequence wraps an ordered list of values.
func Sequence(items []Value) Value { return Value{Kind: KindSequence, seqVal: append([]Value(nil), items...)} }

// Mapping wraps a string-keyed map of values.
func Mapping(m map[string]Value) Value {
	cp := make(map[string]Value, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Value{Kind: KindMapping, mapVal: cp}
}

// IsNull reports whether the value is the null variant.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// AsBool returns the boolean payload; ok is false if Kind != KindBool.
func (v Value) AsBool() (b bool, ok bool) {
	return v.boolVal, v.Kind == KindBool
}

// AsNumber returns the numeric payload; ok is false if Kind != KindNumber.
func (v Value) AsNumber() (n float64, ok bool) {
	return v.numberVal, v.Kind == KindNumber
}

// AsString returns the string payload; ok is false if Kind != KindString.
func (v Value) AsString() (s string, ok bool) {
	return v.stringVal, v.Kind == KindString
}

// AsTimestamp returns the time payload; ok is false if Kind != KindTimestamp.
func (v Value) AsTimestamp() (t time.Time, ok bool) {
	return v.timeVal, v.Kind == KindTimestamp
}

// AsSequence returns the backing slice; ok is false if Kind != KindSequence.
// The returned slice is shared with v; callers that mutate must copy.
func (v Value) AsSequence() (items []Value, ok bool) {
	return v.seqVal, v.Kind == KindSequence
}

// AsMapping returns the backing map; ok is false if Kind != KindMapping.
// The returned map is shared with v; callers that mutate must copy.
func (v Value) AsMapping() (m map[string]Value, ok bool) {
	return v.mapVal, v.Kind == KindMapping
}

// IsEmpty reports whether v should be treated as an absent/empty value
// for the purposes of the "missing" verdict (spec §3: "Missing = path
// present in the schema but value empty/absent").
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case KindNull:
		return true
	case KindString:
		return v.stringVal == ""
	default:
		return false
	}
}

// Clone returns a deep copy of v so callers can mutate sequences/maps
// returned by AsSequence/AsMapping without aliasing the original.
func (v Value) Clone() Value {
	switch v.Kind {
	case KindSequence:
		out := make([]Value, len(v.seqVal))
		for i, item := range v.seqVal {
			out[i] = item.Clone()
		}
		return Sequence(out)
	case KindMapping:
		out := make(map[string]Value, len(v.mapVal))
		for k, item := range v.mapVal {
			out[k] = item.Clone()
		}
		return Mapping(out)
	default:
		return v
	}
}
