// Package canon defines the language-neutral value tree that fixture inputs and
// options are reduced to before they are written to disk.
//
// A Value is always one of: null, bool, int, float, string, an ordered sequence
// of Values, or an ordered string-keyed Map of Values. A Map whose first key is a
// discriminator set to true is a tagged struct and records which native shape
// the tree was derived from.
package canon

import (
	"fmt"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindSeq
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSeq:
		return "seq"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Discriminators of the tagged structs written to fixtures.
const (
	TagRecordArray = "__tabulate_numpy_recarray__"
	TagDataFrame   = "__tabulate_dataframe__"
)

// Value is an immutable canonical value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	seq  []Value
	m    *Map
}

func Null() Value { return Value{} }
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }
func Int(i int64) Value { return Value{kind: KindInt, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func String(s string) Value { return Value{kind: KindString, s: s} }
func Seq(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindSeq, seq: items}
}

// Strings is shorthand for a sequence of string values.
func Strings(items ...string) Value {
	seq := make([]Value, len(items))
	for i, s := range items {
		seq[i] = String(s)
	}
	return Seq(seq...)
}

// FromMap wraps m as a Value. A nil map becomes an empty map.
func FromMap(m *Map) Value {
	if m == nil {
		m = NewMap()
	}
	return Value{kind: KindMap, m: m}
}

// Tagged starts a tagged struct whose discriminator is tag.
func Tagged(tag string) *Map {
	m := NewMap()
	m.Set(tag, Bool(true))
	return m
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }
func (v Value) AsBool() bool { return v.b }
func (v Value) AsInt() int64 { return v.i }
func (v Value) AsFloat() float64 { return v.f }
func (v Value) AsString() string { return v.s }

// Items returns the elements of a sequence, or nil for other kinds.
func (v Value) Items() []Value { return v.seq }

// Map returns the map of a map value, or nil for other kinds.
func (v Value) Map() *Map { return v.m }

// Len is the element count of a sequence or map and 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindSeq:
		return len(v.seq)
	case KindMap:
		return v.m.Len()
	default:
		return 0
	}
}

// Tag reports the discriminator of a tagged struct.
func (v Value) Tag() (string, bool) {
	if v.kind != KindMap || v.m.Len() == 0 {
		return "", false
	}
	key := v.m.keys[0]
	if !strings.HasPrefix(key, "__") || !strings.HasSuffix(key, "__") {
		return "", false
	}
	if d := v.m.vals[key]; d.kind != KindBool || !d.b {
		return "", false
	}
	return key, true
}

// Interface converts v back to plain Go values: nil, bool, int64, float64,
// string, []any and *Map (maps keep their order).
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindSeq:
		out := make([]any, len(v.seq))
		for i, item := range v.seq {
			out[i] = item.Interface()
		}
		return out
	case KindMap:
		return v.m
	default:
		return nil
	}
}

// Equal reports deep equality. Map key order is significant.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f || (v.f != v.f && o.f != o.f)
	case KindString:
		return v.s == o.s
	case KindSeq:
		if len(v.seq) != len(o.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(o.seq[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return v.m.Equal(o.m)
	}
	return false
}

func (v Value) String() string {
	data, err := Marshal(v)
	if err != nil {
		return fmt.Sprintf("<%s: %v>", v.kind, err)
	}
	return string(data)
}
