package forthic

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind discriminates the payload a Value carries.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindRecord
	KindDatetime

	// kindArrayStart is an internal sentinel pushed by '[' and removed by
	// the matching ']'; it exists precisely so that a real KindNull can
	// legitimately appear as an array element. A '[' with no ']' leaves it
	// on the stack, where it renders as "<arrayStart>".
	kindArrayStart
)

// Value is the tagged variant every stack slot, variable binding, array
// element, and record value inhabits.
type Value struct {
	kind Kind

	b bool
	i int64
	f float64
	s string
	a []Value
	r map[string]Value
	d DateTime
}

// Null is the zero Value.
var Null = Value{kind: KindNull}

func arrayStart() Value { return Value{kind: kindArrayStart} }

func Bool(b bool) Value   { return Value{kind: KindBool, b: b} }
func Int(i int64) Value   { return Value{kind: KindInt, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array takes ownership of elems; callers should not retain a reference to
// the slice they pass in if they intend the normal single-owner discipline.
func Array(elems []Value) Value { return Value{kind: KindArray, a: elems} }

// Record takes ownership of the supplied map.
func Record(fields map[string]Value) Value {
	if fields == nil {
		fields = map[string]Value{}
	}
	return Value{kind: KindRecord, r: fields}
}

func Datetime(dt DateTime) Value { return Value{kind: KindDatetime, d: dt} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool  { return v.kind == KindNull }
func (v Value) IsArrayStart() bool { return v.kind == kindArrayStart }

func (v Value) AsBool() bool         { return v.b }
func (v Value) AsInt() int64         { return v.i }
func (v Value) AsFloat() float64     { return v.f }
func (v Value) AsString() string     { return v.s }
func (v Value) AsArray() []Value     { return v.a }
func (v Value) AsRecord() map[string]Value { return v.r }
func (v Value) AsDatetime() DateTime { return v.d }

// Clone produces an independent deep copy of v: arrays and records are
// recursively copied so that mutating the clone never affects v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		elems := make([]Value, len(v.a))
		for i, e := range v.a {
			elems[i] = e.Clone()
		}
		return Value{kind: KindArray, a: elems}
	case KindRecord:
		fields := make(map[string]Value, len(v.r))
		for k, val := range v.r {
			fields[k] = val.Clone()
		}
		return Value{kind: KindRecord, r: fields}
	default:
		return v
	}
}

// Drop releases v's subtree. On a garbage-collected host this is a no-op
// for reachability purposes, but it nils out v's own slice/map fields so
// that a caller who drops a Value and then (incorrectly) keeps using the
// same variable sees an empty/null value rather than silently continuing
// to share state with whatever the Value was handed off to.
func (v *Value) Drop() {
	v.a = nil
	v.r = nil
	*v = Null
}

const floatEpsilon = 1e-9

func numeric(v Value) (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// Equal implements the equality discipline: numeric cases coerce
// int<->float via epsilon-bounded float comparison; everything else
// requires matching kinds, and arrays/records compare structurally.
func Equal(a, b Value) bool {
	if af, aok := numeric(a); aok {
		if bf, bok := numeric(b); bok {
			return math.Abs(af-bf) <= floatEpsilon
		}
		return false
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.s == b.s
	case KindDatetime:
		return a.d == b.d
	case KindArray:
		if len(a.a) != len(b.a) {
			return false
		}
		for i := range a.a {
			if !Equal(a.a[i], b.a[i]) {
				return false
			}
		}
		return true
	case KindRecord:
		if len(a.r) != len(b.r) {
			return false
		}
		for k, av := range a.r {
			bv, ok := b.r[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Truthy implements the truthiness discipline.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindString:
		return v.s != ""
	case KindArray:
		return len(v.a) > 0
	case KindRecord:
		return len(v.r) > 0
	case KindDatetime:
		return true
	default:
		return false
	}
}

// Empty reports whether v is null or an empty string, the discipline used
// by DEFAULT/*DEFAULT.
func (v Value) Empty() bool {
	return v.kind == KindNull || (v.kind == KindString && v.s == "")
}

// String renders v for diagnostics, tracing, and the REPL's result echo.
// It is not a serialization format.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindBool:
		if v.b {
			return "TRUE"
		}
		return "FALSE"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindArray:
		parts := make([]string, len(v.a))
		for i, e := range v.a {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	case KindRecord:
		keys := make([]string, 0, len(v.r))
		for k := range v.r {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s: %s", k, v.r[k].String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindDatetime:
		return v.d.String()
	default:
		return "<arrayStart>"
	}
}
