package table

import (
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
)

// Kind tags the shape of a property value.
type Kind uint8

const (
	KindMissing Kind = iota
	KindNull
	KindBool
	KindInt
	KindString
	KindSoftObjectPath
	// KindOther covers floats, arrays and objects acepatch never rewrites.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindSoftObjectPath:
		return "soft-object-path"
	default:
		return "other"
	}
}

// SoftObjectPath is the engine's reference to an asset by path. Empty
// PackageName and SubPath are written as JSON null.
type SoftObjectPath struct {
	PackageName string
	AssetName   string
	SubPath     string
}

// Value is a property payload. Build values with the constructors below and
// read them back with the As* accessors, which report whether the value has
// the requested shape.
type Value struct {
	kind Kind
	b    bool
	i    int64
	s    string
	path SoftObjectPath
	raw  string
}

func Null() Value { return Value{kind: KindNull, raw: "null"} }
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }
func Int(i int64) Value { return Value{kind: KindInt, i: i} }
func String(s string) Value { return Value{kind: KindString, s: s} }
func Path(p SoftObjectPath) Value { return Value{kind: KindSoftObjectPath, path: p} }

// Kind returns the value's shape.
func (v Value) Kind() Kind { return v.kind }

// Exists is false for a property without a Value key.
func (v Value) Exists() bool { return v.kind != KindMissing }

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInt
}

func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

func (v Value) AsPath() (SoftObjectPath, bool) {
	return v.path, v.kind == KindSoftObjectPath
}

// Truthy follows the loose truthiness the game data relies on for flags:
// false, 0, "", null and missing are false.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindString:
		return v.s != ""
	case KindMissing, KindNull:
		return false
	default:
		return true
	}
}

// ToInt coerces scalars to an integer: ints as-is, numeric strings and
// whole floats converted. Null, missing and structured values fail.
func (v Value) ToInt() (int64, error) {
	switch v.kind {
	case KindInt:
		return v.i, nil
	case KindString:
		if strings.TrimSpace(v.s) == "" {
			return 0, &coercionError{kind: v.kind, raw: v.Raw()}
		}
		return cast.ToInt64E(strings.TrimSpace(v.s))
	case KindBool:
		return cast.ToInt64E(v.b)
	case KindOther:
		res := gjson.Parse(v.raw)
		if res.Type == gjson.Number {
			f := res.Float()
			if f == float64(int64(f)) {
				return int64(f), nil
			}
		}
		return 0, &coercionError{kind: v.kind, raw: v.raw}
	default:
		return 0, &coercionError{kind: v.kind, raw: v.Raw()}
	}
}

// Raw returns the value as JSON text.
func (v Value) Raw() string {
	switch v.kind {
	case KindMissing:
		return ""
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindString:
		return quote(v.s)
	case KindSoftObjectPath:
		return string(canonicalPath(v.path))
	default:
		return v.raw
	}
}

// String renders the value for logs and CLI output.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindSoftObjectPath:
		return v.path.AssetName
	default:
		return v.Raw()
	}
}

type coercionError struct {
	kind Kind
	raw  string
}

func (e *coercionError) Error() string {
	if e.raw == "" {
		return "cannot coerce " + e.kind.String() + " value to int"
	}
	return "cannot coerce " + e.kind.String() + " value " + e.raw + " to int"
}

// parseValue maps a decoded JSON node onto a Value.
func parseValue(res gjson.Result) Value {
	if !res.Exists() {
		return Value{}
	}
	switch res.Type {
	case gjson.Null:
		return Null()
	case gjson.True:
		return Bool(true)
	case gjson.False:
		return Bool(false)
	case gjson.String:
		return String(res.String())
	case gjson.Number:
		if i, err := strconv.ParseInt(res.Raw, 10, 64); err == nil {
			return Int(i)
		}
		return Value{kind: KindOther, raw: res.Raw}
	}
	if res.IsObject() {
		if asset := res.Get("AssetPath"); asset.IsObject() {
			return Path(SoftObjectPath{
				PackageName: asset.Get("PackageName").String(),
				AssetName:   asset.Get("AssetName").String(),
				SubPath:     res.Get("SubPathString").String(),
			})
		}
	}
	return Value{kind: KindOther, raw: res.Raw}
}
