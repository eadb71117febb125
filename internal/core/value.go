package core

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Options is the figure configuration as supplied by callers: option names
// mapped to JSON-like values.
type Options map[string]any

type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
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
	case KindList:
		return "list"
	case KindMap:
		return "map"
	}
	return "unknown"
}

// Value is the closed set of shapes a figure option may take. Map keys are
// kept sorted so that two semantically equal configurations serialize to the
// same text regardless of the order they were built in.
type Value struct {
	kind   Kind
	b      bool
	text   string
	list   []Value
	keys   []string
	fields map[string]Value
}

func Null() Value               { return Value{kind: KindNull} }
func Bool(b bool) Value         { return Value{kind: KindBool, b: b} }
func String(s string) Value     { return Value{kind: KindString, text: s} }
func List(items ...Value) Value { return Value{kind: KindList, list: items} }

func Int(i int64) Value {
	return Value{kind: KindNumber, text: strconv.FormatInt(i, 10)}
}

func Float(f float64) (Value, error) {
	text, err := formatFloat(f)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: KindNumber, text: text}, nil
}

func Map(fields map[string]Value) Value {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return Value{kind: KindMap, keys: keys, fields: fields}
}

func (v Value) Kind() Kind { return v.kind }

// FromAny converts decoded JSON/YAML data or plain Go values into a Value.
// Anything outside the closed set (functions, channels, NaN, non-string map
// keys, ...) fails with ErrSerialization.
func FromAny(in any) (Value, error) {
	switch x := in.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case Options:
		return fromStringMap(x)
	case map[string]any:
		return fromStringMap(x)
	case map[any]any:
		fields := make(map[string]Value, len(x))
		for k, item := range x {
			key, ok := k.(string)
			if !ok {
				return Value{}, fmt.Errorf("%w: map key %v is %T, not string", ErrSerialization, k, k)
			}
			v, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", key, err)
			}
			fields[key] = v
		}
		return Map(fields), nil
	case []any:
		items := make([]Value, 0, len(x))
		for i, item := range x {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, v)
		}
		return List(items...), nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case json.Number:
		return numberFromLiteral(string(x))
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return Value{kind: KindNumber, text: strconv.FormatUint(uint64(x), 10)}, nil
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return Value{kind: KindNumber, text: strconv.FormatUint(x, 10)}, nil
	case float32:
		return floatValue(float64(x))
	case float64:
		return floatValue(x)
	}
	return fromReflect(reflect.ValueOf(in))
}

func fromStringMap(m map[string]any) (Value, error) {
	fields := make(map[string]Value, len(m))
	for k, item := range m {
		v, err := FromAny(item)
		if err != nil {
			return Value{}, fmt.Errorf("%s: %w", k, err)
		}
		fields[k] = v
	}
	return Map(fields), nil
}

func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return FromAny(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null(), nil
		}
		items := make([]Value, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			v, err := FromAny(rv.Index(i).Interface())
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, v)
		}
		return List(items...), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, fmt.Errorf("%w: map key type %s", ErrSerialization, rv.Type().Key())
		}
		fields := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := iter.Key().String()
			v, err := FromAny(iter.Value().Interface())
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", key, err)
			}
			fields[key] = v
		}
		return Map(fields), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Value{kind: KindNumber, text: strconv.FormatUint(rv.Uint(), 10)}, nil
	case reflect.Float32, reflect.Float64:
		return floatValue(rv.Float())
	case reflect.Invalid:
		return Null(), nil
	}
	return Value{}, fmt.Errorf("%w: unsupported type %s", ErrSerialization, rv.Type())
}

func floatValue(f float64) (Value, error) {
	v, err := Float(f)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return v, nil
}

func numberFromLiteral(lit string) (Value, error) {
	lit = strings.TrimSpace(lit)
	if !strings.ContainsAny(lit, ".eE") {
		if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return Int(i), nil
		}
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: invalid number %q", ErrSerialization, lit)
	}
	return floatValue(f)
}

// formatFloat renders numerically equal floats identically: whole values
// that fit an int64 exactly render as integers, everything else in the
// shortest round-trip form, switching to exponent notation outside
// [1e-4, 1e16).
func formatFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("non-finite number %v", f)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10), nil
	}
	exp := int(math.Floor(math.Log10(math.Abs(f))))
	if exp < -4 || exp >= 16 {
		return strconv.FormatFloat(f, 'e', -1, 64), nil
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

// Canonical returns the deterministic text form: JSON with recursively sorted
// keys, ", " and ": " separators and non-ASCII characters escaped.
func (v Value) Canonical() string {
	var sb strings.Builder
	v.writeCanonical(&sb)
	return sb.String()
}

func (v Value) writeCanonical(sb *strings.Builder) {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		if v.b {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case KindNumber:
		sb.WriteString(v.text)
	case KindString:
		writeQuoted(sb, v.text)
	case KindList:
		sb.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				sb.WriteString(", ")
			}
			item.writeCanonical(sb)
		}
		sb.WriteByte(']')
	case KindMap:
		sb.WriteByte('{')
		for i, k := range v.keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeQuoted(sb, k)
			sb.WriteString(": ")
			v.fields[k].writeCanonical(sb)
		}
		sb.WriteByte('}')
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(v.Canonical()), nil
}

func writeQuoted(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			switch {
			case r >= 0x20 && r <= 0x7e:
				sb.WriteRune(r)
			case r < 0x10000:
				fmt.Fprintf(sb, `\u%04x`, r)
			default:
				hi, lo := utf16.EncodeRune(r)
				fmt.Fprintf(sb, `\u%04x\u%04x`, hi, lo)
			}
		}
	}
	sb.WriteByte('"')
}
