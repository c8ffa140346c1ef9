// Package attribute casts raw JSON:API attribute values into Go values and serializes
// them back for write payloads.
package attribute

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/aalvaropc/munson/internal/domain"
)

// Kind selects the cast applied to raw values.
type Kind string

const (
	Raw     Kind = "raw"
	String  Kind = "string"
	Integer Kind = "integer"
	Float   Kind = "float"
	Decimal Kind = "decimal"
	Date    Kind = "date"
	Time    Kind = "time"
	Custom  Kind = "custom"
)

// Option configures an Attribute.
type Option func(*Attribute)

// Array marks the attribute as array-valued: casts apply element-wise and the
// implicit default is an empty list.
func Array() Option {
	return func(a *Attribute) { a.array = true }
}

// Default sets a literal default; it is deep-cloned on every use.
func Default(v any) Option {
	return func(a *Attribute) { a.defaultValue = v }
}

// DefaultFunc sets a function producing the default value.
func DefaultFunc(fn func() any) Option {
	return func(a *Attribute) { a.defaultFunc = fn }
}

// SerializeWith sets a serializer function used when building write payloads.
func SerializeWith(fn func(any) any) Option {
	return func(a *Attribute) { a.serializeFunc = fn }
}

// SerializeAs selects a named serializer (see Serializers).
func SerializeAs(name string) Option {
	return func(a *Attribute) { a.serializeName = name }
}

// CastWith sets a custom cast function and switches the kind to Custom.
func CastWith(fn func(any) any) Option {
	return func(a *Attribute) {
		a.kind = Custom
		a.castFunc = fn
	}
}

// Attribute holds the cast/serialize/default rules of one field.
type Attribute struct {
	name          string
	kind          Kind
	array         bool
	defaultValue  any
	defaultFunc   func() any
	castFunc      func(any) any
	serializeFunc func(any) any
	serializeName string
}

func New(name string, kind Kind, opts ...Option) *Attribute {
	a := &Attribute{name: name, kind: kind}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Attribute) Name() string { return a.name }
func (a *Attribute) Kind() Kind   { return a.kind }
func (a *Attribute) IsArray() bool {
	return a.array
}

// Process casts a raw JSON value, falling back to the default when it is absent.
func (a *Attribute) Process(raw any) any {
	if raw == nil {
		return a.DefaultValue()
	}
	return a.Cast(raw)
}

// Cast maps slices element-wise and casts scalars.
func (a *Attribute) Cast(raw any) any {
	if raw == nil {
		if a.array {
			return []any{}
		}
		return nil
	}
	if list, ok := raw.([]any); ok {
		out := make([]any, len(list))
		for i, v := range list {
			out[i] = a.castValue(v)
		}
		return out
	}
	if a.array {
		if list, ok := raw.([]string); ok {
			out := make([]any, len(list))
			for i, v := range list {
				out[i] = a.castValue(v)
			}
			return out
		}
	}
	return a.castValue(raw)
}

func (a *Attribute) castValue(v any) any {
	if v == nil {
		return nil
	}

	switch a.kind {
	case Custom:
		if a.castFunc == nil {
			return v
		}
		return a.castFunc(v)
	case String:
		return toString(v)
	case Integer:
		return toInt(v)
	case Float:
		return toFloat(v)
	case Decimal:
		return toDecimal(v)
	case Date:
		t, ok := toTime(v)
		if !ok {
			return nil
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	case Time:
		t, ok := toTime(v)
		if !ok {
			return nil
		}
		return t
	default:
		return v
	}
}

// Serialize converts a Go value back to its JSON representation.
func (a *Attribute) Serialize(v any) any {
	if a.serializeFunc != nil {
		return a.serializeFunc(v)
	}
	if a.serializeName != "" {
		if fn, ok := Serializers[a.serializeName]; ok {
			return fn(v)
		}
	}
	// *big.Rat would otherwise marshal as a fraction.
	if r, ok := v.(*big.Rat); ok {
		return toString(r)
	}
	return v
}

// DefaultValue returns the configured default.
func (a *Attribute) DefaultValue() any {
	if a.defaultFunc != nil {
		return a.defaultFunc()
	}
	if a.defaultValue != nil {
		return domain.Clone(a.defaultValue)
	}
	if a.array {
		return []any{}
	}
	return nil
}

// Serializers are the named serializers available to SerializeAs.
var Serializers = map[string]func(any) any{
	"to_s":    func(v any) any { return toString(v) },
	"to_i":    func(v any) any { return toInt(v) },
	"to_f":    func(v any) any { return toFloat(v) },
	"iso8601": serializeTime(time.RFC3339Nano),
	"date":    serializeTime("2006-01-02"),
}

func serializeTime(layout string) func(any) any {
	return func(v any) any {
		if t, ok := v.(time.Time); ok {
			return t.Format(layout)
		}
		return v
	}
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case *big.Rat:
		return t.FloatString(decimalPlaces(t))
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func toInt(v any) int64 {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case int64:
		return t
	case float32:
		return int64(t)
	case float64:
		return int64(t)
	case bool:
		if t {
			return 1
		}
		return 0
	case *big.Rat:
		f, _ := t.Float64()
		return int64(f)
	default:
		n, _ := strconv.ParseInt(numericPrefix(toString(v), false), 10, 64)
		return n
	}
}

func toFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case *big.Rat:
		f, _ := t.Float64()
		return f
	default:
		f, _ := strconv.ParseFloat(numericPrefix(toString(v), true), 64)
		return f
	}
}

func toDecimal(v any) *big.Rat {
	if r, ok := v.(*big.Rat); ok {
		return new(big.Rat).Set(r)
	}
	r, ok := new(big.Rat).SetString(strings.TrimSpace(toString(v)))
	if !ok {
		return new(big.Rat)
	}
	return r
}

// decimalPlaces picks enough digits to print a decimal exactly when it terminates.
func decimalPlaces(r *big.Rat) int {
	if r.IsInt() {
		return 0
	}
	s := r.FloatString(32)
	s = strings.TrimRight(s, "0")
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

// numericPrefix returns the leading numeric part of s ("12abc" -> "12"), or "0".
func numericPrefix(s string, allowFraction bool) string {
	s = strings.TrimSpace(s)
	end := 0
	seenDot := false
	for i, r := range s {
		switch {
		case unicode.IsDigit(r):
			end = i + 1
		case (r == '-' || r == '+') && i == 0:
		case r == '.' && allowFraction && !seenDot:
			seenDot = true
		default:
			if end == 0 {
				return "0"
			}
			return s[:end]
		}
	}
	if end == 0 {
		return "0"
	}
	return s[:end]
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	"January 2, 2006",
	"Jan 2 2006",
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}
