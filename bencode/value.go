package bencode

import (
	"bytes"
	"math"
	"reflect"
	"sort"
	"unicode/utf8"

	"github.com/elliotchance/orderedmap"
	"github.com/juju/errors"
	"golang.org/x/text/encoding/charmap"
)

// Value is one of String, Int, List or *Dict.
type Value interface {
	bencodeValue()
}

// String is an opaque byte string. It is not necessarily valid text.
type String []byte

// Int is a bencode integer.
type Int int64

// List is an ordered sequence of values.
type List []Value

// Dict maps byte-string keys to values. Keys iterate in insertion order,
// encoding always sorts them.
type Dict struct {
	entries *orderedmap.OrderedMap
}

func (String) bencodeValue() {}
func (Int) bencodeValue()    {}
func (List) bencodeValue()   {}
func (*Dict) bencodeValue()  {}

// Bytes wraps binary data, such as a piece hash block, without any text conversion.
func Bytes(b []byte) String {
	return String(b)
}

// Text wraps a UTF-8 string.
func Text(s string) String {
	return String(s)
}

// Text returns the string and whether it is valid UTF-8.
func (s String) Text() (string, bool) {
	if !utf8.Valid(s) {
		return "", false
	}
	return string(s), true
}

// DisplayText decodes s as UTF-8 and falls back to Latin-1 for invalid sequences.
func (s String) DisplayText() string {
	if str, ok := s.Text(); ok {
		return str
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(s)
	if err != nil {
		return string(bytes.ToValidUTF8(s, []byte("�")))
	}
	return string(decoded)
}

func NewDict() *Dict {
	return &Dict{entries: orderedmap.NewOrderedMap()}
}

func (d *Dict) Set(key string, value Value) {
	d.entries.Set(key, value)
}

func (d *Dict) Get(key string) (Value, bool) {
	v, ok := d.entries.Get(key)
	if !ok {
		return nil, false
	}
	return v.(Value), true
}

func (d *Dict) Delete(key string) bool {
	return d.entries.Delete(key)
}

func (d *Dict) Len() int {
	return d.entries.Len()
}

// Keys returns the keys in insertion order, which for decoded dictionaries is wire order.
func (d *Dict) Keys() []string {
	keys := make([]string, 0, d.entries.Len())
	for el := d.entries.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Key.(string))
	}
	return keys
}

// SortedKeys returns the keys in canonical (byte-wise ascending) order.
func (d *Dict) SortedKeys() []string {
	keys := d.Keys()
	sort.Strings(keys)
	return keys
}

// Equal reports whether a and b hold the same tree. Dictionaries are compared
// by key set, ignoring insertion order.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case String:
		y, ok := b.(String)
		return ok && bytes.Equal(x, y)
	case Int:
		y, ok := b.(Int)
		return ok && x == y
	case List:
		y, ok := b.(List)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Dict:
		y, ok := b.(*Dict)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for _, k := range x.Keys() {
			xv, _ := x.Get(k)
			yv, ok := y.Get(k)
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// FromAny converts native Go values into a Value tree.
func FromAny(obj any) (Value, error) {
	switch v := obj.(type) {
	case Value:
		if d, ok := v.(*Dict); ok && d == nil {
			return nil, errors.Annotate(ErrUnsupportedValueType, "nil *Dict")
		}
		return v, nil
	case string:
		return Text(v), nil
	case []byte:
		return Bytes(v), nil
	case int:
		return Int(v), nil
	case int8:
		return Int(v), nil
	case int16:
		return Int(v), nil
	case int32:
		return Int(v), nil
	case int64:
		return Int(v), nil
	case uint8:
		return Int(v), nil
	case uint16:
		return Int(v), nil
	case uint32:
		return Int(v), nil
	case uint:
		return fromUint(uint64(v))
	case uint64:
		return fromUint(v)
	case uintptr:
		return fromUint(uint64(v))
	case []string:
		l := make(List, 0, len(v))
		for _, s := range v {
			l = append(l, Text(s))
		}
		return l, nil
	case []any:
		l := make(List, 0, len(v))
		for _, item := range v {
			val, err := FromAny(item)
			if err != nil {
				return nil, err
			}
			l = append(l, val)
		}
		return l, nil
	case map[string]any:
		d := NewDict()
		for k, item := range v {
			val, err := FromAny(item)
			if err != nil {
				return nil, errors.Annotatef(err, "key %q", k)
			}
			d.Set(k, val)
		}
		return d, nil
	default:
		return nil, errors.Annotatef(ErrUnsupportedValueType, "%v", reflect.TypeOf(obj))
	}
}

func fromUint(v uint64) (Value, error) {
	if v > math.MaxInt64 {
		return nil, errors.Annotatef(ErrUnsupportedValueType, "%d overflows int64", v)
	}
	return Int(v), nil
}

// ToAny converts a Value tree into []byte, int64, []any and map[string]any.
func ToAny(v Value) any {
	switch x := v.(type) {
	case String:
		return []byte(x)
	case Int:
		return int64(x)
	case List:
		l := make([]any, 0, len(x))
		for _, item := range x {
			l = append(l, ToAny(item))
		}
		return l
	case *Dict:
		m := make(map[string]any, x.Len())
		for _, k := range x.Keys() {
			item, _ := x.Get(k)
			m[k] = ToAny(item)
		}
		return m
	default:
		return nil
	}
}
