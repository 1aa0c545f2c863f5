package bencode

import (
	"bytes"
	"reflect"
	"strconv"

	"github.com/juju/errors"
)

// Encode serializes v into canonical bencode.
func Encode(v Value) ([]byte, error) {
	buf := bytes.Buffer{}
	err := EncodeTo(&buf, v)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Marshal converts native Go values with FromAny and encodes the result.
func Marshal(obj any) ([]byte, error) {
	v, err := FromAny(obj)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return Encode(v)
}

// EncodeTo appends the encoding of v to buf. On error buf may hold a partial encoding.
func EncodeTo(buf *bytes.Buffer, v Value) error {
	switch item := v.(type) {
	case String:
		encodeBytes(buf, item)
	case Int:
		encodeInt(buf, int64(item))
	case List:
		return encodeList(buf, item)
	case *Dict:
		if item == nil {
			return errors.Annotate(ErrUnsupportedValueType, "nil *Dict")
		}
		return encodeDict(buf, item)
	default:
		return errors.Annotatef(ErrUnsupportedValueType, "%v", reflect.TypeOf(v))
	}
	return nil
}

func encodeInt(buf *bytes.Buffer, val int64) {
	buf.WriteByte('i')
	buf.WriteString(strconv.FormatInt(val, 10))
	buf.WriteByte('e')
}

func encodeBytes(buf *bytes.Buffer, data []byte) {
	buf.WriteString(strconv.Itoa(len(data)))
	buf.WriteByte(':')
	buf.Write(data)
}

func encodeString(buf *bytes.Buffer, val string) {
	buf.WriteString(strconv.Itoa(len(val)))
	buf.WriteByte(':')
	buf.WriteString(val)
}

func encodeList(buf *bytes.Buffer, list List) error {
	buf.WriteByte('l')
	for _, item := range list {
		err := EncodeTo(buf, item)
		if err != nil {
			return err
		}
	}
	buf.WriteByte('e')
	return nil
}

func encodeDict(buf *bytes.Buffer, d *Dict) error {
	buf.WriteByte('d')
	for _, k := range d.SortedKeys() {
		encodeString(buf, k)
		v, _ := d.Get(k)
		err := EncodeTo(buf, v)
		if err != nil {
			return errors.Annotatef(err, "key %q", k)
		}
	}
	buf.WriteByte('e')
	return nil
}
