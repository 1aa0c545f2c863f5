package bencode

import (
	"strconv"

	"github.com/juju/errors"
)

// Decode parses the first value in buf. Bytes after that value are ignored.
func Decode(buf []byte) (Value, error) {
	v, _, err := DecodePrefix(buf)
	return v, err
}

// DecodePrefix parses the first value in buf and returns how many bytes it used.
func DecodePrefix(buf []byte) (Value, int, error) {
	d := &decoder{buf: buf}
	v, err := d.decodeAny()
	if err != nil {
		return nil, 0, err
	}
	return v, d.pos, nil
}

// DecodeDict parses a dictionary at the start of buf.
func DecodeDict(buf []byte) (*Dict, int, error) {
	v, n, err := DecodePrefix(buf)
	if err != nil {
		return nil, 0, err
	}
	dict, ok := v.(*Dict)
	if !ok {
		return nil, 0, errors.Trace(ErrNotDict)
	}
	return dict, n, nil
}

// RawValue returns a copy of the exact encoded bytes stored under key in the
// dictionary at the start of buf. A repeated key yields its last occurrence,
// matching the value Decode keeps.
func RawValue(buf []byte, key string) ([]byte, bool, error) {
	d := &decoder{buf: buf}
	c, err := d.peek()
	if err != nil {
		return nil, false, err
	}
	if c != 'd' {
		return nil, false, errors.Trace(ErrNotDict)
	}
	d.pos++
	var raw []byte
	found := false
	for {
		c, err = d.peek()
		if err != nil {
			return nil, false, err
		}
		if c == 'e' {
			return raw, found, nil
		}
		k, err := d.decodeKey()
		if err != nil {
			return nil, false, err
		}
		begin := d.pos
		if _, err = d.decodeAny(); err != nil {
			return nil, false, err
		}
		if string(k) == key {
			raw = make([]byte, d.pos-begin)
			copy(raw, buf[begin:d.pos])
			found = true
		}
	}
}

// decoder holds the cursor for a single decode call.
type decoder struct {
	buf []byte
	pos int
}

func (d *decoder) fail(err error) error {
	return &SyntaxError{Offset: d.pos, Err: err}
}

func (d *decoder) peek() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, d.fail(ErrUnexpectedEnd)
	}
	return d.buf[d.pos], nil
}

func (d *decoder) decodeAny() (Value, error) {
	c, err := d.peek()
	if err != nil {
		return nil, err
	}
	switch c {
	case 'i':
		return d.decodeInt()
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return d.decodeBytes()
	case 'l':
		return d.decodeList()
	case 'd':
		return d.decodeDict()
	default:
		return nil, d.fail(ErrUnknownTypeTag)
	}
}

func (d *decoder) decodeList() (List, error) {
	ret := make(List, 0)
	d.pos++
	for {
		c, err := d.peek()
		if err != nil {
			return nil, err
		}
		if c == 'e' {
			d.pos++
			return ret, nil
		}
		item, err := d.decodeAny()
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
}

func (d *decoder) decodeDict() (*Dict, error) {
	ret := NewDict()
	d.pos++
	for {
		c, err := d.peek()
		if err != nil {
			return nil, err
		}
		if c == 'e' {
			d.pos++
			return ret, nil
		}
		key, err := d.decodeKey()
		if err != nil {
			return nil, err
		}
		item, err := d.decodeAny()
		if err != nil {
			return nil, err
		}
		ret.Set(string(key), item)
	}
}

func (d *decoder) decodeKey() (String, error) {
	begin := d.pos
	key, err := d.decodeAny()
	if err != nil {
		return nil, err
	}
	s, ok := key.(String)
	if !ok {
		d.pos = begin
		return nil, d.fail(ErrInvalidDictKey)
	}
	return s, nil
}

func (d *decoder) decodeBytes() (String, error) {
	begin := d.pos
	i := begin
	for ; i < len(d.buf) && d.buf[i] != ':'; i++ {
		if d.buf[i] < '0' || d.buf[i] > '9' {
			return nil, d.fail(ErrMalformedLength)
		}
	}
	if i >= len(d.buf) {
		d.pos = i
		return nil, d.fail(ErrUnexpectedEnd)
	}
	l, err := strconv.ParseUint(string(d.buf[begin:i]), 10, 31)
	if err != nil {
		return nil, d.fail(ErrMalformedLength)
	}
	d.pos = i + 1
	end := d.pos + int(l)
	if end > len(d.buf) {
		return nil, d.fail(ErrUnexpectedEnd)
	}
	ret := make(String, l)
	copy(ret, d.buf[d.pos:end])
	d.pos = end
	return ret, nil
}

func (d *decoder) decodeInt() (Int, error) {
	d.pos++
	begin := d.pos
	i := begin
	for ; i < len(d.buf) && d.buf[i] != 'e'; i++ {
		c := d.buf[i]
		if (c < '0' || c > '9') && !(c == '-' && i == begin) {
			d.pos = i
			return 0, d.fail(ErrMalformedInteger)
		}
	}
	if i >= len(d.buf) {
		d.pos = i
		return 0, d.fail(ErrUnexpectedEnd)
	}
	ret, err := strconv.ParseInt(string(d.buf[begin:i]), 10, 64)
	if err != nil {
		return 0, d.fail(ErrMalformedInteger)
	}
	d.pos = i + 1
	return Int(ret), nil
}
