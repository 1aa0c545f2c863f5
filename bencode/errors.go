package bencode

import (
	"fmt"

	"github.com/juju/errors"
)

const (
	// ErrMalformedInput matches every decode-time syntax error.
	ErrMalformedInput = errors.ConstError("malformed bencode input")

	ErrUnexpectedEnd    = errors.ConstError("unexpected end of data")
	ErrMalformedLength  = errors.ConstError("malformed string length")
	ErrMalformedInteger = errors.ConstError("malformed integer")
	ErrInvalidDictKey   = errors.ConstError("dictionary key is not a byte string")
	ErrUnknownTypeTag   = errors.ConstError("unknown type tag")

	ErrUnsupportedValueType = errors.ConstError("unsupported value type")

	ErrNotDict = errors.ConstError("top-level value is not a dictionary")
)

// SyntaxError reports where decoding failed. It unwraps to one of the specific
// decode errors and also matches ErrMalformedInput.
type SyntaxError struct {
	Offset int
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("bencode: %v at offset %d", e.Err, e.Offset)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrMalformedInput
}
