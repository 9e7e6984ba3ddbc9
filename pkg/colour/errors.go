package colour

import (
	"errors"
	"fmt"
)

// Error kinds reported by palette codecs. Use errors.Is to test for them.
var (
	// ErrMalformedInput is returned when decoding input that violates the
	// structure or value ranges of its format.
	ErrMalformedInput = errors.New("malformed input")

	// ErrUnsupportedValue is returned when encoding a palette holding data the
	// target format cannot represent.
	ErrUnsupportedValue = errors.New("unsupported value")
)

// FormatError describes a failure of a single decode or encode call.
type FormatError struct {
	// Format is the codec name, e.g. "ase".
	Format string
	// Kind is ErrMalformedInput or ErrUnsupportedValue.
	Kind error
	// Offset is the byte (or, for text formats, line) position, or -1.
	Offset int
	// Msg describes the failure.
	Msg string
	// Err is an optional underlying cause.
	Err error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Format, e.Kind)
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" at offset %d", e.Offset)
	}
	msg += ": " + e.Msg
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is the error kind.
func (e *FormatError) Is(target error) bool {
	return target == e.Kind
}

// Unwrap returns the underlying cause.
func (e *FormatError) Unwrap() error {
	return e.Err
}

// Malformed returns an ErrMalformedInput error for codec at offset.
func Malformed(codec string, offset int, format string, args ...any) error {
	return &FormatError{Format: codec, Kind: ErrMalformedInput, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// MalformedErr is Malformed with an underlying cause.
func MalformedErr(codec string, offset int, err error, format string, args ...any) error {
	return &FormatError{Format: codec, Kind: ErrMalformedInput, Offset: offset, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Unsupported returns an ErrUnsupportedValue error for codec.
func Unsupported(codec string, format string, args ...any) error {
	return &FormatError{Format: codec, Kind: ErrUnsupportedValue, Offset: -1, Msg: fmt.Sprintf(format, args...)}
}

// UnsupportedErr is Unsupported with an underlying cause.
func UnsupportedErr(codec string, err error, format string, args ...any) error {
	return &FormatError{Format: codec, Kind: ErrUnsupportedValue, Offset: -1, Msg: fmt.Sprintf(format, args...), Err: err}
}

// CheckEncodable validates p for an encoder: it must be non-nil and every
// value must be in range.
func CheckEncodable(codec string, p *Palette) error {
	if p == nil {
		return Unsupported(codec, "nil palette")
	}
	if err := p.Validate(); err != nil {
		return UnsupportedErr(codec, err, "invalid palette")
	}
	return nil
}
