// Package cursor provides bounds-checked big-endian reading and writing over
// in-memory byte buffers for the binary palette codecs.
package cursor

import (
	"encoding/binary"
	"math"

	"github.com/justjanne/palettelib/pkg/colour"
)

// Reader reads big-endian values from a byte slice at an explicit offset.
// Every read is bounds-checked and reports a colour.ErrMalformedInput error
// tagged with the codec name instead of reading past the end.
type Reader struct {
	codec string
	buf   []byte
	off   int
}

// NewReader creates a Reader over buf. codec names the format in errors.
func NewReader(codec string, buf []byte) *Reader {
	return &Reader{codec: codec, buf: buf}
}

// Offset returns the current read position.
func (r *Reader) Offset() int {
	return r.off
}

// Len returns the total size of the buffer.
func (r *Reader) Len() int {
	return len(r.buf)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// Malformed returns an ErrMalformedInput error at the current offset.
func (r *Reader) Malformed(format string, args ...any) error {
	return colour.Malformed(r.codec, r.off, format, args...)
}

// Need fails unless at least n bytes remain.
func (r *Reader) Need(n int) error {
	if n < 0 || n > r.Remaining() {
		return r.Malformed("unexpected end of input: need %d bytes, have %d", n, r.Remaining())
	}
	return nil
}

// Bytes returns the next n bytes without copying.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if err := r.Need(n); err != nil {
		return nil, err
	}
	b := r.buf[r.off : r.off+n : r.off+n]
	r.off += n
	return b, nil
}

// Skip advances the offset by n bytes.
func (r *Reader) Skip(n int) error {
	_, err := r.Bytes(n)
	return err
}

// Uint8 reads one byte.
func (r *Reader) Uint8() (uint8, error) {
	b, err := r.Bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Uint16 reads a big-endian uint16.
func (r *Reader) Uint16() (uint16, error) {
	b, err := r.Bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// Int16 reads a big-endian two's complement int16.
func (r *Reader) Int16() (int16, error) {
	v, err := r.Uint16()
	return int16(v), err
}

// Uint32 reads a big-endian uint32.
func (r *Reader) Uint32() (uint32, error) {
	b, err := r.Bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// Float32 reads a big-endian IEEE 754 float32.
func (r *Reader) Float32() (float32, error) {
	v, err := r.Uint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// Tag reads a four byte ASCII tag.
func (r *Reader) Tag() (string, error) {
	b, err := r.Bytes(4)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Sub returns a Reader over the next n bytes and advances past them. Offsets
// reported by the sub-reader are relative to the parent buffer.
func (r *Reader) Sub(n int) (*Reader, error) {
	start := r.off
	if _, err := r.Bytes(n); err != nil {
		return nil, err
	}
	return &Reader{codec: r.codec, buf: r.buf[:start+n], off: start}, nil
}

// Writer appends big-endian values to a growing byte slice.
type Writer struct {
	buf []byte
}

// NewWriter creates a Writer with capacity for sizeHint bytes.
func NewWriter(sizeHint int) *Writer {
	return &Writer{buf: make([]byte, 0, sizeHint)}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Write appends raw bytes.
func (w *Writer) Write(b []byte) {
	w.buf = append(w.buf, b...)
}

// Uint8 appends one byte.
func (w *Writer) Uint8(v uint8) {
	w.buf = append(w.buf, v)
}

// Uint16 appends a big-endian uint16.
func (w *Writer) Uint16(v uint16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
}

// Int16 appends a big-endian int16.
func (w *Writer) Int16(v int16) {
	w.Uint16(uint16(v))
}

// Uint32 appends a big-endian uint32.
func (w *Writer) Uint32(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

// Float32 appends a big-endian IEEE 754 float32.
func (w *Writer) Float32(v float32) {
	w.Uint32(math.Float32bits(v))
}

// PatchUint32 overwrites four bytes at off, used for length prefixes that are
// only known after the body is written.
func (w *Writer) PatchUint32(off int, v uint32) {
	binary.BigEndian.PutUint32(w.buf[off:off+4], v)
}
