// Package compression provides utilities for reading and writing compressed
// palette files.
package compression

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/justjanne/palettelib/internal/security"
)

// Method identifies a compression format.
type Method int

const (
	// None means the data is stored as-is.
	None Method = iota
	// Gzip is RFC 1952 gzip (.gz).
	Gzip
	// XZ is the xz container format (.xz).
	XZ
	// Bzip2 is bzip2 (.bz2). It can be read but not written.
	Bzip2
)

// ErrWriteUnsupported is returned by Compress for methods that are read-only.
var ErrWriteUnsupported = errors.New("compression method cannot be written")

var suffixes = []struct {
	suffix string
	method Method
}{
	{".gz", Gzip},
	{".xz", XZ},
	{".bz2", Bzip2},
}

var magics = []struct {
	magic  []byte
	method Method
}{
	{[]byte{0x1F, 0x8B}, Gzip},
	{[]byte{0xFD, '7', 'z', 'X', 'Z', 0x00}, XZ},
	{[]byte("BZh"), Bzip2},
}

// String returns the file suffix of the method without the dot, or "none".
func (m Method) String() string {
	switch m {
	case Gzip:
		return "gz"
	case XZ:
		return "xz"
	case Bzip2:
		return "bz2"
	default:
		return "none"
	}
}

// Detect returns the compression method implied by a file name's suffix and
// the name with that suffix removed. Names without a known suffix return None
// and the name unchanged.
func Detect(name string) (Method, string) {
	lower := strings.ToLower(name)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s.suffix) && len(name) > len(s.suffix) {
			return s.method, name[:len(name)-len(s.suffix)]
		}
	}
	return None, name
}

// Sniff returns the compression method indicated by the leading magic bytes
// of data, or None.
func Sniff(data []byte) Method {
	for _, m := range magics {
		if bytes.HasPrefix(data, m.magic) {
			return m.method
		}
	}
	return None
}

// Decompress expands data compressed with method m. The output is limited to
// security.MaxDecompressedSize bytes.
func Decompress(m Method, data []byte) ([]byte, error) {
	var r io.Reader
	switch m {
	case None:
		return data, nil
	case Gzip:
		gzr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzr.Close()
		r = gzr
	case XZ:
		xzr, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		r = xzr
	case Bzip2:
		r = bzip2.NewReader(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unknown compression method %d", m)
	}

	out, err := security.ReadAll(r, security.MaxDecompressedSize)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s data: %w", m, err)
	}
	return out, nil
}

// Compress compresses data with method m.
func Compress(m Method, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	var w io.WriteCloser
	switch m {
	case None:
		return data, nil
	case Gzip:
		w = gzip.NewWriter(&buf)
	case XZ:
		xzw, err := xz.NewWriter(&buf)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz writer: %w", err)
		}
		w = xzw
	case Bzip2:
		return nil, fmt.Errorf("%w: %s", ErrWriteUnsupported, m)
	default:
		return nil, fmt.Errorf("unknown compression method %d", m)
	}

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("failed to compress %s data: %w", m, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish %s stream: %w", m, err)
	}
	return buf.Bytes(), nil
}
