// Package security provides input hardening utilities for palettelib.
package security

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// MaxDecompressedSize bounds how much data a single archive entry or
// compressed palette file may expand to.
const MaxDecompressedSize = 64 * 1024 * 1024

// ErrSizeLimitExceeded is returned when a LimitedReader runs out of budget.
var ErrSizeLimitExceeded = errors.New("decompression size limit exceeded")

// LimitedReader wraps an io.Reader and limits the total bytes that can be read.
// This prevents decompression bomb attacks when opening archives.
type LimitedReader struct {
	R         io.Reader
	Remaining int64
}

// Read implements io.Reader with size limits.
func (l *LimitedReader) Read(p []byte) (int, error) {
	if l.Remaining <= 0 {
		// Distinguish an exactly-sized stream from an oversized one.
		var probe [1]byte
		if n, _ := l.R.Read(probe[:]); n == 0 {
			return 0, io.EOF
		}
		return 0, ErrSizeLimitExceeded
	}
	if int64(len(p)) > l.Remaining {
		p = p[:l.Remaining]
	}
	n, err := l.R.Read(p)
	l.Remaining -= int64(n)
	return n, err
}

// NewLimitedReader creates a new LimitedReader with the specified size limit.
func NewLimitedReader(r io.Reader, maxBytes int64) *LimitedReader {
	return &LimitedReader{
		R:         r,
		Remaining: maxBytes,
	}
}

// ReadAll reads r to EOF, failing with ErrSizeLimitExceeded once more than
// maxBytes have been produced.
func ReadAll(r io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(NewLimitedReader(r, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	return data, nil
}

// ValidateArchivePath validates a file name within an archive to prevent
// directory traversal.
func ValidateArchivePath(name string) error {
	if name == "" {
		return fmt.Errorf("empty file path")
	}
	if strings.Contains(name, "\\") {
		return fmt.Errorf("file path %q contains a backslash", name)
	}
	if path.IsAbs(name) {
		return fmt.Errorf("absolute path %q in archive is not allowed", name)
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return fmt.Errorf("file path %q contains directory traversal (..) - not allowed", name)
		}
	}
	return nil
}
