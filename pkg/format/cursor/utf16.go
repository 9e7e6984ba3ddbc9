package cursor

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

var utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// UTF16 reads units UTF-16BE code units and returns the decoded string, cut at
// the first NUL terminator. Unpaired surrogates are malformed.
func (r *Reader) UTF16(units int) (string, error) {
	start := r.off
	if units < 0 || units > r.Remaining()/2 {
		return "", r.Malformed("string of %d UTF-16 units exceeds remaining %d bytes", units, r.Remaining())
	}
	raw, err := r.Bytes(units * 2)
	if err != nil {
		return "", err
	}

	for i := 0; i+1 < len(raw); i += 2 {
		if raw[i] == 0 && raw[i+1] == 0 {
			raw = raw[:i]
			break
		}
	}
	if err := checkSurrogates(raw); err != nil {
		r.off = start
		return "", r.Malformed("invalid UTF-16 string: %v", err)
	}

	decoded, err := utf16BE.NewDecoder().Bytes(raw)
	if err != nil {
		r.off = start
		return "", r.Malformed("invalid UTF-16 string: %v", err)
	}
	return string(decoded), nil
}

// EncodeUTF16 returns s as UTF-16BE bytes without a terminator.
func EncodeUTF16(s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, errors.New("name is not valid UTF-8")
	}
	if strings.ContainsRune(s, 0) {
		return nil, errors.New("name contains a NUL character")
	}
	return utf16BE.NewEncoder().Bytes([]byte(s))
}

// checkSurrogates verifies that every surrogate in the big-endian code unit
// sequence b is part of a high/low pair.
func checkSurrogates(b []byte) error {
	for i := 0; i+1 < len(b); i += 2 {
		u := uint16(b[i])<<8 | uint16(b[i+1])
		switch {
		case u >= 0xD800 && u < 0xDC00:
			if i+3 >= len(b) {
				return errors.New("truncated surrogate pair")
			}
			next := uint16(b[i+2])<<8 | uint16(b[i+3])
			if next < 0xDC00 || next >= 0xE000 {
				return errors.New("unpaired high surrogate")
			}
			i += 2
		case u >= 0xDC00 && u < 0xE000:
			return errors.New("unpaired low surrogate")
		}
	}
	return nil
}
