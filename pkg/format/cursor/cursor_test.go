package cursor

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/justjanne/palettelib/pkg/colour"
)

func TestWriterReaderSymmetry(t *testing.T) {
	w := NewWriter(0)
	w.Uint8(7)
	w.Uint16(0xBEEF)
	w.Int16(-300)
	w.Uint32(0xDEADBEEF)
	w.Float32(0.25)
	w.Write([]byte("RGB "))

	r := NewReader("test", w.Bytes())

	u8, err := r.Uint8()
	if err != nil || u8 != 7 {
		t.Fatalf("Uint8() = %d, %v", u8, err)
	}
	u16, err := r.Uint16()
	if err != nil || u16 != 0xBEEF {
		t.Fatalf("Uint16() = %#x, %v", u16, err)
	}
	i16, err := r.Int16()
	if err != nil || i16 != -300 {
		t.Fatalf("Int16() = %d, %v", i16, err)
	}
	u32, err := r.Uint32()
	if err != nil || u32 != 0xDEADBEEF {
		t.Fatalf("Uint32() = %#x, %v", u32, err)
	}
	f, err := r.Float32()
	if err != nil || f != 0.25 {
		t.Fatalf("Float32() = %g, %v", f, err)
	}
	tag, err := r.Tag()
	if err != nil || tag != "RGB " {
		t.Fatalf("Tag() = %q, %v", tag, err)
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", r.Remaining())
	}
}

func TestReaderTruncation(t *testing.T) {
	tests := []struct {
		name string
		read func(r *Reader) error
	}{
		{name: "uint16", read: func(r *Reader) error { _, err := r.Uint16(); return err }},
		{name: "uint32", read: func(r *Reader) error { _, err := r.Uint32(); return err }},
		{name: "float32", read: func(r *Reader) error { _, err := r.Float32(); return err }},
		{name: "tag", read: func(r *Reader) error { _, err := r.Tag(); return err }},
		{name: "bytes", read: func(r *Reader) error { _, err := r.Bytes(2); return err }},
		{name: "negative length", read: func(r *Reader) error { _, err := r.Bytes(-1); return err }},
		{name: "sub", read: func(r *Reader) error { _, err := r.Sub(5); return err }},
		{name: "utf16", read: func(r *Reader) error { _, err := r.UTF16(3); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader("test", []byte{1})
			err := tt.read(r)
			if !errors.Is(err, colour.ErrMalformedInput) {
				t.Fatalf("expected ErrMalformedInput, got %v", err)
			}
			if r.Offset() != 0 {
				t.Errorf("Offset() = %d after failed read, want 0", r.Offset())
			}
		})
	}
}

func TestReaderSub(t *testing.T) {
	r := NewReader("test", []byte{0, 1, 0, 2, 9})
	sub, err := r.Sub(4)
	if err != nil {
		t.Fatalf("Sub() unexpected error: %v", err)
	}
	if r.Offset() != 4 {
		t.Errorf("parent Offset() = %d, want 4", r.Offset())
	}
	if sub.Remaining() != 4 || sub.Offset() != 0 {
		t.Errorf("sub Remaining() = %d Offset() = %d", sub.Remaining(), sub.Offset())
	}
	if _, err := sub.Uint32(); err != nil {
		t.Fatalf("sub Uint32() unexpected error: %v", err)
	}
	if _, err := sub.Uint8(); err == nil {
		t.Error("sub reader read past its window")
	}
}

func TestUTF16RoundTrip(t *testing.T) {
	tests := []string{"", "Red", "Grün", "色", "emoji \U0001F3A8"}

	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			enc, err := EncodeUTF16(s)
			if err != nil {
				t.Fatalf("EncodeUTF16() unexpected error: %v", err)
			}
			w := NewWriter(0)
			w.Write(enc)
			w.Uint16(0)

			r := NewReader("test", w.Bytes())
			got, err := r.UTF16(len(enc)/2 + 1)
			if err != nil {
				t.Fatalf("UTF16() unexpected error: %v", err)
			}
			if diff := cmp.Diff(s, got); diff != "" {
				t.Errorf("UTF16() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUTF16Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "lone high surrogate", data: []byte{0xD8, 0x00, 0x00, 0x41}},
		{name: "lone low surrogate", data: []byte{0xDC, 0x00}},
		{name: "truncated pair", data: []byte{0x00, 0x41, 0xD8, 0x3D}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader("test", tt.data)
			if _, err := r.UTF16(len(tt.data) / 2); !errors.Is(err, colour.ErrMalformedInput) {
				t.Errorf("UTF16() error = %v, want ErrMalformedInput", err)
			}
		})
	}

	if _, err := EncodeUTF16("a\x00b"); err == nil {
		t.Error("EncodeUTF16() should reject NUL")
	}
	if _, err := EncodeUTF16("\xff"); err == nil {
		t.Error("EncodeUTF16() should reject invalid UTF-8")
	}
}

func TestPatchUint32(t *testing.T) {
	w := NewWriter(8)
	w.Uint32(0)
	w.Uint16(1)
	w.PatchUint32(0, 2)
	if diff := cmp.Diff([]byte{0, 0, 0, 2, 0, 1}, w.Bytes()); diff != "" {
		t.Errorf("PatchUint32() mismatch (-want +got):\n%s", diff)
	}
}
