package compression

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name       string
		wantMethod Method
		wantName   string
	}{
		{name: "brand.gpl", wantMethod: None, wantName: "brand.gpl"},
		{name: "brand.gpl.gz", wantMethod: Gzip, wantName: "brand.gpl"},
		{name: "brand.ASE.XZ", wantMethod: XZ, wantName: "brand.ASE"},
		{name: "dir/brand.aco.bz2", wantMethod: Bzip2, wantName: "dir/brand.aco"},
		{name: ".gz", wantMethod: None, wantName: ".gz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method, name := Detect(tt.name)
			if method != tt.wantMethod || name != tt.wantName {
				t.Errorf("Detect(%q) = (%v, %q), want (%v, %q)", tt.name, method, name, tt.wantMethod, tt.wantName)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("GIMP Palette\n255 0 0 Red\n"), 50)

	for _, m := range []Method{None, Gzip, XZ} {
		t.Run(m.String(), func(t *testing.T) {
			compressed, err := Compress(m, data)
			if err != nil {
				t.Fatalf("Compress() unexpected error: %v", err)
			}
			if got := Sniff(compressed); got != m {
				t.Errorf("Sniff() = %v, want %v", got, m)
			}
			got, err := Decompress(m, compressed)
			if err != nil {
				t.Fatalf("Decompress() unexpected error: %v", err)
			}
			if !bytes.Equal(got, data) {
				t.Error("Decompress(Compress(data)) != data")
			}
		})
	}
}

func TestBzip2(t *testing.T) {
	// "hello\n" compressed with bzip2 -9.
	compressed, err := base64.StdEncoding.DecodeString("QlpoOTFBWSZTWcHAgOIAAAFBAAAQAkSgADDNAMNGKZcXckU4UJDBwIDi")
	if err != nil {
		t.Fatalf("failed to decode fixture: %v", err)
	}
	if got := Sniff(compressed); got != Bzip2 {
		t.Errorf("Sniff() = %v, want bz2", got)
	}
	got, err := Decompress(Bzip2, compressed)
	if err != nil {
		t.Fatalf("Decompress() unexpected error: %v", err)
	}
	if string(got) != "hello\n" {
		t.Errorf("Decompress() = %q, want %q", got, "hello\n")
	}

	if _, err := Compress(Bzip2, got); !errors.Is(err, ErrWriteUnsupported) {
		t.Errorf("Compress(bz2) error = %v, want ErrWriteUnsupported", err)
	}
}

func TestDecompressCorrupt(t *testing.T) {
	for _, m := range []Method{Gzip, XZ, Bzip2} {
		t.Run(m.String(), func(t *testing.T) {
			if _, err := Decompress(m, []byte("not compressed")); err == nil {
				t.Error("Decompress() of plain text succeeded, want error")
			}
		})
	}
}
