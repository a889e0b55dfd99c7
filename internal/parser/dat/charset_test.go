package dat

import (
	"io"
	"strings"
	"testing"
)

// TestDecodeReader_Passthrough returns the input reader unchanged for UTF-8
// and empty names.
func TestDecodeReader_Passthrough(t *testing.T) {
	t.Parallel()

	src := strings.NewReader("abc")
	for _, name := range []string{"", "utf-8", "UTF-8", "utf8"} {
		r, err := DecodeReader(src, name)
		if err != nil {
			t.Fatalf("%q: %v", name, err)
		}
		if r != src {
			t.Fatalf("%q: expected passthrough", name)
		}
	}
}

// TestDecodeReader_Windows1252 transcodes a legacy byte to its UTF-8 rune.
func TestDecodeReader_Windows1252(t *testing.T) {
	t.Parallel()

	// 0xE9 is é in windows-1252.
	r, err := DecodeReader(strings.NewReader("caf\xe9"), "windows-1252")
	if err != nil {
		t.Fatalf("DecodeReader: %v", err)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "café" {
		t.Fatalf("got %q, want %q", b, "café")
	}
}

// TestDecodeReader_Unknown rejects unrecognized encoding names.
func TestDecodeReader_Unknown(t *testing.T) {
	t.Parallel()

	if _, err := DecodeReader(strings.NewReader(""), "klingon-8"); err == nil {
		t.Fatalf("want error for unknown encoding")
	}
}
