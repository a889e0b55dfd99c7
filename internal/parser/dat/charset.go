package dat

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// encodings maps config names to the legacy single-byte encodings DAT feeds
// show up in. UTF-8 (or an empty name) is a passthrough.
var encodings = map[string]encoding.Encoding{
	"windows-1250": charmap.Windows1250,
	"windows-1252": charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"utf-16le":     unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
}

// DecodeReader wraps r so the stream is transcoded from the named source
// encoding to UTF-8. Empty name and "utf-8" return r unchanged; unknown
// names are an error rather than a silent passthrough.
func DecodeReader(r io.Reader, name string) (io.Reader, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" || n == "utf-8" || n == "utf8" {
		return r, nil
	}
	enc, ok := encodings[n]
	if !ok {
		return nil, fmt.Errorf("dat: unsupported encoding %q", name)
	}
	return enc.NewDecoder().Reader(r), nil
}
