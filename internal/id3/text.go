package id3

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Text encodings as the leading encoding byte declares them.
const (
	encLatin1  = 0
	encUTF16   = 1 // BOM decides endianness, little-endian assumed without one
	encUTF16BE = 2
	encUTF8    = 3
)

// decodeString decodes frame text per the declared encoding. Decoding is
// best effort: one bad byte must not cost the caller every other frame, so
// undecodable input yields an empty string rather than an error.
func decodeString(enc byte, b []byte) string {
	if len(b) == 0 {
		return ""
	}
	var out []byte
	var err error
	switch enc {
	case encUTF16:
		out, err = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder().Bytes(b)
	case encUTF16BE:
		out, err = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b)
	case encUTF8:
		return strings.TrimRight(string(b), "\x00")
	default:
		out, err = charmap.ISO8859_1.NewDecoder().Bytes(b)
	}
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(out), "\x00")
}

// latin1 decodes ISO-8859-1 bytes, the fixed encoding of frame-internal
// fields like MIME types, URLs and owner identifiers.
func latin1(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return string(out)
}

// splitValues decodes a text payload and splits it into its NUL-separated
// values, dropping empties. Single-value frames come back as one element.
func splitValues(enc byte, b []byte) []string {
	s := decodeString(enc, b)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "\x00")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitTerm splits b at the encoding's string terminator, returning the
// bytes before it and the bytes after it. Without a terminator everything
// is "before" and rest is nil.
func splitTerm(enc byte, b []byte) (head, rest []byte) {
	i := findNullTerminator(b, enc)
	if i < 0 {
		return b, nil
	}
	return b[:i], b[i+terminatorSize(enc):]
}

// findNullTerminator finds the string terminator for the encoding: a single
// NUL for the byte encodings, an aligned double NUL for UTF-16.
func findNullTerminator(data []byte, enc byte) int {
	switch enc {
	case encUTF16, encUTF16BE:
		for i := 0; i+1 < len(data); i += 2 {
			if data[i] == 0 && data[i+1] == 0 {
				return i
			}
		}
		return -1
	default:
		return bytes.IndexByte(data, 0)
	}
}

// terminatorSize returns the terminator width for the encoding.
func terminatorSize(enc byte) int {
	if enc == encUTF16 || enc == encUTF16BE {
		return 2
	}
	return 1
}
