package riff

import (
	"bytes"
	"encoding/binary"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/types"
)

// decodeINFO reads the sub-chunks of a LIST INFO chunk: 4-byte ids,
// 32-bit sizes, NUL-padded text, word-aligned like their parent.
func decodeINFO(data []byte, col *collect.Collector) {
	off := 0
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		off += 8
		if size < 0 || off+size > len(data) {
			col.Warn("riff", int64(off), "INFO entry %s runs past the list", id)
			return
		}
		if value := infoText(data[off : off+size]); value != "" {
			col.AddTagType(types.SystemRIFF)
			col.AddTag(types.SystemRIFF, id, value)
		}
		off += size + size%2
	}
}

// infoText decodes one INFO value. The chunks are nominally ASCII, but
// writers put Latin-1 and UTF-8 in them; valid multi-byte UTF-8 is taken
// at face value and anything else is read as Latin-1.
func infoText(b []byte) string {
	b = bytes.TrimRight(b, "\x00")
	if len(b) == 0 {
		return ""
	}
	ascii := true
	for _, c := range b {
		if c >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return string(b)
	}
	if utf8.Valid(b) {
		return string(b)
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return string(out)
}
