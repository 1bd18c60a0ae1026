package id3

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/tagmap"
	"github.com/audioprobe/audioprobe/internal/types"
)

// V1Size is the fixed size of an ID3v1 block.
const V1Size = 128

// DecodeV1 decodes a 128-byte ID3v1 block. The v1.1 track convention is
// honored: a zero byte at comment position 28 followed by a nonzero byte
// turns the last two comment bytes into a track number.
func DecodeV1(block []byte, col *collect.Collector) {
	if len(block) != V1Size || string(block[:3]) != "TAG" {
		col.Warn("id3v1", 0, "malformed ID3v1 block")
		return
	}
	col.AddTagType(types.SystemID3v1)

	add := func(id, value string) {
		if value != "" {
			col.AddTag(types.SystemID3v1, id, value)
		}
	}

	add("title", v1Text(block[3:33]))
	add("artist", v1Text(block[33:63]))
	add("album", v1Text(block[63:93]))
	add("year", strings.TrimSpace(string(bytes.TrimRight(block[93:97], "\x00"))))

	comment := block[97:127]
	if comment[28] == 0 && comment[29] != 0 {
		add("comment", v1Text(comment[:28]))
		col.AddTag(types.SystemID3v1, "track", int64(comment[29]))
	} else {
		add("comment", v1Text(comment))
	}

	// The genre byte is an index into the shared table; unknown indexes
	// (0xFF means "none") are dropped here rather than warned about.
	if name, ok := tagmap.GenreName(int(block[127])); ok {
		add("genre", name)
	}
}

// v1Text decodes a fixed-width ID3v1 text field. Fields are supposed to be
// latin1, but enough writers put UTF-8 in them that valid multi-byte UTF-8
// is taken at face value.
func v1Text(b []byte) string {
	b = bytes.TrimRight(b, "\x00 ")
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
