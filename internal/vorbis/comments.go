// Package vorbis decodes Vorbis comment blocks, the tag format shared by
// FLAC metadata blocks and the Ogg codec headers (Vorbis, Opus, Speex,
// Theora, Ogg FLAC), plus the picture and chapter conventions layered on
// top of plain comments.
package vorbis

import (
	"encoding/binary"
	"strings"

	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/types"
)

// DecodeComments parses a comment block: a length-prefixed vendor string,
// a comment count, then count length-prefixed "KEY=value" comments. All
// lengths are little-endian u32, all text UTF-8.
//
// Structural truncation is an error; individual malformed comments degrade
// to warnings and the rest of the block still decodes.
func DecodeComments(block []byte, col *collect.Collector, skipCovers bool) error {
	vendor, off, ok := readString(block, 0)
	if !ok {
		return types.NewDecodeError("vorbis", "comment block truncated in vendor string", 0)
	}
	if off+4 > len(block) {
		return types.NewDecodeError("vorbis", "comment block truncated before count", int64(off))
	}
	count := int(binary.LittleEndian.Uint32(block[off:]))
	off += 4

	col.AddTagType(types.SystemVorbis)
	if vendor != "" {
		col.SetTool(vendor)
	}

	var chapterComments []string
	var legacyArt legacyCoverArt
	for i := 0; i < count; i++ {
		comment, next, ok := readString(block, off)
		if !ok {
			col.Warn("vorbis", int64(off), "comment block claims %d comments but ends after %d", count, i)
			break
		}
		off = next

		eq := strings.IndexByte(comment, '=')
		if eq < 0 {
			col.Warn("vorbis", int64(off), "comment %d has no '=' separator", i)
			continue
		}
		key, value := comment[:eq], comment[eq+1:]

		switch {
		case strings.EqualFold(key, "METADATA_BLOCK_PICTURE"):
			decodeEmbeddedPicture(key, value, col, skipCovers)
		case strings.EqualFold(key, "COVERART"):
			legacyArt.data = value
		case strings.EqualFold(key, "COVERARTMIME"):
			legacyArt.mime = value
		case isChapterKey(key):
			chapterComments = append(chapterComments, comment)
			col.AddTag(types.SystemVorbis, key, value)
		default:
			col.AddTag(types.SystemVorbis, key, value)
		}
	}

	legacyArt.emit(col, skipCovers)
	for _, ch := range Chapters(chapterComments, col.Result().Format.Duration) {
		col.AddChapter(ch)
	}
	return nil
}

// readString reads one length-prefixed string at off.
func readString(block []byte, off int) (string, int, bool) {
	if off+4 > len(block) {
		return "", off, false
	}
	n := int(binary.LittleEndian.Uint32(block[off:]))
	off += 4
	if n < 0 || off+n > len(block) {
		return "", off, false
	}
	return string(block[off : off+n]), off + n, true
}

func isChapterKey(key string) bool {
	if len(key) < len("CHAPTER")+1 {
		return false
	}
	u := strings.ToUpper(key)
	if !strings.HasPrefix(u, "CHAPTER") {
		return false
	}
	// Require a digit right after the prefix so CHAPTERSOURCE-style keys
	// stay ordinary comments.
	d := u[len("CHAPTER")]
	return d >= '0' && d <= '9'
}
