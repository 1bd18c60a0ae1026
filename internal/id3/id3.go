// Package id3 decodes ID3v1 and ID3v2 tag blocks.
//
// ID3v2 is shared infrastructure rather than an MPEG detail: the same
// frames appear at the head of MPEG and ADTS streams, inside RIFF "id3 "
// and AIFF "ID3 " chunks, and at the offset a DSF metadata pointer names.
// Callers position a tokenizer at the "ID3" marker and hand over a
// collector; the decoder consumes exactly one complete tag.
package id3

import (
	"fmt"

	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/types"
	"github.com/audioprobe/audioprobe/tokenizer"
)

const headerSize = 10

// Tag header flags.
const (
	flagUnsync   = 1 << 7
	flagExtended = 1 << 6
	flagFooter   = 1 << 4
)

// Header is the fixed ten-byte ID3v2 tag header.
type Header struct {
	Major    byte
	Revision byte
	Flags    byte

	// Size is the tag body size in stream bytes, header and footer
	// excluded, unsynchronisation not yet reversed.
	Size int64
}

// TotalSize returns how many stream bytes the whole tag occupies.
func (h Header) TotalSize() int64 {
	n := int64(headerSize) + h.Size
	if h.Flags&flagFooter != 0 {
		n += headerSize
	}
	return n
}

// System returns the tag system for the header's major version.
func (h Header) System() types.TagSystem {
	switch h.Major {
	case 2:
		return types.SystemID3v22
	case 3:
		return types.SystemID3v23
	default:
		return types.SystemID3v24
	}
}

// ReadHeader consumes the ten-byte tag header.
func ReadHeader(tok *tokenizer.Tokenizer) (Header, error) {
	start := tok.Pos()
	buf := make([]byte, headerSize)
	if err := tok.ReadFull(buf); err != nil {
		return Header{}, err
	}
	if string(buf[:3]) != "ID3" {
		return Header{}, types.NewDecodeError("id3v2", "missing ID3 marker", start)
	}
	hdr := Header{
		Major:    buf[3],
		Revision: buf[4],
		Flags:    buf[5],
		Size:     int64(decodeSynchsafe(buf[6:10])),
	}
	if hdr.Major < 2 || hdr.Major > 4 {
		return Header{}, types.NewDecodeError("id3v2",
			fmt.Sprintf("unsupported version 2.%d", hdr.Major), start)
	}
	return hdr, nil
}

// DecodeV2 consumes one complete ID3v2 tag from the head of tok and reports
// its frames into col. A truncated tag is downgraded to a warning; the
// stream is left positioned after whatever bytes could be read.
func DecodeV2(tok *tokenizer.Tokenizer, col *collect.Collector, skipCovers bool) error {
	start := tok.Pos()
	hdr, err := ReadHeader(tok)
	if err != nil {
		return err
	}

	body := make([]byte, hdr.Size)
	if err := tok.ReadFull(body); err != nil {
		col.Warn("id3v2", start, "tag truncated: %v", err)
		return nil
	}
	if hdr.Flags&flagFooter != 0 {
		// Footer is a copy of the header; nothing new in it.
		if _, err := tok.Ignore(headerSize); err != nil {
			return err
		}
	}

	// v2.3 unsynchronisation applies to the whole tag; v2.4 moved it to
	// per-frame flags.
	if hdr.Flags&flagUnsync != 0 && hdr.Major < 4 {
		body = reverseUnsync(body)
	}
	body = skipExtendedHeader(hdr, body, col, start)

	col.AddTagType(hdr.System())
	var chapters []types.Chapter
	for _, f := range parseFrames(hdr.Major, body, func(off int64, format string, args ...any) {
		col.Warn("id3v2", start+off, format, args...)
	}) {
		if f.id == "CHAP" {
			if ch, ok := decodeChapter(hdr.Major, f); ok {
				chapters = append(chapters, ch)
			}
			continue
		}
		decodeFrame(hdr, f, col, skipCovers)
	}
	sortChapters(chapters)
	for _, ch := range chapters {
		col.AddChapter(ch)
	}
	return nil
}

// skipExtendedHeader drops the optional extended header from the front of
// the body. v2.3 stores a plain big-endian size that excludes its own four
// size bytes; v2.4 stores a syncsafe size that includes them.
func skipExtendedHeader(hdr Header, body []byte, col *collect.Collector, tagStart int64) []byte {
	if hdr.Flags&flagExtended == 0 || hdr.Major < 3 {
		return body
	}
	if len(body) < 4 {
		return nil
	}
	var skip int64
	if hdr.Major == 3 {
		skip = int64(beUint32(body[:4])) + 4
	} else {
		skip = int64(decodeSynchsafe(body[:4]))
	}
	if skip < 4 || skip > int64(len(body)) {
		col.Warn("id3v2", tagStart, "extended header size %d out of range", skip)
		return nil
	}
	return body[skip:]
}

// decodeSynchsafe decodes a syncsafe integer, 7 payload bits per byte.
func decodeSynchsafe(b []byte) uint32 {
	if len(b) != 4 {
		return 0
	}
	return uint32(b[0]&0x7F)<<21 |
		uint32(b[1]&0x7F)<<14 |
		uint32(b[2]&0x7F)<<7 |
		uint32(b[3]&0x7F)
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func beUint16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

// reverseUnsync undoes unsynchronisation: every 0xFF 0x00 pair collapses
// back to a bare 0xFF.
func reverseUnsync(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		out = append(out, b[i])
		if b[i] == 0xFF && i+1 < len(b) && b[i+1] == 0x00 {
			i++
		}
	}
	return out
}
