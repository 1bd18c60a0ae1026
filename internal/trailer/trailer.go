// Package trailer locates the metadata blocks appended after the audio
// data: ID3v1, Lyrics3 and APEv2 tags stack backwards from the end of the
// file, each one sitting immediately before the next.
//
// The scan needs a positioned reader with a known size, so it runs only for
// file and buffer sources; pure streams skip it. Finding the blocks up
// front lets frame scanners stop at the end of the audio instead of
// chewing into tag bytes, and gives the APE decoder its start offset.
package trailer

import (
	"bytes"
	"strconv"

	"github.com/audioprobe/audioprobe/internal/binary"
)

const (
	id3v1Size      = 128
	apeFooterSize  = 32
	lyricsEndV1    = "LYRICSEND"
	lyricsEndV2    = "LYRICS200"
	lyricsBegin    = "LYRICSBEGIN"
	lyrics3v1Max   = 5100 + len(lyricsBegin) + len(lyricsEndV1)
	apeHasHeaderV2 = 1 << 31
)

// Info reports where each trailing block starts. Offsets are absolute;
// -1 means the block is absent.
type Info struct {
	// ID3v1 is the offset of the 128-byte "TAG" block.
	ID3v1 int64

	// Lyrics3 is the offset of "LYRICSBEGIN".
	Lyrics3 int64

	// Lyrics3Version is 1 or 2 when a Lyrics3 block was found.
	Lyrics3Version int

	// APE is the offset where the APE tag begins (its header when one is
	// present, otherwise its first item).
	APE int64

	// APESize counts the bytes from APE through the end of its footer.
	APESize int64

	// AudioEnd is where trailing metadata begins; audio scanners must not
	// read past it. Equal to the stream size when nothing trails.
	AudioEnd int64
}

// HasID3v1 reports whether an ID3v1 block was found.
func (i Info) HasID3v1() bool { return i.ID3v1 >= 0 }

// HasLyrics3 reports whether a Lyrics3 block was found.
func (i Info) HasLyrics3() bool { return i.Lyrics3 >= 0 }

// HasAPE reports whether an APE tag was found.
func (i Info) HasAPE() bool { return i.APE >= 0 }

// Scan walks the trailing blocks from the end of the stream. The scan is
// best effort: a block that does not verify is reported absent rather than
// failing the parse.
func Scan(sr *binary.SafeReader) Info {
	info := Info{ID3v1: -1, Lyrics3: -1, APE: -1, AudioEnd: sr.Size()}
	end := sr.Size()

	// (a) ID3v1 is always the last 128 bytes.
	if end >= id3v1Size {
		var magic [3]byte
		if err := sr.ReadAt(magic[:], end-id3v1Size, "ID3v1 magic"); err == nil && string(magic[:]) == "TAG" {
			info.ID3v1 = end - id3v1Size
			end = info.ID3v1
		}
	}

	// (b) Lyrics3 sits immediately before ID3v1.
	if info.ID3v1 >= 0 {
		if off, version := scanLyrics3(sr, end); off >= 0 {
			info.Lyrics3 = off
			info.Lyrics3Version = version
			end = off
		}
	}

	// (c) APE footer sits before whatever was found so far.
	if off, size := scanAPEFooter(sr, end); off >= 0 {
		info.APE = off
		info.APESize = size
		end = off
	}

	info.AudioEnd = end
	return info
}

// scanLyrics3 probes for a Lyrics3 v2 or v1 block ending at end. Returns
// the block offset and version, or (-1, 0).
func scanLyrics3(sr *binary.SafeReader, end int64) (int64, int) {
	// v2 ends with a 6-digit size and "LYRICS200".
	if end >= 15 {
		var tail [15]byte
		if err := sr.ReadAt(tail[:], end-15, "Lyrics3 footer"); err == nil &&
			string(tail[6:]) == lyricsEndV2 {
			if n, err := strconv.Atoi(string(tail[:6])); err == nil {
				start := end - 15 - int64(n)
				if start >= 0 && verifyLyricsBegin(sr, start) {
					return start, 2
				}
			}
		}
	}

	// v1 ends with a bare "LYRICSEND"; the size is not recorded, so search
	// backwards for the begin marker within the maximum block size.
	if end >= int64(len(lyricsEndV1)) {
		var tail [9]byte
		if err := sr.ReadAt(tail[:], end-int64(len(lyricsEndV1)), "Lyrics3 v1 footer"); err == nil &&
			string(tail[:]) == lyricsEndV1 {
			windowStart := end - int64(lyrics3v1Max)
			if windowStart < 0 {
				windowStart = 0
			}
			window := make([]byte, end-windowStart)
			if err := sr.ReadAt(window, windowStart, "Lyrics3 v1 block"); err == nil {
				if i := bytes.LastIndex(window, []byte(lyricsBegin)); i >= 0 {
					return windowStart + int64(i), 1
				}
			}
		}
	}

	return -1, 0
}

func verifyLyricsBegin(sr *binary.SafeReader, off int64) bool {
	var begin [11]byte
	if err := sr.ReadAt(begin[:], off, "Lyrics3 begin marker"); err != nil {
		return false
	}
	return string(begin[:]) == lyricsBegin
}

// scanAPEFooter probes for an APE tag whose footer ends at end. Returns
// the tag start and total size, or (-1, 0).
func scanAPEFooter(sr *binary.SafeReader, end int64) (int64, int64) {
	if end < apeFooterSize {
		return -1, 0
	}
	footer := make([]byte, apeFooterSize)
	if err := sr.ReadAt(footer, end-apeFooterSize, "APE footer"); err != nil {
		return -1, 0
	}
	if string(footer[:8]) != "APETAGEX" {
		return -1, 0
	}

	// Footer layout after the preamble: version, tag size, item count,
	// flags, all little-endian. Tag size covers the items and the footer
	// but not the optional header.
	tagSize, err := binary.ReadLE[uint32](sr, end-apeFooterSize+12, "APE tag size")
	if err != nil {
		return -1, 0
	}
	flags, err := binary.ReadLE[uint32](sr, end-apeFooterSize+20, "APE tag flags")
	if err != nil {
		return -1, 0
	}
	size := int64(tagSize)
	if size < apeFooterSize || size > end {
		return -1, 0
	}

	start := end - size
	total := size
	if flags&apeHasHeaderV2 != 0 && start >= apeFooterSize {
		start -= apeFooterSize
		total += apeFooterSize
	}
	return start, total
}
