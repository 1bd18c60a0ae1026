package trailer

import (
	"bytes"

	"github.com/audioprobe/audioprobe/internal/apev2"
	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/id3"
	"github.com/audioprobe/audioprobe/tokenizer"
)

// DecodeRunIn consumes the appended metadata a frame walk ran into. The
// offset-based Scan covers sized sources up front; on a pure stream the
// first hint of a trailer is the walk losing sync at its leading bytes.
// Appended tags chain in practice (Lyrics3 before ID3v1, APE before
// either), so decoding loops until nothing recognizable is left.
//
// Returns false when the bytes at the cursor match no known block; damage
// inside a recognized block is warned about and counts as handled.
func DecodeRunIn(tok *tokenizer.Tokenizer, col *collect.Collector, skipCovers bool) bool {
	handled := false
	for {
		pk, err := tok.Peek(len(lyricsBegin))
		if err != nil || len(pk) < 3 {
			return handled
		}
		switch {
		case bytes.HasPrefix(pk, []byte("APETAGEX")):
			if err := apev2.DecodeStream(tok, col, skipCovers); err != nil {
				col.Warn("trailer", tok.Pos(), "appended APE tag: %v", err)
				return true
			}
		case bytes.HasPrefix(pk, []byte(lyricsBegin)):
			skipLyrics3(tok)
		case bytes.HasPrefix(pk, []byte("TAG")):
			block, err := tok.ReadBytes(id3v1Size)
			if err != nil {
				col.Warn("trailer", tok.Pos(), "appended ID3v1 tag truncated")
				return true
			}
			id3.DecodeV1(block, col)
		default:
			return handled
		}
		handled = true
	}
}

// skipLyrics3 consumes a Lyrics3 v1/v2 block from LYRICSBEGIN through its
// end marker. No tag system maps its fields; the point is to reach what
// follows, usually the ID3v1 tag.
func skipLyrics3(tok *tokenizer.Tokenizer) {
	const maxBlock = 1 << 20
	for scanned := 0; scanned < maxBlock; scanned++ {
		pk, err := tok.Peek(len(lyricsEndV2))
		if err != nil || len(pk) < len(lyricsEndV2) {
			return
		}
		if tag := string(pk); tag == lyricsEndV2 || tag == lyricsEndV1 {
			_ = tok.Skip(int64(len(tag)))
			return
		}
		if err := tok.Skip(1); err != nil {
			return
		}
	}
}
