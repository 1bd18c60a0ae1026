// Package apev2 decodes APE tags, versions 1.000 and 2.000: the 32-byte
// APETAGEX header/footer blocks and the typed items between them.
//
// The decoder is shared. MPEG, WavPack, and Musepack files carry an APE tag
// appended after the audio (found by the trailer scanner), and a bare tag
// saved as its own file parses as a standalone container.
package apev2

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/types"
)

const (
	sentinel  = "APETAGEX"
	blockSize = 32

	flagHasHeader = 1 << 31
	flagNoFooter  = 1 << 30
	flagIsHeader  = 1 << 29

	itemText     = 0
	itemBinary   = 1
	itemExternal = 2
)

// Block is one APETAGEX header or footer. Header and footer share the layout;
// the flags say which one a block is.
type Block struct {
	Version uint32 // 1000 or 2000
	Size    uint32 // items plus footer; the header is not counted
	Items   uint32
	Flags   uint32
}

// IsHeader reports whether the block's flags mark it as the leading header.
func (b Block) IsHeader() bool { return b.Flags&flagIsHeader != 0 }

// HasHeader reports whether the tag this block belongs to starts with a header.
func (b Block) HasHeader() bool { return b.Flags&flagHasHeader != 0 }

// ParseBlock reads a header/footer from the first 32 bytes of b.
func ParseBlock(b []byte) (Block, bool) {
	if len(b) < blockSize || string(b[:8]) != sentinel {
		return Block{}, false
	}
	return Block{
		Version: binary.LittleEndian.Uint32(b[8:12]),
		Size:    binary.LittleEndian.Uint32(b[12:16]),
		Items:   binary.LittleEndian.Uint32(b[16:20]),
		Flags:   binary.LittleEndian.Uint32(b[20:24]),
	}, true
}

// Decode parses a complete APE tag held in block. The slice starts with the
// tag header when one is present, otherwise with the first item, and ends
// with the footer. Malformed items degrade to warnings; only a missing
// sentinel is an error.
func Decode(block []byte, col *collect.Collector, skipCovers bool) error {
	if len(block) < blockSize {
		return types.NewDecodeError("apev2", "tag shorter than one APETAGEX block", 0)
	}

	var items []byte
	var count uint32
	if hdr, ok := ParseBlock(block); ok {
		items = block[blockSize:]
		if int64(hdr.Size) <= int64(len(items)) {
			items = items[:hdr.Size]
		}
		if hdr.Flags&flagNoFooter == 0 && len(items) >= blockSize {
			items = items[:len(items)-blockSize]
		}
		count = hdr.Items
	} else if ftr, ok := ParseBlock(block[len(block)-blockSize:]); ok {
		items = block[:len(block)-blockSize]
		count = ftr.Items
	} else {
		return types.NewDecodeError("apev2", "missing APETAGEX sentinel", 0)
	}

	col.AddTagType(types.SystemAPEv2)
	decodeItems(items, count, col, skipCovers)
	return nil
}

// decodeItems walks the item list: a 4-byte value size, 4 bytes of flags, a
// NUL-terminated key, then the value bytes.
func decodeItems(items []byte, count uint32, col *collect.Collector, skipCovers bool) {
	off := 0
	for i := uint32(0); i < count; i++ {
		if off+8 > len(items) {
			col.Warn("apev2", int64(off), "tag claims %d items but ends after %d", count, i)
			return
		}
		size := int(binary.LittleEndian.Uint32(items[off:]))
		flags := binary.LittleEndian.Uint32(items[off+4:])

		rest := items[off+8:]
		nul := bytes.IndexByte(rest, 0)
		if nul < 0 {
			col.Warn("apev2", int64(off), "item %d key is not NUL-terminated", i)
			return
		}
		key := string(rest[:nul])
		value := rest[nul+1:]
		if size > len(value) {
			col.Warn("apev2", int64(off), "item %q value size %d runs past the tag", key, size)
			return
		}
		value = value[:size]
		off += 8 + nul + 1 + size

		if !validKey(key) {
			col.Warn("apev2", int64(off), "item %d has an invalid key %q", i, key)
			continue
		}

		switch (flags >> 1) & 3 {
		case itemText, itemExternal:
			for _, v := range strings.Split(string(value), "\x00") {
				if v != "" {
					col.AddTag(types.SystemAPEv2, key, v)
				}
			}
		case itemBinary:
			decodeBinary(key, value, col, skipCovers)
		default:
			col.AddTag(types.SystemAPEv2, key, append([]byte(nil), value...))
		}
	}
}

// validKey enforces the APE key rules: 2 to 255 printable ASCII characters.
func validKey(key string) bool {
	if len(key) < 2 || len(key) > 255 {
		return false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < 0x20 || key[i] > 0x7E {
			return false
		}
	}
	return true
}

// decodeBinary handles binary items. Cover art items hold a filename, a NUL,
// then the raw image; anything else stays a native []byte value.
func decodeBinary(key string, value []byte, col *collect.Collector, skipCovers bool) {
	lower := strings.ToLower(key)
	if !strings.HasPrefix(lower, "cover art") {
		col.AddTag(types.SystemAPEv2, key, append([]byte(nil), value...))
		return
	}
	if skipCovers {
		return
	}

	desc := ""
	img := value
	if nul := bytes.IndexByte(value, 0); nul >= 0 {
		desc = string(value[:nul])
		img = value[nul+1:]
	}
	col.AddTag(types.SystemAPEv2, key, types.Picture{
		Type:        coverType(lower),
		MIMEType:    types.DetectImageMIME(img),
		Description: desc,
		Data:        append([]byte(nil), img...),
	})
}

func coverType(lowerKey string) types.PictureType {
	switch {
	case strings.Contains(lowerKey, "front"):
		return types.PictureFrontCover
	case strings.Contains(lowerKey, "back"):
		return types.PictureBackCover
	}
	return types.PictureOther
}
