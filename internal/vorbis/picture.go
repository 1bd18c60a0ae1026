package vorbis

import (
	"encoding/base64"
	"encoding/binary"

	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/types"
)

// DecodePictureBlock parses a FLAC picture block: picture type, MIME,
// description, dimensions and color layout, then the image data. All
// integers are big-endian u32. The same layout appears base64-encoded in
// METADATA_BLOCK_PICTURE comments, which is why it lives here rather than
// in the FLAC parser.
func DecodePictureBlock(raw []byte) (types.Picture, error) {
	c := cursor{b: raw}

	picType := c.u32()
	mime := c.str()
	desc := c.str()
	width := c.u32()
	height := c.u32()
	depth := c.u32()
	colors := c.u32()
	data := c.block()
	if c.failed {
		return types.Picture{}, types.NewDecodeError("vorbis", "picture block truncated", int64(c.off))
	}

	t := types.PictureOther
	if picType <= uint32(types.PicturePublisherLogotype) {
		t = types.PictureType(picType)
	}
	return types.Picture{
		Type:          t,
		MIMEType:      mime,
		Description:   desc,
		Width:         int(width),
		Height:        int(height),
		ColorDepth:    int(depth),
		IndexedColors: int(colors),
		Data:          append([]byte(nil), data...),
	}, nil
}

// decodeEmbeddedPicture handles a METADATA_BLOCK_PICTURE comment: base64 of
// a FLAC picture block.
func decodeEmbeddedPicture(key, value string, col *collect.Collector, skipCovers bool) {
	if skipCovers {
		return
	}
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		col.Warn("vorbis", 0, "%s is not valid base64: %v", key, err)
		return
	}
	pic, err := DecodePictureBlock(raw)
	if err != nil {
		col.Warn("vorbis", 0, "%s: %v", key, err)
		return
	}
	col.AddTag(types.SystemVorbis, key, pic)
}

// legacyCoverArt pairs the deprecated COVERART / COVERARTMIME comments,
// which may arrive in either order.
type legacyCoverArt struct {
	data string
	mime string
}

func (l legacyCoverArt) emit(col *collect.Collector, skipCovers bool) {
	if l.data == "" || skipCovers {
		return
	}
	raw, err := base64.StdEncoding.DecodeString(l.data)
	if err != nil {
		col.Warn("vorbis", 0, "COVERART is not valid base64: %v", err)
		return
	}
	mime := l.mime
	if mime == "" {
		mime = types.DetectImageMIME(raw)
	}
	col.AddTag(types.SystemVorbis, "COVERART", types.Picture{
		Type:     types.PictureFrontCover,
		MIMEType: mime,
		Data:     raw,
	})
}

// cursor is a bounds-checked sequential reader over a byte slice. A failed
// read latches the failed flag; later reads return zero values.
type cursor struct {
	b      []byte
	off    int
	failed bool
}

func (c *cursor) u32() uint32 {
	if c.failed || c.off+4 > len(c.b) {
		c.failed = true
		return 0
	}
	v := binary.BigEndian.Uint32(c.b[c.off:])
	c.off += 4
	return v
}

func (c *cursor) block() []byte {
	n := int(c.u32())
	if c.failed || n < 0 || c.off+n > len(c.b) {
		c.failed = true
		return nil
	}
	v := c.b[c.off : c.off+n]
	c.off += n
	return v
}

func (c *cursor) str() string { return string(c.block()) }
