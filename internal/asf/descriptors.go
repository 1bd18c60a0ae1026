package asf

import (
	"encoding/binary"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/types"
)

// Descriptor value types shared by the extended content description and
// metadata objects.
const (
	descUnicode = 0
	descBytes   = 1
	descBool    = 2
	descDWord   = 3
	descQWord   = 4
	descWord    = 5
	descGUID    = 6
)

// contentFields names the five fixed strings of the content description
// object, in storage order.
var contentFields = [5]string{"Title", "Author", "Copyright", "Description", "Rating"}

// decodeContentDescription reads the five length-prefixed UTF-16 strings.
func decodeContentDescription(data []byte, col *collect.Collector) {
	if len(data) < 10 {
		col.Warn("asf", 0, "content description object too short")
		return
	}
	off := 10
	for i, name := range contentFields {
		n := int(binary.LittleEndian.Uint16(data[i*2:]))
		if off+n > len(data) {
			col.Warn("asf", int64(off), "content description field %s runs past the object", name)
			return
		}
		if s := decodeWide(data[off : off+n]); s != "" {
			addTag(col, name, s)
		}
		off += n
	}
}

// decodeDescriptorList reads the extended content description object:
// a count, then {name, type, value} records.
func decodeDescriptorList(data []byte, col *collect.Collector, skipCovers bool) {
	if len(data) < 2 {
		col.Warn("asf", 0, "extended content description object too short")
		return
	}
	count := int(binary.LittleEndian.Uint16(data))
	off := 2
	for i := 0; i < count; i++ {
		if off+2 > len(data) {
			col.Warn("asf", int64(off), "descriptor list claims %d entries but ends after %d", count, i)
			return
		}
		nameLen := int(binary.LittleEndian.Uint16(data[off:]))
		off += 2
		if off+nameLen+4 > len(data) {
			col.Warn("asf", int64(off), "descriptor %d runs past the object", i)
			return
		}
		name := decodeWide(data[off : off+nameLen])
		off += nameLen
		valType := binary.LittleEndian.Uint16(data[off:])
		valLen := int(binary.LittleEndian.Uint16(data[off+2:]))
		off += 4
		if off+valLen > len(data) {
			col.Warn("asf", int64(off), "descriptor %q value runs past the object", name)
			return
		}
		emitDescriptor(col, name, valType, data[off:off+valLen], skipCovers)
		off += valLen
	}
}

// decodeMetadataRecords reads a metadata or metadata library object. The
// record layout differs from the descriptor list: a fixed 12-byte head
// with a 32-bit value length, then the name and the value.
func decodeMetadataRecords(data []byte, col *collect.Collector, skipCovers bool) {
	if len(data) < 2 {
		return
	}
	count := int(binary.LittleEndian.Uint16(data))
	off := 2
	for i := 0; i < count; i++ {
		if off+12 > len(data) {
			col.Warn("asf", int64(off), "metadata object claims %d records but ends after %d", count, i)
			return
		}
		nameLen := int(binary.LittleEndian.Uint16(data[off+4:]))
		valType := binary.LittleEndian.Uint16(data[off+6:])
		valLen := int(binary.LittleEndian.Uint32(data[off+8:]))
		off += 12
		if off+nameLen+valLen > len(data) {
			col.Warn("asf", int64(off), "metadata record %d runs past the object", i)
			return
		}
		name := decodeWide(data[off : off+nameLen])
		off += nameLen
		emitDescriptor(col, name, valType, data[off:off+valLen], skipCovers)
		off += valLen
	}
}

// emitDescriptor types one descriptor value and records it. WM/Picture
// wraps an APIC-style picture structure in a byte value.
func emitDescriptor(col *collect.Collector, name string, valType uint16, raw []byte, skipCovers bool) {
	if name == "" {
		return
	}
	if name == "WM/Picture" {
		if skipCovers {
			return
		}
		pic, ok := decodePicture(raw)
		if !ok {
			col.Warn("asf", 0, "malformed WM/Picture value")
			return
		}
		addTag(col, name, pic)
		return
	}
	v, ok := descriptorValue(valType, raw)
	if !ok {
		return
	}
	addTag(col, name, v)
}

// descriptorValue converts a raw value per its declared type. Booleans are
// four bytes in the descriptor list and two in metadata objects; any
// nonzero integer reads as true.
func descriptorValue(valType uint16, raw []byte) (any, bool) {
	switch valType {
	case descUnicode:
		return decodeWide(raw), true
	case descBytes:
		return append([]byte(nil), raw...), true
	case descBool:
		v, ok := unsignedLE(raw)
		return v != 0, ok
	case descDWord, descWord:
		v, ok := unsignedLE(raw)
		return int64(v), ok
	case descQWord:
		return unsignedLE(raw)
	case descGUID:
		if len(raw) != 16 {
			return nil, false
		}
		return guidFromASF(raw).String(), true
	}
	return nil, false
}

func unsignedLE(b []byte) (uint64, bool) {
	switch len(b) {
	case 2:
		return uint64(binary.LittleEndian.Uint16(b)), true
	case 4:
		return uint64(binary.LittleEndian.Uint32(b)), true
	case 8:
		return binary.LittleEndian.Uint64(b), true
	}
	return 0, false
}

// decodePicture unpacks a WM/Picture value: a type byte, a 32-bit image
// size, NUL-terminated wide MIME and description strings, then the image.
func decodePicture(raw []byte) (types.Picture, bool) {
	if len(raw) < 5 {
		return types.Picture{}, false
	}
	picType := raw[0]
	size := int(binary.LittleEndian.Uint32(raw[1:5]))
	mime, off, ok := readWideZ(raw, 5)
	if !ok {
		return types.Picture{}, false
	}
	desc, off, ok := readWideZ(raw, off)
	if !ok {
		return types.Picture{}, false
	}
	if size <= 0 || off+size > len(raw) {
		return types.Picture{}, false
	}
	data := append([]byte(nil), raw[off:off+size]...)
	if mime == "" {
		mime = types.DetectImageMIME(data)
	}
	return types.Picture{
		Type:        types.PictureTypeFromByte(picType),
		MIMEType:    mime,
		Description: desc,
		Data:        data,
	}, true
}

// readWideZ reads a NUL-terminated UTF-16LE string starting at off,
// returning the decoded string and the offset past the terminator.
func readWideZ(b []byte, off int) (string, int, bool) {
	for i := off; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			return decodeWide(b[off:i]), i + 2, true
		}
	}
	return "", off, false
}

// decodeWide decodes UTF-16LE, the wire encoding of every ASF string.
// Undecodable input yields an empty string; tags are best effort.
func decodeWide(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(out), "\x00")
}

// addTag records one native tag under the asf system.
func addTag(col *collect.Collector, id string, v any) {
	col.AddTagType(types.SystemASF)
	col.AddTag(types.SystemASF, id, v)
}
