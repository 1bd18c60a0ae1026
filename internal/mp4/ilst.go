package mp4

import (
	"encoding/binary"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/tagmap"
	"github.com/audioprobe/audioprobe/internal/types"
)

// Well-known data atom classes.
const (
	classImplicit    = 0
	classUTF8        = 1
	classUTF16       = 2
	classJPEG        = 13
	classPNG         = 14
	classSignedInt   = 21
	classUnsignedInt = 22
	classFloat32     = 23
	classFloat64     = 24
	classBMP         = 27
)

// decodeIlst walks the iTunes metadata list. Each child holds one or more
// "data" atoms whose class byte states how the payload is typed; trkn,
// disk, gnre, covr, and freeform "----" atoms get their own treatment.
func decodeIlst(data []byte, col *collect.Collector, skipCovers bool) {
	items, err := parseBoxes(data)
	if err != nil {
		col.Warn("mp4", 0, "ilst: %v", err)
	}
	if len(items) == 0 {
		return
	}
	col.AddTagType(types.SystemITunes)

	for _, it := range items {
		switch it.typ {
		case "----":
			decodeFreeform(it.body, col)
		case "trkn", "disk":
			for _, d := range dataAtoms(it.body) {
				if pos, ok := trackPair(d.payload); ok {
					col.AddTag(types.SystemITunes, it.typ, pos)
				}
			}
		case "gnre":
			// Pre-iTunes 4 genre index: ID3 table, one-based.
			for _, d := range dataAtoms(it.body) {
				if len(d.payload) < 2 {
					continue
				}
				idx := int(binary.BigEndian.Uint16(d.payload))
				if name, ok := tagmap.GenreName(idx - 1); ok {
					col.AddTag(types.SystemITunes, "gnre", name)
				}
			}
		case "covr":
			if skipCovers {
				continue
			}
			for _, d := range dataAtoms(it.body) {
				if len(d.payload) > 0 {
					col.AddTag(types.SystemITunes, "covr", coverPicture(d))
				}
			}
		default:
			for _, d := range dataAtoms(it.body) {
				if v, ok := dataValue(d.class, d.payload); ok {
					col.AddTag(types.SystemITunes, it.typ, v)
				}
			}
		}
	}
}

// decodeFreeform handles a "----" atom: mean and name children form the
// compound id, data children carry the values.
func decodeFreeform(body []byte, col *collect.Collector) {
	boxes, _ := parseBoxes(body)
	var mean, name string
	if b, ok := findBox(boxes, "mean"); ok {
		mean = string(fullBoxBody(b))
	}
	if b, ok := findBox(boxes, "name"); ok {
		name = string(fullBoxBody(b))
	}
	if name == "" {
		return
	}
	id := "----:" + mean + ":" + name
	for _, b := range boxes {
		if b.typ != "data" || len(b.body) < 8 {
			continue
		}
		if v, ok := dataValue(b.body[3], b.body[8:]); ok {
			col.AddTag(types.SystemITunes, id, v)
		}
	}
}

// dataAtom is one decoded "data" child: a class byte, a 4-byte locale we
// ignore, then the payload.
type dataAtom struct {
	class   byte
	payload []byte
}

func dataAtoms(body []byte) []dataAtom {
	var out []dataAtom
	boxes, _ := parseBoxes(body)
	for _, b := range boxes {
		if b.typ != "data" || len(b.body) < 8 {
			continue
		}
		out = append(out, dataAtom{class: b.body[3], payload: b.body[8:]})
	}
	return out
}

// trackPair splits the binary trkn/disk payload: a reserved word, the
// number, then the total.
func trackPair(payload []byte) (types.PartOfSet, bool) {
	if len(payload) < 6 {
		return types.PartOfSet{}, false
	}
	return types.PartOfSet{
		No: int(binary.BigEndian.Uint16(payload[2:4])),
		Of: int(binary.BigEndian.Uint16(payload[4:6])),
	}, true
}

// dataValue converts a typed payload to a native tag value.
func dataValue(class byte, payload []byte) (any, bool) {
	switch class {
	case classUTF8:
		return strings.TrimRight(string(payload), "\x00"), true
	case classUTF16:
		out, err := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder().Bytes(payload)
		if err != nil {
			return nil, false
		}
		return strings.TrimRight(string(out), "\x00"), true
	case classSignedInt:
		return signedBE(payload)
	case classUnsignedInt:
		v, ok := unsignedBE(payload)
		return int64(v), ok
	case classFloat32:
		if len(payload) != 4 {
			return nil, false
		}
		return float64(math.Float32frombits(binary.BigEndian.Uint32(payload))), true
	case classFloat64:
		if len(payload) != 8 {
			return nil, false
		}
		return math.Float64frombits(binary.BigEndian.Uint64(payload)), true
	case classImplicit:
		// Untyped payloads are usually text from old writers; keep
		// anything that is not clean UTF-8 as raw bytes.
		if utf8.Valid(payload) && !strings.ContainsRune(string(payload), 0) {
			return string(payload), true
		}
		return append([]byte(nil), payload...), true
	default:
		return append([]byte(nil), payload...), true
	}
}

func signedBE(b []byte) (int64, bool) {
	v, ok := unsignedBE(b)
	if !ok {
		return 0, false
	}
	shift := 64 - 8*len(b)
	return int64(v<<shift) >> shift, true
}

func unsignedBE(b []byte) (uint64, bool) {
	switch len(b) {
	case 1:
		return uint64(b[0]), true
	case 2:
		return uint64(binary.BigEndian.Uint16(b)), true
	case 4:
		return uint64(binary.BigEndian.Uint32(b)), true
	case 8:
		return binary.BigEndian.Uint64(b), true
	}
	return 0, false
}

// coverPicture wraps one covr payload. The class byte names the image
// format; anything else falls back to magic-number sniffing.
func coverPicture(d dataAtom) types.Picture {
	var mime string
	switch d.class {
	case classJPEG:
		mime = "image/jpeg"
	case classPNG:
		mime = "image/png"
	case classBMP:
		mime = "image/bmp"
	default:
		mime = types.DetectImageMIME(d.payload)
	}
	w, h := imageDims(d.payload, mime)
	return types.Picture{
		Type:     types.PictureFrontCover,
		MIMEType: mime,
		Data:     append([]byte(nil), d.payload...),
		Width:    w,
		Height:   h,
	}
}

func imageDims(data []byte, mime string) (int, int) {
	switch mime {
	case "image/jpeg":
		return jpegDims(data)
	case "image/png":
		return pngDims(data)
	}
	return 0, 0
}

// jpegDims scans for a start-of-frame marker, which carries the height and
// width right after the precision byte.
func jpegDims(data []byte) (int, int) {
	for i := 0; i+9 <= len(data); i++ {
		if data[i] != 0xFF {
			continue
		}
		switch data[i+1] {
		case 0xC0, 0xC1, 0xC2:
			h := int(data[i+5])<<8 | int(data[i+6])
			w := int(data[i+7])<<8 | int(data[i+8])
			return w, h
		}
	}
	return 0, 0
}

// pngDims reads the IHDR chunk that directly follows the signature.
func pngDims(data []byte) (int, int) {
	if len(data) < 24 || string(data[12:16]) != "IHDR" {
		return 0, 0
	}
	w := int(binary.BigEndian.Uint32(data[16:20]))
	h := int(binary.BigEndian.Uint32(data[20:24]))
	return w, h
}
