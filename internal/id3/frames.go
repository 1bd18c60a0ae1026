package id3

import (
	"bytes"
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/types"
)

// frame is one decoded frame boundary: id, payload, offset within the tag
// body for warning messages.
type frame struct {
	id     string
	data   []byte
	offset int64
}

type warnFunc func(off int64, format string, args ...any)

// Frame-level flags. v2.3 and v2.4 disagree on every bit position.
const (
	v23Compressed = 0x0080
	v23Encrypted  = 0x0040
	v23Grouped    = 0x0020

	v24Grouped    = 0x0040
	v24Compressed = 0x0008
	v24Encrypted  = 0x0004
	v24Unsync     = 0x0002
	v24DataLength = 0x0001
)

// parseFrames walks the tag body and returns the decodable frames. The walk
// stops at padding or at the first boundary that no longer looks like a
// frame; everything before it is still returned.
func parseFrames(major byte, body []byte, warn warnFunc) []frame {
	idLen, hdrLen := 4, 10
	if major == 2 {
		idLen, hdrLen = 3, 6
	}

	var frames []frame
	off := 0
	for off+hdrLen <= len(body) {
		if body[off] == 0 {
			break // padding
		}
		id := string(body[off : off+idLen])
		if !validFrameID(id) {
			warn(int64(off), "garbage at frame boundary, dropping rest of tag")
			break
		}

		var size int
		var flags uint16
		switch major {
		case 2:
			size = int(body[off+3])<<16 | int(body[off+4])<<8 | int(body[off+5])
		case 3:
			size = int(beUint32(body[off+4 : off+8]))
			flags = beUint16(body[off+8 : off+10])
		default:
			size = int(decodeSynchsafe(body[off+4 : off+8]))
			flags = beUint16(body[off+8 : off+10])
		}
		off += hdrLen
		if size <= 0 || off+size > len(body) {
			warn(int64(off), "frame %s size %d runs past the tag", id, size)
			break
		}
		data := body[off : off+size]
		off += size

		switch major {
		case 3:
			if flags&(v23Compressed|v23Encrypted) != 0 {
				warn(int64(off-size), "skipping compressed or encrypted frame %s", id)
				continue
			}
			if flags&v23Grouped != 0 && len(data) > 0 {
				data = data[1:]
			}
		case 4:
			if flags&(v24Compressed|v24Encrypted) != 0 {
				warn(int64(off-size), "skipping compressed or encrypted frame %s", id)
				continue
			}
			if flags&v24Grouped != 0 && len(data) > 0 {
				data = data[1:]
			}
			if flags&v24DataLength != 0 && len(data) >= 4 {
				data = data[4:]
			}
			if flags&v24Unsync != 0 {
				data = reverseUnsync(data)
			}
		}
		if len(data) == 0 {
			continue
		}
		frames = append(frames, frame{id: id, data: data, offset: int64(off - size)})
	}
	return frames
}

func validFrameID(id string) bool {
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// decodeFrame dispatches one frame to its decoder. Structured frames get
// their own decoders; plain text and URL frames share generic ones; anything
// unrecognized is kept as a raw native tag.
func decodeFrame(hdr Header, f frame, col *collect.Collector, skipCovers bool) {
	sys := hdr.System()
	switch f.id {
	case "TXXX", "TXX":
		decodeUserText(sys, f, col)
	case "WXXX", "WXX":
		decodeUserURL(sys, f, col)
	case "COMM", "COM":
		decodeComment(sys, f, col)
	case "USLT", "ULT":
		decodeLyricsFrame(sys, f, col)
	case "APIC":
		decodeAPIC(sys, f, col, skipCovers)
	case "PIC":
		decodePIC(sys, f, col, skipCovers)
	case "POPM", "POP":
		decodePOPM(sys, f, col)
	case "UFID", "UFI":
		decodeUFID(sys, f, col)
	case "PRIV":
		decodePRIV(sys, f, col)
	case "PCST", "PCS":
		// Presence of the frame marks a podcast; the four payload bytes
		// carry nothing.
		col.AddTag(sys, f.id, "1")
	case "MCDI":
		col.AddTag(sys, f.id, f.data)
	case "CTOC":
		// Table of contents adds nothing beyond the CHAP frames.
	default:
		switch f.id[0] {
		case 'T':
			decodeTextFrame(sys, hdr.Major, f, col)
		case 'W':
			col.AddTag(sys, f.id, latin1(f.data))
		default:
			col.AddTag(sys, f.id, f.data)
		}
	}
}

// decodeTextFrame decodes a plain text information frame. A payload can
// carry several NUL-separated values; each is reported as its own tag.
func decodeTextFrame(sys types.TagSystem, major byte, f frame, col *collect.Collector) {
	for _, v := range splitValues(f.data[0], f.data[1:]) {
		col.AddTag(sys, f.id, v)
	}
}

// decodeUserText decodes TXXX: encoding, descriptor, value. The descriptor
// becomes part of the native id so mapping rows can target specific
// descriptors (replaygain, MusicBrainz ids).
func decodeUserText(sys types.TagSystem, f frame, col *collect.Collector) {
	enc := f.data[0]
	desc, rest := splitTerm(enc, f.data[1:])
	id := f.id + ":" + decodeString(enc, desc)
	for _, v := range splitValues(enc, rest) {
		col.AddTag(sys, id, v)
	}
}

// decodeUserURL decodes WXXX: encoding, descriptor, then a latin1 URL.
func decodeUserURL(sys types.TagSystem, f frame, col *collect.Collector) {
	enc := f.data[0]
	desc, rest := splitTerm(enc, f.data[1:])
	url := strings.TrimRight(latin1(rest), "\x00")
	if url == "" {
		return
	}
	col.AddTag(sys, f.id+":"+decodeString(enc, desc), url)
}

// decodeComment decodes COMM: encoding, language, descriptor, text.
// iTunes hides its own bookkeeping in comments with "iTun" descriptors;
// those stay native-only under a compound id instead of polluting the
// user-visible comment field.
func decodeComment(sys types.TagSystem, f frame, col *collect.Collector) {
	if len(f.data) < 4 {
		return
	}
	enc := f.data[0]
	desc, rest := splitTerm(enc, f.data[4:])
	text := decodeString(enc, rest)
	if rest == nil {
		// No terminator at all: the whole payload is the comment.
		text = decodeString(enc, desc)
		desc = nil
	}
	if text == "" {
		return
	}
	descStr := decodeString(enc, desc)
	if strings.HasPrefix(descStr, "iTun") {
		col.AddTag(sys, "COMM:"+descStr, text)
		return
	}
	col.AddTag(sys, f.id, text)
}

// decodeLyricsFrame decodes USLT, which shares the COMM layout.
func decodeLyricsFrame(sys types.TagSystem, f frame, col *collect.Collector) {
	if len(f.data) < 4 {
		return
	}
	enc := f.data[0]
	desc, rest := splitTerm(enc, f.data[4:])
	text := decodeString(enc, rest)
	if rest == nil {
		text = decodeString(enc, desc)
	}
	if text != "" {
		col.AddTag(sys, f.id, text)
	}
}

// decodeAPIC decodes an attached picture: encoding, MIME type, picture
// type, description, image data.
func decodeAPIC(sys types.TagSystem, f frame, col *collect.Collector, skipCovers bool) {
	if skipCovers {
		return
	}
	enc := f.data[0]
	mimeBytes, rest := splitTerm(encLatin1, f.data[1:])
	if len(rest) < 1 {
		return
	}
	picType := rest[0]
	desc, img := splitTerm(enc, rest[1:])
	if len(img) == 0 {
		return
	}
	col.AddTag(sys, f.id, types.Picture{
		Type:        types.PictureTypeFromByte(picType),
		MIMEType:    latin1(mimeBytes),
		Description: decodeString(enc, desc),
		Data:        img,
	})
}

// decodePIC decodes the v2.2 picture frame, which stores a three-character
// image format instead of a MIME type.
func decodePIC(sys types.TagSystem, f frame, col *collect.Collector, skipCovers bool) {
	if skipCovers || len(f.data) < 5 {
		return
	}
	enc := f.data[0]
	format := strings.ToUpper(string(f.data[1:4]))
	picType := f.data[4]
	desc, img := splitTerm(enc, f.data[5:])
	if len(img) == 0 {
		return
	}
	mime := "image/" + strings.ToLower(format)
	if format == "JPG" {
		mime = "image/jpeg"
	}
	col.AddTag(sys, f.id, types.Picture{
		Type:        types.PictureTypeFromByte(picType),
		MIMEType:    mime,
		Description: decodeString(enc, desc),
		Data:        img,
	})
}

// decodePOPM decodes the popularimeter: rater email, one rating byte,
// optional play counter. The rating is normalized to [0,1] here because the
// 0..255 scale is a frame detail, not a tag-system property.
func decodePOPM(sys types.TagSystem, f frame, col *collect.Collector) {
	email, rest := splitTerm(encLatin1, f.data)
	if len(rest) < 1 {
		return
	}
	col.AddTag(sys, f.id, types.Rating{
		Source: latin1(email),
		Value:  float64(rest[0]) / 255,
	})
}

// decodeUFID decodes a unique file identifier: owner, then the id bytes.
func decodeUFID(sys types.TagSystem, f frame, col *collect.Collector) {
	owner, rest := splitTerm(encLatin1, f.data)
	if len(rest) == 0 {
		return
	}
	col.AddTag(sys, "UFID:"+latin1(owner), string(rest))
}

// decodePRIV keeps a private frame native-only under its owner id.
func decodePRIV(sys types.TagSystem, f frame, col *collect.Collector) {
	owner, rest := splitTerm(encLatin1, f.data)
	if len(rest) == 0 {
		return
	}
	col.AddTag(sys, "PRIV:"+latin1(owner), rest)
}

// decodeChapter decodes a CHAP frame: element id, start and end times in
// milliseconds, two byte offsets (ignored), then embedded sub-frames that
// usually carry a TIT2 title.
func decodeChapter(major byte, f frame) (types.Chapter, bool) {
	nullIdx := bytes.IndexByte(f.data, 0)
	if nullIdx < 0 {
		return types.Chapter{}, false
	}
	elementID := string(f.data[:nullIdx])
	rest := f.data[nullIdx+1:]
	if len(rest) < 16 {
		return types.Chapter{}, false
	}

	startMs := beUint32(rest[0:4])
	endMs := beUint32(rest[4:8])

	title := elementID
	for _, sub := range parseFrames(major, rest[16:], func(int64, string, ...any) {}) {
		if sub.id == "TIT2" || sub.id == "TT2" {
			if vals := splitValues(sub.data[0], sub.data[1:]); len(vals) > 0 {
				title = vals[0]
			}
			break
		}
	}

	return types.Chapter{
		Title:     title,
		StartTime: time.Duration(startMs) * time.Millisecond,
		EndTime:   time.Duration(endMs) * time.Millisecond,
	}, true
}

// sortChapters orders chapters by start time before they are numbered.
func sortChapters(chapters []types.Chapter) {
	slices.SortFunc(chapters, func(a, b types.Chapter) int {
		return cmp.Compare(a.StartTime, b.StartTime)
	})
}
