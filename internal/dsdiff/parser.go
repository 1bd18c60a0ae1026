// Package dsdiff parses Philips DSDIFF (FRM8) files: the PROP chunk for
// format facts, the DSD or DST sound chunk for stream length, and the
// COMT, DIIN and embedded ID3 chunks for tags.
package dsdiff

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/id3"
	"github.com/audioprobe/audioprobe/internal/registry"
	"github.com/audioprobe/audioprobe/internal/types"
	"github.com/audioprobe/audioprobe/tokenizer"
)

// maxChunkSize caps how much of one metadata chunk is buffered.
const maxChunkSize = 64 << 20

func init() {
	registry.Register(types.ContainerDSDIFF, parser{})
}

type parser struct{}

// streamInfo accumulates facts across the chunk walk; chunk order is not
// fixed, so nothing is final until the walk ends.
type streamInfo struct {
	haveProp  bool
	rate      int
	channels  int
	codec     string
	lossless  bool
	dsdSize   int64
	dstSize   int64
	frames    uint32
	frameRate uint16
}

func (parser) Parse(ctx context.Context, tok *tokenizer.Tokenizer, col *collect.Collector, p registry.Params) error {
	head, err := tok.ReadBytes(16)
	if err != nil {
		return types.NewDecodeError("dsdiff", "file shorter than the FRM8 header", 0)
	}
	if string(head[0:4]) != "FRM8" {
		return types.NewDecodeError("dsdiff", "missing FRM8 chunk marker", 0)
	}
	if form := string(head[12:16]); form != "DSD " {
		return types.NewDecodeError("dsdiff", fmt.Sprintf("FORM type %q is not DSD", form), 12)
	}
	col.SetContainer("DSDIFF")

	var info streamInfo

chunks:
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		hdr, err := tok.ReadBytes(12)
		if err != nil {
			break // chunks run to end of file
		}
		id := string(hdr[0:4])
		rawSize := binary.BigEndian.Uint64(hdr[4:12])
		if rawSize > math.MaxInt64 {
			col.Warn("dsdiff", tok.Pos()-12, "chunk %s with impossible size %d", id, rawSize)
			break
		}
		size := int64(rawSize)
		start := tok.Pos()

		switch id {
		case "FVER", "PROP", "COMT", "DIIN", "ID3 ", "id3 ":
			if size > maxChunkSize {
				col.Warn("dsdiff", start, "%s chunk is %d bytes, not parsed", id, size)
				break
			}
			data, err := tok.ReadBytes(int(size))
			if err != nil {
				col.Warn("dsdiff", start, "%s chunk truncated: %v", id, err)
				break chunks
			}
			switch id {
			case "FVER":
				if len(data) >= 4 && data[0] != 1 {
					col.Warn("dsdiff", start, "format version %d.%d.%d.%d", data[0], data[1], data[2], data[3])
				}
			case "PROP":
				if !info.haveProp {
					info.haveProp = decodeProp(data, &info, col)
				}
			case "COMT":
				decodeComments(data, col)
			case "DIIN":
				decodeMasterInfo(data, col)
			default: // ID3
				if err := id3.DecodeV2(tokenizer.FromBytes(data), col, p.SkipCovers); err != nil {
					col.Warn("dsdiff", start, "embedded ID3v2: %v", err)
				}
			}

		case "DSD ":
			info.dsdSize = size

		case "DST ":
			info.dstSize = size
			if info.codec == "" {
				info.codec, info.lossless = "DST", true
			}
			decodeFrameInfo(tok, &info, size, col)
		}

		// Chunks are word-aligned; odd sizes carry a pad byte. Some
		// writers drop the pad on the final chunk, so only missing
		// chunk data counts as truncation.
		var pad int64
		if size%2 == 1 {
			pad = 1
		}
		if rem := size - (tok.Pos() - start); rem > 0 || pad > 0 {
			n, err := tok.Ignore(rem + pad)
			if err != nil || n < rem {
				col.Warn("dsdiff", tok.Pos(), "chunks truncated")
				break
			}
		}
	}

	if !info.haveProp {
		col.Warn("dsdiff", 0, "no property chunk")
		return nil
	}
	applyFormat(col, info)
	return nil
}

// decodeProp walks the sound-property chunk: nested local chunks with the
// same id/size framing as the top level.
func decodeProp(data []byte, info *streamInfo, col *collect.Collector) bool {
	if len(data) < 4 || string(data[0:4]) != "SND " {
		col.Warn("dsdiff", 0, "property chunk is not sound properties")
		return false
	}
	off := 4
	for off+12 <= len(data) {
		id := string(data[off : off+4])
		rawSize := binary.BigEndian.Uint64(data[off+4 : off+12])
		off += 12
		if rawSize > uint64(len(data)-off) {
			col.Warn("dsdiff", int64(off), "property %s runs past the chunk", id)
			return true
		}
		size := int(rawSize)
		body := data[off : off+size]

		switch id {
		case "FS  ":
			if len(body) >= 4 {
				info.rate = int(binary.BigEndian.Uint32(body[0:4]))
			}
		case "CHNL":
			if len(body) >= 2 {
				info.channels = int(binary.BigEndian.Uint16(body[0:2]))
			}
		case "CMPR":
			decodeCompression(body, info)
		}
		off += size + size%2
	}
	return true
}

// decodeCompression reads the compression type and its display name. DSD
// and DST are the two defined encodings; anything else keeps the stream
// readable but unclassified.
func decodeCompression(body []byte, info *streamInfo) {
	if len(body) < 4 {
		return
	}
	switch typ := string(body[0:4]); typ {
	case "DSD ":
		info.codec, info.lossless = "DSD", true
	case "DST ":
		info.codec, info.lossless = "DST", true
	default:
		name := ""
		if rest := body[4:]; len(rest) > 0 && int(rest[0]) <= len(rest)-1 {
			name = string(rest[1 : 1+rest[0]])
		}
		if name == "" {
			name = strings.TrimSpace(typ)
		}
		info.codec = name
	}
}

// decodeFrameInfo reads the FRTE chunk that leads the DST sound data; the
// frame count and rate are the only way to size a DST stream. The caller
// skips whatever remains of the chunk.
func decodeFrameInfo(tok *tokenizer.Tokenizer, info *streamInfo, size int64, col *collect.Collector) {
	if size < 18 {
		col.Warn("dsdiff", tok.Pos(), "DST chunk too short for frame information")
		return
	}
	head, err := tok.ReadBytes(12)
	if err != nil {
		col.Warn("dsdiff", tok.Pos(), "DST chunk truncated: %v", err)
		return
	}
	if string(head[0:4]) != "FRTE" {
		col.Warn("dsdiff", tok.Pos()-12, "DST chunk without frame information")
		return
	}
	if binary.BigEndian.Uint64(head[4:12]) < 6 {
		col.Warn("dsdiff", tok.Pos()-8, "frame information chunk too short")
		return
	}
	body, err := tok.ReadBytes(6)
	if err != nil {
		col.Warn("dsdiff", tok.Pos(), "frame information truncated: %v", err)
		return
	}
	info.frames = binary.BigEndian.Uint32(body[0:4])
	info.frameRate = binary.BigEndian.Uint16(body[4:6])
}

// decodeMasterInfo walks the edited-master chunk for the DITI title and
// DIAR artist entries.
func decodeMasterInfo(data []byte, col *collect.Collector) {
	off := 0
	for off+12 <= len(data) {
		id := string(data[off : off+4])
		rawSize := binary.BigEndian.Uint64(data[off+4 : off+12])
		off += 12
		if rawSize > uint64(len(data)-off) {
			col.Warn("dsdiff", int64(off), "master information entry %s runs past the chunk", id)
			return
		}
		size := int(rawSize)
		body := data[off : off+size]

		if id == "DITI" || id == "DIAR" {
			if text, ok := counted(body); ok && text != "" {
				col.AddTagType(types.SystemAIFF)
				col.AddTag(types.SystemAIFF, id, text)
			}
		}
		off += size + size%2
	}
}

// decodeComments reads the comments chunk: a count, then timestamped
// comment records padded to even length.
func decodeComments(data []byte, col *collect.Collector) {
	if len(data) < 2 {
		return
	}
	count := int(binary.BigEndian.Uint16(data[0:2]))
	off := 2
	for i := 0; i < count; i++ {
		// 6-byte timestamp, type, reference, then the counted text.
		if off+14 > len(data) {
			col.Warn("dsdiff", int64(off), "comments chunk claims %d entries but ends after %d", count, i)
			return
		}
		n := int(binary.BigEndian.Uint32(data[off+10 : off+14]))
		off += 14
		if n > len(data)-off {
			col.Warn("dsdiff", int64(off), "comment %d runs past the chunk", i)
			return
		}
		if text := strings.TrimRight(string(data[off:off+n]), "\x00"); text != "" {
			col.AddTagType(types.SystemAIFF)
			col.AddTag(types.SystemAIFF, "COMT", text)
		}
		off += n + n%2
	}
}

// counted decodes the 32-bit-counted strings used by the master
// information entries.
func counted(body []byte) (string, bool) {
	if len(body) < 4 {
		return "", false
	}
	n := int(binary.BigEndian.Uint32(body[0:4]))
	if n > len(body)-4 {
		return "", false
	}
	return strings.TrimRight(string(body[4:4+n]), "\x00"), true
}

func applyFormat(col *collect.Collector, info streamInfo) {
	if info.codec != "" {
		col.SetCodec(info.codec)
	}
	if info.rate > 0 {
		col.SetSampleRate(info.rate)
	}
	if info.channels > 0 {
		col.SetChannels(info.channels)
	}
	col.SetBitsPerSample(1)
	if info.lossless {
		col.SetLossless(true)
	}

	// DSD samples are single bits; DST sizes by frame count instead.
	var samples uint64
	switch {
	case info.dsdSize > 0 && info.channels > 0:
		samples = uint64(info.dsdSize) * 8 / uint64(info.channels)
	case info.frames > 0 && info.frameRate > 0 && info.rate > 0:
		samples = uint64(info.frames) * uint64(info.rate) / uint64(info.frameRate)
	}
	if samples == 0 {
		return
	}
	col.SetNumberOfSamples(samples)
	if info.rate == 0 {
		return
	}
	dur := time.Duration(float64(samples) / float64(info.rate) * float64(time.Second))
	col.SetDuration(dur)
	if info.dsdSize > 0 && info.channels > 0 {
		col.SetBitrate(info.rate * info.channels)
	} else if info.dstSize > 0 && dur > 0 {
		col.SetBitrate(int(float64(info.dstSize*8) / dur.Seconds()))
	}
}
