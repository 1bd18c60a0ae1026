// Package aiff parses AIFF and AIFF-C files: the COMM chunk for format
// facts, the NAME/AUTH/ANNO/"(c) " text chunks and an embedded ID3 chunk
// for tags.
package aiff

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
	registry.Register(types.ContainerAIFF, parser{})
}

type parser struct{}

// commInfo is the decoded COMM chunk.
type commInfo struct {
	channels int
	frames   uint64
	bits     int
	rate     float64
	codec    string
	lossless bool
}

func (parser) Parse(ctx context.Context, tok *tokenizer.Tokenizer, col *collect.Collector, p registry.Params) error {
	head, err := tok.ReadBytes(12)
	if err != nil {
		return types.NewDecodeError("aiff", "file shorter than the FORM header", 0)
	}
	if string(head[0:4]) != "FORM" {
		return types.NewDecodeError("aiff", "not an AIFF file", 0)
	}
	form := string(head[8:12])
	if form != "AIFF" && form != "AIFC" {
		return types.NewDecodeError("aiff", fmt.Sprintf("FORM type %q is not AIFF", form), 8)
	}
	col.SetContainer(form)

	var (
		info     commInfo
		haveCOMM bool
		ssndSize int64
	)

chunks:
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		hdr, err := tok.ReadBytes(8)
		if err != nil {
			break // chunks run to end of file
		}
		id := string(hdr[0:4])
		size := int64(binary.BigEndian.Uint32(hdr[4:8]))
		start := tok.Pos()

		switch id {
		case "COMM":
			if size > maxChunkSize {
				col.Warn("aiff", start, "COMM chunk is %d bytes, not parsed", size)
				break
			}
			data, err := tok.ReadBytes(int(size))
			if err != nil {
				col.Warn("aiff", start, "COMM chunk truncated: %v", err)
				break chunks
			}
			if !haveCOMM {
				info, haveCOMM = decodeCOMM(data, form, col)
			}

		case "SSND":
			ssndSize = size

		case "NAME", "AUTH", "ANNO", "(c) ":
			if size > maxChunkSize {
				col.Warn("aiff", start, "%s chunk is %d bytes, not parsed", id, size)
				break
			}
			data, err := tok.ReadBytes(int(size))
			if err != nil {
				col.Warn("aiff", start, "%s chunk truncated: %v", id, err)
				break chunks
			}
			if text := strings.TrimRight(string(data), "\x00"); text != "" {
				col.AddTagType(types.SystemAIFF)
				col.AddTag(types.SystemAIFF, id, text)
			}

		case "ID3 ", "id3 ":
			if size > maxChunkSize {
				col.Warn("aiff", start, "id3 chunk is %d bytes, not parsed", size)
				break
			}
			data, err := tok.ReadBytes(int(size))
			if err != nil {
				col.Warn("aiff", start, "id3 chunk truncated: %v", err)
				break chunks
			}
			if err := id3.DecodeV2(tokenizer.FromBytes(data), col, p.SkipCovers); err != nil {
				col.Warn("aiff", start, "embedded ID3v2: %v", err)
			}
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
				col.Warn("aiff", tok.Pos(), "chunks truncated")
				break
			}
		}
	}

	if !haveCOMM {
		col.Warn("aiff", 0, "no COMM chunk")
		return nil
	}
	applyFormat(col, info, ssndSize)
	return nil
}

// decodeCOMM unpacks the common chunk. AIFF-C carries a compression type
// and a pascal-string compression name after the fixed fields.
func decodeCOMM(data []byte, form string, col *collect.Collector) (commInfo, bool) {
	if len(data) < 18 {
		col.Warn("aiff", 0, "COMM chunk too short")
		return commInfo{}, false
	}
	info := commInfo{
		channels: int(binary.BigEndian.Uint16(data[0:2])),
		frames:   uint64(binary.BigEndian.Uint32(data[2:6])),
		bits:     int(binary.BigEndian.Uint16(data[6:8])),
		rate:     extendedFloat(data[8:18]),
		codec:    "PCM",
		lossless: true,
	}
	if form == "AIFC" {
		if len(data) < 22 {
			col.Warn("aiff", 0, "COMM chunk missing the compression type")
			return info, true
		}
		info.codec, info.lossless = compressionName(string(data[18:22]), data[22:])
	}
	return info, true
}

// compressionName resolves the AIFF-C compression type. Unknown types fall
// back to the human-readable pascal string that follows them.
func compressionName(comp string, rest []byte) (string, bool) {
	switch comp {
	case "NONE", "twos", "sowt":
		return "PCM", true
	case "fl32", "FL32":
		return "IEEE Float 32", true
	case "fl64", "FL64":
		return "IEEE Float 64", true
	case "ulaw", "ULAW":
		return "µ-law", false
	case "alaw", "ALAW":
		return "A-law", false
	case "ima4":
		return "IMA ADPCM", false
	}
	if len(rest) > 0 {
		if n := int(rest[0]); n > 0 && 1+n <= len(rest) {
			return string(rest[1 : 1+n]), false
		}
	}
	return comp, false
}

func applyFormat(col *collect.Collector, info commInfo, ssndSize int64) {
	if info.codec != "" {
		col.SetCodec(info.codec)
	}
	if info.lossless {
		col.SetLossless(true)
	}
	rate := int(math.Round(info.rate))
	col.SetSampleRate(rate)
	col.SetChannels(info.channels)
	col.SetBitsPerSample(info.bits)
	col.SetNumberOfSamples(info.frames)

	var dur time.Duration
	if info.rate > 0 && info.frames > 0 {
		dur = time.Duration(float64(info.frames) / info.rate * float64(time.Second))
		col.SetDuration(dur)
	}
	if info.lossless {
		col.SetBitrate(rate * info.bits * info.channels)
	} else if dur > 0 && ssndSize > 0 {
		col.SetBitrate(int(float64(ssndSize*8) / dur.Seconds()))
	}
}

// extendedFloat decodes the 80-bit extended-precision sample rate of the
// COMM chunk: a sign bit, a 15-bit exponent biased 16383, and a 64-bit
// mantissa with an explicit integer bit.
func extendedFloat(b []byte) float64 {
	exp := int(b[0]&0x7F)<<8 | int(b[1])
	mant := binary.BigEndian.Uint64(b[2:10])
	if mant == 0 || exp == 0x7FFF {
		return 0
	}
	f := math.Ldexp(float64(mant), exp-16383-63)
	if b[0]&0x80 != 0 {
		return -f
	}
	return f
}
