// Package riff parses RIFF WAVE files: the fmt chunk for format facts, the
// data chunk for length, the LIST INFO chunk for tags, and an embedded
// "id3 " chunk for ID3v2 frames.
package riff

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/id3"
	"github.com/audioprobe/audioprobe/internal/registry"
	"github.com/audioprobe/audioprobe/internal/types"
	"github.com/audioprobe/audioprobe/tokenizer"
)

// maxChunkSize caps how much of one metadata chunk is buffered. Embedded
// ID3 chunks carry covers; everything else stays tiny.
const maxChunkSize = 64 << 20

const formatExtensible = 0xFFFE

func init() {
	registry.Register(types.ContainerRIFF, parser{})
}

type parser struct{}

// waveFormats names the fmt chunk format tags. Extensible files repeat the
// real tag inside the subformat GUID.
var waveFormats = map[uint16]string{
	0x0001: "PCM",
	0x0002: "MS ADPCM",
	0x0003: "IEEE Float",
	0x0006: "A-law",
	0x0007: "µ-law",
	0x0011: "IMA ADPCM",
	0x0055: "MP3",
}

// waveFormat is the decoded fmt chunk.
type waveFormat struct {
	tag        uint16
	channels   int
	sampleRate int
	byteRate   int
	blockAlign int
	bits       int
}

func (parser) Parse(ctx context.Context, tok *tokenizer.Tokenizer, col *collect.Collector, p registry.Params) error {
	head, err := tok.ReadBytes(12)
	if err != nil {
		return types.NewDecodeError("riff", "file shorter than the RIFF header", 0)
	}
	if string(head[0:4]) != "RIFF" || string(head[8:12]) != "WAVE" {
		return types.NewDecodeError("riff", "not a RIFF WAVE file", 0)
	}
	col.SetContainer("WAVE")

	var (
		format      waveFormat
		haveFmt     bool
		dataSize    int64
		factSamples uint64
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
		size := int64(binary.LittleEndian.Uint32(hdr[4:8]))
		start := tok.Pos()

		switch id {
		case "fmt ":
			if size > maxChunkSize {
				col.Warn("riff", start, "fmt chunk is %d bytes, not parsed", size)
				break
			}
			data, err := tok.ReadBytes(int(size))
			if err != nil {
				col.Warn("riff", start, "fmt chunk truncated: %v", err)
				break chunks
			}
			if !haveFmt {
				format, haveFmt = decodeFmt(data, col)
			}

		case "fact":
			if size < 4 {
				col.Warn("riff", start, "fact chunk too short")
				break
			}
			data, err := tok.ReadBytes(4)
			if err != nil {
				col.Warn("riff", start, "fact chunk truncated")
				break chunks
			}
			factSamples = uint64(binary.LittleEndian.Uint32(data))

		case "data":
			dataSize = size

		case "LIST":
			if size > maxChunkSize {
				col.Warn("riff", start, "LIST chunk is %d bytes, not parsed", size)
				break
			}
			data, err := tok.ReadBytes(int(size))
			if err != nil {
				col.Warn("riff", start, "LIST chunk truncated: %v", err)
				break chunks
			}
			if len(data) >= 4 && string(data[0:4]) == "INFO" {
				decodeINFO(data[4:], col)
			}

		case "id3 ", "ID3 ":
			if size > maxChunkSize {
				col.Warn("riff", start, "id3 chunk is %d bytes, not parsed", size)
				break
			}
			data, err := tok.ReadBytes(int(size))
			if err != nil {
				col.Warn("riff", start, "id3 chunk truncated: %v", err)
				break chunks
			}
			if err := id3.DecodeV2(tokenizer.FromBytes(data), col, p.SkipCovers); err != nil {
				col.Warn("riff", start, "embedded ID3v2: %v", err)
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
				col.Warn("riff", tok.Pos(), "chunks truncated")
				break
			}
		}
	}

	if !haveFmt {
		col.Warn("riff", 0, "no fmt chunk")
		return nil
	}
	applyFormat(col, format, dataSize, factSamples)
	return nil
}

// decodeFmt unpacks the WAVEFORMATEX fields of the fmt chunk.
func decodeFmt(data []byte, col *collect.Collector) (waveFormat, bool) {
	if len(data) < 16 {
		col.Warn("riff", 0, "fmt chunk too short")
		return waveFormat{}, false
	}
	f := waveFormat{
		tag:        binary.LittleEndian.Uint16(data[0:2]),
		channels:   int(binary.LittleEndian.Uint16(data[2:4])),
		sampleRate: int(binary.LittleEndian.Uint32(data[4:8])),
		byteRate:   int(binary.LittleEndian.Uint32(data[8:12])),
		blockAlign: int(binary.LittleEndian.Uint16(data[12:14])),
		bits:       int(binary.LittleEndian.Uint16(data[14:16])),
	}
	if f.tag == formatExtensible && len(data) >= 26 {
		// The real format tag leads the subformat GUID; the valid-bits
		// field holds the precision when the container rounds up.
		f.tag = binary.LittleEndian.Uint16(data[24:26])
		if valid := int(binary.LittleEndian.Uint16(data[18:20])); valid > 0 {
			f.bits = valid
		}
	}
	return f, true
}

// applyFormat records the format facts once all chunks are in: the fact
// chunk sample count wins, PCM files derive it from the data length.
func applyFormat(col *collect.Collector, f waveFormat, dataSize int64, factSamples uint64) {
	if name, ok := waveFormats[f.tag]; ok {
		col.SetCodec(name)
	}
	switch f.tag {
	case 0x0001, 0x0003:
		col.SetLossless(true)
	}
	col.SetSampleRate(f.sampleRate)
	col.SetChannels(f.channels)
	col.SetBitsPerSample(f.bits)
	col.SetBitrate(f.byteRate * 8)

	samples := factSamples
	if samples == 0 && f.tag == 0x0001 && f.blockAlign > 0 && dataSize > 0 {
		samples = uint64(dataSize / int64(f.blockAlign))
	}
	if samples > 0 {
		col.SetNumberOfSamples(samples)
		if f.sampleRate > 0 {
			col.SetDuration(time.Duration(float64(samples) / float64(f.sampleRate) * float64(time.Second)))
		}
		return
	}
	if f.byteRate > 0 && dataSize > 0 {
		col.SetDuration(time.Duration(float64(dataSize) / float64(f.byteRate) * float64(time.Second)))
	}
}
