// Package wavpack parses WavPack block headers for format facts. Tags live
// in an APEv2 trailer (or an ID3v1 block) handled outside the parser.
package wavpack

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/registry"
	"github.com/audioprobe/audioprobe/internal/types"
	"github.com/audioprobe/audioprobe/tokenizer"
)

const headerSize = 32

// Block header flag fields.
const (
	flagBytesStored = 0x3 // bytes per sample minus one
	flagMono        = 0x4
	flagHybrid      = 0x8
	flagFloatData   = 0x80
	flagShiftMask   = 0x1F << 13 // bits discarded from each sample
	flagRateShift   = 23
	flagRateMask    = 0xF << flagRateShift
)

// sampleRates is indexed by the header's rate field; 15 means the rate is
// custom and lives in a metadata sub-block.
var sampleRates = [15]int{
	6000, 8000, 9600, 11025, 12000, 16000, 22050, 24000,
	32000, 44100, 48000, 64000, 88200, 96000, 192000,
}

const customRate = 15

// Metadata sub-block ids.
const (
	subBlockMask       = 0x3F
	subBlockOddSize    = 0x40
	subBlockLarge      = 0x80
	subBlockSampleRate = 0x27
)

// maxFirstBlock caps how much of the first block is scanned for the
// custom-rate sub-block.
const maxFirstBlock = 1 << 20

func init() {
	registry.Register(types.ContainerWavPack, parser{})
}

type parser struct{}

func (parser) Parse(ctx context.Context, tok *tokenizer.Tokenizer, col *collect.Collector, p registry.Params) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	head, err := tok.ReadBytes(headerSize)
	if err != nil {
		return types.NewDecodeError("wavpack", "file shorter than the block header", 0)
	}
	if string(head[0:4]) != "wvpk" {
		return types.NewDecodeError("wavpack", "missing wvpk block marker", 0)
	}
	col.SetContainer("WavPack")
	col.SetCodec("WavPack")

	blockSize := int64(binary.LittleEndian.Uint32(head[4:8]))
	version := binary.LittleEndian.Uint16(head[8:10])
	samplesHigh := uint64(head[11])
	samplesLow := binary.LittleEndian.Uint32(head[12:16])
	flags := binary.LittleEndian.Uint32(head[24:28])

	if version < 0x402 || version > 0x410 {
		col.Warn("wavpack", 8, "unusual stream version 0x%x", version)
	}

	col.SetLossless(flags&flagHybrid == 0)

	channels := 2
	if flags&flagMono != 0 {
		channels = 1
	}
	col.SetChannels(channels)

	bits := (int(flags&flagBytesStored)+1)*8 - int(flags&flagShiftMask>>13)
	if flags&flagFloatData != 0 {
		bits = 32
	}
	col.SetBitsPerSample(bits)

	rate := 0
	if idx := int(flags & flagRateMask >> flagRateShift); idx != customRate {
		rate = sampleRates[idx]
	} else if body := blockSize + 8 - headerSize; body > 0 && body <= maxFirstBlock {
		data, err := tok.ReadBytes(int(body))
		if err != nil {
			col.Warn("wavpack", headerSize, "first block truncated: %v", err)
			return nil
		}
		rate = scanSampleRate(data)
	}
	col.SetSampleRate(rate)

	// 0xFFFFFFFF marks a stream of unknown length.
	if samplesLow != 0xFFFFFFFF {
		total := samplesHigh<<32 | uint64(samplesLow)
		col.SetNumberOfSamples(total)
		if rate > 0 && total > 0 {
			col.SetDuration(time.Duration(float64(total) / float64(rate) * float64(time.Second)))
		}
	}

	if dur := col.Result().Format.Duration; dur > 0 && tok.Size() > 0 {
		col.SetBitrate(int(float64(tok.Size()*8) / dur.Seconds()))
	}
	return nil
}

// scanSampleRate walks the metadata sub-blocks of the first block for the
// custom sample rate: an id byte, a one- or three-byte word count, then
// the payload (3 bytes, little-endian, for the rate).
func scanSampleRate(data []byte) int {
	off := 0
	for off+2 <= len(data) {
		id := data[off]
		var size, skip int
		if id&subBlockLarge != 0 {
			if off+4 > len(data) {
				return 0
			}
			size = (int(data[off+1]) | int(data[off+2])<<8 | int(data[off+3])<<16) * 2
			skip = 4
		} else {
			size = int(data[off+1]) * 2
			skip = 2
		}
		body := data[off+skip:]
		if size > len(body) {
			return 0
		}
		if id&subBlockOddSize != 0 {
			size--
		}
		if id&subBlockMask == subBlockSampleRate && size >= 3 {
			return int(body[0]) | int(body[1])<<8 | int(body[2])<<16
		}
		if id&subBlockOddSize != 0 {
			size++
		}
		off += skip + size
	}
	return 0
}
