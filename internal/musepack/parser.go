// Package musepack parses Musepack SV7 and SV8 streams for format facts.
// Tags live in an APEv2 trailer handled outside the parser.
package musepack

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/registry"
	"github.com/audioprobe/audioprobe/internal/types"
	"github.com/audioprobe/audioprobe/tokenizer"
)

// sampleRates is shared by both stream versions; SV7 stores two bits,
// SV8 three.
var sampleRates = [8]int{44100, 48000, 37800, 32000}

// profileNames is indexed by the SV7 profile field. SV8 stores a quality
// value instead; quality q maps to index q+5.
var profileNames = [16]string{
	0:  "No profile",
	1:  "Unstable/Experimental",
	5:  "Below Telephone",
	6:  "Below Telephone",
	7:  "Telephone",
	8:  "Thumb",
	9:  "Radio",
	10: "Standard",
	11: "Xtreme",
	12: "Insane",
	13: "BrainDead",
	14: "Above BrainDead",
	15: "Above BrainDead",
}

// samplesPerFrame is the SV7 frame length in samples.
const samplesPerFrame = 1152

func init() {
	registry.Register(types.ContainerMusepack, parser{})
}

type parser struct{}

func (parser) Parse(ctx context.Context, tok *tokenizer.Tokenizer, col *collect.Collector, p registry.Params) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	head, err := tok.ReadBytes(4)
	if err != nil {
		return types.NewDecodeError("musepack", "file shorter than the stream marker", 0)
	}
	col.SetContainer("Musepack")

	switch {
	case string(head) == "MPCK":
		return parseSV8(ctx, tok, col)
	case string(head[0:3]) == "MP+":
		return parseSV7(head[3], tok, col)
	}
	return types.NewDecodeError("musepack", "missing Musepack stream marker", 0)
}

// parseSV7 reads the fixed 28-byte SV7 header; the marker and version byte
// are already consumed.
func parseSV7(version byte, tok *tokenizer.Tokenizer, col *collect.Collector) error {
	if v := version & 0x0F; v != 7 {
		col.Warn("musepack", 3, "stream version %d, decoding as SV7", v)
	}
	rest, err := tok.ReadBytes(24)
	if err != nil {
		return types.NewDecodeError("musepack", "SV7 header truncated", 4)
	}
	frames := binary.LittleEndian.Uint32(rest[0:4])
	flags := binary.LittleEndian.Uint32(rest[4:8])
	word5 := binary.LittleEndian.Uint32(rest[16:20])

	col.SetCodec("Musepack SV7")
	rate := sampleRates[flags>>16&0x3]
	col.SetSampleRate(rate)
	col.SetChannels(2)
	if name := profileNames[flags>>20&0xF]; name != "" {
		col.SetCodecProfile(name)
	}

	// True-gapless streams record the exact length of the final frame;
	// others carry half a frame of encoder delay on both ends.
	var samples uint64
	if frames > 0 {
		if trueGapless := word5>>31&0x1 == 1; trueGapless {
			lastFrame := uint64(word5 >> 20 & 0x7FF)
			samples = uint64(frames-1)*samplesPerFrame + lastFrame
		} else {
			samples = uint64(frames)*samplesPerFrame - samplesPerFrame/2
		}
	}
	finishStream(tok, col, samples, rate)
	return nil
}

// parseSV8 walks the packet stream up to the first audio packet. Packet
// sizes are variable-length integers and include the key and size field.
func parseSV8(ctx context.Context, tok *tokenizer.Tokenizer, col *collect.Collector) error {
	col.SetCodec("Musepack SV8")

	var (
		haveSH  bool
		samples uint64
		rate    int
	)

packets:
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := tok.Pos()
		key, err := tok.ReadBytes(2)
		if err != nil {
			break
		}
		if key[0] < 'A' || key[0] > 'Z' || key[1] < 'A' || key[1] > 'Z' {
			col.Warn("musepack", start, "invalid packet key %q", key)
			break
		}
		size, n, err := readVarint(tok)
		if err != nil {
			col.Warn("musepack", start, "packet size truncated: %v", err)
			break
		}
		body := int64(size) - 2 - int64(n)
		if body < 0 {
			col.Warn("musepack", start, "packet %s with impossible size %d", key, size)
			break
		}

		switch string(key) {
		case "SH":
			data, err := tok.ReadBytes(int(body))
			if err != nil {
				col.Warn("musepack", start, "stream header truncated: %v", err)
				break packets
			}
			samples, rate, haveSH = decodeStreamHeader(data, col)

		case "EI":
			data, err := tok.ReadBytes(int(body))
			if err != nil {
				col.Warn("musepack", start, "encoder info truncated: %v", err)
				break packets
			}
			decodeEncoderInfo(data, col)

		case "AP", "SE":
			break packets // audio begins or stream ends

		default:
			if err := tok.Skip(body); err != nil {
				col.Warn("musepack", start, "packet %s truncated: %v", key, err)
				break packets
			}
		}
	}

	if !haveSH {
		col.Warn("musepack", 0, "no stream header packet")
		return nil
	}
	finishStream(tok, col, samples, rate)
	return nil
}

// decodeStreamHeader reads the SH packet: CRC, stream version, sample and
// silence counts, then the packed rate/channel fields.
func decodeStreamHeader(data []byte, col *collect.Collector) (samples uint64, rate int, ok bool) {
	if len(data) < 7 {
		col.Warn("musepack", 0, "stream header too short")
		return 0, 0, false
	}
	if v := data[4]; v != 8 {
		col.Warn("musepack", 0, "stream version %d inside an SV8 container", v)
	}
	off := 5
	total, n, ok := sliceVarint(data[off:])
	if !ok {
		col.Warn("musepack", int64(off), "malformed sample count")
		return 0, 0, false
	}
	off += n
	silence, n, ok := sliceVarint(data[off:])
	if !ok {
		col.Warn("musepack", int64(off), "malformed beginning-silence count")
		return 0, 0, false
	}
	off += n
	if off+2 > len(data) {
		col.Warn("musepack", int64(off), "stream header too short")
		return 0, 0, false
	}
	flags := binary.BigEndian.Uint16(data[off:])

	rate = sampleRates[flags>>13&0x7]
	col.SetSampleRate(rate)
	col.SetChannels(int(flags>>4&0xF) + 1)
	if silence < total {
		samples = total - silence
	}
	return samples, rate, true
}

// decodeEncoderInfo reads the EI packet: a quality value in eighths, the
// PNS flag, and the encoder version triple.
func decodeEncoderInfo(data []byte, col *collect.Collector) {
	if len(data) < 4 {
		return
	}
	quality := int(data[0]>>1) / 8
	if idx := quality + 5; idx >= 0 && idx < len(profileNames) && profileNames[idx] != "" {
		col.SetCodecProfile(profileNames[idx])
	}
	col.SetTool(fmt.Sprintf("Musepack %d.%d.%d", data[1], data[2], data[3]))
}

// finishStream records the stream length facts shared by both versions.
func finishStream(tok *tokenizer.Tokenizer, col *collect.Collector, samples uint64, rate int) {
	if samples > 0 {
		col.SetNumberOfSamples(samples)
	}
	if samples > 0 && rate > 0 {
		dur := time.Duration(float64(samples) / float64(rate) * float64(time.Second))
		col.SetDuration(dur)
		if size := tok.Size(); size > 0 && dur > 0 {
			col.SetBitrate(int(float64(size*8) / dur.Seconds()))
		}
	}
}

// readVarint reads the SV8 variable-length integer from the stream: seven
// bits per byte, the high bit marking continuation.
func readVarint(tok *tokenizer.Tokenizer) (uint64, int, error) {
	var v uint64
	for i := 0; i < 9; i++ {
		b, err := tok.ReadBytes(1)
		if err != nil {
			return 0, 0, err
		}
		v = v<<7 | uint64(b[0]&0x7F)
		if b[0]&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	return 0, 0, types.NewDecodeError("musepack", "variable-length integer overruns nine bytes", tok.Pos())
}

// sliceVarint is readVarint over an in-memory packet body.
func sliceVarint(b []byte) (uint64, int, bool) {
	var v uint64
	for i := 0; i < len(b) && i < 9; i++ {
		v = v<<7 | uint64(b[i]&0x7F)
		if b[i]&0x80 == 0 {
			return v, i + 1, true
		}
	}
	return 0, 0, false
}
