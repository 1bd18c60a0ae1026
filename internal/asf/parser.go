// Package asf parses Windows Media (ASF/WMA) files: the header object walk,
// file and stream properties for format facts, and the content description,
// extended content description and metadata objects for tags.
package asf

import (
	"context"
	"encoding/binary"
	"math"
	"time"

	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/registry"
	"github.com/audioprobe/audioprobe/internal/types"
	"github.com/audioprobe/audioprobe/tokenizer"
)

// maxObjectSize caps how much of one header object is buffered. Tag objects
// stay small; only embedded covers push them into megabytes.
const maxObjectSize = 64 << 20

func init() {
	registry.Register(types.ContainerASF, parser{})
}

type parser struct{}

// waveFormats names the WAVEFORMATEX format tags seen in ASF audio streams.
var waveFormats = map[uint16]string{
	0x0001: "PCM",
	0x000A: "WMA Voice",
	0x0055: "MP3",
	0x0161: "WMA",
	0x0162: "WMA Pro",
	0x0163: "WMA Lossless",
}

func (parser) Parse(ctx context.Context, tok *tokenizer.Tokenizer, col *collect.Collector, p registry.Params) error {
	head, err := tok.ReadBytes(30)
	if err != nil {
		return types.NewDecodeError("asf", "file shorter than the header object", 0)
	}
	if guidFromASF(head) != headerObject {
		return types.NewDecodeError("asf", "missing header object GUID", 0)
	}
	col.SetContainer("ASF")
	count := binary.LittleEndian.Uint32(head[24:28])

	var maxBitrate int
	for i := uint32(0); i < count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := tok.Pos()
		objHead, err := tok.ReadBytes(24)
		if err != nil {
			col.Warn("asf", start, "header ends after %d of %d objects", i, count)
			break
		}
		size := binary.LittleEndian.Uint64(objHead[16:24])
		if size < 24 || size > math.MaxInt64 {
			col.Warn("asf", start, "object with impossible size %d", size)
			break
		}
		body := int64(size) - 24
		guid := guidFromASF(objHead)

		var data []byte
		switch guid {
		case filePropertiesObject, streamPropertiesObject, contentDescriptionObject,
			extendedContentDescObject, headerExtensionObject, codecListObject:
			if body > maxObjectSize {
				col.Warn("asf", start, "object is %d bytes, not parsed", body)
				if err := tok.Skip(body); err != nil {
					col.Warn("asf", start, "object truncated: %v", err)
					return nil
				}
				continue
			}
			data, err = tok.ReadBytes(int(body))
			if err != nil {
				col.Warn("asf", start, "object truncated: %v", err)
				return nil
			}
		default:
			if err := tok.Skip(body); err != nil {
				col.Warn("asf", start, "object truncated: %v", err)
				return nil
			}
			continue
		}

		switch guid {
		case filePropertiesObject:
			maxBitrate = decodeFileProperties(data, col)
		case streamPropertiesObject:
			decodeStreamProperties(data, col)
		case contentDescriptionObject:
			decodeContentDescription(data, col)
		case extendedContentDescObject:
			decodeDescriptorList(data, col, p.SkipCovers)
		case headerExtensionObject:
			decodeHeaderExtension(data, col, p.SkipCovers)
		case codecListObject:
			decodeCodecList(data, col)
		}
	}

	if col.Result().Format.Bitrate == 0 && maxBitrate > 0 {
		col.SetBitrate(maxBitrate)
	}
	// Broadcast captures carry placeholder durations. Estimate from the
	// file size when the properties object gave nothing usable.
	if !col.HasDuration() {
		if br := col.Result().Format.Bitrate; br > 0 && tok.Size() > 0 {
			col.SetDuration(time.Duration(float64(tok.Size()*8) / float64(br) * float64(time.Second)))
		}
	}
	return nil
}

// decodeFileProperties reads the play duration and the maximum bitrate.
// Returns the bitrate instead of setting it so the stream properties
// object, which knows the audio-only rate, gets first claim.
func decodeFileProperties(data []byte, col *collect.Collector) int {
	if len(data) < 80 {
		col.Warn("asf", 0, "file properties object too short")
		return 0
	}
	playDur := binary.LittleEndian.Uint64(data[40:48])
	preroll := binary.LittleEndian.Uint64(data[56:64])
	flags := binary.LittleEndian.Uint32(data[64:68])
	maxBitrate := int(binary.LittleEndian.Uint32(data[76:80]))

	// The broadcast flag marks a file written while streaming: its size
	// and duration fields are placeholders.
	if flags&1 != 0 {
		return maxBitrate
	}
	if playDur > math.MaxInt64/100 {
		return maxBitrate
	}
	// Play duration counts 100ns units and includes the preroll buffer.
	dur := time.Duration(playDur)*100 - time.Duration(preroll)*time.Millisecond
	if dur > 0 {
		col.SetDuration(dur)
	}
	return maxBitrate
}

// decodeStreamProperties reads the WAVEFORMATEX of an audio stream.
// Video and script streams are ignored.
func decodeStreamProperties(data []byte, col *collect.Collector) {
	if len(data) < 16 {
		col.Warn("asf", 0, "stream properties object too short")
		return
	}
	if guidFromASF(data[0:16]) != audioMediaStream {
		return
	}
	if len(data) < 70 {
		col.Warn("asf", 0, "audio stream type-specific data too short")
		return
	}
	formatTag := binary.LittleEndian.Uint16(data[54:56])
	channels := int(binary.LittleEndian.Uint16(data[56:58]))
	sampleRate := int(binary.LittleEndian.Uint32(data[58:62]))
	byteRate := int(binary.LittleEndian.Uint32(data[62:66]))
	bits := int(binary.LittleEndian.Uint16(data[68:70]))

	if name, ok := waveFormats[formatTag]; ok {
		col.SetCodec(name)
	}
	switch formatTag {
	case 0x0001, 0x0163:
		col.SetLossless(true)
	}
	col.SetSampleRate(sampleRate)
	col.SetChannels(channels)
	col.SetBitsPerSample(bits)
	col.SetBitrate(byteRate * 8)
}

// decodeCodecList picks up the display name of the audio codec when the
// stream properties carried a format tag we have no name for.
func decodeCodecList(data []byte, col *collect.Collector) {
	if len(data) < 20 {
		col.Warn("asf", 0, "codec list object too short")
		return
	}
	count := int(binary.LittleEndian.Uint32(data[16:20]))
	off := 20
	for i := 0; i < count; i++ {
		if off+4 > len(data) {
			return
		}
		typ := binary.LittleEndian.Uint16(data[off:])
		nameLen := int(binary.LittleEndian.Uint16(data[off+2:])) * 2
		off += 4
		if off+nameLen+2 > len(data) {
			return
		}
		name := decodeWide(data[off : off+nameLen])
		off += nameLen
		descLen := int(binary.LittleEndian.Uint16(data[off:])) * 2
		off += 2 + descLen
		if off+2 > len(data) {
			return
		}
		infoLen := int(binary.LittleEndian.Uint16(data[off:]))
		off += 2 + infoLen

		if typ == 2 && name != "" && col.Result().Format.Codec == "" {
			col.SetCodec(name)
		}
	}
}

// decodeHeaderExtension walks the nested objects for the metadata and
// metadata library lists.
func decodeHeaderExtension(data []byte, col *collect.Collector, skipCovers bool) {
	if len(data) < 22 {
		col.Warn("asf", 0, "header extension object too short")
		return
	}
	rest := data[22:]
	for len(rest) >= 24 {
		guid := guidFromASF(rest[0:16])
		size := binary.LittleEndian.Uint64(rest[16:24])
		if size < 24 || size > uint64(len(rest)) {
			col.Warn("asf", 0, "nested object with impossible size %d", size)
			return
		}
		if guid == metadataObject || guid == metadataLibraryObject {
			decodeMetadataRecords(rest[24:size], col, skipCovers)
		}
		rest = rest[size:]
	}
}
