// Package flac parses native FLAC files: the fLaC marker followed by a
// chain of metadata blocks, then audio frames. Format facts come from
// STREAMINFO, tags from the VORBIS_COMMENT block, covers from PICTURE
// blocks, chapters from CUESHEET tracks.
package flac

import (
	"bytes"
	"context"
	"time"

	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/registry"
	"github.com/audioprobe/audioprobe/internal/types"
	"github.com/audioprobe/audioprobe/internal/vorbis"
	"github.com/audioprobe/audioprobe/tokenizer"
)

// Metadata block types.
const (
	blockStreamInfo    = 0
	blockPadding       = 1
	blockApplication   = 2
	blockSeekTable     = 3
	blockVorbisComment = 4
	blockCueSheet      = 5
	blockPicture       = 6
)

// StreamInfoSize is the fixed byte length of a STREAMINFO block body.
const StreamInfoSize = 34

func init() {
	registry.Register(types.ContainerFLAC, parser{})
}

type parser struct{}

func (parser) Parse(ctx context.Context, tok *tokenizer.Tokenizer, col *collect.Collector, p registry.Params) error {
	marker, err := tok.ReadString(4, "FLAC marker")
	if err != nil {
		return err
	}
	if marker != "fLaC" {
		return types.NewDecodeError("flac", "missing fLaC marker", 0)
	}
	col.SetContainer("FLAC")
	col.SetCodec("FLAC")
	col.SetLossless(true)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		hdr, err := tokenizer.ReadBE[uint32](tok, "metadata block header")
		if err != nil {
			col.Warn("flac", tok.Pos(), "metadata blocks truncated: %v", err)
			return nil
		}
		last := hdr>>31 == 1
		blockType := int(hdr >> 24 & 0x7F)
		length := int64(hdr & 0xFFFFFF)
		start := tok.Pos()

		switch blockType {
		case blockStreamInfo:
			if length != StreamInfoSize {
				col.Warn("flac", start, "STREAMINFO is %d bytes, want %d", length, StreamInfoSize)
				break
			}
			data := make([]byte, StreamInfoSize)
			if err := tok.ReadFull(data); err != nil {
				col.Warn("flac", start, "STREAMINFO truncated: %v", err)
				return nil
			}
			DecodeStreamInfo(data, col)

		case blockVorbisComment:
			block, err := tok.ReadBytes(int(length))
			if err != nil {
				col.Warn("flac", start, "vorbis comment block truncated: %v", err)
				return nil
			}
			if err := vorbis.DecodeComments(block, col, p.SkipCovers); err != nil {
				col.Warn("flac", start, "vorbis comment block: %v", err)
			}

		case blockPicture:
			if p.SkipCovers {
				break
			}
			block, err := tok.ReadBytes(int(length))
			if err != nil {
				col.Warn("flac", start, "picture block truncated: %v", err)
				return nil
			}
			pic, err := vorbis.DecodePictureBlock(block)
			if err != nil {
				col.Warn("flac", start, "picture block: %v", err)
				break
			}
			col.AddTag(types.SystemVorbis, "METADATA_BLOCK_PICTURE", pic)

		case blockCueSheet:
			block, err := tok.ReadBytes(int(length))
			if err != nil {
				col.Warn("flac", start, "cuesheet block truncated: %v", err)
				return nil
			}
			if err := decodeCueSheet(block, col); err != nil {
				col.Warn("flac", start, "cuesheet block: %v", err)
			}

		case blockPadding, blockApplication, blockSeekTable:
			// carry no metadata we surface

		default:
			col.Warn("flac", start, "unknown metadata block type %d, skipping", blockType)
		}

		// Land exactly on the next block header regardless of how much the
		// block decoder consumed.
		if rem := length - (tok.Pos() - start); rem > 0 {
			if err := tok.Skip(rem); err != nil {
				col.Warn("flac", tok.Pos(), "metadata blocks truncated: %v", err)
				return nil
			}
		}
		if last {
			break
		}
	}

	estimateBitrate(tok, col)
	return nil
}

// StreamInfo holds the fixed STREAMINFO fields. Other containers embed FLAC
// streams (Ogg, MP4) and reuse this decoding.
type StreamInfo struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	TotalSamples  uint64
	MD5           []byte // nil when the encoder left it zeroed
}

// ParseStreamInfo unpacks the bit-packed STREAMINFO fields: sample rate
// (20 bits), channels (3, stored minus one), bits per sample (5, minus one),
// total samples (36), then the 16-byte decoded-audio MD5. data must be
// StreamInfoSize bytes.
func ParseStreamInfo(data []byte) StreamInfo {
	var packed uint64
	for _, b := range data[10:18] {
		packed = packed<<8 | uint64(b)
	}
	si := StreamInfo{
		SampleRate:    int(packed >> 44 & 0xFFFFF),
		Channels:      int(packed>>41&0x7) + 1,
		BitsPerSample: int(packed>>36&0x1F) + 1,
		TotalSamples:  packed & 0xFFFFFFFFF,
	}
	// An all-zero MD5 means the encoder did not compute one.
	if md5 := data[18:34]; !bytes.Equal(md5, make([]byte, 16)) {
		si.MD5 = append([]byte(nil), md5...)
	}
	return si
}

// Duration is the stream length STREAMINFO declares, zero when the encoder
// left the sample count unset.
func (si StreamInfo) Duration() time.Duration {
	if si.SampleRate <= 0 || si.TotalSamples == 0 {
		return 0
	}
	seconds := float64(si.TotalSamples) / float64(si.SampleRate)
	return time.Duration(seconds * float64(time.Second))
}

// DecodeStreamInfo parses STREAMINFO and records every fact it carries.
func DecodeStreamInfo(data []byte, col *collect.Collector) {
	si := ParseStreamInfo(data)
	col.SetSampleRate(si.SampleRate)
	col.SetChannels(si.Channels)
	col.SetBitsPerSample(si.BitsPerSample)
	col.SetNumberOfSamples(si.TotalSamples)
	if d := si.Duration(); d > 0 {
		col.SetDuration(d)
	}
	col.SetAudioMD5(si.MD5)
}

// estimateBitrate derives an average bitrate from file size and duration.
// FLAC is variable-rate, so this is the whole-file mean, not a frame fact.
func estimateBitrate(tok *tokenizer.Tokenizer, col *collect.Collector) {
	size := tok.Size()
	dur := col.Result().Format.Duration
	if size <= 0 || dur <= 0 {
		return
	}
	col.SetBitrate(int(float64(size*8) / dur.Seconds()))
}
