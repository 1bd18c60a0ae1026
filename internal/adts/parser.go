// Package adts parses raw AAC streams framed as ADTS: a sync search for
// the first frame, fixed-header tables for the format facts, a stream-wide
// bitrate and duration estimate from the first frame, and an optional
// frame-by-frame walk for the exact duration.
package adts

import (
	"context"
	"fmt"
	"time"

	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/registry"
	"github.com/audioprobe/audioprobe/internal/trailer"
	"github.com/audioprobe/audioprobe/internal/types"
	"github.com/audioprobe/audioprobe/tokenizer"
)

// maxSyncSearch bounds how far the parser hunts for the first frame.
const maxSyncSearch = 64 << 10

// headerSize is the fixed ADTS header; frames with CRC carry two more
// bytes before the payload.
const headerSize = 7

// samplesPerBlock is the AAC frame length; an ADTS frame holds up to four
// raw data blocks.
const samplesPerBlock = 1024

var sampleRates = [16]int{
	96000, 88200, 64000, 48000, 44100, 32000, 24000, 22050,
	16000, 12000, 11025, 8000, 7350,
}

// channelCounts is indexed by the channel configuration; configuration 0
// means the count only appears in an in-band PCE, configuration 7 is 7.1.
var channelCounts = [8]int{0, 1, 2, 3, 4, 5, 6, 8}

// profileNames is indexed by the two-bit profile field (the MPEG-4 audio
// object type, minus one).
var profileNames = [4]string{"AAC Main", "AAC-LC", "AAC-SSR", "AAC-LTP"}

func init() {
	registry.Register(types.ContainerADTS, parser{})
}

type parser struct{}

// frameHeader is one decoded ADTS fixed header.
type frameHeader struct {
	mpeg2      bool
	profile    byte
	rateIndex  byte
	chanConfig byte
	sampleRate int
	channels   int
	length     int // whole frame, header and CRC included
	samples    int
}

// sameStream reports whether two headers could come from one stream.
func (h frameHeader) sameStream(n frameHeader) bool {
	return h.mpeg2 == n.mpeg2 && h.profile == n.profile &&
		h.rateIndex == n.rateIndex && h.chanConfig == n.chanConfig
}

func (parser) Parse(ctx context.Context, tok *tokenizer.Tokenizer, col *collect.Collector, p registry.Params) error {
	h, err := findFirstFrame(tok)
	if err != nil {
		return err
	}
	col.SetContainer("ADTS")
	col.SetCodec("AAC")
	col.SetCodecProfile(profileNames[h.profile])
	col.SetSampleRate(h.sampleRate)
	if h.channels > 0 {
		col.SetChannels(h.channels)
	}

	frameStart := tok.Pos()
	if _, err := tok.ReadBytes(h.length); err != nil {
		col.Warn("adts", frameStart, "first frame truncated: %v", err)
		return nil
	}

	// ADTS carries no stream totals; the first frame stands in for the
	// average, and the walk below corrects it when requested.
	bitrate := int(float64(h.length*8) * float64(h.sampleRate) / float64(h.samples))
	col.SetBitrate(bitrate)
	if size := tok.Size(); size > 0 && bitrate > 0 {
		audio := size - frameStart
		col.SetDuration(time.Duration(float64(audio*8) / float64(bitrate) * float64(time.Second)))
	}

	if p.SkipPostHeaders || !p.DurationScan {
		return nil
	}
	return scanFrames(ctx, tok, col, h, p)
}

// findFirstFrame scans forward for a header that parses and is followed by
// a second header from the same stream. The tokenizer is left positioned
// at the frame's first byte.
func findFirstFrame(tok *tokenizer.Tokenizer) (frameHeader, error) {
	for scanned := int64(0); scanned <= maxSyncSearch; scanned++ {
		pk, err := tok.Peek(headerSize)
		if err != nil || len(pk) < headerSize {
			return frameHeader{}, types.NewDecodeError("adts", "no ADTS frame before end of stream", tok.Pos())
		}
		h, ok := parseFrameHeader(pk)
		if ok && nextFrameAgrees(tok, h) {
			return h, nil
		}
		if err := tok.Skip(1); err != nil {
			return frameHeader{}, types.NewDecodeError("adts", "no ADTS frame before end of stream", tok.Pos())
		}
	}
	return frameHeader{}, types.NewDecodeError("adts", fmt.Sprintf("no ADTS frame within %d bytes", maxSyncSearch), tok.Pos())
}

// nextFrameAgrees peeks past the candidate frame for a second header with
// the same stream parameters. Near the end of the source the check passes
// vacuously.
func nextFrameAgrees(tok *tokenizer.Tokenizer, h frameHeader) bool {
	pk, err := tok.Peek(h.length + headerSize)
	if err != nil || len(pk) < h.length+headerSize {
		return true
	}
	n, ok := parseFrameHeader(pk[h.length:])
	return ok && h.sameStream(n)
}

// parseFrameHeader decodes the seven fixed header bytes. The sync word is
// twelve set bits; the two layer bits must be clear.
func parseFrameHeader(b []byte) (frameHeader, bool) {
	if b[0] != 0xFF || b[1]&0xF6 != 0xF0 {
		return frameHeader{}, false
	}
	h := frameHeader{
		mpeg2:      b[1]>>3&0x1 == 1,
		profile:    b[2] >> 6,
		rateIndex:  b[2] >> 2 & 0xF,
		chanConfig: b[2]&0x1<<2 | b[3]>>6,
	}
	h.sampleRate = sampleRates[h.rateIndex]
	if h.sampleRate == 0 {
		return frameHeader{}, false
	}
	h.channels = channelCounts[h.chanConfig]
	h.length = int(b[3]&0x3)<<11 | int(b[4])<<3 | int(b[5])>>5
	h.samples = samplesPerBlock * (int(b[6]&0x3) + 1)

	min := headerSize
	if b[1]&0x1 == 0 {
		min += 2 // CRC word
	}
	if h.length < min {
		return frameHeader{}, false
	}
	return h, true
}

// scanFrames walks every remaining frame, counting samples for an exact
// duration. As with MPEG audio, losing sync usually means an appended tag
// on an unsized stream.
func scanFrames(ctx context.Context, tok *tokenizer.Tokenizer, col *collect.Collector, first frameHeader, p registry.Params) error {
	samples := int64(first.samples)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.APEOffset > 0 && tok.Pos() >= p.APEOffset {
			// Stopping at the declared tag offset is expected; a bounded
			// source may end right here with nothing left to decode.
			trailer.DecodeRunIn(tok, col, p.SkipCovers)
			break
		}
		pk, err := tok.Peek(headerSize)
		if err != nil || len(pk) < headerSize {
			break
		}
		h, ok := parseFrameHeader(pk)
		if !ok || !first.sameStream(h) {
			runIn(tok, col, p)
			break
		}
		samples += int64(h.samples)
		if err := tok.Skip(int64(h.length)); err != nil {
			break
		}
	}

	if samples > 0 && first.sampleRate > 0 {
		col.ForceDuration(time.Duration(float64(samples) / float64(first.sampleRate) * float64(time.Second)))
		if col.Result().Format.NumberOfSamples == 0 {
			col.SetNumberOfSamples(uint64(samples))
		}
	}
	return nil
}

func runIn(tok *tokenizer.Tokenizer, col *collect.Collector, p registry.Params) {
	if !trailer.DecodeRunIn(tok, col, p.SkipCovers) {
		col.Warn("adts", tok.Pos(), "lost frame sync")
	}
}
