// Package mpeg parses MPEG audio (MP1/MP2/MP3) elementary streams: a sync
// search for the first valid frame, header tables for the format facts,
// Xing/Info/VBRI blocks for the encoded frame count, and an optional
// frame-by-frame walk for the exact duration.
package mpeg

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/registry"
	"github.com/audioprobe/audioprobe/internal/trailer"
	"github.com/audioprobe/audioprobe/internal/types"
	"github.com/audioprobe/audioprobe/tokenizer"
)

// maxSyncSearch bounds how far the parser hunts for the first frame.
// ID3v2 envelopes are consumed before the parser runs, so anything in
// front of the sync is either junk or a broken tag.
const maxSyncSearch = 64 << 10

func init() {
	registry.Register(types.ContainerMPEG, parser{})
}

type parser struct{}

func (parser) Parse(ctx context.Context, tok *tokenizer.Tokenizer, col *collect.Collector, p registry.Params) error {
	h, err := findFirstFrame(tok)
	if err != nil {
		return err
	}
	col.SetContainer("MPEG")
	col.SetCodec(h.codec())
	col.SetSampleRate(h.sampleRate)
	col.SetChannels(h.channels)

	frameStart := tok.Pos()
	frame, err := tok.ReadBytes(h.length)
	if err != nil {
		// A single truncated frame. Keep the header facts.
		col.Warn("mpeg", frameStart, "first frame truncated: %v", err)
		col.SetCodecProfile("CBR")
		col.SetBitrate(h.bitrate)
		return nil
	}

	vbr, hasVBR := findVBRHeader(frame, h)
	switch {
	case hasVBR && vbr.hasFrames && vbr.frames > 0:
		samples := uint64(vbr.frames) * uint64(h.samples)
		dur := time.Duration(float64(samples) / float64(h.sampleRate) * float64(time.Second))
		col.SetNumberOfSamples(samples)
		col.SetDuration(dur)
		if vbr.marker == "Info" {
			// LAME writes Info instead of Xing when the stream is CBR.
			col.SetCodecProfile("CBR")
			col.SetBitrate(h.bitrate)
		} else {
			col.SetCodecProfile("VBR")
			if vbr.hasBytes && dur > 0 {
				col.SetBitrate(int(float64(vbr.bytes) * 8 / dur.Seconds()))
			}
		}
	default:
		col.SetCodecProfile("CBR")
		col.SetBitrate(h.bitrate)
		if size := tok.Size(); size > 0 {
			audio := size - frameStart
			col.SetDuration(time.Duration(float64(audio*8) / float64(h.bitrate) * float64(time.Second)))
		}
	}
	if hasVBR && vbr.tool != "" {
		col.SetTool(vbr.tool)
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
		pk, err := tok.Peek(4)
		if err != nil || len(pk) < 4 {
			return frameHeader{}, types.NewDecodeError("mpeg", "no MPEG frame before end of stream", tok.Pos())
		}
		h, ok := parseFrameHeader(binary.BigEndian.Uint32(pk))
		if ok && nextFrameAgrees(tok, h) {
			return h, nil
		}
		if err := tok.Skip(1); err != nil {
			return frameHeader{}, types.NewDecodeError("mpeg", "no MPEG frame before end of stream", tok.Pos())
		}
	}
	return frameHeader{}, types.NewDecodeError("mpeg", fmt.Sprintf("no MPEG frame within %d bytes", maxSyncSearch), tok.Pos())
}

// nextFrameAgrees peeks past the candidate frame for a second header with
// the same stream parameters, weeding out false syncs inside junk or tag
// padding. Near the end of the source the check passes vacuously.
func nextFrameAgrees(tok *tokenizer.Tokenizer, h frameHeader) bool {
	pk, err := tok.Peek(h.length + 4)
	if err != nil || len(pk) < h.length+4 {
		return true
	}
	n, ok := parseFrameHeader(binary.BigEndian.Uint32(pk[h.length:]))
	return ok && h.sameStream(n)
}

// scanFrames walks every remaining frame, counting samples for an exact
// duration. Losing sync mid-stream usually means an appended tag: ID3v1
// and APEv2 run-ins are decoded on the spot, since an unsized stream has
// no trailer scan to catch them.
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
		pk, err := tok.Peek(4)
		if err != nil || len(pk) < 4 {
			break
		}
		h, ok := parseFrameHeader(binary.BigEndian.Uint32(pk))
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

// runIn decodes whatever interrupted the frame walk; anything that is not
// a recognizable appended tag is a real sync loss.
func runIn(tok *tokenizer.Tokenizer, col *collect.Collector, p registry.Params) {
	if !trailer.DecodeRunIn(tok, col, p.SkipCovers) {
		col.Warn("mpeg", tok.Pos(), "lost frame sync")
	}
}
