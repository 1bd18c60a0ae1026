package flac

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/types"
)

// CUESHEET fixed sizes: 128-byte catalog number, 64-bit lead-in, flag byte,
// 258 reserved bytes, track count byte.
const (
	cueHeaderSize = 128 + 8 + 1 + 258 + 1
	cueTrackSize  = 8 + 1 + 12 + 1 + 13 + 1
	cueIndexSize  = 8 + 1 + 3

	leadOutTrack        = 170 // CD-DA cuesheets
	leadOutTrackNonCDDA = 255
)

type cueTrack struct {
	offset  uint64 // samples from start of audio
	number  byte
	isrc    string
	isAudio bool
}

// decodeCueSheet converts CUESHEET tracks into chapters. Non-audio tracks
// and the lead-out are dropped; the lead-out offset closes the last chapter.
func decodeCueSheet(block []byte, col *collect.Collector) error {
	if len(block) < cueHeaderSize {
		return types.NewDecodeError("flac", fmt.Sprintf("cuesheet is %d bytes, want at least %d", len(block), cueHeaderSize), 0)
	}
	trackCount := int(block[cueHeaderSize-1])

	tracks := make([]cueTrack, 0, trackCount)
	off := cueHeaderSize
	for i := 0; i < trackCount; i++ {
		if off+cueTrackSize > len(block) {
			return types.NewDecodeError("flac", fmt.Sprintf("cuesheet claims %d tracks but ends after %d", trackCount, i), int64(off))
		}
		t := cueTrack{
			offset:  binary.BigEndian.Uint64(block[off:]),
			number:  block[off+8],
			isrc:    strings.TrimRight(string(block[off+9:off+21]), "\x00"),
			isAudio: block[off+21]&0x80 == 0,
		}
		indexCount := int(block[off+35])
		off += cueTrackSize + indexCount*cueIndexSize
		if off > len(block) {
			return types.NewDecodeError("flac", fmt.Sprintf("track %d index points run past the block", i), int64(off))
		}
		tracks = append(tracks, t)
	}

	sampleRate := col.Result().Format.SampleRate
	if sampleRate <= 0 {
		return nil
	}

	var audio []cueTrack
	var leadOut uint64
	for _, t := range tracks {
		if t.number == leadOutTrack || t.number == leadOutTrackNonCDDA {
			leadOut = t.offset
			continue
		}
		if t.isAudio {
			audio = append(audio, t)
		}
	}

	toTime := func(samples uint64) time.Duration {
		return time.Duration(float64(samples) / float64(sampleRate) * float64(time.Second))
	}
	for i, t := range audio {
		ch := types.Chapter{
			Title:     fmt.Sprintf("Track %02d", t.number),
			StartTime: toTime(t.offset),
		}
		if t.isrc != "" {
			ch.Title = fmt.Sprintf("Track %02d (%s)", t.number, t.isrc)
		}
		switch {
		case i < len(audio)-1:
			ch.EndTime = toTime(audio[i+1].offset)
		case leadOut > 0:
			ch.EndTime = toTime(leadOut)
		default:
			ch.EndTime = col.Result().Format.Duration
		}
		col.AddChapter(ch)
	}
	return nil
}
