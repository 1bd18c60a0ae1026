// Package dsf parses DSF (DSD Stream File) headers. Format facts come
// from the fixed DSD and fmt chunks; tags live in an ID3v2 block at the
// offset the DSD chunk's metadata pointer names, usually behind the
// audio data.
package dsf

import (
	"context"
	"encoding/binary"
	"math"
	"time"

	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/id3"
	"github.com/audioprobe/audioprobe/internal/registry"
	"github.com/audioprobe/audioprobe/internal/types"
	"github.com/audioprobe/audioprobe/tokenizer"
)

const (
	dsdChunkSize = 28
	fmtChunkSize = 52
)

func init() {
	registry.Register(types.ContainerDSF, parser{})
}

type parser struct{}

func (parser) Parse(ctx context.Context, tok *tokenizer.Tokenizer, col *collect.Collector, p registry.Params) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	head, err := tok.ReadBytes(dsdChunkSize)
	if err != nil {
		return types.NewDecodeError("dsf", "file shorter than the DSD chunk", 0)
	}
	if string(head[0:4]) != "DSD " {
		return types.NewDecodeError("dsf", "missing DSD chunk marker", 0)
	}
	col.SetContainer("DSF")
	col.SetCodec("DSD")

	if size := binary.LittleEndian.Uint64(head[4:12]); size != dsdChunkSize {
		col.Warn("dsf", 4, "DSD chunk size %d", size)
	}
	metaPointer := binary.LittleEndian.Uint64(head[20:28])

	decodeFmt(tok, col)

	if metaPointer == 0 || p.SkipPostHeaders {
		return nil
	}
	if metaPointer > math.MaxInt64 {
		col.Warn("dsf", 20, "impossible metadata pointer %d", metaPointer)
		return nil
	}
	decodeMetadata(tok, col, int64(metaPointer), p.SkipCovers)
	return nil
}

// decodeFmt reads the fixed 52-byte fmt chunk that follows the DSD chunk.
// Damage is a warning: a broken fmt chunk still leaves the metadata
// pointer usable.
func decodeFmt(tok *tokenizer.Tokenizer, col *collect.Collector) {
	head, err := tok.ReadBytes(12)
	if err != nil {
		col.Warn("dsf", dsdChunkSize, "fmt chunk truncated: %v", err)
		return
	}
	if string(head[0:4]) != "fmt " {
		col.Warn("dsf", dsdChunkSize, "expected a fmt chunk, found %q", head[0:4])
		return
	}
	if size := binary.LittleEndian.Uint64(head[4:12]); size < fmtChunkSize {
		col.Warn("dsf", dsdChunkSize+4, "fmt chunk is %d bytes", size)
		return
	}
	body, err := tok.ReadBytes(fmtChunkSize - 12)
	if err != nil {
		col.Warn("dsf", dsdChunkSize, "fmt chunk truncated: %v", err)
		return
	}

	if version := binary.LittleEndian.Uint32(body[0:4]); version != 1 {
		col.Warn("dsf", dsdChunkSize+12, "fmt chunk version %d", version)
	}
	if formatID := binary.LittleEndian.Uint32(body[4:8]); formatID != 0 {
		col.Warn("dsf", dsdChunkSize+16, "format ID %d is not DSD", formatID)
	}
	channels := binary.LittleEndian.Uint32(body[12:16])
	rate := binary.LittleEndian.Uint32(body[16:20])
	bits := binary.LittleEndian.Uint32(body[20:24])
	samples := binary.LittleEndian.Uint64(body[24:32])

	col.SetSampleRate(int(rate))
	col.SetChannels(int(channels))
	col.SetBitsPerSample(int(bits))
	col.SetLossless(true)
	if rate > 0 && bits > 0 && channels > 0 {
		col.SetBitrate(int(rate) * int(bits) * int(channels))
	}
	if samples > 0 {
		col.SetNumberOfSamples(samples)
		if rate > 0 {
			col.SetDuration(time.Duration(float64(samples) / float64(rate) * float64(time.Second)))
		}
	}
}

// decodeMetadata skips forward to the metadata pointer and decodes the
// ID3v2 tag there. The skip streams through the audio data, so callers
// that only want format facts set SkipPostHeaders instead.
func decodeMetadata(tok *tokenizer.Tokenizer, col *collect.Collector, pointer int64, skipCovers bool) {
	if pointer < tok.Pos() {
		col.Warn("dsf", pointer, "metadata pointer %d inside the header region", pointer)
		return
	}
	if size := tok.Size(); size > 0 && pointer >= size {
		col.Warn("dsf", pointer, "metadata pointer %d past the end of the file", pointer)
		return
	}
	want := pointer - tok.Pos()
	if n, err := tok.Ignore(want); err != nil || n < want {
		col.Warn("dsf", tok.Pos(), "audio data ends before the metadata chunk")
		return
	}
	if err := id3.DecodeV2(tok, col, skipCovers); err != nil {
		col.Warn("dsf", pointer, "trailing ID3v2: %v", err)
	}
}
