package dsf

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/registry"
	"github.com/audioprobe/audioprobe/internal/types"
	"github.com/audioprobe/audioprobe/tokenizer"
)

func appendLE32(b []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(b, v)
}

func appendLE64(b []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(b, v)
}

func dsdChunk(fileSize, metaPointer uint64) []byte {
	b := []byte("DSD ")
	b = appendLE64(b, 28)
	b = appendLE64(b, fileSize)
	return appendLE64(b, metaPointer)
}

func fmtChunk(channels, rate, bits uint32, samples uint64) []byte {
	b := []byte("fmt ")
	b = appendLE64(b, 52)
	b = appendLE32(b, 1) // version
	b = appendLE32(b, 0) // format ID: DSD
	b = appendLE32(b, channels)
	b = appendLE32(b, channels)
	b = appendLE32(b, rate)
	b = appendLE32(b, bits)
	b = appendLE64(b, samples)
	b = appendLE32(b, 4096) // block size per channel
	return appendLE32(b, 0) // reserved
}

func dataChunk(audio int) []byte {
	b := []byte("data")
	b = appendLE64(b, uint64(12+audio))
	return append(b, make([]byte, audio)...)
}

func syncsafeBytes(n int) []byte {
	return []byte{byte(n>>21) & 0x7F, byte(n>>14) & 0x7F, byte(n>>7) & 0x7F, byte(n) & 0x7F}
}

func id3v23Tag(frameID, text string) []byte {
	f := append([]byte{}, frameID...)
	f = binary.BigEndian.AppendUint32(f, uint32(len(text)+1))
	f = append(f, 0, 0) // frame flags
	f = append(f, 0)    // latin1
	f = append(f, text...)
	tag := []byte{'I', 'D', '3', 3, 0, 0}
	tag = append(tag, syncsafeBytes(len(f))...)
	return append(tag, f...)
}

// dsfFile lays out header, fmt, audio, then an optional trailing tag with
// the metadata pointer set to its offset.
func dsfFile(fmtBody []byte, audio int, tag []byte) []byte {
	var pointer uint64
	if tag != nil {
		pointer = uint64(28 + len(fmtBody) + 12 + audio)
	}
	data := dsdChunk(0, pointer)
	data = append(data, fmtBody...)
	data = append(data, dataChunk(audio)...)
	data = append(data, tag...)
	binary.LittleEndian.PutUint64(data[12:20], uint64(len(data)))
	return data
}

func parseDSF(t *testing.T, data []byte, params registry.Params) *types.Result {
	t.Helper()
	col := collect.New(collect.Config{KeepNative: true})
	err := parser{}.Parse(context.Background(), tokenizer.FromBytes(data), col, params)
	require.NoError(t, err)
	return col.Result()
}

func TestParse_FormatFacts(t *testing.T) {
	// DSD64 stereo, exactly ten seconds.
	data := dsfFile(fmtChunk(2, 2_822_400, 1, 28_224_000), 64, nil)

	res := parseDSF(t, data, registry.Params{})

	assert.Empty(t, res.Warnings)
	assert.Equal(t, "DSF", res.Format.Container)
	assert.Equal(t, "DSD", res.Format.Codec)
	assert.Equal(t, 2_822_400, res.Format.SampleRate)
	assert.Equal(t, 2, res.Format.Channels)
	assert.Equal(t, 1, res.Format.BitsPerSample)
	assert.Equal(t, uint64(28_224_000), res.Format.NumberOfSamples)
	assert.Equal(t, 10*time.Second, res.Format.Duration)
	assert.Equal(t, 5_644_800, res.Format.Bitrate)
	assert.True(t, res.Format.Lossless)
	assert.True(t, res.Format.IsHighRes())
}

func TestParse_TrailingID3Metadata(t *testing.T) {
	data := dsfFile(fmtChunk(2, 2_822_400, 1, 28_224_000), 100, id3v23Tag("TALB", "Silentium"))

	res := parseDSF(t, data, registry.Params{})

	assert.Empty(t, res.Warnings)
	assert.Equal(t, "Silentium", res.Common.Album)
	assert.Contains(t, res.Format.TagTypes, types.SystemID3v23)
}

func TestParse_SkipPostHeaders(t *testing.T) {
	data := dsfFile(fmtChunk(2, 2_822_400, 1, 28_224_000), 100, id3v23Tag("TALB", "Silentium"))

	res := parseDSF(t, data, registry.Params{SkipPostHeaders: true})

	assert.Empty(t, res.Warnings)
	assert.Empty(t, res.Common.Album)
	assert.Equal(t, 2_822_400, res.Format.SampleRate)
}

func TestParse_MetadataPointerPastEnd(t *testing.T) {
	data := dsfFile(fmtChunk(2, 2_822_400, 1, 28_224_000), 64, nil)
	binary.LittleEndian.PutUint64(data[20:28], 99_999)

	res := parseDSF(t, data, registry.Params{})

	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0].Message, "past the end of the file")
	assert.Equal(t, 2_822_400, res.Format.SampleRate)
}

func TestParse_MetadataPointerInsideHeader(t *testing.T) {
	data := dsfFile(fmtChunk(2, 2_822_400, 1, 28_224_000), 64, nil)
	binary.LittleEndian.PutUint64(data[20:28], 10)

	res := parseDSF(t, data, registry.Params{})

	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0].Message, "inside the header region")
}

func TestParse_StreamEndsBeforeMetadata(t *testing.T) {
	// An unsized stream cannot reject the pointer up front; the skip runs
	// out of bytes instead.
	data := dsfFile(fmtChunk(2, 2_822_400, 1, 28_224_000), 64, nil)
	binary.LittleEndian.PutUint64(data[20:28], 5000)

	col := collect.New(collect.Config{})
	tok := tokenizer.New(bytes.NewReader(data), tokenizer.SizeUnknown)
	err := parser{}.Parse(context.Background(), tok, col, registry.Params{})
	require.NoError(t, err)

	res := col.Result()
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0].Message, "audio data ends before the metadata chunk")
	assert.Equal(t, 2_822_400, res.Format.SampleRate)
}

func TestParse_NonDSDFormatID(t *testing.T) {
	data := dsfFile(fmtChunk(2, 2_822_400, 1, 28_224_000), 64, nil)
	data[44] = 1 // format ID field

	res := parseDSF(t, data, registry.Params{})

	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0].Message, "format ID 1 is not DSD")
	assert.Equal(t, 2_822_400, res.Format.SampleRate)
}

func TestParse_MissingFmtChunk(t *testing.T) {
	data := append(dsdChunk(92, 0), dataChunk(64)...)

	res := parseDSF(t, data, registry.Params{})

	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0].Message, `expected a fmt chunk, found "data"`)
	assert.Zero(t, res.Format.SampleRate)
	assert.Equal(t, "DSF", res.Format.Container)
}

func TestParse_TruncatedFmtChunk(t *testing.T) {
	data := append(dsdChunk(0, 0), fmtChunk(2, 2_822_400, 1, 28_224_000)[:20]...)

	res := parseDSF(t, data, registry.Params{})

	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0].Message, "fmt chunk truncated")
}

func TestParse_NotDSF(t *testing.T) {
	col := collect.New(collect.Config{})
	err := parser{}.Parse(context.Background(), tokenizer.FromBytes(make([]byte, 64)), col, registry.Params{})

	var derr *types.DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "dsf", derr.Stage)
	assert.Contains(t, derr.Reason, "missing DSD chunk marker")
}

func TestParse_TooShortForHeader(t *testing.T) {
	col := collect.New(collect.Config{})
	err := parser{}.Parse(context.Background(), tokenizer.FromBytes([]byte("DSD ")), col, registry.Params{})

	var derr *types.DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, derr.Reason, "shorter than the DSD chunk")
}

func TestParse_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	col := collect.New(collect.Config{})
	err := parser{}.Parse(ctx, tokenizer.FromBytes(dsfFile(fmtChunk(2, 2_822_400, 1, 28_224_000), 64, nil)), col, registry.Params{})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegistryDispatch(t *testing.T) {
	assert.NotNil(t, registry.Get(types.ContainerDSF))
}
