package adts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/registry"
	"github.com/audioprobe/audioprobe/internal/types"
	"github.com/audioprobe/audioprobe/tokenizer"
)

// adtsFrame builds one frame without CRC: MPEG-4 unless mpeg2 is set,
// buffer fullness all ones.
func adtsFrame(profile, rateIdx, chanCfg byte, length, blocks int, mpeg2 bool) []byte {
	b := make([]byte, length)
	b[0] = 0xFF
	b[1] = 0xF1
	if mpeg2 {
		b[1] |= 1 << 3
	}
	b[2] = profile<<6 | rateIdx<<2 | chanCfg>>2
	b[3] = chanCfg&0x3<<6 | byte(length>>11&0x3)
	b[4] = byte(length >> 3)
	b[5] = byte(length&0x7)<<5 | 0x1F
	b[6] = 0xFC | byte(blocks-1)
	return b
}

// lcStream is 48 kHz stereo AAC-LC in 400-byte single-block frames.
func lcStream(frames int) []byte {
	var data []byte
	for i := 0; i < frames; i++ {
		data = append(data, adtsFrame(1, 3, 2, 400, 1, false)...)
	}
	return data
}

func id3v1Block(title, artist, album string) []byte {
	b := make([]byte, 128)
	copy(b, "TAG")
	copy(b[3:33], title)
	copy(b[33:63], artist)
	copy(b[63:93], album)
	b[127] = 255 // no genre
	return b
}

func parseADTS(t *testing.T, data []byte, params registry.Params) *types.Result {
	t.Helper()
	col := collect.New(collect.Config{KeepNative: true})
	err := parser{}.Parse(context.Background(), tokenizer.FromBytes(data), col, params)
	require.NoError(t, err)
	return col.Result()
}

func TestParse_FormatFacts(t *testing.T) {
	data := lcStream(4)

	res := parseADTS(t, data, registry.Params{})

	assert.Empty(t, res.Warnings)
	assert.Equal(t, "ADTS", res.Format.Container)
	assert.Equal(t, "AAC", res.Format.Codec)
	assert.Equal(t, "AAC-LC", res.Format.CodecProfile)
	assert.Equal(t, 48000, res.Format.SampleRate)
	assert.Equal(t, 2, res.Format.Channels)
	assert.Equal(t, 150000, res.Format.Bitrate) // 400 bytes per 1024 samples

	want := time.Duration(float64(len(data)*8) / 150000 * float64(time.Second))
	assert.Equal(t, want, res.Format.Duration)
	assert.Zero(t, res.Format.NumberOfSamples)
}

func TestParse_ExactDurationScan(t *testing.T) {
	// 125 frames of 1024 samples at 8 kHz is exactly sixteen seconds.
	var data []byte
	for i := 0; i < 125; i++ {
		data = append(data, adtsFrame(1, 11, 1, 256, 1, false)...)
	}

	res := parseADTS(t, data, registry.Params{DurationScan: true})

	assert.Empty(t, res.Warnings)
	assert.Equal(t, 8000, res.Format.SampleRate)
	assert.Equal(t, uint64(128_000), res.Format.NumberOfSamples)
	assert.Equal(t, 16*time.Second, res.Format.Duration)
}

func TestParse_MultipleRawDataBlocks(t *testing.T) {
	frame := adtsFrame(1, 3, 2, 400, 2, false)
	data := append(append([]byte{}, frame...), frame...)

	res := parseADTS(t, data, registry.Params{DurationScan: true})

	assert.Equal(t, uint64(4096), res.Format.NumberOfSamples)
}

func TestParse_MPEG2Stream(t *testing.T) {
	var data []byte
	for i := 0; i < 3; i++ {
		data = append(data, adtsFrame(0, 6, 2, 312, 1, true)...)
	}

	res := parseADTS(t, data, registry.Params{})

	assert.Empty(t, res.Warnings)
	assert.Equal(t, "AAC Main", res.Format.CodecProfile)
	assert.Equal(t, 24000, res.Format.SampleRate)
}

func TestParse_ChannelConfigInBand(t *testing.T) {
	var data []byte
	for i := 0; i < 3; i++ {
		data = append(data, adtsFrame(1, 3, 0, 400, 1, false)...)
	}

	res := parseADTS(t, data, registry.Params{})

	assert.Zero(t, res.Format.Channels)
	assert.Equal(t, 48000, res.Format.SampleRate)
}

func TestParse_GarbageBeforeFirstFrame(t *testing.T) {
	data := append(make([]byte, 100), lcStream(3)...)

	res := parseADTS(t, data, registry.Params{})

	assert.Equal(t, "AAC-LC", res.Format.CodecProfile)
	want := time.Duration(float64((len(data)-100)*8) / 150000 * float64(time.Second))
	assert.Equal(t, want, res.Format.Duration)
}

func TestParse_ScanDecodesAppendedID3v1(t *testing.T) {
	data := append(lcStream(3), id3v1Block("Transmission", "", "")...)

	res := parseADTS(t, data, registry.Params{DurationScan: true})

	assert.Empty(t, res.Warnings)
	assert.Equal(t, "Transmission", res.Common.Title)
	assert.Equal(t, []types.TagSystem{types.SystemID3v1}, res.Format.TagTypes)
	assert.Equal(t, uint64(3*1024), res.Format.NumberOfSamples)
}

func TestParse_LostSyncWarns(t *testing.T) {
	data := append(lcStream(2), "ZZZZZZZZZZZZZZZZ"...)

	res := parseADTS(t, data, registry.Params{DurationScan: true})

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "adts", res.Warnings[0].Stage)
	assert.Contains(t, res.Warnings[0].Message, "lost frame sync")
}

func TestParse_FirstFrameTruncated(t *testing.T) {
	data := adtsFrame(1, 3, 2, 400, 1, false)[:200]

	res := parseADTS(t, data, registry.Params{})

	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0].Message, "first frame truncated")
	assert.Equal(t, 48000, res.Format.SampleRate)
	assert.Zero(t, res.Format.Bitrate)
}

func TestParse_NoFramesFound(t *testing.T) {
	col := collect.New(collect.Config{})
	err := parser{}.Parse(context.Background(), tokenizer.FromBytes(make([]byte, 2000)), col, registry.Params{})

	var derr *types.DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "adts", derr.Stage)
	assert.Contains(t, derr.Reason, "no ADTS frame")
}

func TestParse_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	col := collect.New(collect.Config{})
	err := parser{}.Parse(ctx, tokenizer.FromBytes(lcStream(4)), col, registry.Params{DurationScan: true})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegistryDispatch(t *testing.T) {
	assert.NotNil(t, registry.Get(types.ContainerADTS))
}
