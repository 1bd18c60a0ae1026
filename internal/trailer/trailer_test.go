package trailer

import (
	"bytes"
	enc "encoding/binary"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audioprobe/audioprobe/internal/binary"
)

func scanBytes(t *testing.T, data []byte) Info {
	t.Helper()
	sr := binary.NewSafeReader(bytes.NewReader(data), int64(len(data)), "test")
	return Scan(sr)
}

func id3v1Block() []byte {
	b := make([]byte, 128)
	copy(b, "TAG")
	copy(b[3:], "Some Title")
	return b
}

// apeTag builds a minimal APE tag: optional header, one tiny item, footer.
func apeTag(withHeader bool) []byte {
	item := []byte{5, 0, 0, 0, 0, 0, 0, 0} // value size 5, flags 0
	item = append(item, "Title\x00"...)
	item = append(item, "Hello"...)

	tagSize := uint32(len(item) + 32)
	flags := uint32(0)
	if withHeader {
		flags |= 1 << 31
	}

	block := func(preambleFlags uint32) []byte {
		b := make([]byte, 32)
		copy(b, "APETAGEX")
		enc.LittleEndian.PutUint32(b[8:], 2000)
		enc.LittleEndian.PutUint32(b[12:], tagSize)
		enc.LittleEndian.PutUint32(b[16:], 1)
		enc.LittleEndian.PutUint32(b[20:], preambleFlags)
		return b
	}

	var out []byte
	if withHeader {
		out = append(out, block(flags|1<<29)...) // bit 29: this is the header
	}
	out = append(out, item...)
	out = append(out, block(flags)...)
	return out
}

func lyrics3v2Block() []byte {
	body := []byte("LYRICSBEGIN")
	body = append(body, "IND0000200ETT00005Hello"...)
	footer := fmt.Sprintf("%06d%s", len(body), "LYRICS200")
	return append(body, footer...)
}

func TestScanNothing(t *testing.T) {
	data := bytes.Repeat([]byte{0xAA}, 400)
	info := scanBytes(t, data)

	assert.False(t, info.HasID3v1())
	assert.False(t, info.HasLyrics3())
	assert.False(t, info.HasAPE())
	assert.Equal(t, int64(400), info.AudioEnd)
}

func TestScanID3v1(t *testing.T) {
	audio := bytes.Repeat([]byte{0xAA}, 300)
	data := append(audio, id3v1Block()...)
	info := scanBytes(t, data)

	require.True(t, info.HasID3v1())
	assert.Equal(t, int64(300), info.ID3v1)
	assert.Equal(t, int64(300), info.AudioEnd)
	assert.False(t, info.HasAPE())
}

func TestScanAPEWithHeader(t *testing.T) {
	audio := bytes.Repeat([]byte{0xAA}, 250)
	tag := apeTag(true)
	data := append(append(audio, tag...), id3v1Block()...)
	info := scanBytes(t, data)

	require.True(t, info.HasID3v1())
	require.True(t, info.HasAPE())
	assert.Equal(t, int64(250), info.APE)
	assert.Equal(t, int64(len(tag)), info.APESize)
	assert.Equal(t, int64(250), info.AudioEnd)
}

func TestScanAPEFooterOnly(t *testing.T) {
	audio := bytes.Repeat([]byte{0xAA}, 250)
	tag := apeTag(false)
	data := append(audio, tag...)
	info := scanBytes(t, data)

	assert.False(t, info.HasID3v1())
	require.True(t, info.HasAPE())
	assert.Equal(t, int64(250), info.APE)
	assert.Equal(t, int64(len(tag)), info.APESize)
}

func TestScanLyrics3v2(t *testing.T) {
	audio := bytes.Repeat([]byte{0xAA}, 200)
	lyr := lyrics3v2Block()
	data := append(append(audio, lyr...), id3v1Block()...)
	info := scanBytes(t, data)

	require.True(t, info.HasID3v1())
	require.True(t, info.HasLyrics3())
	assert.Equal(t, 2, info.Lyrics3Version)
	assert.Equal(t, int64(200), info.Lyrics3)
	assert.Equal(t, int64(200), info.AudioEnd)
}

func TestScanLyrics3v1(t *testing.T) {
	audio := bytes.Repeat([]byte{0xAA}, 180)
	lyr := append([]byte("LYRICSBEGIN"), "Some lyric textLYRICSEND"...)
	data := append(append(audio, lyr...), id3v1Block()...)
	info := scanBytes(t, data)

	require.True(t, info.HasLyrics3())
	assert.Equal(t, 1, info.Lyrics3Version)
	assert.Equal(t, int64(180), info.Lyrics3)
}

func TestScanFullStack(t *testing.T) {
	// audio | APE | Lyrics3 | ID3v1, the canonical stacking order
	audio := bytes.Repeat([]byte{0xAA}, 500)
	ape := apeTag(true)
	lyr := lyrics3v2Block()

	data := append([]byte{}, audio...)
	data = append(data, ape...)
	apeAt := int64(len(audio))
	data = append(data, lyr...)
	data = append(data, id3v1Block()...)

	info := scanBytes(t, data)
	require.True(t, info.HasID3v1())
	require.True(t, info.HasLyrics3())
	require.True(t, info.HasAPE())
	assert.Equal(t, apeAt, info.APE)
	assert.Equal(t, apeAt, info.AudioEnd)
}

func TestScanTinyFile(t *testing.T) {
	info := scanBytes(t, []byte("short"))
	assert.False(t, info.HasID3v1())
	assert.Equal(t, int64(5), info.AudioEnd)
}

func TestScanRejectsBogusAPESize(t *testing.T) {
	// Footer claims a tag bigger than the file.
	b := make([]byte, 32)
	copy(b, "APETAGEX")
	enc.LittleEndian.PutUint32(b[8:], 2000)
	enc.LittleEndian.PutUint32(b[12:], 5000)
	data := append(bytes.Repeat([]byte{0}, 10), b...)

	info := scanBytes(t, data)
	assert.False(t, info.HasAPE())
}
