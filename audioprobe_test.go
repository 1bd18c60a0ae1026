package audioprobe_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audioprobe/audioprobe"
)

// The fixture builders below duplicate small pieces of the internal parser
// tests so the public API tests stay independent of internal packages.

func syncsafeBytes(n int) []byte {
	return []byte{byte(n>>21) & 0x7F, byte(n>>14) & 0x7F, byte(n>>7) & 0x7F, byte(n) & 0x7F}
}

func frame23(id string, text string) []byte {
	data := append([]byte{0}, text...) // latin1 encoding byte
	b := append([]byte{}, id...)
	b = binary.BigEndian.AppendUint32(b, uint32(len(data)))
	b = append(b, 0, 0)
	return append(b, data...)
}

func frame24(id string, text string) []byte {
	data := append([]byte{0}, text...)
	b := append([]byte{}, id...)
	b = append(b, syncsafeBytes(len(data))...)
	b = append(b, 0, 0)
	return append(b, data...)
}

func id3v2Tag(major byte, frames ...[]byte) []byte {
	body := bytes.Join(frames, nil)
	out := []byte{'I', 'D', '3', major, 0, 0}
	out = append(out, syncsafeBytes(len(body))...)
	return append(out, body...)
}

// mp3Stream returns n identical MPEG 1 layer III frames: 128 kbit/s,
// 44100 Hz, stereo, 417 bytes each.
func mp3Stream(n int) []byte {
	frame := make([]byte, 417)
	binary.BigEndian.PutUint32(frame, 0xFFE00000|3<<19|1<<17|1<<16|9<<12)
	var data []byte
	for i := 0; i < n; i++ {
		data = append(data, frame...)
	}
	return data
}

func id3v1Block(title, artist, year string, genre byte) []byte {
	b := make([]byte, 128)
	copy(b, "TAG")
	copy(b[3:33], title)
	copy(b[33:63], artist)
	copy(b[93:97], year)
	b[127] = genre
	return b
}

func apeItem(key, value string) []byte {
	b := binary.LittleEndian.AppendUint32(nil, uint32(len(value)))
	b = binary.LittleEndian.AppendUint32(b, 0) // text item
	b = append(b, key...)
	b = append(b, 0)
	return append(b, value...)
}

func apeTag(items ...[]byte) []byte {
	var body []byte
	for _, it := range items {
		body = append(body, it...)
	}
	size := uint32(len(body) + 32) // items plus footer

	block := func(flags uint32) []byte {
		b := []byte("APETAGEX")
		b = binary.LittleEndian.AppendUint32(b, 2000)
		b = binary.LittleEndian.AppendUint32(b, size)
		b = binary.LittleEndian.AppendUint32(b, uint32(len(items)))
		b = binary.LittleEndian.AppendUint32(b, flags)
		return append(b, make([]byte, 8)...)
	}
	out := block(1<<31 | 1<<29)
	out = append(out, body...)
	return append(out, block(1<<31)...)
}

// flacFile returns a FLAC stream with the given vorbis comments:
// 44100 Hz, stereo, 16-bit, 441000 samples.
func flacFile(comments ...string) []byte {
	si := make([]byte, 10)
	binary.BigEndian.PutUint16(si[0:], 4096)
	binary.BigEndian.PutUint16(si[2:], 4096)
	si = binary.BigEndian.AppendUint64(si, uint64(44100)<<44|uint64(1)<<41|uint64(15)<<36|441000)
	si = append(si, make([]byte, 16)...)

	vc := binary.LittleEndian.AppendUint32(nil, 4)
	vc = append(vc, "test"...)
	vc = binary.LittleEndian.AppendUint32(vc, uint32(len(comments)))
	for _, c := range comments {
		vc = binary.LittleEndian.AppendUint32(vc, uint32(len(c)))
		vc = append(vc, c...)
	}

	out := []byte("fLaC")
	out = binary.BigEndian.AppendUint32(out, uint32(len(si))&0xFFFFFF)
	out = append(out, si...)
	out = binary.BigEndian.AppendUint32(out, 1<<31|4<<24|uint32(len(vc))&0xFFFFFF)
	return append(out, vc...)
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestParseBuffer_MP3WithID3v23(t *testing.T) {
	data := id3v2Tag(3,
		frame23("TIT2", "Hello"),
		frame23("TPE1", "World"),
		frame23("TRCK", "3/12"),
	)
	data = append(data, mp3Stream(3)...)

	res, err := audioprobe.ParseBuffer(data)
	require.NoError(t, err)

	assert.Equal(t, audioprobe.ContainerMPEG, res.Container)
	assert.Equal(t, "MPEG", res.Format.Container)
	assert.Equal(t, "MPEG 1 Layer 3", res.Format.Codec)
	assert.Equal(t, "Hello", res.Common.Title)
	assert.Equal(t, "World", res.Common.Artist)
	assert.Equal(t, audioprobe.PartOfSet{No: 3, Of: 12}, res.Common.Track)
	assert.Equal(t, []audioprobe.TagSystem{audioprobe.SystemID3v23}, res.Format.TagTypes)
	assert.Empty(t, res.Warnings)
}

func TestParseBuffer_MP3WithID3v1Trailer(t *testing.T) {
	data := append(mp3Stream(2), id3v1Block("Song", "Artist", "2001", 17)...)

	res, err := audioprobe.ParseBuffer(data)
	require.NoError(t, err)

	assert.Equal(t, "Song", res.Common.Title)
	assert.Equal(t, "Artist", res.Common.Artist)
	assert.Equal(t, 2001, res.Common.Year)
	assert.Equal(t, []string{"Rock"}, res.Common.Genres)
	assert.Equal(t, []audioprobe.TagSystem{audioprobe.SystemID3v1}, res.Format.TagTypes)

	// The trailer scan keeps the tag bytes out of the audio region, so the
	// bitrate estimate sees only the frames.
	want := time.Duration(float64(2*417*8) / 128000 * float64(time.Second))
	assert.Equal(t, want, res.Format.Duration)
}

func TestParseBuffer_MP3WithAPETrailer(t *testing.T) {
	tag := apeTag(
		apeItem("Title", "Gained"),
		apeItem("REPLAYGAIN_TRACK_GAIN", "-6.00 dB"),
		apeItem("REPLAYGAIN_TRACK_PEAK", "0.988"),
	)
	data := append(mp3Stream(2), tag...)

	res, err := audioprobe.ParseBuffer(data)
	require.NoError(t, err)

	assert.Equal(t, "Gained", res.Common.Title)
	require.NotNil(t, res.Common.ReplayGainTrackGain)
	assert.Equal(t, -6.0, res.Common.ReplayGainTrackGain.DB)
	assert.InDelta(t, 0.5012, res.Common.ReplayGainTrackGain.Ratio, 1e-3)
	require.NotNil(t, res.Common.ReplayGainTrackPeak)
	assert.Equal(t, 0.988, res.Common.ReplayGainTrackPeak.Ratio)
	assert.Equal(t, []audioprobe.TagSystem{audioprobe.SystemAPEv2}, res.Format.TagTypes)
}

// A caller-supplied APE offset outranks the one the trailer scan finds.
// The declared offset bounds the duration scan, so pointing it at the
// second frame makes the walk stop after counting only the first.
func TestParseBuffer_APEOffsetCallerWins(t *testing.T) {
	data := append(mp3Stream(2), apeTag(apeItem("Title", "Gained"))...)

	res, err := audioprobe.ParseBuffer(data, audioprobe.WithDurationScan())
	require.NoError(t, err)
	assert.Equal(t, uint64(2*1152), res.Format.NumberOfSamples)

	res, err = audioprobe.ParseBuffer(data,
		audioprobe.WithDurationScan(),
		audioprobe.WithAPEOffset(417), // scanner would find 834
	)
	require.NoError(t, err)
	assert.Equal(t, uint64(1152), res.Format.NumberOfSamples)

	// The trailing tag itself is decoded either way.
	assert.Equal(t, "Gained", res.Common.Title)
}

func TestParseBuffer_FLACWithVorbisComments(t *testing.T) {
	data := flacFile("ARTIST=A", "ARTIST=B", "TITLE=X")

	res, err := audioprobe.ParseBuffer(data)
	require.NoError(t, err)

	assert.Equal(t, audioprobe.ContainerFLAC, res.Container)
	assert.Equal(t, "X", res.Common.Title)
	assert.Equal(t, []string{"A", "B"}, res.Common.Artists)
	assert.Equal(t, 10*time.Second, res.Format.Duration)
	assert.True(t, res.Format.Lossless)
}

// mp4Atom frames parts as one box: 32-bit size, type, then the body.
func mp4Atom(typ string, parts ...[]byte) []byte {
	size := 8
	for _, p := range parts {
		size += len(p)
	}
	b := binary.BigEndian.AppendUint32(nil, uint32(size))
	b = append(b, typ...)
	for _, p := range parts {
		b = append(b, p...)
	}
	return b
}

func mp4Data(class byte, payload []byte) []byte {
	head := []byte{0, 0, 0, class, 0, 0, 0, 0}
	return mp4Atom("data", head, payload)
}

// m4aFile assembles a minimal M4A stream: ftyp, a moov carrying only the
// iTunes metadata, and a token mdat.
func m4aFile(ilstItems ...[]byte) []byte {
	meta := mp4Atom("meta", make([]byte, 4), mp4Atom("ilst", ilstItems...))
	data := mp4Atom("ftyp", []byte("M4A \x00\x00\x00\x00mp42isom"))
	data = append(data, mp4Atom("moov", mp4Atom("udta", meta))...)
	return append(data, mp4Atom("mdat", make([]byte, 64))...)
}

func TestParseBuffer_MP4ITunesTags(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xDB, 0x00, 0x43, 0x00, 0x01}
	data := m4aFile(
		mp4Atom("\xa9nam", mp4Data(1, []byte("T"))),
		mp4Atom("\xa9ART", mp4Data(1, []byte("A"))),
		mp4Atom("trkn", mp4Data(0, []byte{0, 0, 0, 2, 0, 10, 0, 0})),
		mp4Atom("covr", mp4Data(13, jpeg)),
	)

	res, err := audioprobe.ParseBuffer(data)
	require.NoError(t, err)

	assert.Equal(t, audioprobe.ContainerMP4, res.Container)
	assert.Equal(t, "T", res.Common.Title)
	assert.Equal(t, "A", res.Common.Artist)
	assert.Equal(t, audioprobe.PartOfSet{No: 2, Of: 10}, res.Common.Track)
	require.Len(t, res.Common.Pictures, 1)
	assert.Equal(t, "image/jpeg", res.Common.Pictures[0].MIMEType)
	assert.Equal(t, jpeg, res.Common.Pictures[0].Data)
}

func TestParseBuffer_StackedEnvelopes(t *testing.T) {
	data := id3v2Tag(3, frame23("TIT2", "Layered"))
	data = append(data, id3v2Tag(4, frame24("TALB", "Shell"))...)
	data = append(data, mp3Stream(2)...)

	res, err := audioprobe.ParseBuffer(data)
	require.NoError(t, err)

	assert.Equal(t, "Layered", res.Common.Title)
	assert.Equal(t, "Shell", res.Common.Album)
	assert.Equal(t, []audioprobe.TagSystem{audioprobe.SystemID3v23, audioprobe.SystemID3v24}, res.Format.TagTypes)
	assert.Equal(t, audioprobe.ContainerMPEG, res.Container)
}

func TestParseStream_MatchesBuffer(t *testing.T) {
	data := id3v2Tag(3, frame23("TIT2", "Same"), frame23("TPE1", "Either Way"))
	data = append(data, mp3Stream(3)...)

	fromBuffer, err := audioprobe.ParseBuffer(data)
	require.NoError(t, err)

	fromStream, err := audioprobe.ParseStream(bytes.NewReader(data),
		audioprobe.WithFileSize(int64(len(data))))
	require.NoError(t, err)

	assert.Equal(t, fromBuffer, fromStream)
}

func TestParseBuffer_Deterministic(t *testing.T) {
	data := append(mp3Stream(2), id3v1Block("Twice", "", "1999", 17)...)

	first, err := audioprobe.ParseBuffer(data, audioprobe.WithNativeTags())
	require.NoError(t, err)
	second, err := audioprobe.ParseBuffer(data, audioprobe.WithNativeTags())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParseBuffer_NativeTagsOffByDefault(t *testing.T) {
	data := id3v2Tag(3, frame23("TIT2", "Quiet"))
	data = append(data, mp3Stream(2)...)

	res, err := audioprobe.ParseBuffer(data)
	require.NoError(t, err)
	assert.Nil(t, res.Native)

	res, err = audioprobe.ParseBuffer(data, audioprobe.WithNativeTags())
	require.NoError(t, err)
	require.Contains(t, res.Native, audioprobe.SystemID3v23)
	byID := audioprobe.OrderTags(res.Native[audioprobe.SystemID3v23])
	assert.Equal(t, []any{"Quiet"}, byID["TIT2"])
}

func TestParseBuffer_SkipPostHeaders(t *testing.T) {
	data := append(mp3Stream(2), id3v1Block("Hidden", "", "2001", 17)...)

	res, err := audioprobe.ParseBuffer(data, audioprobe.WithSkipPostHeaders())
	require.NoError(t, err)

	assert.Empty(t, res.Common.Title)
	assert.Empty(t, res.Format.TagTypes)
}

func TestParseBuffer_Observer(t *testing.T) {
	data := id3v2Tag(3, frame23("TIT2", "Hello"))
	data = append(data, mp3Stream(2)...)

	var updates []audioprobe.Update
	_, err := audioprobe.ParseBuffer(data, audioprobe.WithObserver(func(u audioprobe.Update) {
		updates = append(updates, u)
	}))
	require.NoError(t, err)

	nativeAt, commonAt := -1, -1
	for i, u := range updates {
		switch {
		case u.Scope == audioprobe.ScopeNative && u.ID == "TIT2":
			nativeAt = i
		case u.Scope == audioprobe.ScopeCommon && u.ID == "title":
			commonAt = i
			assert.Equal(t, "Hello", u.Value)
		}
	}
	require.GreaterOrEqual(t, nativeAt, 0)
	require.GreaterOrEqual(t, commonAt, 0)
	assert.Less(t, nativeAt, commonAt, "native tag event precedes the common-view assignment")

	var containerSeen bool
	for _, u := range updates {
		if u.Scope == audioprobe.ScopeFormat && u.ID == "container" {
			containerSeen = true
			assert.Equal(t, "MPEG", u.Value)
		}
	}
	assert.True(t, containerSeen)
}

func TestParseBuffer_StrictParsing(t *testing.T) {
	data := append(mp3Stream(2), "JUNKJUNKJUNK"...)

	res, err := audioprobe.ParseBuffer(data, audioprobe.WithDurationScan())
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "mpeg", res.Warnings[0].Stage)

	_, err = audioprobe.ParseBuffer(data,
		audioprobe.WithDurationScan(), audioprobe.WithStrictParsing())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strict parsing failed")
}

func TestParseBuffer_UnsupportedContainer(t *testing.T) {
	_, err := audioprobe.ParseBuffer([]byte("no audio anywhere in sight"))
	require.Error(t, err)

	var unsupported *audioprobe.UnsupportedContainerError
	require.ErrorAs(t, err, &unsupported)
}

func TestParseBuffer_EmptyInput(t *testing.T) {
	_, err := audioprobe.ParseBuffer(nil)
	require.Error(t, err)

	var unsupported *audioprobe.UnsupportedContainerError
	require.ErrorAs(t, err, &unsupported)
}

func TestParseBuffer_MIMEHintFallback(t *testing.T) {
	// Nothing in the head matches, so the hint picks the parser; the
	// stream then fails as a broken FLAC file instead of an unknown one.
	_, err := audioprobe.ParseBuffer([]byte("plain text, not audio at all"),
		audioprobe.WithMIMEType("audio/flac"))
	require.Error(t, err)

	var decodeErr *audioprobe.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestParseFile(t *testing.T) {
	data := id3v2Tag(3, frame23("TIT2", "On Disk"))
	data = append(data, mp3Stream(2)...)
	path := writeTemp(t, "song.mp3", data)

	res, err := audioprobe.ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "On Disk", res.Common.Title)
}

func TestParseFile_NotFound(t *testing.T) {
	_, err := audioprobe.ParseFile(filepath.Join(t.TempDir(), "missing.mp3"))
	require.Error(t, err)
}

func TestParseFileContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := writeTemp(t, "song.mp3", mp3Stream(2))
	_, err := audioprobe.ParseFileContext(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseReaderAt(t *testing.T) {
	data := flacFile("TITLE=Positioned")

	res, err := audioprobe.ParseReaderAt(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, "Positioned", res.Common.Title)
}

func TestParseMany(t *testing.T) {
	paths := []string{
		writeTemp(t, "one.mp3", append(id3v2Tag(3, frame23("TIT2", "One")), mp3Stream(2)...)),
		writeTemp(t, "two.flac", flacFile("TITLE=Two")),
	}

	results, err := audioprobe.ParseMany(context.Background(), paths...)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "One", results[0].Common.Title)
	assert.Equal(t, "Two", results[1].Common.Title)
}

func TestParseMany_FailureNamesPath(t *testing.T) {
	good := writeTemp(t, "good.flac", flacFile("TITLE=Fine"))
	bad := filepath.Join(t.TempDir(), "missing.mp3")

	_, err := audioprobe.ParseMany(context.Background(), good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)
}

func TestParseMany_Empty(t *testing.T) {
	results, err := audioprobe.ParseMany(context.Background())
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestOrderTags(t *testing.T) {
	tags := []audioprobe.Tag{
		{ID: "ARTIST", Value: "A"},
		{ID: "TITLE", Value: "X"},
		{ID: "ARTIST", Value: "B"},
	}

	byID := audioprobe.OrderTags(tags)
	assert.Equal(t, []any{"A", "B"}, byID["ARTIST"])
	assert.Equal(t, []any{"X"}, byID["TITLE"])
	assert.Nil(t, audioprobe.OrderTags(nil))
}

func TestRatingToStars(t *testing.T) {
	cases := []struct {
		rating float64
		stars  int
	}{
		{0, 1},
		{0.25, 2},
		{0.5, 3},
		{0.75, 4},
		{1, 5},
		{-0.1, 0},
		{1.1, 0},
		{math.NaN(), 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.stars, audioprobe.RatingToStars(tc.rating), "rating %v", tc.rating)
	}
}

func BenchmarkParseBuffer(b *testing.B) {
	data := id3v2Tag(3,
		frame23("TIT2", "Benchmark"),
		frame23("TPE1", "Throughput"),
	)
	data = append(data, mp3Stream(16)...)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := audioprobe.ParseBuffer(data); err != nil {
			b.Fatal(err)
		}
	}
}
