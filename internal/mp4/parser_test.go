package mp4

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

func appendBE32(b []byte, v uint32) []byte {
	return binary.BigEndian.AppendUint32(b, v)
}

func appendBE64(b []byte, v uint64) []byte {
	return binary.BigEndian.AppendUint64(b, v)
}

// atom frames parts as one box: 32-bit size, type, then the body parts.
func atom(typ string, parts ...[]byte) []byte {
	size := 8
	for _, p := range parts {
		size += len(p)
	}
	b := appendBE32(nil, uint32(size))
	b = append(b, typ...)
	for _, p := range parts {
		b = append(b, p...)
	}
	return b
}

func ftypBox(major string, compat ...string) []byte {
	b := []byte(major)
	b = appendBE32(b, 0)
	for _, c := range compat {
		b = append(b, c...)
	}
	return atom("ftyp", b)
}

func mvhdBox(timescale, dur uint32) []byte {
	b := make([]byte, 20)
	binary.BigEndian.PutUint32(b[12:], timescale)
	binary.BigEndian.PutUint32(b[16:], dur)
	return atom("mvhd", b)
}

// mdhdBox uses the version 1 layout with a 64-bit duration.
func mdhdBox(timescale uint32, dur uint64) []byte {
	b := make([]byte, 32)
	b[0] = 1
	binary.BigEndian.PutUint32(b[20:], timescale)
	binary.BigEndian.PutUint64(b[24:], dur)
	return atom("mdhd", b)
}

func hdlrBox(handler string) []byte {
	b := make([]byte, 24)
	copy(b[8:12], handler)
	return atom("hdlr", b)
}

func sampleEntry(typ string, channels, bits, rate int, ext ...[]byte) []byte {
	b := make([]byte, 28)
	b[7] = 1 // data reference index
	binary.BigEndian.PutUint16(b[16:], uint16(channels))
	binary.BigEndian.PutUint16(b[18:], uint16(bits))
	binary.BigEndian.PutUint32(b[24:], uint32(rate)<<16)
	return atom(typ, append([][]byte{b}, ext...)...)
}

func stsdBox(entries ...[]byte) []byte {
	b := make([]byte, 8)
	b[7] = byte(len(entries))
	return atom("stsd", append([][]byte{b}, entries...)...)
}

func audioTrak(timescale uint32, dur uint64, entry []byte) []byte {
	return atom("trak", atom("mdia",
		mdhdBox(timescale, dur),
		hdlrBox("soun"),
		atom("minf", atom("stbl", stsdBox(entry))),
	))
}

// esdsBox nests decoder config and decoder specific info descriptors in an
// ES descriptor, the way encoders lay the chain out.
func esdsBox(avgBitrate uint32, asc []byte) []byte {
	dsi := append([]byte{0x05, byte(len(asc))}, asc...)
	dc := []byte{0x40, 0x15, 0, 0, 0}
	dc = appendBE32(dc, 256_000) // max bitrate
	dc = appendBE32(dc, avgBitrate)
	dc = append(dc, dsi...)
	dc = append([]byte{0x04, byte(len(dc))}, dc...)
	es := []byte{0, 1, 0} // ES_ID, no optional fields
	es = append(es, dc...)
	es = append([]byte{0x03, byte(len(es))}, es...)
	return atom("esds", make([]byte, 4), es)
}

func alacCookieBox(bits, channels byte, avgBitrate, rate uint32) []byte {
	b := make([]byte, 24)
	binary.BigEndian.PutUint32(b[0:], 4096) // frame length
	b[5] = bits
	b[9] = channels
	binary.BigEndian.PutUint32(b[16:], avgBitrate)
	binary.BigEndian.PutUint32(b[20:], rate)
	return atom("alac", make([]byte, 4), b)
}

func dfLaBox(rate, channels, bits int, samples uint64) []byte {
	si := make([]byte, 10)
	packed := uint64(rate)<<44 | uint64(channels-1)<<41 | uint64(bits-1)<<36 | samples
	si = appendBE64(si, packed)
	si = append(si, make([]byte, 16)...) // zero MD5
	hdr := appendBE32(nil, 1<<31|uint32(len(si)))
	return atom("dfLa", make([]byte, 4), hdr, si)
}

func dataBox(class byte, payload []byte) []byte {
	head := []byte{0, 0, 0, class, 0, 0, 0, 0}
	return atom("data", head, payload)
}

func textItem(name, value string) []byte {
	return atom(name, dataBox(classUTF8, []byte(value)))
}

func udtaBox(kids ...[]byte) []byte {
	return atom("udta", kids...)
}

func metaBox(ilst []byte) []byte {
	return atom("meta", make([]byte, 4), ilst)
}

type chapterSpec struct {
	start time.Duration
	title string
}

func chplBox(count int, chapters ...chapterSpec) []byte {
	b := make([]byte, 9)
	b[8] = byte(count)
	for _, c := range chapters {
		b = appendBE64(b, uint64(c.start/100))
		b = append(b, byte(len(c.title)))
		b = append(b, c.title...)
	}
	return atom("chpl", b)
}

// aacFile assembles a ten second 44.1 kHz stereo AAC file, with the given
// ilst items when any are passed.
func aacFile(ilstItems ...[]byte) []byte {
	entry := sampleEntry("mp4a", 2, 16, 44100, esdsBox(128_000, []byte{0x12, 0x10}))
	moovKids := [][]byte{
		mvhdBox(1000, 10_000),
		audioTrak(44100, 441_000, entry),
	}
	if len(ilstItems) > 0 {
		moovKids = append(moovKids, udtaBox(metaBox(atom("ilst", ilstItems...))))
	}
	data := ftypBox("M4A ", "mp42", "isom")
	data = append(data, atom("moov", moovKids...)...)
	data = append(data, atom("mdat", make([]byte, 2000))...)
	return data
}

func parseMP4(t *testing.T, data []byte, params registry.Params) *types.Result {
	t.Helper()
	col := collect.New(collect.Config{KeepNative: true, SkipCovers: params.SkipCovers})
	tok := tokenizer.FromBytes(data)
	err := parser{}.Parse(context.Background(), tok, col, params)
	require.NoError(t, err)
	return col.Result()
}

func TestParse_AACFacts(t *testing.T) {
	res := parseMP4(t, aacFile(), registry.Params{})

	assert.Empty(t, res.Warnings)
	assert.Equal(t, "M4A/mp42/isom", res.Format.Container)
	assert.Equal(t, "AAC", res.Format.Codec)
	assert.Equal(t, "AAC-LC", res.Format.CodecProfile)
	assert.Equal(t, 44100, res.Format.SampleRate)
	assert.Equal(t, 2, res.Format.Channels)
	assert.Equal(t, 128_000, res.Format.Bitrate)
	assert.Equal(t, 10*time.Second, res.Format.Duration)
	assert.Equal(t, uint64(441_000), res.Format.NumberOfSamples)
	assert.Zero(t, res.Format.BitsPerSample)
	assert.False(t, res.Format.Lossless)
}

func TestParse_EscapedAudioObjectType(t *testing.T) {
	// Object type 42 does not fit five bits; it arrives escaped through 31.
	entry := sampleEntry("mp4a", 2, 16, 48000, esdsBox(96_000, []byte{0xF9, 0x40}))
	data := ftypBox("M4A ", "mp42")
	data = append(data, atom("moov", mvhdBox(1000, 10_000), audioTrak(48000, 480_000, entry))...)
	data = append(data, atom("mdat", make([]byte, 500))...)

	res := parseMP4(t, data, registry.Params{})

	assert.Equal(t, "xHE-AAC", res.Format.CodecProfile)
	assert.Equal(t, 96_000, res.Format.Bitrate)
}

func TestParse_ALACCookie(t *testing.T) {
	// The cookie overrides the generic entry fields: 24-bit 96 kHz against
	// the 16-bit 44.1 kHz the fixed fields claim.
	entry := sampleEntry("alac", 2, 16, 44100, alacCookieBox(24, 2, 460_800, 96_000))
	data := ftypBox("M4A ", "mp42")
	data = append(data, atom("moov", mvhdBox(600, 6000), audioTrak(96_000, 960_000, entry))...)
	data = append(data, atom("mdat", make([]byte, 500))...)

	res := parseMP4(t, data, registry.Params{})

	assert.Empty(t, res.Warnings)
	assert.Equal(t, "ALAC", res.Format.Codec)
	assert.True(t, res.Format.Lossless)
	assert.Equal(t, 24, res.Format.BitsPerSample)
	assert.Equal(t, 2, res.Format.Channels)
	assert.Equal(t, 96_000, res.Format.SampleRate)
	assert.Equal(t, 460_800, res.Format.Bitrate)
	assert.Equal(t, uint64(960_000), res.Format.NumberOfSamples)
	assert.True(t, res.Format.IsHighRes())
}

func TestParse_FLACSampleEntry(t *testing.T) {
	entry := sampleEntry("fLaC", 2, 16, 44100, dfLaBox(44100, 2, 16, 441_000))
	data := ftypBox("M4A ", "mp42")
	data = append(data, atom("moov", mvhdBox(1000, 10_000), audioTrak(44100, 441_000, entry))...)
	data = append(data, atom("mdat", make([]byte, 2000))...)

	res := parseMP4(t, data, registry.Params{})

	// STREAMINFO and the movie headers describe the same stream; neither
	// may be reported as conflicting.
	assert.Empty(t, res.Warnings)
	assert.Equal(t, "FLAC", res.Format.Codec)
	assert.True(t, res.Format.Lossless)
	assert.Equal(t, 44100, res.Format.SampleRate)
	assert.Equal(t, 2, res.Format.Channels)
	assert.Equal(t, 16, res.Format.BitsPerSample)
	assert.Equal(t, uint64(441_000), res.Format.NumberOfSamples)
	assert.Equal(t, 10*time.Second, res.Format.Duration)
	assert.Nil(t, res.Format.AudioMD5)
	assert.Equal(t, 1600, res.Format.Bitrate) // 2000 mdat bytes over 10 s
}

func TestParse_PCMSampleEntry(t *testing.T) {
	entry := sampleEntry("sowt", 2, 16, 44100)
	data := ftypBox("M4A ", "mp42")
	data = append(data, atom("moov", mvhdBox(1000, 10_000), audioTrak(44100, 441_000, entry))...)
	data = append(data, atom("mdat", make([]byte, 500))...)

	res := parseMP4(t, data, registry.Params{})

	assert.Equal(t, "sowt", res.Format.Codec)
	assert.True(t, res.Format.Lossless)
	assert.Equal(t, 16, res.Format.BitsPerSample)
	assert.Equal(t, 44100, res.Format.SampleRate)
	assert.Equal(t, uint64(441_000), res.Format.NumberOfSamples)
}

func TestParse_ITunesTags(t *testing.T) {
	res := parseMP4(t, aacFile(
		textItem("\xa9nam", "Night Drive"),
		textItem("\xa9ART", "The Sequencers"),
		textItem("\xa9alb", "Motorways"),
		textItem("aART", "Various Artists"),
		textItem("\xa9day", "2016-05-13"),
		atom("trkn", dataBox(classImplicit, []byte{0, 0, 0, 3, 0, 12, 0, 0})),
		atom("gnre", dataBox(classImplicit, []byte{0, 18})),
		atom("cpil", dataBox(classSignedInt, []byte{1})),
	), registry.Params{})

	assert.Empty(t, res.Warnings)
	assert.Equal(t, []types.TagSystem{types.SystemITunes}, res.Format.TagTypes)
	assert.Equal(t, "Night Drive", res.Common.Title)
	assert.Equal(t, "The Sequencers", res.Common.Artist)
	assert.Equal(t, []string{"The Sequencers"}, res.Common.Artists)
	assert.Equal(t, "Motorways", res.Common.Album)
	assert.Equal(t, "Various Artists", res.Common.AlbumArtist)
	assert.Equal(t, "2016-05-13", res.Common.Date)
	assert.Equal(t, 2016, res.Common.Year)
	assert.Equal(t, types.PartOfSet{No: 3, Of: 12}, res.Common.Track)
	assert.Equal(t, []string{"Rock"}, res.Common.Genres)
	assert.True(t, res.Common.Compilation)
	assert.Len(t, res.Native[types.SystemITunes], 8)
}

func TestParse_UTF16Value(t *testing.T) {
	payload := []byte{0x00, 'C', 0x00, 'a', 0x00, 'f', 0x00, 0xE9}
	res := parseMP4(t, aacFile(atom("\xa9nam", dataBox(classUTF16, payload))), registry.Params{})

	assert.Equal(t, "Café", res.Common.Title)
}

func TestParse_CoverPicture(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xC0, 0x00, 0x11, 0x08, 0x01, 0xE0, 0x02, 0x80}
	file := aacFile(atom("covr", dataBox(classJPEG, jpeg)))

	res := parseMP4(t, file, registry.Params{})
	require.Len(t, res.Common.Pictures, 1)
	pic := res.Common.Pictures[0]
	assert.Equal(t, types.PictureFrontCover, pic.Type)
	assert.Equal(t, "image/jpeg", pic.MIMEType)
	assert.Equal(t, jpeg, pic.Data)
	assert.Equal(t, 640, pic.Width)
	assert.Equal(t, 480, pic.Height)

	t.Run("skip covers", func(t *testing.T) {
		res := parseMP4(t, file, registry.Params{SkipCovers: true})
		assert.Empty(t, res.Common.Pictures)
		for _, tag := range res.Native[types.SystemITunes] {
			assert.NotEqual(t, "covr", tag.ID)
		}
	})
}

func TestParse_FreeformTag(t *testing.T) {
	item := atom("----",
		atom("mean", make([]byte, 4), []byte("com.apple.iTunes")),
		atom("name", make([]byte, 4), []byte("MusicBrainz Track Id")),
		dataBox(classUTF8, []byte("f151cb94-c909-46a8-ad99-fb77391abfb8")),
	)
	res := parseMP4(t, aacFile(item), registry.Params{})

	assert.Equal(t, "f151cb94-c909-46a8-ad99-fb77391abfb8", res.Common.MusicBrainzRecordingID)
	require.Len(t, res.Native[types.SystemITunes], 1)
	assert.Equal(t, "----:com.apple.iTunes:MusicBrainz Track Id", res.Native[types.SystemITunes][0].ID)
}

func TestParse_NeroChapters(t *testing.T) {
	entry := sampleEntry("mp4a", 2, 16, 44100, esdsBox(128_000, []byte{0x12, 0x10}))
	data := ftypBox("M4A ", "mp42")
	data = append(data, atom("moov",
		mvhdBox(1000, 10_000),
		audioTrak(44100, 441_000, entry),
		udtaBox(chplBox(2,
			chapterSpec{start: 0, title: "Intro"},
			chapterSpec{start: 4 * time.Second, title: "Main"},
		)),
	)...)
	data = append(data, atom("mdat", make([]byte, 500))...)

	res := parseMP4(t, data, registry.Params{})

	require.Len(t, res.Chapters, 2)
	assert.Equal(t, types.Chapter{Index: 0, Title: "Intro", StartTime: 0, EndTime: 4 * time.Second}, res.Chapters[0])
	assert.Equal(t, types.Chapter{Index: 1, Title: "Main", StartTime: 4 * time.Second, EndTime: 10 * time.Second}, res.Chapters[1])
}

func TestParse_ChplTruncated(t *testing.T) {
	entry := sampleEntry("mp4a", 2, 16, 44100, esdsBox(128_000, []byte{0x12, 0x10}))
	data := ftypBox("M4A ", "mp42")
	data = append(data, atom("moov",
		mvhdBox(1000, 10_000),
		audioTrak(44100, 441_000, entry),
		udtaBox(chplBox(3, chapterSpec{start: 0, title: "Only"})),
	)...)

	res := parseMP4(t, data, registry.Params{})

	require.Len(t, res.Chapters, 1)
	assert.Equal(t, "Only", res.Chapters[0].Title)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0].Message, "chpl claims 3 chapters")
}

func TestParse_BrandDedup(t *testing.T) {
	entry := sampleEntry("mp4a", 2, 16, 44100, esdsBox(128_000, []byte{0x12, 0x10}))
	data := ftypBox("isom", "isom", "iso2", "mp41")
	data = append(data, atom("moov", mvhdBox(1000, 10_000), audioTrak(44100, 441_000, entry))...)

	res := parseMP4(t, data, registry.Params{})

	assert.Equal(t, "isom/iso2/mp41", res.Format.Container)
}

func TestParse_MdatBeforeMoov(t *testing.T) {
	// No declared bitrate, so the mdat payload measured on the way past
	// feeds the estimate once moov supplies the duration.
	entry := sampleEntry("mp4a", 2, 16, 44100, esdsBox(0, []byte{0x12, 0x10}))
	data := ftypBox("M4A ", "mp42", "isom")
	data = append(data, atom("mdat", make([]byte, 10_000))...)
	data = append(data, atom("moov", mvhdBox(1000, 10_000), audioTrak(44100, 441_000, entry))...)

	res := parseMP4(t, data, registry.Params{})

	assert.Empty(t, res.Warnings)
	assert.Equal(t, "AAC", res.Format.Codec)
	assert.Equal(t, 10*time.Second, res.Format.Duration)
	assert.Equal(t, 8000, res.Format.Bitrate)
}

func TestParse_ExtendedSizeBox(t *testing.T) {
	payload := make([]byte, 100)
	big := appendBE32(nil, 1)
	big = append(big, "mdat"...)
	big = appendBE64(big, uint64(16+len(payload)))
	big = append(big, payload...)

	entry := sampleEntry("mp4a", 2, 16, 44100, esdsBox(0, []byte{0x12, 0x10}))
	data := ftypBox("M4A ", "mp42")
	data = append(data, big...)
	data = append(data, atom("moov", mvhdBox(1000, 10_000), audioTrak(44100, 441_000, entry))...)

	res := parseMP4(t, data, registry.Params{})

	assert.Empty(t, res.Warnings)
	assert.Equal(t, 10*time.Second, res.Format.Duration)
	assert.Equal(t, 80, res.Format.Bitrate) // 100 bytes over 10 s
}

func TestParse_OpenEndedMdatOnStream(t *testing.T) {
	entry := sampleEntry("mp4a", 2, 16, 44100, esdsBox(0, []byte{0x12, 0x10}))
	data := ftypBox("M4A ", "mp42")
	data = append(data, atom("moov", mvhdBox(1000, 10_000), audioTrak(44100, 441_000, entry))...)
	data = append(data, appendBE32(nil, 0)...)
	data = append(data, "mdat"...)
	data = append(data, make([]byte, 5000)...)

	col := collect.New(collect.Config{})
	tok := tokenizer.New(bytes.NewReader(data), tokenizer.SizeUnknown)
	err := parser{}.Parse(context.Background(), tok, col, registry.Params{})
	require.NoError(t, err)

	res := col.Result()
	assert.Empty(t, res.Warnings)
	assert.Equal(t, 10*time.Second, res.Format.Duration)
	assert.Equal(t, 4000, res.Format.Bitrate) // 5000 drained bytes over 10 s
}

func TestParse_NonAudioTrackSkipped(t *testing.T) {
	entry := sampleEntry("mp4a", 2, 16, 44100, esdsBox(128_000, []byte{0x12, 0x10}))
	videoTrak := atom("trak", atom("mdia", hdlrBox("vide")))
	data := ftypBox("M4A ", "mp42")
	data = append(data, atom("moov", mvhdBox(1000, 10_000), videoTrak, audioTrak(44100, 441_000, entry))...)

	res := parseMP4(t, data, registry.Params{})

	assert.Empty(t, res.Warnings)
	assert.Equal(t, "AAC", res.Format.Codec)
	assert.Equal(t, 44100, res.Format.SampleRate)
}

func TestParse_NoAudioTrackWarns(t *testing.T) {
	data := ftypBox("M4A ", "mp42")
	data = append(data, atom("moov", mvhdBox(1000, 10_000), atom("trak", atom("mdia", hdlrBox("vide"))))...)

	res := parseMP4(t, data, registry.Params{})

	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0].Message, "no audio track")
}

func TestParse_NoMoovWarns(t *testing.T) {
	data := ftypBox("M4A ", "mp42", "isom")
	data = append(data, atom("mdat", make([]byte, 100))...)

	res := parseMP4(t, data, registry.Params{})

	assert.Equal(t, "M4A/mp42/isom", res.Format.Container)
	assert.Zero(t, res.Format.Duration)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0].Message, "no moov box")
}

func TestParse_TooShortForBoxHeader(t *testing.T) {
	col := collect.New(collect.Config{})
	err := parser{}.Parse(context.Background(), tokenizer.FromBytes([]byte("ftyp")), col, registry.Params{})

	var dec *types.DecodeError
	require.ErrorAs(t, err, &dec)
	assert.Equal(t, "mp4", dec.Stage)
}

func TestParse_ImpossibleBoxSizeMidStream(t *testing.T) {
	bad := appendBE32(nil, 5)
	bad = append(bad, "free"...)
	data := append(ftypBox("M4A ", "mp42"), bad...)

	res := parseMP4(t, data, registry.Params{})

	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0].Message, "impossible size")
}

func TestParse_SkipPostHeaders(t *testing.T) {
	junk := appendBE32(nil, 5)
	junk = append(junk, "free"...)
	data := ftypBox("M4A ", "mp42")
	data = append(data, atom("moov", mvhdBox(1000, 10_000),
		audioTrak(44100, 441_000, sampleEntry("mp4a", 2, 16, 44100, esdsBox(128_000, []byte{0x12, 0x10}))))...)
	data = append(data, junk...)

	res := parseMP4(t, data, registry.Params{SkipPostHeaders: true})
	assert.Empty(t, res.Warnings)
	assert.Equal(t, 10*time.Second, res.Format.Duration)

	res = parseMP4(t, data, registry.Params{})
	assert.NotEmpty(t, res.Warnings)
}

func TestParse_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	col := collect.New(collect.Config{})
	err := parser{}.Parse(ctx, tokenizer.FromBytes(aacFile()), col, registry.Params{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRegistryDispatch(t *testing.T) {
	require.NotNil(t, registry.Get(types.ContainerMP4))
}
