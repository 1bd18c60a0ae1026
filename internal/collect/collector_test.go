package collect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audioprobe/audioprobe/internal/types"
)

func TestScalarFirstWins(t *testing.T) {
	c := New(Config{})

	c.AddTag(types.SystemID3v23, "TIT2", "First Title")
	c.AddTag(types.SystemAPEv2, "Title", "Second Title")

	res := c.Result()
	assert.Equal(t, "First Title", res.Common.Title)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "mapper", res.Warnings[0].Stage)
	assert.Contains(t, res.Warnings[0].Message, "title")
}

func TestScalarSameValueNoWarning(t *testing.T) {
	c := New(Config{})

	c.AddTag(types.SystemID3v23, "TIT2", "Same")
	c.AddTag(types.SystemAPEv2, "Title", "Same")

	assert.Empty(t, c.Result().Warnings)
}

func TestSequenceAppendAndDedup(t *testing.T) {
	c := New(Config{})

	c.AddTag(types.SystemVorbis, "ARTIST", "Alice")
	c.AddTag(types.SystemVorbis, "ARTIST", "Bob")
	c.AddTag(types.SystemVorbis, "ARTIST", "Alice")

	assert.Equal(t, []string{"Alice", "Bob"}, c.Result().Common.Artists)
}

func TestPartOfSetMerge(t *testing.T) {
	c := New(Config{})

	c.AddTag(types.SystemVorbis, "TRACKNUMBER", "3")
	c.AddTag(types.SystemVorbis, "TRACKTOTAL", "12")

	assert.Equal(t, types.PartOfSet{No: 3, Of: 12}, c.Result().Common.Track)
}

func TestPartOfSetConflictWarns(t *testing.T) {
	c := New(Config{})

	c.AddTag(types.SystemID3v23, "TRCK", "3/12")
	c.AddTag(types.SystemVorbis, "TRACKNUMBER", "4")

	res := c.Result()
	assert.Equal(t, types.PartOfSet{No: 3, Of: 12}, res.Common.Track)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0].Message, "track")
}

func TestYearDerivedFromDate(t *testing.T) {
	c := New(Config{})

	c.AddTag(types.SystemID3v24, "TDRC", "2004-06-01")

	res := c.Result()
	assert.Equal(t, "2004-06-01", res.Common.Date)
	assert.Equal(t, 2004, res.Common.Year)
	assert.Empty(t, res.Warnings)
}

func TestExplicitYearBeatsDerived(t *testing.T) {
	c := New(Config{})

	c.AddTag(types.SystemID3v24, "TDRC", "2004-06-01")
	c.AddTag(types.SystemID3v23, "TYER", "2003")

	assert.Equal(t, 2003, c.Result().Common.Year)
}

func TestGenreReferences(t *testing.T) {
	c := New(Config{})

	c.AddTag(types.SystemID3v23, "TCON", "(17)Indie")

	assert.Equal(t, []string{"Rock", "Indie"}, c.Result().Common.Genres)
}

func TestReplayGainPair(t *testing.T) {
	c := New(Config{})

	c.AddTag(types.SystemAPEv2, "replaygain_track_gain", "-6.00 dB")
	c.AddTag(types.SystemAPEv2, "replaygain_track_peak", "0.988")

	res := c.Result()
	require.NotNil(t, res.Common.ReplayGainTrackGain)
	assert.Equal(t, -6.0, res.Common.ReplayGainTrackGain.DB)
	assert.InDelta(t, 0.5012, res.Common.ReplayGainTrackGain.Ratio, 1e-3)
	require.NotNil(t, res.Common.ReplayGainTrackPeak)
	assert.Equal(t, 0.988, res.Common.ReplayGainTrackPeak.Ratio)
}

func TestReplayGainUndo(t *testing.T) {
	c := New(Config{})

	c.AddTag(types.SystemAPEv2, "MP3GAIN_UNDO", "+001,+001,W")

	res := c.Result()
	require.NotNil(t, res.Common.ReplayGainUndo)
	assert.Equal(t, types.ReplayGainUndo{Left: 1, Right: 1, Wrap: true}, *res.Common.ReplayGainUndo)
}

func TestRatingPassThrough(t *testing.T) {
	c := New(Config{})

	c.AddTag(types.SystemID3v23, "POPM", types.Rating{Source: "user@example.com", Value: 196.0 / 255})

	res := c.Result()
	require.Len(t, res.Common.Ratings, 1)
	assert.Equal(t, "user@example.com", res.Common.Ratings[0].Source)
	assert.InDelta(t, 0.768, res.Common.Ratings[0].Value, 1e-3)
}

func TestSameTagSequenceSameCommonView(t *testing.T) {
	feed := func() *types.Result {
		c := New(Config{})
		c.AddTag(types.SystemID3v23, "TIT2", "Hello")
		c.AddTag(types.SystemID3v23, "TRCK", "3/12")
		c.AddTag(types.SystemVorbis, "ARTIST", "Alice")
		c.AddTag(types.SystemVorbis, "ARTIST", "Bob")
		c.AddTag(types.SystemAPEv2, "REPLAYGAIN_TRACK_GAIN", "-6.00 dB")
		c.AddTag(types.SystemVorbis, "DATE", "2004-06-01")
		return c.Result()
	}

	first, second := feed(), feed()
	assert.Equal(t, first.Common, second.Common)
	assert.Equal(t, first.Warnings, second.Warnings)
}

func TestUnmappedTagStaysNative(t *testing.T) {
	c := New(Config{KeepNative: true})

	c.AddTag(types.SystemVorbis, "MY_CUSTOM_TAG", "hello")

	res := c.Result()
	require.Len(t, res.Native[types.SystemVorbis], 1)
	assert.Equal(t, "MY_CUSTOM_TAG", res.Native[types.SystemVorbis][0].ID)
	assert.Equal(t, types.Tags{}, res.Common)
}

func TestNativeDisabledByDefault(t *testing.T) {
	c := New(Config{})

	c.AddTag(types.SystemVorbis, "TITLE", "x")

	assert.Nil(t, c.Result().Native)
}

func TestSkipCovers(t *testing.T) {
	c := New(Config{KeepNative: true, SkipCovers: true})

	c.AddTag(types.SystemID3v23, "APIC", types.Picture{MIMEType: "image/jpeg", Data: []byte{1, 2, 3}})

	res := c.Result()
	assert.Empty(t, res.Common.Pictures)
	assert.Empty(t, res.Native)
	assert.Empty(t, res.Warnings)
}

func TestMaxCoverSize(t *testing.T) {
	c := New(Config{MaxCoverSize: 2})

	c.AddTag(types.SystemID3v23, "APIC", types.Picture{MIMEType: "image/jpeg", Data: []byte{1, 2, 3}})

	res := c.Result()
	assert.Empty(t, res.Common.Pictures)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0].Message, "cover limit")
}

func TestPictureDedup(t *testing.T) {
	c := New(Config{})

	pic := types.Picture{Type: types.PictureFrontCover, MIMEType: "image/png", Data: []byte{9}}
	c.AddTag(types.SystemID3v23, "APIC", pic)
	c.AddTag(types.SystemID3v24, "APIC", pic)

	assert.Len(t, c.Result().Common.Pictures, 1)
}

func TestObserverSeesUpdatesInOrder(t *testing.T) {
	var got []types.Update
	c := New(Config{Observer: func(u types.Update) { got = append(got, u) }})

	c.AddTag(types.SystemID3v23, "TIT2", "Title")
	c.SetSampleRate(44100)

	require.Len(t, got, 3)
	assert.Equal(t, types.ScopeNative, got[0].Scope)
	assert.Equal(t, "TIT2", got[0].ID)
	assert.Equal(t, types.ScopeCommon, got[1].Scope)
	assert.Equal(t, "title", got[1].ID)
	assert.Equal(t, "Title", got[1].Value)
	assert.Equal(t, types.ScopeFormat, got[2].Scope)
	assert.Equal(t, "sampleRate", got[2].ID)
}

func TestObserverPanicBecomesWarning(t *testing.T) {
	calls := 0
	c := New(Config{Observer: func(u types.Update) {
		calls++
		panic("observer bug")
	}})

	c.AddTag(types.SystemVorbis, "TITLE", "x")

	res := c.Result()
	assert.Equal(t, "x", res.Common.Title)
	assert.Equal(t, 2, calls)
	require.NotEmpty(t, res.Warnings)
	assert.Equal(t, "observer", res.Warnings[0].Stage)
}

func TestFormatFactsSetOnce(t *testing.T) {
	c := New(Config{})

	c.SetSampleRate(44100)
	c.SetSampleRate(48000)

	res := c.Result()
	assert.Equal(t, 44100, res.Format.SampleRate)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "format", res.Warnings[0].Stage)
}

func TestForceDurationOverrides(t *testing.T) {
	c := New(Config{})

	c.SetDuration(10 * time.Second)
	c.ForceDuration(9800 * time.Millisecond)

	assert.Equal(t, 9800*time.Millisecond, c.Result().Format.Duration)
	assert.Empty(t, c.Result().Warnings)
}

func TestTagTypesRecordedOnce(t *testing.T) {
	c := New(Config{})

	c.AddTagType(types.SystemID3v23)
	c.AddTagType(types.SystemAPEv2)
	c.AddTagType(types.SystemID3v23)

	assert.Equal(t, []types.TagSystem{types.SystemID3v23, types.SystemAPEv2}, c.Result().Format.TagTypes)
}

func TestChaptersNumberedInOrder(t *testing.T) {
	c := New(Config{})

	c.AddChapter(types.Chapter{Title: "Intro", StartTime: 0})
	c.AddChapter(types.Chapter{Title: "One", StartTime: 30 * time.Second})

	res := c.Result()
	require.Len(t, res.Chapters, 2)
	assert.Equal(t, 0, res.Chapters[0].Index)
	assert.Equal(t, 1, res.Chapters[1].Index)
}

func TestCaseInsensitiveApeKeys(t *testing.T) {
	c := New(Config{})

	c.AddTag(types.SystemAPEv2, "ALBUM", "Loud")
	c.AddTag(types.SystemAPEv2, "album", "Loud")

	assert.Equal(t, "Loud", c.Result().Common.Album)
	assert.Empty(t, c.Result().Warnings)
}
