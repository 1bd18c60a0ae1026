// Package collect accumulates parser output into a Result.
//
// A Collector receives native tags, format facts, chapters and warnings from
// whichever container parser is running, folds the native tags into the
// normalized common view through the tagmap tables, and streams every
// accepted value to an optional observer while the parse is still in
// flight. Common-view scalars are first-wins: once a field holds a value,
// a differing later contribution is dropped with a warning. Sequence fields
// append in arrival order with exact duplicates removed.
package collect

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/audioprobe/audioprobe/internal/tagmap"
	"github.com/audioprobe/audioprobe/internal/types"
)

// Config carries the per-parse knobs the collector honors.
type Config struct {
	// Observer, when non-nil, receives every accepted update synchronously.
	Observer types.Observer

	// KeepNative retains decoded native tags on the Result.
	KeepNative bool

	// SkipCovers drops embedded pictures instead of collecting them.
	SkipCovers bool

	// MaxCoverSize drops pictures whose data exceeds this many bytes.
	// Zero means no limit.
	MaxCoverSize int
}

// Collector assembles one Result. Not safe for concurrent use; a parse is
// single-threaded by construction.
type Collector struct {
	res *types.Result
	cfg Config

	// scalar common fields and format facts already assigned
	scalars map[string]struct{}
	facts   map[string]struct{}
}

// New returns a collector assembling a fresh Result.
func New(cfg Config) *Collector {
	return &Collector{
		res:     &types.Result{},
		cfg:     cfg,
		scalars: make(map[string]struct{}),
		facts:   make(map[string]struct{}),
	}
}

// Result returns the Result under assembly.
func (c *Collector) Result() *types.Result {
	return c.res
}

// Warn records a parse warning.
func (c *Collector) Warn(stage string, offset int64, format string, args ...any) {
	c.res.Warnings = append(c.res.Warnings, types.Warning{
		Stage:   stage,
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
	})
}

// emit hands one update to the observer. A panicking observer is disarmed
// and noted as a warning; the parse itself never fails on observer bugs.
func (c *Collector) emit(u types.Update) {
	if c.cfg.Observer == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.Warn("observer", 0, "observer panic on %s update %q: %v", scopeName(u.Scope), u.ID, r)
		}
	}()
	c.cfg.Observer(u)
}

func scopeName(s types.UpdateScope) string {
	switch s {
	case types.ScopeNative:
		return "native"
	case types.ScopeCommon:
		return "common"
	case types.ScopeFormat:
		return "format"
	}
	return "unknown"
}

// AddTagType records that a tag system was found in the file. Systems are
// recorded once each, in decode order.
func (c *Collector) AddTagType(sys types.TagSystem) {
	if c.res.Format.HasTagType(sys) {
		return
	}
	c.res.Format.TagTypes = append(c.res.Format.TagTypes, sys)
	c.emit(types.Update{Scope: types.ScopeFormat, ID: "tagTypes", Value: sys})
}

// AddChapter appends a chapter in playback order, numbering it as it lands.
func (c *Collector) AddChapter(ch types.Chapter) {
	ch.Index = len(c.res.Chapters)
	c.res.Chapters = append(c.res.Chapters, ch)
}

// AddTag records one native tag and folds it into the common view.
//
// The native tag is retained and observed first; then the (system, id) pair
// is looked up in the mapping tables and, when a row exists, the coerced
// value is assigned to its common field. Unmapped tags stay native-only.
func (c *Collector) AddTag(system types.TagSystem, id string, value any) {
	if pic, ok := value.(types.Picture); ok {
		if c.cfg.SkipCovers {
			return
		}
		if c.cfg.MaxCoverSize > 0 && len(pic.Data) > c.cfg.MaxCoverSize {
			c.Warn("mapper", 0, "dropping %s picture %q: %d bytes exceeds cover limit %d",
				system, id, len(pic.Data), c.cfg.MaxCoverSize)
			return
		}
	}

	if c.cfg.KeepNative {
		if c.res.Native == nil {
			c.res.Native = make(map[types.TagSystem][]types.Tag)
		}
		c.res.Native[system] = append(c.res.Native[system], types.Tag{ID: id, Value: value})
	}
	c.emit(types.Update{Scope: types.ScopeNative, System: system, ID: id, Value: value})

	m, ok := tagmap.Lookup(system, id)
	if !ok {
		return
	}
	v, err := tagmap.Apply(m, system, value)
	if err != nil {
		c.Warn("mapper", 0, "%s %s: %v", system, id, err)
		return
	}
	if v == nil {
		return
	}
	c.assign(m.Field, v)
}

// assign routes one coerced value to its common field.
func (c *Collector) assign(field string, v any) {
	t := &c.res.Common
	switch field {
	case tagmap.FieldTitle:
		c.setString(field, &t.Title, v)
	case tagmap.FieldArtist:
		// Artist also feeds the artists sequence: multi-artist files repeat
		// the tag, and only the first value fits the scalar.
		c.setString(field, &t.Artist, v)
		c.appendStrings(tagmap.FieldArtists, &t.Artists, v)
	case tagmap.FieldArtists:
		c.appendStrings(field, &t.Artists, v)
	case tagmap.FieldAlbumArtist:
		c.setString(field, &t.AlbumArtist, v)
	case tagmap.FieldAlbum:
		c.setString(field, &t.Album, v)

	case tagmap.FieldYear:
		c.setInt(field, &t.Year, v)
	case tagmap.FieldDate:
		if c.setString(field, &t.Date, v) {
			c.deriveYear(t.Date)
		}
	case tagmap.FieldOriginalDate:
		if c.setString(field, &t.OriginalDate, v) && t.OriginalYear == 0 {
			if y := yearOf(t.OriginalDate); y != 0 {
				t.OriginalYear = y
				c.emit(types.Update{Scope: types.ScopeCommon, ID: tagmap.FieldOriginalYear, Value: y})
			}
		}
	case tagmap.FieldOriginalYear:
		c.setInt(field, &t.OriginalYear, v)
	case tagmap.FieldReleaseDate:
		c.setString(field, &t.ReleaseDate, v)

	case tagmap.FieldTrack:
		c.mergePosition(field, &t.Track, v)
	case tagmap.FieldTrackTotal:
		c.mergeTotal(tagmap.FieldTrack, &t.Track, v)
	case tagmap.FieldDisk:
		c.mergePosition(field, &t.Disk, v)
	case tagmap.FieldDiskTotal:
		c.mergeTotal(tagmap.FieldDisk, &t.Disk, v)

	case tagmap.FieldGenre:
		c.appendStrings(field, &t.Genres, v)
	case tagmap.FieldPicture:
		c.addPicture(v)
	case tagmap.FieldComment:
		c.appendStrings(field, &t.Comments, v)
	case tagmap.FieldLyrics:
		c.appendStrings(field, &t.Lyrics, v)

	case tagmap.FieldTitleSort:
		c.setString(field, &t.TitleSort, v)
	case tagmap.FieldArtistSort:
		c.setString(field, &t.ArtistSort, v)
	case tagmap.FieldAlbumArtistSort:
		c.setString(field, &t.AlbumArtistSort, v)
	case tagmap.FieldAlbumSort:
		c.setString(field, &t.AlbumSort, v)
	case tagmap.FieldComposerSort:
		c.setString(field, &t.ComposerSort, v)

	case tagmap.FieldWork:
		c.setString(field, &t.Work, v)
	case tagmap.FieldGrouping:
		c.setString(field, &t.Grouping, v)
	case tagmap.FieldSubtitle:
		c.appendStrings(field, &t.Subtitle, v)
	case tagmap.FieldDiscSubtitle:
		c.appendStrings(field, &t.DiscSubtitle, v)
	case tagmap.FieldCompilation:
		c.setBool(field, &t.Compilation, v)

	case tagmap.FieldComposer:
		c.appendStrings(field, &t.Composers, v)
	case tagmap.FieldLyricist:
		c.appendStrings(field, &t.Lyricists, v)
	case tagmap.FieldWriter:
		c.appendStrings(field, &t.Writers, v)
	case tagmap.FieldConductor:
		c.appendStrings(field, &t.Conductors, v)
	case tagmap.FieldRemixer:
		c.appendStrings(field, &t.Remixers, v)
	case tagmap.FieldArranger:
		c.appendStrings(field, &t.Arrangers, v)
	case tagmap.FieldEngineer:
		c.appendStrings(field, &t.Engineers, v)
	case tagmap.FieldProducer:
		c.appendStrings(field, &t.Producers, v)
	case tagmap.FieldDJMixer:
		c.appendStrings(field, &t.DJMixers, v)
	case tagmap.FieldMixer:
		c.appendStrings(field, &t.Mixers, v)
	case tagmap.FieldPerformer:
		c.appendStrings(field, &t.Performers, v)

	case tagmap.FieldRating:
		c.addRating(v)

	case tagmap.FieldBPM:
		c.setFloat(field, &t.BPM, v)
	case tagmap.FieldKey:
		c.setString(field, &t.Key, v)
	case tagmap.FieldMood:
		c.setString(field, &t.Mood, v)
	case tagmap.FieldMedia:
		c.setString(field, &t.Media, v)

	case tagmap.FieldLabel:
		c.appendStrings(field, &t.Labels, v)
	case tagmap.FieldCatalogNumber:
		c.appendStrings(field, &t.CatalogNumbers, v)
	case tagmap.FieldBarcode:
		c.setString(field, &t.Barcode, v)
	case tagmap.FieldISRC:
		c.appendStrings(field, &t.ISRCs, v)

	case tagmap.FieldTVShow:
		c.setString(field, &t.TVShow, v)
	case tagmap.FieldTVShowSort:
		c.setString(field, &t.TVShowSort, v)
	case tagmap.FieldTVSeason:
		c.setInt(field, &t.TVSeason, v)
	case tagmap.FieldTVEpisode:
		c.setInt(field, &t.TVEpisode, v)
	case tagmap.FieldTVEpisodeID:
		c.setString(field, &t.TVEpisodeID, v)
	case tagmap.FieldTVNetwork:
		c.setString(field, &t.TVNetwork, v)

	case tagmap.FieldPodcast:
		c.setBool(field, &t.Podcast, v)
	case tagmap.FieldPodcastID:
		c.setString(field, &t.PodcastID, v)
	case tagmap.FieldPodcastURL:
		c.setString(field, &t.PodcastURL, v)
	case tagmap.FieldPodcastCategory:
		c.setString(field, &t.PodcastCategory, v)
	case tagmap.FieldPodcastKeywords:
		c.setString(field, &t.PodcastKeywords, v)

	case tagmap.FieldReleaseStatus:
		c.setString(field, &t.ReleaseStatus, v)
	case tagmap.FieldReleaseType:
		c.appendStrings(field, &t.ReleaseTypes, v)
	case tagmap.FieldReleaseCountry:
		c.setString(field, &t.ReleaseCountry, v)
	case tagmap.FieldScript:
		c.setString(field, &t.Script, v)
	case tagmap.FieldLanguage:
		c.setString(field, &t.Language, v)

	case tagmap.FieldCopyright:
		c.setString(field, &t.Copyright, v)
	case tagmap.FieldLicense:
		c.setString(field, &t.License, v)

	case tagmap.FieldEncodedBy:
		c.setString(field, &t.EncodedBy, v)
	case tagmap.FieldEncoderSettings:
		c.setString(field, &t.EncoderSettings, v)

	case tagmap.FieldGapless:
		c.setBool(field, &t.Gapless, v)

	case tagmap.FieldMusicBrainzRecordingID:
		c.setString(field, &t.MusicBrainzRecordingID, v)
	case tagmap.FieldMusicBrainzTrackID:
		c.setString(field, &t.MusicBrainzTrackID, v)
	case tagmap.FieldMusicBrainzAlbumID:
		c.setString(field, &t.MusicBrainzAlbumID, v)
	case tagmap.FieldMusicBrainzArtistID:
		c.appendStrings(field, &t.MusicBrainzArtistIDs, v)
	case tagmap.FieldMusicBrainzAlbumArtistID:
		c.appendStrings(field, &t.MusicBrainzAlbumArtistIDs, v)
	case tagmap.FieldMusicBrainzReleaseGroup:
		c.setString(field, &t.MusicBrainzReleaseGroupID, v)
	case tagmap.FieldMusicBrainzWorkID:
		c.setString(field, &t.MusicBrainzWorkID, v)
	case tagmap.FieldMusicBrainzDiscID:
		c.setString(field, &t.MusicBrainzDiscID, v)
	case tagmap.FieldMusicBrainzTRMID:
		c.setString(field, &t.MusicBrainzTRMID, v)
	case tagmap.FieldAcoustIDID:
		c.setString(field, &t.AcoustIDID, v)
	case tagmap.FieldAcoustIDFingerprint:
		c.setString(field, &t.AcoustIDFingerprint, v)
	case tagmap.FieldMusicIPPUID:
		c.setString(field, &t.MusicIPPUID, v)

	case tagmap.FieldReplayGainTrackGain:
		c.setGain(field, &t.ReplayGainTrackGain, v)
	case tagmap.FieldReplayGainTrackPeak:
		c.setGain(field, &t.ReplayGainTrackPeak, v)
	case tagmap.FieldReplayGainAlbumGain:
		c.setGain(field, &t.ReplayGainAlbumGain, v)
	case tagmap.FieldReplayGainAlbumPeak:
		c.setGain(field, &t.ReplayGainAlbumPeak, v)
	case tagmap.FieldReplayGainUndo:
		c.setUndo(v)

	default:
		c.Warn("mapper", 0, "mapping names unknown common field %q", field)
	}
}

// deriveYear fills Year from an accepted Date. The derived value does not
// claim the year slot, so an explicit year tag arriving later still wins.
func (c *Collector) deriveYear(date string) {
	if _, set := c.scalars[tagmap.FieldYear]; set || c.res.Common.Year != 0 {
		return
	}
	if y := yearOf(date); y != 0 {
		c.res.Common.Year = y
		c.emit(types.Update{Scope: types.ScopeCommon, ID: tagmap.FieldYear, Value: y})
	}
}

func yearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return y
}

func (c *Collector) setString(field string, dst *string, v any) bool {
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprintf("%v", v)
	}
	if s = strings.TrimSpace(s); s == "" {
		return false
	}
	if _, set := c.scalars[field]; set {
		if *dst != s {
			c.Warn("mapper", 0, "%s already %q, ignoring %q", field, *dst, s)
		}
		return false
	}
	c.scalars[field] = struct{}{}
	*dst = s
	c.emit(types.Update{Scope: types.ScopeCommon, ID: field, Value: s})
	return true
}

func (c *Collector) setInt(field string, dst *int, v any) {
	n, ok := v.(int)
	if !ok {
		c.Warn("mapper", 0, "%s: expected integer, got %T", field, v)
		return
	}
	if n == 0 {
		return
	}
	if _, set := c.scalars[field]; set {
		if *dst != n {
			c.Warn("mapper", 0, "%s already %d, ignoring %d", field, *dst, n)
		}
		return
	}
	c.scalars[field] = struct{}{}
	*dst = n
	c.emit(types.Update{Scope: types.ScopeCommon, ID: field, Value: n})
}

func (c *Collector) setFloat(field string, dst *float64, v any) {
	f, ok := v.(float64)
	if !ok {
		c.Warn("mapper", 0, "%s: expected number, got %T", field, v)
		return
	}
	if f == 0 {
		return
	}
	if _, set := c.scalars[field]; set {
		if *dst != f {
			c.Warn("mapper", 0, "%s already %v, ignoring %v", field, *dst, f)
		}
		return
	}
	c.scalars[field] = struct{}{}
	*dst = f
	c.emit(types.Update{Scope: types.ScopeCommon, ID: field, Value: f})
}

// setBool accepts the shapes boolean flags arrive in: native bools from MP4
// atoms, "1"/"0" strings from ID3v2 frames, numeric forms elsewhere.
func (c *Collector) setBool(field string, dst *bool, v any) {
	var b bool
	switch x := v.(type) {
	case bool:
		b = x
	case string:
		s := strings.TrimSpace(strings.ToLower(x))
		b = s == "1" || s == "true" || s == "yes"
	case int:
		b = x != 0
	case int64:
		b = x != 0
	case uint64:
		b = x != 0
	default:
		c.Warn("mapper", 0, "%s: expected flag, got %T", field, v)
		return
	}
	if !b {
		return
	}
	if _, set := c.scalars[field]; set {
		return
	}
	c.scalars[field] = struct{}{}
	*dst = true
	c.emit(types.Update{Scope: types.ScopeCommon, ID: field, Value: true})
}

// appendStrings appends one value or a pre-split sequence, dropping exact
// duplicates of elements already present.
func (c *Collector) appendStrings(field string, dst *[]string, v any) {
	var add []string
	switch x := v.(type) {
	case string:
		add = []string{x}
	case []string:
		add = x
	default:
		c.Warn("mapper", 0, "%s: expected text, got %T", field, v)
		return
	}
	for _, s := range add {
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		if containsString(*dst, s) {
			continue
		}
		*dst = append(*dst, s)
		c.emit(types.Update{Scope: types.ScopeCommon, ID: field, Value: s})
	}
}

func containsString(list []string, s string) bool {
	for _, have := range list {
		if have == s {
			return true
		}
	}
	return false
}

// mergePosition folds a PartOfSet contribution component by component, so a
// "3/12" from one tag system and a bare total from another combine instead
// of fighting.
func (c *Collector) mergePosition(field string, dst *types.PartOfSet, v any) {
	pos, ok := v.(types.PartOfSet)
	if !ok {
		c.Warn("mapper", 0, "%s: expected position, got %T", field, v)
		return
	}
	changed := false
	if pos.No != 0 {
		if dst.No == 0 {
			dst.No = pos.No
			changed = true
		} else if dst.No != pos.No {
			c.Warn("mapper", 0, "%s number already %d, ignoring %d", field, dst.No, pos.No)
		}
	}
	if pos.Of != 0 {
		if dst.Of == 0 {
			dst.Of = pos.Of
			changed = true
		} else if dst.Of != pos.Of {
			c.Warn("mapper", 0, "%s total already %d, ignoring %d", field, dst.Of, pos.Of)
		}
	}
	if changed {
		c.emit(types.Update{Scope: types.ScopeCommon, ID: field, Value: *dst})
	}
}

// mergeTotal folds a standalone total tag (TRACKTOTAL, TOTALDISCS) into the
// Of component of its position field.
func (c *Collector) mergeTotal(field string, dst *types.PartOfSet, v any) {
	n, ok := v.(int)
	if !ok {
		c.Warn("mapper", 0, "%s total: expected integer, got %T", field, v)
		return
	}
	c.mergePosition(field, dst, types.PartOfSet{Of: n})
}

func (c *Collector) addPicture(v any) {
	pic, ok := v.(types.Picture)
	if !ok {
		c.Warn("mapper", 0, "picture: expected picture, got %T", v)
		return
	}
	for _, have := range c.res.Common.Pictures {
		if have.Type == pic.Type && have.MIMEType == pic.MIMEType &&
			have.Description == pic.Description && bytes.Equal(have.Data, pic.Data) {
			return
		}
	}
	c.res.Common.Pictures = append(c.res.Common.Pictures, pic)
	c.emit(types.Update{Scope: types.ScopeCommon, ID: tagmap.FieldPicture, Value: pic})
}

func (c *Collector) addRating(v any) {
	r, ok := v.(types.Rating)
	if !ok {
		c.Warn("mapper", 0, "rating: expected rating, got %T", v)
		return
	}
	for _, have := range c.res.Common.Ratings {
		if have == r {
			return
		}
	}
	c.res.Common.Ratings = append(c.res.Common.Ratings, r)
	c.emit(types.Update{Scope: types.ScopeCommon, ID: tagmap.FieldRating, Value: r})
}

func (c *Collector) setGain(field string, dst **types.GainValue, v any) {
	g, ok := v.(types.GainValue)
	if !ok {
		c.Warn("mapper", 0, "%s: expected gain, got %T", field, v)
		return
	}
	if _, set := c.scalars[field]; set {
		if **dst != g {
			c.Warn("mapper", 0, "%s already %.2f dB, ignoring %.2f dB", field, (*dst).DB, g.DB)
		}
		return
	}
	c.scalars[field] = struct{}{}
	*dst = &g
	c.emit(types.Update{Scope: types.ScopeCommon, ID: field, Value: g})
}

// setUndo parses an MP3 gain undo string, "+001,+001,W": left and right
// global gain adjustments plus a wrap flag.
func (c *Collector) setUndo(v any) {
	s, ok := v.(string)
	if !ok {
		c.Warn("mapper", 0, "replaygain_undo: expected text, got %T", v)
		return
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		c.Warn("mapper", 0, "replaygain_undo: malformed %q", s)
		return
	}
	left, errL := strconv.Atoi(strings.TrimSpace(parts[0]))
	right, errR := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errL != nil || errR != nil {
		c.Warn("mapper", 0, "replaygain_undo: malformed %q", s)
		return
	}
	undo := types.ReplayGainUndo{
		Left:  left,
		Right: right,
		Wrap:  strings.EqualFold(strings.TrimSpace(parts[2]), "w"),
	}
	if _, set := c.scalars[tagmap.FieldReplayGainUndo]; set {
		return
	}
	c.scalars[tagmap.FieldReplayGainUndo] = struct{}{}
	c.res.Common.ReplayGainUndo = &undo
	c.emit(types.Update{Scope: types.ScopeCommon, ID: tagmap.FieldReplayGainUndo, Value: undo})
}

// Format facts. Each is set at most once; a later differing value is dropped
// with a warning. Zero values carry no information and are ignored.

func (c *Collector) SetContainer(v string) {
	setFact(c, "container", &c.res.Format.Container, v)
}

func (c *Collector) SetCodec(v string) {
	setFact(c, "codec", &c.res.Format.Codec, v)
}

func (c *Collector) SetCodecProfile(v string) {
	setFact(c, "codecProfile", &c.res.Format.CodecProfile, v)
}

func (c *Collector) SetBitrate(bitsPerSecond int) {
	setFact(c, "bitrate", &c.res.Format.Bitrate, bitsPerSecond)
}

func (c *Collector) SetSampleRate(hz int) {
	setFact(c, "sampleRate", &c.res.Format.SampleRate, hz)
}

func (c *Collector) SetBitsPerSample(bits int) {
	setFact(c, "bitsPerSample", &c.res.Format.BitsPerSample, bits)
}

func (c *Collector) SetChannels(n int) {
	setFact(c, "numberOfChannels", &c.res.Format.Channels, n)
}

func (c *Collector) SetNumberOfSamples(n uint64) {
	setFact(c, "numberOfSamples", &c.res.Format.NumberOfSamples, n)
}

func (c *Collector) SetLossless(v bool) {
	if v {
		setFact(c, "lossless", &c.res.Format.Lossless, v)
	}
}

func (c *Collector) SetTool(v string) {
	setFact(c, "tool", &c.res.Format.Tool, v)
}

func (c *Collector) SetDuration(d time.Duration) {
	setFact(c, "duration", &c.res.Format.Duration, d)
}

// ForceDuration overrides the duration fact. A full frame scan measures the
// stream exactly and outranks whatever a header estimated.
func (c *Collector) ForceDuration(d time.Duration) {
	if d <= 0 {
		return
	}
	c.facts["duration"] = struct{}{}
	c.res.Format.Duration = d
	c.emit(types.Update{Scope: types.ScopeFormat, ID: "duration", Value: d})
}

// HasDuration reports whether a duration fact landed.
func (c *Collector) HasDuration() bool {
	_, set := c.facts["duration"]
	return set
}

func (c *Collector) SetAudioMD5(sum []byte) {
	if len(sum) == 0 {
		return
	}
	if _, set := c.facts["audioMD5"]; set {
		if !bytes.Equal(c.res.Format.AudioMD5, sum) {
			c.Warn("format", 0, "conflicting audioMD5")
		}
		return
	}
	c.facts["audioMD5"] = struct{}{}
	c.res.Format.AudioMD5 = sum
	c.emit(types.Update{Scope: types.ScopeFormat, ID: "audioMD5", Value: sum})
}

func setFact[T comparable](c *Collector, name string, dst *T, v T) {
	var zero T
	if v == zero {
		return
	}
	if _, set := c.facts[name]; set {
		if *dst != v {
			c.Warn("format", 0, "conflicting %s: had %v, parser offered %v", name, *dst, v)
		}
		return
	}
	c.facts[name] = struct{}{}
	*dst = v
	c.emit(types.Update{Scope: types.ScopeFormat, ID: name, Value: v})
}
