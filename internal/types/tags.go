package types

// Tags is the normalized common view assembled by the tag mapper.
//
// Every container's native tags are folded into this one structure through
// the (tag system, id) mapping tables, so callers read Title or Track the
// same way for an MP3, a FLAC file, or an M4B audiobook. Fields that were
// never contributed by any tag keep their zero value; sequence fields keep
// contribution order with exact duplicates removed.
type Tags struct {
	// Core identity
	Title       string   `json:"title,omitempty"`
	Artist      string   `json:"artist,omitempty"`
	Artists     []string `json:"artists,omitempty"`
	AlbumArtist string   `json:"albumartist,omitempty"`
	Album       string   `json:"album,omitempty"`

	// Release dating. Year is derived from Date when only the latter is
	// tagged; OriginalDate/OriginalYear describe the original release of
	// a re-issue.
	Year         int    `json:"year,omitempty"`
	Date         string `json:"date,omitempty"`
	OriginalDate string `json:"originaldate,omitempty"`
	OriginalYear int    `json:"originalyear,omitempty"`
	ReleaseDate  string `json:"releasedate,omitempty"`

	// Position in the release
	Track PartOfSet `json:"track"`
	Disk  PartOfSet `json:"disk"`

	Genres   []string  `json:"genre,omitempty"`
	Pictures []Picture `json:"picture,omitempty"`
	Comments []string  `json:"comment,omitempty"`
	Lyrics   []string  `json:"lyrics,omitempty"`

	// Sort keys
	TitleSort       string `json:"titlesort,omitempty"`
	ArtistSort      string `json:"artistsort,omitempty"`
	AlbumArtistSort string `json:"albumartistsort,omitempty"`
	AlbumSort       string `json:"albumsort,omitempty"`
	ComposerSort    string `json:"composersort,omitempty"`

	// Work grouping
	Work         string   `json:"work,omitempty"`
	Grouping     string   `json:"grouping,omitempty"`
	Subtitle     []string `json:"subtitle,omitempty"`
	DiscSubtitle []string `json:"discsubtitle,omitempty"`
	Compilation  bool     `json:"compilation,omitempty"`

	// Contributor credits
	Composers  []string `json:"composer,omitempty"`
	Lyricists  []string `json:"lyricist,omitempty"`
	Writers    []string `json:"writer,omitempty"`
	Conductors []string `json:"conductor,omitempty"`
	Remixers   []string `json:"remixer,omitempty"`
	Arrangers  []string `json:"arranger,omitempty"`
	Engineers  []string `json:"engineer,omitempty"`
	Producers  []string `json:"producer,omitempty"`
	DJMixers   []string `json:"djmixer,omitempty"`
	Mixers     []string `json:"mixer,omitempty"`
	Performers []string `json:"performer,omitempty"`

	Ratings []Rating `json:"rating,omitempty"`

	BPM   float64 `json:"bpm,omitempty"`
	Key   string  `json:"key,omitempty"`
	Mood  string  `json:"mood,omitempty"`
	Media string  `json:"media,omitempty"`

	Labels         []string `json:"label,omitempty"`
	CatalogNumbers []string `json:"catalognumber,omitempty"`
	Barcode        string   `json:"barcode,omitempty"`
	ISRCs          []string `json:"isrc,omitempty"`

	// Television
	TVShow      string `json:"tvShow,omitempty"`
	TVShowSort  string `json:"tvShowSort,omitempty"`
	TVSeason    int    `json:"tvSeason,omitempty"`
	TVEpisode   int    `json:"tvEpisode,omitempty"`
	TVEpisodeID string `json:"tvEpisodeId,omitempty"`
	TVNetwork   string `json:"tvNetwork,omitempty"`

	// Podcasts
	Podcast         bool   `json:"podcast,omitempty"`
	PodcastID       string `json:"podcastId,omitempty"`
	PodcastURL      string `json:"podcasturl,omitempty"`
	PodcastCategory string `json:"category,omitempty"`
	PodcastKeywords string `json:"keywords,omitempty"`

	// Release classification
	ReleaseStatus  string   `json:"releasestatus,omitempty"`
	ReleaseTypes   []string `json:"releasetype,omitempty"`
	ReleaseCountry string   `json:"releasecountry,omitempty"`
	Script         string   `json:"script,omitempty"`
	Language       string   `json:"language,omitempty"`

	Copyright string `json:"copyright,omitempty"`
	License   string `json:"license,omitempty"`

	// Encoder identification
	EncodedBy       string `json:"encodedby,omitempty"`
	EncoderSettings string `json:"encodersettings,omitempty"`

	Gapless bool `json:"gapless,omitempty"`

	// External identifiers
	MusicBrainzRecordingID    string   `json:"musicbrainz_recordingid,omitempty"`
	MusicBrainzTrackID        string   `json:"musicbrainz_trackid,omitempty"`
	MusicBrainzAlbumID        string   `json:"musicbrainz_albumid,omitempty"`
	MusicBrainzArtistIDs      []string `json:"musicbrainz_artistid,omitempty"`
	MusicBrainzAlbumArtistIDs []string `json:"musicbrainz_albumartistid,omitempty"`
	MusicBrainzReleaseGroupID string   `json:"musicbrainz_releasegroupid,omitempty"`
	MusicBrainzWorkID         string   `json:"musicbrainz_workid,omitempty"`
	MusicBrainzDiscID         string   `json:"musicbrainz_discid,omitempty"`
	MusicBrainzTRMID          string   `json:"musicbrainz_trmid,omitempty"`
	AcoustIDID                string   `json:"acoustid_id,omitempty"`
	AcoustIDFingerprint       string   `json:"acoustid_fingerprint,omitempty"`
	MusicIPPUID               string   `json:"musicip_puid,omitempty"`

	// Loudness normalization
	ReplayGainTrackGain *GainValue      `json:"replaygain_track_gain,omitempty"`
	ReplayGainTrackPeak *GainValue      `json:"replaygain_track_peak,omitempty"`
	ReplayGainAlbumGain *GainValue      `json:"replaygain_album_gain,omitempty"`
	ReplayGainAlbumPeak *GainValue      `json:"replaygain_album_peak,omitempty"`
	ReplayGainUndo      *ReplayGainUndo `json:"replaygain_undo,omitempty"`
}

// PrimaryPicture returns the best cover image: the first front cover if one
// exists, otherwise the first picture. Returns nil when there are none.
func (t *Tags) PrimaryPicture() *Picture {
	for i := range t.Pictures {
		if t.Pictures[i].Type == PictureFrontCover {
			return &t.Pictures[i]
		}
	}
	if len(t.Pictures) > 0 {
		return &t.Pictures[0]
	}
	return nil
}

// DisplayArtist returns the most specific artist credit available.
func (t *Tags) DisplayArtist() string {
	if t.Artist != "" {
		return t.Artist
	}
	if len(t.Artists) > 0 {
		return t.Artists[0]
	}
	return t.AlbumArtist
}
