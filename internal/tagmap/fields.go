package tagmap

// Common field names, the keys mapping rows point at. The collector folds
// values into the Tags struct by these names; they are also the IDs used
// in common-scope observer updates.
const (
	FieldTitle       = "title"
	FieldArtist      = "artist"
	FieldArtists     = "artists"
	FieldAlbumArtist = "albumartist"
	FieldAlbum       = "album"

	FieldYear         = "year"
	FieldDate         = "date"
	FieldOriginalDate = "originaldate"
	FieldOriginalYear = "originalyear"
	FieldReleaseDate  = "releasedate"

	FieldTrack      = "track"
	FieldTrackTotal = "tracktotal"
	FieldDisk       = "disk"
	FieldDiskTotal  = "disktotal"

	FieldGenre   = "genre"
	FieldPicture = "picture"
	FieldComment = "comment"
	FieldLyrics  = "lyrics"

	FieldTitleSort       = "titlesort"
	FieldArtistSort      = "artistsort"
	FieldAlbumArtistSort = "albumartistsort"
	FieldAlbumSort       = "albumsort"
	FieldComposerSort    = "composersort"

	FieldWork         = "work"
	FieldGrouping     = "grouping"
	FieldSubtitle     = "subtitle"
	FieldDiscSubtitle = "discsubtitle"
	FieldCompilation  = "compilation"

	FieldComposer  = "composer"
	FieldLyricist  = "lyricist"
	FieldWriter    = "writer"
	FieldConductor = "conductor"
	FieldRemixer   = "remixer"
	FieldArranger  = "arranger"
	FieldEngineer  = "engineer"
	FieldProducer  = "producer"
	FieldDJMixer   = "djmixer"
	FieldMixer     = "mixer"
	FieldPerformer = "performer"

	FieldRating = "rating"

	FieldBPM   = "bpm"
	FieldKey   = "key"
	FieldMood  = "mood"
	FieldMedia = "media"

	FieldLabel         = "label"
	FieldCatalogNumber = "catalognumber"
	FieldBarcode       = "barcode"
	FieldISRC          = "isrc"

	FieldTVShow      = "tvShow"
	FieldTVShowSort  = "tvShowSort"
	FieldTVSeason    = "tvSeason"
	FieldTVEpisode   = "tvEpisode"
	FieldTVEpisodeID = "tvEpisodeId"
	FieldTVNetwork   = "tvNetwork"

	FieldPodcast         = "podcast"
	FieldPodcastID       = "podcastId"
	FieldPodcastURL      = "podcasturl"
	FieldPodcastCategory = "category"
	FieldPodcastKeywords = "keywords"

	FieldReleaseStatus  = "releasestatus"
	FieldReleaseType    = "releasetype"
	FieldReleaseCountry = "releasecountry"
	FieldScript         = "script"
	FieldLanguage       = "language"

	FieldCopyright = "copyright"
	FieldLicense   = "license"

	FieldEncodedBy       = "encodedby"
	FieldEncoderSettings = "encodersettings"

	FieldGapless = "gapless"

	FieldMusicBrainzRecordingID   = "musicbrainz_recordingid"
	FieldMusicBrainzTrackID       = "musicbrainz_trackid"
	FieldMusicBrainzAlbumID       = "musicbrainz_albumid"
	FieldMusicBrainzArtistID      = "musicbrainz_artistid"
	FieldMusicBrainzAlbumArtistID = "musicbrainz_albumartistid"
	FieldMusicBrainzReleaseGroup  = "musicbrainz_releasegroupid"
	FieldMusicBrainzWorkID        = "musicbrainz_workid"
	FieldMusicBrainzDiscID        = "musicbrainz_discid"
	FieldMusicBrainzTRMID         = "musicbrainz_trmid"
	FieldAcoustIDID               = "acoustid_id"
	FieldAcoustIDFingerprint      = "acoustid_fingerprint"
	FieldMusicIPPUID              = "musicip_puid"

	FieldReplayGainTrackGain = "replaygain_track_gain"
	FieldReplayGainTrackPeak = "replaygain_track_peak"
	FieldReplayGainAlbumGain = "replaygain_album_gain"
	FieldReplayGainAlbumPeak = "replaygain_album_peak"
	FieldReplayGainUndo      = "replaygain_undo"
)
