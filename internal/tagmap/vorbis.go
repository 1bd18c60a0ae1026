package tagmap

// vorbisTable maps Vorbis comment keys. Keys are case-insensitive per the
// Vorbis spec; Lookup's folded index catches non-canonical spellings.
// Multi-valued fields arrive as repeated comments and append naturally.
var vorbisTable = map[string]Mapping{
	"TITLE":       {Field: FieldTitle, Coerce: Trim},
	"ARTIST":      {Field: FieldArtist, Coerce: Trim},
	"ARTISTS":     {Field: FieldArtists, Coerce: Trim},
	"ALBUMARTIST": {Field: FieldAlbumArtist, Coerce: Trim},
	"ALBUM":       {Field: FieldAlbum, Coerce: Trim},

	"DATE":         {Field: FieldDate, Coerce: ParseDate},
	"ORIGINALDATE": {Field: FieldOriginalDate, Coerce: ParseDate},
	"ORIGINALYEAR": {Field: FieldOriginalYear, Coerce: ToInt},
	"RELEASEDATE":  {Field: FieldReleaseDate, Coerce: ParseDate},

	"TRACKNUMBER": {Field: FieldTrack, Coerce: SplitTrackOfTotal},
	"TRACKTOTAL":  {Field: FieldTrackTotal, Coerce: ToInt},
	"TOTALTRACKS": {Field: FieldTrackTotal, Coerce: ToInt},
	"DISCNUMBER":  {Field: FieldDisk, Coerce: SplitTrackOfTotal},
	"DISCTOTAL":   {Field: FieldDiskTotal, Coerce: ToInt},
	"TOTALDISCS":  {Field: FieldDiskTotal, Coerce: ToInt},

	"GENRE":                  {Field: FieldGenre, Coerce: GenreWithRefs},
	"COMMENT":                {Field: FieldComment, Coerce: Trim},
	"DESCRIPTION":            {Field: FieldComment, Coerce: Trim},
	"LYRICS":                 {Field: FieldLyrics, Coerce: Trim},
	"METADATA_BLOCK_PICTURE": {Field: FieldPicture, Coerce: PictureFromFLAC},
	"COVERART":               {Field: FieldPicture, Coerce: PictureFromFLAC},

	"TITLESORT":       {Field: FieldTitleSort, Coerce: Trim},
	"ARTISTSORT":      {Field: FieldArtistSort, Coerce: Trim},
	"ALBUMARTISTSORT": {Field: FieldAlbumArtistSort, Coerce: Trim},
	"ALBUMSORT":       {Field: FieldAlbumSort, Coerce: Trim},
	"COMPOSERSORT":    {Field: FieldComposerSort, Coerce: Trim},

	"WORK":         {Field: FieldWork, Coerce: Trim},
	"GROUPING":     {Field: FieldGrouping, Coerce: Trim},
	"SUBTITLE":     {Field: FieldSubtitle, Coerce: Trim},
	"DISCSUBTITLE": {Field: FieldDiscSubtitle, Coerce: Trim},
	"COMPILATION":  {Field: FieldCompilation, Coerce: ToInt},

	"COMPOSER":  {Field: FieldComposer, Coerce: Trim},
	"LYRICIST":  {Field: FieldLyricist, Coerce: Trim},
	"WRITER":    {Field: FieldWriter, Coerce: Trim},
	"CONDUCTOR": {Field: FieldConductor, Coerce: Trim},
	"REMIXER":   {Field: FieldRemixer, Coerce: Trim},
	"ARRANGER":  {Field: FieldArranger, Coerce: Trim},
	"ENGINEER":  {Field: FieldEngineer, Coerce: Trim},
	"PRODUCER":  {Field: FieldProducer, Coerce: Trim},
	"DJMIXER":   {Field: FieldDJMixer, Coerce: Trim},
	"MIXER":     {Field: FieldMixer, Coerce: Trim},
	"PERFORMER": {Field: FieldPerformer, Coerce: Trim},

	"RATING": {Field: FieldRating, Coerce: RatingPOPM},

	"BPM":   {Field: FieldBPM, Coerce: ToFloat},
	"KEY":   {Field: FieldKey, Coerce: Trim},
	"MOOD":  {Field: FieldMood, Coerce: Trim},
	"MEDIA": {Field: FieldMedia, Coerce: Trim},

	"LABEL":         {Field: FieldLabel, Coerce: Trim},
	"ORGANIZATION":  {Field: FieldLabel, Coerce: Trim},
	"CATALOGNUMBER": {Field: FieldCatalogNumber, Coerce: Trim},
	"BARCODE":       {Field: FieldBarcode, Coerce: Trim},
	"ISRC":          {Field: FieldISRC, Coerce: Trim},

	"RELEASESTATUS":  {Field: FieldReleaseStatus, Coerce: Trim},
	"RELEASETYPE":    {Field: FieldReleaseType, Coerce: Trim},
	"RELEASECOUNTRY": {Field: FieldReleaseCountry, Coerce: Trim},
	"SCRIPT":         {Field: FieldScript, Coerce: Trim},
	"LANGUAGE":       {Field: FieldLanguage, Coerce: Trim},

	"COPYRIGHT": {Field: FieldCopyright, Coerce: Trim},
	"LICENSE":   {Field: FieldLicense, Coerce: Trim},
	"ENCODEDBY": {Field: FieldEncodedBy, Coerce: Trim},
	"ENCODER":   {Field: FieldEncoderSettings, Coerce: Trim},

	"MUSICBRAINZ_TRACKID":        {Field: FieldMusicBrainzRecordingID, Coerce: Trim},
	"MUSICBRAINZ_RELEASETRACKID": {Field: FieldMusicBrainzTrackID, Coerce: Trim},
	"MUSICBRAINZ_ALBUMID":        {Field: FieldMusicBrainzAlbumID, Coerce: Trim},
	"MUSICBRAINZ_ARTISTID":       {Field: FieldMusicBrainzArtistID, Coerce: Trim},
	"MUSICBRAINZ_ALBUMARTISTID":  {Field: FieldMusicBrainzAlbumArtistID, Coerce: Trim},
	"MUSICBRAINZ_RELEASEGROUPID": {Field: FieldMusicBrainzReleaseGroup, Coerce: Trim},
	"MUSICBRAINZ_WORKID":         {Field: FieldMusicBrainzWorkID, Coerce: Trim},
	"MUSICBRAINZ_DISCID":         {Field: FieldMusicBrainzDiscID, Coerce: Trim},
	"MUSICBRAINZ_TRMID":          {Field: FieldMusicBrainzTRMID, Coerce: Trim},
	"ACOUSTID_ID":                {Field: FieldAcoustIDID, Coerce: Trim},
	"ACOUSTID_FINGERPRINT":       {Field: FieldAcoustIDFingerprint, Coerce: Trim},
	"MUSICIP_PUID":               {Field: FieldMusicIPPUID, Coerce: Trim},

	"REPLAYGAIN_TRACK_GAIN": {Field: FieldReplayGainTrackGain, Coerce: RatioFromDB},
	"REPLAYGAIN_TRACK_PEAK": {Field: FieldReplayGainTrackPeak, Coerce: DBFromRatio},
	"REPLAYGAIN_ALBUM_GAIN": {Field: FieldReplayGainAlbumGain, Coerce: RatioFromDB},
	"REPLAYGAIN_ALBUM_PEAK": {Field: FieldReplayGainAlbumPeak, Coerce: DBFromRatio},
}
