package tagmap

// apeTable maps APEv2 item keys. APE keys are case-insensitive; lookups go
// through the case-folded index. Canonical casing below follows the APEv2
// key recommendations plus the MusicBrainz Picard additions.
var apeTable = map[string]Mapping{
	"Title":        {Field: FieldTitle, Coerce: Trim},
	"Subtitle":     {Field: FieldSubtitle, Coerce: Trim},
	"Artist":       {Field: FieldArtist, Coerce: Trim},
	"Artists":      {Field: FieldArtists, Coerce: Trim},
	"Album Artist": {Field: FieldAlbumArtist, Coerce: Trim},
	"Album":        {Field: FieldAlbum, Coerce: Trim},

	"Year": {Field: FieldDate, Coerce: ParseDate},

	"Track": {Field: FieldTrack, Coerce: SplitTrackOfTotal},
	"Disc":  {Field: FieldDisk, Coerce: SplitTrackOfTotal},

	"Genre":   {Field: FieldGenre, Coerce: GenreWithRefs},
	"Comment": {Field: FieldComment, Coerce: Trim},
	"Lyrics":  {Field: FieldLyrics, Coerce: Trim},

	"Cover Art (Front)": {Field: FieldPicture, Coerce: PictureFromAPIC},
	"Cover Art (Back)":  {Field: FieldPicture, Coerce: PictureFromAPIC},

	"TITLESORT":       {Field: FieldTitleSort, Coerce: Trim},
	"ARTISTSORT":      {Field: FieldArtistSort, Coerce: Trim},
	"ALBUMARTISTSORT": {Field: FieldAlbumArtistSort, Coerce: Trim},
	"ALBUMSORT":       {Field: FieldAlbumSort, Coerce: Trim},
	"COMPOSERSORT":    {Field: FieldComposerSort, Coerce: Trim},

	"Work":         {Field: FieldWork, Coerce: Trim},
	"Grouping":     {Field: FieldGrouping, Coerce: Trim},
	"DiscSubtitle": {Field: FieldDiscSubtitle, Coerce: Trim},
	"Compilation":  {Field: FieldCompilation, Coerce: ToInt},

	"Composer":  {Field: FieldComposer, Coerce: Trim},
	"Lyricist":  {Field: FieldLyricist, Coerce: Trim},
	"Writer":    {Field: FieldWriter, Coerce: Trim},
	"Conductor": {Field: FieldConductor, Coerce: Trim},
	"MixArtist": {Field: FieldRemixer, Coerce: Trim},
	"Arranger":  {Field: FieldArranger, Coerce: Trim},
	"Engineer":  {Field: FieldEngineer, Coerce: Trim},
	"Producer":  {Field: FieldProducer, Coerce: Trim},
	"DJMixer":   {Field: FieldDJMixer, Coerce: Trim},
	"Mixer":     {Field: FieldMixer, Coerce: Trim},
	"Performer": {Field: FieldPerformer, Coerce: Trim},

	"BPM":   {Field: FieldBPM, Coerce: ToFloat},
	"Key":   {Field: FieldKey, Coerce: Trim},
	"Mood":  {Field: FieldMood, Coerce: Trim},
	"Media": {Field: FieldMedia, Coerce: Trim},

	"Label":         {Field: FieldLabel, Coerce: Trim},
	"CatalogNumber": {Field: FieldCatalogNumber, Coerce: Trim},
	"Barcode":       {Field: FieldBarcode, Coerce: Trim},
	"ISRC":          {Field: FieldISRC, Coerce: Trim},
	"Language":      {Field: FieldLanguage, Coerce: Trim},

	"MUSICBRAINZ_ALBUMSTATUS": {Field: FieldReleaseStatus, Coerce: Trim},
	"MUSICBRAINZ_ALBUMTYPE":   {Field: FieldReleaseType, Coerce: SplitOnChar, Sep: "/"},
	"RELEASECOUNTRY":          {Field: FieldReleaseCountry, Coerce: Trim},
	"SCRIPT":                  {Field: FieldScript, Coerce: Trim},

	"Copyright":       {Field: FieldCopyright, Coerce: Trim},
	"LICENSE":         {Field: FieldLicense, Coerce: Trim},
	"EncodedBy":       {Field: FieldEncodedBy, Coerce: Trim},
	"EncoderSettings": {Field: FieldEncoderSettings, Coerce: Trim},

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
	"MP3GAIN_UNDO":          {Field: FieldReplayGainUndo, Coerce: Trim},
}
