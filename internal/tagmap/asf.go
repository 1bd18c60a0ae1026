package tagmap

// asfTable maps ASF content descriptors and extended content descriptors.
// "Title", "Author", "Copyright" and "Description" come from the fixed
// Content Description object; the WM/ names from the extended one.
var asfTable = map[string]Mapping{
	"Title":          {Field: FieldTitle, Coerce: Trim},
	"Author":         {Field: FieldArtist, Coerce: Trim},
	"Copyright":      {Field: FieldCopyright, Coerce: Trim},
	"Description":    {Field: FieldComment, Coerce: Trim},
	"WM/AlbumArtist": {Field: FieldAlbumArtist, Coerce: Trim},
	"WM/AlbumTitle":  {Field: FieldAlbum, Coerce: Trim},
	"WM/ARTISTS":     {Field: FieldArtists, Coerce: Trim},

	"WM/Year":                {Field: FieldYear, Coerce: ToInt},
	"WM/OriginalReleaseTime": {Field: FieldOriginalDate, Coerce: ParseDate},
	"WM/OriginalReleaseYear": {Field: FieldOriginalYear, Coerce: ToInt},

	"WM/TrackNumber": {Field: FieldTrack, Coerce: SplitTrackOfTotal},
	"WM/PartOfSet":   {Field: FieldDisk, Coerce: SplitTrackOfTotal},

	"WM/Genre":   {Field: FieldGenre, Coerce: GenreWithRefs},
	"WM/GenreID": {Field: FieldGenre, Coerce: GenreWithRefs},
	"WM/Lyrics":  {Field: FieldLyrics, Coerce: Trim},
	"WM/Picture": {Field: FieldPicture, Coerce: PictureFromAPIC},

	"WM/TitleSortOrder":       {Field: FieldTitleSort, Coerce: Trim},
	"WM/ArtistSortOrder":      {Field: FieldArtistSort, Coerce: Trim},
	"WM/AlbumArtistSortOrder": {Field: FieldAlbumArtistSort, Coerce: Trim},
	"WM/AlbumSortOrder":       {Field: FieldAlbumSort, Coerce: Trim},

	"WM/ContentGroupDescription": {Field: FieldGrouping, Coerce: Trim},
	"WM/SubTitle":                {Field: FieldSubtitle, Coerce: Trim},
	"WM/SetSubTitle":             {Field: FieldDiscSubtitle, Coerce: Trim},
	"WM/PartOfACompilation":      {Field: FieldCompilation, Coerce: Identity},

	"WM/Composer":   {Field: FieldComposer, Coerce: Trim},
	"WM/Writer":     {Field: FieldLyricist, Coerce: Trim},
	"WM/Conductor":  {Field: FieldConductor, Coerce: Trim},
	"WM/ModifiedBy": {Field: FieldRemixer, Coerce: Trim},
	"WM/Engineer":   {Field: FieldEngineer, Coerce: Trim},
	"WM/Producer":   {Field: FieldProducer, Coerce: Trim},
	"WM/DJMixer":    {Field: FieldDJMixer, Coerce: Trim},
	"WM/Mixer":      {Field: FieldMixer, Coerce: Trim},

	"WM/SharedUserRating": {Field: FieldRating, Coerce: RatingPOPM},

	"WM/BeatsPerMinute": {Field: FieldBPM, Coerce: ToFloat},
	"WM/InitialKey":     {Field: FieldKey, Coerce: Trim},
	"WM/Mood":           {Field: FieldMood, Coerce: Trim},
	"WM/Media":          {Field: FieldMedia, Coerce: Trim},

	"WM/Publisher":        {Field: FieldLabel, Coerce: Trim},
	"WM/CatalogNo":        {Field: FieldCatalogNumber, Coerce: Trim},
	"WM/Barcode":          {Field: FieldBarcode, Coerce: Trim},
	"WM/ISRC":             {Field: FieldISRC, Coerce: Trim},
	"WM/Language":         {Field: FieldLanguage, Coerce: Trim},
	"WM/EncodedBy":        {Field: FieldEncodedBy, Coerce: Trim},
	"WM/EncodingSettings": {Field: FieldEncoderSettings, Coerce: Trim},

	"MusicBrainz/Track Id":              {Field: FieldMusicBrainzRecordingID, Coerce: Trim},
	"MusicBrainz/Release Track Id":      {Field: FieldMusicBrainzTrackID, Coerce: Trim},
	"MusicBrainz/Album Id":              {Field: FieldMusicBrainzAlbumID, Coerce: Trim},
	"MusicBrainz/Artist Id":             {Field: FieldMusicBrainzArtistID, Coerce: Trim},
	"MusicBrainz/Album Artist Id":       {Field: FieldMusicBrainzAlbumArtistID, Coerce: Trim},
	"MusicBrainz/Release Group Id":      {Field: FieldMusicBrainzReleaseGroup, Coerce: Trim},
	"MusicBrainz/Work Id":               {Field: FieldMusicBrainzWorkID, Coerce: Trim},
	"MusicBrainz/Disc Id":               {Field: FieldMusicBrainzDiscID, Coerce: Trim},
	"MusicBrainz/TRM Id":                {Field: FieldMusicBrainzTRMID, Coerce: Trim},
	"MusicBrainz/Album Status":          {Field: FieldReleaseStatus, Coerce: Trim},
	"MusicBrainz/Album Type":            {Field: FieldReleaseType, Coerce: SplitOnChar, Sep: "/"},
	"MusicBrainz/Album Release Country": {Field: FieldReleaseCountry, Coerce: Trim},
	"Acoustid/Id":                       {Field: FieldAcoustIDID, Coerce: Trim},
	"Acoustid/Fingerprint":              {Field: FieldAcoustIDFingerprint, Coerce: Trim},
	"MusicIP/PUID":                      {Field: FieldMusicIPPUID, Coerce: Trim},

	"replaygain_track_gain": {Field: FieldReplayGainTrackGain, Coerce: RatioFromDB},
	"replaygain_track_peak": {Field: FieldReplayGainTrackPeak, Coerce: DBFromRatio},
	"replaygain_album_gain": {Field: FieldReplayGainAlbumGain, Coerce: RatioFromDB},
	"replaygain_album_peak": {Field: FieldReplayGainAlbumPeak, Coerce: DBFromRatio},
}
