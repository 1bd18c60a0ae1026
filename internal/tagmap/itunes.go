package tagmap

// itunesTable maps MP4 ilst atom names. The decoder emits freeform atoms
// ("----") under "----:mean:name" compound ids, binary trkn/disk atoms as
// pre-split PartOfSet values, and gnre as the resolved genre name.
var itunesTable = map[string]Mapping{
	"\xa9nam": {Field: FieldTitle, Coerce: Trim},
	"\xa9ART": {Field: FieldArtist, Coerce: Trim},
	"aART":    {Field: FieldAlbumArtist, Coerce: Trim},
	"\xa9alb": {Field: FieldAlbum, Coerce: Trim},
	"\xa9day": {Field: FieldDate, Coerce: ParseDate},

	"trkn": {Field: FieldTrack, Coerce: SplitTrackOfTotal},
	"disk": {Field: FieldDisk, Coerce: SplitTrackOfTotal},

	"\xa9gen": {Field: FieldGenre, Coerce: GenreWithRefs},
	"gnre":    {Field: FieldGenre, Coerce: GenreWithRefs},
	"\xa9cmt": {Field: FieldComment, Coerce: Trim},
	"\xa9lyr": {Field: FieldLyrics, Coerce: Trim},
	"covr":    {Field: FieldPicture, Coerce: PictureFromAPIC},

	"sonm": {Field: FieldTitleSort, Coerce: Trim},
	"soar": {Field: FieldArtistSort, Coerce: Trim},
	"soaa": {Field: FieldAlbumArtistSort, Coerce: Trim},
	"soal": {Field: FieldAlbumSort, Coerce: Trim},
	"soco": {Field: FieldComposerSort, Coerce: Trim},

	"\xa9wrk": {Field: FieldWork, Coerce: Trim},
	"\xa9grp": {Field: FieldGrouping, Coerce: Trim},
	"cpil":    {Field: FieldCompilation, Coerce: ToInt},
	"\xa9wrt": {Field: FieldComposer, Coerce: Trim},
	"tmpo":    {Field: FieldBPM, Coerce: ToFloat},
	"cprt":    {Field: FieldCopyright, Coerce: Trim},
	"\xa9too": {Field: FieldEncodedBy, Coerce: Trim},
	"\xa9enc": {Field: FieldEncodedBy, Coerce: Trim},
	"rate":    {Field: FieldRating, Coerce: RatingPOPM},
	"pgap":    {Field: FieldGapless, Coerce: ToInt},

	// Television atoms
	"tvsh": {Field: FieldTVShow, Coerce: Trim},
	"sosn": {Field: FieldTVShowSort, Coerce: Trim},
	"tvsn": {Field: FieldTVSeason, Coerce: ToInt},
	"tves": {Field: FieldTVEpisode, Coerce: ToInt},
	"tven": {Field: FieldTVEpisodeID, Coerce: Trim},
	"tvnn": {Field: FieldTVNetwork, Coerce: Trim},

	// Podcast atoms
	"pcst": {Field: FieldPodcast, Coerce: ToInt},
	"purl": {Field: FieldPodcastURL, Coerce: Trim},
	"catg": {Field: FieldPodcastCategory, Coerce: Trim},
	"keyw": {Field: FieldPodcastKeywords, Coerce: Trim},
	"egid": {Field: FieldPodcastID, Coerce: Trim},

	// Freeform atoms as MusicBrainz Picard writes them
	"----:com.apple.iTunes:ARTISTS":                           {Field: FieldArtists, Coerce: Trim},
	"----:com.apple.iTunes:Acoustid Id":                       {Field: FieldAcoustIDID, Coerce: Trim},
	"----:com.apple.iTunes:Acoustid Fingerprint":              {Field: FieldAcoustIDFingerprint, Coerce: Trim},
	"----:com.apple.iTunes:MusicBrainz Track Id":              {Field: FieldMusicBrainzRecordingID, Coerce: Trim},
	"----:com.apple.iTunes:MusicBrainz Release Track Id":      {Field: FieldMusicBrainzTrackID, Coerce: Trim},
	"----:com.apple.iTunes:MusicBrainz Album Id":              {Field: FieldMusicBrainzAlbumID, Coerce: Trim},
	"----:com.apple.iTunes:MusicBrainz Artist Id":             {Field: FieldMusicBrainzArtistID, Coerce: Trim},
	"----:com.apple.iTunes:MusicBrainz Album Artist Id":       {Field: FieldMusicBrainzAlbumArtistID, Coerce: Trim},
	"----:com.apple.iTunes:MusicBrainz Release Group Id":      {Field: FieldMusicBrainzReleaseGroup, Coerce: Trim},
	"----:com.apple.iTunes:MusicBrainz Work Id":               {Field: FieldMusicBrainzWorkID, Coerce: Trim},
	"----:com.apple.iTunes:MusicBrainz Disc Id":               {Field: FieldMusicBrainzDiscID, Coerce: Trim},
	"----:com.apple.iTunes:MusicBrainz TRM Id":                {Field: FieldMusicBrainzTRMID, Coerce: Trim},
	"----:com.apple.iTunes:MusicBrainz Album Status":          {Field: FieldReleaseStatus, Coerce: Trim},
	"----:com.apple.iTunes:MusicBrainz Album Type":            {Field: FieldReleaseType, Coerce: SplitOnChar, Sep: "/"},
	"----:com.apple.iTunes:MusicBrainz Album Release Country": {Field: FieldReleaseCountry, Coerce: Trim},
	"----:com.apple.iTunes:MusicIP PUID":                      {Field: FieldMusicIPPUID, Coerce: Trim},
	"----:com.apple.iTunes:SCRIPT":                            {Field: FieldScript, Coerce: Trim},
	"----:com.apple.iTunes:LANGUAGE":                          {Field: FieldLanguage, Coerce: Trim},
	"----:com.apple.iTunes:BARCODE":                           {Field: FieldBarcode, Coerce: Trim},
	"----:com.apple.iTunes:CATALOGNUMBER":                     {Field: FieldCatalogNumber, Coerce: Trim},
	"----:com.apple.iTunes:LABEL":                             {Field: FieldLabel, Coerce: Trim},
	"----:com.apple.iTunes:ISRC":                              {Field: FieldISRC, Coerce: Trim},
	"----:com.apple.iTunes:LICENSE":                           {Field: FieldLicense, Coerce: Trim},
	"----:com.apple.iTunes:CONDUCTOR":                         {Field: FieldConductor, Coerce: Trim},
	"----:com.apple.iTunes:REMIXER":                           {Field: FieldRemixer, Coerce: Trim},
	"----:com.apple.iTunes:ENGINEER":                          {Field: FieldEngineer, Coerce: Trim},
	"----:com.apple.iTunes:PRODUCER":                          {Field: FieldProducer, Coerce: Trim},
	"----:com.apple.iTunes:LYRICIST":                          {Field: FieldLyricist, Coerce: Trim},
	"----:com.apple.iTunes:MOOD":                              {Field: FieldMood, Coerce: Trim},
	"----:com.apple.iTunes:MEDIA":                             {Field: FieldMedia, Coerce: Trim},
	"----:com.apple.iTunes:SUBTITLE":                          {Field: FieldSubtitle, Coerce: Trim},
	"----:com.apple.iTunes:DISCSUBTITLE":                      {Field: FieldDiscSubtitle, Coerce: Trim},
	"----:com.apple.iTunes:initialkey":                        {Field: FieldKey, Coerce: Trim},
	"----:com.apple.iTunes:originaldate":                      {Field: FieldOriginalDate, Coerce: ParseDate},
	"----:com.apple.iTunes:originalyear":                      {Field: FieldOriginalYear, Coerce: ToInt},
	"----:com.apple.iTunes:replaygain_track_gain":             {Field: FieldReplayGainTrackGain, Coerce: RatioFromDB},
	"----:com.apple.iTunes:replaygain_track_peak":             {Field: FieldReplayGainTrackPeak, Coerce: DBFromRatio},
	"----:com.apple.iTunes:replaygain_album_gain":             {Field: FieldReplayGainAlbumGain, Coerce: RatioFromDB},
	"----:com.apple.iTunes:replaygain_album_peak":             {Field: FieldReplayGainAlbumPeak, Coerce: DBFromRatio},
}
