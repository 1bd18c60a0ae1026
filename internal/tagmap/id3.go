package tagmap

// id3v1Table maps the seven fixed ID3v1 fields. The decoder resolves the
// genre index to its table name before emitting, so genre arrives as text.
var id3v1Table = map[string]Mapping{
	"title":   {Field: FieldTitle, Coerce: Trim},
	"artist":  {Field: FieldArtist, Coerce: Trim},
	"album":   {Field: FieldAlbum, Coerce: Trim},
	"year":    {Field: FieldYear, Coerce: ToInt},
	"comment": {Field: FieldComment, Coerce: Trim},
	"track":   {Field: FieldTrack, Coerce: SplitTrackOfTotal},
	"genre":   {Field: FieldGenre, Coerce: GenreWithRefs},
}

// id3v2xTable serves both ID3v2.3 and ID3v2.4. Frames exclusive to one
// minor version (TYER vs TDRC) simply never occur in the other. TXXX and
// UFID rows use the compound "FRAME:descriptor" ids the decoder emits.
var id3v2xTable = map[string]Mapping{
	// Text information frames
	"TIT1": {Field: FieldGrouping, Coerce: Trim},
	"TIT2": {Field: FieldTitle, Coerce: Trim},
	"TIT3": {Field: FieldSubtitle, Coerce: Trim},
	"TALB": {Field: FieldAlbum, Coerce: Trim},
	"TRCK": {Field: FieldTrack, Coerce: SplitTrackOfTotal},
	"TPOS": {Field: FieldDisk, Coerce: SplitTrackOfTotal},
	"TSST": {Field: FieldDiscSubtitle, Coerce: Trim},
	"TPE1": {Field: FieldArtist, Coerce: Trim},
	"TPE2": {Field: FieldAlbumArtist, Coerce: Trim},
	"TPE3": {Field: FieldConductor, Coerce: Trim},
	"TPE4": {Field: FieldRemixer, Coerce: Trim},
	"TCOM": {Field: FieldComposer, Coerce: Trim},
	"TEXT": {Field: FieldLyricist, Coerce: Trim},
	"TPUB": {Field: FieldLabel, Coerce: Trim},
	"TSRC": {Field: FieldISRC, Coerce: Trim},
	"TCON": {Field: FieldGenre, Coerce: GenreWithRefs},
	"TLAN": {Field: FieldLanguage, Coerce: Trim},
	"TCOP": {Field: FieldCopyright, Coerce: Trim},
	"TENC": {Field: FieldEncodedBy, Coerce: Trim},
	"TSSE": {Field: FieldEncoderSettings, Coerce: Trim},
	"TBPM": {Field: FieldBPM, Coerce: ToFloat},
	"TKEY": {Field: FieldKey, Coerce: Trim},
	"TMOO": {Field: FieldMood, Coerce: Trim},
	"TMED": {Field: FieldMedia, Coerce: Trim},
	"TCMP": {Field: FieldCompilation, Coerce: ToInt},
	"GRP1": {Field: FieldGrouping, Coerce: Trim},

	// Dates: v2.3 split year/date frames, v2.4 full timestamps
	"TYER": {Field: FieldYear, Coerce: ToInt},
	"TORY": {Field: FieldOriginalYear, Coerce: ToInt},
	"TDRC": {Field: FieldDate, Coerce: ParseDate},
	"TDOR": {Field: FieldOriginalDate, Coerce: ParseDate},
	"TDRL": {Field: FieldReleaseDate, Coerce: ParseDate},

	// Sort order frames (TSO2/TSOC are iTunes extensions)
	"TSOT": {Field: FieldTitleSort, Coerce: Trim},
	"TSOP": {Field: FieldArtistSort, Coerce: Trim},
	"TSOA": {Field: FieldAlbumSort, Coerce: Trim},
	"TSO2": {Field: FieldAlbumArtistSort, Coerce: Trim},
	"TSOC": {Field: FieldComposerSort, Coerce: Trim},

	// Frames with structured payloads
	"COMM": {Field: FieldComment, Coerce: Trim},
	"USLT": {Field: FieldLyrics, Coerce: Trim},
	"APIC": {Field: FieldPicture, Coerce: PictureFromAPIC},
	"POPM": {Field: FieldRating, Coerce: RatingPOPM},
	"WCOP": {Field: FieldLicense, Coerce: Trim},

	// Podcast frames (iTunes)
	"PCST": {Field: FieldPodcast, Coerce: ToInt},
	"TCAT": {Field: FieldPodcastCategory, Coerce: Trim},
	"TKWD": {Field: FieldPodcastKeywords, Coerce: Trim},
	"TGID": {Field: FieldPodcastID, Coerce: Trim},
	"WFED": {Field: FieldPodcastURL, Coerce: Trim},

	// User-defined text frames as MusicBrainz Picard writes them
	"TXXX:Acoustid Id":                       {Field: FieldAcoustIDID, Coerce: Trim},
	"TXXX:Acoustid Fingerprint":              {Field: FieldAcoustIDFingerprint, Coerce: Trim},
	"TXXX:MusicBrainz Release Track Id":      {Field: FieldMusicBrainzTrackID, Coerce: Trim},
	"TXXX:MusicBrainz Album Id":              {Field: FieldMusicBrainzAlbumID, Coerce: Trim},
	"TXXX:MusicBrainz Artist Id":             {Field: FieldMusicBrainzArtistID, Coerce: Trim},
	"TXXX:MusicBrainz Album Artist Id":       {Field: FieldMusicBrainzAlbumArtistID, Coerce: Trim},
	"TXXX:MusicBrainz Release Group Id":      {Field: FieldMusicBrainzReleaseGroup, Coerce: Trim},
	"TXXX:MusicBrainz Work Id":               {Field: FieldMusicBrainzWorkID, Coerce: Trim},
	"TXXX:MusicBrainz Disc Id":               {Field: FieldMusicBrainzDiscID, Coerce: Trim},
	"TXXX:MusicBrainz TRM Id":                {Field: FieldMusicBrainzTRMID, Coerce: Trim},
	"TXXX:MusicBrainz Album Status":          {Field: FieldReleaseStatus, Coerce: Trim},
	"TXXX:MusicBrainz Album Type":            {Field: FieldReleaseType, Coerce: SplitOnChar, Sep: "/"},
	"TXXX:MusicBrainz Album Release Country": {Field: FieldReleaseCountry, Coerce: Trim},
	"TXXX:MusicIP PUID":                      {Field: FieldMusicIPPUID, Coerce: Trim},
	"TXXX:Artists":                           {Field: FieldArtists, Coerce: SplitOnChar, Sep: ";"},
	"TXXX:SCRIPT":                            {Field: FieldScript, Coerce: Trim},
	"TXXX:BARCODE":                           {Field: FieldBarcode, Coerce: Trim},
	"TXXX:CATALOGNUMBER":                     {Field: FieldCatalogNumber, Coerce: Trim},
	"TXXX:replaygain_track_gain":             {Field: FieldReplayGainTrackGain, Coerce: RatioFromDB},
	"TXXX:replaygain_track_peak":             {Field: FieldReplayGainTrackPeak, Coerce: DBFromRatio},
	"TXXX:replaygain_album_gain":             {Field: FieldReplayGainAlbumGain, Coerce: RatioFromDB},
	"TXXX:replaygain_album_peak":             {Field: FieldReplayGainAlbumPeak, Coerce: DBFromRatio},
	"TXXX:MP3GAIN_UNDO":                      {Field: FieldReplayGainUndo, Coerce: Trim},

	// MusicBrainz recording id travels in a UFID frame
	"UFID:http://musicbrainz.org": {Field: FieldMusicBrainzRecordingID, Coerce: Trim},
}

// id3v22Table maps the three-character frame ids of ID3v2.2.
var id3v22Table = map[string]Mapping{
	"TT1": {Field: FieldGrouping, Coerce: Trim},
	"TT2": {Field: FieldTitle, Coerce: Trim},
	"TT3": {Field: FieldSubtitle, Coerce: Trim},
	"TAL": {Field: FieldAlbum, Coerce: Trim},
	"TRK": {Field: FieldTrack, Coerce: SplitTrackOfTotal},
	"TPA": {Field: FieldDisk, Coerce: SplitTrackOfTotal},
	"TP1": {Field: FieldArtist, Coerce: Trim},
	"TP2": {Field: FieldAlbumArtist, Coerce: Trim},
	"TP3": {Field: FieldConductor, Coerce: Trim},
	"TP4": {Field: FieldRemixer, Coerce: Trim},
	"TCM": {Field: FieldComposer, Coerce: Trim},
	"TXT": {Field: FieldLyricist, Coerce: Trim},
	"TPB": {Field: FieldLabel, Coerce: Trim},
	"TRC": {Field: FieldISRC, Coerce: Trim},
	"TCO": {Field: FieldGenre, Coerce: GenreWithRefs},
	"TYE": {Field: FieldYear, Coerce: ToInt},
	"TLA": {Field: FieldLanguage, Coerce: Trim},
	"TCR": {Field: FieldCopyright, Coerce: Trim},
	"TEN": {Field: FieldEncodedBy, Coerce: Trim},
	"TSS": {Field: FieldEncoderSettings, Coerce: Trim},
	"TBP": {Field: FieldBPM, Coerce: ToFloat},
	"TKE": {Field: FieldKey, Coerce: Trim},
	"TMT": {Field: FieldMedia, Coerce: Trim},
	"TCP": {Field: FieldCompilation, Coerce: ToInt},
	"TST": {Field: FieldTitleSort, Coerce: Trim},
	"TSP": {Field: FieldArtistSort, Coerce: Trim},
	"TSA": {Field: FieldAlbumSort, Coerce: Trim},
	"TS2": {Field: FieldAlbumArtistSort, Coerce: Trim},
	"TSC": {Field: FieldComposerSort, Coerce: Trim},
	"COM": {Field: FieldComment, Coerce: Trim},
	"ULT": {Field: FieldLyrics, Coerce: Trim},
	"PIC": {Field: FieldPicture, Coerce: PictureFromAPIC},
	"POP": {Field: FieldRating, Coerce: RatingPOPM},
	"PCS": {Field: FieldPodcast, Coerce: ToInt},
	"WFD": {Field: FieldPodcastURL, Coerce: Trim},
}
