package tagmap

// riffTable maps RIFF LIST INFO chunk ids (WAVE files).
var riffTable = map[string]Mapping{
	"INAM": {Field: FieldTitle, Coerce: Trim},
	"IART": {Field: FieldArtist, Coerce: Trim},
	"IPRD": {Field: FieldAlbum, Coerce: Trim},
	"ICMT": {Field: FieldComment, Coerce: Trim},
	"ICRD": {Field: FieldDate, Coerce: ParseDate},
	"IGNR": {Field: FieldGenre, Coerce: GenreWithRefs},
	"ICOP": {Field: FieldCopyright, Coerce: Trim},
	"IENG": {Field: FieldEngineer, Coerce: Trim},
	"ISFT": {Field: FieldEncodedBy, Coerce: Trim},
	"ITRK": {Field: FieldTrack, Coerce: SplitTrackOfTotal},
	"IPRT": {Field: FieldTrack, Coerce: SplitTrackOfTotal},
	"IMED": {Field: FieldMedia, Coerce: Trim},
	"IMUS": {Field: FieldComposer, Coerce: Trim},
	"IWRI": {Field: FieldWriter, Coerce: Trim},
	"ILNG": {Field: FieldLanguage, Coerce: Trim},
}

// aiffTable maps the IFF-family text chunks: AIFF's NAME/AUTH/ANNO/"(c) "
// ("(c) " is the copyright chunk id, space included) plus the DSDIFF
// master-information and comment chunks, which use the same framing.
var aiffTable = map[string]Mapping{
	"NAME": {Field: FieldTitle, Coerce: Trim},
	"AUTH": {Field: FieldArtist, Coerce: Trim},
	"ANNO": {Field: FieldComment, Coerce: Trim},
	"(c) ": {Field: FieldCopyright, Coerce: Trim},
	"DITI": {Field: FieldTitle, Coerce: Trim},
	"DIAR": {Field: FieldArtist, Coerce: Trim},
	"COMT": {Field: FieldComment, Coerce: Trim},
}
