package asf

import "github.com/google/uuid"

// Object GUIDs from the ASF specification, in their canonical RFC 4122
// text form. On disk the first three fields are little-endian.
var (
	headerObject              = uuid.MustParse("75B22630-668E-11CF-A6D9-00AA0062CE6C")
	filePropertiesObject      = uuid.MustParse("8CABDCA1-A947-11CF-8EE4-00C00C205365")
	streamPropertiesObject    = uuid.MustParse("B7DC0791-A9B7-11CF-8EE6-00C00C205365")
	contentDescriptionObject  = uuid.MustParse("75B22633-668E-11CF-A6D9-00AA0062CE6C")
	extendedContentDescObject = uuid.MustParse("D2D0A440-E307-11D2-97F0-00A0C95EA850")
	headerExtensionObject     = uuid.MustParse("5FBF03B5-A92E-11CF-8EE3-00C00C205365")
	codecListObject           = uuid.MustParse("86D15240-311D-11D0-A3A4-00A0C90348F6")
	metadataObject            = uuid.MustParse("C5F8CBEA-5BAF-4877-8467-AA8C44FA4CCA")
	metadataLibraryObject     = uuid.MustParse("44231C94-9498-49D1-A141-1D134E457054")

	audioMediaStream = uuid.MustParse("F8699E40-5B4D-11CF-A8FD-00805F5C442B")
)

// guidFromASF reads one on-disk GUID. time-low, time-mid and time-high are
// stored little-endian; the clock and node bytes are not.
func guidFromASF(b []byte) uuid.UUID {
	var g uuid.UUID
	g[0], g[1], g[2], g[3] = b[3], b[2], b[1], b[0]
	g[4], g[5] = b[5], b[4]
	g[6], g[7] = b[7], b[6]
	copy(g[8:], b[8:16])
	return g
}
