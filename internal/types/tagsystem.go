package types

// TagSystem names a metadata encoding found inside a container. Native tags
// are grouped under exactly these names; the set is closed.
type TagSystem string

const (
	SystemID3v1    TagSystem = "ID3v1"
	SystemID3v22   TagSystem = "ID3v2.2"
	SystemID3v23   TagSystem = "ID3v2.3"
	SystemID3v24   TagSystem = "ID3v2.4"
	SystemAPEv2    TagSystem = "APEv2"
	SystemVorbis   TagSystem = "vorbis"
	SystemITunes   TagSystem = "iTunes"
	SystemASF      TagSystem = "asf"
	SystemRIFF     TagSystem = "RIFF"
	SystemAIFF     TagSystem = "AIFF"
	SystemMatroska TagSystem = "matroska"
)
