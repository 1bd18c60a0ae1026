package types

// Container identifies the physical container carrying the audio. Detection
// lives in internal/sniff; parsers are registered against these values.
//
//go:generate stringer -type=Container -linecomment
type Container int

const (
	// ContainerUnknown represents an unrecognized container.
	ContainerUnknown Container = iota // Unknown
	// ContainerMPEG represents raw MPEG audio streams (MP3 and friends).
	ContainerMPEG // MPEG
	// ContainerADTS represents AAC audio framed in an ADTS stream.
	ContainerADTS // ADTS
	// ContainerMP4 represents the MP4/QuickTime atom container.
	ContainerMP4 // MP4
	// ContainerASF represents the ASF/WMA object container.
	ContainerASF // ASF
	// ContainerFLAC represents native FLAC files.
	ContainerFLAC // FLAC
	// ContainerOgg represents the Ogg page container.
	ContainerOgg // Ogg
	// ContainerRIFF represents RIFF/WAVE files.
	ContainerRIFF // WAVE
	// ContainerAIFF represents AIFF and AIFF-C files.
	ContainerAIFF // AIFF
	// ContainerWavPack represents WavPack files.
	ContainerWavPack // WavPack
	// ContainerMusepack represents Musepack SV7/SV8 files.
	ContainerMusepack // Musepack
	// ContainerDSF represents Sony DSD stream files.
	ContainerDSF // DSF
	// ContainerDSDIFF represents Philips DSDIFF files.
	ContainerDSDIFF // DSDIFF
	// ContainerAPEv2 represents a standalone APEv2 tag file.
	ContainerAPEv2 // APEv2
)

// Extensions returns common file extensions for this container.
func (c Container) Extensions() []string {
	switch c {
	case ContainerMPEG:
		return []string{".mp3", ".mp2", ".m2a", ".mp1"}
	case ContainerADTS:
		return []string{".aac"}
	case ContainerMP4:
		return []string{".m4a", ".m4b", ".m4p", ".m4r", ".m4v", ".mp4"}
	case ContainerASF:
		return []string{".wma", ".wmv", ".asf"}
	case ContainerFLAC:
		return []string{".flac"}
	case ContainerOgg:
		return []string{".ogg", ".oga", ".opus", ".spx", ".ogv"}
	case ContainerRIFF:
		return []string{".wav", ".wave", ".bwf"}
	case ContainerAIFF:
		return []string{".aiff", ".aif", ".aifc"}
	case ContainerWavPack:
		return []string{".wv", ".wvp"}
	case ContainerMusepack:
		return []string{".mpc"}
	case ContainerDSF:
		return []string{".dsf"}
	case ContainerDSDIFF:
		return []string{".dff"}
	case ContainerAPEv2:
		return []string{".ape"}
	default:
		return nil
	}
}
