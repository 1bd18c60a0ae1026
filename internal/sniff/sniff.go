// Package sniff picks a container from the leading bytes of a stream.
//
// Detection never consumes input; the caller peeks a window and hands it
// over, so the chosen parser still sees the stream from byte zero. An ID3v2
// block is an envelope rather than a container: callers strip it (repeatedly
// if needed) and sniff again on what remains.
package sniff

import (
	"bytes"

	"github.com/audioprobe/audioprobe/internal/types"
)

// asfHeaderGUID identifies the ASF_Header object, first thing in any
// ASF/WMA file.
var asfHeaderGUID = []byte{
	0x30, 0x26, 0xB2, 0x75, 0x8E, 0x66, 0xCF, 0x11,
	0xA6, 0xD9, 0x00, 0xAA, 0x00, 0x62, 0xCE, 0x6C,
}

// IsID3v2 reports whether the stream starts with a plausible ID3v2 header:
// the "ID3" marker, a known major version and a well-formed syncsafe size.
func IsID3v2(head []byte) bool {
	if len(head) < 10 || string(head[:3]) != "ID3" {
		return false
	}
	major := head[3]
	if major < 2 || major > 4 {
		return false
	}
	for _, b := range head[6:10] {
		if b&0x80 != 0 {
			return false
		}
	}
	return true
}

// Detect picks the container for a stream beginning with head. The MIME
// hint only breaks ties; magic bytes always win. Returns types.ContainerUnknown
// when nothing matches.
func Detect(head []byte, mime string) types.Container {
	if c := byMagic(head); c != types.ContainerUnknown {
		return c
	}
	if c := bySyncWord(head, mime); c != types.ContainerUnknown {
		return c
	}
	return byMIME(mime)
}

// byMagic matches fixed signatures at the stream head.
func byMagic(head []byte) types.Container {
	if len(head) < 4 {
		return types.ContainerUnknown
	}

	switch string(head[:4]) {
	case "fLaC":
		return types.ContainerFLAC
	case "OggS":
		return types.ContainerOgg
	case "MPCK":
		return types.ContainerMusepack
	case "DSD ":
		return types.ContainerDSF
	case "FRM8":
		// DSDIFF is FORM-8 with a "DSD " form type.
		if len(head) < 16 || string(head[12:16]) == "DSD " {
			return types.ContainerDSDIFF
		}
		return types.ContainerUnknown
	case "wvpk":
		return types.ContainerWavPack
	case "RIFF":
		if len(head) >= 12 && string(head[8:12]) == "WAVE" {
			return types.ContainerRIFF
		}
		return types.ContainerUnknown
	case "FORM":
		if len(head) >= 12 {
			if ft := string(head[8:12]); ft == "AIFF" || ft == "AIFC" {
				return types.ContainerAIFF
			}
		}
		return types.ContainerUnknown
	}

	if string(head[:3]) == "MP+" {
		return types.ContainerMusepack
	}
	if len(head) >= 8 && string(head[4:8]) == "ftyp" {
		return types.ContainerMP4
	}
	if len(head) >= 16 && bytes.Equal(head[:16], asfHeaderGUID) {
		return types.ContainerASF
	}
	if len(head) >= 8 && string(head[:8]) == "APETAGEX" {
		return types.ContainerAPEv2
	}
	return types.ContainerUnknown
}

// bySyncWord scans the window for an MPEG or ADTS frame sync. Junk bytes
// before the first frame are common (broken rippers, stripped tags), so the
// whole peek window is searched, not just offset zero.
func bySyncWord(head []byte, mime string) types.Container {
	for i := 0; i+3 < len(head); i++ {
		if head[i] != 0xFF || head[i+1]&0xE0 != 0xE0 {
			continue
		}
		b1 := head[i+1]
		if b1&0x06 != 0 {
			// A real layer, so MPEG audio. Skip headers with reserved
			// bitrate or sample rate fields; those syncs are noise.
			if head[i+2]&0xF0 == 0xF0 || head[i+2]&0x0C == 0x0C {
				continue
			}
			return types.ContainerMPEG
		}
		if b1&0xF6 == 0xF0 {
			// Layer bits 00 under an 0xFFF sync is ADTS, unless the
			// caller insists the payload is MP3.
			if mime == "audio/mpeg" || mime == "audio/mp3" {
				return types.ContainerMPEG
			}
			return types.ContainerADTS
		}
	}
	return types.ContainerUnknown
}

// byMIME is the last resort for streams whose head matched nothing.
func byMIME(mime string) types.Container {
	switch mime {
	case "audio/mpeg", "audio/mp3":
		return types.ContainerMPEG
	case "audio/aac", "audio/aacp":
		return types.ContainerADTS
	case "audio/mp4", "audio/m4a", "audio/x-m4a", "audio/x-m4b":
		return types.ContainerMP4
	case "audio/flac", "audio/x-flac":
		return types.ContainerFLAC
	case "audio/ogg", "application/ogg", "audio/opus":
		return types.ContainerOgg
	case "audio/wav", "audio/wave", "audio/x-wav":
		return types.ContainerRIFF
	case "audio/aiff", "audio/x-aiff":
		return types.ContainerAIFF
	case "audio/x-ms-wma", "video/x-ms-asf":
		return types.ContainerASF
	case "audio/x-wavpack":
		return types.ContainerWavPack
	case "audio/x-musepack":
		return types.ContainerMusepack
	case "audio/x-dsf":
		return types.ContainerDSF
	case "audio/x-dff":
		return types.ContainerDSDIFF
	case "audio/x-monkeys-audio", "audio/x-ape":
		return types.ContainerAPEv2
	}
	return types.ContainerUnknown
}
