package mpeg

// Bitrates in kbit/s indexed by the 4-bit header field. Index 0 means
// free-format and index 15 is forbidden; both reject the frame. MPEG 2
// and 2.5 share tables, as do their layers II and III.
var (
	bitratesV1L1 = [16]int{0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448}
	bitratesV1L2 = [16]int{0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384}
	bitratesV1L3 = [16]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320}
	bitratesV2L1 = [16]int{0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256}
	bitratesV2L2 = [16]int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160}
)

// Sample rates in Hz indexed by the 2-bit header field.
var (
	ratesV1  = [4]int{44100, 48000, 32000, 0}
	ratesV2  = [4]int{22050, 24000, 16000, 0}
	ratesV25 = [4]int{11025, 12000, 8000, 0}
)

// Raw values of the 2-bit version field.
const (
	version25       = 0
	versionReserved = 1
	version2        = 2
	version1        = 3
)

const channelModeMono = 3

// frameHeader is one decoded 4-byte MPEG audio frame header.
type frameHeader struct {
	version     byte // raw 2-bit field
	layer       int  // 1..3
	bitrate     int  // bits per second
	sampleRate  int
	channelMode byte
	channels    int
	samples     int // samples the frame decodes to
	length      int // full frame length in bytes, header included
}

// parseFrameHeader validates a candidate header and derives the frame
// facts. ok is false for anything that cannot start a real frame: bad
// sync, reserved fields, free-format or forbidden bitrate indexes.
func parseFrameHeader(hdr uint32) (frameHeader, bool) {
	if hdr&0xFFE00000 != 0xFFE00000 {
		return frameHeader{}, false
	}
	version := byte(hdr >> 19 & 0x3)
	if version == versionReserved {
		return frameHeader{}, false
	}
	layerBits := int(hdr >> 17 & 0x3)
	if layerBits == 0 {
		return frameHeader{}, false
	}
	layer := 4 - layerBits

	bitrateIdx := hdr >> 12 & 0xF
	if bitrateIdx == 0 || bitrateIdx == 15 {
		return frameHeader{}, false
	}
	rateIdx := hdr >> 10 & 0x3
	if rateIdx == 3 {
		return frameHeader{}, false
	}
	if hdr&0x3 == 2 { // reserved emphasis
		return frameHeader{}, false
	}

	h := frameHeader{version: version, layer: layer}

	switch {
	case version == version1 && layer == 1:
		h.bitrate = bitratesV1L1[bitrateIdx] * 1000
	case version == version1 && layer == 2:
		h.bitrate = bitratesV1L2[bitrateIdx] * 1000
	case version == version1:
		h.bitrate = bitratesV1L3[bitrateIdx] * 1000
	case layer == 1:
		h.bitrate = bitratesV2L1[bitrateIdx] * 1000
	default:
		h.bitrate = bitratesV2L2[bitrateIdx] * 1000
	}

	switch version {
	case version1:
		h.sampleRate = ratesV1[rateIdx]
	case version2:
		h.sampleRate = ratesV2[rateIdx]
	default:
		h.sampleRate = ratesV25[rateIdx]
	}

	h.channelMode = byte(hdr >> 6 & 0x3)
	h.channels = 2
	if h.channelMode == channelModeMono {
		h.channels = 1
	}

	switch {
	case layer == 1:
		h.samples = 384
	case layer == 2 || version == version1:
		h.samples = 1152
	default:
		h.samples = 576 // MPEG 2/2.5 layer III
	}

	padding := 0
	if hdr>>9&1 == 1 {
		padding = 1
	}
	// Layer I frames are measured in 4-byte slots; the slot count
	// truncates before scaling. Other layers count bytes directly.
	if layer == 1 {
		h.length = (12*h.bitrate/h.sampleRate + padding) * 4
	} else {
		h.length = h.samples/8*h.bitrate/h.sampleRate + padding
	}

	return h, true
}

// sameStream reports whether a later header plausibly belongs to the same
// audio stream. Bitrate and padding change frame to frame in VBR files;
// version, layer, and sample rate do not.
func (h frameHeader) sameStream(o frameHeader) bool {
	return h.version == o.version && h.layer == o.layer && h.sampleRate == o.sampleRate
}

// codec renders the header as a codec name like "MPEG 1 Layer 3".
func (h frameHeader) codec() string {
	ver := "1"
	switch h.version {
	case version2:
		ver = "2"
	case version25:
		ver = "2.5"
	}
	return "MPEG " + ver + " Layer " + [4]string{"", "1", "2", "3"}[h.layer]
}

// sideInfoSize returns the byte length of the layer III side information
// between the frame header and any Xing block.
func (h frameHeader) sideInfoSize() int {
	if h.layer != 3 {
		return 0
	}
	if h.version == version1 {
		if h.channelMode == channelModeMono {
			return 17
		}
		return 32
	}
	if h.channelMode == channelModeMono {
		return 9
	}
	return 17
}
