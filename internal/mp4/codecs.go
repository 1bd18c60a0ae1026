package mp4

import (
	"encoding/binary"

	"github.com/audioprobe/audioprobe/internal/collect"
)

// codecNames maps sample entry FourCC codes to codec names.
var codecNames = map[string]string{
	"mp4a": "AAC",
	"mhm1": "xHE-AAC",
	"mhm2": "xHE-AAC v2",

	"ac-3": "AC-3",
	"ec-3": "E-AC-3",
	"ac-4": "AC-4",

	"alac": "ALAC",
	"fLaC": "FLAC",

	"Opus": "Opus",
	"mp3 ": "MP3",
	".mp3": "MP3",
}

// aacProfiles maps AAC audio object types to profile names.
var aacProfiles = map[byte]string{
	1:  "AAC Main",
	2:  "AAC-LC",
	3:  "AAC-SSR",
	4:  "AAC-LTP",
	5:  "HE-AAC",
	6:  "AAC Scalable",
	29: "HE-AAC v2",
	42: "xHE-AAC",
}

func codecName(fourCC string) string {
	if name, ok := codecNames[fourCC]; ok {
		return name
	}
	return fourCC
}

// decodeESDS walks the elementary stream descriptor chain for the declared
// average bitrate and the AAC object type. Descriptor sizes are base-128
// varints; the chain nests ES (0x03), decoder config (0x04), and decoder
// specific info (0x05).
func decodeESDS(data []byte, col *collect.Collector) {
	pos := 0
	next := func() (tag byte, ok bool) {
		if pos >= len(data) {
			return 0, false
		}
		tag = data[pos]
		pos++
		for i := 0; i < 4 && pos < len(data); i++ {
			b := data[pos]
			pos++
			if b&0x80 == 0 {
				break
			}
		}
		return tag, true
	}

	tag, ok := next()
	if !ok || tag != 0x03 || pos+3 > len(data) {
		return
	}
	flags := data[pos+2]
	pos += 3
	if flags&0x80 != 0 { // stream dependence
		pos += 2
	}
	if flags&0x40 != 0 && pos < len(data) { // URL string
		pos += 1 + int(data[pos])
	}
	if flags&0x20 != 0 { // OCR stream
		pos += 2
	}

	tag, ok = next()
	if !ok || tag != 0x04 || pos+13 > len(data) {
		return
	}
	// objectTypeIndication, streamType, buffer size, max bitrate, avg bitrate.
	if avg := binary.BigEndian.Uint32(data[pos+9 : pos+13]); avg > 0 {
		col.SetBitrate(int(avg))
	}
	pos += 13

	tag, ok = next()
	if !ok || tag != 0x05 || pos >= len(data) {
		return
	}
	aot := data[pos] >> 3
	if aot == 31 && pos+1 < len(data) {
		// Escaped object type: 6 more bits, offset by 32.
		aot = 32 + ((data[pos]&0x7)<<3 | data[pos+1]>>5)
	}
	if profile, ok := aacProfiles[aot]; ok {
		col.SetCodecProfile(profile)
	}
}

// decodeALACCookie reads the magic cookie carried in the alac extension
// box: frame length, then per-stream coding parameters.
func decodeALACCookie(cookie []byte, col *collect.Collector) bool {
	if len(cookie) < 24 {
		return false
	}
	col.SetBitsPerSample(int(cookie[5]))
	col.SetChannels(int(cookie[9]))
	if avg := binary.BigEndian.Uint32(cookie[16:20]); avg > 0 {
		col.SetBitrate(int(avg))
	}
	if rate := binary.BigEndian.Uint32(cookie[20:24]); rate > 0 {
		col.SetSampleRate(int(rate))
	}
	return true
}
