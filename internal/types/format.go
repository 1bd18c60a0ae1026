package types

import (
	"fmt"
	"time"
)

// FormatInfo is the audio-format fact sheet assembled during a parse.
//
// Each field is set at most once; a parser re-assigning a different value
// produces a warning and the first value stays (duration refined by a full
// frame scan is the one sanctioned exception). Zero values mean "not
// reported by this container".
type FormatInfo struct {
	// Container is the precise container variant, e.g. "MPEG",
	// "M4A/mp42/isom", "Musepack, SV7", "ADTS/MPEG-4".
	Container string `json:"container,omitempty"`

	// Codec is the audio coding inside the container, e.g.
	// "MPEG 1 Layer 3", "FLAC", "AAC LC", "ALAC", "DSD".
	Codec string `json:"codec,omitempty"`

	// CodecProfile qualifies the codec, e.g. "CBR", "V2", "16-bit PCM".
	CodecProfile string `json:"codecProfile,omitempty"`

	// TagTypes lists the tag systems found, in decode order.
	TagTypes []TagSystem `json:"tagTypes,omitempty"`

	Duration        time.Duration `json:"duration,omitempty"`
	Bitrate         int           `json:"bitrate,omitempty"`    // bits per second
	SampleRate      int           `json:"sampleRate,omitempty"` // Hz
	BitsPerSample   int           `json:"bitsPerSample,omitempty"`
	Channels        int           `json:"numberOfChannels,omitempty"`
	NumberOfSamples uint64        `json:"numberOfSamples,omitempty"` // per channel (frames)

	// Lossless is true for codecs that reproduce the input bit-exactly.
	Lossless bool `json:"lossless,omitempty"`

	// Tool identifies the encoder when the file says so ("LAME 3.100").
	Tool string `json:"tool,omitempty"`

	// AudioMD5 is the decoded-audio checksum some containers embed
	// (FLAC STREAMINFO, DSDIFF). 16 bytes when present.
	AudioMD5 []byte `json:"audioMD5,omitempty"`
}

// HasTagType reports whether sys was recorded in TagTypes.
func (f *FormatInfo) HasTagType(sys TagSystem) bool {
	for _, t := range f.TagTypes {
		if t == sys {
			return true
		}
	}
	return false
}

// String returns a human-readable summary.
// Example output: "FLAC 44.1kHz 16-bit stereo lossless".
func (f FormatInfo) String() string {
	out := f.Codec
	if out == "" {
		out = f.Container
	}
	if f.SampleRate > 0 {
		out += fmt.Sprintf(" %.1fkHz", float64(f.SampleRate)/1000)
	}
	if f.BitsPerSample > 0 {
		out += fmt.Sprintf(" %d-bit", f.BitsPerSample)
	}
	if ch := channelDescription(f.Channels); ch != "" {
		out += " " + ch
	}
	if f.Lossless {
		out += " lossless"
	} else if f.Bitrate > 0 {
		out += fmt.Sprintf(" %dkbps", f.Bitrate/1000)
	}
	return out
}

// channelDescription returns a human-readable channel description.
func channelDescription(channels int) string {
	switch channels {
	case 0:
		return ""
	case 1:
		return "mono"
	case 2:
		return "stereo"
	case 4:
		return "quad"
	case 6:
		return "5.1"
	case 8:
		return "7.1"
	default:
		return fmt.Sprintf("%dch", channels)
	}
}

// IsHighRes returns true for high-resolution audio: sample rate above
// 48kHz or more than 16 bits per sample.
func (f FormatInfo) IsHighRes() bool {
	return f.SampleRate > 48000 || f.BitsPerSample > 16
}
