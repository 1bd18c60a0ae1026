package mp4

import (
	"encoding/binary"
	"time"

	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/flac"
	"github.com/audioprobe/audioprobe/internal/registry"
)

// decodeMoov walks the movie box: mvhd for the duration, the first audio
// trak for codec facts, and udta for iTunes metadata and chapters.
func decodeMoov(data []byte, col *collect.Collector, p registry.Params) {
	boxes, err := parseBoxes(data)
	if err != nil {
		col.Warn("mp4", 0, "moov: %v", err)
	}
	if mvhd, ok := findBox(boxes, "mvhd"); ok {
		decodeMvhd(mvhd, col)
	}

	foundAudio := false
	for _, b := range boxes {
		if b.typ == "trak" && !foundAudio {
			foundAudio = decodeTrak(b.body, col)
		}
	}
	if !foundAudio {
		col.Warn("mp4", 0, "moov has no audio track")
	}

	if udta, ok := findBox(boxes, "udta"); ok {
		children, _ := parseBoxes(udta)
		if meta, ok := findBox(children, "meta"); ok {
			metaKids, _ := parseBoxes(fullBoxBody(meta))
			if ilst, ok := findBox(metaKids, "ilst"); ok {
				decodeIlst(ilst, col, p.SkipCovers)
			}
		}
		if chpl, ok := findBox(children, "chpl"); ok {
			decodeChpl(chpl, col)
		}
	}
}

func decodeMvhd(b []byte, col *collect.Collector) {
	var timescale uint32
	var dur uint64
	switch {
	case len(b) >= 32 && b[0] == 1:
		timescale = binary.BigEndian.Uint32(b[20:24])
		dur = binary.BigEndian.Uint64(b[24:32])
	case len(b) >= 20 && b[0] == 0:
		timescale = binary.BigEndian.Uint32(b[12:16])
		dur = uint64(binary.BigEndian.Uint32(b[16:20]))
	default:
		col.Warn("mp4", 0, "mvhd box too short")
		return
	}
	if timescale > 0 && dur > 0 {
		col.SetDuration(time.Duration(float64(dur) / float64(timescale) * float64(time.Second)))
	}
}

// decodeTrak decodes one track. Reports whether this was the audio track
// that supplied the format facts.
func decodeTrak(body []byte, col *collect.Collector) bool {
	boxes, _ := parseBoxes(body)
	mdiaBody, ok := findBox(boxes, "mdia")
	if !ok {
		return false
	}
	mdia, _ := parseBoxes(mdiaBody)
	hdlr, ok := findBox(mdia, "hdlr")
	if !ok || len(hdlr) < 12 || string(hdlr[8:12]) != "soun" {
		return false
	}

	var timescale uint32
	var trackDur uint64
	if mdhd, ok := findBox(mdia, "mdhd"); ok {
		timescale, trackDur = decodeMdhd(mdhd)
	}

	rate := 0
	if minfBody, ok := findBox(mdia, "minf"); ok {
		minf, _ := parseBoxes(minfBody)
		if stblBody, ok := findBox(minf, "stbl"); ok {
			stbl, _ := parseBoxes(stblBody)
			if stsd, ok := findBox(stbl, "stsd"); ok && len(stsd) > 8 {
				entries, _ := parseBoxes(stsd[8:])
				if len(entries) > 0 {
					rate = decodeSampleEntry(entries[0], col)
				}
			}
		}
	}

	// The track duration counts media timescale units; when the
	// timescale is the sample rate each unit is one PCM frame. A codec
	// that declared its own exact count keeps it.
	if timescale > 0 && trackDur > 0 && rate > 0 && col.Result().Format.NumberOfSamples == 0 {
		samples := trackDur
		if uint32(rate) != timescale {
			samples = uint64(float64(trackDur) * float64(rate) / float64(timescale))
		}
		col.SetNumberOfSamples(samples)
	}
	return true
}

func decodeMdhd(b []byte) (timescale uint32, dur uint64) {
	switch {
	case len(b) >= 32 && b[0] == 1:
		return binary.BigEndian.Uint32(b[20:24]), binary.BigEndian.Uint64(b[24:32])
	case len(b) >= 20 && b[0] == 0:
		return binary.BigEndian.Uint32(b[12:16]), uint64(binary.BigEndian.Uint32(b[16:20]))
	}
	return 0, 0
}

// decodeSampleEntry reads the audio sample description: fixed QuickTime
// fields first, then codec-specific extension boxes. Returns the sample
// rate that ended up in the collector.
func decodeSampleEntry(entry box, col *collect.Collector) int {
	body := entry.body
	if len(body) < 28 {
		col.Warn("mp4", 0, "sample entry %q too short", entry.typ)
		return 0
	}
	version := binary.BigEndian.Uint16(body[8:10])
	channels := int(binary.BigEndian.Uint16(body[16:18]))
	bits := int(binary.BigEndian.Uint16(body[18:20]))
	rate := int(binary.BigEndian.Uint32(body[24:28]) >> 16)

	extOff := 28
	switch version {
	case 1:
		extOff = 44
	case 2:
		extOff = 64
	}
	var ext []box
	if len(body) > extOff {
		ext, _ = parseBoxes(body[extOff:])
	}
	// QuickTime version 1 entries wrap the decoder config in a wave box.
	if waveBody, ok := findBox(ext, "wave"); ok {
		if wave, err := parseBoxes(waveBody); err == nil {
			ext = append(ext, wave...)
		}
	}

	col.SetCodec(codecName(entry.typ))

	switch entry.typ {
	case "mp4a":
		col.SetSampleRate(rate)
		col.SetChannels(channels)
		if esds, ok := findBox(ext, "esds"); ok {
			decodeESDS(fullBoxBody(esds), col)
		}
	case "alac":
		col.SetLossless(true)
		cookie, ok := findBox(ext, "alac")
		if !ok || !decodeALACCookie(fullBoxBody(cookie), col) {
			col.SetSampleRate(rate)
			col.SetChannels(channels)
			col.SetBitsPerSample(bits)
		}
	case "fLaC":
		col.SetLossless(true)
		if dfla, ok := findBox(ext, "dfLa"); ok && len(dfla) >= 8+flac.StreamInfoSize {
			// Version+flags, a block header, then STREAMINFO itself.
			si := flac.ParseStreamInfo(dfla[8 : 8+flac.StreamInfoSize])
			col.SetSampleRate(si.SampleRate)
			col.SetChannels(si.Channels)
			col.SetBitsPerSample(si.BitsPerSample)
			col.SetNumberOfSamples(si.TotalSamples)
			col.SetAudioMD5(si.MD5)
			// mvhd already measured the movie; STREAMINFO only fills in
			// when the movie header was missing or zeroed.
			if !col.HasDuration() {
				col.SetDuration(si.Duration())
			}
		} else {
			col.SetSampleRate(rate)
			col.SetChannels(channels)
		}
	case "twos", "sowt", "lpcm", "raw ", "in24", "in32":
		col.SetLossless(true)
		col.SetSampleRate(rate)
		col.SetChannels(channels)
		col.SetBitsPerSample(bits)
	default:
		if rate > 0 {
			col.SetSampleRate(rate)
		}
		if channels > 0 {
			col.SetChannels(channels)
		}
	}
	return col.Result().Format.SampleRate
}
