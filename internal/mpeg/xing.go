package mpeg

import (
	"encoding/binary"
	"strings"
)

// Xing flag bits, in the order their fields appear.
const (
	xingFrames  = 0x1
	xingBytes   = 0x2
	xingTOC     = 0x4
	xingQuality = 0x8
)

// vbrHeader is the frame-count block a VBR encoder writes into the first
// frame: Xing (or Info, which LAME uses for CBR files) directly after the
// side information, or Fraunhofer VBRI at a fixed offset of 32 bytes past
// the header.
type vbrHeader struct {
	marker    string
	frames    uint32
	bytes     uint32
	hasFrames bool
	hasBytes  bool
	tool      string
}

// findVBRHeader looks inside the first frame for an Xing, Info, or VBRI
// block.
func findVBRHeader(frame []byte, h frameHeader) (vbrHeader, bool) {
	off := 4 + h.sideInfoSize()
	if len(frame) >= off+8 {
		switch marker := string(frame[off : off+4]); marker {
		case "Xing", "Info":
			return parseXing(frame[off:], marker), true
		}
	}
	if len(frame) >= 36+18 && string(frame[36:40]) == "VBRI" {
		return parseVBRI(frame[36:]), true
	}
	return vbrHeader{}, false
}

func parseXing(b []byte, marker string) vbrHeader {
	v := vbrHeader{marker: marker}
	flags := binary.BigEndian.Uint32(b[4:8])
	off := 8
	next := func() (uint32, bool) {
		if off+4 > len(b) {
			return 0, false
		}
		u := binary.BigEndian.Uint32(b[off:])
		off += 4
		return u, true
	}
	if flags&xingFrames != 0 {
		v.frames, v.hasFrames = next()
	}
	if flags&xingBytes != 0 {
		v.bytes, v.hasBytes = next()
	}
	if flags&xingTOC != 0 {
		off += 100
	}
	if flags&xingQuality != 0 {
		off += 4
	}
	// LAME writes a 9-byte encoder version right after the Xing fields.
	if off+9 <= len(b) {
		v.tool = encoderString(b[off : off+9])
	}
	return v
}

// parseVBRI reads the Fraunhofer block: version, delay, and quality words,
// then the byte and frame totals, all big-endian.
func parseVBRI(b []byte) vbrHeader {
	return vbrHeader{
		marker:    "VBRI",
		bytes:     binary.BigEndian.Uint32(b[10:14]),
		frames:    binary.BigEndian.Uint32(b[14:18]),
		hasFrames: true,
		hasBytes:  true,
	}
}

// encoderString salvages the printable prefix of the LAME version field.
// Anything shorter than "LAME" is noise from a non-LAME encoder.
func encoderString(b []byte) string {
	end := 0
	for end < len(b) && b[end] >= 0x20 && b[end] < 0x7F {
		end++
	}
	s := strings.TrimSpace(string(b[:end]))
	if len(s) < 4 {
		return ""
	}
	return s
}
