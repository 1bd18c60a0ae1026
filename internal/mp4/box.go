package mp4

import (
	"encoding/binary"
	"fmt"
)

// box is one atom in an in-memory box tree: 4-byte big-endian size,
// 4-byte type, then the body. A size of 1 means a 64-bit size follows
// the type; a size of 0 means the box runs to the end of its parent.
type box struct {
	typ  string
	body []byte
}

// parseBoxes splits data into its direct child boxes. On a malformed
// header the boxes decoded so far are returned alongside the error.
func parseBoxes(data []byte) ([]box, error) {
	var out []box
	off := 0
	for off+8 <= len(data) {
		size := int64(binary.BigEndian.Uint32(data[off:]))
		typ := string(data[off+4 : off+8])
		headerLen := int64(8)
		switch size {
		case 0:
			size = int64(len(data) - off)
		case 1:
			if off+16 > len(data) {
				return out, fmt.Errorf("box %q extended size truncated", typ)
			}
			ext := binary.BigEndian.Uint64(data[off+8:])
			if ext > uint64(len(data)-off) {
				return out, fmt.Errorf("box %q size %d runs past its parent", typ, ext)
			}
			size = int64(ext)
			headerLen = 16
		}
		if size < headerLen || size > int64(len(data)-off) {
			return out, fmt.Errorf("box %q size %d runs past its parent", typ, size)
		}
		out = append(out, box{typ: typ, body: data[off+int(headerLen) : off+int(size)]})
		off += int(size)
	}
	return out, nil
}

// findBox returns the body of the first box with the given type.
func findBox(boxes []box, typ string) ([]byte, bool) {
	for _, b := range boxes {
		if b.typ == typ {
			return b.body, true
		}
	}
	return nil, false
}

// fullBoxBody strips the 4-byte version+flags preamble of a full box.
func fullBoxBody(body []byte) []byte {
	if len(body) < 4 {
		return nil
	}
	return body[4:]
}
