package ogg

import (
	"encoding/binary"
	"fmt"

	"github.com/audioprobe/audioprobe/internal/types"
	"github.com/audioprobe/audioprobe/tokenizer"
)

// Page header type flags.
const (
	flagContinued = 0x01
	flagFirstPage = 0x02
	flagLastPage  = 0x04
)

const pageHeaderSize = 27

// page is one Ogg page: the fixed header, its lacing values, and the
// payload. data is nil when the payload was skipped rather than buffered.
type page struct {
	headerType byte
	granule    int64
	serial     uint32
	sequence   uint32
	segments   []byte
	data       []byte
}

// readPage decodes the page at the tokenizer's position. With keepData
// false the payload is discarded, which is all the tail walk needs.
func readPage(tok *tokenizer.Tokenizer, keepData bool) (page, error) {
	start := tok.Pos()
	var hdr [pageHeaderSize]byte
	if err := tok.ReadFull(hdr[:]); err != nil {
		return page{}, err
	}
	if string(hdr[0:4]) != "OggS" {
		return page{}, types.NewDecodeError("ogg", "missing OggS capture pattern", start)
	}
	if hdr[4] != 0 {
		return page{}, types.NewDecodeError("ogg", fmt.Sprintf("unsupported page version %d", hdr[4]), start)
	}
	p := page{
		headerType: hdr[5],
		granule:    int64(binary.LittleEndian.Uint64(hdr[6:14])),
		serial:     binary.LittleEndian.Uint32(hdr[14:18]),
		sequence:   binary.LittleEndian.Uint32(hdr[18:22]),
	}
	// hdr[22:26] is the page CRC; not verified.
	p.segments = make([]byte, int(hdr[26]))
	if err := tok.ReadFull(p.segments); err != nil {
		return page{}, err
	}
	size := 0
	for _, lace := range p.segments {
		size += int(lace)
	}
	if !keepData {
		return p, tok.Skip(int64(size))
	}
	data, err := tok.ReadBytes(size)
	if err != nil {
		return page{}, err
	}
	p.data = data
	return p, nil
}

// assembler folds page segments back into logical packets. A lacing value
// below 255 terminates the packet it contributes to; a page without the
// continued flag abandons any packet left open by a lost page.
type assembler struct {
	packets [][]byte
	partial []byte
}

func (a *assembler) add(p page) {
	if p.headerType&flagContinued == 0 {
		a.partial = nil
	}
	off := 0
	for _, lace := range p.segments {
		a.partial = append(a.partial, p.data[off:off+int(lace)]...)
		off += int(lace)
		if lace < 255 {
			a.packets = append(a.packets, a.partial)
			a.partial = nil
		}
	}
}

func (a *assembler) pop() ([]byte, bool) {
	if len(a.packets) == 0 {
		return nil, false
	}
	pkt := a.packets[0]
	a.packets = a.packets[1:]
	return pkt, true
}
