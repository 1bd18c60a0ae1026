// Package mp4 parses the ISO base media container (MP4/M4A/M4B): the
// top-level box walk, the moov tree for format facts and Nero chapters,
// and the iTunes ilst metadata list.
package mp4

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/registry"
	"github.com/audioprobe/audioprobe/internal/types"
	"github.com/audioprobe/audioprobe/tokenizer"
)

// maxMoovSize caps how much of a moov box is loaded for decoding. Real
// moov trees are a few megabytes at most, covers included.
const maxMoovSize = 64 << 20

func init() {
	registry.Register(types.ContainerMP4, parser{})
}

type parser struct{}

func (parser) Parse(ctx context.Context, tok *tokenizer.Tokenizer, col *collect.Collector, p registry.Params) error {
	var (
		containerSet bool
		sawMoov      bool
		mdatSize     int64
	)

walk:
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		boxStart := tok.Pos()
		head, err := tok.ReadBytes(8)
		if err != nil {
			if !containerSet {
				return types.NewDecodeError("mp4", "file shorter than a box header", boxStart)
			}
			break
		}
		size := int64(binary.BigEndian.Uint32(head))
		typ := string(head[4:8])
		headerLen := int64(8)

		switch size {
		case 1:
			ext, err := tokenizer.ReadBE[uint64](tok, "extended box size")
			if err != nil {
				col.Warn("mp4", boxStart, "box %q extended size truncated", typ)
				break walk
			}
			if ext > math.MaxInt64 {
				return types.NewDecodeError("mp4", fmt.Sprintf("box %q has impossible size %d", typ, ext), boxStart)
			}
			size = int64(ext)
			headerLen = 16
		case 0:
			// The box runs to the end of the file.
			if total := tok.Size(); total > 0 {
				size = total - boxStart
			} else if typ == "mdat" {
				n, _ := tok.Ignore(1 << 62)
				mdatSize += n
				break walk
			} else {
				col.Warn("mp4", boxStart, "open-ended %q box on an unsized stream", typ)
				break walk
			}
		}
		if size < headerLen {
			if !containerSet {
				return types.NewDecodeError("mp4", fmt.Sprintf("box %q has impossible size %d", typ, size), boxStart)
			}
			col.Warn("mp4", boxStart, "box %q has impossible size %d, stopping", typ, size)
			break
		}
		body := size - headerLen

		if !containerSet && typ != "ftyp" {
			col.SetContainer("MP4")
			containerSet = true
		}

		switch typ {
		case "ftyp":
			n := body
			if n > 256 {
				n = 256
			}
			data, err := tok.ReadBytes(int(n))
			if err != nil {
				col.Warn("mp4", boxStart, "ftyp truncated: %v", err)
				break walk
			}
			if !containerSet {
				col.SetContainer(brandString(data))
				containerSet = true
			}
			if err := tok.Skip(body - n); err != nil {
				break walk
			}
		case "moov":
			if body > maxMoovSize {
				col.Warn("mp4", boxStart, "moov box is %d bytes, not parsed", body)
				if err := tok.Skip(body); err != nil {
					break walk
				}
				continue
			}
			data, err := tok.ReadBytes(int(body))
			if err != nil {
				col.Warn("mp4", boxStart, "moov truncated: %v", err)
				break walk
			}
			decodeMoov(data, col, p)
			sawMoov = true
			if p.SkipPostHeaders {
				break walk
			}
		case "mdat":
			n, err := tok.Ignore(body)
			mdatSize += n
			if err != nil || n < body {
				break walk
			}
		default:
			if err := tok.Skip(body); err != nil {
				col.Warn("mp4", boxStart, "box %q truncated", typ)
				break walk
			}
		}
	}

	if !sawMoov {
		col.Warn("mp4", tok.Pos(), "no moov box found")
	}
	estimateBitrate(tok, col, mdatSize)
	return nil
}

// brandString renders the ftyp brands as a container label in the
// "M4A/mp42/isom" form: the major brand, then the distinct compatible
// brands.
func brandString(ftyp []byte) string {
	clean := func(b []byte) string {
		s := strings.TrimRight(string(b), "\x00 ")
		for _, r := range s {
			if r < 0x20 || r > 0x7E {
				return ""
			}
		}
		return s
	}
	var parts []string
	add := func(s string) {
		if s == "" {
			return
		}
		for _, p := range parts {
			if p == s {
				return
			}
		}
		parts = append(parts, s)
	}
	if len(ftyp) >= 4 {
		add(clean(ftyp[0:4]))
	}
	for off := 8; off+4 <= len(ftyp) && len(parts) < 6; off += 4 {
		add(clean(ftyp[off : off+4]))
	}
	if len(parts) == 0 {
		return "MP4"
	}
	return strings.Join(parts, "/")
}

// estimateBitrate derives an average bitrate from the mdat payload when
// no sample entry declared one.
func estimateBitrate(tok *tokenizer.Tokenizer, col *collect.Collector, mdatSize int64) {
	f := col.Result().Format
	if f.Bitrate > 0 || f.Duration <= 0 {
		return
	}
	payload := mdatSize
	if payload <= 0 {
		payload = tok.Size()
	}
	if payload <= 0 {
		return
	}
	col.SetBitrate(int(float64(payload*8) / f.Duration.Seconds()))
}
