// Package ogg parses Ogg physical streams: a sequence of pages carrying
// lacing-framed packets. The first packet of the first logical stream
// identifies the codec (Vorbis, Opus, Speex, FLAC, Theora); the comment
// header that follows uses the vorbis-comment layout in every mapping.
// Duration comes from the last page's granule position.
package ogg

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/flac"
	"github.com/audioprobe/audioprobe/internal/registry"
	"github.com/audioprobe/audioprobe/internal/types"
	"github.com/audioprobe/audioprobe/internal/vorbis"
	"github.com/audioprobe/audioprobe/tokenizer"
)

// Opus granule positions always count 48 kHz samples, whatever the input
// rate was.
const opusGranuleRate = 48000

// FLAC metadata block types that appear as header packets in FLAC-in-Ogg.
const (
	flacBlockVorbisComment = 4
	flacBlockPicture       = 6
)

func init() {
	registry.Register(types.ContainerOgg, parser{})
}

type parser struct{}

func (parser) Parse(ctx context.Context, tok *tokenizer.Tokenizer, col *collect.Collector, p registry.Params) error {
	s := &stream{tok: tok, lastGranule: -1}

	ident, err := s.nextPacket(ctx)
	if err != nil {
		return err
	}
	col.SetContainer("Ogg")

	var granuleRate int
	var preSkip int64

	switch {
	case bytes.HasPrefix(ident, []byte("\x01vorbis")):
		granuleRate, err = decodeVorbisIdent(ident, col)
		if err != nil {
			return err
		}
		err = s.decodeCommentPacket(ctx, col, p.SkipCovers, "\x03vorbis")

	case bytes.HasPrefix(ident, []byte("OpusHead")):
		preSkip, err = decodeOpusHead(ident, col)
		if err != nil {
			return err
		}
		granuleRate = opusGranuleRate
		err = s.decodeCommentPacket(ctx, col, p.SkipCovers, "OpusTags")

	case bytes.HasPrefix(ident, []byte("Speex   ")):
		granuleRate, err = decodeSpeexHeader(ident, col)
		if err != nil {
			return err
		}
		// The Speex comment packet is a bare vorbis-comment body.
		err = s.decodeCommentPacket(ctx, col, p.SkipCovers, "")

	case len(ident) > 5 && ident[0] == 0x7F && string(ident[1:5]) == "FLAC":
		granuleRate, err = decodeFLACIdent(ident, col)
		if err != nil {
			return err
		}
		err = s.decodeFLACHeaders(ctx, col, p.SkipCovers)

	case bytes.HasPrefix(ident, []byte("\x80theora")):
		col.SetCodec("Theora")
		err = s.decodeCommentPacket(ctx, col, p.SkipCovers, "\x81theora")

	default:
		col.Warn("ogg", 0, "unrecognized codec in first packet")
		return nil
	}
	if err != nil {
		return err
	}

	if !col.HasDuration() && granuleRate > 0 {
		if err := s.drain(ctx, col); err != nil {
			return err
		}
		if g := s.lastGranule - preSkip; g > 0 {
			col.SetNumberOfSamples(uint64(g))
			col.SetDuration(time.Duration(float64(g) / float64(granuleRate) * float64(time.Second)))
		}
	}
	estimateBitrate(tok, col)
	return nil
}

// stream tracks one logical bitstream: the first serial number seen wins,
// and pages belonging to other multiplexed streams are passed over.
type stream struct {
	tok         *tokenizer.Tokenizer
	asm         assembler
	serial      uint32
	haveSerial  bool
	lastGranule int64
	sawEnd      bool
}

// nextPacket reads pages until a whole packet is assembled.
func (s *stream) nextPacket(ctx context.Context) ([]byte, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if pkt, ok := s.asm.pop(); ok {
			return pkt, nil
		}
		if s.sawEnd {
			return nil, tokenizer.ErrEndOfStream
		}
		p, err := readPage(s.tok, true)
		if err != nil {
			return nil, err
		}
		if !s.haveSerial {
			s.serial = p.serial
			s.haveSerial = true
		}
		s.observe(p)
		if p.serial == s.serial {
			s.asm.add(p)
		}
	}
}

func (s *stream) observe(p page) {
	if p.serial != s.serial {
		return
	}
	if p.granule >= 0 {
		s.lastGranule = p.granule
	}
	if p.headerType&flagLastPage != 0 {
		s.sawEnd = true
	}
}

// drain walks the remaining pages, payloads skipped, to find the stream's
// final granule position.
func (s *stream) drain(ctx context.Context, col *collect.Collector) error {
	for !s.sawEnd {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := s.tok.Pos()
		p, err := readPage(s.tok, false)
		if err != nil {
			if !errors.Is(err, tokenizer.ErrEndOfStream) {
				col.Warn("ogg", start, "page walk stopped: %v", err)
			}
			return nil
		}
		s.observe(p)
	}
	return nil
}

// decodeCommentPacket pulls the next packet, strips the mapping's magic
// prefix, and hands the vorbis-comment body to the shared decoder. Parse
// trouble downgrades to a warning so the format facts survive; only context
// cancellation propagates as an error.
func (s *stream) decodeCommentPacket(ctx context.Context, col *collect.Collector, skipCovers bool, magic string) error {
	pkt, err := s.nextPacket(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		col.Warn("ogg", s.tok.Pos(), "comment packet missing: %v", err)
		return nil
	}
	if !bytes.HasPrefix(pkt, []byte(magic)) {
		col.Warn("ogg", s.tok.Pos(), "comment packet has wrong magic")
		return nil
	}
	if err := vorbis.DecodeComments(pkt[len(magic):], col, skipCovers); err != nil {
		col.Warn("ogg", s.tok.Pos(), "comment packet: %v", err)
	}
	return nil
}

// decodeFLACHeaders walks the header packets after the FLAC mapping packet.
// Each is a verbatim FLAC metadata block; the chain ends at a block with
// the last-metadata flag set.
func (s *stream) decodeFLACHeaders(ctx context.Context, col *collect.Collector, skipCovers bool) error {
	for {
		pkt, err := s.nextPacket(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			col.Warn("ogg", s.tok.Pos(), "FLAC header packets truncated: %v", err)
			return nil
		}
		if len(pkt) < 4 {
			return nil
		}
		last := pkt[0]&0x80 != 0
		blockType := int(pkt[0] & 0x7F)
		length := int(pkt[1])<<16 | int(pkt[2])<<8 | int(pkt[3])
		if length > len(pkt)-4 {
			col.Warn("ogg", s.tok.Pos(), "FLAC header block claims %d bytes, packet has %d", length, len(pkt)-4)
			return nil
		}
		body := pkt[4 : 4+length]

		switch blockType {
		case flacBlockVorbisComment:
			if err := vorbis.DecodeComments(body, col, skipCovers); err != nil {
				col.Warn("ogg", s.tok.Pos(), "vorbis comment block: %v", err)
			}
		case flacBlockPicture:
			if skipCovers {
				break
			}
			pic, err := vorbis.DecodePictureBlock(body)
			if err != nil {
				col.Warn("ogg", s.tok.Pos(), "picture block: %v", err)
				break
			}
			col.AddTag(types.SystemVorbis, "METADATA_BLOCK_PICTURE", pic)
		}
		if last {
			return nil
		}
	}
}

// decodeVorbisIdent reads the Vorbis identification header: version,
// channel count, sample rate, and the nominal bitrate, all little-endian.
func decodeVorbisIdent(data []byte, col *collect.Collector) (int, error) {
	if len(data) < 30 {
		return 0, types.NewDecodeError("ogg", fmt.Sprintf("vorbis identification header is %d bytes, want 30", len(data)), 0)
	}
	if v := binary.LittleEndian.Uint32(data[7:11]); v != 0 {
		return 0, types.NewDecodeError("ogg", fmt.Sprintf("unsupported vorbis version %d", v), 0)
	}
	sampleRate := int(binary.LittleEndian.Uint32(data[12:16]))

	col.SetCodec("Vorbis")
	col.SetSampleRate(sampleRate)
	col.SetChannels(int(data[11]))
	if nominal := int32(binary.LittleEndian.Uint32(data[20:24])); nominal > 0 {
		col.SetBitrate(int(nominal))
	}
	return sampleRate, nil
}

// decodeOpusHead reads the OpusHead identification header. The returned
// pre-skip is the decoder priming sample count the granule position
// includes but playback trims.
func decodeOpusHead(data []byte, col *collect.Collector) (int64, error) {
	if len(data) < 19 {
		return 0, types.NewDecodeError("ogg", fmt.Sprintf("OpusHead packet is %d bytes, want 19", len(data)), 0)
	}
	if v := data[8]; v != 1 {
		return 0, types.NewDecodeError("ogg", fmt.Sprintf("unsupported Opus version %d", v), 0)
	}
	col.SetCodec("Opus")
	col.SetSampleRate(opusGranuleRate)
	col.SetChannels(int(data[9]))
	return int64(binary.LittleEndian.Uint16(data[10:12])), nil
}

// decodeSpeexHeader reads the Speex header: 8-byte magic, 20-byte version
// string, then little-endian fields.
func decodeSpeexHeader(data []byte, col *collect.Collector) (int, error) {
	if len(data) < 68 {
		return 0, types.NewDecodeError("ogg", fmt.Sprintf("Speex header is %d bytes, want 68", len(data)), 0)
	}
	rate := int(binary.LittleEndian.Uint32(data[36:40]))
	col.SetCodec("Speex")
	col.SetSampleRate(rate)
	col.SetChannels(int(binary.LittleEndian.Uint32(data[48:52])))
	if br := int32(binary.LittleEndian.Uint32(data[52:56])); br > 0 {
		col.SetBitrate(int(br))
	}
	return rate, nil
}

// decodeFLACIdent reads the FLAC-to-Ogg mapping packet: 0x7F "FLAC",
// mapping version, header packet count, then a verbatim fLaC marker and
// STREAMINFO block.
func decodeFLACIdent(data []byte, col *collect.Collector) (int, error) {
	if len(data) < 17+flac.StreamInfoSize {
		return 0, types.NewDecodeError("ogg", fmt.Sprintf("FLAC mapping packet is %d bytes, want %d", len(data), 17+flac.StreamInfoSize), 0)
	}
	if string(data[9:13]) != "fLaC" {
		return 0, types.NewDecodeError("ogg", "FLAC mapping packet lacks fLaC marker", 0)
	}
	col.SetCodec("FLAC")
	col.SetLossless(true)
	flac.DecodeStreamInfo(data[17:17+flac.StreamInfoSize], col)
	return col.Result().Format.SampleRate, nil
}

// estimateBitrate fills in a whole-file average when the headers carried no
// nominal rate.
func estimateBitrate(tok *tokenizer.Tokenizer, col *collect.Collector) {
	f := col.Result().Format
	if f.Bitrate > 0 || f.Duration <= 0 || tok.Size() <= 0 {
		return
	}
	col.SetBitrate(int(float64(tok.Size()*8) / f.Duration.Seconds()))
}
