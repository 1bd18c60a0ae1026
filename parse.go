package audioprobe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/audioprobe/audioprobe/internal/apev2"
	"github.com/audioprobe/audioprobe/internal/binary"
	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/id3"
	"github.com/audioprobe/audioprobe/internal/registry"
	"github.com/audioprobe/audioprobe/internal/sniff"
	"github.com/audioprobe/audioprobe/internal/trailer"
	"github.com/audioprobe/audioprobe/internal/types"
	"github.com/audioprobe/audioprobe/tokenizer"

	// Container parsers register themselves with the dispatch registry.
	// The apev2 parser registers through its named import above.
	_ "github.com/audioprobe/audioprobe/internal/adts"
	_ "github.com/audioprobe/audioprobe/internal/aiff"
	_ "github.com/audioprobe/audioprobe/internal/asf"
	_ "github.com/audioprobe/audioprobe/internal/dsdiff"
	_ "github.com/audioprobe/audioprobe/internal/dsf"
	_ "github.com/audioprobe/audioprobe/internal/flac"
	_ "github.com/audioprobe/audioprobe/internal/mp4"
	_ "github.com/audioprobe/audioprobe/internal/mpeg"
	_ "github.com/audioprobe/audioprobe/internal/musepack"
	_ "github.com/audioprobe/audioprobe/internal/ogg"
	_ "github.com/audioprobe/audioprobe/internal/riff"
	_ "github.com/audioprobe/audioprobe/internal/wavpack"
)

// sniffWindow is how far ahead the dispatcher peeks for container
// detection. It covers every magic-byte probe plus the sync-word search
// for headerless MPEG/ADTS streams.
const sniffWindow = 4096

// maxEnvelopes bounds the ID3v2 chain at the stream head. Stacked tags
// beyond this are treated as a broken file, not an envelope chain.
const maxEnvelopes = 8

// ParseFile reads the metadata of the audio file at path.
//
// The file is opened, parsed and closed before returning; the Result holds
// no reference to it. Trailing tags (ID3v1, APEv2, Lyrics3) are located by
// scanning the end of the file before the container parser runs.
//
//	res, err := audioprobe.ParseFile("song.flac")
//	if err != nil {
//		return err
//	}
//	fmt.Printf("%s - %s\n", res.Common.Artist, res.Common.Title)
//	fmt.Printf("%s, %s\n", res.Format.Container, res.Format.Duration)
func ParseFile(path string, opts ...Option) (*Result, error) {
	return ParseFileContext(context.Background(), path, opts...)
}

// ParseFileContext is ParseFile with cancellation. The context is checked
// between structural units of the file (frames, chunks, atoms), so a
// cancelled parse stops without reading the source to the end.
func ParseFileContext(ctx context.Context, path string, opts ...Option) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o := newParseOptions(opts)
	if o.path == "" {
		o.path = path
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	return parsePositioned(ctx, f, stat.Size(), o)
}

// ParseBuffer reads audio metadata from an in-memory file image. Like
// ParseFile it scans the trailer, since the size is known.
func ParseBuffer(b []byte, opts ...Option) (*Result, error) {
	o := newParseOptions(opts)
	return parsePositioned(context.Background(), bytes.NewReader(b), int64(len(b)), o)
}

// ParseReaderAt reads audio metadata from a positioned source of known
// size, with the trailer scan enabled.
func ParseReaderAt(r io.ReaderAt, size int64, opts ...Option) (*Result, error) {
	o := newParseOptions(opts)
	return parsePositioned(context.Background(), r, size, o)
}

// ParseStream reads audio metadata from a forward-only stream.
//
// No trailer scan is possible without random access: appended ID3v1 and
// APEv2 tags are decoded only when a frame walk runs into them, and
// size-based duration estimates need WithFileSize. Everything else behaves
// as in ParseFile.
func ParseStream(r io.Reader, opts ...Option) (*Result, error) {
	o := newParseOptions(opts)
	size := tokenizer.SizeUnknown
	if o.fileSize > 0 {
		size = o.fileSize
	}
	return parse(context.Background(), tokenizer.New(r, size), nil, o)
}

// ParseTokenizer reads audio metadata from a caller-built tokenizer. This
// is the advanced entry point: the caller controls buffering and the size
// hint, and no trailer scan runs. Use WithAPEOffset to point the parse at
// a known appended tag.
func ParseTokenizer(tok *tokenizer.Tokenizer, opts ...Option) (*Result, error) {
	o := newParseOptions(opts)
	return parse(context.Background(), tok, nil, o)
}

// ParseMany parses multiple files concurrently, up to runtime.NumCPU() at
// a time. Results are returned in path order. The first failure cancels
// the remaining work and is returned.
//
//	res, err := audioprobe.ParseMany(ctx, paths...)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for i, r := range res {
//		fmt.Printf("%s: %s\n", paths[i], r.Common.Title)
//	}
func ParseMany(ctx context.Context, paths ...string) ([]*Result, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*Result, len(paths))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			res, err := ParseFileContext(ctx, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// parsePositioned scans the trailer, bounds the tokenizer to the audio
// region and hands the trailing blocks over for decoding after the
// container parser is done with the head.
func parsePositioned(ctx context.Context, r io.ReaderAt, size int64, o *parseOptions) (*Result, error) {
	sr := binary.NewSafeReader(r, size, o.path)
	info := trailer.Scan(sr)
	if o.apeOffset == 0 && info.HasAPE() {
		// A caller-supplied offset outranks the scanner's finding.
		o.apeOffset = info.APE
	}
	tok := tokenizer.FromReaderAt(r, info.AudioEnd)
	return parse(ctx, tok, &trailing{sr: sr, info: info}, o)
}

// parse drives one complete parse: envelope stripping, container dispatch,
// trailing-tag decode, result assembly.
func parse(ctx context.Context, tok *tokenizer.Tokenizer, tr *trailing, o *parseOptions) (*Result, error) {
	col := collect.New(collect.Config{
		Observer:     o.observer,
		KeepNative:   o.nativeTags,
		SkipCovers:   o.skipCovers,
		MaxCoverSize: o.maxCoverSize,
	})

	container, err := dispatch(ctx, tok, col, o)
	if err != nil {
		return nil, err
	}

	if tr != nil && !o.skipPostHeaders {
		// A standalone APE tag parsed as the container is the same tag
		// the scan found at the end; don't decode it twice.
		tr.decode(col, o.skipCovers, container != types.ContainerAPEv2)
	}

	res := col.Result()
	res.Container = container
	if o.strictParsing && len(res.Warnings) > 0 {
		return nil, fmt.Errorf("strict parsing failed: %s", res.Warnings[0])
	}
	return res, nil
}

// dispatch consumes any ID3v2 envelopes, sniffs the container and runs its
// parser. ID3v2 is an envelope rather than a container: the real stream
// begins where the chain ends, and that is what the sniffer must see.
func dispatch(ctx context.Context, tok *tokenizer.Tokenizer, col *collect.Collector, o *parseOptions) (types.Container, error) {
	for envelopes := 0; envelopes < maxEnvelopes; envelopes++ {
		head, err := tok.Peek(10)
		if err != nil || !sniff.IsID3v2(head) {
			break
		}
		if err := id3.DecodeV2(tok, col, o.skipCovers); err != nil {
			return types.ContainerUnknown, err
		}
	}

	head, err := tok.Peek(sniffWindow)
	if err != nil {
		return types.ContainerUnknown, &types.UnsupportedContainerError{
			Path:   o.path,
			Reason: "stream ends before any audio data",
		}
	}
	container := sniff.Detect(head, o.mimeType)
	if container == types.ContainerUnknown {
		return types.ContainerUnknown, &types.UnsupportedContainerError{
			Path:   o.path,
			Reason: "no container matched the stream head",
		}
	}
	parser := registry.Get(container)
	if parser == nil {
		return types.ContainerUnknown, &types.UnsupportedContainerError{
			Path:   o.path,
			Reason: fmt.Sprintf("no parser registered for %s", container),
		}
	}

	err = parser.Parse(ctx, tok, col, registry.Params{
		SkipCovers:      o.skipCovers,
		DurationScan:    o.durationScan,
		SkipPostHeaders: o.skipPostHeaders,
		APEOffset:       o.apeOffset,
	})
	if err != nil {
		return container, fmt.Errorf("parse %s: %w", container, err)
	}
	return container, nil
}

// trailing carries the trailer scan results so the appended blocks can be
// decoded once the container parser is done with the audio region.
type trailing struct {
	sr   *binary.SafeReader
	info trailer.Info
}

// decode reads the appended blocks in byte order: APE first, ID3v1 last.
// Lyrics3 carries no mapped fields and is left alone. Damage here never
// fails the parse; the audio region already decoded fine.
func (t *trailing) decode(col *collect.Collector, skipCovers, withAPE bool) {
	if withAPE && t.info.HasAPE() {
		block := make([]byte, t.info.APESize)
		if err := t.sr.ReadAt(block, t.info.APE, "APE tag"); err != nil {
			col.Warn("trailer", t.info.APE, "appended APE tag: %v", err)
		} else if err := apev2.Decode(block, col, skipCovers); err != nil {
			col.Warn("trailer", t.info.APE, "appended APE tag: %v", err)
		}
	}
	if t.info.HasID3v1() {
		block := make([]byte, 128)
		if err := t.sr.ReadAt(block, t.info.ID3v1, "ID3v1 tag"); err != nil {
			col.Warn("trailer", t.info.ID3v1, "appended ID3v1 tag: %v", err)
			return
		}
		id3.DecodeV1(block, col)
	}
}
