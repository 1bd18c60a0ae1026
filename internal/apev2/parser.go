package apev2

import (
	"context"
	"fmt"

	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/registry"
	"github.com/audioprobe/audioprobe/internal/types"
	"github.com/audioprobe/audioprobe/tokenizer"
)

// maxTagSize caps how much a standalone tag file may ask us to buffer.
// Real APE tags run a few KB, plus cover art.
const maxTagSize = 64 << 20

func init() {
	registry.Register(types.ContainerAPEv2, parser{})
}

// parser handles a bare APE tag stored as its own file: an APETAGEX header
// at offset 0, items, and usually a footer. There is no audio, so the only
// format fact is the container itself.
type parser struct{}

func (parser) Parse(ctx context.Context, tok *tokenizer.Tokenizer, col *collect.Collector, p registry.Params) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	col.SetContainer("APEv2")
	return DecodeStream(tok, col, p.SkipCovers)
}

// DecodeStream decodes an APE tag that starts with its header block at the
// tokenizer's position. The MPEG frame walk uses this too, when it runs
// into an appended tag on a stream with no trailer scan.
func DecodeStream(tok *tokenizer.Tokenizer, col *collect.Collector, skipCovers bool) error {
	start := tok.Pos()
	head := make([]byte, blockSize)
	if err := tok.ReadFull(head); err != nil {
		return types.NewDecodeError("apev2", "file shorter than an APETAGEX block", start)
	}
	hdr, ok := ParseBlock(head)
	if !ok {
		return types.NewDecodeError("apev2", "missing APETAGEX sentinel", start)
	}
	if hdr.Size > maxTagSize {
		return types.NewDecodeError("apev2", fmt.Sprintf("tag size %d exceeds limit", hdr.Size), start)
	}

	body := make([]byte, hdr.Size)
	if err := tok.ReadFull(body); err != nil {
		col.Warn("apev2", tok.Pos(), "tag truncated: %v", err)
		return nil
	}
	return Decode(append(head, body...), col, skipCovers)
}
