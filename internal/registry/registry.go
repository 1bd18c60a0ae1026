// Package registry manages the container parsers.
//
// Each container package registers its parser from an init function; the
// orchestrator looks the parser up by the sniffed container. Registration
// happens at program start only, so the map needs no locking.
package registry

import (
	"context"

	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/types"
	"github.com/audioprobe/audioprobe/tokenizer"
)

// Params carries per-parse knobs a container parser honors.
type Params struct {
	// SkipCovers lets decoders skip over picture payloads without
	// reading them.
	SkipCovers bool

	// DurationScan requests an exact duration even when that means
	// walking every audio frame.
	DurationScan bool

	// SkipPostHeaders stops the parse once the header metadata is read,
	// skipping tag structures that live behind the audio data.
	SkipPostHeaders bool

	// APEOffset is the caller-declared absolute offset of an APE tag,
	// zero when unknown. The trailer scanner's own finding is used only
	// when the caller did not provide one.
	APEOffset int64
}

// Parser is the interface every container package implements.
//
// Parse reads the stream through tok from the first byte of the container
// (any leading ID3v2 envelope already consumed) and reports everything it
// finds into col. Returning an error means the container structure was
// unreadable; recoverable oddities are reported as warnings instead.
type Parser interface {
	Parse(ctx context.Context, tok *tokenizer.Tokenizer, col *collect.Collector, p Params) error
}

var parsers = make(map[types.Container]Parser)

// Register installs the parser for a container. Container packages call
// this from init.
func Register(container types.Container, parser Parser) {
	parsers[container] = parser
}

// Get returns the parser registered for a container, or nil.
func Get(container types.Container) Parser {
	return parsers[container]
}
