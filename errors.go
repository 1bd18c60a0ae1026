package audioprobe

import (
	"github.com/audioprobe/audioprobe/internal/types"
	"github.com/audioprobe/audioprobe/tokenizer"
)

// ErrEndOfStream is returned when a parse needs more bytes than the source
// holds. Parsers tolerate truncation after the metadata region; hitting it
// inside a container header is fatal.
var ErrEndOfStream = tokenizer.ErrEndOfStream

// DecodeError reports a malformed structure. Decode errors inside a tag
// block are downgraded to warnings when the surrounding container is still
// navigable; a DecodeError surfacing from a parse means the container
// structure itself was unreadable.
type DecodeError = types.DecodeError

// UnsupportedContainerError is returned when the sniffer matched no
// container. Unlike a corrupt tag, there is nothing to salvage.
type UnsupportedContainerError = types.UnsupportedContainerError

// Warning is a non-fatal issue found during parsing: an invalid encoding,
// a frame running past its parent, conflicting format facts. Warnings
// accumulate on the Result instead of failing the parse.
type Warning = types.Warning
