package audioprobe

import "github.com/audioprobe/audioprobe/internal/types"

// Chapter is a chapter marker: MP4 chpl entries, ID3v2 CHAP frames, and
// CHAPTERxxx Vorbis comments all normalize to this shape.
type Chapter = types.Chapter
