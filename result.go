package audioprobe

import "github.com/audioprobe/audioprobe/internal/types"

// Result is the complete outcome of one parse: the normalized common view,
// the audio-format facts, optional native tags, chapters and warnings.
type Result = types.Result

// Tag is one native metadata entry exactly as found in the file.
type Tag = types.Tag

// TagSystem names a metadata encoding found inside a container.
type TagSystem = types.TagSystem

// The closed set of tag systems native tags are grouped under.
const (
	SystemID3v1    = types.SystemID3v1
	SystemID3v22   = types.SystemID3v22
	SystemID3v23   = types.SystemID3v23
	SystemID3v24   = types.SystemID3v24
	SystemAPEv2    = types.SystemAPEv2
	SystemVorbis   = types.SystemVorbis
	SystemITunes   = types.SystemITunes
	SystemASF      = types.SystemASF
	SystemRIFF     = types.SystemRIFF
	SystemAIFF     = types.SystemAIFF
	SystemMatroska = types.SystemMatroska
)

// Update is one metadata event delivered to an Observer.
type Update = types.Update

// UpdateScope says which of the result views an Update touches.
type UpdateScope = types.UpdateScope

// Update scopes.
const (
	ScopeNative = types.ScopeNative
	ScopeCommon = types.ScopeCommon
	ScopeFormat = types.ScopeFormat
)

// Observer receives metadata events while the parse is still running.
// Events arrive synchronously in assignment order; replaying them
// reconstructs the final Common and Format state of the Result. Observers
// must not call back into the parser and must not mutate values they are
// handed.
type Observer = types.Observer
