// Package types provides core data structures for audio metadata.
//
// This package defines the Result, Tags, FormatInfo, Chapter, and Picture
// types that represent parsed audio information across all supported
// containers.
package types

// Result is the complete outcome of one parse.
//
// Common is the normalized cross-format view; Native preserves each tag
// system's own identifiers and values (populated only when native retention
// is requested); Format collects the audio-format facts.
type Result struct {
	// Container the sniffer dispatched on.
	Container Container `json:"-"`

	// Format facts reported by the container parser.
	Format FormatInfo `json:"format"`

	// Common is the normalized tag view.
	Common Tags `json:"common"`

	// Native maps each tag system to its decoded tags in arrival order.
	// Nil unless native retention was enabled in the parse options.
	Native map[TagSystem][]Tag `json:"native,omitempty"`

	// Chapters found in the file, in playback order.
	Chapters []Chapter `json:"chapters,omitempty"`

	// Warnings collected during the parse, in emission order.
	Warnings []Warning `json:"warnings,omitempty"`
}

// UpdateScope says which of the three result views an Update touches.
type UpdateScope int

const (
	// ScopeNative is a freshly decoded native tag.
	ScopeNative UpdateScope = iota
	// ScopeCommon is an accepted common-view assignment.
	ScopeCommon
	// ScopeFormat is a format-fact assignment.
	ScopeFormat
)

// Update is one metadata event. Observers receive updates synchronously in
// emission order; replaying them reconstructs the final Common and Format
// state of the Result.
type Update struct {
	Scope  UpdateScope `json:"scope"`
	System TagSystem   `json:"system,omitempty"` // set for ScopeNative
	ID     string      `json:"id"`               // tag id, common field name, or fact name
	Value  any         `json:"value"`
}

// Observer receives metadata events while the parse is still running.
// Observers must not mutate values they are handed; pictures and byte
// slices are shared with the Result under assembly.
type Observer func(Update)
