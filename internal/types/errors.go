package types

import "fmt"

// DecodeError reports a malformed structure or field. Decode errors inside
// a tag block are downgraded to warnings when the surrounding container
// structure is still navigable; decode errors in the container structure
// itself are fatal.
type DecodeError struct {
	Stage  string // which decoder: "id3v2", "flac", "mp4", ...
	Reason string
	Offset int64
}

func (e *DecodeError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("%s: %s (at offset %d)", e.Stage, e.Reason, e.Offset)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Reason)
}

// NewDecodeError builds a DecodeError for the given decoder stage.
func NewDecodeError(stage, reason string, offset int64) *DecodeError {
	return &DecodeError{Stage: stage, Reason: reason, Offset: offset}
}

// UnsupportedContainerError is returned when no parser claims the input.
// It is always fatal: unlike a corrupt tag, there is nothing to salvage.
type UnsupportedContainerError struct {
	Path   string
	Reason string
}

func (e *UnsupportedContainerError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("unsupported container: %s", e.Reason)
	}
	return fmt.Sprintf("%s: unsupported container: %s", e.Path, e.Reason)
}

// Warning represents a non-fatal issue encountered during parsing.
//
// Warnings indicate problems that don't prevent metadata extraction but
// may indicate corrupted or unusual data. Examples include:
//   - Invalid encoding in a tag
//   - A frame whose declared size runs past its parent
//   - Conflicting values for a format fact
//   - An unsupported sub-format that was skipped
//
// Warnings are collected in Result.Warnings during parsing.
type Warning struct {
	// Stage where the warning occurred
	Stage string // "id3v2", "vorbis", "mpeg", "mapper", ...

	// Warning message
	Message string

	// File offset where the issue occurred (0 if not applicable)
	Offset int64
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", w.Stage, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}
