package types

import "time"

// Chapter represents a chapter marker in an audio file.
//
// Chapters are decoded from:
//   - MP4 files (Nero chpl atoms)
//   - MP3 files (ID3v2 CHAP frames)
//   - Ogg and FLAC files (CHAPTERxxx Vorbis comments)
//
// EndTime is zero when the source format only records start times; the
// chapter then runs to the start of the next one.
type Chapter struct {
	Index     int           `json:"index"`
	Title     string        `json:"title"`
	StartTime time.Duration `json:"start_time"`
	EndTime   time.Duration `json:"end_time"`
}
