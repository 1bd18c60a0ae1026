package audioprobe

import (
	"math"

	"github.com/audioprobe/audioprobe/internal/types"
)

// Tags is the normalized common view: every container's native tags folded
// into one structure, so callers read Title or Track the same way for an
// MP3, a FLAC file, or a WMA stream.
type Tags = types.Tags

// Picture is an embedded image: cover art, artist photo, liner scans.
type Picture = types.Picture

// PictureType categorizes the purpose/content of a picture.
type PictureType = types.PictureType

// Picture types, following the ID3v2 APIC table.
const (
	PictureOther             = types.PictureOther
	PictureIcon              = types.PictureIcon
	PictureOtherIcon         = types.PictureOtherIcon
	PictureFrontCover        = types.PictureFrontCover
	PictureBackCover         = types.PictureBackCover
	PictureLeaflet           = types.PictureLeaflet
	PictureMedia             = types.PictureMedia
	PictureLeadArtist        = types.PictureLeadArtist
	PictureArtist            = types.PictureArtist
	PictureConductor         = types.PictureConductor
	PictureBand              = types.PictureBand
	PictureComposer          = types.PictureComposer
	PictureLyricist          = types.PictureLyricist
	PictureRecordingLocation = types.PictureRecordingLocation
	PictureDuringRecording   = types.PictureDuringRecording
	PictureDuringPerformance = types.PictureDuringPerformance
	PictureVideoCapture      = types.PictureVideoCapture
	PictureBrightFish        = types.PictureBrightFish
	PictureIllustration      = types.PictureIllustration
	PictureBandLogotype      = types.PictureBandLogotype
	PicturePublisherLogotype = types.PicturePublisherLogotype
)

// PartOfSet is a position within a numbered set, e.g. track 3 of 12.
type PartOfSet = types.PartOfSet

// Rating is a normalized rating with its value in [0, 1].
type Rating = types.Rating

// GainValue is a replay-gain adjustment carried as both decibels and
// linear ratio.
type GainValue = types.GainValue

// ReplayGainUndo records the offsets needed to reverse an applied MP3
// gain change.
type ReplayGainUndo = types.ReplayGainUndo

// OrderTags regroups a flat native-tag sequence by identifier, preserving
// arrival order within each identifier. Useful for looking up repeated
// frames (multiple TXXX, multiple comments) by name:
//
//	byID := audioprobe.OrderTags(res.Native[audioprobe.SystemID3v23])
//	for _, v := range byID["TXXX:replaygain_track_gain"] {
//		...
//	}
func OrderTags(tags []Tag) map[string][]any {
	if len(tags) == 0 {
		return nil
	}
	ordered := make(map[string][]any)
	for _, t := range tags {
		ordered[t.ID] = append(ordered[t.ID], t.Value)
	}
	return ordered
}

// RatingToStars converts a normalized rating to the conventional 1..5 star
// scale. Inputs outside [0, 1] return 0.
func RatingToStars(rating float64) int {
	if math.IsNaN(rating) || rating < 0 || rating > 1 {
		return 0
	}
	return 1 + int(math.Round(rating*4))
}
