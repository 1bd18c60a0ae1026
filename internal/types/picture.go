package types

import "fmt"

// Picture is an embedded image: cover art, artist photo, liner scans.
// Multiple pictures per file are supported.
type Picture struct {
	// Type of picture (front cover, back cover, artist photo, ...)
	Type PictureType

	// MIME type of the image data
	MIMEType string // "image/jpeg", "image/png", "image/gif"

	// Description of the picture (optional)
	Description string

	// Image binary data
	Data []byte

	// Dimensions and color layout, when the tag block carries them
	// (FLAC picture blocks do; ID3v2 APIC frames do not).
	Width         int
	Height        int
	ColorDepth    int
	IndexedColors int
}

// PictureType categorizes the purpose/content of a picture.
//
// Types follow the ID3v2 APIC picture-type table, which FLAC picture
// blocks, Vorbis METADATA_BLOCK_PICTURE, and WM/Picture reuse.
// See: https://id3.org/id3v2.4.0-frames (APIC frame)
//
//go:generate stringer -type=PictureType -linecomment
type PictureType int

const (
	PictureOther             PictureType = iota // Other
	PictureIcon                                 // File icon (32x32 PNG)
	PictureOtherIcon                            // Other file icon
	PictureFrontCover                           // Front cover
	PictureBackCover                            // Back cover
	PictureLeaflet                              // Leaflet page
	PictureMedia                                // Media (CD/vinyl label)
	PictureLeadArtist                           // Lead artist/performer/soloist
	PictureArtist                               // Artist/performer
	PictureConductor                            // Conductor
	PictureBand                                 // Band/orchestra
	PictureComposer                             // Composer
	PictureLyricist                             // Lyricist/text writer
	PictureRecordingLocation                    // Recording location
	PictureDuringRecording                      // During recording
	PictureDuringPerformance                    // During performance
	PictureVideoCapture                         // Movie/video screen capture
	PictureBrightFish                           // A bright colored fish
	PictureIllustration                         // Illustration
	PictureBandLogotype                         // Band/artist logotype
	PicturePublisherLogotype                    // Publisher/studio logotype
)

// PictureTypeFromByte maps the APIC type byte to a PictureType, falling
// back to PictureOther for values past the defined table.
func PictureTypeFromByte(b byte) PictureType {
	if int(b) > int(PicturePublisherLogotype) {
		return PictureOther
	}
	return PictureType(b)
}

// DetectImageMIME sniffs an image MIME type from magic bytes. Used where the
// tag stores bare image data with no declared type (APE binary items, some
// MP4 covr atoms). Returns "" when no known signature matches.
func DetectImageMIME(data []byte) string {
	switch {
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return "image/jpeg"
	case len(data) >= 4 && data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G':
		return "image/png"
	case len(data) >= 3 && data[0] == 'G' && data[1] == 'I' && data[2] == 'F':
		return "image/gif"
	case len(data) >= 2 && data[0] == 'B' && data[1] == 'M':
		return "image/bmp"
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return "image/webp"
	}
	return ""
}

// String returns a human-readable description of the picture.
//
// Example output: "Front cover (1200x1200 JPEG, 245KB)"
func (p Picture) String() string {
	dims := ""
	if p.Width > 0 && p.Height > 0 {
		dims = fmt.Sprintf("%dx%d ", p.Width, p.Height)
	}
	return fmt.Sprintf("%s (%s%s, %s)", p.Type, dims, mimeToFormat(p.MIMEType), formatSize(len(p.Data)))
}

// formatSize formats byte size in human-readable form.
func formatSize(bytes int) string {
	const (
		KB = 1024
		MB = 1024 * KB
	)

	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1fMB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%dKB", bytes/KB)
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}

// mimeToFormat converts MIME type to short format name.
func mimeToFormat(mime string) string {
	switch mime {
	case "image/jpeg":
		return "JPEG"
	case "image/png":
		return "PNG"
	case "image/gif":
		return "GIF"
	case "image/bmp":
		return "BMP"
	case "image/tiff":
		return "TIFF"
	case "image/webp":
		return "WebP"
	default:
		return "Image"
	}
}
