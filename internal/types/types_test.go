package types

import (
	"math"
	"testing"
)

func TestGainFromDBRoundTrip(t *testing.T) {
	tests := []struct {
		db    float64
		ratio float64
	}{
		{0, 1.0},
		{-6.02, 0.5},
		{6.02, 2.0},
		{-12.04, 0.25},
	}

	for _, tt := range tests {
		g := GainFromDB(tt.db)
		if math.Abs(g.Ratio-tt.ratio) > 1e-3 {
			t.Errorf("GainFromDB(%v).Ratio = %v, want ~%v", tt.db, g.Ratio, tt.ratio)
		}

		back := GainFromRatio(g.Ratio)
		if math.Abs(back.DB-tt.db) > 1e-9 {
			t.Errorf("round trip dB = %v, want %v", back.DB, tt.db)
		}
	}
}

func TestFormatInfoString(t *testing.T) {
	tests := []struct {
		name string
		info FormatInfo
		want string
	}{
		{
			name: "flac stereo",
			info: FormatInfo{Codec: "FLAC", SampleRate: 44100, BitsPerSample: 16, Channels: 2, Lossless: true},
			want: "FLAC 44.1kHz 16-bit stereo lossless",
		},
		{
			name: "mp3 cbr",
			info: FormatInfo{Codec: "MPEG 1 Layer 3", SampleRate: 44100, Channels: 2, Bitrate: 320000},
			want: "MPEG 1 Layer 3 44.1kHz stereo 320kbps",
		},
		{
			name: "mono dsd",
			info: FormatInfo{Codec: "DSD", SampleRate: 2822400, BitsPerSample: 1, Channels: 1, Lossless: true},
			want: "DSD 2822.4kHz 1-bit mono lossless",
		},
		{
			name: "container fallback",
			info: FormatInfo{Container: "WAVE"},
			want: "WAVE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContainerString(t *testing.T) {
	tests := []struct {
		container Container
		want      string
	}{
		{ContainerMPEG, "MPEG"},
		{ContainerFLAC, "FLAC"},
		{ContainerRIFF, "WAVE"},
		{ContainerMusepack, "Musepack"},
		{ContainerAPEv2, "APEv2"},
		{Container(99), "Container(99)"},
	}

	for _, tt := range tests {
		if got := tt.container.String(); got != tt.want {
			t.Errorf("Container(%d).String() = %q, want %q", tt.container, got, tt.want)
		}
	}
}

func TestPartOfSetString(t *testing.T) {
	if got := (PartOfSet{No: 3, Of: 12}).String(); got != "3/12" {
		t.Errorf("got %q, want 3/12", got)
	}
	if got := (PartOfSet{No: 5}).String(); got != "5" {
		t.Errorf("got %q, want 5", got)
	}
}

func TestPictureTypeFromByte(t *testing.T) {
	if got := PictureTypeFromByte(3); got != PictureFrontCover {
		t.Errorf("type 3 = %v, want front cover", got)
	}
	if got := PictureTypeFromByte(200); got != PictureOther {
		t.Errorf("out of range type = %v, want other", got)
	}
	if got := PictureFrontCover.String(); got != "Front cover" {
		t.Errorf("String() = %q, want %q", got, "Front cover")
	}
}

func TestPrimaryPicture(t *testing.T) {
	tags := Tags{Pictures: []Picture{
		{Type: PictureBackCover, Description: "back"},
		{Type: PictureFrontCover, Description: "front"},
	}}

	got := tags.PrimaryPicture()
	if got == nil || got.Description != "front" {
		t.Fatalf("PrimaryPicture() = %+v, want the front cover", got)
	}

	var empty Tags
	if empty.PrimaryPicture() != nil {
		t.Error("PrimaryPicture() on empty tags should be nil")
	}
}

func TestWarningString(t *testing.T) {
	w := Warning{Stage: "id3v2", Message: "frame size exceeds tag", Offset: 128}
	if got := w.String(); got != "id3v2 (at offset 128): frame size exceeds tag" {
		t.Errorf("unexpected warning string: %q", got)
	}

	w = Warning{Stage: "mapper", Message: "conflicting title"}
	if got := w.String(); got != "mapper: conflicting title" {
		t.Errorf("unexpected warning string: %q", got)
	}
}

func TestHasTagType(t *testing.T) {
	f := FormatInfo{TagTypes: []TagSystem{SystemID3v23, SystemID3v1}}
	if !f.HasTagType(SystemID3v1) {
		t.Error("expected ID3v1 to be present")
	}
	if f.HasTagType(SystemAPEv2) {
		t.Error("did not expect APEv2")
	}
}
