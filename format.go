package audioprobe

import "github.com/audioprobe/audioprobe/internal/types"

// FormatInfo collects the audio-format facts a parse establishes: codec,
// sample rate, duration, channel layout, and the tag systems present.
type FormatInfo = types.FormatInfo

// Container identifies the physical container carrying the audio.
type Container = types.Container

// The supported containers. The sniffer picks one of these from the leading
// bytes of the stream, falling back to the caller's MIME hint.
const (
	ContainerUnknown  = types.ContainerUnknown
	ContainerMPEG     = types.ContainerMPEG
	ContainerADTS     = types.ContainerADTS
	ContainerMP4      = types.ContainerMP4
	ContainerASF      = types.ContainerASF
	ContainerFLAC     = types.ContainerFLAC
	ContainerOgg      = types.ContainerOgg
	ContainerRIFF     = types.ContainerRIFF
	ContainerAIFF     = types.ContainerAIFF
	ContainerWavPack  = types.ContainerWavPack
	ContainerMusepack = types.ContainerMusepack
	ContainerDSF      = types.ContainerDSF
	ContainerDSDIFF   = types.ContainerDSDIFF
	ContainerAPEv2    = types.ContainerAPEv2
)
