// Package audioprobe reads audio metadata from any common container.
//
// audioprobe is a streaming parser: given a file, a buffer, or a
// forward-only reader, it sniffs the container format, decodes every tag
// block it finds, and returns one uniform Result. Thirteen containers are
// supported (MPEG/MP3, MP4/M4A, FLAC, Ogg, ASF/WMA, WAVE, AIFF, WavPack,
// Musepack, DSF, DSDIFF, ADTS/AAC and standalone APEv2 tags) across eleven
// tag systems.
//
// # Quick Start
//
// Reading metadata from an audio file:
//
//	res, err := audioprobe.ParseFile("song.flac")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("%s - %s\n", res.Common.Artist, res.Common.Title)
//	fmt.Printf("%s, %s\n", res.Format.Container, res.Format.Duration)
//
// # Two Views of the Same Tags
//
// Every recognized tag lands in Result.Common, the normalized view: Title,
// Artist, Track, ReplayGain and friends read the same whether the file was
// an MP3 with ID3v2.4 frames or a WMA with ASF descriptors. The raw
// (system, id, value) triples are available too, via WithNativeTags:
//
//	res, _ := audioprobe.ParseFile("song.mp3", audioprobe.WithNativeTags())
//	for _, tag := range res.Native[audioprobe.SystemID3v23] {
//		fmt.Printf("%s = %v\n", tag.ID, tag.Value)
//	}
//
// # Graceful Degradation
//
// Damaged metadata does not fail a parse. Defects inside a tag block
// (bad encodings, oversized frames, truncated items) degrade to entries in
// Result.Warnings and parsing continues; only an unreadable container
// structure is an error. WithStrictParsing flips the policy for callers
// who would rather reject such files.
//
// # Streams
//
// ParseStream works on a plain io.Reader with nothing else: no seeking, no
// size. Forward-only parsing costs one restriction - tags appended after
// the audio (ID3v1, APEv2) can only be found by reading through the audio,
// so fast parses of trailing tags need a file, a buffer, or an io.ReaderAt.
//
// # Performance
//
// A parse reads only the metadata regions of the file; audio data is
// skipped, not decoded. Pictures are the one large allocation, and
// WithSkipCovers avoids it. ParseMany parses file lists concurrently.
// Exact durations for headerless formats require walking every frame, so
// that is opt-in via WithDurationScan.
package audioprobe
