package audioprobe

// Option configures a parse.
//
// Options use the functional options pattern:
//
//	res, err := audioprobe.ParseFile("song.flac",
//	    audioprobe.WithNativeTags(),
//	    audioprobe.WithSkipCovers(),
//	)
type Option func(*parseOptions)

// parseOptions holds configuration for one parse.
type parseOptions struct {
	mimeType        string
	path            string
	fileSize        int64
	nativeTags      bool
	durationScan    bool
	skipCovers      bool
	skipPostHeaders bool
	observer        Observer
	apeOffset       int64
	strictParsing   bool
	maxCoverSize    int
}

// newParseOptions applies opts over the defaults.
func newParseOptions(opts []Option) *parseOptions {
	o := &parseOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithMIMEType supplies a container hint for streams whose leading bytes
// are ambiguous. Magic bytes always win; the hint breaks ties (an 0xFFF
// sync word is ADTS unless the caller insists on audio/mpeg) and is the
// last resort when nothing matches.
func WithMIMEType(mime string) Option {
	return func(o *parseOptions) {
		o.mimeType = mime
	}
}

// WithPath attaches a file path to the parse for diagnostics. Parsing
// behavior is unaffected; the path shows up in errors and warnings.
// ParseFile sets it automatically.
func WithPath(path string) Option {
	return func(o *parseOptions) {
		o.path = path
	}
}

// WithFileSize declares the total stream length when the source itself
// cannot report one. Size-based duration estimates are skipped without it.
//
//	res, err := audioprobe.ParseStream(resp.Body,
//	    audioprobe.WithFileSize(resp.ContentLength),
//	)
func WithFileSize(size int64) Option {
	return func(o *parseOptions) {
		o.fileSize = size
	}
}

// WithNativeTags retains the decoded native tags on the Result, grouped by
// tag system in arrival order. By default only the normalized common view
// is kept.
func WithNativeTags() Option {
	return func(o *parseOptions) {
		o.nativeTags = true
	}
}

// WithDurationScan requests an exact duration even when that means decoding
// every frame header to the end of the stream. Without it, duration comes
// from header fields or a bitrate estimate; with it, parsing cost is
// proportional to file size for frame-based containers.
func WithDurationScan() Option {
	return func(o *parseOptions) {
		o.durationScan = true
	}
}

// WithSkipCovers drops embedded picture payloads. Parsers still advance
// over the picture bytes to keep frame boundaries, but nothing is kept.
// Use this when scanning large libraries for text metadata only.
func WithSkipCovers() Option {
	return func(o *parseOptions) {
		o.skipCovers = true
	}
}

// WithMaxCoverSize skips embedded pictures larger than the given byte
// count, with a warning. Zero (the default) keeps every picture.
func WithMaxCoverSize(bytes int) Option {
	return func(o *parseOptions) {
		o.maxCoverSize = bytes
	}
}

// WithSkipPostHeaders stops each parser once the header metadata is read,
// skipping tag structures behind the audio data (appended ID3v1/APE tags,
// DSF metadata pointers). The cheapest way to read format facts.
func WithSkipPostHeaders() Option {
	return func(o *parseOptions) {
		o.skipPostHeaders = true
	}
}

// WithObserver streams metadata events to fn while the parse runs. Events
// arrive in assignment order; see Observer for the contract.
func WithObserver(fn Observer) Option {
	return func(o *parseOptions) {
		o.observer = fn
	}
}

// WithAPEOffset declares the absolute byte offset of an appended APEv2 tag.
// Sized sources find the offset themselves by scanning the trailer; a
// caller-supplied value takes precedence over the scan. Mostly useful for
// streams, where no trailer scan is possible.
func WithAPEOffset(offset int64) Option {
	return func(o *parseOptions) {
		o.apeOffset = offset
	}
}

// WithStrictParsing treats any warning as a fatal error.
//
// By default, parsing continues past invalid encodings, oversized frames
// and conflicting facts, reporting them in Result.Warnings. With strict
// parsing enabled, the first warning fails the parse.
func WithStrictParsing() Option {
	return func(o *parseOptions) {
		o.strictParsing = true
	}
}
