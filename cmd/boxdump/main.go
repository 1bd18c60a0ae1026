// Command boxdump prints the box tree of an MP4 file. Useful for
// cross-checking what the mp4 parser sees in a given file.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/abema/go-mp4"
	"github.com/sunfish-shogi/bufseekio"
)

func main() {
	payload := flag.Bool("payload", false, "decode and print payload fields of known boxes")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: boxdump [-payload] <file.m4a>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	r := bufseekio.NewReadSeeker(f, 128*1024, 4)
	_, err = mp4.ReadBoxStructure(r, func(h *mp4.ReadHandle) (interface{}, error) {
		indent := strings.Repeat("  ", len(h.Path)-1)
		fmt.Printf("%s%s (size: %d, offset: %d)\n", indent, h.BoxInfo.Type, h.BoxInfo.Size, h.BoxInfo.Offset)

		// mdat and padding boxes can be huge; never load their payloads.
		if !h.BoxInfo.IsSupportedType() ||
			h.BoxInfo.Type == mp4.BoxTypeMdat() ||
			h.BoxInfo.Type == mp4.BoxTypeFree() ||
			h.BoxInfo.Type == mp4.BoxTypeSkip() {
			return nil, nil
		}

		box, _, err := h.ReadPayload()
		if err != nil {
			fmt.Printf("%s  ! %v\n", indent, err)
			return nil, nil
		}
		if *payload {
			if s, err := mp4.Stringify(box, h.BoxInfo.Context); err == nil && s != "" {
				fmt.Printf("%s  %s\n", indent, s)
			}
		}
		return h.Expand()
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
