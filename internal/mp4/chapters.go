package mp4

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/audioprobe/audioprobe/internal/collect"
	"github.com/audioprobe/audioprobe/internal/types"
)

// decodeChpl decodes the Nero chapter list: version+flags, 4 reserved
// bytes, a count byte, then one {start in 100 ns units, length-prefixed
// UTF-8 title} record per chapter. Each chapter ends where the next one
// starts; the last ends at the file duration.
func decodeChpl(data []byte, col *collect.Collector) {
	if len(data) < 9 {
		col.Warn("mp4", 0, "chpl box too short")
		return
	}
	count := int(data[8])
	off := 9

	type mark struct {
		start time.Duration
		title string
	}
	marks := make([]mark, 0, count)
	for i := 0; i < count; i++ {
		if off+9 > len(data) {
			col.Warn("mp4", int64(off), "chpl claims %d chapters but ends after %d", count, i)
			break
		}
		start := binary.BigEndian.Uint64(data[off:])
		titleLen := int(data[off+8])
		off += 9
		if off+titleLen > len(data) {
			col.Warn("mp4", int64(off), "chpl chapter %d title runs past the box", i+1)
			break
		}
		if start > math.MaxInt64/100 {
			off += titleLen
			continue
		}
		marks = append(marks, mark{
			start: time.Duration(start * 100),
			title: string(data[off : off+titleLen]),
		})
		off += titleLen
	}

	total := col.Result().Format.Duration
	for i, m := range marks {
		end := total
		if i+1 < len(marks) {
			end = marks[i+1].start
		}
		col.AddChapter(types.Chapter{
			Title:     m.title,
			StartTime: m.start,
			EndTime:   end,
		})
	}
}
