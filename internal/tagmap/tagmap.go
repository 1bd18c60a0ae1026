// Package tagmap holds the static (tag system, tag id) to common-field
// mapping tables and the value coercions that feed the normalized view.
//
// The tables are data, not behavior: every row names the common field a
// native id contributes to and the Coercion that converts its value. The
// collector owns the merge semantics (first-wins scalars, appending
// sequences); this package owns what maps where.
package tagmap

import (
	"strings"

	"github.com/audioprobe/audioprobe/internal/types"
)

var tables = map[types.TagSystem]map[string]Mapping{
	types.SystemID3v1:  id3v1Table,
	types.SystemID3v22: id3v22Table,
	types.SystemID3v23: id3v2xTable,
	types.SystemID3v24: id3v2xTable,
	types.SystemAPEv2:  apeTable,
	types.SystemVorbis: vorbisTable,
	types.SystemITunes: itunesTable,
	types.SystemASF:    asfTable,
	types.SystemRIFF:   riffTable,
	types.SystemAIFF:   aiffTable,
	// SystemMatroska is in the closed tag-system set but nothing emits
	// it: there is no matroska container parser.
}

// folded holds case-insensitive fallback indexes, built once at init.
// APEv2 keys are case-insensitive by spec, and TXXX descriptors show up
// in the wild in every capitalization.
var folded = map[types.TagSystem]map[string]Mapping{}

func init() {
	for system, table := range tables {
		f := make(map[string]Mapping, len(table))
		for id, m := range table {
			key := strings.ToLower(id)
			if _, exists := f[key]; !exists {
				f[key] = m
			}
		}
		folded[system] = f
	}
}

// Lookup finds the mapping row for a native tag. Exact id match first,
// then case-insensitive. The second return is false for unmapped ids;
// those tags stay native-only.
func Lookup(system types.TagSystem, id string) (Mapping, bool) {
	table := tables[system]
	if m, ok := table[id]; ok {
		return m, true
	}
	if m, ok := folded[system][strings.ToLower(id)]; ok {
		return m, true
	}
	return Mapping{}, false
}
