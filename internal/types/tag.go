package types

import (
	"fmt"
	"math"
)

// Tag is one native metadata entry exactly as found in the file. Value holds
// one of: string, int64, uint64, float64, bool, []byte, Picture, Rating,
// PartOfSet. Frames with sub-identifiers (ID3v2 TXXX, WXXX, PRIV, UFID and
// iTunes freeform atoms) use compound IDs such as "TXXX:Acoustid Id".
type Tag struct {
	ID    string `json:"id"`
	Value any    `json:"value"`
}

// PartOfSet is a position within a numbered set, e.g. track 3 of 12.
// Zero means unknown.
type PartOfSet struct {
	No int `json:"no"`
	Of int `json:"of"`
}

func (p PartOfSet) String() string {
	if p.Of > 0 {
		return fmt.Sprintf("%d/%d", p.No, p.Of)
	}
	return fmt.Sprintf("%d", p.No)
}

// Rating is a normalized rating. Value is always in [0, 1]; Source records
// where it came from (a POPM email, "Windows Media Player 9 Series", ...).
type Rating struct {
	Source string  `json:"source,omitempty"`
	Value  float64 `json:"value"`
}

// GainValue is a replay-gain adjustment carried in both of its equivalent
// representations, ratio = 10^(dB/20).
type GainValue struct {
	DB    float64 `json:"dB"`
	Ratio float64 `json:"ratio"`
}

// GainFromDB builds a GainValue from a decibel adjustment.
func GainFromDB(db float64) GainValue {
	return GainValue{DB: db, Ratio: math.Pow(10, db/20)}
}

// GainFromRatio builds a GainValue from a linear amplitude ratio.
func GainFromRatio(ratio float64) GainValue {
	return GainValue{DB: 20 * math.Log10(ratio), Ratio: ratio}
}

// ReplayGainUndo records the per-channel offsets needed to reverse an
// applied MP3 gain change, from an mp3gain_undo tag.
type ReplayGainUndo struct {
	Left  int  `json:"left"`
	Right int  `json:"right"`
	Wrap  bool `json:"wrap"`
}
