package tagmap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/audioprobe/audioprobe/internal/types"
)

// Coercion converts a native tag value into the shape its common field
// expects. The set is closed; every mapping row names one of these.
type Coercion int

const (
	// Identity passes the value through unchanged.
	Identity Coercion = iota
	// Trim passes a string through with surrounding whitespace removed.
	Trim
	// ToInt parses an integer.
	ToInt
	// ToFloat parses a floating-point number.
	ToFloat
	// SplitOnChar splits a string into a sequence on Mapping.Sep.
	SplitOnChar
	// SplitTrackOfTotal parses "no" or "no/of" into a PartOfSet.
	SplitTrackOfTotal
	// ParseDate normalizes yyyy, yyyy-mm or yyyy-mm-dd date strings.
	ParseDate
	// RatioFromDB parses a "-6.00 dB" style gain into a GainValue.
	RatioFromDB
	// DBFromRatio parses a linear peak ratio into a GainValue.
	DBFromRatio
	// GenreWithRefs expands TCON-style numeric genre references.
	GenreWithRefs
	// PictureFromAPIC accepts a picture decoded from an ID3v2 APIC frame.
	PictureFromAPIC
	// PictureFromFLAC accepts a picture decoded from a FLAC picture block.
	PictureFromFLAC
	// RatingPOPM normalizes a rating to [0,1] using the tag system's scale.
	RatingPOPM
)

// Mapping is one row of a tag-system table: which common field a native id
// feeds and how its value is coerced on the way.
type Mapping struct {
	Field  string
	Coerce Coercion
	Sep    string // for SplitOnChar
}

// Apply coerces a native value per the mapping. A nil result with nil error
// means the value carried nothing usable and the assignment is skipped.
func Apply(m Mapping, system types.TagSystem, value any) (any, error) {
	switch m.Coerce {
	case Identity:
		return value, nil

	case Trim:
		return strings.TrimSpace(stringOf(value)), nil

	case ToInt:
		return toInt(value)

	case ToFloat:
		return toFloat(value)

	case SplitOnChar:
		parts := strings.Split(stringOf(value), m.Sep)
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) == 0 {
			return nil, nil
		}
		return out, nil

	case SplitTrackOfTotal:
		return splitOfTotal(value)

	case ParseDate:
		return parseDate(stringOf(value))

	case RatioFromDB:
		db, err := parseDB(stringOf(value))
		if err != nil {
			return nil, err
		}
		return types.GainFromDB(db), nil

	case DBFromRatio:
		ratio, err := toFloat(value)
		if err != nil {
			return nil, err
		}
		return types.GainFromRatio(ratio), nil

	case GenreWithRefs:
		genres := ParseGenre(stringOf(value))
		if len(genres) == 0 {
			return nil, nil
		}
		return genres, nil

	case PictureFromAPIC, PictureFromFLAC:
		pic, ok := value.(types.Picture)
		if !ok {
			return nil, fmt.Errorf("expected picture value, got %T", value)
		}
		return pic, nil

	case RatingPOPM:
		return toRating(system, value)

	default:
		return nil, fmt.Errorf("unknown coercion %d", m.Coerce)
	}
}

func stringOf(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func toInt(value any) (int, error) {
	switch v := value.(type) {
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string, []byte:
		s := strings.TrimSpace(stringOf(v))
		if s == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("not an integer: %q", s)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to integer", value)
	}
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case string, []byte:
		s := strings.TrimSpace(stringOf(v))
		if s == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", s)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to float", value)
	}
}

// splitOfTotal handles every shape a track/disk position arrives in:
// a pre-split PartOfSet, an integer, or "3", "3/12", "3 of 12" strings.
func splitOfTotal(value any) (any, error) {
	switch v := value.(type) {
	case types.PartOfSet:
		return v, nil
	case int64:
		return types.PartOfSet{No: int(v)}, nil
	case uint64:
		return types.PartOfSet{No: int(v)}, nil
	}

	s := strings.TrimSpace(stringOf(value))
	if s == "" {
		return nil, nil
	}
	sep := "/"
	if strings.Contains(s, " of ") {
		sep = " of "
	}
	parts := strings.SplitN(s, sep, 2)
	no, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, fmt.Errorf("invalid position %q", s)
	}
	pos := types.PartOfSet{No: no}
	if len(parts) == 2 {
		if of, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
			pos.Of = of
		}
	}
	return pos, nil
}

// parseDate normalizes release dates to yyyy, yyyy-mm or yyyy-mm-dd.
// Dot and slash separators are tolerated; anything without a leading
// 4-digit year is rejected.
func parseDate(s string) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	s = strings.ReplaceAll(s, ".", "-")
	s = strings.ReplaceAll(s, "/", "-")

	// ID3v2.4 timestamps may carry a time part: 2004-06-01T12:00:00
	if i := strings.IndexByte(s, 'T'); i > 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}

	if len(s) < 4 {
		return nil, fmt.Errorf("invalid date %q", s)
	}
	if _, err := strconv.Atoi(s[:4]); err != nil {
		return nil, fmt.Errorf("invalid date %q", s)
	}
	switch {
	case len(s) >= 10:
		return s[:10], nil
	case len(s) >= 7:
		return s[:7], nil
	default:
		return s[:4], nil
	}
}

// parseDB parses gain strings like "-6.00 dB", "+2.5 dB" or a bare number.
func parseDB(s string) (float64, error) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	lower = strings.TrimSuffix(lower, "db")
	lower = strings.TrimSpace(lower)
	lower = strings.TrimPrefix(lower, "+")
	db, err := strconv.ParseFloat(lower, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid gain %q", s)
	}
	return db, nil
}

// toRating normalizes a rating to [0,1]. Each system uses its own scale:
// POPM bytes run 0..255, Vorbis and iTunes ratings 0..100, and Windows
// Media shared ratings 0..99.
func toRating(system types.TagSystem, value any) (any, error) {
	if r, ok := value.(types.Rating); ok {
		return types.Rating{Source: r.Source, Value: clamp01(r.Value)}, nil
	}

	f, err := toFloat(value)
	if err != nil {
		return nil, err
	}

	var scale float64
	switch system {
	case types.SystemID3v22, types.SystemID3v23, types.SystemID3v24:
		scale = 255
	case types.SystemASF:
		scale = 99
	default:
		scale = 100
	}
	return types.Rating{Value: clamp01(f / scale)}, nil
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
