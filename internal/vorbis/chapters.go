package vorbis

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/audioprobe/audioprobe/internal/types"
)

// Chapters folds CHAPTER comments into a chapter list.
//
// Ogg streams mark chapters with CHAPTERxxx / CHAPTERxxxNAME comment pairs,
// xxx a zero-padded chapter number:
//
//	CHAPTER001=00:00:00.000
//	CHAPTER001NAME=Introduction
//
// A chapter needs a timestamp to count; a missing NAME falls back to
// "Chapter N". Each chapter ends where the next starts; the last one ends at
// fileDuration when that is known.
func Chapters(comments []string, fileDuration time.Duration) []types.Chapter {
	type entry struct {
		number    int
		timestamp string
		title     string
	}
	byNumber := make(map[int]*entry)
	get := func(n int) *entry {
		if byNumber[n] == nil {
			byNumber[n] = &entry{number: n}
		}
		return byNumber[n]
	}

	for _, comment := range comments {
		eq := strings.IndexByte(comment, '=')
		if eq < 0 {
			continue
		}
		key := strings.ToUpper(strings.TrimSpace(comment[:eq]))
		value := strings.TrimSpace(comment[eq+1:])
		if !strings.HasPrefix(key, "CHAPTER") {
			continue
		}

		if numStr, found := strings.CutSuffix(key[len("CHAPTER"):], "NAME"); found {
			if num, err := strconv.Atoi(numStr); err == nil {
				get(num).title = value
			}
		} else if num, err := strconv.Atoi(key[len("CHAPTER"):]); err == nil {
			get(num).timestamp = value
		}
	}

	entries := make([]entry, 0, len(byNumber))
	for _, e := range byNumber {
		if e.timestamp == "" {
			continue
		}
		if _, err := parseTimestamp(e.timestamp); err != nil {
			continue
		}
		entries = append(entries, *e)
	}
	if len(entries) == 0 {
		return nil
	}
	slices.SortFunc(entries, func(a, b entry) int {
		return cmp.Compare(a.number, b.number)
	})

	chapters := make([]types.Chapter, len(entries))
	for i, e := range entries {
		start, _ := parseTimestamp(e.timestamp)
		var end time.Duration
		if i < len(entries)-1 {
			end, _ = parseTimestamp(entries[i+1].timestamp)
		} else {
			end = fileDuration
		}
		title := e.title
		if title == "" {
			title = fmt.Sprintf("Chapter %d", e.number)
		}
		chapters[i] = types.Chapter{Title: title, StartTime: start, EndTime: end}
	}
	return chapters
}

// parseTimestamp accepts HH:MM:SS.mmm, MM:SS.mmm, or bare SS.mmm.
func parseTimestamp(ts string) (time.Duration, error) {
	parts := strings.Split(ts, ":")

	var hours, minutes int
	var seconds float64
	var err error
	switch len(parts) {
	case 3:
		if hours, err = strconv.Atoi(parts[0]); err != nil {
			return 0, fmt.Errorf("invalid hours in timestamp %q", ts)
		}
		if minutes, err = strconv.Atoi(parts[1]); err != nil {
			return 0, fmt.Errorf("invalid minutes in timestamp %q", ts)
		}
		if seconds, err = strconv.ParseFloat(parts[2], 64); err != nil {
			return 0, fmt.Errorf("invalid seconds in timestamp %q", ts)
		}
	case 2:
		if minutes, err = strconv.Atoi(parts[0]); err != nil {
			return 0, fmt.Errorf("invalid minutes in timestamp %q", ts)
		}
		if seconds, err = strconv.ParseFloat(parts[1], 64); err != nil {
			return 0, fmt.Errorf("invalid seconds in timestamp %q", ts)
		}
	case 1:
		if seconds, err = strconv.ParseFloat(parts[0], 64); err != nil {
			return 0, fmt.Errorf("invalid seconds in timestamp %q", ts)
		}
	default:
		return 0, fmt.Errorf("invalid timestamp %q", ts)
	}

	if hours < 0 || minutes < 0 || minutes >= 60 || seconds < 0 || seconds >= 60 {
		return 0, fmt.Errorf("timestamp out of range %q", ts)
	}
	total := float64(hours*3600+minutes*60) + seconds
	return time.Duration(total * float64(time.Second)), nil
}
