package tagmap

import (
	"strconv"
	"strings"
)

// id3Genres is the ID3v1 genre table including the Winamp extensions
// (indices 80..147). ID3v1 stores a genre as an index into this table;
// ID3v2 TCON frames may reference it as "(17)" or a bare "17".
var id3Genres = [...]string{
	"Blues", "Classic Rock", "Country", "Dance", "Disco", "Funk", "Grunge",
	"Hip-Hop", "Jazz", "Metal", "New Age", "Oldies", "Other", "Pop", "R&B",
	"Rap", "Reggae", "Rock", "Techno", "Industrial", "Alternative", "Ska",
	"Death Metal", "Pranks", "Soundtrack", "Euro-Techno", "Ambient",
	"Trip-Hop", "Vocal", "Jazz+Funk", "Fusion", "Trance", "Classical",
	"Instrumental", "Acid", "House", "Game", "Sound Clip", "Gospel",
	"Noise", "AlternRock", "Bass", "Soul", "Punk", "Space", "Meditative",
	"Instrumental Pop", "Instrumental Rock", "Ethnic", "Gothic",
	"Darkwave", "Techno-Industrial", "Electronic", "Pop-Folk",
	"Eurodance", "Dream", "Southern Rock", "Comedy", "Cult", "Gangsta",
	"Top 40", "Christian Rap", "Pop/Funk", "Jungle", "Native American",
	"Cabaret", "New Wave", "Psychedelic", "Rave", "Showtunes", "Trailer",
	"Lo-Fi", "Tribal", "Acid Punk", "Acid Jazz", "Polka", "Retro",
	"Musical", "Rock & Roll", "Hard Rock", "Folk", "Folk-Rock",
	"National Folk", "Swing", "Fast Fusion", "Bebob", "Latin", "Revival",
	"Celtic", "Bluegrass", "Avantgarde", "Gothic Rock", "Progressive Rock",
	"Psychedelic Rock", "Symphonic Rock", "Slow Rock", "Big Band",
	"Chorus", "Easy Listening", "Acoustic", "Humour", "Speech", "Chanson",
	"Opera", "Chamber Music", "Sonata", "Symphony", "Booty Bass", "Primus",
	"Porn Groove", "Satire", "Slow Jam", "Club", "Tango", "Samba",
	"Folklore", "Ballad", "Power Ballad", "Rhythmic Soul", "Freestyle",
	"Duet", "Punk Rock", "Drum Solo", "A capella", "Euro-House", "Dance Hall",
	"Goa", "Drum & Bass", "Club-House", "Hardcore", "Terror", "Indie",
	"Britpop", "Negerpunk", "Polsk Punk", "Beat", "Christian Gangsta Rap",
	"Heavy Metal", "Black Metal", "Crossover", "Contemporary Christian",
	"Christian Rock", "Merengue", "Salsa", "Thrash Metal", "Anime", "JPop",
	"Synthpop",
}

// GenreName resolves an ID3v1 genre index. The second return is false for
// indices past the table (255 conventionally means "no genre").
func GenreName(index int) (string, bool) {
	if index < 0 || index >= len(id3Genres) {
		return "", false
	}
	return id3Genres[index], true
}

// ParseGenre expands one TCON-style genre value into display genres.
//
// ID3v2.3 allows numeric references into the ID3v1 table wrapped in
// parentheses, optionally followed by refinement text: "(17)" is "Rock",
// "(17)Indie" is "Rock" plus "Indie", "((" escapes a literal parenthesis.
// ID3v2.4 drops the parentheses and uses bare numeric strings and the
// specials "RX" (remix) and "CR" (cover). Plain text passes through.
func ParseGenre(value string) []string {
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		switch s {
		case "RX":
			s = "Remix"
		case "CR":
			s = "Cover"
		default:
			if n, err := strconv.Atoi(s); err == nil {
				if name, ok := GenreName(n); ok {
					s = name
				} else {
					return
				}
			}
		}
		for _, seen := range out {
			if seen == s {
				return
			}
		}
		out = append(out, s)
	}

	var text strings.Builder
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c == '(' && i+1 < len(value) && value[i+1] == '(':
			// "((" is an escaped literal parenthesis
			text.WriteByte('(')
			i++
		case c == '(':
			// flush pending text, then consume the "(nn)" reference
			add(text.String())
			text.Reset()
			end := strings.IndexByte(value[i:], ')')
			if end < 0 {
				text.WriteString(value[i:])
				i = len(value)
				break
			}
			add(value[i+1 : i+end])
			i += end
		default:
			text.WriteByte(c)
		}
	}
	add(text.String())
	return out
}
