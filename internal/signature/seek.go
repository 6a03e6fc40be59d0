package signature

import "strings"

// Match is the result of applying a Matcher to one trimmed line.
// The zero value is "no match".
type Match struct {
	ok     bool
	marker string
}

// Matched reports a match anchored on marker.
func Matched(marker string) Match {
	return Match{ok: true, marker: marker}
}

// NoMatch reports that the line does not match.
func NoMatch() Match {
	return Match{}
}

// OK reports whether the line matched.
func (m Match) OK() bool { return m.ok }

// Marker returns the anchoring substring of a match.
func (m Match) Marker() string { return m.marker }

// Matcher decides whether a trimmed line matches and which marker anchors it.
type Matcher func(trimmed string) Match

// Cursor is a position produced by Seek: a line index and the offset
// (within the trimmed line) just past the matched marker.
type Cursor struct {
	Line   int
	Offset int
}

// Found reports whether the cursor points at a matched line.
// The not-found cursor has Line == len(lines) and a negative Offset.
func (c Cursor) Found() bool {
	return c.Offset >= 0
}

func notFound(lines []string) Cursor {
	return Cursor{Line: len(lines), Offset: -1}
}

// Seek scans lines forward from start and returns a cursor at the first line
// whose trimmed text satisfies match. Lines at index len(lines) or beyond are
// never examined; when nothing matches the not-found cursor is returned.
func Seek(lines []string, start int, match Matcher) Cursor {
	if start < 0 {
		start = 0
	}

	for i := start; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		m := match(trimmed)
		if !m.ok {
			continue
		}
		idx := strings.Index(trimmed, m.marker)
		if idx < 0 {
			// Matcher reported a marker that is not on the line; anchor at line start.
			idx = 0
		}
		return Cursor{Line: i, Offset: idx + len(m.marker)}
	}

	return notFound(lines)
}

// Contains matches any line containing marker literally.
func Contains(marker string) Matcher {
	return func(trimmed string) Match {
		if strings.Contains(trimmed, marker) {
			return Matched(marker)
		}
		return NoMatch()
	}
}

// ConstructorOf matches a constructor declaration of typeName: a line starting
// with "typeName(" or containing "<modifier> typeName(" for a recognized modifier.
func ConstructorOf(typeName string) Matcher {
	bare := typeName + "("
	return func(trimmed string) Match {
		if strings.HasPrefix(trimmed, bare) {
			return Matched(bare)
		}
		for _, mod := range Modifiers {
			marker := mod + " " + bare
			if strings.Contains(trimmed, marker) {
				return Matched(marker)
			}
		}
		return NoMatch()
	}
}
