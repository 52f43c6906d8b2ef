// Package extract isolates test and fixture method bodies from Java
// test sources by matching annotated signatures and scanning for the
// balancing closing brace.
//
// The brace scan is purely lexical. Braces inside string and char
// literals are counted like any other brace, so a body holding an
// unbalanced "{" or "}" literal ends at the wrong place.
package extract

import (
	"strings"

	"github.com/unbound-force/whiff/internal/taxonomy"
)

// MatchBrace returns the index of the brace that closes the one at
// open, or -1 when the text ends first. The character at open is
// expected to be '{'.
func MatchBrace(s string, open int) int {
	if open < 0 {
		return -1
	}
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// span returns the text strictly between the brace at open and its
// match.
func span(s string, open int) (string, bool) {
	closing := MatchBrace(s, open)
	if closing <= open {
		return "", false
	}
	return s[open+1 : closing], true
}

// Tests returns the body of every @Test method in text, in order of
// appearance. Signatures whose body never closes are dropped.
func Tests(text string) []taxonomy.Block {
	var blocks []taxonomy.Block
	for _, sig := range Signatures(text) {
		body, ok := span(text, sig.Open)
		if !ok {
			continue
		}
		blocks = append(blocks, taxonomy.Block{Name: sig.Name, Body: body})
	}
	return blocks
}

// Fixture returns the body of the first @BeforeEach method: the text
// inside the first brace pair after the annotation. The second return
// is false when there is no annotation or the braces never balance.
func Fixture(text string) (taxonomy.Block, bool) {
	at := strings.Index(text, FixtureMarker)
	if at < 0 {
		return taxonomy.Block{}, false
	}
	rel := strings.IndexByte(text[at:], '{')
	if rel < 0 {
		return taxonomy.Block{}, false
	}
	body, ok := span(text, at+rel)
	if !ok {
		return taxonomy.Block{}, false
	}
	return taxonomy.Block{Body: body}, true
}
