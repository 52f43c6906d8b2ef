package extract

import "regexp"

// TestMarker and FixtureMarker are the annotations that introduce a
// test method and the per-test setup method.
const (
	TestMarker    = "@Test"
	FixtureMarker = "@BeforeEach"
)

// testSignature matches a @Test annotation followed, on a later line,
// by an optional visibility modifier, a return type, the method name
// and its parameter list, ending at the opening brace of the body.
// Group 2 captures the method name.
var testSignature = regexp.MustCompile(
	`@Test\b[\s\S]*?\n\s*(public|protected|private)?\s*[\w<>\[\]]+\s+(\w+)\s*\([^)]*\)\s*\{`)

// Signature is one matched test method declaration.
type Signature struct {
	// Name is the method name.
	Name string

	// Start is the byte offset of the annotation.
	Start int

	// Open is the byte offset of the body's opening brace.
	Open int
}

// Signatures returns every test method signature in text, in order of
// appearance. Matches never overlap: scanning resumes after the
// opening brace of the previous match.
func Signatures(text string) []Signature {
	locs := testSignature.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	sigs := make([]Signature, 0, len(locs))
	for _, loc := range locs {
		sigs = append(sigs, Signature{
			Name:  text[loc[4]:loc[5]],
			Start: loc[0],
			Open:  loc[1] - 1,
		})
	}
	return sigs
}
