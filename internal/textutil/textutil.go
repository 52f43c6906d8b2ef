// Package textutil holds the small lexical helpers the smell rules
// are built from: token counting, regex counting and whitespace
// handling that follows JVM string semantics.
package textutil

import (
	"regexp"
	"strings"
)

// Count returns the number of non-overlapping occurrences of token
// in s, scanning left to right.
func Count(s, token string) int {
	if token == "" {
		return 0
	}
	return strings.Count(s, token)
}

// CountRegex returns the number of successive non-overlapping matches
// of re in s.
func CountRegex(s string, re *regexp.Regexp) int {
	return len(re.FindAllStringIndex(s, -1))
}

// ContainsAny reports whether s contains at least one of keys as a
// literal substring.
func ContainsAny(s string, keys ...string) bool {
	for _, k := range keys {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// Trim removes leading and trailing characters at or below U+0020,
// matching java.lang.String#trim rather than unicode.IsSpace.
func Trim(s string) string {
	return strings.TrimFunc(s, func(r rune) bool { return r <= ' ' })
}

// javaSpace is the JVM \s class: space, \t, \n, \x0B, \f, \r.
var javaSpace = regexp.MustCompile(`[ \t\n\x0B\f\r]+`)

// StripSpace removes every whitespace run from s.
func StripSpace(s string) string {
	return javaSpace.ReplaceAllString(s, "")
}

// lineBreak is the JVM \R linebreak matcher.
var lineBreak = regexp.MustCompile(`\r\n|[\n\x0B\f\r\x{85}\x{2028}\x{2029}]`)

// Lines splits s on any linebreak sequence.
func Lines(s string) []string {
	return lineBreak.Split(s, -1)
}
