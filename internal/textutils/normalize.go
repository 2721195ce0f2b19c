package textutils

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Substitution is one row of the leetspeak table. An empty Letter removes the symbol.
type Substitution struct {
	Symbol string
	Letter string
}

// LeetSubstitutions maps common symbol stand-ins to letters. New evasions are
// added here as data.
var LeetSubstitutions = []Substitution{
	{Symbol: "@", Letter: "a"},
	{Symbol: "$", Letter: "s"},
	{Symbol: "3", Letter: "e"},
	{Symbol: "1", Letter: "i"},
	{Symbol: "4", Letter: "a"},
	{Symbol: "0", Letter: "o"},
	{Symbol: "5", Letter: "s"},
	{Symbol: "*", Letter: ""},
	{Symbol: "-", Letter: ""},
	{Symbol: "_", Letter: ""},
}

var (
	leetReplacer       = newReplacer(LeetSubstitutions, "")
	leetMaskedReplacer = newReplacer(LeetSubstitutions, "*")
	lower              = cases.Lower(language.Und)
)

func newReplacer(table []Substitution, keep string) *strings.Replacer {
	pairs := make([]string, 0, len(table)*2)
	for _, sub := range table {
		if sub.Symbol == keep {
			continue
		}
		pairs = append(pairs, sub.Symbol, sub.Letter)
	}
	return strings.NewReplacer(pairs...)
}

// stripMarks decomposes to NFD and drops combining marks.
func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Fold removes accents and lower-cases text. Invalid UTF-8 is dropped first so the
// function is total. Marks are stripped again after lower-casing because some
// lower-case mappings (İ → i̇) introduce combining marks, which would break
// idempotence.
func Fold(text string) string {
	if text == "" {
		return ""
	}
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "")
	}
	s := stripMarks(text)
	s = lower.String(s)
	return stripMarks(s)
}

// Normalize canonicalizes text for keyword matching: accents removed, lower case,
// leetspeak symbols mapped to letters and *, -, _ removed.
// Normalize(Normalize(x)) == Normalize(x) for every x.
func Normalize(text string) string {
	return leetReplacer.Replace(Fold(text))
}

// NormalizeMasked is Normalize but keeps asterisks, which moderation reads as
// masked letters ("p*ta").
func NormalizeMasked(text string) string {
	return leetMaskedReplacer.Replace(Fold(text))
}

// NormalizeForModeration is Normalize reduced to letters: whitespace, dots,
// slashes and any other symbol the leet table does not map are dropped, which
// defeats "p u t a" and "m.i.e.r.d.a" alike.
func NormalizeForModeration(text string) string {
	return LettersOnly(Normalize(text))
}

// LettersOnly drops every rune that is not a Unicode letter.
func LettersOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return r
		}
		return -1
	}, s)
}

// Capitalize trims text and upper-cases its first rune, leaving the rest as is.
func Capitalize(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(text)
	if r == utf8.RuneError {
		return text
	}
	return string(unicode.ToUpper(r)) + text[size:]
}
