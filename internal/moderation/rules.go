package moderation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"fjacquet/ia-financiera/internal/textutils"
)

// MatchMode selects how a rule root is searched for.
type MatchMode int

const (
	// ModeSquashed matches the root anywhere in the text with all whitespace
	// removed. Suited to long roots that never occur inside innocent words.
	ModeSquashed MatchMode = iota
	// ModeWordStart matches the root only at the start of a word. Letters after
	// the first may be masked with '*' ("p*ta"), symbols inside the word are
	// ignored ("p.u.t.a") and a word may be split after one or two letters
	// ("pu ta"). Suited to short roots that would false-positive as substrings
	// ("computadora").
	ModeWordStart
)

func (m MatchMode) String() string {
	switch m {
	case ModeSquashed:
		return "squashed"
	case ModeWordStart:
		return "word_start"
	default:
		return fmt.Sprintf("MatchMode(%d)", int(m))
	}
}

// Rule is one row of the moderation table. Except lists innocent words that
// start with a word-start root, such as surnames.
type Rule struct {
	Root   string
	Mode   MatchMode
	Except []string
}

// DefaultRules is the built-in table. New evasions are added here.
var DefaultRules = []Rule{
	{Root: "puta", Mode: ModeWordStart},
	{Root: "puto", Mode: ModeWordStart},
	{Root: "joto", Mode: ModeWordStart},
	{Root: "verga", Mode: ModeWordStart, Except: []string{"vergara"}},
	{Root: "zorra", Mode: ModeWordStart},
	{Root: "culo", Mode: ModeWordStart},
	{Root: "mamon", Mode: ModeWordStart},
	{Root: "porno", Mode: ModeWordStart},
	{Root: "shit", Mode: ModeWordStart},
	{Root: "violar", Mode: ModeWordStart},
	{Root: "pendej", Mode: ModeSquashed},
	{Root: "cabron", Mode: ModeSquashed},
	{Root: "chingad", Mode: ModeSquashed},
	{Root: "chingar", Mode: ModeSquashed},
	{Root: "mierda", Mode: ModeSquashed},
	{Root: "culero", Mode: ModeSquashed},
	{Root: "pinche", Mode: ModeSquashed},
	{Root: "marica", Mode: ModeSquashed},
	{Root: "estupid", Mode: ModeSquashed},
	{Root: "imbecil", Mode: ModeSquashed},
	{Root: "idiota", Mode: ModeSquashed},
	{Root: "fuck", Mode: ModeSquashed},
	{Root: "bitch", Mode: ModeSquashed},
	{Root: "hijodeput", Mode: ModeSquashed},
	{Root: "tevoyamatar", Mode: ModeSquashed},
}

// censorPattern catches self-censored words such as "p**a" or "m**rda".
var censorPattern = regexp.MustCompile(`[a-z]{1,3}\*{2,}[a-z]*`)

type compiledRule struct {
	root   string
	mode   MatchMode
	re     *regexp.Regexp // ModeWordStart only
	except []string
}

func compileRules(rules []Rule) ([]compiledRule, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		root := textutils.NormalizeForModeration(r.Root)
		if root == "" {
			return nil, fmt.Errorf("moderation rule %q normalizes to an empty root", r.Root)
		}

		cr := compiledRule{root: root, mode: r.Mode}
		for _, word := range r.Except {
			if w := textutils.NormalizeForModeration(word); w != "" {
				cr.except = append(cr.except, w)
			}
		}
		switch r.Mode {
		case ModeSquashed:
		case ModeWordStart:
			cr.re = regexp.MustCompile(wordStartPattern(root))
		default:
			return nil, fmt.Errorf("moderation rule %q has unknown mode %s", r.Root, r.Mode)
		}
		compiled = append(compiled, cr)
	}
	return compiled, nil
}

// matchWordStart reports a word-start hit in the masked text or in the glued
// words, ignoring words listed as exceptions.
func (r compiledRule) matchWordStart(spaced string, glued []string) bool {
	for _, loc := range r.re.FindAllStringIndex(spaced, -1) {
		if !r.excepted(wordAt(spaced, loc[0])) {
			return true
		}
	}
	for _, word := range glued {
		if strings.HasPrefix(word, r.root) && !r.excepted(word) {
			return true
		}
	}
	return false
}

func (r compiledRule) excepted(word string) bool {
	for _, e := range r.except {
		if strings.HasPrefix(word, e) {
			return true
		}
	}
	return false
}

// wordAt returns the word of text starting at byte offset i.
func wordAt(text string, i int) string {
	word := text[i:]
	if end := strings.IndexAny(word, " \t\n"); end >= 0 {
		word = word[:end]
	}
	return word
}

// maxGluedWord is the longest word still glued to the next one. Evasions split
// a root after a letter or two ("pu ta"); longer words are kept apart so that
// "por no" never reads as "porno".
const maxGluedWord = 2

// gluedWords returns, for each word of text, the letters of that word followed
// by the following words while they stay short. "la pu ta" gives "laputa",
// "puta" and "ta".
func gluedWords(text string) []string {
	var words []string
	for _, token := range strings.Fields(textutils.Normalize(text)) {
		if w := textutils.LettersOnly(token); w != "" {
			words = append(words, w)
		}
	}

	glued := make([]string, len(words))
	for i := range words {
		var b strings.Builder
		for _, w := range words[i:] {
			b.WriteString(w)
			if utf8.RuneCountInString(w) > maxGluedWord {
				break
			}
		}
		glued[i] = b.String()
	}
	return glued
}

// wordStartPattern builds `\bp[u*][t*][a*]` for "puta".
func wordStartPattern(root string) string {
	var b strings.Builder
	b.WriteString(`\b`)
	for i, r := range root {
		letter := regexp.QuoteMeta(string(r))
		if i == 0 {
			b.WriteString(letter)
			continue
		}
		b.WriteString(`(?:` + letter + `|\*)`)
	}
	return b.String()
}

// collapseSpacedLetters joins runs of two or more single-rune tokens, turning
// "p u t a" into "puta" while leaving other words alone.
func collapseSpacedLetters(text string) string {
	tokens := strings.Fields(text)
	out := make([]string, 0, len(tokens))
	var run strings.Builder
	runLen := 0

	flush := func() {
		if runLen == 0 {
			return
		}
		out = append(out, run.String())
		run.Reset()
		runLen = 0
	}

	for _, tok := range tokens {
		if len([]rune(tok)) == 1 {
			run.WriteString(tok)
			runLen++
			continue
		}
		flush()
		out = append(out, tok)
	}
	flush()

	return strings.Join(out, " ")
}
