// Package moderation masks censored words in message content before it is
// persisted. Matching runs on a normalized view of the text (lowercased,
// leet-speak folded, punctuation stripped) so "s.p4m" still matches "spam".
package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

type IModerator interface {
	Sanitize(content string) string
}

type Moderator struct {
	machine  *goahocorasick.Machine
	maskRune rune
}

// leetFold maps common substitution characters back to letters before matching.
var leetFold = map[rune]rune{
	'4': 'a', '@': 'a',
	'3': 'e', '€': 'e',
	'1': 'i', '!': 'i', '|': 'i',
	'0': 'o',
	'5': 's', '$': 's',
}

// NewModerator builds the Aho-Corasick automaton over the normalized word list.
func NewModerator(censoredWords []string, maskRune rune) (*Moderator, error) {
	patterns := make([][]rune, 0, len(censoredWords))
	for _, word := range censoredWords {
		normalized, _ := normalize([]rune(word))
		if len(normalized) > 0 {
			patterns = append(patterns, normalized)
		}
	}
	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{machine: machine, maskRune: maskRune}, nil
}

// Sanitize replaces every matched span with the mask rune, preserving the
// original length and spacing of the content.
func (m *Moderator) Sanitize(content string) string {
	original := []rune(content)
	normalized, positions := normalize(original)
	if len(normalized) == 0 {
		return content
	}

	spans := m.machine.MultiPatternSearch(normalized, false)
	if len(spans) == 0 {
		return content
	}

	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(positions) {
			continue
		}
		// positions maps normalized indexes back to the original runes
		for i := positions[start]; i <= positions[end-1]; i++ {
			original[i] = m.maskRune
		}
	}
	return string(original)
}

// normalize lowercases, folds leet characters and drops punctuation/space,
// returning the searchable runes plus their original positions.
func normalize(input []rune) ([]rune, []int) {
	out := make([]rune, 0, len(input))
	positions := make([]int, 0, len(input))
	for i, r := range input {
		if folded, ok := leetFold[r]; ok {
			r = folded
		}
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		out = append(out, unicode.ToLower(r))
		positions = append(positions, i)
	}
	return out, positions
}
