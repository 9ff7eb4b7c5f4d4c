// Package textnorm canonicalizes free text before classification and provides
// deterministic seeded selection for dialogue variety.
package textnorm

import (
	"hash/fnv"
	"math/rand"
	"strings"
	"unicode"
)

// diacriticFold maps accented runes to their ASCII base. Covers the Latin-1
// range seen in transcribed speech; anything else passes through.
var diacriticFold = map[rune]rune{
	'à': 'a', 'á': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a', 'å': 'a',
	'è': 'e', 'é': 'e', 'ê': 'e', 'ë': 'e',
	'ì': 'i', 'í': 'i', 'î': 'i', 'ï': 'i',
	'ò': 'o', 'ó': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o',
	'ù': 'u', 'ú': 'u', 'û': 'u', 'ü': 'u',
	'ý': 'y', 'ÿ': 'y',
	'ñ': 'n', 'ç': 'c',
}

// Normalize lowercases, folds diacritics, and collapses runs of whitespace to
// single spaces. Every classifier and keyword scan operates on this form.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastSpace := true
	for _, r := range strings.ToLower(s) {
		if folded, ok := diacriticFold[r]; ok {
			r = folded
		}
		if unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}

	return strings.TrimSpace(b.String())
}

// ContainsWord reports whether term occurs in s on word boundaries. Both
// arguments are expected in normalized form; multi-word terms match across
// their internal spaces.
func ContainsWord(s, term string) bool {
	if term == "" {
		return false
	}
	idx := strings.Index(s, term)
	for idx >= 0 {
		before := idx == 0 || !isWordChar(s[idx-1])
		end := idx + len(term)
		after := end >= len(s) || !isWordChar(s[end])
		if before && after {
			return true
		}
		next := strings.Index(s[idx+1:], term)
		if next < 0 {
			return false
		}
		idx = idx + 1 + next
	}
	return false
}

// ContainsAny reports whether any of terms occurs in s on word boundaries
func ContainsAny(s string, terms []string) bool {
	for _, t := range terms {
		if ContainsWord(s, t) {
			return true
		}
	}
	return false
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9' || b == '_'
}

// Pick returns one of options chosen deterministically from the seed string.
// The same seed always yields the same option, so patient dialogue stays
// stable across retries and replays.
func Pick(seed string, options []string) string {
	if len(options) == 0 {
		return ""
	}
	h := fnv.New64a()
	h.Write([]byte(seed))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))
	return options[rng.Intn(len(options))]
}
