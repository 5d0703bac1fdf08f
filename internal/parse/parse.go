// Package parse turns a raw message into a normalized query with an
// interrogative verb and the vocabulary entities it mentions.
package parse

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PizaSukeruton/tmbot3000/internal/model"
	"github.com/PizaSukeruton/tmbot3000/internal/vocab"
)

var nonWord = regexp.MustCompile(`[^\w\s]+`)

// Normalize lowercases, replaces non-word characters with spaces, collapses
// whitespace and trims.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = nonWord.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// verbPrefixes are the recognized interrogative openers, in normalized form.
// Matching is longest-first so "what time is" wins over "what is"; the slice
// is re-sorted by length at init to keep that ordering explicit.
var verbPrefixes = []string{
	"what time is the",
	"what time are the",
	"what time is",
	"what time are",
	"what day is the",
	"what day is",
	"how much is the",
	"how much are",
	"how much is",
	"how many",
	"where is the",
	"where are the",
	"where is",
	"where are",
	"where s",
	"when is the",
	"when are the",
	"when is",
	"when are",
	"when s",
	"what is the",
	"what is",
	"what s",
	"who is",
	"who are",
	"who s",
}

func init() {
	sort.SliceStable(verbPrefixes, func(i, j int) bool {
		return len(verbPrefixes[i]) > len(verbPrefixes[j])
	})
}

// Verb returns the leading interrogative phrase of normalized text, or ""
// when the text does not open with one.
func Verb(normalized string) string {
	for _, p := range verbPrefixes {
		if normalized == p || strings.HasPrefix(normalized, p+" ") {
			return p
		}
	}
	return ""
}

// hintTokens are fixed domain tokens appended after vocabulary entities.
var hintTokens = []string{"flight", "flights", "show"}

// Parse normalizes msg and extracts its verb and entities against the given
// vocabulary snapshot. Entities are collected terms-first, then cities, then
// the fixed hint tokens, by substring containment, skipping duplicates. An
// empty snapshot simply yields no entities.
func Parse(msg string, snap *vocab.Snapshot) model.ParsedQuery {
	normalized := Normalize(msg)
	if normalized == "" {
		return model.ParsedQuery{}
	}

	q := model.ParsedQuery{
		Verb:       Verb(normalized),
		Normalized: normalized,
	}

	seen := make(map[string]bool)
	collect := func(candidates []string) {
		for _, c := range candidates {
			if c == "" || seen[c] {
				continue
			}
			if strings.Contains(normalized, c) {
				seen[c] = true
				q.Entities = append(q.Entities, c)
			}
		}
	}

	if snap != nil {
		collect(snap.Terms)
		collect(snap.Cities)
	}
	collect(hintTokens)

	return q
}
