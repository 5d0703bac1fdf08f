// Package resolve scores the fields of an open-schema record against a
// candidate term and question verb to pick the most relevant one.
package resolve

import (
	"strings"

	"github.com/PizaSukeruton/tmbot3000/internal/model"
)

// Scoring bonuses. A field only qualifies with a strictly positive total
// and a non-blank value.
const (
	scoreMention   = 5 // key mentions the term
	scoreTimeLike  = 3 // key looks like a time field
	scoreVerbAlign = 4 // verb asks for what the key holds
)

// Match is the winning field of a resolution.
type Match struct {
	Key   string
	Score int
	Value string
}

var placeWords = []string{"venue", "city", "state", "region", "country", "location"}

// timeFallback is the preference order used when a time-asking question
// matched no field directly.
var timeFallback = []string{"soundcheck", "loadin", "doors", "show"}

// IsTimeVerb reports whether the verb phrase asks for a time.
func IsTimeVerb(verb string) bool {
	return strings.HasPrefix(verb, "what time") ||
		strings.HasPrefix(verb, "when") ||
		strings.HasPrefix(verb, "what day")
}

// IsLocationVerb reports whether the verb phrase asks for a place.
func IsLocationVerb(verb string) bool {
	return strings.HasPrefix(verb, "where")
}

// IsTimeKey reports whether a field name looks time-like.
func IsTimeKey(key string) bool {
	return strings.Contains(normalize(key), "time")
}

func isPlaceKey(key string) bool {
	nk := normalize(key)
	for _, w := range placeWords {
		if strings.Contains(nk, w) {
			return true
		}
	}
	return false
}

// normalize lowercases and strips everything but letters and digits.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Field picks the record field most relevant to term and verb. Fields are
// scanned in declaration order and equal scores resolve to the later field.
// When nothing scores and the verb asks for a time, the fixed fallback order
// of time fields applies with score 1.
func Field(rec *model.Record, term, verb string) (Match, bool) {
	normTerm := normalize(term)
	timeVerb := IsTimeVerb(verb)
	locVerb := IsLocationVerb(verb)

	var best Match
	for _, key := range rec.Keys() {
		value, _ := rec.Get(key)
		if strings.TrimSpace(value) == "" {
			continue
		}

		score := 0
		normKey := normalize(key)
		if normTerm != "" && strings.Contains(normKey, normTerm) {
			score += scoreMention
		}
		timeKey := strings.Contains(normKey, "time")
		if timeKey {
			score += scoreTimeLike
		}
		if locVerb && isPlaceKey(key) {
			score += scoreVerbAlign
		}
		if timeVerb && timeKey {
			score += scoreVerbAlign
		}

		if score > 0 && score >= best.Score {
			best = Match{Key: key, Score: score, Value: value}
		}
	}

	if best.Score > 0 {
		return best, true
	}

	if timeVerb {
		// Catches records whose time fields don't look time-like by name,
		// e.g. a bare "soundcheck" column.
		for _, stem := range timeFallback {
			for _, key := range rec.Keys() {
				if !strings.Contains(normalize(key), stem) {
					continue
				}
				value, _ := rec.Get(key)
				if strings.TrimSpace(value) == "" {
					continue
				}
				return Match{Key: key, Score: 1, Value: value}, true
			}
		}
	}

	return Match{}, false
}
