// Package intent classifies a free-text message into one of the fixed
// intent categories.
package intent

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PizaSukeruton/tmbot3000/internal/model"
	"github.com/PizaSukeruton/tmbot3000/internal/parse"
	"github.com/PizaSukeruton/tmbot3000/internal/vocab"
)

// rule is one keyword pattern with its intent and fixed confidence.
// Rules are evaluated in declaration order and the first match wins, so a
// message matching both the schedule and production patterns classifies as
// whichever is listed first.
type rule struct {
	intent     model.IntentType
	re         *regexp.Regexp
	confidence float64
}

var rules = []rule{
	{model.IntentSchedule, regexp.MustCompile(`\b(schedule|itinerary|routing|day sheet|set ?times?)\b|\bwhen\b.*\b(show|gig|playing|on stage)\b|\bwhere\b.*\b(show|gig|playing)\b`), 0.9},
	{model.IntentProduction, regexp.MustCompile(`\b(soundcheck|load in|load out|changeover|curfew|backline|doors|stage|production)\b`), 0.85},
	{model.IntentTravel, regexp.MustCompile(`\b(flight|flights|fly|flying|airport|hotel|bus|lobby call|travel)\b`), 0.9},
	{model.IntentMerch, regexp.MustCompile(`\b(merch|merchandise|shirts?|vinyl|posters?)\b`), 0.8},
	{model.IntentFinancial, regexp.MustCompile(`\b(settlement|guarantee|per diems?|deposit|float|buyout|payout)\b`), 0.8},
	{model.IntentMedia, regexp.MustCompile(`\b(press|interviews?|photo pass|radio|promo|meet and greet)\b`), 0.75},
	{model.IntentHelp, regexp.MustCompile(`\bhelp\b|what can you do`), 0.99},
}

// Classify maps text to an intent. The fast path wins unconditionally: if
// the normalized text is exactly a known term, or contains one as a whole
// token sequence, the result is a term_lookup with confidence 1.0 and every
// keyword rule is bypassed. Otherwise the ordered rules run. Classify never
// panics to its caller; an evaluation failure becomes the null intent
// carrying the original text and error.
func Classify(text string, snap *vocab.Snapshot) (in model.Intent) {
	defer func() {
		if r := recover(); r != nil {
			in = model.Intent{
				Type:       model.IntentNone,
				Confidence: 0,
				Entities: map[string]string{
					"text":  text,
					"error": fmt.Sprint(r),
				},
			}
		}
	}()

	normalized := parse.Normalize(text)
	if normalized == "" {
		return model.Intent{Type: model.IntentNone, Confidence: 0}
	}

	if snap != nil {
		if id, ok := termMatch(normalized, snap); ok {
			return model.Intent{
				Type:       model.IntentTermLookup,
				Confidence: 1.0,
				Entities:   map[string]string{"term_id": id},
			}
		}
	}

	for _, r := range rules {
		if r.re.MatchString(normalized) {
			return model.Intent{Type: r.intent, Confidence: r.confidence}
		}
	}

	return model.Intent{Type: model.IntentNone, Confidence: 0}
}

// termMatch implements the fast path: exact match first, then sentence
// containment as whole tokens, longest term first so the most specific one
// wins.
func termMatch(normalized string, snap *vocab.Snapshot) (string, bool) {
	if snap.HasTerm(normalized) {
		return normalized, true
	}
	padded := " " + normalized + " "
	for _, term := range snap.TermsByLength {
		if strings.Contains(padded, " "+term+" ") {
			return term, true
		}
	}
	return "", false
}
