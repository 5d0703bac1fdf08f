package engine

import (
	"context"
	"strings"

	"github.com/PizaSukeruton/tmbot3000/internal/model"
	"github.com/PizaSukeruton/tmbot3000/internal/parse"
	"github.com/PizaSukeruton/tmbot3000/internal/resolve"
	"github.com/PizaSukeruton/tmbot3000/internal/shows"
	"github.com/PizaSukeruton/tmbot3000/internal/vocab"
)

// retrieve decides which retrieval shape fits the parsed query and fetches
// the underlying facts. Given the same query and unchanged backing data, the
// result is identical call to call.
func (e *Engine) retrieve(ctx context.Context, parsed model.ParsedQuery, snap *vocab.Snapshot, locale string) model.RetrievalResult {
	if parsed.Normalized == "" && len(parsed.Entities) == 0 {
		return model.RetrievalResult{}
	}

	// First entity in each vocabulary wins; first match, not best match.
	var term, city string
	for _, ent := range parsed.Entities {
		if term == "" && snap.HasTerm(ent) {
			term = ent
		}
		if city == "" && snap.HasCity(ent) {
			city = ent
		}
	}

	// A standalone flight mention overrides term and city resolution.
	if hasFlightWord(parsed.Normalized) {
		return model.RetrievalResult{
			Kind: model.ResultTravelSchedule,
			Text: e.travelSchedule(ctx, parsed.Normalized, snap),
		}
	}

	if city != "" {
		recs, err := e.shows.Shows(ctx)
		if err != nil {
			e.log.Warn().Err(err).Msg("engine: show source failed")
			recs = nil
		}
		if rec, ok := shows.FirstByCity(recs, city); ok {
			lookup := term
			if lookup == "" {
				lookup = guessTerm(rec, parsed.Normalized)
			}
			if m, ok := resolve.Field(rec, lookup, parsed.Verb); ok {
				recCity, _ := rec.Get("city")
				if lookup == "" {
					// No term anywhere in the query; name the result after
					// the field that won.
					lookup = fieldDisplayName(m.Key)
				}
				if resolve.IsLocationVerb(parsed.Verb) {
					return model.RetrievalResult{
						Kind:  model.ResultContextualLocation,
						Term:  lookup,
						City:  recCity,
						Place: placeString(rec),
					}
				}
				return model.RetrievalResult{
					Kind:  model.ResultContextualTerm,
					Term:  lookup,
					City:  recCity,
					Field: m.Key,
					Value: m.Value,
				}
			}
		}
		if term != "" {
			if def, ok := e.definition(ctx, term, locale); ok {
				return model.RetrievalResult{Kind: model.ResultGenericTerm, Term: term, Definition: def}
			}
		}
		return model.RetrievalResult{}
	}

	if term != "" {
		if def, ok := e.definition(ctx, term, locale); ok {
			return model.RetrievalResult{Kind: model.ResultGenericTerm, Term: term, Definition: def}
		}
	}
	return model.RetrievalResult{}
}

// hasFlightWord reports a standalone "flight"/"flights" word.
func hasFlightWord(normalized string) bool {
	for _, tok := range strings.Fields(normalized) {
		if tok == "flight" || tok == "flights" {
			return true
		}
	}
	return false
}

// guessTerm tries to read a term out of the query from the record's own
// field names: each key's base name (trailing _time/_name stripped) is
// tested against the normalized query, first hit wins.
func guessTerm(rec *model.Record, normalized string) string {
	for _, key := range rec.Keys() {
		base := strings.TrimSuffix(strings.TrimSuffix(key, "_time"), "_name")
		base = parse.Normalize(strings.ReplaceAll(base, "_", " "))
		if base == "" {
			continue
		}
		if strings.Contains(normalized, base) {
			return base
		}
	}
	return ""
}

// fieldDisplayName turns a field key into readable text: trailing
// _time/_name stripped, underscores to spaces.
func fieldDisplayName(key string) string {
	base := strings.TrimSuffix(strings.TrimSuffix(key, "_time"), "_name")
	return strings.ReplaceAll(base, "_", " ")
}

// placeString joins the venue, city, state or region, and country fields,
// skipping blanks.
func placeString(rec *model.Record) string {
	var parts []string
	add := func(keys ...string) {
		for _, k := range keys {
			if v, ok := rec.Get(k); ok && strings.TrimSpace(v) != "" {
				parts = append(parts, strings.TrimSpace(v))
				return
			}
		}
	}
	add("venue_name", "venue")
	add("city")
	add("state", "region")
	add("country")
	return strings.Join(parts, ", ")
}
