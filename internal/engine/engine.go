// Package engine orchestrates the question pipeline: classify, parse,
// retrieve, render.
package engine

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/PizaSukeruton/tmbot3000/internal/flights"
	"github.com/PizaSukeruton/tmbot3000/internal/intent"
	"github.com/PizaSukeruton/tmbot3000/internal/model"
	"github.com/PizaSukeruton/tmbot3000/internal/parse"
	"github.com/PizaSukeruton/tmbot3000/internal/vocab"
)

// DefinitionStore looks up the current answer template for a term.
type DefinitionStore interface {
	GetDefinition(ctx context.Context, termID, locale string) (string, bool, error)
}

// ShowSource returns the current show records.
type ShowSource interface {
	Shows(ctx context.Context) ([]*model.Record, error)
}

// FlightSource returns the current flight rows.
type FlightSource interface {
	Flights(ctx context.Context) ([]model.Flight, error)
}

// Engine answers one message at a time. All failure paths terminate in a
// well-formed response; nothing here may take the host down.
type Engine struct {
	vocab   *vocab.Cache
	defs    DefinitionStore
	shows   ShowSource
	flights FlightSource
	sched   *flights.Scheduler
	log     zerolog.Logger
	pick    func(n int) int
}

// New assembles an engine over its collaborators.
func New(v *vocab.Cache, defs DefinitionStore, showSrc ShowSource, flightSrc FlightSource, sched *flights.Scheduler, log zerolog.Logger) *Engine {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Engine{
		vocab:   v,
		defs:    defs,
		shows:   showSrc,
		flights: flightSrc,
		sched:   sched,
		log:     log,
		pick:    rng.Intn,
	}
}

// GenerateResponse answers a single request. A panic inside any intent
// handler is caught here and converted to an error-typed response.
func (e *Engine) GenerateResponse(ctx context.Context, req model.Request) (resp model.Response) {
	id := uuid.NewString()
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Str("message", req.Message).Msg("engine: handler failure")
			resp = model.Response{
				ID:   id,
				Type: model.ResponseError,
				Text: "Something went wrong while answering that. Try again in a moment.",
			}
		}
	}()

	snap := e.vocab.Snapshot()
	in := intent.Classify(req.Message, snap)
	locale := req.Member.Locale

	resp = model.Response{ID: id, Intent: in.Type, Confidence: in.Confidence}

	switch in.Type {
	case model.IntentHelp:
		resp.Type = model.ResponseHelp
		resp.Text = helpText

	case model.IntentSchedule:
		resp.Type = model.ResponseSchedule
		resp.Text = e.showSchedule(ctx)

	case model.IntentTravel:
		resp.Type = model.ResponseSchedule
		resp.Text = e.travelSchedule(ctx, parse.Normalize(req.Message), snap)

	case model.IntentTermLookup, model.IntentProduction, model.IntentMerch,
		model.IntentFinancial, model.IntentMedia:
		text, rtype := e.answer(ctx, req.Message, snap, locale)
		resp.Type = rtype
		resp.Text = text

	default:
		resp.Type = model.ResponseUnknown
		resp.Text = e.apology()
	}
	return resp
}

// answer runs the retrieval pipeline for term-flavored intents. When
// retrieval comes up empty but the raw message still contains a known term
// as a substring, the generic definition lookup is the last resort before
// declaring failure.
func (e *Engine) answer(ctx context.Context, msg string, snap *vocab.Snapshot, locale string) (string, model.ResponseType) {
	parsed := parse.Parse(msg, snap)
	res := e.retrieve(ctx, parsed, snap, locale)

	if res.Kind == model.ResultNone {
		normalized := parsed.Normalized
		for _, term := range snap.TermsByLength {
			if !strings.Contains(normalized, term) {
				continue
			}
			if def, ok := e.definition(ctx, term, locale); ok {
				res = model.RetrievalResult{Kind: model.ResultGenericTerm, Term: term, Definition: def}
			}
			break
		}
	}

	return e.render(res)
}

// travelSchedule fetches flights and renders the itinerary for the filters
// implied by the message.
func (e *Engine) travelSchedule(ctx context.Context, normalized string, snap *vocab.Snapshot) string {
	rows, err := e.flights.Flights(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("engine: flight source failed")
		rows = nil
	}
	f := flightFilters(normalized, snap)
	deps := e.sched.Upcoming(rows, f, 0)
	return e.sched.Render(deps)
}

// flightFilters derives directional and date filters from the normalized
// message: "to <city>" and "from <city>" name a direction, a bare known city
// filters departures, "today" and "next" narrow the window.
func flightFilters(normalized string, snap *vocab.Snapshot) flights.Filters {
	var f flights.Filters
	tokens := strings.Fields(normalized)

	cityAt := func(start int) string {
		// Cities can be multi-word; try the longest span first.
		for n := 3; n >= 1; n-- {
			if start+n > len(tokens) {
				continue
			}
			candidate := strings.Join(tokens[start:start+n], " ")
			if snap.HasCity(candidate) {
				return candidate
			}
		}
		return ""
	}

	for i, tok := range tokens {
		switch tok {
		case "to":
			if f.ToCity == "" {
				f.ToCity = cityAt(i + 1)
			}
		case "from":
			if f.FromCity == "" {
				f.FromCity = cityAt(i + 1)
			}
		case "today":
			f.Today = true
		case "next":
			f.NextOnly = true
		}
	}

	if f.ToCity == "" && f.FromCity == "" {
		for i := range tokens {
			if city := cityAt(i); city != "" {
				f.City = city
				break
			}
		}
	}
	return f
}

// showSchedule renders the next upcoming show.
func (e *Engine) showSchedule(ctx context.Context) string {
	recs, err := e.shows.Shows(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("engine: show source failed")
		recs = nil
	}

	today := time.Now().UTC().Format("2006-01-02")
	var next *model.Record
	var nextDate string
	for _, rec := range recs {
		date, _ := rec.Get("date")
		if date < today {
			continue
		}
		if next == nil || date < nextDate {
			next = rec
			nextDate = date
		}
	}
	if next == nil {
		return "There are no upcoming shows on the books."
	}

	city, _ := next.Get("city")
	if venue, ok := next.Get("venue_name"); ok && strings.TrimSpace(venue) != "" {
		return "The next show is at " + venue + " in " + city + " on " + nextDate + "."
	}
	return "The next show is in " + city + " on " + nextDate + "."
}

// definition looks up a generic term definition, treating store failures as
// misses.
func (e *Engine) definition(ctx context.Context, term, locale string) (string, bool) {
	def, ok, err := e.defs.GetDefinition(ctx, term, locale)
	if err != nil {
		e.log.Warn().Err(err).Str("term", term).Msg("engine: definition lookup failed")
		return "", false
	}
	return def, ok
}
