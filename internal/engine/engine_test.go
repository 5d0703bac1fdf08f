package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/PizaSukeruton/tmbot3000/internal/flights"
	"github.com/PizaSukeruton/tmbot3000/internal/model"
	"github.com/PizaSukeruton/tmbot3000/internal/parse"
	"github.com/PizaSukeruton/tmbot3000/internal/vocab"
)

type fakeDefs struct {
	defs map[string]string
	err  error
}

func (f *fakeDefs) GetDefinition(ctx context.Context, termID, locale string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	def, ok := f.defs[termID]
	return def, ok, nil
}

type fakeShows struct {
	recs []*model.Record
	err  error
}

func (f *fakeShows) Shows(ctx context.Context) ([]*model.Record, error) {
	return f.recs, f.err
}

type panicShows struct{}

func (panicShows) Shows(ctx context.Context) ([]*model.Record, error) {
	panic("show source exploded")
}

type fakeFlights struct {
	rows []model.Flight
	err  error
}

func (f *fakeFlights) Flights(ctx context.Context) ([]model.Flight, error) {
	return f.rows, f.err
}

func sydneyShow() *model.Record {
	rec := model.NewRecord()
	rec.Set("date", "2099-06-01")
	rec.Set("city", "sydney")
	rec.Set("venue_name", "Enmore Theatre")
	rec.Set("state", "NSW")
	rec.Set("country", "Australia")
	rec.Set("soundcheck_time", "16:00")
	rec.Set("show_time", "20:00")
	return rec
}

func newTestEngine(v *vocab.Cache, defs DefinitionStore, showSrc ShowSource, flightSrc FlightSource) *Engine {
	sched := &flights.Scheduler{
		DefaultZone: "Australia/Sydney",
		UserZone:    "Australia/Sydney",
		Now:         func() time.Time { return time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC) },
		Log:         zerolog.Nop(),
	}
	e := New(v, defs, showSrc, flightSrc, sched, zerolog.Nop())
	e.pick = func(int) int { return 0 }
	return e
}

func TestGenerateResponse_ContextualTerm(t *testing.T) {
	v := vocab.NewStatic([]string{"soundcheck"}, []string{"sydney"})
	e := newTestEngine(v,
		&fakeDefs{defs: map[string]string{"soundcheck": "Soundcheck is the pre-show audio check."}},
		&fakeShows{recs: []*model.Record{sydneyShow()}},
		&fakeFlights{})

	resp := e.GenerateResponse(context.Background(), model.Request{Message: "What time is soundcheck in Sydney?"})
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, model.IntentTermLookup, resp.Intent)
	assert.Equal(t, 1.0, resp.Confidence)
	assert.Equal(t, model.ResponseAnswer, resp.Type)
	assert.Equal(t, "The soundcheck for the show in sydney is at 16:00.", resp.Text)
}

// A location verb turns the same query shape into a place answer.
func TestGenerateResponse_ContextualLocation(t *testing.T) {
	v := vocab.NewStatic([]string{"soundcheck"}, []string{"sydney"})
	e := newTestEngine(v, &fakeDefs{},
		&fakeShows{recs: []*model.Record{sydneyShow()}},
		&fakeFlights{})

	resp := e.GenerateResponse(context.Background(), model.Request{Message: "where is soundcheck in sydney"})
	assert.Equal(t, model.ResponseAnswer, resp.Type)
	assert.Equal(t, "The show in sydney is at Enmore Theatre, sydney, NSW, Australia.", resp.Text)
}

func TestGenerateResponse_GenericTerm(t *testing.T) {
	v := vocab.NewStatic([]string{"backline"}, nil)
	e := newTestEngine(v,
		&fakeDefs{defs: map[string]string{"backline": "Backline is the band's amps, cabs and drums."}},
		&fakeShows{}, &fakeFlights{})

	resp := e.GenerateResponse(context.Background(), model.Request{Message: "what is backline"})
	assert.Equal(t, model.IntentTermLookup, resp.Intent)
	assert.Equal(t, model.ResponseAnswer, resp.Type)
	assert.Equal(t, "Backline is the band's amps, cabs and drums.", resp.Text)
}

func TestGenerateResponse_Help(t *testing.T) {
	e := newTestEngine(vocab.NewStatic(nil, nil), &fakeDefs{}, &fakeShows{}, &fakeFlights{})

	resp := e.GenerateResponse(context.Background(), model.Request{Message: "help"})
	assert.Equal(t, model.IntentHelp, resp.Intent)
	assert.Equal(t, 0.99, resp.Confidence)
	assert.Equal(t, model.ResponseHelp, resp.Type)
	assert.Equal(t, helpText, resp.Text)
}

func TestGenerateResponse_ShowSchedule(t *testing.T) {
	e := newTestEngine(vocab.NewStatic(nil, nil), &fakeDefs{},
		&fakeShows{recs: []*model.Record{sydneyShow()}}, &fakeFlights{})

	resp := e.GenerateResponse(context.Background(), model.Request{Message: "what's the schedule looking like"})
	assert.Equal(t, model.IntentSchedule, resp.Intent)
	assert.Equal(t, model.ResponseSchedule, resp.Type)
	assert.Equal(t, "The next show is at Enmore Theatre in sydney on 2099-06-01.", resp.Text)
}

func TestGenerateResponse_ShowScheduleEmpty(t *testing.T) {
	e := newTestEngine(vocab.NewStatic(nil, nil), &fakeDefs{}, &fakeShows{}, &fakeFlights{})

	resp := e.GenerateResponse(context.Background(), model.Request{Message: "what's the schedule"})
	assert.Equal(t, model.ResponseSchedule, resp.Type)
	assert.Equal(t, "There are no upcoming shows on the books.", resp.Text)
}

func TestGenerateResponse_TravelSchedule(t *testing.T) {
	v := vocab.NewStatic(nil, []string{"sydney", "auckland"})
	rows := []model.Flight{
		{
			Airline: "Air NZ", Number: "NZ104",
			DepartureCity: "Sydney", ArrivalCity: "Auckland",
			DepartureTime: "2025-03-16T11:00:00", ArrivalTime: "2025-03-16T16:05:00",
			DepartureTimezone: "Australia/Sydney",
		},
		{
			Airline: "Qantas", Number: "QF143",
			DepartureCity: "Sydney", ArrivalCity: "Auckland",
			DepartureTime: "2025-03-17T09:00:00",
			DepartureTimezone: "Australia/Sydney",
		},
	}
	e := newTestEngine(v, &fakeDefs{}, &fakeShows{}, &fakeFlights{rows: rows})

	resp := e.GenerateResponse(context.Background(), model.Request{Message: "when is the next flight to Auckland?"})
	assert.Equal(t, model.IntentTravel, resp.Intent)
	assert.Equal(t, model.ResponseSchedule, resp.Type)
	assert.Equal(t,
		"I found 1 flights.\nAir NZ NZ104 from Sydney to Auckland on Sunday 16 March 2025 at 11:00, arriving 16:05",
		resp.Text)
}

func TestGenerateResponse_Unknown(t *testing.T) {
	e := newTestEngine(vocab.NewStatic(nil, nil), &fakeDefs{}, &fakeShows{}, &fakeFlights{})

	resp := e.GenerateResponse(context.Background(), model.Request{Message: "sing me a song"})
	assert.Equal(t, model.ResponseUnknown, resp.Type)
	assert.Equal(t, apologies[0], resp.Text)
}

func TestGenerateResponse_PanicBecomesErrorResponse(t *testing.T) {
	e := newTestEngine(vocab.NewStatic(nil, nil), &fakeDefs{}, panicShows{}, &fakeFlights{})

	resp := e.GenerateResponse(context.Background(), model.Request{Message: "what's the schedule"})
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, model.ResponseError, resp.Type)
	assert.Equal(t, "Something went wrong while answering that. Try again in a moment.", resp.Text)
}

// Store failures during definition lookup degrade to the fallback apology,
// never to an error response.
func TestGenerateResponse_StoreFailureFallsBack(t *testing.T) {
	v := vocab.NewStatic([]string{"backline"}, nil)
	e := newTestEngine(v, &fakeDefs{err: errors.New("db locked")}, &fakeShows{}, &fakeFlights{})

	resp := e.GenerateResponse(context.Background(), model.Request{Message: "what is backline"})
	assert.Equal(t, model.ResponseFallback, resp.Type)
	assert.Equal(t, apologies[0], resp.Text)
}

// Same parsed query, unchanged backing data, identical result.
func TestRetrieve_Idempotent(t *testing.T) {
	v := vocab.NewStatic([]string{"soundcheck"}, []string{"sydney"})
	e := newTestEngine(v, &fakeDefs{},
		&fakeShows{recs: []*model.Record{sydneyShow()}},
		&fakeFlights{})

	snap := v.Snapshot()
	parsed := parse.Parse("what time is soundcheck in sydney", snap)

	first := e.retrieve(context.Background(), parsed, snap, "en")
	second := e.retrieve(context.Background(), parsed, snap, "en")
	assert.Equal(t, first, second)
	assert.Equal(t, model.ResultContextualTerm, first.Kind)
	assert.Equal(t, "soundcheck_time", first.Field)
}

func TestFlightFilters(t *testing.T) {
	snap := vocab.NewStatic(nil, []string{"auckland", "new york", "sydney"}).Snapshot()

	f := flightFilters("when is the next flight to auckland", snap)
	assert.Equal(t, "auckland", f.ToCity)
	assert.True(t, f.NextOnly)
	assert.False(t, f.Today)

	f = flightFilters("any flights from new york today", snap)
	assert.Equal(t, "new york", f.FromCity)
	assert.True(t, f.Today)

	// A bare known city without a direction word filters departures.
	f = flightFilters("sydney flights", snap)
	assert.Empty(t, f.ToCity)
	assert.Empty(t, f.FromCity)
	assert.Equal(t, "sydney", f.City)

	f = flightFilters("flights", snap)
	assert.Equal(t, flights.Filters{}, f)
}
