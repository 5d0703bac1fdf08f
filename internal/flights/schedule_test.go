package flights

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PizaSukeruton/tmbot3000/internal/model"
)

func testScheduler(now time.Time) *Scheduler {
	return &Scheduler{
		DefaultZone: "Australia/Sydney",
		UserZone:    "Australia/Sydney",
		Now:         func() time.Time { return now },
		Log:         zerolog.Nop(),
	}
}

func flight(number, from, to, dep, depZone string) model.Flight {
	return model.Flight{
		Airline:           "Qantas",
		Number:            number,
		DepartureCity:     from,
		ArrivalCity:       to,
		DepartureTime:     dep,
		DepartureTimezone: depZone,
	}
}

// A flight whose departure has already passed is not upcoming, even when the
// directional filter matches.
func TestUpcoming_PastDeparturesDropped(t *testing.T) {
	rows := []model.Flight{
		flight("QF143", "Sydney", "Auckland", "2025-03-15T09:00:00", "Australia/Sydney"),
	}
	// 2025-03-15T09:00 AEDT is 2025-03-14T22:00 UTC; query one day later.
	s := testScheduler(time.Date(2025, 3, 15, 22, 0, 0, 0, time.UTC))

	deps := s.Upcoming(rows, Filters{ToCity: "Auckland"}, 0)
	assert.Empty(t, deps)
	assert.Equal(t, "I found 0 flights.", s.Render(deps))
}

func TestUpcoming_SortedAscending(t *testing.T) {
	rows := []model.Flight{
		flight("QF2", "Sydney", "Melbourne", "2025-03-17T09:00:00", "Australia/Sydney"),
		flight("QF1", "Sydney", "Melbourne", "2025-03-16T09:00:00", "Australia/Sydney"),
		flight("QF3", "Sydney", "Melbourne", "2025-03-18T09:00:00", "Australia/Sydney"),
	}
	s := testScheduler(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))

	deps := s.Upcoming(rows, Filters{}, 0)
	require.Len(t, deps, 3)
	assert.Equal(t, "QF1", deps[0].Flight.Number)
	assert.Equal(t, "QF2", deps[1].Flight.Number)
	assert.Equal(t, "QF3", deps[2].Flight.Number)
}

// ToCity wins over FromCity, which wins over City.
func TestUpcoming_DirectionalFilterPrecedence(t *testing.T) {
	rows := []model.Flight{
		flight("QF1", "Sydney", "Auckland", "2025-03-16T09:00:00", "Australia/Sydney"),
		flight("QF2", "Auckland", "Sydney", "2025-03-17T09:00:00", "Pacific/Auckland"),
	}
	s := testScheduler(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))

	deps := s.Upcoming(rows, Filters{ToCity: "auckland", FromCity: "auckland"}, 0)
	require.Len(t, deps, 1)
	assert.Equal(t, "QF1", deps[0].Flight.Number)

	deps = s.Upcoming(rows, Filters{FromCity: "auckland", City: "sydney"}, 0)
	require.Len(t, deps, 1)
	assert.Equal(t, "QF2", deps[0].Flight.Number)

	// City alone matches the departure city.
	deps = s.Upcoming(rows, Filters{City: "Sydney"}, 0)
	require.Len(t, deps, 1)
	assert.Equal(t, "QF1", deps[0].Flight.Number)
}

func TestUpcoming_Today(t *testing.T) {
	rows := []model.Flight{
		flight("QF1", "Sydney", "Melbourne", "2025-03-16T09:00:00", "Australia/Sydney"),
		flight("QF2", "Sydney", "Melbourne", "2025-03-17T09:00:00", "Australia/Sydney"),
	}
	// Morning of the 16th in Sydney (AEDT, UTC+11).
	s := testScheduler(time.Date(2025, 3, 15, 20, 0, 0, 0, time.UTC))

	deps := s.Upcoming(rows, Filters{Today: true}, 0)
	require.Len(t, deps, 1)
	assert.Equal(t, "QF1", deps[0].Flight.Number)
}

func TestUpcoming_NextOnlyAndLimit(t *testing.T) {
	rows := []model.Flight{
		flight("QF1", "Sydney", "Melbourne", "2025-03-16T09:00:00", "Australia/Sydney"),
		flight("QF2", "Sydney", "Melbourne", "2025-03-17T09:00:00", "Australia/Sydney"),
		flight("QF3", "Sydney", "Melbourne", "2025-03-18T09:00:00", "Australia/Sydney"),
	}
	s := testScheduler(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))

	deps := s.Upcoming(rows, Filters{NextOnly: true}, 0)
	require.Len(t, deps, 1)
	assert.Equal(t, "QF1", deps[0].Flight.Number)

	deps = s.Upcoming(rows, Filters{}, 2)
	require.Len(t, deps, 2)
	assert.Equal(t, "QF2", deps[1].Flight.Number)
}

// Rows without a timezone fall back to the scheduler default; rows whose
// departure time cannot be parsed are dropped.
func TestUpcoming_DefaultZoneAndBadRows(t *testing.T) {
	rows := []model.Flight{
		flight("QF1", "Sydney", "Melbourne", "2025-03-16T09:00:00", ""),
		flight("QF2", "Sydney", "Melbourne", "not a time", "Australia/Sydney"),
	}
	s := testScheduler(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))

	deps := s.Upcoming(rows, Filters{}, 0)
	require.Len(t, deps, 1)
	assert.Equal(t, "QF1", deps[0].Flight.Number)
	// 09:00 AEDT on the 16th is 22:00 UTC on the 15th.
	assert.Equal(t, time.Date(2025, 3, 15, 22, 0, 0, 0, time.UTC), deps[0].At.UTC())
}

func TestFormat(t *testing.T) {
	f := model.Flight{
		Airline:           "Air NZ",
		Number:            "NZ104",
		DepartureCity:     "Sydney",
		ArrivalCity:       "Auckland",
		DepartureTime:     "2025-03-16T11:00:00",
		ArrivalTime:       "2025-03-16T16:05:00",
		DepartureTimezone: "Australia/Sydney",
		Confirmation:      "QX7RT2",
	}
	s := testScheduler(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))
	at, err := time.Parse(time.RFC3339, "2025-03-16T00:00:00Z")
	require.NoError(t, err)

	got := s.Format(Departure{Flight: f, At: at})
	assert.Equal(t,
		"Air NZ NZ104 from Sydney to Auckland on Sunday 16 March 2025 at 11:00, arriving 16:05 (confirmation QX7RT2)",
		got)
}

func TestFormat_NoArrivalOrConfirmation(t *testing.T) {
	f := flight("QF409", "Sydney", "Melbourne", "2025-03-15T09:00:00", "Australia/Sydney")
	s := testScheduler(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC))
	at := time.Date(2025, 3, 14, 22, 0, 0, 0, time.UTC)

	got := s.Format(Departure{Flight: f, At: at})
	assert.Equal(t, "Qantas QF409 from Sydney to Melbourne on Saturday 15 March 2025 at 09:00", got)
}

func TestRender(t *testing.T) {
	s := testScheduler(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))
	f := flight("QF1", "Sydney", "Melbourne", "2025-03-16T09:00:00", "Australia/Sydney")
	at := time.Date(2025, 3, 15, 22, 0, 0, 0, time.UTC)

	got := s.Render([]Departure{{Flight: f, At: at}})
	assert.Equal(t,
		"I found 1 flights.\nQantas QF1 from Sydney to Melbourne on Sunday 16 March 2025 at 09:00",
		got)
}
