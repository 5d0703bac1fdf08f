package flights

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/PizaSukeruton/tmbot3000/internal/localtime"
	"github.com/PizaSukeruton/tmbot3000/internal/model"
)

// Filters narrows an upcoming-flights query. At most one directional filter
// applies: ToCity wins over FromCity, which wins over City.
type Filters struct {
	ToCity   string
	FromCity string
	City     string
	Today    bool
	NextOnly bool
}

// Departure is a flight row with its computed absolute departure instant.
type Departure struct {
	Flight model.Flight
	At     time.Time
}

// Scheduler computes and formats upcoming flights.
type Scheduler struct {
	// DefaultZone fills in for rows without a departure or arrival timezone.
	DefaultZone string
	// UserZone anchors "today" for the person asking.
	UserZone string
	// Now is the clock, injectable for tests. Nil means time.Now.
	Now func() time.Time

	Log zerolog.Logger
}

func (s *Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Scheduler) zone(name string) string {
	if name != "" {
		return name
	}
	if s.DefaultZone != "" {
		return s.DefaultZone
	}
	return "UTC"
}

// Upcoming attaches departure instants to records, applies the first
// specified directional filter, drops past departures, sorts ascending and
// applies the today/next/limit narrowing. Rows whose departure time cannot
// be converted are dropped.
func (s *Scheduler) Upcoming(records []model.Flight, f Filters, limit int) []Departure {
	var deps []Departure
	for _, rec := range records {
		at, err := localtime.ToUTC(rec.DepartureTime, s.zone(rec.DepartureTimezone))
		if err != nil {
			s.Log.Debug().Err(err).
				Str("flight", rec.Number).
				Msg("flights: dropping row with unusable departure time")
			continue
		}
		deps = append(deps, Departure{Flight: rec, At: at})
	}

	switch {
	case f.ToCity != "":
		deps = filterCity(deps, f.ToCity, func(d Departure) string { return d.Flight.ArrivalCity })
	case f.FromCity != "":
		deps = filterCity(deps, f.FromCity, func(d Departure) string { return d.Flight.DepartureCity })
	case f.City != "":
		deps = filterCity(deps, f.City, func(d Departure) string { return d.Flight.DepartureCity })
	}

	now := s.now()
	upcoming := deps[:0]
	for _, d := range deps {
		if d.At.After(now) {
			upcoming = append(upcoming, d)
		}
	}
	deps = upcoming

	sort.Slice(deps, func(i, j int) bool { return deps[i].At.Before(deps[j].At) })

	if f.Today {
		userLoc, err := time.LoadLocation(s.zone(s.UserZone))
		if err != nil {
			userLoc = time.UTC
		}
		today := now.In(userLoc).Format("2006-01-02")
		kept := deps[:0]
		for _, d := range deps {
			if d.At.In(userLoc).Format("2006-01-02") == today {
				kept = append(kept, d)
			}
		}
		deps = kept
	}

	if f.NextOnly && len(deps) > 1 {
		deps = deps[:1]
	}
	if limit > 0 && len(deps) > limit {
		deps = deps[:limit]
	}
	return deps
}

func filterCity(deps []Departure, city string, field func(Departure) string) []Departure {
	want := strings.ToLower(strings.TrimSpace(city))
	kept := deps[:0]
	for _, d := range deps {
		if strings.ToLower(strings.TrimSpace(field(d))) == want {
			kept = append(kept, d)
		}
	}
	return kept
}

// Format renders one departure in its own departure zone, with weekday,
// date and 24-hour time, the arrival time of day and any confirmation code.
func (s *Scheduler) Format(d Departure) string {
	loc, err := time.LoadLocation(s.zone(d.Flight.DepartureTimezone))
	if err != nil {
		loc = time.UTC
	}
	local := d.At.In(loc)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s from %s to %s on %s at %s",
		d.Flight.Airline, d.Flight.Number,
		d.Flight.DepartureCity, d.Flight.ArrivalCity,
		local.Format("Monday 2 January 2006"), local.Format("15:04"))
	if hm := timeOfDay(d.Flight.ArrivalTime); hm != "" {
		fmt.Fprintf(&b, ", arriving %s", hm)
	}
	if d.Flight.Confirmation != "" {
		fmt.Fprintf(&b, " (confirmation %s)", d.Flight.Confirmation)
	}
	return b.String()
}

// Render produces the full travel-schedule text: the count line followed by
// one formatted line per flight.
func (s *Scheduler) Render(deps []Departure) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I found %d flights.", len(deps))
	for _, d := range deps {
		b.WriteString("\n")
		b.WriteString(s.Format(d))
	}
	return b.String()
}

// timeOfDay extracts HH:MM from a naive local date-time string.
func timeOfDay(naive string) string {
	if len(naive) < 16 {
		return ""
	}
	hm := naive[11:16]
	if hm[2] != ':' {
		return ""
	}
	return hm
}
