// Package flights reads the flight table and computes upcoming itineraries.
package flights

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/PizaSukeruton/tmbot3000/internal/model"
)

// Column names of the flight table. Header order may vary; columns are
// resolved by name.
const (
	colAirline           = "airline"
	colFlightNumber      = "flight_number"
	colDepartureCity     = "departure_city"
	colArrivalCity       = "arrival_city"
	colDepartureTime     = "departure_time"
	colArrivalTime       = "arrival_time"
	colDepartureTimezone = "departure_timezone"
	colArrivalTimezone   = "arrival_timezone"
	colConfirmation      = "confirmation"
)

// Load parses flight rows from r. Rows without a departure time are dropped;
// a malformed row drops that row, not the load.
func Load(r io.Reader, log zerolog.Logger) ([]model.Flight, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read flight header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.ToLower(name))] = i
	}

	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []model.Flight
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn().Err(err).Msg("flights: dropping malformed row")
			continue
		}

		f := model.Flight{
			Airline:           field(row, colAirline),
			Number:            field(row, colFlightNumber),
			DepartureCity:     field(row, colDepartureCity),
			ArrivalCity:       field(row, colArrivalCity),
			DepartureTime:     field(row, colDepartureTime),
			ArrivalTime:       field(row, colArrivalTime),
			DepartureTimezone: field(row, colDepartureTimezone),
			ArrivalTimezone:   field(row, colArrivalTimezone),
			Confirmation:      field(row, colConfirmation),
		}
		if f.DepartureTime == "" {
			log.Debug().Msg("flights: dropping row without departure time")
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

// Table reads the flight table from a CSV file on every call.
type Table struct {
	path string
	log  zerolog.Logger
}

// NewTable creates a file-backed flight table.
func NewTable(path string, log zerolog.Logger) *Table {
	return &Table{path: path, log: log}
}

// Flights returns all flight rows. An unreadable table is logged and
// surfaces as no data.
func (t *Table) Flights(ctx context.Context) ([]model.Flight, error) {
	f, err := os.Open(t.path)
	if err != nil {
		t.log.Warn().Err(err).Str("path", t.path).Msg("flights: table unavailable")
		return nil, nil
	}
	defer f.Close()
	return Load(f, t.log)
}

// Cities returns the distinct departure and arrival cities of the table,
// lowercased. This is the city half of the vocabulary.
func (t *Table) Cities(ctx context.Context) ([]string, error) {
	rows, err := t.Flights(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var cities []string
	add := func(name string) {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		cities = append(cities, name)
	}
	for _, f := range rows {
		add(f.DepartureCity)
		add(f.ArrivalCity)
	}
	return cities, nil
}
