// Package shows reads the show table. Columns are open-schema: whatever the
// header declares becomes the record's fields, in header order.
package shows

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

// Load parses show rows from r. The header row names the columns; each data
// row becomes a Record with fields in header order. Rows missing a date or
// city, and rows whose width does not match the header, are dropped rather
// than failing the load.
func Load(r io.Reader, log zerolog.Logger) ([]*model.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read show header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.ToLower(header[i]))
	}

	var records []*model.Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn().Err(err).Msg("shows: dropping malformed row")
			continue
		}
		if len(row) != len(header) {
			log.Debug().Int("fields", len(row)).Msg("shows: dropping short row")
			continue
		}

		rec := model.NewRecord()
		for i, key := range header {
			rec.Set(key, strings.TrimSpace(row[i]))
		}
		if blank(rec, "date") || blank(rec, "city") {
			log.Debug().Msg("shows: dropping row without date or city")
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func blank(rec *model.Record, key string) bool {
	v, ok := rec.Get(key)
	return !ok || strings.TrimSpace(v) == ""
}

// FirstByCity returns the first record whose city matches, case-insensitively.
func FirstByCity(records []*model.Record, city string) (*model.Record, bool) {
	want := strings.ToLower(strings.TrimSpace(city))
	if want == "" {
		return nil, false
	}
	for _, rec := range records {
		if v, ok := rec.Get("city"); ok && strings.ToLower(strings.TrimSpace(v)) == want {
			return rec, true
		}
	}
	return nil, false
}

// Source reads the show table from a CSV file on every call, so edits to the
// file show up on the next question.
type Source struct {
	path string
	log  zerolog.Logger
}

// NewSource creates a file-backed show source.
func NewSource(path string, log zerolog.Logger) *Source {
	return &Source{path: path, log: log}
}

// Shows returns all current show records. An unreadable table is logged and
// surfaces as no data, never as a fault.
func (s *Source) Shows(ctx context.Context) ([]*model.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("shows: table unavailable")
		return nil, nil
	}
	defer f.Close()
	return Load(f, s.log)
}
