// Package localtime converts naive local date-times plus an IANA zone name
// into absolute instants.
package localtime

import (
	"fmt"
	"time"
	// Embed zone data so conversions work on hosts without a tzdata install.
	_ "time/tzdata"
)

// ToUTC converts a naive local date-time ("YYYY-MM-DDTHH:MM:SS", seconds
// optional, "T" or space separator) in the named IANA zone to an absolute
// instant.
//
// The six components are read from fixed string offsets rather than through
// a general date parser, so the ambient timezone can never leak in. The
// fields are first treated as UTC to get a provisional instant, then the
// zone's UTC offset at that instant is subtracted, and the offset is
// recomputed once more at the corrected instant. The second pass settles
// conversions that land within a day of a DST transition; no real-world zone
// shifts its offset twice inside one day, so two passes are enough.
func ToUTC(local, zone string) (time.Time, error) {
	year, month, day, hour, min, sec, err := splitFields(local)
	if err != nil {
		return time.Time{}, err
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("load zone %q: %w", zone, err)
	}

	provisional := time.Date(year, time.Month(month), day, hour, min, sec, 0, time.UTC)
	corrected := provisional.Add(-offsetAt(provisional, loc))
	return provisional.Add(-offsetAt(corrected, loc)), nil
}

// EpochMillis is ToUTC expressed as milliseconds since the Unix epoch.
func EpochMillis(local, zone string) (int64, error) {
	t, err := ToUTC(local, zone)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

// offsetAt returns the zone's UTC offset at instant t.
func offsetAt(t time.Time, loc *time.Location) time.Duration {
	_, off := t.In(loc).Zone()
	return time.Duration(off) * time.Second
}

// splitFields reads YYYY-MM-DD[T ]HH:MM[:SS] at fixed offsets.
func splitFields(s string) (year, month, day, hour, min, sec int, err error) {
	if len(s) < 16 {
		return 0, 0, 0, 0, 0, 0, fmt.Errorf("malformed local time %q", s)
	}
	if s[4] != '-' || s[7] != '-' || (s[10] != 'T' && s[10] != ' ') || s[13] != ':' {
		return 0, 0, 0, 0, 0, 0, fmt.Errorf("malformed local time %q", s)
	}

	fields := [6]struct{ start, width int }{
		{0, 4}, {5, 2}, {8, 2}, {11, 2}, {14, 2}, {17, 2},
	}
	var vals [6]int
	for i, f := range fields {
		if i == 5 {
			// Seconds are optional.
			if len(s) < 19 {
				break
			}
			if s[16] != ':' {
				return 0, 0, 0, 0, 0, 0, fmt.Errorf("malformed local time %q", s)
			}
		}
		vals[i], err = digits(s, f.start, f.width)
		if err != nil {
			return 0, 0, 0, 0, 0, 0, fmt.Errorf("malformed local time %q", s)
		}
	}

	if vals[1] < 1 || vals[1] > 12 || vals[2] < 1 || vals[2] > 31 ||
		vals[3] > 23 || vals[4] > 59 || vals[5] > 59 {
		return 0, 0, 0, 0, 0, 0, fmt.Errorf("local time out of range %q", s)
	}
	return vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], nil
}

func digits(s string, start, width int) (int, error) {
	n := 0
	for i := start; i < start+width; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("non-digit at %d", i)
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}
