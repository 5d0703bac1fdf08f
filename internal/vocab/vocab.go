// Package vocab maintains the live vocabulary: known terminology identifiers
// and known city names, refreshed from their backing sources.
package vocab

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Snapshot is one complete, immutable view of the vocabulary. Readers either
// see a whole snapshot or the empty one; there is no partial state.
type Snapshot struct {
	// Terms and Cities are lowercase and sorted, so scans over them are
	// deterministic.
	Terms  []string
	Cities []string

	// TermsByLength is Terms ordered longest-first, for sentence matching
	// where the most specific term must win.
	TermsByLength []string

	termSet map[string]struct{}
	citySet map[string]struct{}
}

// HasTerm reports whether id is a known terminology identifier.
func (s *Snapshot) HasTerm(id string) bool {
	_, ok := s.termSet[id]
	return ok
}

// HasCity reports whether name is a known city.
func (s *Snapshot) HasCity(name string) bool {
	_, ok := s.citySet[name]
	return ok
}

// Empty reports whether the snapshot holds no vocabulary at all.
func (s *Snapshot) Empty() bool {
	return len(s.Terms) == 0 && len(s.Cities) == 0
}

func newSnapshot(terms, cities []string) *Snapshot {
	s := &Snapshot{
		termSet: make(map[string]struct{}, len(terms)),
		citySet: make(map[string]struct{}, len(cities)),
	}
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := s.termSet[t]; !ok {
			s.termSet[t] = struct{}{}
			s.Terms = append(s.Terms, t)
		}
	}
	for _, c := range cities {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, ok := s.citySet[c]; !ok {
			s.citySet[c] = struct{}{}
			s.Cities = append(s.Cities, c)
		}
	}
	sort.Strings(s.Terms)
	sort.Strings(s.Cities)

	s.TermsByLength = append([]string(nil), s.Terms...)
	sort.SliceStable(s.TermsByLength, func(i, j int) bool {
		return len(s.TermsByLength[i]) > len(s.TermsByLength[j])
	})
	return s
}

// TermLoader lists the known terminology identifiers.
type TermLoader interface {
	ListTermIDs(ctx context.Context) ([]string, error)
}

// CityLoader lists the known city names.
type CityLoader interface {
	Cities(ctx context.Context) ([]string, error)
}

// Cache holds the current vocabulary snapshot and swaps it wholesale on
// refresh. A request arriving before the first load completes sees the empty
// snapshot and degrades to "no entities found".
type Cache struct {
	terms  TermLoader
	cities CityLoader
	log    zerolog.Logger
	snap   atomic.Pointer[Snapshot]
}

// New creates a cache over the given loaders. The cache starts empty;
// call Refresh or Start to populate it.
func New(terms TermLoader, cities CityLoader, log zerolog.Logger) *Cache {
	c := &Cache{terms: terms, cities: cities, log: log}
	c.snap.Store(newSnapshot(nil, nil))
	return c
}

// NewStatic returns a cache pre-populated with a fixed vocabulary and no
// loaders. Used by tests and one-shot tools.
func NewStatic(terms, cities []string) *Cache {
	c := &Cache{log: zerolog.Nop()}
	c.snap.Store(newSnapshot(terms, cities))
	return c
}

// Snapshot returns the current vocabulary snapshot. Never nil.
func (c *Cache) Snapshot() *Snapshot {
	return c.snap.Load()
}

// Refresh loads both vocabularies concurrently and swaps in a new snapshot.
// A loader failure keeps the previous values for that half, so a flaky
// source degrades to stale vocabulary rather than an empty one.
func (c *Cache) Refresh(ctx context.Context) error {
	prev := c.Snapshot()
	terms := prev.Terms
	cities := prev.Cities

	if c.terms == nil && c.cities == nil {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if c.terms == nil {
			return nil
		}
		got, err := c.terms.ListTermIDs(gctx)
		if err != nil {
			c.log.Warn().Err(err).Msg("vocab: term load failed, keeping previous terms")
			return nil
		}
		terms = got
		return nil
	})
	g.Go(func() error {
		if c.cities == nil {
			return nil
		}
		got, err := c.cities.Cities(gctx)
		if err != nil {
			c.log.Warn().Err(err).Msg("vocab: city load failed, keeping previous cities")
			return nil
		}
		cities = got
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	next := newSnapshot(terms, cities)
	c.snap.Store(next)
	c.log.Debug().
		Int("terms", len(next.Terms)).
		Int("cities", len(next.Cities)).
		Msg("vocab: snapshot refreshed")
	return nil
}

// Start kicks off an initial refresh in the background and, when interval is
// positive, keeps refreshing on that interval until ctx is done.
func (c *Cache) Start(ctx context.Context, interval time.Duration) {
	go func() {
		if err := c.Refresh(ctx); err != nil {
			c.log.Warn().Err(err).Msg("vocab: initial refresh failed")
		}
		if interval <= 0 {
			return
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := c.Refresh(ctx); err != nil {
					c.log.Warn().Err(err).Msg("vocab: refresh failed")
				}
			}
		}
	}()
}
