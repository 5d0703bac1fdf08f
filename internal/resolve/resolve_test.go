package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PizaSukeruton/tmbot3000/internal/model"
)

func record(pairs ...string) *model.Record {
	rec := model.NewRecord()
	for i := 0; i+1 < len(pairs); i += 2 {
		rec.Set(pairs[i], pairs[i+1])
	}
	return rec
}

func TestField_TermMention(t *testing.T) {
	rec := record(
		"city", "sydney",
		"soundcheck_time", "16:00",
		"show_time", "20:00",
	)

	m, ok := Field(rec, "soundcheck", "what time is")
	require.True(t, ok)
	assert.Equal(t, "soundcheck_time", m.Key)
	assert.Equal(t, "16:00", m.Value)
	// mention (5) + time-like (3) + time verb alignment (4)
	assert.Equal(t, 12, m.Score)
}

func TestField_LocationVerb(t *testing.T) {
	rec := record(
		"date", "2025-03-15",
		"venue_name", "Qudos Bank Arena",
		"city", "sydney",
		"doors_time", "19:00",
	)

	m, ok := Field(rec, "venue", "where is the")
	require.True(t, ok)
	assert.Equal(t, "venue_name", m.Key)
	// mention (5) + place alignment (4)
	assert.Equal(t, 9, m.Score)
}

func TestField_BlankValuesNeverWin(t *testing.T) {
	rec := record(
		"soundcheck_time", "   ",
		"show_time", "20:00",
	)

	m, ok := Field(rec, "soundcheck", "what time is")
	require.True(t, ok)
	assert.Equal(t, "show_time", m.Key, "blank soundcheck_time must be skipped")
}

func TestField_TieGoesToLastScanned(t *testing.T) {
	// Both keys score identically for a time question with no term; the
	// later declared field wins.
	rec := record(
		"doors_time", "19:00",
		"show_time", "20:00",
	)

	m, ok := Field(rec, "", "what time is")
	require.True(t, ok)
	assert.Equal(t, "show_time", m.Key)
}

func TestField_ScoreMonotonic(t *testing.T) {
	rec := record("soundcheck_time", "16:00")

	full, ok := Field(rec, "soundcheck", "what time is")
	require.True(t, ok)

	noVerb, ok := Field(rec, "soundcheck", "")
	require.True(t, ok)
	assert.Less(t, noVerb.Score, full.Score, "dropping verb alignment must not raise the score")

	noTerm, ok := Field(rec, "", "what time is")
	require.True(t, ok)
	assert.Less(t, noTerm.Score, full.Score, "dropping the mention must not raise the score")
}

func TestField_TimeFallbackOrder(t *testing.T) {
	// No key looks time-like by name and nothing mentions the term, but the
	// question asks for a time: fall back through soundcheck, load-in,
	// doors, show.
	rec := record(
		"venue", "the corner",
		"doors", "",
		"load_in", "12:00",
	)

	m, ok := Field(rec, "zzz", "nonsense verb")
	assert.False(t, ok, "non-time verb gets no fallback")
	_ = m

	m, ok = Field(rec, "", "when is")
	require.True(t, ok)
	assert.Equal(t, "load_in", m.Key)
	assert.Equal(t, 1, m.Score)
}

func TestField_NoCandidate(t *testing.T) {
	rec := record("city", "sydney", "country", "australia")

	_, ok := Field(rec, "guitar", "")
	assert.False(t, ok)
}

func TestVerbHelpers(t *testing.T) {
	assert.True(t, IsTimeVerb("what time is"))
	assert.True(t, IsTimeVerb("when s"))
	assert.False(t, IsTimeVerb("where is"))
	assert.True(t, IsLocationVerb("where is the"))
	assert.False(t, IsLocationVerb("what is"))
	assert.True(t, IsTimeKey("soundcheck_time"))
	assert.False(t, IsTimeKey("venue_name"))
}
