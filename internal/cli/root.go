// Package cli implements the tmbot3000 CLI commands.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/PizaSukeruton/tmbot3000/internal/engine"
	"github.com/PizaSukeruton/tmbot3000/internal/flights"
	"github.com/PizaSukeruton/tmbot3000/internal/profile"
	"github.com/PizaSukeruton/tmbot3000/internal/shows"
	"github.com/PizaSukeruton/tmbot3000/internal/store"
	"github.com/PizaSukeruton/tmbot3000/internal/vocab"
)

var dataDir string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "tmbot3000",
	Short: "Tour manager bot",
	Long:  "tmbot3000 answers natural-language questions about a touring schedule: shows, venues, flights, and industry terminology.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dataDir, "data", "d", "", "Data directory (default: $TMBOT_DATA or ~/.tmbot3000)")
}

func loadProfile() *profile.Profile {
	p := profile.Load()
	if dataDir != "" {
		p.Data = dataDir
	}
	return p
}

func newLogger(p *profile.Profile) zerolog.Logger {
	level, err := zerolog.ParseLevel(p.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func openStore(p *profile.Profile) (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(p.DBPath())
}

// buildEngine wires the full pipeline: store, tabular sources, vocabulary
// cache, scheduler, engine. The returned close func releases the store.
func buildEngine(p *profile.Profile, log zerolog.Logger) (*engine.Engine, *vocab.Cache, func() error, error) {
	s, err := openStore(p)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open store: %w", err)
	}

	flightTable := flights.NewTable(p.FlightsCSV, log)
	showSource := shows.NewSource(p.ShowsCSV, log)
	cache := vocab.New(s, flightTable, log)
	sched := &flights.Scheduler{
		DefaultZone: p.DefaultFlightZone,
		UserZone:    p.UserZone,
		Log:         log,
	}

	eng := engine.New(cache, s, showSource, flightTable, sched, log)
	return eng, cache, s.Close, nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
