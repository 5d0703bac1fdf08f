// Package store provides the answer-template storage interface and SQLite
// implementation. Templates are keyed by (term_id, locale) and versioned;
// the current template is the highest non-superseded, non-deleted version.
package store

import (
	"context"

	"github.com/PizaSukeruton/tmbot3000/internal/model"
)

// PutParams holds parameters for storing an answer template.
type PutParams struct {
	TermID   string
	Locale   string
	Template string
}

// GetParams holds parameters for retrieving an answer.
type GetParams struct {
	TermID  string
	Locale  string
	History bool
	Version int // 0 means latest
}

// ListParams holds parameters for listing answers.
type ListParams struct {
	Locale string
	Limit  int
}

// RmParams holds parameters for deleting an answer.
type RmParams struct {
	TermID      string
	Locale      string
	AllVersions bool
	Hard        bool
}

// Store defines the answer storage interface.
type Store interface {
	// Put stores a new version of an answer template.
	Put(ctx context.Context, p PutParams) (*model.Answer, error)

	// Get retrieves an answer by term and locale.
	// Returns a slice (single element normally, multiple with History=true).
	Get(ctx context.Context, p GetParams) ([]model.Answer, error)

	// List lists current answers matching the given filters.
	List(ctx context.Context, p ListParams) ([]model.Answer, error)

	// Search finds current answers whose term or template match a substring.
	Search(ctx context.Context, p SearchParams) ([]model.Answer, error)

	// Rm soft-deletes (or hard-deletes) an answer.
	Rm(ctx context.Context, p RmParams) error

	// Import stores a batch of answers, returning how many were written.
	Import(ctx context.Context, answers []model.Answer) (int, error)

	// ListTermIDs returns the distinct term ids that currently have an
	// answer, lowercased. This feeds the term vocabulary.
	ListTermIDs(ctx context.Context) ([]string, error)

	// GetDefinition returns the current template for a term, trying the
	// given locale first and falling back to "en". The bool reports whether
	// a definition was found.
	GetDefinition(ctx context.Context, termID, locale string) (string, bool, error)

	// Close closes the store.
	Close() error
}
