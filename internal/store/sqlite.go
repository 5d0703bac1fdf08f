package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/PizaSukeruton/tmbot3000/internal/model"
)

// DefaultLocale is used when a caller does not specify one.
const DefaultLocale = "en"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS answers (
		id          TEXT PRIMARY KEY,
		term_id     TEXT NOT NULL,
		locale      TEXT NOT NULL DEFAULT 'en',
		template    TEXT NOT NULL,
		version     INTEGER NOT NULL DEFAULT 1,
		supersedes  TEXT,
		created_at  TEXT NOT NULL,
		deleted_at  TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_answers_term_locale ON answers(term_id, locale);
	CREATE INDEX IF NOT EXISTS idx_answers_created ON answers(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_answers_deleted ON answers(deleted_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func normLocale(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" {
		return DefaultLocale
	}
	return locale
}

func (s *SQLiteStore) Put(ctx context.Context, p PutParams) (*model.Answer, error) {
	termID := strings.ToLower(strings.TrimSpace(p.TermID))
	if termID == "" {
		return nil, fmt.Errorf("term id is required")
	}
	if strings.TrimSpace(p.Template) == "" {
		return nil, fmt.Errorf("template is required")
	}
	locale := normLocale(p.Locale)
	now := time.Now().UTC()
	id := s.newID()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Check for existing latest version
	var prevID string
	var prevVersion int
	err = tx.QueryRowContext(ctx,
		`SELECT id, version FROM answers
		 WHERE term_id = ? AND locale = ? AND deleted_at IS NULL
		 ORDER BY version DESC LIMIT 1`, termID, locale).Scan(&prevID, &prevVersion)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	version := 1
	var supersedes *string
	if err == nil {
		version = prevVersion + 1
		supersedes = &prevID
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO answers (id, term_id, locale, template, version, supersedes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, termID, locale, p.Template, version, supersedes, now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert answer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	a := &model.Answer{
		ID:        id,
		TermID:    termID,
		Locale:    locale,
		Template:  p.Template,
		Version:   version,
		CreatedAt: now,
	}
	if supersedes != nil {
		a.Supersedes = *supersedes
	}
	return a, nil
}

const answerCols = `id, term_id, locale, template, version, supersedes, created_at, deleted_at`

func (s *SQLiteStore) Get(ctx context.Context, p GetParams) ([]model.Answer, error) {
	termID := strings.ToLower(strings.TrimSpace(p.TermID))
	locale := normLocale(p.Locale)

	var query string
	var args []interface{}

	if p.History {
		query = `SELECT ` + answerCols + `
				 FROM answers WHERE term_id = ? AND locale = ? AND deleted_at IS NULL
				 ORDER BY version DESC`
		args = []interface{}{termID, locale}
	} else if p.Version > 0 {
		query = `SELECT ` + answerCols + `
				 FROM answers WHERE term_id = ? AND locale = ? AND version = ? AND deleted_at IS NULL
				 LIMIT 1`
		args = []interface{}{termID, locale, p.Version}
	} else {
		query = `SELECT ` + answerCols + `
				 FROM answers WHERE term_id = ? AND locale = ? AND deleted_at IS NULL
				 ORDER BY version DESC LIMIT 1`
		args = []interface{}{termID, locale}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []model.Answer
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}

	if len(answers) == 0 {
		return nil, fmt.Errorf("answer not found: %s/%s", termID, locale)
	}
	return answers, nil
}

func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]model.Answer, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 50
	}

	where := []string{"a.deleted_at IS NULL"}
	var args []interface{}
	if p.Locale != "" {
		where = append(where, "a.locale = ?")
		args = append(args, normLocale(p.Locale))
	}

	// Only the latest version of each term_id+locale
	query := fmt.Sprintf(`
		SELECT a.id, a.term_id, a.locale, a.template, a.version, a.supersedes, a.created_at, a.deleted_at
		FROM answers a
		INNER JOIN (
			SELECT term_id, locale, MAX(version) AS max_ver
			FROM answers WHERE deleted_at IS NULL
			GROUP BY term_id, locale
		) latest ON a.term_id = latest.term_id AND a.locale = latest.locale AND a.version = latest.max_ver
		WHERE %s
		ORDER BY a.term_id, a.locale
		LIMIT ?`, strings.Join(where, " AND "))
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []model.Answer
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, nil
}

func (s *SQLiteStore) Rm(ctx context.Context, p RmParams) error {
	termID := strings.ToLower(strings.TrimSpace(p.TermID))
	locale := normLocale(p.Locale)

	if p.Hard {
		if p.AllVersions {
			_, err := s.db.ExecContext(ctx,
				`DELETE FROM answers WHERE term_id = ? AND locale = ?`, termID, locale)
			return err
		}
		var id string
		err := s.db.QueryRowContext(ctx,
			`SELECT id FROM answers WHERE term_id = ? AND locale = ? AND deleted_at IS NULL ORDER BY version DESC LIMIT 1`,
			termID, locale).Scan(&id)
		if err != nil {
			return fmt.Errorf("answer not found: %s/%s", termID, locale)
		}
		_, err = s.db.ExecContext(ctx, `DELETE FROM answers WHERE id = ?`, id)
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if p.AllVersions {
		_, err := s.db.ExecContext(ctx,
			`UPDATE answers SET deleted_at = ? WHERE term_id = ? AND locale = ? AND deleted_at IS NULL`,
			now, termID, locale)
		return err
	}

	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM answers WHERE term_id = ? AND locale = ? AND deleted_at IS NULL ORDER BY version DESC LIMIT 1`,
		termID, locale).Scan(&id)
	if err != nil {
		return fmt.Errorf("answer not found: %s/%s", termID, locale)
	}
	_, err = s.db.ExecContext(ctx, `UPDATE answers SET deleted_at = ? WHERE id = ?`, now, id)
	return err
}

// Import re-puts each answer, which assigns fresh ids and version chains.
func (s *SQLiteStore) Import(ctx context.Context, answers []model.Answer) (int, error) {
	count := 0
	for _, a := range answers {
		if _, err := s.Put(ctx, PutParams{TermID: a.TermID, Locale: a.Locale, Template: a.Template}); err != nil {
			return count, fmt.Errorf("import %s/%s: %w", a.TermID, a.Locale, err)
		}
		count++
	}
	return count, nil
}

// ListTermIDs returns the distinct term ids with a current answer, sorted.
func (s *SQLiteStore) ListTermIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT lower(term_id) FROM answers WHERE deleted_at IS NULL ORDER BY 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetDefinition returns the current template for termID in the given locale,
// falling back to the default locale when that locale has nothing.
func (s *SQLiteStore) GetDefinition(ctx context.Context, termID, locale string) (string, bool, error) {
	locales := []string{normLocale(locale)}
	if locales[0] != DefaultLocale {
		locales = append(locales, DefaultLocale)
	}

	for _, loc := range locales {
		var template string
		err := s.db.QueryRowContext(ctx,
			`SELECT template FROM answers
			 WHERE term_id = ? AND locale = ? AND deleted_at IS NULL
			 ORDER BY version DESC LIMIT 1`,
			strings.ToLower(strings.TrimSpace(termID)), loc).Scan(&template)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return "", false, err
		}
		return template, true, nil
	}
	return "", false, nil
}

// Stats summarizes the answer table.
type Stats struct {
	Answers  int    `json:"answers"`
	Terms    int    `json:"terms"`
	Locales  int    `json:"locales"`
	DBPath   string `json:"db_path"`
	DBSizeKB int64  `json:"db_size_kb"`
}

// GetStats returns database statistics.
func (s *SQLiteStore) GetStats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT term_id), COUNT(DISTINCT locale)
		FROM answers WHERE deleted_at IS NULL`)
	if err := row.Scan(&st.Answers, &st.Terms, &st.Locales); err != nil {
		return nil, err
	}
	if fi, err := os.Stat(dbPath); err == nil {
		st.DBSizeKB = fi.Size() / 1024
	}
	return st, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAnswer(row scanner) (model.Answer, error) {
	var a model.Answer
	var supersedes, deletedAt sql.NullString
	var createdAt string

	err := row.Scan(&a.ID, &a.TermID, &a.Locale, &a.Template, &a.Version, &supersedes, &createdAt, &deletedAt)
	if err != nil {
		return a, err
	}

	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if supersedes.Valid {
		a.Supersedes = supersedes.String
	}
	if deletedAt.Valid {
		t, _ := time.Parse(time.RFC3339, deletedAt.String)
		a.DeletedAt = &t
	}
	return a, nil
}
