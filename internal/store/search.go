package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/PizaSukeruton/tmbot3000/internal/model"
)

// SearchParams holds parameters for searching answers.
type SearchParams struct {
	Query  string
	Locale string
	Limit  int
}

// Search finds current answers whose term id or template contain the query
// substring.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]model.Answer, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	query := "%" + p.Query + "%"

	where := []string{"a.deleted_at IS NULL", "(a.term_id LIKE ? OR a.template LIKE ?)"}
	args := []interface{}{query, query}
	if p.Locale != "" {
		where = append(where, "a.locale = ?")
		args = append(args, normLocale(p.Locale))
	}

	sql := fmt.Sprintf(`
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

	rows, err := s.db.QueryContext(ctx, sql, args...)
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
