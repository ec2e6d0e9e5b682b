package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const recordColumns = `id, source, keyword_table, result_json, created_at`

// keywordSep joins surfaced keywords in the keywords column
const keywordSep = "\n"

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(s rowScanner) (*Record, error) {
	r := &Record{}
	var payload string
	if err := s.Scan(&r.ID, &r.Source, &r.KeywordTable, &payload, &r.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(payload), &r.Result); err != nil {
		return nil, fmt.Errorf("failed to decode result %s: %w", r.ID, err)
	}
	return r, nil
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	defer rows.Close()

	var records []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

// execer is satisfied by *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SaveResult inserts a classification. ID and CreatedAt are filled in when empty.
func (db *DB) SaveResult(ctx context.Context, r *Record) error {
	return insertRecord(ctx, db, r)
}

// SaveResults inserts a batch in one transaction, so either every record is
// stored or none is. onSaved, when set, is called after each insert.
func (db *DB) SaveResults(ctx context.Context, records []Record, onSaved func(i int)) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		for i := range records {
			if err := insertRecord(ctx, tx, &records[i]); err != nil {
				return fmt.Errorf("failed to save result for %s: %w", records[i].Source, err)
			}
			if onSaved != nil {
				onSaved(i)
			}
		}
		return nil
	})
}

func insertRecord(ctx context.Context, ex execer, r *Record) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	payload, err := json.Marshal(r.Result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	res := r.Result
	_, err = ex.ExecContext(ctx, `
		INSERT INTO results (
			id, source, keyword_table, title, dominant, dominant_code,
			total_a, total_b, interpretation, enhancement, keywords, result_json, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.ID, r.Source, r.KeywordTable, res.Title, string(res.Dominant), res.DominantCode,
		res.TotalA, res.TotalB, string(res.Interpretation), res.Enhancement,
		strings.Join(res.Keywords, keywordSep), string(payload), r.CreatedAt,
	)
	return err
}

// GetResult retrieves a result by ID or unique ID prefix
func (db *DB) GetResult(ctx context.Context, id string) (*Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}

	r, err := scanRecord(db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM results WHERE id = ?`, id))
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM results WHERE id LIKE ? ESCAPE '\' LIMIT 2`, escapeLike(id)+"%")
	if err != nil {
		return nil, err
	}
	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}

	switch len(records) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return &records[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousID, id)
	}
}

// GetResultBySource retrieves the latest result for a source name (case-insensitive)
func (db *DB) GetResultBySource(ctx context.Context, source string) (*Record, error) {
	r, err := scanRecord(db.QueryRowContext(ctx, `
		SELECT `+recordColumns+` FROM results
		WHERE LOWER(source) = LOWER(?)
		ORDER BY created_at DESC LIMIT 1
	`, source))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

// ListResults retrieves results with optional filters, newest first
func (db *DB) ListResults(ctx context.Context, opts ListOptions) ([]Record, error) {
	query := `SELECT ` + recordColumns + ` FROM results WHERE 1=1`
	args := []any{}

	if opts.Dominant != nil {
		query += " AND dominant = ?"
		args = append(args, string(*opts.Dominant))
	}
	if opts.Since != nil {
		query += " AND created_at >= ?"
		args = append(args, *opts.Since)
	}
	if opts.Source != nil {
		query += " AND LOWER(source) LIKE LOWER(?) ESCAPE '\\'"
		args = append(args, "%"+escapeLike(*opts.Source)+"%")
	}

	query += " ORDER BY created_at DESC, id"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
		if opts.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", opts.Offset)
		}
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanRecords(rows)
}

// Search finds results whose source, title or surfaced keywords contain the query
func (db *DB) Search(ctx context.Context, query string) ([]Record, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"

	rows, err := db.QueryContext(ctx, `
		SELECT `+recordColumns+` FROM results
		WHERE LOWER(source) LIKE ? ESCAPE '\'
		   OR LOWER(title) LIKE ? ESCAPE '\'
		   OR LOWER(keywords) LIKE ? ESCAPE '\'
		   OR LOWER(interpretation) LIKE ? ESCAPE '\'
		ORDER BY created_at DESC, id
	`, pattern, pattern, pattern, pattern)
	if err != nil {
		return nil, err
	}
	return scanRecords(rows)
}

// DeleteResult removes a result by its full ID
func (db *DB) DeleteResult(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM results WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// GetStats retrieves aggregate statistics
func (db *DB) GetStats(ctx context.Context, since *time.Time) (*Stats, error) {
	stats := &Stats{ByLabel: map[string]int{}, TopKeywords: []KeywordCount{}}

	whereClause := ""
	args := []any{}
	if since != nil {
		whereClause = "WHERE created_at >= ?"
		args = append(args, *since)
	}

	query := fmt.Sprintf(`
		SELECT
			COUNT(*) as total,
			COALESCE(SUM(CASE WHEN dominant = 'A' THEN 1 ELSE 0 END), 0) as dominant_a,
			COALESCE(SUM(CASE WHEN dominant = 'B' THEN 1 ELSE 0 END), 0) as dominant_b,
			COALESCE(AVG(total_a), 0) as avg_a,
			COALESCE(AVG(total_b), 0) as avg_b
		FROM results %s
	`, whereClause)

	if err := db.QueryRowContext(ctx, query, args...).Scan(
		&stats.TotalResults, &stats.DominantA, &stats.DominantB,
		&stats.AvgTotalA, &stats.AvgTotalB,
	); err != nil {
		return nil, err
	}
	if stats.TotalResults == 0 {
		return stats, nil
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`
		SELECT interpretation, COUNT(*) FROM results %s GROUP BY interpretation
	`, whereClause), args...)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var label string
		var n int
		if err := rows.Scan(&label, &n); err != nil {
			rows.Close()
			return nil, err
		}
		stats.ByLabel[label] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	counts := map[string]int{}
	rows, err = db.QueryContext(ctx, fmt.Sprintf(`SELECT keywords FROM results %s`, whereClause), args...)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var joined string
		if err := rows.Scan(&joined); err != nil {
			rows.Close()
			return nil, err
		}
		for _, kw := range strings.Split(joined, keywordSep) {
			if kw != "" {
				counts[kw]++
			}
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	stats.TopKeywords = topKeywords(counts, 10)

	var last time.Time
	if err := db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT created_at FROM results %s ORDER BY created_at DESC LIMIT 1
	`, whereClause), args...).Scan(&last); err != nil {
		return nil, err
	}
	stats.LastClassified = &last

	return stats, nil
}

func topKeywords(counts map[string]int, n int) []KeywordCount {
	out := make([]KeywordCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, KeywordCount{Keyword: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Keyword < out[j].Keyword
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// escapeLike escapes LIKE wildcards in user input
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
