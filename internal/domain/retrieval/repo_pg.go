package retrieval

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepo is the Postgres-backed code catalog.
type PGRepo struct {
	pool *pgxpool.Pool
}

// NewPGRepo creates a repository over an existing pool.
func NewPGRepo(pool *pgxpool.Pool) *PGRepo {
	return &PGRepo{pool: pool}
}

// Migrate creates the catalog table if missing.
func (r *PGRepo) Migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS diagnosis_codes (
			code    TEXT PRIMARY KEY,
			display TEXT NOT NULL,
			chapter TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_diagnosis_codes_chapter ON diagnosis_codes (chapter);
	`)
	if err != nil {
		return fmt.Errorf("migrate diagnosis_codes: %w", err)
	}
	return nil
}

// Seed upserts the given catalog entries.
func (r *PGRepo) Seed(ctx context.Context, codes []Code) error {
	for _, c := range codes {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO diagnosis_codes (code, display, chapter)
			VALUES ($1, $2, $3)
			ON CONFLICT (code) DO UPDATE SET display = $2, chapter = $3
		`, c.Code, c.Display, c.Chapter)
		if err != nil {
			return fmt.Errorf("seed code %s: %w", c.Code, err)
		}
	}
	return nil
}

func (r *PGRepo) Search(ctx context.Context, term string, limit int) ([]Code, error) {
	if limit <= 0 {
		limit = 500
	}
	rows, err := r.pool.Query(ctx, `
		SELECT code, display, chapter
		FROM diagnosis_codes
		WHERE code ILIKE '%' || $1 || '%' OR display ILIKE '%' || $1 || '%'
		ORDER BY code
		LIMIT $2
	`, term, limit)
	if err != nil {
		return nil, fmt.Errorf("search codes: %w", err)
	}
	defer rows.Close()
	return scanCodes(rows)
}

func (r *PGRepo) GetByCode(ctx context.Context, code string) (*Code, error) {
	var c Code
	err := r.pool.QueryRow(ctx, `
		SELECT code, display, chapter
		FROM diagnosis_codes
		WHERE UPPER(code) = UPPER($1)
	`, code).Scan(&c.Code, &c.Display, &c.Chapter)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get code %s: %w", code, err)
	}
	return &c, nil
}

func (r *PGRepo) ListByChapters(ctx context.Context, chapters []string, limit int) ([]Code, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT code, display, chapter
		FROM diagnosis_codes
		WHERE chapter = ANY($1)
		ORDER BY code
		LIMIT $2
	`, chapters, limit)
	if err != nil {
		return nil, fmt.Errorf("list codes by chapters: %w", err)
	}
	defer rows.Close()
	return scanCodes(rows)
}

func (r *PGRepo) List(ctx context.Context) ([]Code, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT code, display, chapter FROM diagnosis_codes ORDER BY code
	`)
	if err != nil {
		return nil, fmt.Errorf("list codes: %w", err)
	}
	defer rows.Close()
	return scanCodes(rows)
}

func scanCodes(rows pgx.Rows) ([]Code, error) {
	var out []Code
	for rows.Next() {
		var c Code
		if err := rows.Scan(&c.Code, &c.Display, &c.Chapter); err != nil {
			return nil, fmt.Errorf("scan code row: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
