package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"bookcatalog/internal/entity"
)

var schemaStatements = []string{
	fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS books (
		id     BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		title  VARCHAR(%d) NOT NULL CHECK (char_length(title) >= %d),
		author VARCHAR(%d) NOT NULL CHECK (char_length(author) >= %d),
		year   INTEGER CHECK (year BETWEEN %d AND %d)
	)`,
		entity.TitleMaxLen, entity.TitleMinLen,
		entity.AuthorMaxLen, entity.AuthorMinLen,
		entity.YearMin, entity.YearMax,
	),
	`CREATE INDEX IF NOT EXISTS idx_books_title ON books (title)`,
	`CREATE INDEX IF NOT EXISTS idx_books_author ON books (author)`,
	`CREATE INDEX IF NOT EXISTS idx_books_year ON books (year)`,
}

// EnsureSchema creates the books table and its indexes when missing. It is
// safe to run on every start.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
