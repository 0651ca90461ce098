package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookcatalog/internal/entity"
)

const bookColumns = `id, title, author, year`

// PGStore opens sessions on pooled PostgreSQL connections.
type PGStore struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPGStore(db *pgxpool.Pool, timeout time.Duration) *PGStore {
	return &PGStore{db: db, timeout: timeout}
}

// Acquire checks a connection out of the pool. The session owns it until
// Release.
func (s *PGStore) Acquire(ctx context.Context) (Session, error) {
	conn, err := s.db.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return &pgSession{conn: conn, timeout: s.timeout}, nil
}

type pgSession struct {
	conn    *pgxpool.Conn
	timeout time.Duration
}

func (r *pgSession) Release() {
	if r.conn != nil {
		r.conn.Release()
		r.conn = nil
	}
}

func (r *pgSession) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *pgSession) Create(ctx context.Context, b entity.Book) (entity.Book, error) {
	if r.conn == nil {
		return entity.Book{}, ErrSessionReleased
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	const query = `
	INSERT INTO books (title, author, year)
	VALUES ($1, $2, $3)
	RETURNING ` + bookColumns

	row := r.conn.QueryRow(timeoutCtx, query, b.Title, b.Author, b.Year)
	return scanBook(row)
}

func (r *pgSession) Get(ctx context.Context, id int64) (entity.Book, error) {
	if r.conn == nil {
		return entity.Book{}, ErrSessionReleased
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	const query = `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	return scanBook(r.conn.QueryRow(timeoutCtx, query, id))
}

func (r *pgSession) List(ctx context.Context) ([]entity.Book, error) {
	if r.conn == nil {
		return nil, ErrSessionReleased
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	const query = `SELECT ` + bookColumns + ` FROM books ORDER BY id`

	rows, err := r.conn.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []entity.Book{}
	for rows.Next() {
		var b entity.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Year); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *pgSession) Update(ctx context.Context, b entity.Book) (entity.Book, error) {
	if r.conn == nil {
		return entity.Book{}, ErrSessionReleased
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	const query = `
	UPDATE books
	SET title = $2, author = $3, year = $4
	WHERE id = $1
	RETURNING ` + bookColumns

	return scanBook(r.conn.QueryRow(timeoutCtx, query, b.ID, b.Title, b.Author, b.Year))
}

func (r *pgSession) Delete(ctx context.Context, id int64) (entity.Book, error) {
	if r.conn == nil {
		return entity.Book{}, ErrSessionReleased
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	const query = `DELETE FROM books WHERE id = $1 RETURNING ` + bookColumns

	return scanBook(r.conn.QueryRow(timeoutCtx, query, id))
}

func scanBook(row pgx.Row) (entity.Book, error) {
	var b entity.Book
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Year); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Book{}, ErrNotFound
		}
		return entity.Book{}, err
	}
	return b, nil
}
