package store

import (
	"context"
	"errors"

	"bookcatalog/internal/entity"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrSessionReleased = errors.New("session already released")
	ErrClosed          = errors.New("store closed")
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks bookcatalog/internal/store Manager,Session

// Session is one unit-of-work against a backing store. It is not safe for
// concurrent use and must be released exactly once; extra calls to Release
// are no-ops.
type Session interface {
	Create(ctx context.Context, b entity.Book) (entity.Book, error)
	Get(ctx context.Context, id int64) (entity.Book, error)
	List(ctx context.Context) ([]entity.Book, error)
	Update(ctx context.Context, b entity.Book) (entity.Book, error)
	Delete(ctx context.Context, id int64) (entity.Book, error)
	Release()
}

// Manager hands out sessions.
type Manager interface {
	Acquire(ctx context.Context) (Session, error)
}

// WithSession acquires a session, runs fn and releases the session on every
// exit path, panics included.
func WithSession[T any](ctx context.Context, m Manager, fn func(Session) (T, error)) (T, error) {
	s, err := m.Acquire(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	defer s.Release()

	return fn(s)
}
