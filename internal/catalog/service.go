package catalog

import (
	"context"

	"github.com/rs/zerolog/log"

	"bookcatalog/internal/entity"
	"bookcatalog/internal/store"
	"bookcatalog/internal/validation"
)

// Service runs each catalog operation in its own store session.
type Service struct {
	store store.Manager
}

func NewService(m store.Manager) *Service {
	return &Service{store: m}
}

// Create validates raw and stores a new book. The store assigns the id.
func (s *Service) Create(ctx context.Context, raw map[string]any) (entity.Book, error) {
	p, err := validation.ParseCreate(raw)
	if err != nil {
		return entity.Book{}, err
	}

	b, err := store.WithSession(ctx, s.store, func(sess store.Session) (entity.Book, error) {
		return sess.Create(ctx, p.Book())
	})
	if err != nil {
		return entity.Book{}, mapStoreErr(err)
	}

	log.Debug().Str("op", "create").Int64("book_id", b.ID).Msg("book created")
	return b, nil
}

func (s *Service) Get(ctx context.Context, id int64) (entity.Book, error) {
	if err := validation.ValidateID(id); err != nil {
		return entity.Book{}, err
	}

	b, err := store.WithSession(ctx, s.store, func(sess store.Session) (entity.Book, error) {
		return sess.Get(ctx, id)
	})
	if err != nil {
		log.Debug().Str("op", "get").Int64("book_id", id).Err(err).Msg("get failed")
		return entity.Book{}, mapStoreErr(err)
	}
	return b, nil
}

// List returns every book in ascending id order.
func (s *Service) List(ctx context.Context) ([]entity.Book, error) {
	books, err := store.WithSession(ctx, s.store, func(sess store.Session) ([]entity.Book, error) {
		return sess.List(ctx)
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if books == nil {
		books = []entity.Book{}
	}
	return books, nil
}

// Update merges the fields present in raw into the stored book. The id and
// all fields are validated together before the store is touched. A payload
// with no fields returns the book unchanged.
func (s *Service) Update(ctx context.Context, id int64, raw map[string]any) (entity.Book, error) {
	p, perr := validation.ParseUpdate(raw)
	if err := validation.Join(validation.ValidateID(id), perr); err != nil {
		return entity.Book{}, err
	}

	b, err := store.WithSession(ctx, s.store, func(sess store.Session) (entity.Book, error) {
		current, err := sess.Get(ctx, id)
		if err != nil {
			return entity.Book{}, err
		}
		if p.IsEmpty() {
			return current, nil
		}
		return sess.Update(ctx, p.Apply(current))
	})
	if err != nil {
		log.Debug().Str("op", "update").Int64("book_id", id).Err(err).Msg("update failed")
		return entity.Book{}, mapStoreErr(err)
	}

	log.Debug().Str("op", "update").Int64("book_id", id).Msg("book updated")
	return b, nil
}

// Delete removes the book and returns it as it was just before removal.
func (s *Service) Delete(ctx context.Context, id int64) (entity.Book, error) {
	if err := validation.ValidateID(id); err != nil {
		return entity.Book{}, err
	}

	b, err := store.WithSession(ctx, s.store, func(sess store.Session) (entity.Book, error) {
		return sess.Delete(ctx, id)
	})
	if err != nil {
		log.Debug().Str("op", "delete").Int64("book_id", id).Err(err).Msg("delete failed")
		return entity.Book{}, mapStoreErr(err)
	}

	log.Debug().Str("op", "delete").Int64("book_id", id).Msg("book deleted")
	return b, nil
}

// Search returns the books matching every constraint set in f. No match is an
// empty slice, not an error.
func (s *Service) Search(ctx context.Context, f validation.SearchFilter) ([]entity.Book, error) {
	books, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	found := filterBooks(books, f)
	log.Debug().Str("op", "search").Int("matches", len(found)).Msg("search done")
	return found, nil
}

// Ping acquires and releases a session to check the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	_, err := store.WithSession(ctx, s.store, func(store.Session) (struct{}, error) {
		return struct{}{}, nil
	})
	return mapStoreErr(err)
}
