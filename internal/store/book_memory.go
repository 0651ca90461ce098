package store

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"bookcatalog/internal/entity"
)

// MemoryStore keeps books in a map guarded by one mutex. Each call is atomic
// on its own; nothing spans calls.
type MemoryStore struct {
	mu     sync.RWMutex
	books  map[int64]entity.Book
	nextID int64
	closed bool
}

// NewMemoryStore constructs a MemoryStore seeded with the provided books.
// Seeded books keep their ids and later ids continue after the highest one.
func NewMemoryStore(seed []entity.Book) *MemoryStore {
	s := &MemoryStore{
		books:  make(map[int64]entity.Book, len(seed)),
		nextID: 1,
	}

	for _, b := range seed {
		s.books[b.ID] = b.Clone()
		if b.ID >= s.nextID {
			s.nextID = b.ID + 1
		}
	}

	return s
}

func (s *MemoryStore) Acquire(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	return &memorySession{store: s}, nil
}

// Close makes every later Acquire and every open session fail with ErrClosed.
func (s *MemoryStore) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

type memorySession struct {
	store    *MemoryStore
	released atomic.Bool
}

func (m *memorySession) Release() {
	m.released.Store(true)
}

func (m *memorySession) check(ctx context.Context) error {
	if m.released.Load() {
		return ErrSessionReleased
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.store.closed {
		return ErrClosed
	}
	return nil
}

// List returns all books in ascending id order.
func (m *memorySession) List(ctx context.Context) ([]entity.Book, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	if err := m.check(ctx); err != nil {
		return nil, err
	}

	result := make([]entity.Book, 0, len(m.store.books))
	for _, b := range m.store.books {
		result = append(result, b.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (m *memorySession) Get(ctx context.Context, id int64) (entity.Book, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	if err := m.check(ctx); err != nil {
		return entity.Book{}, err
	}

	b, ok := m.store.books[id]
	if !ok {
		return entity.Book{}, ErrNotFound
	}
	return b.Clone(), nil
}

// Create stores b under the next id. Any id already set on b is ignored.
func (m *memorySession) Create(ctx context.Context, b entity.Book) (entity.Book, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if err := m.check(ctx); err != nil {
		return entity.Book{}, err
	}

	b = b.Clone()
	b.ID = m.store.nextID
	m.store.nextID++

	m.store.books[b.ID] = b
	return b.Clone(), nil
}

// Update replaces the stored book with the same id.
func (m *memorySession) Update(ctx context.Context, b entity.Book) (entity.Book, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if err := m.check(ctx); err != nil {
		return entity.Book{}, err
	}

	if _, ok := m.store.books[b.ID]; !ok {
		return entity.Book{}, ErrNotFound
	}

	m.store.books[b.ID] = b.Clone()
	return b.Clone(), nil
}

// Delete removes the book and returns it as it was.
func (m *memorySession) Delete(ctx context.Context, id int64) (entity.Book, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if err := m.check(ctx); err != nil {
		return entity.Book{}, err
	}

	b, ok := m.store.books[id]
	if !ok {
		return entity.Book{}, ErrNotFound
	}

	delete(m.store.books, id)
	return b, nil
}
