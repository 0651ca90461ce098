package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookcatalog/internal/entity"
)

func year(y int) *int { return &y }

func acquire(t *testing.T, s *MemoryStore) Session {
	t.Helper()
	sess, err := s.Acquire(context.Background())
	require.NoError(t, err)
	t.Cleanup(sess.Release)
	return sess
}

func TestMemoryStore_CreateAssignsIncreasingIDs(t *testing.T) {
	sess := acquire(t, NewMemoryStore(nil))
	ctx := context.Background()

	first, err := sess.Create(ctx, entity.Book{ID: 99, Title: "A", Author: "B"})
	require.NoError(t, err)
	second, err := sess.Create(ctx, entity.Book{Title: "C", Author: "D"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
}

func TestMemoryStore_IDsNotReusedAfterDelete(t *testing.T) {
	sess := acquire(t, NewMemoryStore(nil))
	ctx := context.Background()

	b, err := sess.Create(ctx, entity.Book{Title: "A", Author: "B"})
	require.NoError(t, err)
	_, err = sess.Delete(ctx, b.ID)
	require.NoError(t, err)

	next, err := sess.Create(ctx, entity.Book{Title: "A", Author: "B"})
	require.NoError(t, err)
	assert.Greater(t, next.ID, b.ID)
}

func TestMemoryStore_SeedContinuesIDs(t *testing.T) {
	s := NewMemoryStore([]entity.Book{{ID: 5, Title: "A", Author: "B"}})
	sess := acquire(t, s)

	b, err := sess.Create(context.Background(), entity.Book{Title: "C", Author: "D"})
	require.NoError(t, err)
	assert.Equal(t, int64(6), b.ID)
}

func TestMemoryStore_ListOrderedByID(t *testing.T) {
	s := NewMemoryStore([]entity.Book{
		{ID: 3, Title: "C", Author: "x"},
		{ID: 1, Title: "A", Author: "x"},
		{ID: 2, Title: "B", Author: "x"},
	})
	sess := acquire(t, s)

	books, err := sess.List(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 3)
	for i, b := range books {
		assert.Equal(t, int64(i+1), b.ID)
	}
}

func TestMemoryStore_ListEmptyIsNonNil(t *testing.T) {
	books, err := acquire(t, NewMemoryStore(nil)).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	sess := acquire(t, NewMemoryStore(nil))
	ctx := context.Background()

	created, err := sess.Create(ctx, entity.Book{Title: "A", Author: "B", Year: year(2000)})
	require.NoError(t, err)
	*created.Year = 1900
	created.Title = "changed"

	got, err := sess.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Title)
	assert.Equal(t, 2000, *got.Year)
}

func TestMemoryStore_NotFound(t *testing.T) {
	sess := acquire(t, NewMemoryStore(nil))
	ctx := context.Background()

	_, err := sess.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = sess.Update(ctx, entity.Book{ID: 1, Title: "A", Author: "B"})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = sess.Delete(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_DeleteReturnsPriorState(t *testing.T) {
	sess := acquire(t, NewMemoryStore(nil))
	ctx := context.Background()

	b, err := sess.Create(ctx, entity.Book{Title: "A", Author: "B", Year: year(1999)})
	require.NoError(t, err)

	deleted, err := sess.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b, deleted)

	_, err = sess.Get(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ReleasedSession(t *testing.T) {
	s := NewMemoryStore(nil)
	sess, err := s.Acquire(context.Background())
	require.NoError(t, err)

	sess.Release()
	sess.Release()

	_, err = sess.List(context.Background())
	assert.ErrorIs(t, err, ErrSessionReleased)
}

func TestMemoryStore_Closed(t *testing.T) {
	s := NewMemoryStore(nil)
	open := acquire(t, s)
	s.Close()

	_, err := s.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
	_, err = open.Get(context.Background(), 1)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMemoryStore_ConcurrentCreates(t *testing.T) {
	s := NewMemoryStore(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess, err := s.Acquire(context.Background())
			if err != nil {
				t.Error(err)
				return
			}
			defer sess.Release()
			if _, err := sess.Create(context.Background(), entity.Book{Title: "A", Author: "B"}); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	books, err := acquire(t, s).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, books, 50)
}

func TestWithSession_ReleasesOnEveryPath(t *testing.T) {
	s := NewMemoryStore(nil)
	ctx := context.Background()
	var held Session

	_, err := WithSession(ctx, s, func(sess Session) (entity.Book, error) {
		held = sess
		return entity.Book{}, errors.New("boom")
	})
	require.Error(t, err)
	_, err = held.List(ctx)
	assert.ErrorIs(t, err, ErrSessionReleased)

	assert.Panics(t, func() {
		_, _ = WithSession(ctx, s, func(sess Session) (int, error) {
			held = sess
			panic("store exploded")
		})
	})
	_, err = held.List(ctx)
	assert.ErrorIs(t, err, ErrSessionReleased)
}

func TestWithSession_AcquireFailure(t *testing.T) {
	s := NewMemoryStore(nil)
	s.Close()

	called := false
	_, err := WithSession(context.Background(), s, func(Session) (int, error) {
		called = true
		return 0, nil
	})
	assert.ErrorIs(t, err, ErrClosed)
	assert.False(t, called)
}
