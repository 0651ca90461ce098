package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookcatalog/internal/catalog"
	"bookcatalog/internal/store"
)

func TestSeed_AllBooksValid(t *testing.T) {
	svc := catalog.NewService(store.NewMemoryStore(nil))
	ctx := context.Background()

	n, err := seed(ctx, svc, seedBooks())
	require.NoError(t, err)
	assert.Equal(t, len(seedBooks()), n)

	books, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, books, n)
}

func TestSeed_StopsAtInvalidBook(t *testing.T) {
	svc := catalog.NewService(store.NewMemoryStore(nil))

	n, err := seed(context.Background(), svc, []map[string]any{
		{"title": "ok", "author": "ok"},
		{"title": "", "author": "ok"},
	})
	assert.ErrorIs(t, err, catalog.ErrValidationFailed)
	assert.Equal(t, 1, n)
}
