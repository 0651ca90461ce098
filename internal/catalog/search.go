package catalog

import (
	"strings"

	"golang.org/x/text/cases"

	"bookcatalog/internal/entity"
	"bookcatalog/internal/validation"
)

// matcher applies a SearchFilter. Title and author match by case-folded
// substring, year by equality. Unset constraints match everything.
type matcher struct {
	title  string
	author string
	year   *int
	fold   cases.Caser
}

func newMatcher(f validation.SearchFilter) *matcher {
	m := &matcher{year: f.Year, fold: cases.Fold()}
	m.title = m.fold.String(f.Title)
	m.author = m.fold.String(f.Author)
	return m
}

func (m *matcher) match(b entity.Book) bool {
	if m.title != "" && !strings.Contains(m.fold.String(b.Title), m.title) {
		return false
	}
	if m.author != "" && !strings.Contains(m.fold.String(b.Author), m.author) {
		return false
	}
	if m.year != nil && (!b.HasYear() || *b.Year != *m.year) {
		return false
	}
	return true
}

func filterBooks(books []entity.Book, f validation.SearchFilter) []entity.Book {
	m := newMatcher(f)
	out := make([]entity.Book, 0, len(books))
	for _, b := range books {
		if m.match(b) {
			out = append(out, b)
		}
	}
	return out
}
