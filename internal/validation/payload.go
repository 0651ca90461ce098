package validation

import "bookcatalog/internal/entity"

// CreatePayload is a create request that passed validation.
type CreatePayload struct {
	Title  string
	Author string
	Year   *int
}

// Book returns the record to insert. ID is left for the store.
func (p CreatePayload) Book() entity.Book {
	return entity.Book{Title: p.Title, Author: p.Author, Year: p.Year}.Clone()
}

// UpdatePayload is an update request that passed validation. A set Year
// holding nil clears the stored year.
type UpdatePayload struct {
	Title  Optional[string]
	Author Optional[string]
	Year   Optional[*int]
}

// IsEmpty reports whether no field was sent.
func (p UpdatePayload) IsEmpty() bool {
	return !p.Title.IsSet() && !p.Author.IsSet() && !p.Year.IsSet()
}

// Apply merges the set fields into b and returns the result.
func (p UpdatePayload) Apply(b entity.Book) entity.Book {
	out := b.Clone()
	if v, ok := p.Title.Get(); ok {
		out.Title = v
	}
	if v, ok := p.Author.Get(); ok {
		out.Author = v
	}
	if v, ok := p.Year.Get(); ok {
		out.Year = nil
		if v != nil {
			y := *v
			out.Year = &y
		}
	}
	return out
}

// SearchFilter holds optional search constraints. Empty strings and a nil
// Year mean no constraint.
type SearchFilter struct {
	Title  string
	Author string
	Year   *int
}
