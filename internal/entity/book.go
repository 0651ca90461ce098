package entity

// Field constraints for Book. The validation layer and the SQL schema both read these.
const (
	TitleMinLen  = 1
	TitleMaxLen  = 255
	AuthorMinLen = 1
	AuthorMaxLen = 100
	YearMin      = 1500
	YearMax      = 2026
)

// Book is the only record kept by the catalog. ID is assigned by the store.
type Book struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   *int   `json:"year"`
}

// HasYear reports whether the book carries a publication year.
func (b Book) HasYear() bool {
	return b.Year != nil
}

// Clone returns a copy that shares no memory with b.
func (b Book) Clone() Book {
	if b.Year != nil {
		y := *b.Year
		b.Year = &y
	}
	return b
}
