package book

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when no book has the requested id.
	ErrNotFound = errors.New("book not found")

	// ErrDuplicateID is returned when a book is created with an id already in use.
	ErrDuplicateID = errors.New("book id already exists")
)

// ValidationError reports client input that cannot be stored.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Book represents a book entity.
type Book struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Year       int       `json:"year"`
	Author     string    `json:"author"`
	Summary    string    `json:"summary"`
	Publisher  string    `json:"publisher"`
	PageCount  int       `json:"pageCount"`
	ReadPage   int       `json:"readPage"`
	Reading    bool      `json:"reading"`
	Finished   bool      `json:"finished"`
	InsertedAt time.Time `json:"insertedAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Input holds the client-settable fields of a book.
type Input struct {
	Name      string
	Year      int
	Author    string
	Summary   string
	Publisher string
	PageCount int `validate:"gte=0"`
	ReadPage  int `validate:"gte=0"`
	Reading   bool
}

// Summary is the list projection of a book.
type Summary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Publisher string `json:"publisher"`
}

// Filter restricts List results. Nil flags and an empty name apply no restriction.
type Filter struct {
	Name     string
	Reading  *bool
	Finished *bool
}

// FilterFromQuery builds a Filter from raw query parameters.
// A present reading/finished parameter is true only for the exact value "1".
func FilterFromQuery(values url.Values) Filter {
	f := Filter{Name: values.Get("name")}
	if values.Has("reading") {
		v := values.Get("reading") == "1"
		f.Reading = &v
	}
	if values.Has("finished") {
		v := values.Get("finished") == "1"
		f.Finished = &v
	}
	return f
}

// Match reports whether b satisfies every restriction in f.
func (f Filter) Match(b Book) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(b.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.Reading != nil && b.Reading != *f.Reading {
		return false
	}
	if f.Finished != nil && b.Finished != *f.Finished {
		return false
	}
	return true
}

// apply copies the client-settable fields onto b and recomputes Finished.
func (in Input) apply(b *Book) {
	b.Name = in.Name
	b.Year = in.Year
	b.Author = in.Author
	b.Summary = in.Summary
	b.Publisher = in.Publisher
	b.PageCount = in.PageCount
	b.ReadPage = in.ReadPage
	b.Reading = in.Reading
	b.Finished = in.ReadPage == in.PageCount
}

func (b Book) summary() Summary {
	return Summary{ID: b.ID, Name: b.Name, Publisher: b.Publisher}
}
