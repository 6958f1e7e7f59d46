package models

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// Book is the canonical catalog record. The backend is loose about the
// shape it returns: the id may arrive as "id" or "book_id", and numeric
// fields are occasionally encoded as strings. Decoding normalizes all of
// that, so a Book round-trips unchanged once normalized.
type Book struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	PublicationYear int    `json:"publication_year"`
	ISBN            string `json:"isbn"`
	AuthorID        int64  `json:"author_id"`
	AvailableCopies int    `json:"available_copies"`
}

type bookWire struct {
	ID              *flexInt `json:"id"`
	BookID          *flexInt `json:"book_id"`
	Title           string   `json:"title"`
	PublicationYear flexInt  `json:"publication_year"`
	ISBN            string   `json:"isbn"`
	AuthorID        flexInt  `json:"author_id"`
	AvailableCopies *flexInt `json:"available_copies"`
}

func (b *Book) UnmarshalJSON(data []byte) error {
	var w bookWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch {
	case w.ID != nil:
		b.ID = int64(*w.ID)
	case w.BookID != nil:
		b.ID = int64(*w.BookID)
	default:
		b.ID = 0
	}
	b.Title = w.Title
	b.PublicationYear = int(w.PublicationYear)
	b.ISBN = w.ISBN
	b.AuthorID = int64(w.AuthorID)
	// available_copies defaults to 0 when the backend omits it
	if w.AvailableCopies != nil {
		b.AvailableCopies = int(*w.AvailableCopies)
	} else {
		b.AvailableCopies = 0
	}
	return nil
}

// flexInt accepts a JSON number (including the float form some serializers
// emit) or a numeric string.
type flexInt int64

func (n *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		*n = flexInt(v)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errors.New("not a number: " + s)
	}
	*n = flexInt(int64(f))
	return nil
}

// BookDraft is the create payload: a full record minus the server-assigned id.
type BookDraft struct {
	Title           string `json:"title"`
	PublicationYear int    `json:"publication_year"`
	ISBN            string `json:"isbn"`
	AuthorID        int64  `json:"author_id"`
	AvailableCopies int    `json:"available_copies"`
}

// Validate enforces the form-level contract checked before any create call
// reaches the backend.
func (d BookDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return errors.New("title is required")
	}
	if len(d.ISBN) < 5 {
		return errors.New("isbn must be at least 5 characters")
	}
	if d.PublicationYear == 0 {
		return errors.New("publication_year is required")
	}
	if d.AuthorID == 0 {
		return errors.New("author_id is required")
	}
	if d.AvailableCopies < 0 {
		return errors.New("available_copies must be zero or more")
	}
	return nil
}

// BookPatch is a partial update; nil fields are left untouched by the backend.
type BookPatch struct {
	Title           *string `json:"title,omitempty"`
	PublicationYear *int    `json:"publication_year,omitempty"`
	ISBN            *string `json:"isbn,omitempty"`
	AuthorID        *int64  `json:"author_id,omitempty"`
	AvailableCopies *int    `json:"available_copies,omitempty"`
}
