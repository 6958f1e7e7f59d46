// Package state holds the client-side state containers and the asynchronous
// operations that reconcile backend responses into them.
//
// Each operation is a plain function: it performs one HTTP call and returns a
// single settled message carrying either the payload or the error. State
// containers mutate only inside Apply, which the UI's single-threaded update
// loop feeds one message at a time. Overlapping calls to the same operation
// are not deduplicated; whichever settles last overwrites state.
package state

import (
	"context"
	"errors"

	"github.com/xaenox/bookdesk/internal/api"
	"github.com/xaenox/bookdesk/internal/models"
)

// BooksAPI is the slice of the HTTP client the books module needs.
type BooksAPI interface {
	ListBooks(ctx context.Context) ([]models.Book, error)
	CreateBook(ctx context.Context, draft models.BookDraft) (models.Book, error)
	UpdateBook(ctx context.Context, id int64, patch models.BookPatch) (models.Book, error)
	DeleteBook(ctx context.Context, id int64) error
}

// BooksState owns the catalog list plus the fetch status of the books module.
type BooksState struct {
	Items   []models.Book
	Loading bool
	Err     string
}

// Settled operation results.
type (
	BooksFetched struct {
		Books []models.Book
		Err   error
	}
	BookCreated struct {
		Book models.Book
		Err  error
	}
	BookUpdated struct {
		Book models.Book
		Err  error
	}
	BookDeleted struct {
		ID  int64
		Err error
	}
)

func FetchBooks(ctx context.Context, booksAPI BooksAPI) BooksFetched {
	books, err := booksAPI.ListBooks(ctx)
	return BooksFetched{Books: books, Err: err}
}

func CreateBook(ctx context.Context, booksAPI BooksAPI, draft models.BookDraft) BookCreated {
	book, err := booksAPI.CreateBook(ctx, draft)
	return BookCreated{Book: book, Err: err}
}

func UpdateBook(ctx context.Context, booksAPI BooksAPI, id int64, patch models.BookPatch) BookUpdated {
	book, err := booksAPI.UpdateBook(ctx, id, patch)
	return BookUpdated{Book: book, Err: err}
}

func DeleteBook(ctx context.Context, booksAPI BooksAPI, id int64) BookDeleted {
	return BookDeleted{ID: id, Err: booksAPI.DeleteBook(ctx, id)}
}

// BeginFetch marks a list fetch in flight. Only fetches drive the loading
// flag; create/update/delete settle straight into Apply.
func (s *BooksState) BeginFetch() {
	s.Loading = true
	s.Err = ""
}

// Apply reconciles one settled message into the state.
func (s *BooksState) Apply(msg any) {
	switch m := msg.(type) {
	case BooksFetched:
		s.Loading = false
		if m.Err != nil {
			s.Err = booksErrorMessage(m.Err)
			return
		}
		s.Err = ""
		s.Items = m.Books
	case BookCreated:
		if m.Err != nil {
			s.Err = booksErrorMessage(m.Err)
			return
		}
		s.Items = append(s.Items, m.Book)
	case BookUpdated:
		if m.Err != nil {
			s.Err = booksErrorMessage(m.Err)
			return
		}
		// replace in place, preserving list position; unknown ids are skipped
		for i := range s.Items {
			if s.Items[i].ID == m.Book.ID {
				s.Items[i] = m.Book
				break
			}
		}
	case BookDeleted:
		if m.Err != nil {
			s.Err = booksErrorMessage(m.Err)
			return
		}
		for i := range s.Items {
			if s.Items[i].ID == m.ID {
				s.Items = append(s.Items[:i], s.Items[i+1:]...)
				break
			}
		}
	}
}

// booksErrorMessage prefers the backend's structured detail, formatted field
// errors included, over the transport error text.
func booksErrorMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if msg := apiErr.DetailMessage(); msg != "" {
			return msg
		}
	}
	return err.Error()
}
