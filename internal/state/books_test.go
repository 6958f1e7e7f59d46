package state

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/bookdesk/internal/api"
	"github.com/xaenox/bookdesk/internal/models"
)

type stubBooksAPI struct {
	list       func(ctx context.Context) ([]models.Book, error)
	create     func(ctx context.Context, draft models.BookDraft) (models.Book, error)
	update     func(ctx context.Context, id int64, patch models.BookPatch) (models.Book, error)
	deleteBook func(ctx context.Context, id int64) error
}

func (s stubBooksAPI) ListBooks(ctx context.Context) ([]models.Book, error) {
	return s.list(ctx)
}

func (s stubBooksAPI) CreateBook(ctx context.Context, draft models.BookDraft) (models.Book, error) {
	return s.create(ctx, draft)
}

func (s stubBooksAPI) UpdateBook(ctx context.Context, id int64, patch models.BookPatch) (models.Book, error) {
	return s.update(ctx, id, patch)
}

func (s stubBooksAPI) DeleteBook(ctx context.Context, id int64) error {
	return s.deleteBook(ctx, id)
}

func book(id int64, title string) models.Book {
	return models.Book{ID: id, Title: title, PublicationYear: 2000, ISBN: "12345", AuthorID: 1, AvailableCopies: 1}
}

func TestFetchBooksReplacesList(t *testing.T) {
	s := &BooksState{Items: []models.Book{book(99, "stale")}}
	stub := stubBooksAPI{list: func(ctx context.Context) ([]models.Book, error) {
		return []models.Book{book(1, "a"), book(2, "b")}, nil
	}}

	s.BeginFetch()
	assert.True(t, s.Loading)
	assert.Empty(t, s.Err)

	s.Apply(FetchBooks(context.Background(), stub))

	assert.False(t, s.Loading)
	assert.Empty(t, s.Err)
	require.Len(t, s.Items, 2)
	assert.Equal(t, int64(1), s.Items[0].ID)
	assert.Equal(t, int64(2), s.Items[1].ID)
}

func TestFetchBooksErrorFormatsFieldDetail(t *testing.T) {
	s := &BooksState{}
	stub := stubBooksAPI{list: func(ctx context.Context) ([]models.Book, error) {
		return nil, &api.Error{
			StatusCode: 422,
			Fields:     []api.FieldError{{Loc: []string{"body", "isbn"}, Msg: "too short"}},
		}
	}}

	s.BeginFetch()
	s.Apply(FetchBooks(context.Background(), stub))

	assert.False(t, s.Loading)
	assert.Equal(t, "body.isbn: too short", s.Err)
	assert.Empty(t, s.Items)
}

func TestFetchBooksTransportErrorUsesErrText(t *testing.T) {
	s := &BooksState{}
	stub := stubBooksAPI{list: func(ctx context.Context) ([]models.Book, error) {
		return nil, errors.New("send request: connection refused")
	}}

	s.Apply(FetchBooks(context.Background(), stub))
	assert.Equal(t, "send request: connection refused", s.Err)
}

func TestCreateBookAppendsServerRecord(t *testing.T) {
	s := &BooksState{Items: []models.Book{book(1, "a")}}
	stub := stubBooksAPI{create: func(ctx context.Context, draft models.BookDraft) (models.Book, error) {
		return book(7, draft.Title), nil
	}}

	s.Apply(CreateBook(context.Background(), stub, models.BookDraft{Title: "new", PublicationYear: 2020, ISBN: "55555", AuthorID: 2, AvailableCopies: 1}))

	require.Len(t, s.Items, 2)
	assert.Equal(t, int64(7), s.Items[1].ID)
	assert.Equal(t, "new", s.Items[1].Title)

	count := 0
	for _, b := range s.Items {
		if b.ID == 7 {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestUpdateBookReplacesInPlace(t *testing.T) {
	s := &BooksState{Items: []models.Book{book(1, "a"), book(5, "b"), book(9, "c")}}
	stub := stubBooksAPI{update: func(ctx context.Context, id int64, patch models.BookPatch) (models.Book, error) {
		return book(5, "b2"), nil
	}}

	s.Apply(UpdateBook(context.Background(), stub, 5, models.BookPatch{}))

	require.Len(t, s.Items, 3)
	assert.Equal(t, "a", s.Items[0].Title)
	assert.Equal(t, "b2", s.Items[1].Title)
	assert.Equal(t, int64(5), s.Items[1].ID)
	assert.Equal(t, "c", s.Items[2].Title)
}

func TestUpdateBookUnknownIDIsSkipped(t *testing.T) {
	before := []models.Book{book(1, "a"), book(2, "b")}
	s := &BooksState{Items: append([]models.Book(nil), before...)}
	stub := stubBooksAPI{update: func(ctx context.Context, id int64, patch models.BookPatch) (models.Book, error) {
		return book(5, "ghost"), nil
	}}

	s.Apply(UpdateBook(context.Background(), stub, 5, models.BookPatch{}))
	assert.Equal(t, before, s.Items)
}

func TestDeleteBookRemovesEntry(t *testing.T) {
	s := &BooksState{Items: []models.Book{book(1, "a"), book(5, "b")}}
	stub := stubBooksAPI{deleteBook: func(ctx context.Context, id int64) error { return nil }}

	s.Apply(DeleteBook(context.Background(), stub, 5))

	require.Len(t, s.Items, 1)
	assert.Equal(t, int64(1), s.Items[0].ID)

	// deleting an id that is not present leaves the list unchanged
	s.Apply(DeleteBook(context.Background(), stub, 5))
	require.Len(t, s.Items, 1)
}

func TestFetchBooksLastSettledWins(t *testing.T) {
	s := &BooksState{}

	first := BooksFetched{Books: []models.Book{book(1, "first dispatch")}}
	second := BooksFetched{Books: []models.Book{book(2, "second dispatch")}}

	// the second-dispatched call settles before the first one
	s.Apply(second)
	s.Apply(first)

	require.Len(t, s.Items, 1)
	assert.Equal(t, "first dispatch", s.Items[0].Title)
}
