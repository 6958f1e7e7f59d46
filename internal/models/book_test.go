package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookDecodeAliasAndCoercion(t *testing.T) {
	raw := `{"book_id": 3, "title": "Dune", "publication_year": "1965", "isbn": "0441172717", "author_id": 7.0, "available_copies": "2"}`

	var b Book
	require.NoError(t, json.Unmarshal([]byte(raw), &b))

	assert.Equal(t, Book{
		ID:              3,
		Title:           "Dune",
		PublicationYear: 1965,
		ISBN:            "0441172717",
		AuthorID:        7,
		AvailableCopies: 2,
	}, b)
}

func TestBookDecodePrefersIDOverAlias(t *testing.T) {
	raw := `{"id": 10, "book_id": 3, "title": "x", "publication_year": 2000, "isbn": "12345", "author_id": 1}`

	var b Book
	require.NoError(t, json.Unmarshal([]byte(raw), &b))
	assert.Equal(t, int64(10), b.ID)
}

func TestBookDecodeDefaultsAvailableCopies(t *testing.T) {
	raw := `{"id": 1, "title": "x", "publication_year": 2000, "isbn": "12345", "author_id": 1}`

	var b Book
	require.NoError(t, json.Unmarshal([]byte(raw), &b))
	assert.Equal(t, 0, b.AvailableCopies)
}

func TestBookNormalizationIdempotent(t *testing.T) {
	original := Book{
		ID:              5,
		Title:           "The Left Hand of Darkness",
		PublicationYear: 1969,
		ISBN:            "0441478123",
		AuthorID:        2,
		AvailableCopies: 4,
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var again Book
	require.NoError(t, json.Unmarshal(data, &again))
	assert.Equal(t, original, again)
}

func TestBookDraftValidate(t *testing.T) {
	valid := BookDraft{
		Title:           "Dune",
		PublicationYear: 1965,
		ISBN:            "12345",
		AuthorID:        1,
		AvailableCopies: 0,
	}
	assert.NoError(t, valid.Validate())

	shortISBN := valid
	shortISBN.ISBN = "1234"
	assert.EqualError(t, shortISBN.Validate(), "isbn must be at least 5 characters")

	noTitle := valid
	noTitle.Title = "  "
	assert.EqualError(t, noTitle.Validate(), "title is required")

	noYear := valid
	noYear.PublicationYear = 0
	assert.EqualError(t, noYear.Validate(), "publication_year is required")

	noAuthor := valid
	noAuthor.AuthorID = 0
	assert.EqualError(t, noAuthor.Validate(), "author_id is required")

	negativeCopies := valid
	negativeCopies.AvailableCopies = -1
	assert.Error(t, negativeCopies.Validate())
}
