package feed

import (
	"bytes"
	"encoding/xml"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/opds-community/libopds2-go/opds1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookcatalog/internal/types"
)

var testBooks = []*types.Book{
	{Id: 7, BookInput: types.BookInput{Title: "Dune", Author: "Herbert", Year: 1965, Genre: "SciFi", Description: "Spice"}},
	{Id: 8, BookInput: types.BookInput{Title: "Untitled", Author: "Anon"}},
}

func TestCatalog(t *testing.T) {
	base, _ := url.Parse("http://localhost:8000")
	updated := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	f := Catalog(testBooks, base, updated)

	assert.Equal(t, "urn:books:catalog", f.ID)
	assert.Equal(t, "Book catalog", f.Title)
	assert.Equal(t, updated, f.Updated)
	require.Len(t, f.Links, 1)
	assert.Equal(t, "http://localhost:8000/books", f.Links[0].Href)

	require.Len(t, f.Entries, 2)

	e := f.Entries[0]
	assert.Equal(t, "urn:books:book:7", e.ID)
	assert.Equal(t, "Dune", e.Title)
	assert.Equal(t, "1965", e.Issued)
	require.Len(t, e.Author, 1)
	assert.Equal(t, "Herbert", e.Author[0].Name)
	require.Len(t, e.Category, 1)
	assert.Equal(t, "SciFi", e.Category[0].Term)
	assert.Equal(t, "Spice", e.Content.Content)
	require.Len(t, e.Links, 1)
	assert.Equal(t, "http://localhost:8000/books/7", e.Links[0].Href)
	assert.Equal(t, "application/json", e.Links[0].TypeLink)

	assert.Empty(t, f.Entries[1].Issued)
	assert.Empty(t, f.Entries[1].Category)
}

func TestCatalog_Empty(t *testing.T) {
	base, _ := url.Parse("http://localhost:8000/api/")

	f := Catalog(nil, base, time.Now())
	assert.Empty(t, f.Entries)
	assert.Equal(t, "http://localhost:8000/api/books", f.Links[0].Href)
}

func TestWrite(t *testing.T) {
	base, _ := url.Parse("http://localhost:8000")

	buf := &bytes.Buffer{}
	require.NoError(t, Write(buf, Catalog(testBooks, base, time.Now())))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, xml.Header))
	assert.Contains(t, out, `<feed xmlns="http://www.w3.org/2005/Atom">`)

	var parsed opds1.Feed
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &parsed))
	require.Len(t, parsed.Entries, 2)
	assert.Equal(t, "urn:books:book:7", parsed.Entries[0].ID)
	assert.Equal(t, "Dune", parsed.Entries[0].Title)
	assert.Equal(t, "SciFi", parsed.Entries[0].Category[0].Term)
}
