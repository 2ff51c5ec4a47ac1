// Package feed exports the catalog as an OPDS 1 acquisition feed.
package feed

import (
	"encoding/xml"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/opds-community/libopds2-go/opds1"

	"bookcatalog/internal/types"
)

const (
	catalogId        = "urn:books:catalog"
	catalogTitle     = "Book catalog"
	bookIdTemplate   = "urn:books:book:"
	linkTypeCatalog  = "application/atom+xml;profile=opds-catalog;kind=acquisition"
	linkTypeJson     = "application/json"
	linkRelSelf      = "self"
	linkRelAlternate = "alternate"
	atomNamespace    = "http://www.w3.org/2005/Atom"
)

// Catalog builds a feed with one entry per book. Entry links point to the
// book's record under apiBase.
func Catalog(books []*types.Book, apiBase *url.URL, updated time.Time) *opds1.Feed {
	f := &opds1.Feed{
		ID:      catalogId,
		Title:   catalogTitle,
		Updated: updated.UTC(),
		Links: []opds1.Link{{
			Rel:      linkRelSelf,
			Href:     apiBase.JoinPath("books").String(),
			TypeLink: linkTypeCatalog,
		}},
		Entries: make([]opds1.Entry, 0, len(books)),
	}

	for _, b := range books {
		id := strconv.FormatInt(b.Id, 10)

		e := opds1.Entry{
			ID:     bookIdTemplate + id,
			Title:  b.Title,
			Author: []opds1.Author{{Name: b.Author}},
			Content: opds1.Content{
				Content:     b.Description,
				ContentType: "text",
			},
			Links: []opds1.Link{{
				Rel:      linkRelAlternate,
				Href:     apiBase.JoinPath("books", id).String(),
				TypeLink: linkTypeJson,
			}},
		}

		if b.Year != 0 {
			e.Issued = strconv.Itoa(b.Year)
		}

		if b.Genre != "" {
			e.Category = []opds1.Category{{Term: b.Genre, Label: b.Genre}}
		}

		f.Entries = append(f.Entries, e)
	}

	return f
}

type atomFeed struct {
	XMLName xml.Name `xml:"feed"`
	Xmlns   string   `xml:"xmlns,attr"`
	*opds1.Feed
}

// Write writes f as an indented Atom document
func Write(w io.Writer, f *opds1.Feed) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(atomFeed{Xmlns: atomNamespace, Feed: f}); err != nil {
		return err
	}

	_, err := io.WriteString(w, "\n")
	return err
}
