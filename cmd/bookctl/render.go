package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"bookcatalog/internal/feed"
	"bookcatalog/internal/types"
)

const (
	formatText = "text"
	formatJson = "json"
	formatOpds = "opds"
)

func validFormat(format string, allowed ...string) bool {
	for _, f := range allowed {
		if f == format {
			return true
		}
	}

	return false
}

func (a *app) renderList(rows []*types.Book, format string) error {
	switch format {
	case formatJson:
		return a.writeJson(rows)
	case formatOpds:
		now := time.Now
		if a.now != nil {
			now = a.now
		}
		return feed.Write(a.stdout, feed.Catalog(rows, a.base, now()))
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tYEAR\tGENRE")
	for _, b := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", b.Id, b.Title, b.Author, year(b.Year), b.Genre)
	}

	return tw.Flush()
}

func (a *app) renderBook(b *types.Book, format string) error {
	if format == formatJson {
		return a.writeJson(b)
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 1, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", b.Id)
	fmt.Fprintf(tw, "Title:\t%s\n", b.Title)
	fmt.Fprintf(tw, "Author:\t%s\n", b.Author)
	fmt.Fprintf(tw, "Year:\t%s\n", year(b.Year))
	fmt.Fprintf(tw, "Genre:\t%s\n", b.Genre)
	fmt.Fprintf(tw, "Description:\t%s\n", b.Description)

	return tw.Flush()
}

func (a *app) writeJson(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func year(y int) string {
	if y == 0 {
		return "-"
	}

	return strconv.Itoa(y)
}
