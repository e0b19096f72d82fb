// Package bookmarks stores Bookmark records in a tablestore table.
package bookmarks

import (
	"fmt"
	"time"

	"github.com/lepinkainen/barky/internal/tablestore"
)

// DefaultTable is the table bookmarks live in unless configured otherwise
const DefaultTable = "bookmarks"

// DateLayout is the text format of the date_added column
const DateLayout = time.RFC3339

// legacyDateLayout matches ISO timestamps without a zone, as written by
// earlier versions of the tool.
const legacyDateLayout = "2006-01-02T15:04:05.999999"

// Bookmark is a single saved link
type Bookmark struct {
	ID        int64     `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	URL       string    `json:"url" yaml:"url"`
	Notes     string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	DateAdded time.Time `json:"date_added" yaml:"date_added"`
}

// Schema returns the bookmarks table definition
func Schema() tablestore.Schema {
	return tablestore.NewSchema(
		tablestore.Col("id", "integer primary key autoincrement"),
		tablestore.Col("title", "text not null"),
		tablestore.Col("url", "text not null"),
		tablestore.Col("notes", "text"),
		tablestore.Col("date_added", "text not null"),
	)
}

func fromRecord(rec tablestore.Record) (Bookmark, error) {
	row := rec.Row()

	var b Bookmark
	b.ID = row["id"].Int64()
	b.Title = row["title"].String()
	b.URL = row["url"].String()
	b.Notes = row["notes"].String()

	added, err := parseDate(row["date_added"].String())
	if err != nil {
		return Bookmark{}, fmt.Errorf("bookmark %d: %w", b.ID, err)
	}
	b.DateAdded = added

	return b, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(legacyDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date_added %q: %w", s, err)
	}
	return t.UTC(), nil
}
