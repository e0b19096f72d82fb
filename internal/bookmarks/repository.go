package bookmarks

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lepinkainen/barky/internal/cmdutil"
	"github.com/lepinkainen/barky/internal/tablestore"
)

// ErrNotFound is returned when no bookmark has the requested id
var ErrNotFound = errors.New("bookmark not found")

// Store is the subset of tablestore.Store the repository needs
type Store interface {
	CreateTable(table string, schema tablestore.Schema) error
	DropTable(table string) error
	Insert(table string, row tablestore.Row) (int64, error)
	Select(table string, filter tablestore.Row, opts ...tablestore.SelectOption) ([]tablestore.Record, error)
	Update(table string, filter, values tablestore.Row) (int64, error)
	Delete(table string, filter tablestore.Row) (int64, error)
}

// Order names the column List sorts by
type Order string

const (
	OrderByDate  Order = "date_added"
	OrderByTitle Order = "title"
	OrderByID    Order = "id"
)

// ParseOrder validates a user supplied sort column
func ParseOrder(s string) (Order, error) {
	switch o := Order(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return OrderByDate, nil
	case OrderByDate, OrderByTitle, OrderByID:
		return o, nil
	default:
		return "", fmt.Errorf("unknown sort column %q (use date_added, title or id)", s)
	}
}

// Filter selects bookmarks by exact match. Zero fields are ignored.
type Filter struct {
	ID    int64
	Title string
	URL   string
}

// IsEmpty reports whether the filter would match every bookmark
func (f Filter) IsEmpty() bool {
	return f.ID == 0 && f.Title == "" && f.URL == ""
}

func (f Filter) row() tablestore.Row {
	row := tablestore.Row{}
	if f.ID != 0 {
		row["id"] = tablestore.Integer(f.ID)
	}
	if f.Title != "" {
		row["title"] = tablestore.Text(f.Title)
	}
	if f.URL != "" {
		row["url"] = tablestore.Text(f.URL)
	}
	return row
}

// Changes lists the fields Edit should overwrite. Nil fields are kept.
type Changes struct {
	Title *string
	URL   *string
	Notes *string
}

func (c Changes) row() tablestore.Row {
	row := tablestore.Row{}
	if c.Title != nil {
		row["title"] = tablestore.Text(*c.Title)
	}
	if c.URL != nil {
		row["url"] = tablestore.Text(*c.URL)
	}
	if c.Notes != nil {
		row["notes"] = tablestore.Text(*c.Notes)
	}
	return row
}

// Repository maps Bookmark values onto rows of one table
type Repository struct {
	store Store
	table string
	now   func() time.Time
}

// NewRepository returns a repository over table. An empty table name uses DefaultTable.
func NewRepository(store Store, table string) *Repository {
	if table == "" {
		table = DefaultTable
	}
	return &Repository{
		store: store,
		table: table,
		now:   time.Now,
	}
}

// WithClock replaces the clock used to stamp new bookmarks
func (r *Repository) WithClock(now func() time.Time) *Repository {
	r.now = now
	return r
}

// Table returns the table name the repository writes to
func (r *Repository) Table() string {
	return r.table
}

// Init creates the bookmarks table if needed
func (r *Repository) Init() error {
	if err := r.store.CreateTable(r.table, Schema()); err != nil {
		return fmt.Errorf("failed to create bookmarks table: %w", err)
	}
	return nil
}

var rowOptions = cmdutil.StructToRowOptions{
	OmitFields: map[string]bool{"ID": true},
	OmitZero:   map[string]bool{"Notes": true},
	KeyOverrides: map[string]string{
		"URL": "url",
	},
	TimeLayout: DateLayout,
}

// Add stores b and returns it with the assigned id and timestamp
func (r *Repository) Add(b Bookmark) (Bookmark, error) {
	b.Title = strings.TrimSpace(b.Title)
	b.URL = strings.TrimSpace(b.URL)
	if b.Title == "" {
		return Bookmark{}, errors.New("bookmark title is required")
	}
	if b.URL == "" {
		return Bookmark{}, errors.New("bookmark url is required")
	}
	if b.DateAdded.IsZero() {
		b.DateAdded = r.now()
	}
	b.DateAdded = b.DateAdded.UTC().Truncate(time.Second)

	row, err := cmdutil.StructToRow(b, rowOptions)
	if err != nil {
		return Bookmark{}, fmt.Errorf("failed to convert bookmark: %w", err)
	}

	id, err := r.store.Insert(r.table, row)
	if err != nil {
		return Bookmark{}, fmt.Errorf("failed to add bookmark: %w", err)
	}
	b.ID = id

	slog.Debug("Bookmark added", "id", id, "title", b.Title)
	return b, nil
}

// List returns bookmarks matching filter sorted by order
func (r *Repository) List(filter Filter, order Order, desc bool) ([]Bookmark, error) {
	if order == "" {
		order = OrderByDate
	}
	sort := tablestore.OrderBy(string(order))
	if desc {
		sort = tablestore.OrderByDesc(string(order))
	}

	records, err := r.store.Select(r.table, filter.row(), sort, tablestore.OrderBy("id"))
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}

	result := make([]Bookmark, 0, len(records))
	for _, rec := range records {
		b, err := fromRecord(rec)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, nil
}

// Get returns the bookmark with id, or ErrNotFound
func (r *Repository) Get(id int64) (Bookmark, error) {
	found, err := r.List(Filter{ID: id}, OrderByID, false)
	if err != nil {
		return Bookmark{}, err
	}
	if len(found) == 0 {
		return Bookmark{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return found[0], nil
}

// HasURL reports whether any stored bookmark points at url
func (r *Repository) HasURL(url string) (bool, error) {
	found, err := r.List(Filter{URL: url}, OrderByID, false)
	if err != nil {
		return false, err
	}
	return len(found) > 0, nil
}

// Edit applies changes to the bookmark with id and returns the stored result
func (r *Repository) Edit(id int64, changes Changes) (Bookmark, error) {
	values := changes.row()
	if len(values) == 0 {
		return r.Get(id)
	}
	for _, key := range []string{"title", "url"} {
		if v, ok := values[key]; ok && strings.TrimSpace(v.String()) == "" {
			return Bookmark{}, fmt.Errorf("bookmark %s cannot be empty", key)
		}
	}

	changed, err := r.store.Update(r.table, Filter{ID: id}.row(), values)
	if err != nil {
		return Bookmark{}, fmt.Errorf("failed to edit bookmark %d: %w", id, err)
	}
	if changed == 0 {
		return Bookmark{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return r.Get(id)
}

// Delete removes bookmarks matching filter. An empty filter is refused so a
// missing flag never wipes the table.
func (r *Repository) Delete(filter Filter) (int64, error) {
	if filter.IsEmpty() {
		return 0, errors.New("delete requires an id, title or url")
	}

	removed, err := r.store.Delete(r.table, filter.row())
	if err != nil {
		return 0, fmt.Errorf("failed to delete bookmarks: %w", err)
	}
	return removed, nil
}

// Drop removes the bookmarks table and everything in it
func (r *Repository) Drop() error {
	if err := r.store.DropTable(r.table); err != nil {
		return fmt.Errorf("failed to drop bookmarks table: %w", err)
	}
	return nil
}
