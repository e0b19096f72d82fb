package tablestore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	storeerrors "github.com/lepinkainen/barky/internal/errors"
	"github.com/lepinkainen/barky/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookmarkSchema = NewSchema(
	Col("id", "integer primary key autoincrement"),
	Col("title", "text not null"),
	Col("url", "text not null"),
	Col("notes", "text"),
	Col("date_added", "text not null"),
)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()

	env := testutil.NewTestEnv(t)
	store, err := Open(env.DBPath("test_bookmarks"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func newBookmarkStore(t *testing.T, opts ...Option) *Store {
	t.Helper()

	store := newTestStore(t, opts...)
	require.NoError(t, store.CreateTable("bookmarks", bookmarkSchema))
	return store
}

func bookmarkRow(title, url, notes, dateAdded string) Row {
	return Row{
		"title":      Text(title),
		"url":        Text(url),
		"notes":      Text(notes),
		"date_added": Text(dateAdded),
	}
}

func catalogCount(t *testing.T, store *Store, table string) int {
	t.Helper()

	var count int
	err := store.db.QueryRow("SELECT count(name) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
	require.NoError(t, err)
	return count
}

func TestStore_CreateTableAppearsInCatalog(t *testing.T) {
	store := newBookmarkStore(t)

	assert.Equal(t, 1, catalogCount(t, store, "bookmarks"))

	exists, err := store.TableExists("bookmarks")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStore_CreateTableIsIdempotent(t *testing.T) {
	store := newBookmarkStore(t)

	require.NoError(t, store.CreateTable("bookmarks", bookmarkSchema))
	require.NoError(t, store.CreateTable("bookmarks", bookmarkSchema))

	assert.Equal(t, 1, catalogCount(t, store, "bookmarks"))
}

func TestStore_CreateTableColumnOrder(t *testing.T) {
	store := newBookmarkStore(t)

	_, err := store.Insert("bookmarks", bookmarkRow("X", "http://x.com", "n", "2021-01-01T00:00:00"))
	require.NoError(t, err)

	records, err := store.Select("bookmarks", nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"id", "title", "url", "notes", "date_added"}, records[0].Columns())
	assert.Equal(t, "X", records[0].At(1).String())
}

func TestStore_CreateTableRejectsBadDefinition(t *testing.T) {
	store := newTestStore(t)

	err := store.CreateTable("broken", NewSchema(Col("id", "integer primary key"), Col("title", "text not")))
	require.Error(t, err)
	assert.True(t, storeerrors.IsSchemaError(err), "expected SchemaError, got %v", err)

	exists, err := store.TableExists("broken")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStore_CreateTableRejectsEmptySchema(t *testing.T) {
	store := newTestStore(t)

	err := store.CreateTable("empty", NewSchema())
	require.Error(t, err)
	assert.True(t, storeerrors.IsSchemaError(err))
}

func TestStore_CreateTableRejectsUnnamedColumn(t *testing.T) {
	store := newTestStore(t)

	for _, name := range []string{"", "   "} {
		err := store.CreateTable("unnamed", NewSchema(Col("id", "integer primary key"), Col(name, "text not null")))
		require.Error(t, err)
		assert.True(t, storeerrors.IsSchemaError(err), "column %q: expected SchemaError, got %v", name, err)
	}

	exists, err := store.TableExists("unnamed")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStore_DropTableRemovesFromCatalog(t *testing.T) {
	store := newBookmarkStore(t)

	require.NoError(t, store.DropTable("bookmarks"))
	assert.Equal(t, 0, catalogCount(t, store, "bookmarks"))
}

func TestStore_DropMissingTable(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.DropTable("never_created"))
	require.NoError(t, store.DropTable("never_created"))
	assert.Equal(t, 0, catalogCount(t, store, "never_created"))
}

func TestStore_InsertAndSelectBySubset(t *testing.T) {
	store := newBookmarkStore(t)

	id, err := store.Insert("bookmarks", bookmarkRow("test_title", "http://example.com", "test notes", "2021-03-01T04:21:26"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	filters := []Row{
		{"title": Text("test_title")},
		{"url": Text("http://example.com")},
		{"title": Text("test_title"), "notes": Text("test notes")},
		{"id": Integer(id)},
		bookmarkRow("test_title", "http://example.com", "test notes", "2021-03-01T04:21:26"),
	}

	for _, filter := range filters {
		records, err := store.Select("bookmarks", filter)
		require.NoError(t, err)
		require.Len(t, records, 1, "filter %v", filter)

		title, ok := records[0].Get("title")
		require.True(t, ok)
		assert.Equal(t, "test_title", title.String())

		gotID, _ := records[0].Get("id")
		assert.Equal(t, KindInteger, gotID.Kind())
		assert.Equal(t, id, gotID.Int64())
	}
}

func TestStore_SelectNoMatchReturnsEmpty(t *testing.T) {
	store := newBookmarkStore(t)

	_, err := store.Insert("bookmarks", bookmarkRow("A", "http://a.com", "", "2021-01-01T00:00:00"))
	require.NoError(t, err)

	records, err := store.Select("bookmarks", Row{"title": Text("nope")})
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestStore_SelectIsRepeatable(t *testing.T) {
	store := newBookmarkStore(t)

	_, err := store.Insert("bookmarks", bookmarkRow("A", "http://a.com", "", "2021-01-01T00:00:00"))
	require.NoError(t, err)

	first, err := store.Select("bookmarks", Row{"title": Text("A")})
	require.NoError(t, err)
	second, err := store.Select("bookmarks", Row{"title": Text("A")})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestStore_SelectNullFilter(t *testing.T) {
	store := newBookmarkStore(t)

	_, err := store.Insert("bookmarks", Row{
		"title":      Text("no notes"),
		"url":        Text("http://a.com"),
		"notes":      Null(),
		"date_added": Text("2021-01-01T00:00:00"),
	})
	require.NoError(t, err)
	_, err = store.Insert("bookmarks", bookmarkRow("with notes", "http://b.com", "hello", "2021-01-02T00:00:00"))
	require.NoError(t, err)

	records, err := store.Select("bookmarks", Row{"notes": Null()})
	require.NoError(t, err)
	require.Len(t, records, 1)

	notes, _ := records[0].Get("notes")
	assert.True(t, notes.IsNull())
	assert.Equal(t, "no notes", records[0].Row()["title"].String())
}

func TestStore_SelectOrdering(t *testing.T) {
	store := newBookmarkStore(t)

	for _, title := range []string{"banana", "apple", "cherry"} {
		_, err := store.Insert("bookmarks", bookmarkRow(title, "http://"+title+".com", "", "2021-01-01T00:00:00"))
		require.NoError(t, err)
	}

	titles := func(records []Record) []string {
		out := make([]string, len(records))
		for i, r := range records {
			v, _ := r.Get("title")
			out[i] = v.String()
		}
		return out
	}

	asc, err := store.Select("bookmarks", nil, OrderBy("title"))
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "banana", "cherry"}, titles(asc))

	desc, err := store.Select("bookmarks", nil, OrderByDesc("title"))
	require.NoError(t, err)
	assert.Equal(t, []string{"cherry", "banana", "apple"}, titles(desc))
}

func TestStore_DeleteOnlyMatchingRows(t *testing.T) {
	store := newBookmarkStore(t)

	_, err := store.Insert("bookmarks", bookmarkRow("X", "http://x.com", "n", "2021-01-01T00:00:00"))
	require.NoError(t, err)
	_, err = store.Insert("bookmarks", bookmarkRow("X", "http://other.com", "n", "2021-01-01T00:00:00"))
	require.NoError(t, err)
	_, err = store.Insert("bookmarks", bookmarkRow("Y", "http://y.com", "n", "2021-01-01T00:00:00"))
	require.NoError(t, err)

	removed, err := store.Delete("bookmarks", Row{"title": Text("X"), "url": Text("http://x.com")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	remaining, err := store.Select("bookmarks", nil)
	require.NoError(t, err)
	assert.Len(t, remaining, 2)

	removed, err = store.Delete("bookmarks", Row{"title": Text("missing")})
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)
}

func TestStore_UpdateMatchingRows(t *testing.T) {
	store := newBookmarkStore(t)

	id, err := store.Insert("bookmarks", bookmarkRow("old", "http://x.com", "", "2021-01-01T00:00:00"))
	require.NoError(t, err)
	_, err = store.Insert("bookmarks", bookmarkRow("keep", "http://k.com", "", "2021-01-01T00:00:00"))
	require.NoError(t, err)

	changed, err := store.Update("bookmarks", Row{"id": Integer(id)}, Row{"title": Text("new"), "notes": Text("edited")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	records, err := store.Select("bookmarks", Row{"id": Integer(id)})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "new", records[0].Row()["title"].String())
	assert.Equal(t, "edited", records[0].Row()["notes"].String())

	kept, err := store.Select("bookmarks", Row{"title": Text("keep")})
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	changed, err = store.Update("bookmarks", Row{"id": Integer(id)}, Row{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), changed)
}

func TestStore_InsertConstraintViolation(t *testing.T) {
	store := newBookmarkStore(t)

	_, err := store.Insert("bookmarks", Row{
		"title":      Text("no url"),
		"date_added": Text("2021-01-01T00:00:00"),
	})
	require.Error(t, err)
	assert.True(t, storeerrors.IsConstraintViolationError(err), "expected ConstraintViolationError, got %v", err)

	records, err := store.Select("bookmarks", nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_InsertTypeMismatch(t *testing.T) {
	store := newBookmarkStore(t)

	row := bookmarkRow("X", "http://x.com", "", "2021-01-01T00:00:00")
	row["id"] = Text("abc")
	_, err := store.Insert("bookmarks", row)
	require.Error(t, err)
	assert.True(t, storeerrors.IsConstraintViolationError(err), "expected ConstraintViolationError, got %v", err)
}

func TestStore_InsertDuplicateKey(t *testing.T) {
	store := newBookmarkStore(t)

	row := bookmarkRow("X", "http://x.com", "", "2021-01-01T00:00:00")
	row["id"] = Integer(7)
	_, err := store.Insert("bookmarks", row)
	require.NoError(t, err)

	_, err = store.Insert("bookmarks", row)
	require.Error(t, err)
	assert.True(t, storeerrors.IsConstraintViolationError(err))
}

func TestStore_UnknownColumnIsSchemaError(t *testing.T) {
	store := newBookmarkStore(t)

	row := bookmarkRow("X", "http://x.com", "", "2021-01-01T00:00:00")
	row["rating"] = Integer(5)
	_, err := store.Insert("bookmarks", row)
	require.Error(t, err)
	assert.True(t, storeerrors.IsSchemaError(err), "expected SchemaError, got %v", err)

	_, err = store.Select("bookmarks", Row{"rating": Integer(5)})
	require.Error(t, err)
	assert.True(t, storeerrors.IsSchemaError(err))

	_, err = store.Select("no_such_table", nil)
	require.Error(t, err)
	assert.True(t, storeerrors.IsSchemaError(err))
}

func TestStore_ValuesAreBoundNotInterpolated(t *testing.T) {
	store := newBookmarkStore(t)

	hostile := "x'); DROP TABLE bookmarks; --"
	_, err := store.Insert("bookmarks", bookmarkRow(hostile, "http://x.com", "", "2021-01-01T00:00:00"))
	require.NoError(t, err)

	records, err := store.Select("bookmarks", Row{"title": Text(hostile)})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, catalogCount(t, store, "bookmarks"))
}

func TestStore_RealValuesRoundTrip(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateTable("ratings", NewSchema(
		Col("id", "integer primary key"),
		Col("score", "real"),
	)))

	_, err := store.Insert("ratings", Row{"id": Integer(1), "score": Real(2.5)})
	require.NoError(t, err)

	records, err := store.Select("ratings", Row{"score": Real(2.5)})
	require.NoError(t, err)
	require.Len(t, records, 1)
	score, ok := records[0].Get("score")
	require.True(t, ok)
	assert.Equal(t, Real(2.5), score)

	n, err := store.Update("ratings", Row{"id": Integer(1)}, Row{"score": Real(4.25)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	records, err = store.Select("ratings", Row{"id": Integer(1)})
	require.NoError(t, err)
	require.Len(t, records, 1)
	score, _ = records[0].Get("score")
	assert.Equal(t, Real(4.25), score)
}

func TestStore_InsertDefaultValues(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.CreateTable("counters", NewSchema(
		Col("id", "integer primary key autoincrement"),
		Col("label", "text default 'unnamed'"),
	)))

	id, err := store.Insert("counters", Row{})
	require.NoError(t, err)

	records, err := store.Select("counters", Row{"id": Integer(id)})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "unnamed", records[0].Row()["label"].String())
}

func TestStore_StrictIdentifiers(t *testing.T) {
	store := newBookmarkStore(t, WithStrictIdentifiers())

	err := store.CreateTable("bad name", bookmarkSchema)
	require.Error(t, err)
	assert.True(t, storeerrors.IsSchemaError(err))

	_, err = store.Insert("bookmarks", Row{"title; --": Text("x")})
	require.Error(t, err)
	assert.True(t, storeerrors.IsSchemaError(err))

	_, err = store.Select("bookmarks", nil, OrderBy("title desc, (select 1)"))
	require.Error(t, err)
	assert.True(t, storeerrors.IsSchemaError(err))

	err = store.DropTable("bookmarks; DROP TABLE x")
	require.Error(t, err)
	assert.Equal(t, 1, catalogCount(t, store, "bookmarks"))
}

func TestStore_BookmarkScenario(t *testing.T) {
	store := newBookmarkStore(t)

	_, err := store.Insert("bookmarks", bookmarkRow("X", "http://x.com", "n", "2021-01-01T00:00:00"))
	require.NoError(t, err)

	records, err := store.Select("bookmarks", Row{"title": Text("X")})
	require.NoError(t, err)
	require.Len(t, records, 1)
	title, _ := records[0].Get("title")
	assert.Equal(t, "X", title.String())

	_, err = store.Delete("bookmarks", Row{"title": Text("X")})
	require.NoError(t, err)

	records, err = store.Select("bookmarks", Row{"title": Text("X")})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestOpen_CreatesMissingFile(t *testing.T) {
	env := testutil.NewTestEnv(t)
	dbPath := env.DBPath("fresh")

	store, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.CreateTable("bookmarks", bookmarkSchema))
	require.NoError(t, store.Close())

	assert.FileExists(t, dbPath)
	assert.Equal(t, dbPath, store.Path())
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	env := testutil.NewTestEnv(t)
	dbPath := env.DBPath("persist")

	store, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.CreateTable("bookmarks", bookmarkSchema))
	_, err = store.Insert("bookmarks", bookmarkRow("X", "http://x.com", "", "2021-01-01T00:00:00"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	records, err := reopened.Select("bookmarks", Row{"title": Text("X")})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestOpen_StorageUnavailable(t *testing.T) {
	env := testutil.NewTestEnv(t)

	notADatabase := env.DBPath("garbage")
	env.WriteFileString("garbage.db", strings.Repeat("this is not an sqlite file\n", 200))

	tests := []struct {
		name string
		path string
	}{
		{name: "empty path", path: ""},
		{name: "missing directory", path: filepath.Join(env.RootDir(), "missing", "dir", "x.db")},
		{name: "not a database", path: notADatabase},
		{name: "directory", path: env.Path("adir")},
		{name: "question mark in path", path: env.Path("what?.db")},
	}
	env.MkdirAll("adir")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(tt.path)
			require.Error(t, err)
			assert.Nil(t, store)
			assert.True(t, storeerrors.IsStorageUnavailableError(err), "expected StorageUnavailableError, got %v", err)
		})
	}
}

func TestOpen_ReadOnlyURI(t *testing.T) {
	env := testutil.NewTestEnv(t)
	dbPath := env.DBPath("readonly")

	store, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.CreateTable("bookmarks", bookmarkSchema))
	_, err = store.Insert("bookmarks", bookmarkRow("X", "http://x.com", "", "2021-01-01T00:00:00"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	ro, err := Open("file:" + dbPath + "?mode=ro")
	require.NoError(t, err)
	defer func() { _ = ro.Close() }()

	records, err := ro.Select("bookmarks", nil)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = ro.Insert("bookmarks", bookmarkRow("Y", "http://y.com", "", "2021-01-01T00:00:00"))
	require.Error(t, err)
	assert.True(t, storeerrors.IsStorageUnavailableError(err), "expected StorageUnavailableError, got %v", err)

	err = ro.CreateTable("other", bookmarkSchema)
	require.Error(t, err)
	assert.True(t, storeerrors.IsStorageUnavailableError(err), "expected StorageUnavailableError, got %v", err)
}

func TestOpen_AppliesPragmas(t *testing.T) {
	pragma := func(t *testing.T, store *Store, name string) int {
		t.Helper()
		var v int
		require.NoError(t, store.db.QueryRow("PRAGMA "+name).Scan(&v))
		return v
	}

	t.Run("defaults", func(t *testing.T) {
		store := newTestStore(t)
		assert.Equal(t, 5000, pragma(t, store, "busy_timeout"))
		assert.Equal(t, 0, pragma(t, store, "foreign_keys"))
	})

	t.Run("configured", func(t *testing.T) {
		store := newTestStore(t, WithBusyTimeout(250), WithForeignKeys())
		assert.Equal(t, 250, pragma(t, store, "busy_timeout"))
		assert.Equal(t, 1, pragma(t, store, "foreign_keys"))
	})
}

func TestStore_ForeignKeysEnforced(t *testing.T) {
	store := newTestStore(t, WithForeignKeys())

	require.NoError(t, store.CreateTable("parent", NewSchema(Col("id", "integer primary key"))))
	require.NoError(t, store.CreateTable("child", NewSchema(
		Col("id", "integer primary key"),
		Col("parent_id", "integer references parent(id)"),
	)))

	_, err := store.Insert("child", Row{"parent_id": Integer(1)})
	require.Error(t, err)
	assert.True(t, storeerrors.IsConstraintViolationError(err), "expected ConstraintViolationError, got %v", err)

	_, err = store.Insert("parent", Row{"id": Integer(1)})
	require.NoError(t, err)
	_, err = store.Insert("child", Row{"parent_id": Integer(1)})
	require.NoError(t, err)
}

func TestStore_OperationsAfterClose(t *testing.T) {
	store := newBookmarkStore(t)
	require.NoError(t, store.Close())

	checks := map[string]error{}
	checks["create"] = store.CreateTable("bookmarks", bookmarkSchema)
	checks["drop"] = store.DropTable("bookmarks")
	_, checks["insert"] = store.Insert("bookmarks", bookmarkRow("X", "http://x.com", "", "2021-01-01T00:00:00"))
	_, checks["select"] = store.Select("bookmarks", nil)
	_, checks["delete"] = store.Delete("bookmarks", Row{"title": Text("X")})
	_, checks["update"] = store.Update("bookmarks", nil, Row{"title": Text("Y")})
	_, checks["exists"] = store.TableExists("bookmarks")

	for op, err := range checks {
		require.Error(t, err, op)
		assert.True(t, storeerrors.IsStoreClosedError(err), "%s: expected StoreClosedError, got %v", op, err)
	}
}

func TestStore_CloseIsIdempotentAndReleasesFile(t *testing.T) {
	env := testutil.NewTestEnv(t)
	dbPath := env.DBPath("release")

	store, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.CreateTable("bookmarks", bookmarkSchema))

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	require.NoError(t, os.Remove(dbPath))

	reopened, err := Open(dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	exists, err := reopened.TableExists("bookmarks")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDSN(t *testing.T) {
	build := func(opts ...Option) options {
		cfg := defaults()
		for _, o := range opts {
			o(&cfg)
		}
		return cfg
	}

	assert.Equal(t, "a.db", dsn("a.db", build(WithBusyTimeout(0))))
	assert.Equal(t, "a.db?_pragma=busy_timeout(5000)", dsn("a.db", build()))
	assert.Equal(t,
		"file::memory:?cache=shared&_pragma=busy_timeout(100)&_pragma=foreign_keys(1)",
		dsn("file::memory:?cache=shared", build(WithBusyTimeout(100), WithForeignKeys())),
	)
}
