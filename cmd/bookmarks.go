package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/lepinkainen/barky/internal/bookmarks"
	"github.com/lepinkainen/barky/internal/config"
	barkyerrors "github.com/lepinkainen/barky/internal/errors"
	"github.com/lepinkainen/barky/internal/tui"
)

var selectBookmark = tui.SelectBookmark

// AddCmd represents the add command
type AddCmd struct {
	Title string `short:"t" help:"Bookmark title" required:""`
	URL   string `name:"url" short:"u" help:"Bookmark URL" required:""`
	Notes string `short:"n" help:"Free-form notes"`
}

func (a *AddCmd) Run() error {
	return withRepository(func(repo *bookmarks.Repository) error {
		b, err := repo.Add(bookmarks.Bookmark{Title: a.Title, URL: a.URL, Notes: a.Notes})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(stdout, "Added bookmark %d: %s\n", b.ID, b.Title)
		return err
	})
}

// ListCmd represents the list command
type ListCmd struct {
	Title   string `help:"Only show bookmarks with this exact title"`
	URL     string `name:"url" help:"Only show bookmarks with this exact URL"`
	OrderBy string `help:"Sort column" enum:"date_added,title,id" default:"date_added"`
	Desc    bool   `help:"Sort in descending order"`
}

func (l *ListCmd) Run() error {
	order, err := bookmarks.ParseOrder(l.OrderBy)
	if err != nil {
		return err
	}

	return withRepository(func(repo *bookmarks.Repository) error {
		items, err := repo.List(bookmarks.Filter{Title: l.Title, URL: l.URL}, order, l.Desc)
		if err != nil {
			return err
		}
		return printBookmarks(items)
	})
}

func printBookmarks(items []bookmarks.Bookmark) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(stdout, "No bookmarks found")
		return err
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tURL\tADDED\tNOTES")
	for _, b := range items {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			b.ID, b.Title, b.URL, b.DateAdded.Format("2006-01-02 15:04"), b.Notes)
	}
	return w.Flush()
}

// EditCmd represents the edit command
type EditCmd struct {
	ID         int64  `arg:"" help:"Bookmark ID"`
	Title      string `short:"t" help:"New title"`
	URL        string `name:"url" short:"u" help:"New URL"`
	Notes      string `short:"n" help:"New notes"`
	ClearNotes bool   `help:"Remove the notes"`
}

func (e *EditCmd) changes() bookmarks.Changes {
	var c bookmarks.Changes
	if e.Title != "" {
		c.Title = &e.Title
	}
	if e.URL != "" {
		c.URL = &e.URL
	}
	if e.Notes != "" {
		c.Notes = &e.Notes
	}
	if e.ClearNotes {
		empty := ""
		c.Notes = &empty
	}
	return c
}

func (e *EditCmd) Run() error {
	changes := e.changes()
	if changes == (bookmarks.Changes{}) {
		return fmt.Errorf("nothing to edit (use --title, --url, --notes or --clear-notes)")
	}

	return withRepository(func(repo *bookmarks.Repository) error {
		b, err := repo.Edit(e.ID, changes)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(stdout, "Updated bookmark %d: %s\n", b.ID, b.Title)
		return err
	})
}

// DeleteCmd represents the delete command
type DeleteCmd struct {
	ID          int64  `arg:"" optional:"" help:"Bookmark ID"`
	Title       string `help:"Delete bookmarks with this exact title"`
	URL         string `name:"url" help:"Delete bookmarks with this exact URL"`
	Interactive bool   `short:"i" help:"Pick the bookmark to delete from a list"`
}

func (d *DeleteCmd) filter() bookmarks.Filter {
	return bookmarks.Filter{ID: d.ID, Title: d.Title, URL: d.URL}
}

func (d *DeleteCmd) Run() error {
	filter := d.filter()
	if filter.IsEmpty() && !d.Interactive {
		return fmt.Errorf("delete requires an id, --title, --url or --interactive")
	}

	return withRepository(func(repo *bookmarks.Repository) error {
		if d.Interactive {
			return d.deleteInteractive(repo, filter)
		}

		removed, err := repo.Delete(filter)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(stdout, "Deleted %d bookmark(s)\n", removed)
		return err
	})
}

func (d *DeleteCmd) deleteInteractive(repo *bookmarks.Repository, filter bookmarks.Filter) error {
	candidates, err := repo.List(filter, bookmarks.OrderByDate, true)
	if err != nil {
		return err
	}

	result, err := selectBookmark("Select a bookmark to delete", candidates)
	if err != nil {
		if barkyerrors.IsStopProcessingError(err) {
			slog.Info("Deletion cancelled")
			return nil
		}
		return err
	}
	if result.Action != tui.ActionSelected || result.Selection == nil {
		_, err := fmt.Fprintln(stdout, "Nothing deleted")
		return err
	}

	removed, err := repo.Delete(bookmarks.Filter{ID: result.Selection.ID})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "Deleted %d bookmark(s)\n", removed)
	return err
}

// DropCmd represents the drop command
type DropCmd struct {
	Yes bool `help:"Confirm dropping the table"`
}

func (d *DropCmd) Run() error {
	if !d.Yes {
		return errors.New("refusing to drop the bookmark table without --yes")
	}

	return withRepository(func(repo *bookmarks.Repository) error {
		if err := repo.Drop(); err != nil {
			return err
		}
		_, err := fmt.Fprintf(stdout, "Dropped table %s in %s\n", repo.Table(), config.DBFile)
		return err
	})
}
