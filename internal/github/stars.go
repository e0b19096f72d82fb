package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/lepinkainen/barky/internal/bookmarks"
)

// Repo is the subset of a GitHub repository the importer uses
type Repo struct {
	FullName    string `json:"full_name"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
}

// Star is one starred repository and when it was starred
type Star struct {
	StarredAt time.Time `json:"starred_at"`
	Repo      Repo      `json:"repo"`
}

// Bookmark converts the star into a bookmark
func (s Star) Bookmark() bookmarks.Bookmark {
	return bookmarks.Bookmark{
		Title:     s.Repo.FullName,
		URL:       s.Repo.HTMLURL,
		Notes:     strings.TrimSpace(s.Repo.Description),
		DateAdded: s.StarredAt,
	}
}

// Starred returns every repository user has starred, following pagination.
func (c *Client) Starred(ctx context.Context, user string) ([]Star, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return nil, fmt.Errorf("github user is required")
	}

	next := fmt.Sprintf("%s/users/%s/starred?per_page=%d", c.baseURL, url.PathEscape(user), c.perPage)

	var stars []Star
	for page := 1; next != ""; page++ {
		var batch []Star
		link, err := c.getPage(ctx, next, &batch)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch stars page %d for %s: %w", page, user, err)
		}
		stars = append(stars, batch...)
		slog.Debug("Fetched stars page", "user", user, "page", page, "count", len(batch))
		next = link
	}

	return stars, nil
}

// BookmarkRepository is what ImportStars writes to
type BookmarkRepository interface {
	Add(b bookmarks.Bookmark) (bookmarks.Bookmark, error)
	HasURL(url string) (bool, error)
}

// ImportResult summarises an import run
type ImportResult struct {
	Fetched int
	Added   int
	Skipped int
}

// ImportStars adds user's starred repositories to repo, skipping URLs that
// are already bookmarked.
func ImportStars(ctx context.Context, client *Client, repo BookmarkRepository, user string) (ImportResult, error) {
	stars, err := client.Starred(ctx, user)
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{Fetched: len(stars)}
	for _, star := range stars {
		b := star.Bookmark()
		if b.URL == "" || b.Title == "" {
			result.Skipped++
			continue
		}

		exists, err := repo.HasURL(b.URL)
		if err != nil {
			return result, err
		}
		if exists {
			slog.Debug("Skipping existing bookmark", "url", b.URL)
			result.Skipped++
			continue
		}

		if _, err := repo.Add(b); err != nil {
			return result, fmt.Errorf("failed to import %s: %w", b.URL, err)
		}
		result.Added++
	}

	slog.Info("Imported GitHub stars", "user", user, "fetched", result.Fetched, "added", result.Added, "skipped", result.Skipped)
	return result, nil
}
