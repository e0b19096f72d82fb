package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/lepinkainen/barky/internal/bookmarks"
	"github.com/lepinkainen/barky/internal/config"
	"github.com/lepinkainen/barky/internal/github"
)

var newGitHubClient = func(token string) *github.Client {
	return github.NewClient(token)
}

// ImportCmd represents the import command and its subcommands
type ImportCmd struct {
	GitHubStars GitHubStarsCmd `cmd:"" name:"github-stars" help:"Import starred GitHub repositories"`
}

// GitHubStarsCmd represents the github-stars import command
type GitHubStarsCmd struct {
	User  string `help:"GitHub user whose stars to import"`
	Token string `help:"GitHub personal access token (or GITHUB_TOKEN)"`
}

func (g *GitHubStarsCmd) Run() error {
	// Read from config if value not provided via flag
	user := g.User
	if user == "" {
		user = config.GitHubUser
	}
	if user == "" {
		return fmt.Errorf("github user is required (provide via --user flag or github.user in config)")
	}

	token := g.Token
	if token == "" {
		token = config.GitHubToken
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := newGitHubClient(token)
	return withRepository(func(repo *bookmarks.Repository) error {
		result, err := github.ImportStars(ctx, client, repo, user)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(stdout, "Imported %d of %d starred repositories (%d skipped)\n",
			result.Added, result.Fetched, result.Skipped)
		return err
	})
}
