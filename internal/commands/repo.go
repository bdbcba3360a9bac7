package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/books/internal/accounts"
	"github.com/cleared-dev/books/internal/config"
	"github.com/cleared-dev/books/internal/gitops"
	"github.com/cleared-dev/books/internal/journal"
	"github.com/cleared-dev/books/internal/runlog"
)

// repo is an opened books repository.
type repo struct {
	root    string
	cfg     *config.Config
	index   *accounts.Index
	journal *journal.Service
}

func addRepoFlag(cmd *cobra.Command, dir *string) {
	cmd.Flags().StringVar(dir, "repo", ".", "repository directory")
}

func openRepo(dir string) (*repo, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.LoadRepo(root)
	if err != nil {
		return nil, err
	}
	index, err := accounts.Load(root)
	if err != nil {
		return nil, err
	}
	return &repo{
		root:    root,
		cfg:     cfg,
		index:   index,
		journal: journal.NewService(root, index),
	}, nil
}

func (r *repo) identity() gitops.Identity {
	return gitops.Identity{Name: r.cfg.Git.AuthorName, Email: r.cfg.Git.AuthorEmail}
}

// commit commits the work tree when auto-commit is on. Returns the short hash
// or "" when nothing was committed.
func (r *repo) commit(ctx context.Context, message string) (string, error) {
	if !r.cfg.Git.AutoCommit || !gitops.IsRepo(r.root) {
		return "", nil
	}
	hash, err := gitops.CommitAll(ctx, r.root, message, r.identity())
	if err != nil {
		return "", fmt.Errorf("committing: %w", err)
	}
	if hash != "" {
		slog.Info("committed", "hash", hash, "message", message)
	}
	return hash, nil
}

// head returns the current commit, or "" outside git.
func (r *repo) head(ctx context.Context) string {
	if !gitops.IsRepo(r.root) {
		return ""
	}
	hash, err := gitops.Head(ctx, r.root)
	if err != nil {
		slog.Warn("reading HEAD", "error", err)
	}
	return hash
}

// record appends e to the run log. Failures are logged, not returned.
func (r *repo) record(e runlog.Entry) {
	if err := runlog.Append(r.root, []runlog.Entry{e}); err != nil {
		slog.Warn("writing run log", "error", err)
	}
}
