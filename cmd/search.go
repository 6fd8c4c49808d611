package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/shelf/internal/shared"
	"github.com/desertthunder/shelf/internal/ui"
	"github.com/urfave/cli/v3"
)

// Search queries the catalog. An unavailable catalog prints no results rather than failing.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	r.logger.Debug("searching catalog", "query", query)
	books := r.catalog.Search(ctx, query, cmd.Int("limit"))

	if cmd.Bool("json") {
		return r.writeJSON(books, true)
	}
	return r.writePlain("%s\n", ui.CatalogTable(books))
}

// Trending prints a sample of popular catalog books.
func (r *Runner) Trending(ctx context.Context, cmd *cli.Command) error {
	books := r.catalog.Trending(ctx, cmd.Int("limit"))

	if cmd.Bool("json") {
		return r.writeJSON(books, true)
	}
	r.writePlain("%s\n", ui.Styles.Title("Trending"))
	return r.writePlain("%s\n", ui.CatalogTable(books))
}
