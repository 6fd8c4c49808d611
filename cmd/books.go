package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/shelf/internal/formatter"
	"github.com/desertthunder/shelf/internal/library"
	"github.com/desertthunder/shelf/internal/shared"
	"github.com/desertthunder/shelf/internal/tasks"
	"github.com/desertthunder/shelf/internal/ui"
	"github.com/urfave/cli/v3"
)

// BooksList prints the user's books, newest first.
func (r *Runner) BooksList(ctx context.Context, cmd *cli.Command) error {
	c, err := r.authedClient()
	if err != nil {
		return err
	}

	books, err := c.ListBooks(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(books, true)
	}
	return r.writePlain("%s\n", ui.BookTable(books))
}

// BooksAdd tracks a catalog book.
func (r *Runner) BooksAdd(ctx context.Context, cmd *cli.Command) error {
	return r.addBook(ctx, library.AddBookInput{
		BookID:     cmd.String("book-id"),
		Title:      cmd.String("title"),
		Author:     cmd.String("author"),
		CoverImage: cmd.String("cover"),
		Status:     cmd.String("status"),
	})
}

// BooksCreate tracks a book that has no catalog entry. Its book ID is the slugified title.
func (r *Runner) BooksCreate(ctx context.Context, cmd *cli.Command) error {
	title := cmd.String("title")
	bookID := shared.Slugify(title)
	if bookID == "" {
		return fmt.Errorf("%w: title must contain letters or digits", shared.ErrInvalidArgument)
	}

	return r.addBook(ctx, library.AddBookInput{
		BookID:     bookID,
		Title:      title,
		Author:     cmd.String("author"),
		CoverImage: cmd.String("cover"),
		Status:     cmd.String("status"),
	})
}

func (r *Runner) addBook(ctx context.Context, in library.AddBookInput) error {
	c, err := r.authedClient()
	if err != nil {
		return err
	}

	id, err := c.AddBook(ctx, in)
	if err != nil {
		return err
	}

	r.writePlain("%s\n", ui.Styles.OK(fmt.Sprintf("✓ Added %q", in.Title)))
	return r.writePlain("%s\n", ui.Styles.Help("id: "+id))
}

// BooksUpdate sends only the flags that were set.
func (r *Runner) BooksUpdate(ctx context.Context, cmd *cli.Command) error {
	var patch library.BookPatch
	for name, dst := range map[string]**string{
		"status": &patch.Status,
		"title":  &patch.Title,
		"author": &patch.Author,
		"cover":  &patch.CoverImage,
	} {
		if cmd.IsSet(name) {
			v := cmd.String(name)
			*dst = &v
		}
	}
	if cmd.IsSet("progress") {
		p := cmd.Int("progress")
		patch.Progress = &p
	}

	if patch.Empty() {
		return fmt.Errorf("%w: nothing to update (use --status, --progress, --title, --author or --cover)", shared.ErrMissingArgument)
	}

	c, err := r.authedClient()
	if err != nil {
		return err
	}
	if err := c.UpdateBook(ctx, cmd.String("id"), patch); err != nil {
		return err
	}
	return r.writePlain("%s\n", ui.Styles.OK("✓ Updated"))
}

// BooksRemove stops tracking a book.
func (r *Runner) BooksRemove(ctx context.Context, cmd *cli.Command) error {
	c, err := r.authedClient()
	if err != nil {
		return err
	}
	if err := c.RemoveBook(ctx, cmd.String("id")); err != nil {
		return err
	}
	return r.writePlain("%s\n", ui.Styles.OK("✓ Removed"))
}

// BooksExport writes the user's shelf to a file.
func (r *Runner) BooksExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	c, err := r.authedClient()
	if err != nil {
		return err
	}

	books, err := c.ListBooks(ctx)
	if err != nil {
		return err
	}

	var owner string
	if user, err := c.Me(ctx); err != nil {
		r.logger.Warn("failed to look up user for export title", "error", err)
	} else {
		owner = user.Name
	}

	path, err := formatter.WriteExport(format, cmd.String("output"), owner, books)
	if err != nil {
		return err
	}

	r.logger.Info("export complete", "format", format, "books", len(books))
	return r.writePlain("%s\n", ui.Styles.OK(fmt.Sprintf("✓ Exported %d books to %s", len(books), path)))
}

// BooksImport adds every book in a CSV or JSON export. Books already on the shelf are skipped.
func (r *Runner) BooksImport(ctx context.Context, cmd *cli.Command) error {
	books, err := formatter.ReadImportFile(cmd.String("file"))
	if err != nil {
		return err
	}

	c, err := r.authedClient()
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, len(books)+2)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			res, ok := update.Data.(tasks.BookImportResult)
			switch {
			case !ok:
				r.writePlain("%s\n", update.Message)
			case res.Outcome == tasks.OutcomeFailed:
				r.writePlain("   %s\n", ui.Styles.Err(update.Message))
			case res.Outcome == tasks.OutcomeSkipped:
				r.writePlain("   %s\n", ui.Styles.Warn(update.Message))
			default:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	importer := tasks.NewImporter(c, shared.WithLogger(r.logger, "component", "import"))
	result, err := importer.Import(ctx, progress, books, tasks.ImportOpts{
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	})
	close(progress)
	<-done

	if err != nil {
		return err
	}

	r.writePlainln("%s", ui.Styles.Title("Import Complete"))
	r.writePlain("Added: %d  Skipped: %d  Failed: %d\n", result.Added, result.Skipped, result.Failed)
	if result.Failed > 0 {
		return fmt.Errorf("%w: %d of %d books failed to import", shared.ErrAPIRequest, result.Failed, result.Total)
	}
	return nil
}

var _ tasks.BookClient = (*shelfClient)(nil)
