package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/shelf/internal/library"
	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers   = 4
	maxWorkers       = 10
	defaultRateLimit = 5.0
)

// BookClient is the subset of the shelf API an import needs.
type BookClient interface {
	AddBook(ctx context.Context, in library.AddBookInput) (string, error)
	UpdateBook(ctx context.Context, id string, patch library.BookPatch) error
}

// Outcome classifies a single book import.
type Outcome string

const (
	OutcomeAdded   Outcome = "added"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// BookImportResult is the result of importing one book.
type BookImportResult struct {
	Index    int     `json:"index"`
	BookID   string  `json:"book_id"`
	Title    string  `json:"title"`
	RecordID string  `json:"record_id,omitempty"`
	Outcome  Outcome `json:"outcome"`
	Error    error   `json:"-"`
}

// ImportResult summarizes a bulk import. Results are ordered like the input.
type ImportResult struct {
	Total   int                `json:"total"`
	Added   int                `json:"added"`
	Skipped int                `json:"skipped"`
	Failed  int                `json:"failed"`
	Results []BookImportResult `json:"results"`
}

// ImportOpts configures concurrency and request rate.
type ImportOpts struct {
	NumWorkers int     // Concurrent workers (default 4, max 10)
	RateLimit  float64 // Requests per second (default 5)
}

type importJob struct {
	index int
	book  *models.Book
}

// Importer adds books in bulk through a [BookClient].
type Importer struct {
	client BookClient
	logger *log.Logger
}

func NewImporter(client BookClient, logger *log.Logger) *Importer {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Importer{client: client, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (im *Importer) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Import adds books concurrently. Per-book failures are recorded in the result;
// the returned error is non-nil only when the import could not run or ctx ended early.
func (im *Importer) Import(ctx context.Context, progress chan<- ProgressUpdate, books []*models.Book, opts ImportOpts) (*ImportResult, error) {
	if im.client == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	opts.NumWorkers = min(opts.NumWorkers, maxWorkers, max(len(books), 1))
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}

	result := &ImportResult{
		Total:   len(books),
		Results: make([]BookImportResult, len(books)),
	}
	im.sendProgress(progress, importStartUpdate(len(books), opts.NumWorkers))

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan importJob)
	results := make(chan BookImportResult, len(books))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go im.worker(ctx, &wg, jobs, results)
	}

	go func() {
		defer close(jobs)
		for i, book := range books {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			select {
			case jobs <- importJob{index: i, book: book}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results[res.Index] = res
		switch res.Outcome {
		case OutcomeAdded:
			result.Added++
		case OutcomeSkipped:
			result.Skipped++
		default:
			result.Failed++
		}
		im.sendProgress(progress, importedUpdate(completed, len(books), res))
	}

	if completed < len(books) {
		for i, res := range result.Results {
			if res.Outcome == "" {
				result.Results[i] = BookImportResult{
					Index: i, BookID: books[i].BookID(), Title: books[i].Title(),
					Outcome: OutcomeFailed, Error: context.Cause(ctx),
				}
				result.Failed++
			}
		}
		return result, fmt.Errorf("import interrupted after %d of %d books: %w", completed, len(books), ctx.Err())
	}

	im.sendProgress(progress, importDoneUpdate(result))
	return result, nil
}

func (im *Importer) worker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan importJob, results chan<- BookImportResult) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			return
		}
		results <- im.importOne(ctx, job)
	}
}

// importOne adds the book, then patches status and progress when the book is past the wishlist.
func (im *Importer) importOne(ctx context.Context, job importJob) BookImportResult {
	b := job.book
	res := BookImportResult{Index: job.index, BookID: b.BookID(), Title: b.Title()}

	id, err := im.client.AddBook(ctx, library.AddBookInput{
		BookID:     b.BookID(),
		Title:      b.Title(),
		Author:     b.Author(),
		CoverImage: b.CoverImage(),
		Status:     string(b.Status()),
	})
	switch {
	case errors.Is(err, shared.ErrConflict):
		res.Outcome = OutcomeSkipped
		return res
	case err != nil:
		im.logger.Warn("import failed", "book_id", b.BookID(), "error", err)
		res.Outcome = OutcomeFailed
		res.Error = err
		return res
	}
	res.RecordID = id

	if b.Progress() > 0 {
		progress := b.Progress()
		if err := im.client.UpdateBook(ctx, id, library.BookPatch{Progress: &progress}); err != nil {
			im.logger.Warn("failed to restore progress", "book_id", b.BookID(), "error", err)
			res.Outcome = OutcomeFailed
			res.Error = fmt.Errorf("added but progress not restored: %w", err)
			return res
		}
	}

	res.Outcome = OutcomeAdded
	return res
}
