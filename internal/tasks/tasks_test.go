package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/desertthunder/shelf/internal/library"
	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/shared"
)

type fakeClient struct {
	mu       sync.Mutex
	existing map[string]bool
	failing  map[string]bool
	added    []library.AddBookInput
	patches  map[string]library.BookPatch
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		existing: map[string]bool{},
		failing:  map[string]bool{},
		patches:  map[string]library.BookPatch{},
	}
}

func (f *fakeClient) AddBook(ctx context.Context, in library.AddBookInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failing[in.BookID] {
		return "", fmt.Errorf("%w: upstream exploded", shared.ErrAPIRequest)
	}
	if f.existing[in.BookID] {
		return "", fmt.Errorf("%w: book already in your list", shared.ErrConflict)
	}
	f.existing[in.BookID] = true
	f.added = append(f.added, in)
	return "rec-" + in.BookID, nil
}

func (f *fakeClient) UpdateBook(ctx context.Context, id string, patch library.BookPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches[id] = patch
	return nil
}

func book(id string, status models.BookStatus, progress int) *models.Book {
	b := models.NewBook("", id, "Title "+id, "Author", "")
	b.SetStatus(status)
	b.SetProgress(progress)
	return b
}

func TestImport(t *testing.T) {
	t.Run("adds, skips and fails", func(t *testing.T) {
		client := newFakeClient()
		client.existing["dup"] = true
		client.failing["bad"] = true

		books := []*models.Book{
			book("a", models.StatusWishlist, 0),
			book("dup", models.StatusWishlist, 0),
			book("b", models.StatusReading, 40),
			book("bad", models.StatusCompleted, 100),
		}

		progress := make(chan ProgressUpdate, 16)
		result, err := NewImporter(client, nil).Import(context.Background(), progress, books, ImportOpts{RateLimit: 1000})
		if err != nil {
			t.Fatalf("Import failed: %v", err)
		}

		if result.Total != 4 || result.Added != 2 || result.Skipped != 1 || result.Failed != 1 {
			t.Errorf("unexpected counts: %+v", result)
		}

		wantOutcomes := []Outcome{OutcomeAdded, OutcomeSkipped, OutcomeAdded, OutcomeFailed}
		for i, want := range wantOutcomes {
			if got := result.Results[i].Outcome; got != want {
				t.Errorf("result %d: expected %s, got %s", i, want, got)
			}
		}
		if !errors.Is(result.Results[3].Error, shared.ErrAPIRequest) {
			t.Errorf("expected API error on failed result, got %v", result.Results[3].Error)
		}

		patch, ok := client.patches["rec-b"]
		if !ok || patch.Progress == nil || *patch.Progress != 40 {
			t.Errorf("expected progress 40 restored on rec-b, got %+v", patch)
		}
		if _, ok := client.patches["rec-a"]; ok {
			t.Error("expected no patch for a book with zero progress")
		}

		close(progress)
		var phases []Phase
		for u := range progress {
			phases = append(phases, u.Phase)
		}
		if len(phases) != 6 || phases[0] != ImportStart || phases[5] != ImportDone {
			t.Errorf("unexpected progress phases: %v", phases)
		}
	})

	t.Run("status is sent on add", func(t *testing.T) {
		client := newFakeClient()
		_, err := NewImporter(client, nil).Import(context.Background(), nil, []*models.Book{book("c", models.StatusCompleted, 0)}, ImportOpts{RateLimit: 1000})
		if err != nil {
			t.Fatalf("Import failed: %v", err)
		}
		if len(client.added) != 1 || client.added[0].Status != "completed" {
			t.Errorf("expected completed status on add, got %+v", client.added)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		result, err := NewImporter(newFakeClient(), nil).Import(context.Background(), nil, nil, ImportOpts{})
		if err != nil {
			t.Fatalf("Import failed: %v", err)
		}
		if result.Total != 0 || len(result.Results) != 0 {
			t.Errorf("expected empty result, got %+v", result)
		}
	})

	t.Run("nil client", func(t *testing.T) {
		_, err := NewImporter(nil, nil).Import(context.Background(), nil, nil, ImportOpts{})
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		books := []*models.Book{book("x", models.StatusWishlist, 0), book("y", models.StatusWishlist, 0)}
		result, err := NewImporter(newFakeClient(), nil).Import(ctx, nil, books, ImportOpts{})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if result.Failed != 2 {
			t.Errorf("expected both books marked failed, got %+v", result)
		}
	})
}

func TestPhaseString(t *testing.T) {
	for p, want := range map[Phase]string{ImportStart: "import_start", ImportBook: "import_book", ImportDone: "import_done", Phase(99): ""} {
		if got := p.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", p, got, want)
		}
	}
}
