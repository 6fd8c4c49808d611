package formatter

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/shared"
)

func TestReadImport(t *testing.T) {
	t.Run("CSV Round Trip", func(t *testing.T) {
		data, err := ExportToCSV(sampleBooks())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		books, err := ReadImport(FormatCSV, data)
		if err != nil {
			t.Fatalf("ReadImport failed: %v", err)
		}
		if len(books) != 2 {
			t.Fatalf("expected 2 books, got %d", len(books))
		}
		if books[0].BookID() != "/works/OL893415W" || books[0].Status() != models.StatusReading || books[0].Progress() != 42 {
			t.Errorf("unexpected first book: %+v", books[0].View())
		}
		if books[1].Title() != "Emma, A Novel" || books[1].Status() != models.StatusWishlist {
			t.Errorf("unexpected second book: %+v", books[1].View())
		}
	})

	t.Run("CSV Minimal Columns", func(t *testing.T) {
		books, err := ReadImport(FormatCSV, []byte("Title,Book ID\nDune,dune\n"))
		if err != nil {
			t.Fatalf("ReadImport failed: %v", err)
		}
		if len(books) != 1 || books[0].Status() != models.StatusWishlist {
			t.Errorf("expected one wishlist book, got %v", books)
		}
	})

	t.Run("JSON Round Trip", func(t *testing.T) {
		data, err := ExportToJSON(sampleBooks(), false)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		books, err := ReadImport(FormatJSON, data)
		if err != nil {
			t.Fatalf("ReadImport failed: %v", err)
		}
		if len(books) != 2 || books[0].CoverImage() == "" {
			t.Errorf("expected cover image to survive JSON import, got %v", books)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		tests := []struct {
			name   string
			format Format
			data   string
		}{
			{"missing title column", FormatCSV, "Book ID\nx\n"},
			{"bad status", FormatCSV, "Book ID,Title,Status\nx,X,paused\n"},
			{"bad progress", FormatCSV, "Book ID,Title,Progress\nx,X,200\n"},
			{"empty title", FormatCSV, "Book ID,Title\nx,\n"},
			{"malformed json", FormatJSON, "{"},
			{"json missing id", FormatJSON, `[{"title":"X"}]`},
			{"markdown", FormatMarkdown, "# My Shelf"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := ReadImport(tt.format, []byte(tt.data)); !errors.Is(err, shared.ErrValidation) {
					t.Errorf("expected validation error, got %v", err)
				}
			})
		}
	})

	t.Run("ReadImportFile", func(t *testing.T) {
		path, err := WriteExport(FormatJSON, filepath.Join(t.TempDir(), "shelf.json"), "", sampleBooks())
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}

		books, err := ReadImportFile(path)
		if err != nil {
			t.Fatalf("ReadImportFile failed: %v", err)
		}
		if len(books) != 2 {
			t.Errorf("expected 2 books, got %d", len(books))
		}
	})
}
