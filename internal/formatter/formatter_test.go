package formatter

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/shared"
	th "github.com/desertthunder/shelf/internal/testing"
)

func sampleBooks() []*models.Book {
	added := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	dune := models.NewBook("u1", "/works/OL893415W", "Dune", "Frank Herbert", "https://covers.openlibrary.org/b/id/1-M.jpg")
	dune.SetID("rec-1")
	dune.SetStatus(models.StatusReading)
	dune.SetProgress(42)
	dune.SetAddedAt(added)

	emma := models.NewBook("u1", "emma", "Emma, A Novel", "", "")
	emma.SetID("rec-2")
	emma.SetAddedAt(added.Add(time.Hour))

	return []*models.Book{dune, emma}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleBooks())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if lines[0] != "ID,Book ID,Title,Author,Status,Progress,Added" {
			t.Errorf("CSV missing headers, got: %s", lines[0])
		}
		if lines[1] != "rec-1,/works/OL893415W,Dune,Frank Herbert,reading,42,2024-03-01T12:00:00Z" {
			t.Errorf("unexpected first row: %s", lines[1])
		}
		if !strings.Contains(lines[2], `"Emma, A Novel"`) {
			t.Errorf("expected quoted title with comma, got: %s", lines[2])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown("Ann", sampleBooks())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Ann's Shelf",
			"**Books**: 2",
			"## Currently Reading",
			"1. Dune - Frank Herbert (42%) [cover](https://covers.openlibrary.org/b/id/1-M.jpg)",
			"## Wishlist",
			"1. Emma, A Novel\n",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
		if strings.Contains(output, "## Completed") {
			t.Error("empty sections should be omitted")
		}
	})

	t.Run("ExportToMarkdown Without Owner", func(t *testing.T) {
		data, _ := ExportToMarkdown("", nil)
		if !strings.HasPrefix(string(data), "# My Shelf") {
			t.Errorf("expected default title, got %q", data)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleBooks())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "1. Frank Herbert - Dune [reading, 42%]") {
			t.Errorf("text missing first book, got:\n%s", output)
		}
		if !strings.Contains(output, "2. Unknown Author - Emma, A Novel [wishlist, 0%]") {
			t.Errorf("text missing second book, got:\n%s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(sampleBooks(), false)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded []map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded) != 2 || decoded[0]["book_id"] != "/works/OL893415W" {
			t.Errorf("unexpected JSON: %s", data)
		}

		empty, _ := ExportToJSON(nil, false)
		if string(empty) != "[]" {
			t.Errorf("expected empty array, got %s", empty)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"csv": FormatCSV, "MD": FormatMarkdown, "markdown": FormatMarkdown, "text": FormatText, "json": FormatJSON}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}

	if _, err := ParseFormat("pdf"); !errors.Is(err, shared.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestWriteExport(t *testing.T) {
	dir := t.TempDir()

	t.Run("Nested Path", func(t *testing.T) {
		path := filepath.Join(dir, "exports", "shelf.csv")
		written, err := WriteExport(FormatCSV, path, "Ann", sampleBooks())
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}

		th.AssertFileExists(t, written)
		if !strings.HasPrefix(th.MustReadFile(t, written), "ID,Book ID") {
			t.Error("expected CSV content")
		}
	})

	t.Run("Markdown", func(t *testing.T) {
		path := filepath.Join(dir, "shelf.md")
		if _, err := WriteExport(FormatMarkdown, path, "Ann", sampleBooks()); err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if !strings.Contains(th.MustReadFile(t, path), "# Ann's Shelf") {
			t.Error("expected Markdown content")
		}
	})

	t.Run("Unknown Format", func(t *testing.T) {
		if _, err := WriteExport(Format("pdf"), filepath.Join(dir, "x.pdf"), "", nil); err == nil {
			t.Error("expected error for unknown format")
		}
	})

	t.Run("Default Path", func(t *testing.T) {
		if got := FormatMarkdown.Extension(); got != ".md" {
			t.Errorf("expected .md, got %s", got)
		}
		if got := FormatText.Extension(); got != ".txt" {
			t.Errorf("expected .txt, got %s", got)
		}
	})
}
