// package formatter exports a user's shelf to various formats (CSV, Markdown, plain text, JSON) and reads CSV and JSON exports back
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

// ParseFormat accepts a format name or a common alias ("md", "text").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: unknown export format %q (csv, markdown, txt, json)", shared.ErrInvalidArgument, s)
}

// Extension returns the file extension used for f.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return ".md"
	}
	return "." + string(f)
}

// ExportToCSV converts books to CSV with columns: ID, Book ID, Title, Author, Status, Progress, Added
func ExportToCSV(books []*models.Book) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Book ID", "Title", "Author", "Status", "Progress", "Added"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, book := range books {
		record := []string{
			book.ID(),
			book.BookID(),
			book.Title(),
			book.Author(),
			string(book.Status()),
			strconv.Itoa(book.Progress()),
			book.AddedAt().UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

var sectionTitles = map[models.BookStatus]string{
	models.StatusReading:   "Currently Reading",
	models.StatusWishlist:  "Wishlist",
	models.StatusCompleted: "Completed",
}

// ExportToMarkdown renders books grouped by status. Reading entries show their progress.
func ExportToMarkdown(owner string, books []*models.Book) ([]byte, error) {
	var buf bytes.Buffer

	title := "My Shelf"
	if owner != "" {
		title = fmt.Sprintf("%s's Shelf", owner)
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Books**: %d\n", len(books)))

	groups := groupByStatus(books)
	for _, status := range []models.BookStatus{models.StatusReading, models.StatusWishlist, models.StatusCompleted} {
		buf.WriteString(fmt.Sprintf("**%s**: %d\n", sectionTitles[status], len(groups[status])))
	}

	for _, status := range []models.BookStatus{models.StatusReading, models.StatusWishlist, models.StatusCompleted} {
		group := groups[status]
		if len(group) == 0 {
			continue
		}

		buf.WriteString(fmt.Sprintf("\n## %s\n\n", sectionTitles[status]))
		for i, book := range group {
			line := fmt.Sprintf("%d. %s", i+1, book.Title())
			if book.Author() != "" {
				line += " - " + book.Author()
			}
			if status == models.StatusReading {
				line += fmt.Sprintf(" (%d%%)", book.Progress())
			}
			if book.CoverImage() != "" {
				line += fmt.Sprintf(" [cover](%s)", book.CoverImage())
			}
			buf.WriteString(line + "\n")
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts books to plain text, one per line.
func ExportToText(books []*models.Book) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Books: %d\n\n", len(books)))

	for i, book := range books {
		author := book.Author()
		if author == "" {
			author = "Unknown Author"
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s [%s, %d%%]\n", i+1, author, book.Title(), book.Status(), book.Progress()))
	}

	return buf.Bytes(), nil
}

// ExportToJSON encodes books as a JSON array.
func ExportToJSON(books []*models.Book, pretty bool) ([]byte, error) {
	if books == nil {
		books = []*models.Book{}
	}
	return shared.MarshalJSON(books, pretty)
}

// Export renders books in format.
func Export(format Format, owner string, books []*models.Book) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(books)
	case FormatMarkdown:
		return ExportToMarkdown(owner, books)
	case FormatText:
		return ExportToText(books)
	case FormatJSON:
		return ExportToJSON(books, true)
	}
	return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
}

// WriteExport renders books in format and writes them to path.
//
// Defaults to shelf{ext} in the working directory and creates missing parent directories.
func WriteExport(format Format, path, owner string, books []*models.Book) (string, error) {
	if path == "" {
		path = "shelf" + format.Extension()
	}

	data, err := Export(format, owner, books)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

func groupByStatus(books []*models.Book) map[models.BookStatus][]*models.Book {
	groups := make(map[models.BookStatus][]*models.Book, len(models.Statuses))
	for _, book := range books {
		groups[book.Status()] = append(groups[book.Status()], book)
	}
	return groups
}
