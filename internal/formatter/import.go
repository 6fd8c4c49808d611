package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/shared"
)

// ReadImportFile reads a CSV or JSON export from path. The format is taken from the extension.
func ReadImportFile(path string) ([]*models.Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	format := FormatCSV
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		format = FormatJSON
	}
	return ReadImport(format, data)
}

// ReadImport parses books previously written by [ExportToCSV] or [ExportToJSON].
// Only CSV and JSON carry enough structure to be read back.
func ReadImport(format Format, data []byte) ([]*models.Book, error) {
	switch format {
	case FormatCSV:
		return importCSV(data)
	case FormatJSON:
		return importJSON(data)
	}
	return nil, fmt.Errorf("%w: %s exports cannot be imported", shared.ErrInvalidArgument, format)
}

func importJSON(data []byte) ([]*models.Book, error) {
	var books []*models.Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON export: %v", shared.ErrInvalidArgument, err)
	}
	for i, b := range books {
		if b == nil || b.Title() == "" || b.BookID() == "" {
			return nil, fmt.Errorf("%w: entry %d is missing book_id or title", shared.ErrInvalidArgument, i+1)
		}
	}
	return books, nil
}

// importCSV maps columns by header name so files edited by hand may reorder or drop optional columns.
func importCSV(data []byte) ([]*models.Book, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing CSV header: %v", shared.ErrInvalidArgument, err)
	}

	cols := make(map[string]int, len(headers))
	for i, h := range headers {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"book id", "title"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: CSV header has no %q column", shared.ErrInvalidArgument, required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	books := []*models.Book{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", shared.ErrInvalidArgument, line, err)
		}

		book := models.NewBook("", field(record, "book id"), field(record, "title"), field(record, "author"), field(record, "cover"))
		if book.BookID() == "" || book.Title() == "" {
			return nil, fmt.Errorf("%w: line %d is missing book id or title", shared.ErrInvalidArgument, line)
		}

		status, err := models.ParseBookStatus(field(record, "status"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		book.SetStatus(status)

		if raw := field(record, "progress"); raw != "" {
			p, err := strconv.Atoi(raw)
			if err != nil || p < 0 || p > 100 {
				return nil, fmt.Errorf("%w: line %d: progress must be 0-100", shared.ErrInvalidArgument, line)
			}
			book.SetProgress(p)
		}
		books = append(books, book)
	}
	return books, nil
}
