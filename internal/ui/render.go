package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/shelf/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(Styles.help).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// BookTable renders books with their record IDs so they can be passed to update and remove.
func BookTable(books []*models.Book) string {
	if len(books) == 0 {
		return Styles.Help("No books on your shelf yet.")
	}

	t := newTable("ID", "Title", "Author", "Status", "Progress")
	for _, b := range books {
		t.Row(b.ID(), b.Title(), b.Author(), Styles.Status(b.Status()), Styles.Progress(b.Progress(), 10))
	}
	return t.Render()
}

// ActivityList renders activity entries newest first with relative timestamps.
func ActivityList(entries []*models.Activity) string {
	if len(entries) == 0 {
		return Styles.Help("No recent activity.")
	}

	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("%s  %s\n", Styles.Help(e.CreatedAt().Local().Format("2006-01-02 15:04")), e.Message()))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// CatalogTable renders catalog search results.
func CatalogTable(books []models.CatalogBook) string {
	if len(books) == 0 {
		return Styles.Help("No results.")
	}

	t := newTable("Book ID", "Title", "Author", "Year")
	for _, b := range books {
		year := ""
		if b.Year != nil {
			year = fmt.Sprint(*b.Year)
		}
		author := b.Author()
		if author == "" {
			author = "Unknown Author"
		}
		t.Row(b.ExternalID, b.Title, author, year)
	}
	return t.Render()
}
