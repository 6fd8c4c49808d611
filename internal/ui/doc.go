// Package ui renders CLI output with lipgloss.
//
// [Palette] holds the named styles used across commands (titles, success, errors,
// warnings, help text) and a color per [models.BookStatus]. [BookTable],
// [ActivityList] and [CatalogTable] format API results for the terminal.
package ui
