// package services defines interface Catalog for searching external book data
package services

import (
	"context"

	"github.com/desertthunder/shelf/internal/models"
)

// Catalog searches an external book catalog.
//
// Implementations never return errors: an unreachable or misbehaving catalog yields an empty list.
type Catalog interface {
	// Search returns up to limit books matching query. An empty query returns an empty list.
	Search(ctx context.Context, query string, limit int) []models.CatalogBook

	// Trending returns up to limit books for a randomly chosen popular subject.
	Trending(ctx context.Context, limit int) []models.CatalogBook
}
