package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/desertthunder/shelf/internal/shared"
	tu "github.com/desertthunder/shelf/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchFixture = `{
  "numFound": 2,
  "docs": [
    {"key": "/works/OL893415W", "title": "Dune", "author_name": ["Frank Herbert"], "cover_i": 11481354, "first_publish_year": 1965, "ratings_average": 4.3},
    {"key": "/works/OL1W", "title": "Anonymous Book"}
  ]
}`

func newTestCatalog(t *testing.T, url string, client *http.Client) *OpenLibraryService {
	t.Helper()
	cfg := shared.CatalogConfig{
		BaseURL:     url,
		CoversURL:   "https://covers.example.com",
		SearchLimit: 10,
		Timeout:     shared.Duration{Duration: 2 * time.Second},
	}
	return NewOpenLibraryService(cfg, client, shared.NewLogger(io.Discard))
}

func TestOpenLibrarySearch(t *testing.T) {
	ctx := context.Background()

	t.Run("Maps Docs", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search.json", r.URL.Path)
			assert.Equal(t, "dune messiah", r.URL.Query().Get("q"))
			assert.Equal(t, "5", r.URL.Query().Get("limit"))
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, searchFixture)
		}))
		defer server.Close()

		books := newTestCatalog(t, server.URL, nil).Search(ctx, " dune messiah ", 5)
		require.Len(t, books, 2)

		dune := books[0]
		assert.Equal(t, "/works/OL893415W", dune.ExternalID)
		assert.Equal(t, "Frank Herbert", dune.Author())
		require.NotNil(t, dune.Year)
		assert.Equal(t, 1965, *dune.Year)
		assert.Equal(t, "https://covers.example.com/b/id/11481354-M.jpg", dune.CoverImage)

		anon := books[1]
		assert.Empty(t, anon.Authors)
		assert.NotNil(t, anon.Authors)
		assert.Nil(t, anon.CoverImageID)
		assert.Empty(t, anon.CoverImage)
	})

	t.Run("Empty Query Skips Request", func(t *testing.T) {
		called := false
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer server.Close()

		books := newTestCatalog(t, server.URL, nil).Search(ctx, "   ", 10)
		assert.Empty(t, books)
		assert.NotNil(t, books)
		assert.False(t, called)
	})

	t.Run("Degrades To Empty", func(t *testing.T) {
		tests := map[string]http.HandlerFunc{
			"server error": func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			"bad json": func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "{not json")
			},
		}

		for name, handler := range tests {
			t.Run(name, func(t *testing.T) {
				server := httptest.NewServer(handler)
				defer server.Close()

				books := newTestCatalog(t, server.URL, nil).Search(ctx, "dune", 10)
				assert.NotNil(t, books)
				assert.Empty(t, books)
			})
		}

		t.Run("transport error", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
			books := newTestCatalog(t, "http://catalog.invalid", client).Search(ctx, "dune", 10)
			assert.Empty(t, books)
		})

		t.Run("canceled context", func(t *testing.T) {
			canceled, cancel := context.WithCancel(ctx)
			cancel()
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("unreachable"))}
			books := newTestCatalog(t, "http://catalog.invalid", client).Search(canceled, "dune", 10)
			assert.Empty(t, books)
		})
	})

	t.Run("Default Limit", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "10", r.URL.Query().Get("limit"))
			fmt.Fprint(w, `{"docs":[]}`)
		}))
		defer server.Close()

		newTestCatalog(t, server.URL, nil).Search(ctx, "dune", 0)
	})
}

func TestOpenLibraryTrending(t *testing.T) {
	var query, limit string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("q")
		limit = r.URL.Query().Get("limit")
		fmt.Fprint(w, searchFixture)
	}))
	defer server.Close()

	catalog := newTestCatalog(t, server.URL, nil)
	catalog.pick = func(n int) int { return n - 1 }

	books := catalog.Trending(context.Background(), 0)
	assert.Len(t, books, 2)
	assert.Equal(t, "science", query)
	assert.Equal(t, "6", limit)
}

func TestCoverImageURL(t *testing.T) {
	catalog := newTestCatalog(t, "", nil)

	tests := []struct {
		id   int
		size CoverSize
		want string
	}{
		{8739161, CoverLarge, "https://covers.example.com/b/id/8739161-L.jpg"},
		{8739161, CoverSmall, "https://covers.example.com/b/id/8739161-S.jpg"},
		{8739161, "XL", "https://covers.example.com/b/id/8739161-M.jpg"},
		{0, CoverMedium, ""},
		{-4, CoverMedium, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, catalog.CoverImageURL(tt.id, tt.size))
	}

	assert.Equal(t, "https://openlibrary.org", catalog.baseURL)
}
