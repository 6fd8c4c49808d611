// Open Library [Catalog] implementation
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultOpenLibraryURL = "https://openlibrary.org"
	defaultCoversURL      = "https://covers.openlibrary.org"
	DefaultSearchLimit    = 10
	DefaultTrendingLimit  = 6
	maxSearchLimit        = 100
)

// TrendingKeywords are the subjects [OpenLibraryService.Trending] picks from.
var TrendingKeywords = []string{"fiction", "history", "mystery", "fantasy", "science"}

// CoverSize selects an Open Library cover rendition.
type CoverSize string

const (
	CoverSmall  CoverSize = "S"
	CoverMedium CoverSize = "M"
	CoverLarge  CoverSize = "L"
)

// OpenLibraryDoc is one entry of the "docs" array in a search.json response.
type OpenLibraryDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	CoverI           *int     `json:"cover_i"`
	FirstPublishYear *int     `json:"first_publish_year"`
	RatingsAverage   *float64 `json:"ratings_average"`
}

type openLibrarySearchResponse struct {
	NumFound int              `json:"numFound"`
	Docs     []OpenLibraryDoc `json:"docs"`
}

// OpenLibraryService implements [Catalog] for Open Library.
type OpenLibraryService struct {
	baseURL      string
	coversURL    string
	defaultLimit int
	httpClient   *http.Client
	limiter      *rate.Limiter
	logger       *log.Logger
	pick         func(n int) int
}

// NewOpenLibraryService creates a catalog client from cfg.
// A non-positive rate limit disables throttling.
func NewOpenLibraryService(cfg shared.CatalogConfig, client *http.Client, logger *log.Logger) *OpenLibraryService {
	if client == nil {
		timeout := cfg.Timeout.Duration
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	o := &OpenLibraryService{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		coversURL:    strings.TrimRight(cfg.CoversURL, "/"),
		defaultLimit: cfg.SearchLimit,
		httpClient:   client,
		limiter:      rate.NewLimiter(limit, 1),
		logger:       shared.WithLogger(logger, "component", "catalog"),
		pick:         rand.IntN,
	}
	if o.baseURL == "" {
		o.baseURL = defaultOpenLibraryURL
	}
	if o.coversURL == "" {
		o.coversURL = defaultCoversURL
	}
	if o.defaultLimit <= 0 {
		o.defaultLimit = DefaultSearchLimit
	}
	return o
}

// Search queries GET {base}/search.json?q=<query>&limit=<n>.
func (o *OpenLibraryService) Search(ctx context.Context, query string, limit int) []models.CatalogBook {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.CatalogBook{}
	}
	if limit <= 0 {
		limit = o.defaultLimit
	}
	limit = min(limit, maxSearchLimit)

	docs, err := o.search(ctx, query, limit)
	if err != nil {
		o.logger.Warn("catalog search failed", "query", query, "error", err)
		return []models.CatalogBook{}
	}

	books := make([]models.CatalogBook, 0, len(docs))
	for _, doc := range docs {
		books = append(books, o.toCatalogBook(doc))
	}
	return books
}

// Trending searches a random keyword from [TrendingKeywords].
func (o *OpenLibraryService) Trending(ctx context.Context, limit int) []models.CatalogBook {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	keyword := TrendingKeywords[o.pick(len(TrendingKeywords))]
	return o.Search(ctx, keyword, limit)
}

// CoverImageURL returns the cover URL for coverID, or "" when there is no cover.
// Unknown sizes fall back to [CoverMedium].
func (o *OpenLibraryService) CoverImageURL(coverID int, size CoverSize) string {
	if coverID <= 0 {
		return ""
	}
	switch size {
	case CoverSmall, CoverMedium, CoverLarge:
	default:
		size = CoverMedium
	}
	return fmt.Sprintf("%s/b/id/%d-%s.jpg", o.coversURL, coverID, size)
}

func (o *OpenLibraryService) search(ctx context.Context, query string, limit int) ([]OpenLibraryDoc, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))

	var result openLibrarySearchResponse
	if err := o.doRequest(ctx, "/search.json?"+params.Encode(), &result); err != nil {
		return nil, err
	}

	if len(result.Docs) > limit {
		result.Docs = result.Docs[:limit]
	}
	return result.Docs, nil
}

func (o *OpenLibraryService) doRequest(ctx context.Context, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: open library status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (o *OpenLibraryService) toCatalogBook(doc OpenLibraryDoc) models.CatalogBook {
	book := models.CatalogBook{
		ExternalID:   doc.Key,
		Title:        doc.Title,
		Authors:      doc.AuthorName,
		CoverImageID: doc.CoverI,
		Year:         doc.FirstPublishYear,
		Rating:       doc.RatingsAverage,
	}
	if book.Authors == nil {
		book.Authors = []string{}
	}
	if doc.CoverI != nil {
		book.CoverImage = o.CoverImageURL(*doc.CoverI, CoverMedium)
	}
	return book
}
