package models

// CatalogBook is a search result from the external book catalog.
// Optional fields are nil when the catalog does not report them.
type CatalogBook struct {
	ExternalID   string   `json:"id"`
	Title        string   `json:"title"`
	Authors      []string `json:"authors"`
	CoverImageID *int     `json:"cover_i,omitempty"`
	CoverImage   string   `json:"cover_image,omitempty"`
	Year         *int     `json:"first_publish_year,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
}

// Author returns the first listed author, or "" when there is none.
func (b CatalogBook) Author() string {
	if len(b.Authors) == 0 {
		return ""
	}
	return b.Authors[0]
}
