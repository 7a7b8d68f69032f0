package model

// Catalog sources the storefront aggregates. Product identifiers are only
// unique within a single source.
const (
	SourceDummyJSON = "dummyjson"
	SourceFakeStore = "fakestore"
	SourceUnknown   = "unknown"
)

// Product is a normalized catalog entry from one of the external catalogs.
// It is never stored; the cart keeps its own snapshot of the fields it needs.
type Product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
	Image       string  `json:"image,omitempty"`
	Thumbnail   string  `json:"thumbnail,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	Source      string  `json:"source"`
}

// ImageURL returns the display image, preferring the full image over the
// thumbnail. Empty when the source product carried neither.
func (p Product) ImageURL() string {
	if p.Image != "" {
		return p.Image
	}
	return p.Thumbnail
}
