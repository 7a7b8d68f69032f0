package catalog

import (
	"context"
	"fmt"
	"net/http"

	"github.com/storify/storify-backend/internal/app/model"
)

// DummyJSONClient reads the dummyjson.com catalog.
type DummyJSONClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewDummyJSONClient(baseURL string) *DummyJSONClient {
	return &DummyJSONClient{
		baseURL:    baseURL,
		httpClient: newHTTPClient(),
	}
}

func (c *DummyJSONClient) Source() string {
	return model.SourceDummyJSON
}

// dummyJSONProduct is the catalog's wire format.
type dummyJSONProduct struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Thumbnail   string   `json:"thumbnail"`
	Images      []string `json:"images"`
	Rating      float64  `json:"rating"`
}

type dummyJSONListResponse struct {
	Products []dummyJSONProduct `json:"products"`
	Total    int                `json:"total"`
	Skip     int                `json:"skip"`
	Limit    int                `json:"limit"`
}

func (c *DummyJSONClient) ListProducts(ctx context.Context) ([]model.Product, error) {
	var resp dummyJSONListResponse
	url := fmt.Sprintf("%s/products", c.baseURL)
	if err := getJSON(ctx, c.httpClient, url, &resp); err != nil {
		return nil, fmt.Errorf("failed to list dummyjson products: %w", err)
	}

	products := make([]model.Product, 0, len(resp.Products))
	for _, p := range resp.Products {
		products = append(products, c.normalize(p))
	}
	return products, nil
}

func (c *DummyJSONClient) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	var p dummyJSONProduct
	url := fmt.Sprintf("%s/products/%d", c.baseURL, id)
	if err := getJSON(ctx, c.httpClient, url, &p); err != nil {
		return nil, err
	}

	product := c.normalize(p)
	return &product, nil
}

func (c *DummyJSONClient) normalize(p dummyJSONProduct) model.Product {
	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0]
	}
	return model.Product{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Image:       image,
		Thumbnail:   p.Thumbnail,
		Rating:      p.Rating,
		Source:      model.SourceDummyJSON,
	}
}
