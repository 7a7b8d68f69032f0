package catalog

import (
	"context"
	"fmt"
	"net/http"

	"github.com/storify/storify-backend/internal/app/model"
)

// FakeStoreClient reads the fakestoreapi.com catalog.
type FakeStoreClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewFakeStoreClient(baseURL string) *FakeStoreClient {
	return &FakeStoreClient{
		baseURL:    baseURL,
		httpClient: newHTTPClient(),
	}
}

func (c *FakeStoreClient) Source() string {
	return model.SourceFakeStore
}

// fakeStoreProduct is the catalog's wire format.
type fakeStoreProduct struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      struct {
		Rate  float64 `json:"rate"`
		Count int     `json:"count"`
	} `json:"rating"`
}

func (c *FakeStoreClient) ListProducts(ctx context.Context) ([]model.Product, error) {
	var resp []fakeStoreProduct
	url := fmt.Sprintf("%s/products", c.baseURL)
	if err := getJSON(ctx, c.httpClient, url, &resp); err != nil {
		return nil, fmt.Errorf("failed to list fakestore products: %w", err)
	}

	products := make([]model.Product, 0, len(resp))
	for _, p := range resp {
		products = append(products, c.normalize(p))
	}
	return products, nil
}

func (c *FakeStoreClient) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	var p fakeStoreProduct
	url := fmt.Sprintf("%s/products/%d", c.baseURL, id)
	if err := getJSON(ctx, c.httpClient, url, &p); err != nil {
		return nil, err
	}

	product := c.normalize(p)
	return &product, nil
}

func (c *FakeStoreClient) normalize(p fakeStoreProduct) model.Product {
	return model.Product{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Image:       p.Image,
		Rating:      p.Rating.Rate,
		Source:      model.SourceFakeStore,
	}
}
