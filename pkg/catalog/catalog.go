// Package catalog talks to the external product catalogs the storefront
// aggregates. Each client normalizes its catalog's wire format into
// model.Product and tags every product with its source, since the catalogs
// reuse identifiers.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/storify/storify-backend/internal/app/model"
	"golang.org/x/sync/errgroup"
)

// Client is one external catalog.
type Client interface {
	// Source returns the tag stamped on every product from this catalog.
	Source() string
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
}

// Reader aggregates the configured catalogs.
type Reader struct {
	clients []Client
}

// NewReader builds a reader over the given catalogs. Aggregated listings
// keep the clients' order.
func NewReader(clients ...Client) *Reader {
	return &Reader{clients: clients}
}

// ListAll fetches every catalog in parallel and concatenates the results in
// client order. Any single catalog failure fails the whole fetch.
func (r *Reader) ListAll(ctx context.Context) ([]model.Product, error) {
	results := make([][]model.Product, len(r.clients))

	g, gctx := errgroup.WithContext(ctx)
	for i, client := range r.clients {
		i, client := i, client
		g.Go(func() error {
			products, err := client.ListProducts(gctx)
			if err != nil {
				return fmt.Errorf("%s: %w", client.Source(), err)
			}
			results[i] = products
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var combined []model.Product
	for _, products := range results {
		combined = append(combined, products...)
	}
	return combined, nil
}

// Get looks a product up by (source, id). An empty or unrecognized source
// falls back to trying each catalog in order, matching how the storefront's
// detail page resolves bare identifiers.
func (r *Reader) Get(ctx context.Context, source string, id int64) (*model.Product, error) {
	for _, client := range r.clients {
		if client.Source() == source {
			return client.GetProduct(ctx, id)
		}
	}

	if source != "" && source != model.SourceUnknown {
		return nil, ErrUnknownSource
	}

	for _, client := range r.clients {
		product, err := client.GetProduct(ctx, id)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, ErrNotFound
}

// newHTTPClient is shared by the catalog clients.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
	}
}

// getJSON performs a GET against a catalog endpoint and decodes the body.
// A 404 maps to ErrNotFound.
func getJSON(ctx context.Context, httpClient *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}
	if len(body) == 0 || string(body) == "null" {
		// fakestoreapi answers missing products with an empty 200
		return ErrNotFound
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
