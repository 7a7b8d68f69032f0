package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/storify/storify-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dummyJSONListing = `{
	"products": [
		{
			"id": 1,
			"title": "iPhone 9",
			"description": "An apple mobile which is nothing like apple",
			"price": 549,
			"category": "smartphones",
			"thumbnail": "https://cdn.dummyjson.com/1/thumb.jpg",
			"images": ["https://cdn.dummyjson.com/1/a.jpg", "https://cdn.dummyjson.com/1/b.jpg"],
			"rating": 4.69
		},
		{
			"id": 2,
			"title": "iPhone X",
			"description": "SIM-Free, Model A19211",
			"price": 899,
			"category": "smartphones",
			"thumbnail": "https://cdn.dummyjson.com/2/thumb.jpg",
			"images": [],
			"rating": 4.44
		}
	],
	"total": 2,
	"skip": 0,
	"limit": 30
}`

const fakeStoreListing = `[
	{
		"id": 1,
		"title": "Fjallraven Backpack",
		"price": 109.95,
		"description": "Your perfect pack for everyday use",
		"category": "men's clothing",
		"image": "https://fakestoreapi.com/img/1.jpg",
		"rating": {"rate": 3.9, "count": 120}
	}
]`

func newDummyJSONServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(dummyJSONListing))
	})
	mux.HandleFunc("/products/1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 1, "title": "iPhone 9", "price": 549, "thumbnail": "https://cdn.dummyjson.com/1/thumb.jpg", "images": ["https://cdn.dummyjson.com/1/a.jpg"], "rating": 4.69}`))
	})
	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "Product not found"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newFakeStoreServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(fakeStoreListing))
	})
	mux.HandleFunc("/products/1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 1, "title": "Fjallraven Backpack", "price": 109.95, "image": "https://fakestoreapi.com/img/1.jpg", "rating": {"rate": 3.9, "count": 120}}`))
	})
	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		// fakestoreapi answers missing products with an empty 200 body
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestDummyJSONClient_ListProducts(t *testing.T) {
	server := newDummyJSONServer(t)
	client := NewDummyJSONClient(server.URL)

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, "iPhone 9", products[0].Title)
	assert.Equal(t, model.SourceDummyJSON, products[0].Source)
	assert.Equal(t, "https://cdn.dummyjson.com/1/a.jpg", products[0].Image)
	assert.Equal(t, "https://cdn.dummyjson.com/1/thumb.jpg", products[0].Thumbnail)

	// No images array entry means only the thumbnail is available.
	assert.Empty(t, products[1].Image)
	assert.Equal(t, "https://cdn.dummyjson.com/2/thumb.jpg", products[1].ImageURL())
}

func TestDummyJSONClient_GetProduct_NotFound(t *testing.T) {
	server := newDummyJSONServer(t)
	client := NewDummyJSONClient(server.URL)

	_, err := client.GetProduct(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFakeStoreClient_ListProducts(t *testing.T) {
	server := newFakeStoreServer(t)
	client := NewFakeStoreClient(server.URL)

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)

	assert.Equal(t, "Fjallraven Backpack", products[0].Title)
	assert.Equal(t, model.SourceFakeStore, products[0].Source)
	assert.Equal(t, 3.9, products[0].Rating)
	assert.Equal(t, "https://fakestoreapi.com/img/1.jpg", products[0].Image)
}

func TestFakeStoreClient_GetProduct_EmptyBodyIsNotFound(t *testing.T) {
	server := newFakeStoreServer(t)
	client := NewFakeStoreClient(server.URL)

	_, err := client.GetProduct(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReader_ListAll_ConcatenatesInClientOrder(t *testing.T) {
	dummy := newDummyJSONServer(t)
	fake := newFakeStoreServer(t)
	reader := NewReader(
		NewDummyJSONClient(dummy.URL),
		NewFakeStoreClient(fake.URL),
	)

	products, err := reader.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)

	assert.Equal(t, model.SourceDummyJSON, products[0].Source)
	assert.Equal(t, model.SourceDummyJSON, products[1].Source)
	assert.Equal(t, model.SourceFakeStore, products[2].Source)
}

func TestReader_ListAll_AnyFailureFailsTheFetch(t *testing.T) {
	dummy := newDummyJSONServer(t)

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(broken.Close)

	reader := NewReader(
		NewDummyJSONClient(dummy.URL),
		NewFakeStoreClient(broken.URL),
	)

	products, err := reader.ListAll(context.Background())
	assert.Error(t, err)
	assert.Nil(t, products)
}

func TestReader_Get_DispatchesBySource(t *testing.T) {
	dummy := newDummyJSONServer(t)
	fake := newFakeStoreServer(t)
	reader := NewReader(
		NewDummyJSONClient(dummy.URL),
		NewFakeStoreClient(fake.URL),
	)

	product, err := reader.Get(context.Background(), model.SourceFakeStore, 1)
	require.NoError(t, err)
	assert.Equal(t, "Fjallraven Backpack", product.Title)

	product, err = reader.Get(context.Background(), model.SourceDummyJSON, 1)
	require.NoError(t, err)
	assert.Equal(t, "iPhone 9", product.Title)
}

func TestReader_Get_UnknownSourceTriesEachCatalog(t *testing.T) {
	dummy := newDummyJSONServer(t)
	fake := newFakeStoreServer(t)
	reader := NewReader(
		NewDummyJSONClient(dummy.URL),
		NewFakeStoreClient(fake.URL),
	)

	// Bare identifiers resolve against the catalogs in order.
	product, err := reader.Get(context.Background(), "", 1)
	require.NoError(t, err)
	assert.Equal(t, model.SourceDummyJSON, product.Source)

	_, err = reader.Get(context.Background(), model.SourceUnknown, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReader_Get_UnrecognizedSource(t *testing.T) {
	dummy := newDummyJSONServer(t)
	reader := NewReader(NewDummyJSONClient(dummy.URL))

	_, err := reader.Get(context.Background(), "etsy", 1)
	assert.ErrorIs(t, err, ErrUnknownSource)
}
