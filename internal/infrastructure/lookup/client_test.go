package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailscan/backend/internal/domain/shared"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(server.URL, 5*time.Second, nil)
	return client, server
}

func TestClientFetchSuccess(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fetch-product", r.URL.Path)
		assert.Equal(t, "4000417025005", r.URL.Query().Get("barcode"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"name": "Milk 1L",
			"price": "12,50",
			"image": "https://img.example.com/milk.jpg",
			"category": "Dairy",
			"isInStock": true,
			"quantity": "1L"
		}`))
	})
	defer server.Close()

	result, err := client.Fetch(context.Background(), "4000417025005")
	require.NoError(t, err)
	assert.Equal(t, "Milk 1L", result.Name)
	assert.Equal(t, "12,50", result.Price)
	assert.Equal(t, "https://img.example.com/milk.jpg", result.ImageURL)
	assert.Equal(t, "Dairy", result.Category)
	assert.True(t, result.InStock)
	require.NotNil(t, result.Quantity)
	assert.Equal(t, "1L", *result.Quantity)
}

func TestClientFetchFlatBodyWithoutOptionalFields(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"Soap Bar","price":"3,99","category":"","isInStock":false,"quantity":null}`))
	})
	defer server.Close()

	result, err := client.Fetch(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "Soap Bar", result.Name)
	assert.Equal(t, "3,99", result.Price)
	assert.Empty(t, result.ImageURL)
	assert.False(t, result.InStock)
	assert.Nil(t, result.Quantity)
}

func TestClientFetchNotFound(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer server.Close()

	_, err := client.Fetch(context.Background(), "0000000000000")
	assert.ErrorIs(t, err, shared.ErrNotAvailable)
}

func TestClientFetchNotAvailableFlag(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"notAvailable": true}`))
	})
	defer server.Close()

	_, err := client.Fetch(context.Background(), "0000000000000")
	assert.ErrorIs(t, err, shared.ErrNotAvailable)
}

func TestClientFetchEmptyPayload(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	defer server.Close()

	_, err := client.Fetch(context.Background(), "123")
	assert.ErrorIs(t, err, shared.ErrNotAvailable)
}

func TestClientFetchServerError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	_, err := client.Fetch(context.Background(), "123")
	assert.ErrorIs(t, err, shared.ErrLookupFailed)
	assert.NotErrorIs(t, err, shared.ErrNotAvailable)
}

func TestClientFetchMalformedBody(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	})
	defer server.Close()

	_, err := client.Fetch(context.Background(), "123")
	assert.ErrorIs(t, err, shared.ErrLookupFailed)
}

func TestClientFetchTransportError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {})
	server.Close() // connection refused from here on

	_, err := client.Fetch(context.Background(), "123")
	assert.ErrorIs(t, err, shared.ErrLookupFailed)
}

func TestClientFetchContextCancelled(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.Fetch(ctx, "123")
	assert.ErrorIs(t, err, shared.ErrLookupFailed)
}
